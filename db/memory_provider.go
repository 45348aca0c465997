package db

import (
	"sort"
	"strings"
	"sync"
)

// MemoryProvider is an in-process DatabaseProvider used by tests and by the
// memory store type. Iteration visits keys in ascending order to match the
// on-disk providers.
type MemoryProvider struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryProvider() DatabaseProvider {
	return &MemoryProvider{data: make(map[string][]byte)}
}

func (p *MemoryProvider) Get(key []byte) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.data[string(key)]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (p *MemoryProvider) GetBatch(keys [][]byte) (map[string][]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if v, ok := p.data[string(key)]; ok {
			cp := make([]byte, len(v))
			copy(cp, v)
			result[string(key)] = cp
		}
	}
	return result, nil
}

func (p *MemoryProvider) Put(key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	p.data[string(key)] = cp
	return nil
}

func (p *MemoryProvider) Delete(key []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, string(key))
	return nil
}

func (p *MemoryProvider) Has(key []byte) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.data[string(key)]
	return ok, nil
}

func (p *MemoryProvider) Close() error {
	return nil
}

func (p *MemoryProvider) Batch() DatabaseBatch {
	return &memoryBatch{provider: p}
}

func (p *MemoryProvider) IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error {
	p.mu.RLock()
	keys := make([]string, 0)
	for k := range p.data {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = p.data[k]
	}
	p.mu.RUnlock()

	for i, k := range keys {
		if !callback([]byte(k), values[i]) {
			break
		}
	}
	return nil
}

type memoryBatch struct {
	provider *MemoryProvider
	ops      []boltOp
}

func (b *memoryBatch) Put(key, value []byte) {
	k := make([]byte, len(key))
	copy(k, key)
	v := make([]byte, len(value))
	copy(v, value)
	b.ops = append(b.ops, boltOp{key: k, value: v})
}

func (b *memoryBatch) Delete(key []byte) {
	k := make([]byte, len(key))
	copy(k, key)
	b.ops = append(b.ops, boltOp{key: k, delete: true})
}

func (b *memoryBatch) Write() error {
	b.provider.mu.Lock()
	defer b.provider.mu.Unlock()
	for _, op := range b.ops {
		if op.delete {
			delete(b.provider.data, string(op.key))
			continue
		}
		b.provider.data[string(op.key)] = op.value
	}
	return nil
}

func (b *memoryBatch) Reset() {
	b.ops = b.ops[:0]
}

func (b *memoryBatch) Close() {
	b.ops = nil
}
