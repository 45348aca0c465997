package mempool

import (
	"sync"

	"provchain/logx"
	"provchain/store"
	"provchain/types"
)

// Mempool is the thread-safe waiting pool of approved-but-unplaced record IDs.
// The block factory drains it batch by batch when staging new blocks.
type Mempool struct {
	mu   sync.Mutex
	ids  []string
	seen map[string]struct{}
}

// NewMempool creates a new, empty pool.
func NewMempool() *Mempool {
	return &Mempool{
		ids:  make([]string, 0),
		seen: make(map[string]struct{}),
	}
}

// Reload rebuilds the pool from the record store: every record still in
// approved status is waiting for a block.
func (m *Mempool) Reload(records store.RecordStore) error {
	waiting, err := records.FindByStatus(types.RecordStatusApproved)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = m.ids[:0]
	m.seen = make(map[string]struct{}, len(waiting))
	for _, r := range waiting {
		m.ids = append(m.ids, r.ID)
		m.seen[r.ID] = struct{}{}
	}
	logx.Info("MEMPOOL", "reloaded waiting pool, size=", len(m.ids))
	return nil
}

// Add pushes a record ID into the pool. Duplicates are ignored.
func (m *Mempool) Add(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[id]; ok {
		return
	}
	m.ids = append(m.ids, id)
	m.seen[id] = struct{}{}
}

// Len returns the number of waiting records.
func (m *Mempool) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ids)
}

// GetBatch returns up to max record IDs without removing them.
func (m *Mempool) GetBatch(max int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ids) == 0 {
		return nil
	}
	if len(m.ids) < max {
		max = len(m.ids)
	}
	batch := make([]string, max)
	copy(batch, m.ids[:max])
	return batch
}

// RemoveBatch removes the first n record IDs from the pool.
func (m *Mempool) RemoveBatch(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n >= len(m.ids) {
		for _, id := range m.ids {
			delete(m.seen, id)
		}
		m.ids = m.ids[:0]
		return
	}
	for _, id := range m.ids[:n] {
		delete(m.seen, id)
	}
	m.ids = m.ids[n:]
}

// Remove drops a specific record ID wherever it sits in the pool.
func (m *Mempool) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[id]; !ok {
		return
	}
	delete(m.seen, id)
	for i, v := range m.ids {
		if v == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
}
