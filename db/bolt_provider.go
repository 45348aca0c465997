package db

import (
	"bytes"
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("provchain")

// BoltProvider implements DatabaseProvider on top of a single bbolt bucket.
type BoltProvider struct {
	once sync.Once
	db   *bolt.DB
}

// NewBoltProvider opens (or creates) the bolt database file at path.
func NewBoltProvider(path string) (DatabaseProvider, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &BoltProvider{db: db}, nil
}

func (p *BoltProvider) Get(key []byte) ([]byte, error) {
	var value []byte
	err := p.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltBucket).Get(key)
		if v != nil {
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	return value, err
}

func (p *BoltProvider) GetBatch(keys [][]byte) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	err := p.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket)
		for _, key := range keys {
			if v := b.Get(key); v != nil {
				cp := make([]byte, len(v))
				copy(cp, v)
				result[string(key)] = cp
			}
		}
		return nil
	})
	return result, err
}

func (p *BoltProvider) Put(key, value []byte) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put(key, value)
	})
}

func (p *BoltProvider) Delete(key []byte) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete(key)
	})
}

func (p *BoltProvider) Has(key []byte) (bool, error) {
	var exists bool
	err := p.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(boltBucket).Get(key) != nil
		return nil
	})
	return exists, err
}

func (p *BoltProvider) Close() error {
	var err error
	p.once.Do(func() {
		err = p.db.Close()
	})
	return err
}

func (p *BoltProvider) Batch() DatabaseBatch {
	return &boltBatch{db: p.db}
}

// IteratePrefix iterates key-value pairs with the given prefix in key order.
func (p *BoltProvider) IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error {
	return p.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(boltBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if !callback(k, v) {
				break
			}
		}
		return nil
	})
}

type boltOp struct {
	key    []byte
	value  []byte
	delete bool
}

// boltBatch buffers writes and commits them in one update transaction.
type boltBatch struct {
	db  *bolt.DB
	ops []boltOp
}

func (b *boltBatch) Put(key, value []byte) {
	k := make([]byte, len(key))
	copy(k, key)
	v := make([]byte, len(value))
	copy(v, value)
	b.ops = append(b.ops, boltOp{key: k, value: v})
}

func (b *boltBatch) Delete(key []byte) {
	k := make([]byte, len(key))
	copy(k, key)
	b.ops = append(b.ops, boltOp{key: k, delete: true})
}

func (b *boltBatch) Write() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		for _, op := range b.ops {
			if op.delete {
				if err := bucket.Delete(op.key); err != nil {
					return err
				}
				continue
			}
			if err := bucket.Put(op.key, op.value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *boltBatch) Reset() {
	b.ops = b.ops[:0]
}

func (b *boltBatch) Close() {
	b.ops = nil
}
