package store

import (
	"fmt"
	"sync"

	"provchain/db"
	"provchain/errors"
	"provchain/jsonx"
	"provchain/logx"
	"provchain/types"
)

// RecordStore holds individual records with their live status. It is pure
// storage: block semantics live in ledger and consensus, which are the only
// writers of record status during block transitions.
type RecordStore interface {
	Put(r *types.Record) error
	CreateFromBatch(records []*types.Record) error
	Get(id string) (*types.Record, error)
	FindByStatus(status types.RecordStatus) ([]*types.Record, error)
	// CompareAndSetStatus updates the record status only if it still has the
	// expected one; a mismatch returns a conflict error and writes nothing.
	CompareAndSetStatus(id string, expect, next types.RecordStatus) (*types.Record, error)
	MustClose()
}

// GenericRecordStore is a database-agnostic implementation over DatabaseProvider.
type GenericRecordStore struct {
	provider db.IterableProvider
	mu       sync.RWMutex
}

// NewGenericRecordStore creates a record store backed by the given provider
func NewGenericRecordStore(provider db.IterableProvider) (RecordStore, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	return &GenericRecordStore{provider: provider}, nil
}

func recordKey(id string) []byte {
	return []byte(PrefixRecord + id)
}

func (s *GenericRecordStore) Put(r *types.Record) error {
	if err := r.Validate(); err != nil {
		return errors.NewError(errors.ErrCodeInvalidRecord, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := jsonx.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", r.ID, err)
	}
	return s.provider.Put(recordKey(r.ID), value)
}

// CreateFromBatch stores a batch of records in one atomic write.
func (s *GenericRecordStore) CreateFromBatch(records []*types.Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return errors.NewError(errors.ErrCodeInvalidRecord, err.Error())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txm := db.NewDBTxManager(s.provider)
	return txm.WithBatch(func(batch db.DatabaseBatch) error {
		for _, r := range records {
			value, err := jsonx.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to marshal record %s: %w", r.ID, err)
			}
			batch.Put(recordKey(r.ID), value)
		}
		return nil
	})
}

func (s *GenericRecordStore) Get(id string) (*types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

func (s *GenericRecordStore) get(id string) (*types.Record, error) {
	value, err := s.provider.Get(recordKey(id))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	var r types.Record
	if err := jsonx.Unmarshal(value, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", id, err)
	}
	return &r, nil
}

// FindByStatus scans all records and returns the ones with the given status,
// in ascending key order.
func (s *GenericRecordStore) FindByStatus(status types.RecordStatus) ([]*types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*types.Record
	var scanErr error
	err := s.provider.IteratePrefix([]byte(PrefixRecord), func(key, value []byte) bool {
		var r types.Record
		if err := jsonx.Unmarshal(value, &r); err != nil {
			scanErr = fmt.Errorf("failed to unmarshal record at %s: %w", string(key), err)
			return false
		}
		if r.Status == status {
			out = append(out, &r)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return out, nil
}

func (s *GenericRecordStore) CompareAndSetStatus(id string, expect, next types.RecordStatus) (*types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.NewError(errors.ErrCodeRecordNotFound, errors.ErrMsgRecordNotFound)
	}
	if r.Status != expect {
		return nil, errors.NewError(errors.ErrCodeConflict,
			fmt.Sprintf("record %s is %s, expected %s", id, r.Status, expect))
	}
	r.Status = next

	value, err := jsonx.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record %s: %w", id, err)
	}
	if err := s.provider.Put(recordKey(id), value); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *GenericRecordStore) MustClose() {
	if err := s.provider.Close(); err != nil {
		logx.Error("RECORDSTORE", "Failed to close provider:", err)
	}
}
