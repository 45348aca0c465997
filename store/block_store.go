package store

import (
	"encoding/binary"
	"fmt"
	"sync"

	"provchain/block"
	"provchain/db"
	"provchain/errors"
	"provchain/jsonx"
	"provchain/logx"
)

// BlockStore abstracts the block storage backend. Every transition-producing
// write goes through a conditional update keyed on the current block status,
// so a losing concurrent request observes a conflict instead of silently
// corrupting state.
type BlockStore interface {
	Put(b *block.Block) error
	Get(id string) (*block.Block, error)
	BySequence(seq uint64) (*block.Block, error)
	ByStatus(status block.Status) ([]*block.Block, error)
	// UpdateIfStatus applies mutate to the stored block only if its status
	// still equals expect, and persists the result. Status mismatch returns
	// a conflict error; a missing block returns not-found.
	UpdateIfStatus(id string, expect block.Status, mutate func(*block.Block) error) (*block.Block, error)
	// CommitInChain conditionally seals the block at the given chain position
	// and moves it to in_chain, writing block, sequence index and chain meta
	// in a single atomic batch.
	CommitInChain(id string, expect block.Status, sequence uint64, prevHash string) (*block.Block, error)
	// PutCommitted stores an already in-chain block (genesis bootstrap only).
	PutCommitted(b *block.Block) error
	// LatestInChain returns the highest committed sequence number, ok=false
	// when the chain is still empty.
	LatestInChain() (uint64, bool, error)
	StagingID() (string, error)
	SetStagingID(id string) error
	MustClose()
}

// GenericBlockStore is a database-agnostic implementation over DatabaseProvider.
type GenericBlockStore struct {
	provider db.IterableProvider
	mu       sync.RWMutex
}

// NewGenericBlockStore creates a block store backed by the given provider
func NewGenericBlockStore(provider db.IterableProvider) (BlockStore, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	return &GenericBlockStore{provider: provider}, nil
}

func blockKey(id string) []byte {
	return []byte(PrefixBlock + id)
}

// seqToIndexKey converts a sequence number to its index key
func seqToIndexKey(seq uint64) []byte {
	key := make([]byte, len(PrefixBlockSeq)+8)
	copy(key, PrefixBlockSeq)
	binary.BigEndian.PutUint64(key[len(PrefixBlockSeq):], seq)
	return key
}

func metaKey(name string) []byte {
	return []byte(PrefixBlockMeta + name)
}

func (s *GenericBlockStore) Put(b *block.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(b)
}

func (s *GenericBlockStore) put(b *block.Block) error {
	value, err := jsonx.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal block %s: %w", b.ID, err)
	}
	return s.provider.Put(blockKey(b.ID), value)
}

func (s *GenericBlockStore) Get(id string) (*block.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

func (s *GenericBlockStore) get(id string) (*block.Block, error) {
	value, err := s.provider.Get(blockKey(id))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	var b block.Block
	if err := jsonx.Unmarshal(value, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal block %s: %w", id, err)
	}
	return &b, nil
}

// BySequence resolves a committed block through the sequence index.
func (s *GenericBlockStore) BySequence(seq uint64) (*block.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, err := s.provider.Get(seqToIndexKey(seq))
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, nil
	}
	return s.get(string(id))
}

// ByStatus scans all blocks and returns the ones with the given status.
func (s *GenericBlockStore) ByStatus(status block.Status) ([]*block.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*block.Block
	var scanErr error
	err := s.provider.IteratePrefix([]byte(PrefixBlock), func(key, value []byte) bool {
		var b block.Block
		if err := jsonx.Unmarshal(value, &b); err != nil {
			scanErr = fmt.Errorf("failed to unmarshal block at %s: %w", string(key), err)
			return false
		}
		if b.Status == status {
			out = append(out, &b)
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

func (s *GenericBlockStore) UpdateIfStatus(id string, expect block.Status, mutate func(*block.Block) error) (*block.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.NewError(errors.ErrCodeBlockNotFound, errors.ErrMsgBlockNotFound)
	}
	if b.Status != expect {
		return nil, errors.NewError(errors.ErrCodeConflict,
			fmt.Sprintf("block %s is %s, expected %s", id, b.Status, expect))
	}
	if err := mutate(b); err != nil {
		return nil, err
	}
	if err := s.put(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *GenericBlockStore) CommitInChain(id string, expect block.Status, sequence uint64, prevHash string) (*block.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.NewError(errors.ErrCodeBlockNotFound, errors.ErrMsgBlockNotFound)
	}
	if b.Status != expect {
		return nil, errors.NewError(errors.ErrCodeConflict,
			fmt.Sprintf("block %s is %s, expected %s", id, b.Status, expect))
	}

	b.Seal(sequence, prevHash)
	b.Status = block.StatusInChain
	return b, s.writeCommitted(b)
}

func (s *GenericBlockStore) PutCommitted(b *block.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Status != block.StatusInChain {
		return fmt.Errorf("block %s is not in chain", b.ID)
	}
	return s.writeCommitted(b)
}

// writeCommitted writes block body, sequence index and latest-sequence meta in
// one batch, so a crash cannot leave the index behind the block.
func (s *GenericBlockStore) writeCommitted(b *block.Block) error {
	value, err := jsonx.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal block %s: %w", b.ID, err)
	}

	seqValue := make([]byte, 8)
	binary.BigEndian.PutUint64(seqValue, b.SequenceNumber)

	txm := db.NewDBTxManager(s.provider)
	return txm.WithBatch(func(batch db.DatabaseBatch) error {
		batch.Put(blockKey(b.ID), value)
		batch.Put(seqToIndexKey(b.SequenceNumber), []byte(b.ID))
		batch.Put(metaKey(BlockMetaKeyLatestInChain), seqValue)
		return nil
	})
}

func (s *GenericBlockStore) LatestInChain() (uint64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, err := s.provider.Get(metaKey(BlockMetaKeyLatestInChain))
	if err != nil {
		return 0, false, err
	}
	if value == nil {
		return 0, false, nil
	}
	if len(value) != 8 {
		return 0, false, fmt.Errorf("invalid latest in-chain value length: %d", len(value))
	}
	return binary.BigEndian.Uint64(value), true, nil
}

func (s *GenericBlockStore) StagingID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, err := s.provider.Get(metaKey(BlockMetaKeyStaging))
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func (s *GenericBlockStore) SetStagingID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.Put(metaKey(BlockMetaKeyStaging), []byte(id))
}

func (s *GenericBlockStore) MustClose() {
	if err := s.provider.Close(); err != nil {
		logx.Error("BLOCKSTORE", "Failed to close provider:", err)
	}
}
