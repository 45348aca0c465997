package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provchain/block"
	"provchain/db"
	"provchain/errors"
	"provchain/types"
)

func newTestBlockStore(t *testing.T) BlockStore {
	t.Helper()
	provider := db.NewMemoryProvider().(db.IterableProvider)
	bs, err := NewGenericBlockStore(provider)
	require.NoError(t, err)
	return bs
}

func TestBlockStorePutGet(t *testing.T) {
	bs := newTestBlockStore(t)
	b := block.NewStagingBlock(nil)

	require.NoError(t, bs.Put(b))

	got, err := bs.Get(b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, block.StatusHibernating, got.Status)
}

func TestBlockStoreUpdateIfStatus(t *testing.T) {
	bs := newTestBlockStore(t)
	b := block.NewStagingBlock(nil)
	require.NoError(t, bs.Put(b))

	updated, err := bs.UpdateIfStatus(b.ID, block.StatusHibernating, func(b *block.Block) error {
		b.Status = block.StatusPending
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, block.StatusPending, updated.Status)

	// stale expectation loses the conditional write
	_, err = bs.UpdateIfStatus(b.ID, block.StatusHibernating, func(b *block.Block) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	_, err = bs.UpdateIfStatus("missing", block.StatusHibernating, func(b *block.Block) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestBlockStoreCommitInChain(t *testing.T) {
	bs := newTestBlockStore(t)

	genesis := block.NewGenesisBlock()
	require.NoError(t, bs.PutCommitted(genesis))

	r := types.NewTransactionRecord("a", "b", "1")
	r.Status = types.RecordStatusInBlock
	staged := block.NewStagingBlock([]types.Record{*r})
	staged.Status = block.StatusApproved
	require.NoError(t, bs.Put(staged))

	committed, err := bs.CommitInChain(staged.ID, block.StatusApproved, 1, genesis.Hash)
	require.NoError(t, err)
	assert.Equal(t, block.StatusInChain, committed.Status)
	assert.Equal(t, uint64(1), committed.SequenceNumber)
	assert.Equal(t, genesis.Hash, committed.PrevHash)
	assert.Equal(t, block.Recompute(committed), committed.Hash)

	bySeq, err := bs.BySequence(1)
	require.NoError(t, err)
	require.NotNil(t, bySeq)
	assert.Equal(t, staged.ID, bySeq.ID)

	latest, ok, err := bs.LatestInChain()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), latest)

	// a second commit attempt finds the block no longer approved
	_, err = bs.CommitInChain(staged.ID, block.StatusApproved, 2, committed.Hash)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestBlockStoreByStatus(t *testing.T) {
	bs := newTestBlockStore(t)
	hibernating := block.NewStagingBlock(nil)
	pending := block.NewStagingBlock(nil)
	pending.Status = block.StatusPending
	require.NoError(t, bs.Put(hibernating))
	require.NoError(t, bs.Put(pending))

	got, err := bs.ByStatus(block.StatusPending)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)
}

func TestBlockStoreStagingID(t *testing.T) {
	bs := newTestBlockStore(t)

	id, err := bs.StagingID()
	require.NoError(t, err)
	assert.Equal(t, "", id)

	require.NoError(t, bs.SetStagingID("abc"))
	id, err = bs.StagingID()
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestBlockStoreLatestInChainEmpty(t *testing.T) {
	bs := newTestBlockStore(t)

	_, ok, err := bs.LatestInChain()
	require.NoError(t, err)
	assert.False(t, ok)
}
