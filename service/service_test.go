package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provchain/block"
	"provchain/config"
	"provchain/consensus"
	"provchain/errors"
	"provchain/ledger"
	"provchain/mempool"
	"provchain/store"
	"provchain/types"
	"provchain/validator"
)

type services struct {
	chain  *ChainServiceImpl
	record *RecordServiceImpl
}

func newServices(t *testing.T) *services {
	t.Helper()
	records, blocks, err := store.CreateStore(&store.StoreConfig{Type: store.MemoryStoreType})
	require.NoError(t, err)

	cfg := config.ChainConfig{BatchSize: 2, ApprovalThreshold: 0.66}
	reg := validator.NewRegistry()
	for _, id := range []string{"v1", "v2", "v3"} {
		require.NoError(t, reg.Register(validator.Validator{ID: id}))
	}

	pool := mempool.NewMempool()
	ld := ledger.NewLedger(cfg, blocks, records, pool)
	engine := consensus.NewEngine(cfg, blocks, reg, ld)
	return &services{
		chain:  NewChainService(ld, engine, blocks),
		record: NewRecordService(records, pool, ld),
	}
}

func TestRecordLifecycleToChain(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	r1, err := s.record.SubmitTransaction(ctx, "alice", "bob", "10")
	require.NoError(t, err)
	assert.Equal(t, types.RecordStatusCreated, r1.Status)

	r2, err := s.record.SubmitEvent(ctx, "pallet-7", "shipped", "rotterdam", "acme")
	require.NoError(t, err)

	// approval pulls the records straight into the hibernating staging block
	approved1, err := s.record.ApproveRecord(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RecordStatusInBlock, approved1.Status)
	_, err = s.record.ApproveRecord(ctx, r2.ID)
	require.NoError(t, err)

	waiting, err := s.chain.GetWaitingBlock(ctx)
	require.NoError(t, err)
	require.NotNil(t, waiting)
	require.Len(t, waiting.Records, 2)

	pending, err := s.chain.ActivateBlock(ctx, waiting.ID)
	require.NoError(t, err)
	assert.Equal(t, block.StatusPending, pending.Status)

	_, err = s.chain.CastVote(ctx, consensus.NewVote(pending.ID, "v1", true))
	require.NoError(t, err)
	result, err := s.chain.CastVote(ctx, consensus.NewVote(pending.ID, "v2", true))
	require.NoError(t, err)
	assert.Equal(t, consensus.MsgBlockCommitted, result.Message)
	assert.Equal(t, block.StatusInChain, result.Block.Status)

	final, err := s.record.GetRecord(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RecordStatusInChain, final.Status)

	audit, err := s.chain.ValidateChain(ctx)
	require.NoError(t, err)
	assert.True(t, audit.IsValid)
	assert.Len(t, audit.Chain, 2)
}

func TestApproveRecordTwice(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	r, err := s.record.SubmitTransaction(ctx, "alice", "bob", "10")
	require.NoError(t, err)

	_, err = s.record.ApproveRecord(ctx, r.ID)
	require.NoError(t, err)

	_, err = s.record.ApproveRecord(ctx, r.ID)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestGetRecordNotFound(t *testing.T) {
	s := newServices(t)

	_, err := s.record.GetRecord(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetBlockBySequenceOrID(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	genesis, err := s.chain.GetBlock(ctx, "0")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), genesis.SequenceNumber)

	byID, err := s.chain.GetBlock(ctx, genesis.ID)
	require.NoError(t, err)
	assert.Equal(t, genesis.ID, byID.ID)

	_, err = s.chain.GetBlock(ctx, "does-not-exist")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestValidateBlockService(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	ok, err := s.chain.ValidateBlock(ctx, "0")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListRecordsByStatus(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	r, err := s.record.SubmitTransaction(ctx, "alice", "bob", "10")
	require.NoError(t, err)
	_, err = s.record.SubmitEvent(ctx, "pallet-7", "sealed", "", "")
	require.NoError(t, err)

	created, err := s.record.ListRecords(ctx, types.RecordStatusCreated)
	require.NoError(t, err)
	assert.Len(t, created, 2)

	_, err = s.record.ApproveRecord(ctx, r.ID)
	require.NoError(t, err)

	created, err = s.record.ListRecords(ctx, types.RecordStatusCreated)
	require.NoError(t, err)
	assert.Len(t, created, 1)
}
