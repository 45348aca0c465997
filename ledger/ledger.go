package ledger

import (
	"fmt"
	"sync"

	"provchain/block"
	"provchain/config"
	"provchain/errors"
	"provchain/logx"
	"provchain/mempool"
	"provchain/store"
	"provchain/types"
)

// Ledger is the block factory: it bootstraps the genesis block, keeps the
// single staging slot filled from the waiting pool, and commits approved
// blocks to the hash chain. All mutations are serialized through one mutex on
// top of the stores' conditional writes.
type Ledger struct {
	mu      sync.Mutex
	cfg     config.ChainConfig
	blocks  store.BlockStore
	records store.RecordStore
	pool    *mempool.Mempool
}

func NewLedger(cfg config.ChainConfig, blocks store.BlockStore, records store.RecordStore, pool *mempool.Mempool) *Ledger {
	return &Ledger{
		cfg:     cfg,
		blocks:  blocks,
		records: records,
		pool:    pool,
	}
}

// EnsureBootstrap lazily creates the genesis block and the first staging
// block. Safe to call on every read; it only acts when the chain is empty.
func (l *Ledger) EnsureBootstrap() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ensureBootstrapLocked()
}

func (l *Ledger) ensureBootstrapLocked() error {
	_, ok, err := l.blocks.LatestInChain()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	genesis := block.NewGenesisBlock()
	if err := l.blocks.PutCommitted(genesis); err != nil {
		return err
	}
	logx.Info("LEDGER", "created genesis block ", genesis.ID)

	_, err = l.stageNextLocked()
	return err
}

// Chain returns the committed chain ordered by ascending sequence number,
// bootstrapping genesis and the first staging block when the chain is empty.
func (l *Ledger) Chain() ([]*block.Block, error) {
	if err := l.EnsureBootstrap(); err != nil {
		return nil, err
	}

	latest, ok, err := l.blocks.LatestInChain()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewError(errors.ErrCodeInternal, "chain meta missing after bootstrap")
	}

	chain := make([]*block.Block, 0, latest+1)
	for seq := uint64(0); seq <= latest; seq++ {
		b, err := l.blocks.BySequence(seq)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, errors.NewError(errors.ErrCodeInternal,
				fmt.Sprintf("chain is not contiguous: sequence %d missing", seq))
		}
		chain = append(chain, b)
	}
	return chain, nil
}

// WaitingBlock returns the current hibernating or pending block.
func (l *Ledger) WaitingBlock() (*block.Block, error) {
	if err := l.EnsureBootstrap(); err != nil {
		return nil, err
	}
	id, err := l.blocks.StagingID()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return l.blocks.Get(id)
}

// FillStaging tops up a hibernating staging block from the waiting pool, up
// to the configured batch size. Pending blocks are left alone.
func (l *Ledger) FillStaging() (*block.Block, error) {
	if err := l.EnsureBootstrap(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fillStagingLocked()
}

func (l *Ledger) fillStagingLocked() (*block.Block, error) {
	id, err := l.blocks.StagingID()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	staging, err := l.blocks.Get(id)
	if err != nil {
		return nil, err
	}
	if staging == nil || staging.Status != block.StatusHibernating {
		return staging, nil
	}
	need := l.cfg.BatchSize - len(staging.Records)
	if need <= 0 {
		return staging, nil
	}

	snapshots := l.pullFromPool(need)
	if len(snapshots) == 0 {
		return staging, nil
	}

	updated, err := l.blocks.UpdateIfStatus(id, block.StatusHibernating, func(b *block.Block) error {
		b.Records = append(b.Records, snapshots...)
		return nil
	})
	if err != nil {
		// put the pulled records back so nothing is lost
		l.releaseToPool(snapshots)
		return nil, err
	}
	return updated, nil
}

// pullFromPool drains up to n records from the waiting pool, flipping each to
// in-block status, and returns their snapshots.
func (l *Ledger) pullFromPool(n int) []types.Record {
	ids := l.pool.GetBatch(n)
	snapshots := make([]types.Record, 0, len(ids))
	for _, rid := range ids {
		r, err := l.records.CompareAndSetStatus(rid, types.RecordStatusApproved, types.RecordStatusInBlock)
		if err != nil {
			logx.Warn("LEDGER", "dropping stale pool entry ", rid, ": ", err)
			l.pool.Remove(rid)
			continue
		}
		l.pool.Remove(rid)
		snapshots = append(snapshots, r.Snapshot())
	}
	return snapshots
}

func (l *Ledger) releaseToPool(snapshots []types.Record) {
	for _, snap := range snapshots {
		if _, err := l.records.CompareAndSetStatus(snap.ID, types.RecordStatusInBlock, types.RecordStatusApproved); err != nil {
			logx.Error("LEDGER", "failed to release record ", snap.ID, ": ", err)
			continue
		}
		l.pool.Add(snap.ID)
	}
}

// stageNextLocked creates the next hibernating block, pulling up to a full
// batch from the waiting pool, and makes it the staging slot.
func (l *Ledger) stageNextLocked() (*block.Block, error) {
	snapshots := l.pullFromPool(l.cfg.BatchSize)
	staging := block.NewStagingBlock(snapshots)
	if err := l.blocks.Put(staging); err != nil {
		l.releaseToPool(snapshots)
		return nil, err
	}
	if err := l.blocks.SetStagingID(staging.ID); err != nil {
		return nil, err
	}
	logx.Info("LEDGER", fmt.Sprintf("staged block %s with %d records", staging.ID, len(staging.Records)))
	return staging, nil
}

// Activate moves a full hibernating block to pending, opening it for votes.
// A block that does not hold a full batch fails with insufficient_records.
func (l *Ledger) Activate(blockID string) (*block.Block, error) {
	if err := l.EnsureBootstrap(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := l.blocks.Get(blockID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.NewError(errors.ErrCodeBlockNotFound, errors.ErrMsgBlockNotFound)
	}
	if b.Status != block.StatusHibernating {
		return nil, errors.NewError(errors.ErrCodeBadRequest,
			fmt.Sprintf("block %s is %s, only hibernating blocks can be activated", b.ID, b.Status))
	}

	// last chance to reach a full batch before the capacity check
	if _, err := l.fillStagingLocked(); err != nil {
		return nil, err
	}

	return l.blocks.UpdateIfStatus(blockID, block.StatusHibernating, func(b *block.Block) error {
		if len(b.Records) != l.cfg.BatchSize {
			return errors.NewError(errors.ErrCodeInsufficientRecords, errors.ErrMsgInsufficientRecords)
		}
		b.Status = block.StatusPending
		return nil
	})
}

// CommitApproved seals an approved block onto the chain: the final sequence
// number and previous hash become known only now. Record statuses propagate
// after the block write, so a crash mid-transition leaves records in-block,
// never falsely committed.
func (l *Ledger) CommitApproved(b *block.Block) (*block.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	latest, ok, err := l.blocks.LatestInChain()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewError(errors.ErrCodeInternal, "cannot commit: chain is empty")
	}
	prev, err := l.blocks.BySequence(latest)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, errors.NewError(errors.ErrCodeInternal,
			fmt.Sprintf("chain head %d missing", latest))
	}

	committed, err := l.blocks.CommitInChain(b.ID, block.StatusApproved, latest+1, prev.Hash)
	if err != nil {
		return nil, err
	}
	logx.Info("LEDGER", fmt.Sprintf("committed block %s at sequence %d", committed.ID, committed.SequenceNumber))

	l.propagateRecords(committed, types.RecordStatusInChain)

	if _, err := l.stageNextLocked(); err != nil {
		return nil, err
	}
	return committed, nil
}

// FinalizeRejected propagates the rejection to the block's own batch and
// stages the next block. No chain entry is added.
func (l *Ledger) FinalizeRejected(b *block.Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logx.Info("LEDGER", fmt.Sprintf("block %s rejected with %d records", b.ID, len(b.Records)))
	l.propagateRecords(b, types.RecordStatusRejected)

	_, err := l.stageNextLocked()
	return err
}

// propagateRecords flips the status of exactly the block's embedded batch,
// addressed by record identity.
func (l *Ledger) propagateRecords(b *block.Block, next types.RecordStatus) {
	for _, id := range b.RecordIDs() {
		if _, err := l.records.CompareAndSetStatus(id, types.RecordStatusInBlock, next); err != nil {
			logx.Error("LEDGER", "failed to propagate status of record ", id, ": ", err)
		}
	}
}
