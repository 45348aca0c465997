package service

import (
	"context"

	"provchain/errors"
	"provchain/ledger"
	"provchain/logx"
	"provchain/mempool"
	"provchain/store"
	"provchain/types"
)

// RecordServiceImpl manages records and feeds the waiting pool.
type RecordServiceImpl struct {
	records store.RecordStore
	pool    *mempool.Mempool
	ledger  *ledger.Ledger
}

func NewRecordService(records store.RecordStore, pool *mempool.Mempool, ld *ledger.Ledger) *RecordServiceImpl {
	return &RecordServiceImpl{
		records: records,
		pool:    pool,
		ledger:  ld,
	}
}

func (s *RecordServiceImpl) SubmitTransaction(ctx context.Context, sender, recipient, amount string) (*types.Record, error) {
	r := types.NewTransactionRecord(sender, recipient, amount)
	if err := s.records.Put(r); err != nil {
		return nil, err
	}
	logx.Info("RECORD", "submitted transaction record ", r.ID)
	return r, nil
}

func (s *RecordServiceImpl) SubmitEvent(ctx context.Context, asset, action, location, actor string) (*types.Record, error) {
	r := types.NewEventRecord(asset, action, location, actor)
	if err := s.records.Put(r); err != nil {
		return nil, err
	}
	logx.Info("RECORD", "submitted event record ", r.ID)
	return r, nil
}

// ApproveRecord moves a created record into the waiting pool and tops up the
// staging block while it is still hibernating.
func (s *RecordServiceImpl) ApproveRecord(ctx context.Context, recordID string) (*types.Record, error) {
	r, err := s.records.CompareAndSetStatus(recordID, types.RecordStatusCreated, types.RecordStatusApproved)
	if err != nil {
		return nil, err
	}
	s.pool.Add(r.ID)

	if _, err := s.ledger.FillStaging(); err != nil {
		logx.Warn("RECORD", "staging top-up after approval failed: ", err)
	}
	// the staging fill may have consumed the record already
	current, err := s.records.Get(r.ID)
	if err != nil {
		return nil, err
	}
	return current, nil
}

func (s *RecordServiceImpl) GetRecord(ctx context.Context, recordID string) (*types.Record, error) {
	r, err := s.records.Get(recordID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.NewError(errors.ErrCodeRecordNotFound, errors.ErrMsgRecordNotFound)
	}
	return r, nil
}

func (s *RecordServiceImpl) ListRecords(ctx context.Context, status types.RecordStatus) ([]*types.Record, error) {
	return s.records.FindByStatus(status)
}
