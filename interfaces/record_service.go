package interfaces

import (
	"context"

	"provchain/types"
)

// RecordService manages individual records outside block semantics.
type RecordService interface {
	SubmitTransaction(ctx context.Context, sender, recipient, amount string) (*types.Record, error)
	SubmitEvent(ctx context.Context, asset, action, location, actor string) (*types.Record, error)
	// ApproveRecord moves a created record into the waiting pool.
	ApproveRecord(ctx context.Context, recordID string) (*types.Record, error)
	GetRecord(ctx context.Context, recordID string) (*types.Record, error)
	ListRecords(ctx context.Context, status types.RecordStatus) ([]*types.Record, error)
}
