package interfaces

import (
	"context"

	"provchain/block"
	"provchain/consensus"
)

// VoteResult pairs the outcome message with the block after the vote.
type VoteResult struct {
	Message string       `json:"message"`
	Block   *block.Block `json:"block"`
}

// ChainAudit is the result of a full chain validation.
type ChainAudit struct {
	IsValid bool           `json:"is_valid"`
	Chain   []*block.Block `json:"chain"`
}

// ChainService is the transport-agnostic surface of the block lifecycle and
// consensus engine.
type ChainService interface {
	// GetChain returns the committed chain, bootstrapping genesis and the
	// first staging block on the first call.
	GetChain(ctx context.Context) ([]*block.Block, error)
	// GetBlock resolves a block by sequence number or by ID.
	GetBlock(ctx context.Context, sequenceOrID string) (*block.Block, error)
	// GetWaitingBlock returns the current hibernating or pending block.
	GetWaitingBlock(ctx context.Context) (*block.Block, error)
	// ActivateBlock opens a full hibernating block for voting.
	ActivateBlock(ctx context.Context, blockID string) (*block.Block, error)
	// ValidateBlock audits a single block.
	ValidateBlock(ctx context.Context, sequenceOrID string) (bool, error)
	// CastVote records a validator vote and drives any resulting transition.
	CastVote(ctx context.Context, vote *consensus.Vote) (*VoteResult, error)
	// ValidateChain audits the whole committed chain.
	ValidateChain(ctx context.Context) (*ChainAudit, error)
}
