package consensus

import (
	"fmt"

	"provchain/block"
	"provchain/config"
	"provchain/errors"
	"provchain/ledger"
	"provchain/logx"
	"provchain/store"
	"provchain/validator"
)

// Vote outcome messages surfaced to the caller
const (
	MsgVoteRecorded   = "vote recorded"
	MsgBlockCommitted = "approval threshold crossed, block committed to chain"
	MsgBlockRejected  = "rejection threshold crossed, block rejected"
)

// Engine records validator votes, evaluates thresholds and drives block
// status transitions. The threshold denominator is the number of currently
// registered validators, not the number of votes cast on the block.
type Engine struct {
	cfg      config.ChainConfig
	blocks   store.BlockStore
	registry *validator.Registry
	ledger   *ledger.Ledger
}

func NewEngine(cfg config.ChainConfig, blocks store.BlockStore, registry *validator.Registry, ld *ledger.Ledger) *Engine {
	logx.Info("CONSENSUS", fmt.Sprintf("engine ready, threshold=%.2f", cfg.ApprovalThreshold))
	return &Engine{
		cfg:      cfg,
		blocks:   blocks,
		registry: registry,
		ledger:   ld,
	}
}

// CastVote applies one vote to a pending block. The vote set update and any
// resulting status flip happen in a single conditional write keyed on the
// block still being pending, so a concurrent transition cannot race past the
// duplicate and status checks. The threshold is re-evaluated on every
// accepted vote.
func (e *Engine) CastVote(v *Vote) (*block.Block, string, error) {
	if err := v.Validate(); err != nil {
		return nil, "", errors.NewError(errors.ErrCodeBadRequest, err.Error())
	}
	if !e.registry.IsValidator(v.VoterID) {
		return nil, "", errors.NewError(errors.ErrCodeNotValidator, errors.ErrMsgNotValidator)
	}
	if len(v.Signature) > 0 {
		pub, ok := e.registry.PubKey(v.VoterID)
		if !ok || !v.VerifySignature(pub) {
			return nil, "", errors.NewError(errors.ErrCodeInvalidSignature, errors.ErrMsgInvalidSignature)
		}
	}

	current, err := e.blocks.Get(v.BlockID)
	if err != nil {
		return nil, "", err
	}
	if current == nil {
		return nil, "", errors.NewError(errors.ErrCodeBlockNotFound, errors.ErrMsgBlockNotFound)
	}
	if current.Status != block.StatusPending {
		return nil, "", errors.NewError(errors.ErrCodeBlockNotPending, errors.ErrMsgBlockNotPending)
	}

	total := e.registry.Count()
	if total == 0 {
		return nil, "", errors.NewError(errors.ErrCodeBadRequest, "validator roster is empty")
	}

	updated, err := e.blocks.UpdateIfStatus(v.BlockID, block.StatusPending, func(b *block.Block) error {
		if b.HasVoted(v.VoterID) {
			return errors.NewError(errors.ErrCodeDuplicateVote, errors.ErrMsgDuplicateVote)
		}
		if v.Approve {
			b.ApprovedBy = append(b.ApprovedBy, v.VoterID)
		} else {
			b.RejectedBy = append(b.RejectedBy, v.VoterID)
		}

		approvedFraction := float64(len(b.ApprovedBy)) / float64(total)
		rejectedFraction := float64(len(b.RejectedBy)) / float64(total)
		logx.Info("CONSENSUS", fmt.Sprintf("block=%s approved=%d rejected=%d total=%d",
			b.ID, len(b.ApprovedBy), len(b.RejectedBy), total))

		if approvedFraction >= e.cfg.ApprovalThreshold {
			b.Status = block.StatusApproved
		} else if rejectedFraction >= e.cfg.ApprovalThreshold {
			b.Status = block.StatusRejected
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	switch updated.Status {
	case block.StatusApproved:
		committed, err := e.ledger.CommitApproved(updated)
		if err != nil {
			return nil, "", err
		}
		return committed, MsgBlockCommitted, nil

	case block.StatusRejected:
		if err := e.ledger.FinalizeRejected(updated); err != nil {
			return nil, "", err
		}
		return updated, MsgBlockRejected, nil

	default:
		return updated, MsgVoteRecorded, nil
	}
}
