package service

import (
	"context"
	"strconv"

	"provchain/block"
	"provchain/consensus"
	"provchain/errors"
	"provchain/interfaces"
	"provchain/ledger"
	"provchain/logx"
	"provchain/store"
)

// ChainServiceImpl exposes the block lifecycle over the ledger and consensus
// engine.
type ChainServiceImpl struct {
	ledger *ledger.Ledger
	engine *consensus.Engine
	blocks store.BlockStore
}

func NewChainService(ld *ledger.Ledger, engine *consensus.Engine, blocks store.BlockStore) *ChainServiceImpl {
	return &ChainServiceImpl{
		ledger: ld,
		engine: engine,
		blocks: blocks,
	}
}

func (s *ChainServiceImpl) GetChain(ctx context.Context) ([]*block.Block, error) {
	return s.ledger.Chain()
}

// resolveBlock accepts either a sequence number or a block ID.
func (s *ChainServiceImpl) resolveBlock(sequenceOrID string) (*block.Block, error) {
	if seq, err := strconv.ParseUint(sequenceOrID, 10, 64); err == nil {
		b, err := s.blocks.BySequence(seq)
		if err != nil {
			return nil, err
		}
		if b != nil {
			return b, nil
		}
		// fall through: an all-digit block ID is unlikely but legal
	}
	b, err := s.blocks.Get(sequenceOrID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.NewError(errors.ErrCodeBlockNotFound, errors.ErrMsgBlockNotFound)
	}
	return b, nil
}

func (s *ChainServiceImpl) GetBlock(ctx context.Context, sequenceOrID string) (*block.Block, error) {
	if err := s.ledger.EnsureBootstrap(); err != nil {
		return nil, err
	}
	return s.resolveBlock(sequenceOrID)
}

func (s *ChainServiceImpl) GetWaitingBlock(ctx context.Context) (*block.Block, error) {
	return s.ledger.WaitingBlock()
}

func (s *ChainServiceImpl) ActivateBlock(ctx context.Context, blockID string) (*block.Block, error) {
	b, err := s.ledger.Activate(blockID)
	if err != nil {
		logx.Warn("CHAIN", "activation of block ", blockID, " failed: ", err)
		return nil, err
	}
	logx.Info("CHAIN", "block ", b.ID, " is now pending")
	return b, nil
}

func (s *ChainServiceImpl) ValidateBlock(ctx context.Context, sequenceOrID string) (bool, error) {
	if err := s.ledger.EnsureBootstrap(); err != nil {
		return false, err
	}
	b, err := s.resolveBlock(sequenceOrID)
	if err != nil {
		return false, err
	}
	return s.ledger.ValidateBlock(b)
}

func (s *ChainServiceImpl) CastVote(ctx context.Context, vote *consensus.Vote) (*interfaces.VoteResult, error) {
	if err := s.ledger.EnsureBootstrap(); err != nil {
		return nil, err
	}
	b, message, err := s.engine.CastVote(vote)
	if err != nil {
		return nil, err
	}
	return &interfaces.VoteResult{Message: message, Block: b}, nil
}

func (s *ChainServiceImpl) ValidateChain(ctx context.Context) (*interfaces.ChainAudit, error) {
	valid, chain, err := s.ledger.ValidateChain()
	if err != nil {
		return nil, err
	}
	return &interfaces.ChainAudit{IsValid: valid, Chain: chain}, nil
}
