package block

import (
	"time"

	uuid "github.com/satori/go.uuid"

	"provchain/types"
)

type Status string

const (
	// StatusHibernating is a staging block still collecting its record batch
	StatusHibernating Status = "hibernating"
	// StatusPending is a full staging block open for validator voting
	StatusPending Status = "pending"
	// StatusApproved is a transient state between threshold crossing and chain commit
	StatusApproved Status = "approved"
	// StatusRejected is terminal; the block never reaches the chain
	StatusRejected Status = "rejected"
	// StatusInChain is a committed, hash-linked block
	StatusInChain Status = "in_chain"
)

// Block is a batch container moving through a fixed lifecycle before being
// committed to the chain. Record snapshots are frozen at staging time and are
// never mutated afterwards, otherwise the stored hash would stop matching.
type Block struct {
	ID             string         `json:"id"`
	SequenceNumber uint64         `json:"sequence_number"`
	PrevHash       string         `json:"prev_hash"` // empty only for genesis
	Hash           string         `json:"hash"`
	Timestamp      time.Time      `json:"timestamp"`
	Status         Status         `json:"status"`
	Records        []types.Record `json:"records"`
	ApprovedBy     []string       `json:"approved_by"`
	RejectedBy     []string       `json:"rejected_by"`
}

// NewStagingBlock creates a fresh Hibernating block holding the given record
// snapshots. Sequence number and hash stay zero until the chain commit, when
// both become final.
func NewStagingBlock(records []types.Record) *Block {
	return &Block{
		ID:         uuid.NewV4().String(),
		Timestamp:  time.Now(),
		Status:     StatusHibernating,
		Records:    records,
		ApprovedBy: []string{},
		RejectedBy: []string{},
	}
}

// NewGenesisBlock creates the sequence-0 block: empty batch, empty previous
// hash, committed directly as in-chain.
func NewGenesisBlock() *Block {
	b := &Block{
		ID:         uuid.NewV4().String(),
		Timestamp:  time.Now(),
		Status:     StatusInChain,
		Records:    []types.Record{},
		ApprovedBy: []string{},
		RejectedBy: []string{},
	}
	b.Hash = ComputeHash(b.SequenceNumber, b.PrevHash, b.Timestamp, b.Records)
	return b
}

// HasVoted reports whether the validator already appears in either vote set.
func (b *Block) HasVoted(validatorID string) bool {
	for _, v := range b.ApprovedBy {
		if v == validatorID {
			return true
		}
	}
	for _, v := range b.RejectedBy {
		if v == validatorID {
			return true
		}
	}
	return false
}

// Seal assigns the final chain position and computes the block hash.
func (b *Block) Seal(sequenceNumber uint64, prevHash string) {
	b.SequenceNumber = sequenceNumber
	b.PrevHash = prevHash
	b.Timestamp = time.Now()
	b.Hash = ComputeHash(b.SequenceNumber, b.PrevHash, b.Timestamp, b.Records)
}

// RecordIDs returns the identities of the embedded snapshots. Status
// propagation targets exactly this set, never a positional slice of whatever
// record collection happens to be loaded.
func (b *Block) RecordIDs() []string {
	ids := make([]string, 0, len(b.Records))
	for _, r := range b.Records {
		ids = append(ids, r.ID)
	}
	return ids
}
