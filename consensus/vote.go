package consensus

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"provchain/jsonx"
)

// Vote is one validator's verdict on a pending block. A validator votes at
// most once per block; the vote is never changed afterwards.
type Vote struct {
	BlockID   string `json:"block_id"`
	VoterID   string `json:"voter_id"`
	Approve   bool   `json:"approve"`
	Timestamp int64  `json:"timestamp"`
	Signature []byte `json:"signature,omitempty"`
}

func NewVote(blockID, voterID string, approve bool) *Vote {
	return &Vote{
		BlockID:   blockID,
		VoterID:   voterID,
		Approve:   approve,
		Timestamp: time.Now().UnixNano(),
	}
}

// serializeVote returns the canonical bytes to sign and verify. The signature
// field is cleared so signing and verification see the same message.
func (v *Vote) serializeVote() []byte {
	tmp := *v
	tmp.Signature = nil
	return jsonx.MustMarshal(tmp)
}

// Sign signs the vote with the validator's private key.
func (v *Vote) Sign(priv ed25519.PrivateKey) {
	v.Signature = ed25519.Sign(priv, v.serializeVote())
}

// VerifySignature checks the vote signature against the validator's public key.
func (v *Vote) VerifySignature(pub ed25519.PublicKey) bool {
	if len(v.Signature) == 0 {
		return false
	}
	return ed25519.Verify(pub, v.serializeVote(), v.Signature)
}

// Validate performs basic structural checks.
func (v *Vote) Validate() error {
	if v.BlockID == "" {
		return fmt.Errorf("missing block id")
	}
	if v.VoterID == "" {
		return fmt.Errorf("missing voter id")
	}
	return nil
}
