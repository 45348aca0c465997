package types

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"
	uuid "github.com/satori/go.uuid"
)

// RecordKind is the explicit discriminant of the record variant. Validation
// dispatches on it instead of sniffing for field presence.
type RecordKind string

const (
	// RecordKindTransaction is a monetary transfer between two parties
	RecordKindTransaction RecordKind = "transaction"
	// RecordKindEvent is a supply-chain event attached to an asset
	RecordKindEvent RecordKind = "event"
)

type RecordStatus string

const (
	RecordStatusCreated  RecordStatus = "created"
	RecordStatusApproved RecordStatus = "approved"
	RecordStatusInBlock  RecordStatus = "in_block"
	RecordStatusInChain  RecordStatus = "in_chain"
	RecordStatusRejected RecordStatus = "rejected"
)

// Record is a single chain entry candidate. A snapshot of it is embedded into
// the block that carries it; the store copy keeps tracking the live status.
type Record struct {
	ID     string       `json:"id"`
	Kind   RecordKind   `json:"kind"`
	Status RecordStatus `json:"status"`

	// transaction fields
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Amount    string `json:"amount,omitempty"` // uint256 decimal string

	// event fields
	Asset    string `json:"asset,omitempty"`
	Action   string `json:"action,omitempty"`
	Location string `json:"location,omitempty"`
	Actor    string `json:"actor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func NewTransactionRecord(sender, recipient, amount string) *Record {
	return &Record{
		ID:        uuid.NewV4().String(),
		Kind:      RecordKindTransaction,
		Status:    RecordStatusCreated,
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
}

func NewEventRecord(asset, action, location, actor string) *Record {
	return &Record{
		ID:        uuid.NewV4().String(),
		Kind:      RecordKindEvent,
		Status:    RecordStatusCreated,
		Asset:     asset,
		Action:    action,
		Location:  location,
		Actor:     actor,
		CreatedAt: time.Now(),
	}
}

// Validate checks structural validity of the record for its kind. Chain
// validation replays this over every embedded snapshot.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record id is empty")
	}
	switch r.Kind {
	case RecordKindTransaction:
		if r.Sender == "" || r.Recipient == "" {
			return fmt.Errorf("transaction record %s is missing a party", r.ID)
		}
		if r.Amount == "" {
			return fmt.Errorf("transaction record %s is missing an amount", r.ID)
		}
		if _, err := uint256.FromDecimal(r.Amount); err != nil {
			return fmt.Errorf("transaction record %s has malformed amount %q: %w", r.ID, r.Amount, err)
		}
	case RecordKindEvent:
		if r.Asset == "" || r.Action == "" {
			return fmt.Errorf("event record %s is missing asset or action", r.ID)
		}
	default:
		return fmt.Errorf("record %s has unknown kind %q", r.ID, r.Kind)
	}
	return nil
}

// Snapshot returns a copy that is safe to embed into a block.
func (r *Record) Snapshot() Record {
	cp := *r
	return cp
}
