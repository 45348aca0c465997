package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionRecord(t *testing.T) {
	r := NewTransactionRecord("alice", "bob", "100")

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, RecordKindTransaction, r.Kind)
	assert.Equal(t, RecordStatusCreated, r.Status)
	assert.NoError(t, r.Validate())
}

func TestNewEventRecord(t *testing.T) {
	r := NewEventRecord("pallet-7", "shipped", "rotterdam", "acme")

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, RecordKindEvent, r.Kind)
	assert.Equal(t, RecordStatusCreated, r.Status)
	assert.NoError(t, r.Validate())
}

func TestTransactionValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"missing sender", func(r *Record) { r.Sender = "" }},
		{"missing recipient", func(r *Record) { r.Recipient = "" }},
		{"missing amount", func(r *Record) { r.Amount = "" }},
		{"non-numeric amount", func(r *Record) { r.Amount = "abc" }},
		{"negative amount", func(r *Record) { r.Amount = "-5" }},
		{"fractional amount", func(r *Record) { r.Amount = "1.5" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewTransactionRecord("alice", "bob", "100")
			tc.mutate(r)
			assert.Error(t, r.Validate())
		})
	}

	// amounts are uint256 decimal strings, large values are fine
	big := NewTransactionRecord("alice", "bob",
		"115792089237316195423570985008687907853269984665640564039457584007913129639935")
	assert.NoError(t, big.Validate())

	over := NewTransactionRecord("alice", "bob",
		"115792089237316195423570985008687907853269984665640564039457584007913129639936")
	assert.Error(t, over.Validate())
}

func TestEventValidation(t *testing.T) {
	missing := NewEventRecord("", "shipped", "rotterdam", "acme")
	assert.Error(t, missing.Validate())

	noAction := NewEventRecord("pallet-7", "", "rotterdam", "acme")
	assert.Error(t, noAction.Validate())

	// location and actor are optional
	sparse := NewEventRecord("pallet-7", "sealed", "", "")
	assert.NoError(t, sparse.Validate())
}

func TestValidateUnknownKind(t *testing.T) {
	r := NewTransactionRecord("a", "b", "1")
	r.Kind = "mystery"
	assert.Error(t, r.Validate())

	r.ID = ""
	assert.Error(t, r.Validate())
}

func TestSnapshotIsIndependent(t *testing.T) {
	r := NewTransactionRecord("alice", "bob", "10")
	snap := r.Snapshot()
	require.Equal(t, r.ID, snap.ID)

	r.Status = RecordStatusInChain
	assert.Equal(t, RecordStatusCreated, snap.Status)
}
