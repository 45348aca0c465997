package block

import (
	"testing"
	"time"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provchain/types"
)

func fuzzer() *fuzz.Fuzzer {
	return fuzz.New().NilChance(0).NumElements(1, 5).Funcs(
		func(t *time.Time, c fuzz.Continue) {
			*t = time.Unix(0, c.Int63())
		},
		func(k *types.RecordKind, c fuzz.Continue) {
			if c.RandBool() {
				*k = types.RecordKindTransaction
			} else {
				*k = types.RecordKindEvent
			}
		},
		func(s *types.RecordStatus, c fuzz.Continue) {
			*s = types.RecordStatusInBlock
		},
	)
}

func TestComputeHashDeterministic(t *testing.T) {
	f := fuzzer()
	for i := 0; i < 20; i++ {
		var records []types.Record
		f.Fuzz(&records)
		ts := time.Unix(0, 1700000000000000000)

		h1 := ComputeHash(7, "prev", ts, records)
		h2 := ComputeHash(7, "prev", ts, records)
		assert.Equal(t, h1, h2)
		assert.Len(t, h1, 64)
	}
}

func TestComputeHashSensitivity(t *testing.T) {
	ts := time.Unix(0, 1700000000000000000)
	records := []types.Record{*types.NewTransactionRecord("alice", "bob", "10")}
	base := ComputeHash(1, "prev", ts, records)

	assert.NotEqual(t, base, ComputeHash(2, "prev", ts, records))
	assert.NotEqual(t, base, ComputeHash(1, "other", ts, records))
	assert.NotEqual(t, base, ComputeHash(1, "prev", ts.Add(time.Nanosecond), records))

	mutated := make([]types.Record, len(records))
	copy(mutated, records)
	mutated[0].Amount = "11"
	assert.NotEqual(t, base, ComputeHash(1, "prev", ts, mutated))
}

func TestNewGenesisBlock(t *testing.T) {
	g := NewGenesisBlock()

	assert.Equal(t, uint64(0), g.SequenceNumber)
	assert.Equal(t, "", g.PrevHash)
	assert.Equal(t, StatusInChain, g.Status)
	assert.Empty(t, g.Records)
	assert.Equal(t, Recompute(g), g.Hash)
}

func TestSealComputesFinalHash(t *testing.T) {
	r := types.NewTransactionRecord("alice", "bob", "5")
	r.Status = types.RecordStatusInBlock
	b := NewStagingBlock([]types.Record{*r})
	require.Equal(t, StatusHibernating, b.Status)
	require.Empty(t, b.Hash)

	b.Seal(3, "prevhash")

	assert.Equal(t, uint64(3), b.SequenceNumber)
	assert.Equal(t, "prevhash", b.PrevHash)
	assert.Equal(t, Recompute(b), b.Hash)
}

func TestHasVoted(t *testing.T) {
	b := NewStagingBlock(nil)
	b.ApprovedBy = append(b.ApprovedBy, "v1")
	b.RejectedBy = append(b.RejectedBy, "v2")

	assert.True(t, b.HasVoted("v1"))
	assert.True(t, b.HasVoted("v2"))
	assert.False(t, b.HasVoted("v3"))
}

func TestRecordIDs(t *testing.T) {
	r1 := types.NewTransactionRecord("a", "b", "1")
	r2 := types.NewEventRecord("asset", "shipped", "rotterdam", "carrier")
	b := NewStagingBlock([]types.Record{*r1, *r2})

	assert.Equal(t, []string{r1.ID, r2.ID}, b.RecordIDs())
}
