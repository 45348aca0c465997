package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provchain/db"
	"provchain/errors"
	"provchain/types"
)

func newTestRecordStore(t *testing.T) RecordStore {
	t.Helper()
	provider := db.NewMemoryProvider().(db.IterableProvider)
	rs, err := NewGenericRecordStore(provider)
	require.NoError(t, err)
	return rs
}

func TestRecordStorePutGet(t *testing.T) {
	rs := newTestRecordStore(t)
	r := types.NewTransactionRecord("alice", "bob", "42")

	require.NoError(t, rs.Put(r))

	got, err := rs.Get(r.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, types.RecordStatusCreated, got.Status)
	assert.Equal(t, "42", got.Amount)
}

func TestRecordStoreGetMissing(t *testing.T) {
	rs := newTestRecordStore(t)

	got, err := rs.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordStoreRejectsMalformedRecord(t *testing.T) {
	rs := newTestRecordStore(t)
	r := types.NewTransactionRecord("alice", "bob", "not-a-number")

	err := rs.Put(r)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRecord, errors.CodeOf(err))
}

func TestRecordStoreFindByStatus(t *testing.T) {
	rs := newTestRecordStore(t)
	created := types.NewTransactionRecord("a", "b", "1")
	approved := types.NewEventRecord("pallet-7", "shipped", "rotterdam", "acme")
	approved.Status = types.RecordStatusApproved

	require.NoError(t, rs.Put(created))
	require.NoError(t, rs.Put(approved))

	got, err := rs.FindByStatus(types.RecordStatusApproved)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, approved.ID, got[0].ID)
}

func TestRecordStoreCompareAndSetStatus(t *testing.T) {
	rs := newTestRecordStore(t)
	r := types.NewTransactionRecord("a", "b", "1")
	require.NoError(t, rs.Put(r))

	updated, err := rs.CompareAndSetStatus(r.ID, types.RecordStatusCreated, types.RecordStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, types.RecordStatusApproved, updated.Status)

	// second CAS with a stale expectation loses
	_, err = rs.CompareAndSetStatus(r.ID, types.RecordStatusCreated, types.RecordStatusApproved)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	_, err = rs.CompareAndSetStatus("missing", types.RecordStatusCreated, types.RecordStatusApproved)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRecordStoreCreateFromBatch(t *testing.T) {
	rs := newTestRecordStore(t)
	batch := []*types.Record{
		types.NewTransactionRecord("a", "b", "1"),
		types.NewEventRecord("crate-1", "sealed", "hamburg", "packer"),
	}

	require.NoError(t, rs.CreateFromBatch(batch))

	for _, r := range batch {
		got, err := rs.Get(r.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
	}
}
