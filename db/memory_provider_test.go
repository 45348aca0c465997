package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProviderPutGetDelete(t *testing.T) {
	p := NewMemoryProvider()

	require.NoError(t, p.Put([]byte("k1"), []byte("v1")))

	got, err := p.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	ok, err := p.Has([]byte("k1"))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, p.Delete([]byte("k1")))
	got, err = p.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryProviderGetReturnsCopy(t *testing.T) {
	p := NewMemoryProvider()
	require.NoError(t, p.Put([]byte("k"), []byte("value")))

	got, _ := p.Get([]byte("k"))
	got[0] = 'X'

	again, _ := p.Get([]byte("k"))
	assert.Equal(t, []byte("value"), again)
}

func TestMemoryProviderGetBatch(t *testing.T) {
	p := NewMemoryProvider()
	require.NoError(t, p.Put([]byte("a"), []byte("1")))
	require.NoError(t, p.Put([]byte("b"), []byte("2")))

	result, err := p.GetBatch([][]byte{[]byte("a"), []byte("b"), []byte("missing")})
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, []byte("1"), result["a"])
}

func TestMemoryProviderIteratePrefixOrdered(t *testing.T) {
	p := NewMemoryProvider().(IterableProvider)
	require.NoError(t, p.Put([]byte("blk:2"), []byte("b")))
	require.NoError(t, p.Put([]byte("blk:1"), []byte("a")))
	require.NoError(t, p.Put([]byte("rec:1"), []byte("x")))

	var keys []string
	require.NoError(t, p.IteratePrefix([]byte("blk:"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return true
	}))
	assert.Equal(t, []string{"blk:1", "blk:2"}, keys)

	// callback returning false stops the scan
	keys = keys[:0]
	require.NoError(t, p.IteratePrefix([]byte("blk:"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return false
	}))
	assert.Equal(t, []string{"blk:1"}, keys)
}

func TestMemoryProviderBatchAtomicWrite(t *testing.T) {
	p := NewMemoryProvider()
	require.NoError(t, p.Put([]byte("old"), []byte("v")))

	batch := p.Batch()
	batch.Put([]byte("k1"), []byte("v1"))
	batch.Put([]byte("k2"), []byte("v2"))
	batch.Delete([]byte("old"))

	// nothing lands before Write
	got, _ := p.Get([]byte("k1"))
	assert.Nil(t, got)

	require.NoError(t, batch.Write())
	batch.Close()

	got, _ = p.Get([]byte("k1"))
	assert.Equal(t, []byte("v1"), got)
	got, _ = p.Get([]byte("old"))
	assert.Nil(t, got)
}

func TestMemoryProviderBatchReset(t *testing.T) {
	p := NewMemoryProvider()

	batch := p.Batch()
	batch.Put([]byte("k"), []byte("v"))
	batch.Reset()
	require.NoError(t, batch.Write())

	got, _ := p.Get([]byte("k"))
	assert.Nil(t, got)
}
