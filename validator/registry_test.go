package validator

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Validator{ID: "v1"}))

	v, ok := r.Get("v1")
	assert.True(t, ok)
	assert.Equal(t, RoleValidator, v.Role)
	assert.True(t, r.IsValidator("v1"))
	assert.False(t, r.IsValidator("v2"))
	assert.Equal(t, 1, r.Count())
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(Validator{}))
	assert.Error(t, r.Register(Validator{ID: "v1", PubKey: "not-hex"}))
	assert.Error(t, r.Register(Validator{ID: "v1", PubKey: "abcd"})) // wrong length
	assert.Equal(t, 0, r.Count())
}

func TestDeregister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Validator{ID: "v1"}))

	r.Deregister("v1")
	assert.False(t, r.IsValidator("v1"))
	assert.Equal(t, 0, r.Count())
}

func TestPubKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	r := NewRegistry()
	require.NoError(t, r.Register(Validator{ID: "keyed", PubKey: hex.EncodeToString(pub)}))
	require.NoError(t, r.Register(Validator{ID: "keyless"}))

	got, ok := r.PubKey("keyed")
	assert.True(t, ok)
	assert.Equal(t, pub, got)

	_, ok = r.PubKey("keyless")
	assert.False(t, ok)
	_, ok = r.PubKey("missing")
	assert.False(t, ok)
}

func TestNonValidatorRoleDoesNotVote(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Validator{ID: "observer", Role: "observer"}))

	assert.False(t, r.IsValidator("observer"))
	assert.Equal(t, 1, r.Count())
}
