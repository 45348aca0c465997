package validator

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"sync"

	"provchain/logx"
)

const RoleValidator = "validator"

// Validator is a permissioned identity whose votes count toward consensus.
type Validator struct {
	ID     string `json:"id"`
	PubKey string `json:"pubkey"` // hex-encoded ed25519 public key, optional
	Role   string `json:"role"`
}

// Registry holds the current validator roster. Its Count is the denominator
// of every threshold computation, so roster changes shift thresholds of
// blocks already being voted on.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]Validator)}
}

// Register adds or replaces a validator in the roster.
func (r *Registry) Register(v Validator) error {
	if v.ID == "" {
		return fmt.Errorf("validator id is empty")
	}
	if v.Role == "" {
		v.Role = RoleValidator
	}
	if v.PubKey != "" {
		raw, err := hex.DecodeString(v.PubKey)
		if err != nil || len(raw) != ed25519.PublicKeySize {
			return fmt.Errorf("validator %s has invalid pubkey", v.ID)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[v.ID] = v
	logx.Info("REGISTRY", "registered validator ", v.ID)
	return nil
}

// Deregister removes a validator from the roster.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.validators, id)
}

// Get returns the validator and whether it is registered.
func (r *Registry) Get(id string) (Validator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[id]
	return v, ok
}

// IsValidator reports whether id belongs to the roster with the validator role.
func (r *Registry) IsValidator(id string) bool {
	v, ok := r.Get(id)
	return ok && v.Role == RoleValidator
}

// PubKey returns the decoded ed25519 key of the validator, if it has one.
func (r *Registry) PubKey(id string) (ed25519.PublicKey, bool) {
	v, ok := r.Get(id)
	if !ok || v.PubKey == "" {
		return nil, false
	}
	raw, err := hex.DecodeString(v.PubKey)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, false
	}
	return ed25519.PublicKey(raw), true
}

// Count returns the total number of registered validators.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.validators)
}
