package domain

import (
	"sync"

	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// MasterKey is a user's unlocked master key: a random secret that wraps every
// content key the user owns. It lives only on the client.
type MasterKey struct {
	mu     sync.RWMutex
	secret []byte
}

// NewMasterKey takes ownership of secret.
func NewMasterKey(secret []byte) *MasterKey {
	return &MasterKey{secret: secret}
}

// Use runs fn with the master key bytes. The bytes must not escape fn.
func (m *MasterKey) Use(fn func(secret []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.secret == nil {
		return ErrMasterKeyLocked
	}
	return fn(m.secret)
}

// Destroy zeroes the master key. It is safe to call more than once.
func (m *MasterKey) Destroy() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cryptoDomain.Zero(m.secret)
	m.secret = nil
}
