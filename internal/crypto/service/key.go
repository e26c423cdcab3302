package service

import (
	"sync"

	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// Key is a symmetric key scoped to a single Purpose. Its material is only
// reachable from this package; callers hold keys as capabilities and pass them
// back to the engine. A zero Key is unusable.
type Key struct {
	mu       sync.RWMutex
	material []byte
	purpose  cryptoDomain.Purpose
}

// newKey takes ownership of material.
func newKey(material []byte, purpose cryptoDomain.Purpose) *Key {
	return &Key{material: material, purpose: purpose}
}

// Purpose returns the purpose the key is scoped to.
func (k *Key) Purpose() cryptoDomain.Purpose {
	return k.purpose
}

// Destroy zeroes the key material. Subsequent use fails with ErrKeyDestroyed.
// Destroy is safe to call on a nil key and more than once.
func (k *Key) Destroy() {
	if k == nil {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	cryptoDomain.Zero(k.material)
	k.material = nil
}

// Destroyed reports whether Destroy has been called.
func (k *Key) Destroyed() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.material == nil
}

// with runs fn with the key material after checking it is alive and scoped to
// purpose. The material must not escape fn.
func (k *Key) with(purpose cryptoDomain.Purpose, fn func(material []byte) error) error {
	if k == nil {
		return cryptoDomain.ErrKeyDestroyed
	}
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.material == nil {
		return cryptoDomain.ErrKeyDestroyed
	}
	if k.purpose != purpose {
		return cryptoDomain.ErrKeyPurposeMismatch
	}
	return fn(k.material)
}

// withAny is like with but accepts every purpose. It is used only where the key
// is the payload (wrapping) rather than the operator.
func (k *Key) withAny(fn func(material []byte, purpose cryptoDomain.Purpose) error) error {
	if k == nil {
		return cryptoDomain.ErrKeyDestroyed
	}
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.material == nil {
		return cryptoDomain.ErrKeyDestroyed
	}
	return fn(k.material, k.purpose)
}
