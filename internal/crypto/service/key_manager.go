package service

import (
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// KeyManagerService implements the KeyManager interface.
//
// Wrapping is AES-256-GCM over the key material under the wrap key. The
// associated data carries the wrapped key's purpose, so a wrapped content key
// cannot be unwrapped as a wrap key (and vice versa) and an unwrap with the
// wrong wrap key fails closed instead of producing garbage material.
//
// Wrapped output layout: nonce(12) ‖ ciphertext(32) ‖ tag(16).
type KeyManagerService struct {
	aeadManager AEADManager
}

// NewKeyManager creates a new KeyManagerService instance with the provided AEADManager.
func NewKeyManager(aeadManager AEADManager) *KeyManagerService {
	return &KeyManagerService{
		aeadManager: aeadManager,
	}
}

// GenerateKey creates a random key scoped to purpose.
func (km *KeyManagerService) GenerateKey(purpose cryptoDomain.Purpose) (*Key, error) {
	if !purpose.Valid() {
		return nil, cryptoDomain.ErrInvalidPurpose
	}

	material := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return newKey(material, purpose), nil
}

// WrapKey encrypts key under wrapKey. wrapKey must have PurposeWrap.
func (km *KeyManagerService) WrapKey(key, wrapKey *Key) ([]byte, error) {
	if key == wrapKey {
		return nil, cryptoDomain.ErrKeyPurposeMismatch
	}

	var wrapped []byte
	err := wrapKey.with(cryptoDomain.PurposeWrap, func(wrapMaterial []byte) error {
		aead, err := km.aeadManager.CreateCipher(wrapMaterial, cryptoDomain.AESGCM)
		if err != nil {
			return err
		}
		return key.withAny(func(material []byte, purpose cryptoDomain.Purpose) error {
			wrapped, err = seal(aead, material, cryptoDomain.KeyWrapContext(purpose))
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return wrapped, nil
}

// UnwrapKey decrypts a wrapped key, expecting it to have been wrapped with the
// given purpose. Every authentication failure is reported as ErrUnwrapFailed.
func (km *KeyManagerService) UnwrapKey(
	wrapped []byte,
	wrapKey *Key,
	purpose cryptoDomain.Purpose,
) (*Key, error) {
	if !purpose.Valid() {
		return nil, cryptoDomain.ErrInvalidPurpose
	}

	var key *Key
	err := wrapKey.with(cryptoDomain.PurposeWrap, func(wrapMaterial []byte) error {
		aead, err := km.aeadManager.CreateCipher(wrapMaterial, cryptoDomain.AESGCM)
		if err != nil {
			return err
		}
		material, err := open(aead, wrapped, cryptoDomain.KeyWrapContext(purpose))
		if err != nil {
			return cryptoDomain.ErrUnwrapFailed
		}
		if len(material) != cryptoDomain.KeySize {
			cryptoDomain.Zero(material)
			return cryptoDomain.ErrUnwrapFailed
		}
		key = newKey(material, purpose)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return key, nil
}

// WrapSecret encrypts a raw secret (the master key) under wrapKey.
func (km *KeyManagerService) WrapSecret(secret []byte, wrapKey *Key) ([]byte, error) {
	if len(secret) == 0 {
		return nil, cryptoDomain.ErrEmptySecret
	}

	var wrapped []byte
	err := wrapKey.with(cryptoDomain.PurposeWrap, func(wrapMaterial []byte) error {
		aead, err := km.aeadManager.CreateCipher(wrapMaterial, cryptoDomain.AESGCM)
		if err != nil {
			return err
		}
		wrapped, err = seal(aead, secret, cryptoDomain.SecretWrapContext())
		return err
	})
	if err != nil {
		return nil, err
	}
	return wrapped, nil
}

// UnwrapSecret reverses WrapSecret. The caller owns the returned buffer and must
// zero it when done.
func (km *KeyManagerService) UnwrapSecret(wrapped []byte, wrapKey *Key) ([]byte, error) {
	var secret []byte
	err := wrapKey.with(cryptoDomain.PurposeWrap, func(wrapMaterial []byte) error {
		aead, err := km.aeadManager.CreateCipher(wrapMaterial, cryptoDomain.AESGCM)
		if err != nil {
			return err
		}
		secret, err = open(aead, wrapped, cryptoDomain.SecretWrapContext())
		if err != nil {
			return cryptoDomain.ErrUnwrapFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return secret, nil
}
