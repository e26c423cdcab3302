// Package service implements the primitive crypto engine: password-based key
// derivation, AES-256-GCM field encryption, key wrapping and breach digests.
package service

import (
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext, authenticating aad, with a fresh random nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt verifies and decrypts ciphertext. It fails closed on any tampering.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager creates AEAD cipher instances for a key and algorithm.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyManager generates keys and wraps keys or raw secrets under wrap keys.
type KeyManager interface {
	GenerateKey(purpose cryptoDomain.Purpose) (*Key, error)
	WrapKey(key, wrapKey *Key) ([]byte, error)
	UnwrapKey(wrapped []byte, wrapKey *Key, purpose cryptoDomain.Purpose) (*Key, error)
	WrapSecret(secret []byte, wrapKey *Key) ([]byte, error)
	UnwrapSecret(wrapped []byte, wrapKey *Key) ([]byte, error)
}

// Engine is the primitive crypto engine consumed by the envelope codec and the
// master key hierarchy.
type Engine interface {
	KeyManager

	// Iterations returns the PBKDF2 iteration count used by DeriveKey.
	Iterations() int

	// DeriveKey derives a purpose-scoped key from a password or secret and a salt.
	DeriveKey(secret, salt []byte, purpose cryptoDomain.Purpose) (*Key, error)

	// DeriveKeys derives several purpose-scoped keys from a single KDF pass.
	DeriveKeys(secret, salt []byte, iterations int, purposes ...cryptoDomain.Purpose) ([]*Key, error)

	GenerateSecret() ([]byte, error)
	GenerateSalt() ([]byte, error)

	// Encrypt encrypts a field under an encrypt-purpose key (nonce ‖ ciphertext).
	Encrypt(plaintext string, key *Key) ([]byte, error)

	// Decrypt reverses Encrypt.
	Decrypt(sealed []byte, key *Key) (string, error)

	// Tag returns a keyed, deterministic tag of message.
	Tag(key *Key, message string) (string, error)

	// Export returns the material of an authenticate-purpose key.
	Export(key *Key) ([]byte, error)

	// Digest returns the uppercase hex SHA-1 of message.
	Digest(message string) string
}
