package domain

import (
	"github.com/allisson/passbox/internal/errors"
)

// Cryptographic error definitions. Every failure that could reveal whether a key
// was wrong or data was corrupted collapses into ErrCryptoFailure.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates key material is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidSalt indicates a salt of the wrong size was supplied.
	ErrInvalidSalt = errors.Wrap(errors.ErrInvalidInput, "invalid salt")

	// ErrWeakIterations indicates a KDF iteration count below MinIterations.
	ErrWeakIterations = errors.Wrap(errors.ErrInvalidInput, "kdf iterations below minimum")

	// ErrEmptySecret indicates an empty password or wrap secret.
	ErrEmptySecret = errors.Wrap(errors.ErrInvalidInput, "secret must not be empty")

	// ErrInvalidPurpose indicates an unknown key purpose.
	ErrInvalidPurpose = errors.Wrap(errors.ErrInvalidInput, "invalid key purpose")

	// ErrKeyPurposeMismatch indicates a key was used for a purpose it was not scoped to.
	ErrKeyPurposeMismatch = errors.Wrap(errors.ErrInvalidInput, "key purpose mismatch")

	// ErrKeyDestroyed indicates a key was used after Destroy.
	ErrKeyDestroyed = errors.Wrap(errors.ErrInvalidInput, "key destroyed")

	// ErrDecryptionFailed indicates authentication of a ciphertext failed. Wrong key,
	// tampering and truncation are reported identically.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCryptoFailure, "decryption failed")

	// ErrUnwrapFailed indicates a wrapped key or secret could not be recovered.
	ErrUnwrapFailed = errors.Wrap(errors.ErrCryptoFailure, "unwrap failed")
)
