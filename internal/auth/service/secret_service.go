package service

import (
	"bytes"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/passbox/internal/errors"
)

// secretService implements SecretService using Argon2id for password hashing.
type secretService struct {
	hasher    *pwdhash.PasswordHasher
	dummyHash string
}

// HashSecret hashes an authenticator using Argon2id.
func (s *secretService) HashSecret(authenticator []byte) (string, error) {
	if len(authenticator) == 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "authenticator is empty")
	}
	// The hasher zeroes its input; the caller keeps its buffer.
	hashedSecret, err := s.hasher.Hash(bytes.Clone(authenticator))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash authenticator")
	}
	return hashedSecret, nil
}

// CompareSecret performs a constant-time comparison between an authenticator and its hash.
func (s *secretService) CompareSecret(authenticator []byte, hashedSecret string) bool {
	if len(authenticator) == 0 || hashedSecret == "" {
		return false
	}
	ok, err := s.hasher.Verify(bytes.Clone(authenticator), hashedSecret)
	if err != nil {
		return false
	}
	return ok
}

// CompareDummy verifies against a hash of random bytes so the caller cannot be timed.
func (s *secretService) CompareDummy(authenticator []byte) bool {
	_, _ = s.hasher.Verify(bytes.Clone(authenticator), s.dummyHash)
	return false
}

// NewSecretService creates a new SecretService instance using Argon2id hashing.
// Uses the Moderate policy for a balance between security and performance.
func NewSecretService() SecretService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	dummyHash, err := hasher.Hash([]byte("passbox-dummy-authenticator"))
	if err != nil {
		panic(err)
	}

	return &secretService{
		hasher:    hasher,
		dummyHash: dummyHash,
	}
}
