package service

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// deriveRoot stretches secret with PBKDF2-HMAC-SHA256 into a KeySize root.
// The secret is hashed first: HMAC zero-pads short keys, so secret and
// secret||0x00 would otherwise derive the same root.
func deriveRoot(secret, salt []byte, iterations int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, cryptoDomain.ErrEmptySecret
	}
	if len(salt) != cryptoDomain.SaltSize {
		return nil, cryptoDomain.ErrInvalidSalt
	}
	if iterations < cryptoDomain.MinIterations {
		return nil, cryptoDomain.ErrWeakIterations
	}
	digest := sha256.Sum256(secret)
	defer cryptoDomain.Zero(digest[:])
	return pbkdf2.Key(digest[:], salt, iterations, cryptoDomain.KeySize, sha256.New), nil
}

// expand derives a KeySize subkey from root with HKDF-SHA256 and the given info.
func expand(root, info []byte) ([]byte, error) {
	out := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, root, nil, info), out); err != nil {
		cryptoDomain.Zero(out)
		return nil, err
	}
	return out, nil
}
