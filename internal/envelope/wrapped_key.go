package envelope

import (
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// wrappedSize is the length of a wrapped 256-bit key: nonce ‖ ciphertext ‖ tag.
const wrappedSize = cryptoDomain.NonceSize + cryptoDomain.KeySize + cryptoDomain.TagSize

// WrappedKeySize is the encoded length of every WrappedKey.
const WrappedKeySize = cryptoDomain.SaltSize + wrappedSize

// WrappedKey is a content key wrapped under a secret-derived key, encoded as
// salt ‖ wrapped. Both parts have fixed sizes, so the encoding decodes uniquely.
type WrappedKey []byte

// NewWrappedKey joins salt and wrapped bytes.
func NewWrappedKey(salt, wrapped []byte) (WrappedKey, error) {
	if len(salt) != cryptoDomain.SaltSize || len(wrapped) != wrappedSize {
		return nil, ErrMalformedWrappedKey
	}
	out := make(WrappedKey, 0, WrappedKeySize)
	out = append(out, salt...)
	return append(out, wrapped...), nil
}

// ParseWrappedKey validates b as an encoded WrappedKey.
func ParseWrappedKey(b []byte) (WrappedKey, error) {
	if len(b) != WrappedKeySize {
		return nil, ErrMalformedWrappedKey
	}
	return WrappedKey(append([]byte(nil), b...)), nil
}

// Salt returns the KDF salt prefix.
func (w WrappedKey) Salt() []byte {
	return w[:cryptoDomain.SaltSize]
}

// Wrapped returns the wrapped key bytes.
func (w WrappedKey) Wrapped() []byte {
	return w[cryptoDomain.SaltSize:]
}
