package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	apperrors "github.com/allisson/passbox/internal/errors"
)

// TokenPrefix marks passbox session tokens so they are easy to spot in logs and leaks.
const TokenPrefix = "pbx_"

const tokenEntropyBytes = 32

type tokenService struct{}

// GenerateToken returns a prefixed random token and its SHA-256 hash.
func (t *tokenService) GenerateToken() (string, string, error) {
	randomBytes := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken := TokenPrefix + base64.RawURLEncoding.EncodeToString(randomBytes)
	return plainToken, t.HashToken(plainToken), nil
}

// HashToken hashes a plain text token using SHA-256 and returns it hex-encoded.
// Surrounding whitespace is ignored so copy-pasted tokens still resolve.
func (t *tokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(plainToken)))
	return hex.EncodeToString(hash[:])
}

// NewTokenService creates a new TokenService instance using SHA-256 for token hashing.
func NewTokenService() TokenService {
	return &tokenService{}
}
