package service

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	service := NewTokenService()
	assert.NotNil(t, service)
	assert.IsType(t, &tokenService{}, service)
}

func TestTokenService_GenerateToken(t *testing.T) {
	service := NewTokenService()

	t.Run("Success_GenerateToken", func(t *testing.T) {
		plainToken, tokenHash, err := service.GenerateToken()
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(plainToken, TokenPrefix))
		decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(plainToken, TokenPrefix))
		require.NoError(t, err)
		assert.Len(t, decoded, tokenEntropyBytes)

		expected := sha256.Sum256([]byte(plainToken))
		assert.Equal(t, hex.EncodeToString(expected[:]), tokenHash)
	})

	t.Run("Success_GenerateUniqueTokens", func(t *testing.T) {
		plain1, hash1, err := service.GenerateToken()
		require.NoError(t, err)
		plain2, hash2, err := service.GenerateToken()
		require.NoError(t, err)

		assert.NotEqual(t, plain1, plain2)
		assert.NotEqual(t, hash1, hash2)
	})
}

func TestTokenService_HashToken(t *testing.T) {
	service := NewTokenService()

	t.Run("Success_Deterministic", func(t *testing.T) {
		assert.Equal(t, service.HashToken("pbx_abc"), service.HashToken("pbx_abc"))
		assert.Len(t, service.HashToken("pbx_abc"), 64)
	})

	t.Run("Success_DifferentTokensDiffer", func(t *testing.T) {
		assert.NotEqual(t, service.HashToken("pbx_one"), service.HashToken("pbx_two"))
	})

	t.Run("Success_TrimsWhitespace", func(t *testing.T) {
		assert.Equal(t, service.HashToken("pbx_abc"), service.HashToken("  pbx_abc\n"))
	})
}
