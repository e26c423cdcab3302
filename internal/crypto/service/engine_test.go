package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	apperrors "github.com/allisson/passbox/internal/errors"
)

var _ Engine = (*EngineService)(nil)

func newTestSalt(t *testing.T, e *EngineService) []byte {
	t.Helper()
	salt, err := e.GenerateSalt()
	require.NoError(t, err)
	return salt
}

func TestNewEngine(t *testing.T) {
	aeadManager := NewAEADManager()

	t.Run("accepts minimum iterations", func(t *testing.T) {
		e, err := NewEngine(aeadManager, NewKeyManager(aeadManager), cryptoDomain.MinIterations)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.MinIterations, e.Iterations())
	})

	t.Run("rejects weak iterations", func(t *testing.T) {
		_, err := NewEngine(aeadManager, NewKeyManager(aeadManager), 1000)
		assert.ErrorIs(t, err, cryptoDomain.ErrWeakIterations)
	})

	t.Run("default engine", func(t *testing.T) {
		assert.Equal(t, cryptoDomain.DefaultIterations, NewDefaultEngine().Iterations())
	})
}

func TestEngineService_DeriveKey(t *testing.T) {
	e := NewDefaultEngine()
	salt := newTestSalt(t, e)

	t.Run("deterministic for same inputs", func(t *testing.T) {
		k1, err := e.DeriveKey([]byte("correct horse"), salt, cryptoDomain.PurposeWrap)
		require.NoError(t, err)
		k2, err := e.DeriveKey([]byte("correct horse"), salt, cryptoDomain.PurposeWrap)
		require.NoError(t, err)

		assert.Equal(t, k1.material, k2.material)
		assert.Equal(t, cryptoDomain.PurposeWrap, k1.Purpose())
	})

	t.Run("different salt gives different key", func(t *testing.T) {
		k1, err := e.DeriveKey([]byte("pw"), salt, cryptoDomain.PurposeWrap)
		require.NoError(t, err)
		k2, err := e.DeriveKey([]byte("pw"), newTestSalt(t, e), cryptoDomain.PurposeWrap)
		require.NoError(t, err)
		assert.NotEqual(t, k1.material, k2.material)
	})

	t.Run("trailing zero bytes give a different key", func(t *testing.T) {
		base, err := e.DeriveKey([]byte("hunter2"), salt, cryptoDomain.PurposeWrap)
		require.NoError(t, err)
		for _, padded := range []string{"hunter2\x00", "hunter2\x00\x00\x00"} {
			k, err := e.DeriveKey([]byte(padded), salt, cryptoDomain.PurposeWrap)
			require.NoError(t, err)
			assert.NotEqual(t, base.material, k.material, "%q", padded)
		}
	})

	t.Run("validation", func(t *testing.T) {
		_, err := e.DeriveKey(nil, salt, cryptoDomain.PurposeWrap)
		assert.ErrorIs(t, err, cryptoDomain.ErrEmptySecret)

		_, err = e.DeriveKey([]byte("pw"), []byte("short"), cryptoDomain.PurposeWrap)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidSalt)

		_, err = e.DeriveKey([]byte("pw"), salt, cryptoDomain.Purpose("bogus"))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPurpose)

		_, err = e.DeriveKeys([]byte("pw"), salt, 10, cryptoDomain.PurposeWrap)
		assert.ErrorIs(t, err, cryptoDomain.ErrWeakIterations)

		_, err = e.DeriveKeys([]byte("pw"), salt, cryptoDomain.MinIterations)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPurpose)
	})
}

func TestEngineService_DeriveKeys(t *testing.T) {
	e := NewDefaultEngine()
	salt := newTestSalt(t, e)

	keys, err := e.DeriveKeys(
		[]byte("hunter2"),
		salt,
		cryptoDomain.MinIterations,
		cryptoDomain.PurposeAuthenticate,
		cryptoDomain.PurposeWrap,
	)
	require.NoError(t, err)
	require.Len(t, keys, 2)

	assert.Equal(t, cryptoDomain.PurposeAuthenticate, keys[0].Purpose())
	assert.Equal(t, cryptoDomain.PurposeWrap, keys[1].Purpose())
	assert.NotEqual(t, keys[0].material, keys[1].material)

	single, err := e.DeriveKey([]byte("hunter2"), salt, cryptoDomain.PurposeWrap)
	require.NoError(t, err)
	assert.Equal(t, keys[1].material, single.material)
}

func TestEngineService_EncryptDecrypt(t *testing.T) {
	e := NewDefaultEngine()
	key, err := e.GenerateKey(cryptoDomain.PurposeEncrypt)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		for _, plaintext := range []string{"p@ss", "", "ünïcødé ✓", string(make([]byte, 4096))} {
			sealed, err := e.Encrypt(plaintext, key)
			require.NoError(t, err)
			assert.Len(t, sealed, cryptoDomain.NonceSize+len(plaintext)+cryptoDomain.TagSize)

			got, err := e.Decrypt(sealed, key)
			require.NoError(t, err)
			assert.Equal(t, plaintext, got)
		}
	})

	t.Run("fresh nonce per call", func(t *testing.T) {
		a, err := e.Encrypt("same", key)
		require.NoError(t, err)
		b, err := e.Encrypt("same", key)
		require.NoError(t, err)
		assert.NotEqual(t, a[:cryptoDomain.NonceSize], b[:cryptoDomain.NonceSize])
	})

	t.Run("tampering is rejected without partial output", func(t *testing.T) {
		sealed, err := e.Encrypt("secret", key)
		require.NoError(t, err)

		for i := range sealed {
			tampered := append([]byte(nil), sealed...)
			tampered[i] ^= 0x01
			got, err := e.Decrypt(tampered, key)
			assert.ErrorIs(t, err, apperrors.ErrCryptoFailure)
			assert.Empty(t, got)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		sealed, err := e.Encrypt("secret", key)
		require.NoError(t, err)
		other, err := e.GenerateKey(cryptoDomain.PurposeEncrypt)
		require.NoError(t, err)

		_, err = e.Decrypt(sealed, other)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("wrap key cannot encrypt", func(t *testing.T) {
		wrapKey, err := e.GenerateKey(cryptoDomain.PurposeWrap)
		require.NoError(t, err)

		_, err = e.Encrypt("secret", wrapKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyPurposeMismatch)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sealed, err := e.Encrypt("concurrent", key)
				assert.NoError(t, err)
				got, err := e.Decrypt(sealed, key)
				assert.NoError(t, err)
				assert.Equal(t, "concurrent", got)
			}()
		}
		wg.Wait()
	})
}

func TestEngineService_Tag(t *testing.T) {
	e := NewDefaultEngine()
	key, err := e.GenerateKey(cryptoDomain.PurposeEncrypt)
	require.NoError(t, err)

	t1, err := e.Tag(key, "bob")
	require.NoError(t, err)
	t2, err := e.Tag(key, "bob")
	require.NoError(t, err)
	t3, err := e.Tag(key, "carol")
	require.NoError(t, err)

	assert.Equal(t, t1, t2)
	assert.NotEqual(t, t1, t3)
	assert.Len(t, t1, 64)

	other, err := e.GenerateKey(cryptoDomain.PurposeEncrypt)
	require.NoError(t, err)
	t4, err := e.Tag(other, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, t1, t4)
}

func TestEngineService_Export(t *testing.T) {
	e := NewDefaultEngine()

	authKey, err := e.DeriveKey([]byte("pw"), newTestSalt(t, e), cryptoDomain.PurposeAuthenticate)
	require.NoError(t, err)

	exported, err := e.Export(authKey)
	require.NoError(t, err)
	assert.Len(t, exported, cryptoDomain.KeySize)

	exported[0] ^= 0xff
	assert.NotEqual(t, exported, authKey.material)

	for _, p := range []cryptoDomain.Purpose{cryptoDomain.PurposeEncrypt, cryptoDomain.PurposeWrap} {
		key, err := e.GenerateKey(p)
		require.NoError(t, err)
		_, err = e.Export(key)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyPurposeMismatch)
	}
}

func TestEngineService_GenerateSecret(t *testing.T) {
	e := NewDefaultEngine()

	s1, err := e.GenerateSecret()
	require.NoError(t, err)
	s2, err := e.GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, s1, cryptoDomain.SecretSize)
	assert.NotEqual(t, s1, s2)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8", Digest("password"))
	assert.Equal(t, "DA39A3EE5E6B4B0D3255BFEF95601890AFD80709", Digest(""))
	assert.Equal(t, Digest("password"), NewDefaultEngine().Digest("password"))
}
