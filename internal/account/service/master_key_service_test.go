package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	cryptoService "github.com/allisson/passbox/internal/crypto/service"
	apperrors "github.com/allisson/passbox/internal/errors"
)

func secretOf(t *testing.T, mk *accountDomain.MasterKey) []byte {
	t.Helper()
	var out []byte
	require.NoError(t, mk.Use(func(secret []byte) error {
		out = append([]byte(nil), secret...)
		return nil
	}))
	return out
}

func TestMasterKeyService_EnrollUnlock(t *testing.T) {
	svc := NewMasterKeyService(cryptoService.NewDefaultEngine())

	enrollment, mk, err := svc.Enroll("correct horse battery staple")
	require.NoError(t, err)
	defer mk.Destroy()

	assert.Len(t, enrollment.Authenticator, cryptoDomain.KeySize)
	assert.Len(t, enrollment.Salt, cryptoDomain.SaltSize)
	assert.Equal(t, cryptoDomain.DefaultIterations, enrollment.Iterations)
	assert.NotEmpty(t, enrollment.WrappedMasterKey)
	assert.NotContains(t, string(enrollment.WrappedMasterKey), string(secretOf(t, mk)))

	t.Run("unlock with the right password", func(t *testing.T) {
		unlocked, err := svc.Unlock("correct horse battery staple", &enrollment.KeyMaterial)
		require.NoError(t, err)
		defer unlocked.Destroy()
		assert.Equal(t, secretOf(t, mk), secretOf(t, unlocked))
	})

	t.Run("unlock with the wrong password fails closed", func(t *testing.T) {
		unlocked, err := svc.Unlock("Correct horse battery staple", &enrollment.KeyMaterial)
		assert.ErrorIs(t, err, accountDomain.ErrWrongPassword)
		assert.True(t, apperrors.Is(err, apperrors.ErrCryptoFailure))
		assert.Nil(t, unlocked)
	})

	t.Run("authenticator is reproducible and differs from the wrap key", func(t *testing.T) {
		auth, err := svc.Authenticator("correct horse battery staple", enrollment.KDFParams)
		require.NoError(t, err)
		assert.Equal(t, enrollment.Authenticator, auth)
		assert.NotEqual(t, secretOf(t, mk), auth)
	})

	t.Run("nil material", func(t *testing.T) {
		_, err := svc.Unlock("pw", nil)
		assert.ErrorIs(t, err, accountDomain.ErrInvalidKeyMaterial)
	})

	t.Run("empty password", func(t *testing.T) {
		_, _, err := svc.Enroll("")
		assert.ErrorIs(t, err, cryptoDomain.ErrEmptySecret)
	})
}

func TestMasterKeyService_Rotate(t *testing.T) {
	svc := NewMasterKeyService(cryptoService.NewDefaultEngine())

	enrollment, mk, err := svc.Enroll("old-password")
	require.NoError(t, err)
	defer mk.Destroy()

	rotated, oldAuth, err := svc.Rotate("old-password", "new-password", &enrollment.KeyMaterial)
	require.NoError(t, err)

	assert.Equal(t, enrollment.Authenticator, oldAuth)
	assert.NotEqual(t, enrollment.Salt, rotated.Salt)
	assert.NotEqual(t, enrollment.Authenticator, rotated.Authenticator)
	assert.NotEqual(t, enrollment.WrappedMasterKey, rotated.WrappedMasterKey)

	t.Run("new password unlocks the same master key", func(t *testing.T) {
		unlocked, err := svc.Unlock("new-password", &rotated.KeyMaterial)
		require.NoError(t, err)
		defer unlocked.Destroy()
		assert.Equal(t, secretOf(t, mk), secretOf(t, unlocked))
	})

	t.Run("old password no longer unlocks the new material", func(t *testing.T) {
		_, err := svc.Unlock("old-password", &rotated.KeyMaterial)
		assert.ErrorIs(t, err, accountDomain.ErrWrongPassword)
	})

	t.Run("wrong old password", func(t *testing.T) {
		_, _, err := svc.Rotate("nope", "new-password", &enrollment.KeyMaterial)
		assert.ErrorIs(t, err, accountDomain.ErrWrongPassword)
	})

	t.Run("empty new password", func(t *testing.T) {
		_, _, err := svc.Rotate("old-password", "", &enrollment.KeyMaterial)
		assert.ErrorIs(t, err, cryptoDomain.ErrEmptySecret)
	})
}

func TestMasterKey_Destroy(t *testing.T) {
	mk := accountDomain.NewMasterKey([]byte{1, 2, 3})
	mk.Destroy()

	err := mk.Use(func([]byte) error { return nil })
	assert.ErrorIs(t, err, accountDomain.ErrMasterKeyLocked)
	assert.NotPanics(t, func() { mk.Destroy() })
}
