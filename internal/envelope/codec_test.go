package envelope

import (
	"crypto/rand"
	"fmt"
	mathrand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	cryptoService "github.com/allisson/passbox/internal/crypto/service"
	apperrors "github.com/allisson/passbox/internal/errors"
)

func newTestCodec() *Codec {
	return NewCodec(cryptoService.NewDefaultEngine())
}

func randomSecret(t *testing.T) []byte {
	t.Helper()
	secret := make([]byte, cryptoDomain.SecretSize)
	_, err := rand.Read(secret)
	require.NoError(t, err)
	return secret
}

func randomFields(r *mathrand.Rand) []string {
	fields := make([]string, 1+r.IntN(4))
	for i := range fields {
		b := make([]byte, r.IntN(64))
		for j := range b {
			b[j] = byte(32 + r.IntN(95))
		}
		fields[i] = string(b)
	}
	return fields
}

func TestCodec_WrappedRoundTrip(t *testing.T) {
	codec := newTestCodec()
	r := mathrand.New(mathrand.NewPCG(1, 2))

	for i := 0; i < 5; i++ {
		fields := randomFields(r)
		secret := randomSecret(t)

		t.Run(fmt.Sprintf("case %d", i), func(t *testing.T) {
			env, err := codec.EncryptWrapped(fields, secret)
			require.NoError(t, err)
			assert.Len(t, env.Key, WrappedKeySize)
			assert.Len(t, env.Ciphertexts, len(fields))

			key, got, err := codec.DecryptWrapped(env, secret)
			require.NoError(t, err)
			defer key.Destroy()
			assert.Equal(t, fields, got)
			assert.Equal(t, cryptoDomain.PurposeEncrypt, key.Purpose())
		})
	}
}

func TestCodec_WrongSecretRejected(t *testing.T) {
	codec := newTestCodec()
	fields := []string{"example.com", "alice", "p@ss"}
	secret := randomSecret(t)

	env, err := codec.EncryptWrapped(fields, secret)
	require.NoError(t, err)

	for _, wrong := range [][]byte{randomSecret(t), []byte("p"), append(append([]byte(nil), secret...), 0)} {
		key, got, err := codec.DecryptWrapped(env, wrong)
		assert.ErrorIs(t, err, apperrors.ErrCryptoFailure)
		assert.Nil(t, key)
		assert.Nil(t, got)
	}
}

func TestCodec_RetainedKeyMatchesEnvelope(t *testing.T) {
	codec := newTestCodec()
	secret := randomSecret(t)

	env, key, err := codec.EncryptWrappedRetainingKey([]string{"note", "body"}, secret)
	require.NoError(t, err)
	defer key.Destroy()

	got, err := codec.DecryptPlain(env.Plain(), key)
	require.NoError(t, err)
	assert.Equal(t, []string{"note", "body"}, got)
}

func TestCodec_PlainUnderExistingKey(t *testing.T) {
	codec := newTestCodec()
	secret := randomSecret(t)

	env, key, err := codec.EncryptWrappedRetainingKey([]string{"a", "b"}, secret)
	require.NoError(t, err)
	defer key.Destroy()

	updated, err := codec.EncryptPlain([]string{"c", "d"}, key)
	require.NoError(t, err)

	// the wrapped key is untouched by an update, so the old wrap still opens the new fields
	reread := &WrappedEnvelope{Key: env.Key, Ciphertexts: updated.Ciphertexts}
	k2, got, err := codec.DecryptWrapped(reread, secret)
	require.NoError(t, err)
	defer k2.Destroy()
	assert.Equal(t, []string{"c", "d"}, got)
}

func TestCodec_RewrapForAnotherSecret(t *testing.T) {
	codec := newTestCodec()
	ownerSecret := randomSecret(t)
	shareSecret := randomSecret(t)

	env, err := codec.EncryptWrapped([]string{"seed"}, ownerSecret)
	require.NoError(t, err)

	key, _, err := codec.DecryptWrapped(env, ownerSecret)
	require.NoError(t, err)
	defer key.Destroy()

	shared, err := codec.WrapKey(key, shareSecret)
	require.NoError(t, err)
	assert.NotEqual(t, env.Key.Salt(), shared.Salt())

	recovered, err := codec.UnwrapKey(shared, shareSecret)
	require.NoError(t, err)
	defer recovered.Destroy()

	got, err := codec.DecryptPlain(env.Plain(), recovered)
	require.NoError(t, err)
	assert.Equal(t, []string{"seed"}, got)

	_, err = codec.UnwrapKey(shared, ownerSecret)
	assert.ErrorIs(t, err, apperrors.ErrCryptoFailure)
}

func TestCodec_DecryptEach(t *testing.T) {
	codec := newTestCodec()
	secret := randomSecret(t)

	env, key, err := codec.EncryptWrappedRetainingKey([]string{"one", "two", "three"}, secret)
	require.NoError(t, err)
	defer key.Destroy()

	env.Ciphertexts[1][cryptoDomain.NonceSize] ^= 0x01

	results := codec.DecryptEach(env.Plain(), key)
	require.Len(t, results, 3)
	assert.Equal(t, "one", results[0].Value)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, apperrors.ErrCryptoFailure)
	assert.Empty(t, results[1].Value)
	assert.Equal(t, "three", results[2].Value)

	_, err = codec.DecryptPlain(env.Plain(), key)
	assert.ErrorIs(t, err, apperrors.ErrCryptoFailure)

	assert.Empty(t, codec.DecryptEach(nil, key))
	_, err = codec.DecryptPlain(nil, key)
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestCodec_EmptyFields(t *testing.T) {
	codec := newTestCodec()

	_, err := codec.EncryptWrapped(nil, randomSecret(t))
	assert.ErrorIs(t, err, ErrEmptyFields)

	_, err = codec.EncryptPlain([]string{}, nil)
	assert.ErrorIs(t, err, ErrEmptyFields)
}

func TestCodec_EmptySecret(t *testing.T) {
	codec := newTestCodec()

	_, err := codec.EncryptWrapped([]string{"x"}, nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrEmptySecret)
}
