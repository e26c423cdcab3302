package envelope

import (
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	cryptoService "github.com/allisson/passbox/internal/crypto/service"
)

// FieldResult is the outcome of decrypting one field independently.
type FieldResult struct {
	Value string
	Err   error
}

// Codec produces and consumes envelopes with a crypto engine. It is stateless
// and safe for concurrent use.
type Codec struct {
	engine cryptoService.Engine
}

// NewCodec creates a Codec backed by engine.
func NewCodec(engine cryptoService.Engine) *Codec {
	return &Codec{engine: engine}
}

// Engine returns the engine the codec encrypts with.
func (c *Codec) Engine() cryptoService.Engine {
	return c.engine
}

// EncryptPlain encrypts each field independently under key.
func (c *Codec) EncryptPlain(fields []string, key *cryptoService.Key) (*PlainEnvelope, error) {
	if len(fields) == 0 {
		return nil, ErrEmptyFields
	}

	ciphertexts := make([][]byte, 0, len(fields))
	for _, field := range fields {
		ct, err := c.engine.Encrypt(field, key)
		if err != nil {
			return nil, err
		}
		ciphertexts = append(ciphertexts, ct)
	}
	return &PlainEnvelope{Ciphertexts: ciphertexts}, nil
}

// DecryptPlain decrypts every field of env. Any failure fails the whole call and
// no plaintext is returned.
func (c *Codec) DecryptPlain(env *PlainEnvelope, key *cryptoService.Key) ([]string, error) {
	if env == nil || len(env.Ciphertexts) == 0 {
		return nil, ErrMalformedEnvelope
	}

	plaintexts := make([]string, 0, len(env.Ciphertexts))
	for _, ct := range env.Ciphertexts {
		pt, err := c.engine.Decrypt(ct, key)
		if err != nil {
			return nil, err
		}
		plaintexts = append(plaintexts, pt)
	}
	return plaintexts, nil
}

// DecryptEach decrypts every field of env independently, reporting a per-field
// error instead of failing the batch. A nil envelope has no fields.
func (c *Codec) DecryptEach(env *PlainEnvelope, key *cryptoService.Key) []FieldResult {
	if env == nil {
		return nil
	}
	results := make([]FieldResult, len(env.Ciphertexts))
	for i, ct := range env.Ciphertexts {
		results[i].Value, results[i].Err = c.engine.Decrypt(ct, key)
	}
	return results
}

// EncryptWrapped mints a fresh content key, encrypts fields under it and wraps
// it under a key derived from wrapSecret and a fresh salt.
func (c *Codec) EncryptWrapped(fields []string, wrapSecret []byte) (*WrappedEnvelope, error) {
	env, contentKey, err := c.EncryptWrappedRetainingKey(fields, wrapSecret)
	if err != nil {
		return nil, err
	}
	contentKey.Destroy()
	return env, nil
}

// EncryptWrappedRetainingKey is EncryptWrapped that also hands the content key
// to the caller, who becomes responsible for destroying it.
func (c *Codec) EncryptWrappedRetainingKey(
	fields []string,
	wrapSecret []byte,
) (*WrappedEnvelope, *cryptoService.Key, error) {
	if len(fields) == 0 {
		return nil, nil, ErrEmptyFields
	}

	contentKey, err := c.engine.GenerateKey(cryptoDomain.PurposeEncrypt)
	if err != nil {
		return nil, nil, err
	}

	wrapped, err := c.WrapKey(contentKey, wrapSecret)
	if err != nil {
		contentKey.Destroy()
		return nil, nil, err
	}

	plain, err := c.EncryptPlain(fields, contentKey)
	if err != nil {
		contentKey.Destroy()
		return nil, nil, err
	}

	return &WrappedEnvelope{Key: wrapped, Ciphertexts: plain.Ciphertexts}, contentKey, nil
}

// DecryptWrapped unwraps the content key with wrapSecret and decrypts every
// field. It returns the content key so callers can re-wrap it for another
// principal; the caller must destroy it.
func (c *Codec) DecryptWrapped(
	env *WrappedEnvelope,
	wrapSecret []byte,
) (*cryptoService.Key, []string, error) {
	if env == nil {
		return nil, nil, ErrMalformedEnvelope
	}

	contentKey, err := c.UnwrapKey(env.Key, wrapSecret)
	if err != nil {
		return nil, nil, err
	}

	plaintexts, err := c.DecryptPlain(env.Plain(), contentKey)
	if err != nil {
		contentKey.Destroy()
		return nil, nil, err
	}
	return contentKey, plaintexts, nil
}

// WrapKey wraps an existing content key under wrapSecret with a fresh salt.
func (c *Codec) WrapKey(contentKey *cryptoService.Key, wrapSecret []byte) (WrappedKey, error) {
	salt, err := c.engine.GenerateSalt()
	if err != nil {
		return nil, err
	}

	wrapKey, err := c.engine.DeriveKey(wrapSecret, salt, cryptoDomain.PurposeWrap)
	if err != nil {
		return nil, err
	}
	defer wrapKey.Destroy()

	wrapped, err := c.engine.WrapKey(contentKey, wrapKey)
	if err != nil {
		return nil, err
	}
	return NewWrappedKey(salt, wrapped)
}

// UnwrapKey recovers a content key wrapped by WrapKey. A wrong secret fails with
// ErrCryptoFailure and never yields key material.
func (c *Codec) UnwrapKey(wrapped WrappedKey, wrapSecret []byte) (*cryptoService.Key, error) {
	wk, err := ParseWrappedKey(wrapped)
	if err != nil {
		return nil, err
	}

	wrapKey, err := c.engine.DeriveKey(wrapSecret, wk.Salt(), cryptoDomain.PurposeWrap)
	if err != nil {
		return nil, err
	}
	defer wrapKey.Destroy()

	return c.engine.UnwrapKey(wk.Wrapped(), wrapKey, cryptoDomain.PurposeEncrypt)
}
