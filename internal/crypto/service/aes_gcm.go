package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce, randomly generated per encryption
//   - 16-byte authentication tag appended to the ciphertext
//
// The cipher instance is stateless and safe for concurrent use.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance. The key must be exactly
// 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext with a fresh random nonce, authenticating aad.
// The returned ciphertext has the tag appended.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt verifies the tag and decrypts ciphertext. No plaintext is returned when
// authentication fails.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// seal encrypts plaintext and returns nonce ‖ ciphertext.
func seal(aead AEAD, plaintext, aad []byte) ([]byte, error) {
	ciphertext, nonce, err := aead.Encrypt(plaintext, aad)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(nonce)+len(ciphertext))
	out = append(out, nonce...)
	return append(out, ciphertext...), nil
}

// open splits nonce ‖ ciphertext and decrypts it.
func open(aead AEAD, sealed, aad []byte) ([]byte, error) {
	if len(sealed) < cryptoDomain.NonceSize+cryptoDomain.TagSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return aead.Decrypt(sealed[cryptoDomain.NonceSize:], sealed[:cryptoDomain.NonceSize], aad)
}
