package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// EngineService implements the Engine interface. It holds no mutable state and
// is safe for concurrent use.
type EngineService struct {
	aeadManager AEADManager
	keyManager  KeyManager
	iterations  int
}

// NewEngine creates an EngineService. iterations is the PBKDF2 count used by
// DeriveKey and must be at least MinIterations.
func NewEngine(aeadManager AEADManager, keyManager KeyManager, iterations int) (*EngineService, error) {
	if iterations < cryptoDomain.MinIterations {
		return nil, cryptoDomain.ErrWeakIterations
	}
	return &EngineService{
		aeadManager: aeadManager,
		keyManager:  keyManager,
		iterations:  iterations,
	}, nil
}

// NewDefaultEngine wires an engine with the AES-GCM manager and DefaultIterations.
func NewDefaultEngine() *EngineService {
	aeadManager := NewAEADManager()
	return &EngineService{
		aeadManager: aeadManager,
		keyManager:  NewKeyManager(aeadManager),
		iterations:  cryptoDomain.DefaultIterations,
	}
}

// Iterations returns the PBKDF2 count used by DeriveKey.
func (e *EngineService) Iterations() int {
	return e.iterations
}

// DeriveKey derives a key for purpose from secret and salt with the engine's
// iteration count.
func (e *EngineService) DeriveKey(secret, salt []byte, purpose cryptoDomain.Purpose) (*Key, error) {
	keys, err := e.DeriveKeys(secret, salt, e.iterations, purpose)
	if err != nil {
		return nil, err
	}
	return keys[0], nil
}

// DeriveKeys runs PBKDF2 once and expands the root into one key per purpose
// using HKDF with a distinct context each. Keys derived from one call are
// independent: knowing one reveals nothing about the others.
func (e *EngineService) DeriveKeys(
	secret, salt []byte,
	iterations int,
	purposes ...cryptoDomain.Purpose,
) ([]*Key, error) {
	if len(purposes) == 0 {
		return nil, cryptoDomain.ErrInvalidPurpose
	}
	for _, p := range purposes {
		if !p.Valid() {
			return nil, cryptoDomain.ErrInvalidPurpose
		}
	}

	root, err := deriveRoot(secret, salt, iterations)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(root)

	keys := make([]*Key, 0, len(purposes))
	for _, p := range purposes {
		material, err := expand(root, cryptoDomain.PurposeContext(p))
		if err != nil {
			for _, k := range keys {
				k.Destroy()
			}
			return nil, fmt.Errorf("failed to expand key: %w", err)
		}
		keys = append(keys, newKey(material, p))
	}
	return keys, nil
}

// GenerateKey creates a random key for purpose.
func (e *EngineService) GenerateKey(purpose cryptoDomain.Purpose) (*Key, error) {
	return e.keyManager.GenerateKey(purpose)
}

// GenerateSecret returns SecretSize random bytes. The caller owns the buffer.
func (e *EngineService) GenerateSecret() ([]byte, error) {
	secret := make([]byte, cryptoDomain.SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	return secret, nil
}

// GenerateSalt returns SaltSize random bytes.
func (e *EngineService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// Encrypt encrypts plaintext under an encrypt-purpose key and returns
// nonce ‖ ciphertext.
func (e *EngineService) Encrypt(plaintext string, key *Key) ([]byte, error) {
	var sealed []byte
	err := key.with(cryptoDomain.PurposeEncrypt, func(material []byte) error {
		aead, err := e.aeadManager.CreateCipher(material, cryptoDomain.AESGCM)
		if err != nil {
			return err
		}
		buf := []byte(plaintext)
		defer cryptoDomain.Zero(buf)
		sealed, err = seal(aead, buf, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sealed, nil
}

// Decrypt reverses Encrypt. Any tampering, truncation or wrong key is
// ErrDecryptionFailed and no plaintext is returned.
func (e *EngineService) Decrypt(sealed []byte, key *Key) (string, error) {
	var plaintext string
	err := key.with(cryptoDomain.PurposeEncrypt, func(material []byte) error {
		aead, err := e.aeadManager.CreateCipher(material, cryptoDomain.AESGCM)
		if err != nil {
			return err
		}
		buf, err := open(aead, sealed, nil)
		if err != nil {
			return err
		}
		defer cryptoDomain.Zero(buf)
		plaintext = string(buf)
		return nil
	})
	if err != nil {
		return "", err
	}
	return plaintext, nil
}

// WrapKey wraps key under wrapKey.
func (e *EngineService) WrapKey(key, wrapKey *Key) ([]byte, error) {
	return e.keyManager.WrapKey(key, wrapKey)
}

// UnwrapKey unwraps a key expected to carry purpose.
func (e *EngineService) UnwrapKey(wrapped []byte, wrapKey *Key, purpose cryptoDomain.Purpose) (*Key, error) {
	return e.keyManager.UnwrapKey(wrapped, wrapKey, purpose)
}

// WrapSecret wraps a raw secret under wrapKey.
func (e *EngineService) WrapSecret(secret []byte, wrapKey *Key) ([]byte, error) {
	return e.keyManager.WrapSecret(secret, wrapKey)
}

// UnwrapSecret unwraps a raw secret. The caller must zero the result.
func (e *EngineService) UnwrapSecret(wrapped []byte, wrapKey *Key) ([]byte, error) {
	return e.keyManager.UnwrapSecret(wrapped, wrapKey)
}

// Tag computes a hex HMAC-SHA256 of message under a subkey of an encrypt-purpose
// key. Equal messages under the same key produce equal tags, so the server can
// enforce uniqueness without learning the message.
func (e *EngineService) Tag(key *Key, message string) (string, error) {
	var tag string
	err := key.with(cryptoDomain.PurposeEncrypt, func(material []byte) error {
		sub, err := expand(material, cryptoDomain.TagContext())
		if err != nil {
			return err
		}
		defer cryptoDomain.Zero(sub)

		mac := hmac.New(sha256.New, sub)
		mac.Write([]byte(message))
		tag = hex.EncodeToString(mac.Sum(nil))
		return nil
	})
	if err != nil {
		return "", err
	}
	return tag, nil
}

// Export returns a copy of an authenticate-purpose key's material. It is the
// only way key bytes leave the engine, and it refuses every other purpose.
func (e *EngineService) Export(key *Key) ([]byte, error) {
	var out []byte
	err := key.with(cryptoDomain.PurposeAuthenticate, func(material []byte) error {
		out = append([]byte(nil), material...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Digest returns the uppercase hex SHA-1 of message. It is only used for
// k-anonymity breach lookups and never for authentication or key derivation.
func (e *EngineService) Digest(message string) string {
	return Digest(message)
}
