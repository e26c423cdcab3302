package domain

// Algorithm represents the AEAD algorithm used for field encryption and key wrapping.
//
// Every ciphertext produced by passbox carries no algorithm marker, so exactly one
// algorithm is supported. It is kept as a named type so the AEAD factory stays
// explicit about what it builds.
type Algorithm string

// AESGCM represents AES-256-GCM with a 12-byte nonce and a 16-byte tag.
const AESGCM Algorithm = "aes-gcm"

// Purpose scopes a symmetric key to exactly one use. A key derived or generated
// for one purpose is refused by operations expecting another.
type Purpose string

const (
	// PurposeEncrypt keys encrypt and decrypt record fields (content keys).
	PurposeEncrypt Purpose = "encrypt"

	// PurposeWrap keys wrap other keys or secrets (master key wrap key, share wrap key).
	PurposeWrap Purpose = "wrap"

	// PurposeAuthenticate keys are exported once as the login authenticator and
	// never used for encryption.
	PurposeAuthenticate Purpose = "authenticate"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeEncrypt, PurposeWrap, PurposeAuthenticate:
		return true
	}
	return false
}

// Sizes and parameters shared by the engine and the envelope codec.
const (
	// KeySize is the size of every symmetric key (AES-256).
	KeySize = 32

	// NonceSize is the AES-GCM nonce size prepended to every ciphertext.
	NonceSize = 12

	// TagSize is the AES-GCM authentication tag size.
	TagSize = 16

	// SaltSize is the size of every KDF salt.
	SaltSize = 16

	// SecretSize is the size of generated secrets (master keys, share secrets).
	SecretSize = 32

	// MinIterations is the lowest PBKDF2-SHA256 iteration count accepted.
	MinIterations = 250_000

	// DefaultIterations is the iteration count used for new enrollments and envelopes.
	DefaultIterations = MinIterations
)

// HKDF context strings. Changing any of them makes existing ciphertext unreadable.
const (
	purposeContextPrefix = "passbox:"
	keyWrapContextPrefix = "passbox:key-wrap:v1:"
	secretWrapContext    = "passbox:secret-wrap:v1"
	tagContext           = "passbox:tag:v1"
)

// PurposeContext returns the HKDF info string that scopes a derived key to p.
func PurposeContext(p Purpose) []byte {
	return []byte(purposeContextPrefix + string(p))
}

// KeyWrapContext returns the associated data bound to a wrapped key of purpose p.
func KeyWrapContext(p Purpose) []byte {
	return []byte(keyWrapContextPrefix + string(p))
}

// SecretWrapContext returns the associated data bound to a wrapped raw secret.
func SecretWrapContext() []byte {
	return []byte(secretWrapContext)
}

// TagContext returns the HKDF info string used to derive tagging subkeys.
func TagContext() []byte {
	return []byte(tagContext)
}
