// Package service provides technical services for authentication operations.
//
// It hashes login authenticators for storage and issues opaque bearer tokens.
package service

// SecretService hashes and verifies login authenticators.
//
// An authenticator is the key a client derives from the account password with the
// authentication purpose. The server only keeps its slow hash, so a leaked user
// table never exposes anything that can unwrap a master key.
type SecretService interface {
	// HashSecret returns the PHC-formatted hash of an authenticator.
	HashSecret(authenticator []byte) (string, error)

	// CompareSecret reports whether the authenticator matches the stored hash.
	// Malformed hashes never match.
	CompareSecret(authenticator []byte, hashedSecret string) bool

	// CompareDummy spends the same work as CompareSecret against a fixed hash and
	// always returns false. Login calls it for unknown usernames.
	CompareDummy(authenticator []byte) bool
}

// TokenService defines operations for authentication token generation and hashing.
// Implementations must use cryptographically secure random generation and
// fast hashing algorithms suitable for short-lived tokens (e.g., SHA-256).
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (handed to the client once) and
	// the hashed version (stored in the database).
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plain text token using SHA-256.
	HashToken(plainToken string) string
}
