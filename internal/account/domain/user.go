// Package domain defines the account entities of the master key hierarchy.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// WrappedMasterKeySize is the length of a master key wrapped by the crypto engine:
// nonce, sealed secret and tag.
const WrappedMasterKeySize = cryptoDomain.NonceSize + cryptoDomain.SecretSize + cryptoDomain.TagSize

// NormalizeUsername lowercases and trims a username. Usernames are compared and
// stored in normalized form only.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// User is a registered account. The server stores only a hash of the login
// authenticator and the master key wrapped under the password-derived wrap key.
type User struct {
	ID               uuid.UUID
	Username         string
	PasswordHash     string
	WrappedMasterKey []byte
	MasterKeySalt    []byte
	KDFIterations    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// KeyMaterial returns the data a client needs to unlock the master key.
func (u *User) KeyMaterial() *KeyMaterial {
	return &KeyMaterial{
		WrappedMasterKey: u.WrappedMasterKey,
		KDFParams: KDFParams{
			Salt:       u.MasterKeySalt,
			Iterations: u.KDFIterations,
		},
	}
}

// KDFParams are the public inputs to the password KDF.
type KDFParams struct {
	Salt       []byte
	Iterations int
}

// KeyMaterial is the wrapped master key together with the parameters needed to
// derive its wrap key.
type KeyMaterial struct {
	WrappedMasterKey []byte
	KDFParams
}

// Enrollment is the output of enrolling (or re-enrolling) a password: the
// authenticator sent to the server and the new key material.
type Enrollment struct {
	Authenticator []byte
	KeyMaterial
}

// Validate checks the shape of client supplied key material. It cannot tell
// whether the material was produced from the right password.
func (e *Enrollment) Validate() error {
	switch {
	case len(e.Authenticator) != cryptoDomain.KeySize:
		return ErrInvalidKeyMaterial
	case len(e.WrappedMasterKey) != WrappedMasterKeySize:
		return ErrInvalidKeyMaterial
	case len(e.Salt) != cryptoDomain.SaltSize:
		return ErrInvalidKeyMaterial
	case e.Iterations < cryptoDomain.MinIterations:
		return ErrInvalidKeyMaterial
	}
	return nil
}

// Registration is the server input for creating an account.
type Registration struct {
	Username   string
	Enrollment Enrollment
}

// CredentialChange replaces the authenticator and key material of an account.
// The old authenticator proves knowledge of the current password.
type CredentialChange struct {
	OldAuthenticator []byte
	Enrollment       Enrollment

	// CurrentTokenHash identifies the session that stays valid after the change.
	// Every other token of the user is revoked.
	CurrentTokenHash string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User       *User
	PlainToken string
	ExpiresAt  time.Time
}
