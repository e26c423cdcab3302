// Package usecase implements the server side of account registration, login
// and credential rotation.
package usecase

import (
	"context"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores a new user. Returns ErrUserAlreadyExists for a taken username.
	Create(ctx context.Context, user *accountDomain.User) error

	// Get retrieves a user by ID. Returns ErrUserNotFound if not found.
	Get(ctx context.Context, id uuid.UUID) (*accountDomain.User, error)

	// GetByUsername retrieves a user by normalized username. Returns ErrUserNotFound if not found.
	GetByUsername(ctx context.Context, username string) (*accountDomain.User, error)

	// UpdateCredentials replaces the password hash and key material of a user.
	UpdateCredentials(ctx context.Context, user *accountDomain.User) error
}

// AccountUseCase is the server side of the master key hierarchy. It never sees a
// password or an unwrapped master key.
type AccountUseCase interface {
	// Register creates an account from a client enrollment.
	Register(ctx context.Context, registration *accountDomain.Registration) (*accountDomain.User, error)

	// PreLogin returns the KDF parameters needed to derive the authenticator.
	// Unknown usernames get stable decoy parameters.
	PreLogin(ctx context.Context, username string) (*accountDomain.KDFParams, error)

	// Login verifies the authenticator and issues a bearer token.
	Login(ctx context.Context, username string, authenticator []byte) (*accountDomain.LoginResult, error)

	// ChangeCredentials replaces the authenticator hash and key material atomically
	// and revokes every other token of the user.
	ChangeCredentials(ctx context.Context, userID uuid.UUID, change *accountDomain.CredentialChange) error

	// Logout revokes the token with the given hash.
	Logout(ctx context.Context, tokenHash string) error
}
