// Package usecase defines business logic interfaces for bearer token authentication.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	authDomain "github.com/allisson/passbox/internal/auth/domain"
)

// TokenRepository defines persistence operations for authentication tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token in the repository.
	Create(ctx context.Context, token *authDomain.Token) error

	// GetByTokenHash retrieves a token by its hash. Returns ErrTokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)

	// Revoke marks a single token as revoked. Revoking an unknown or already revoked
	// token is not an error.
	Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error

	// RevokeAllForUser revokes every active token of a user except the one whose
	// hash equals exceptTokenHash (which may be empty).
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, exceptTokenHash string, revokedAt time.Time) error

	// DeleteExpired removes tokens that expired before the given time and returns the count.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// UserRepository is the subset of account persistence token authentication needs.
type UserRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*accountDomain.User, error)
}

// TokenUseCase issues and validates bearer session tokens.
type TokenUseCase interface {
	// Issue creates a new token for an already authenticated user. The plain token
	// is only returned once.
	Issue(ctx context.Context, userID uuid.UUID) (*authDomain.IssueTokenOutput, error)

	// Authenticate resolves a token hash into the principal it was issued to.
	// Unknown, expired and revoked tokens all return ErrInvalidToken.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.Principal, error)

	// Revoke invalidates one token.
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllForUser invalidates every token of a user but the one given.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, exceptTokenHash string) error

	// CleanupExpired deletes expired tokens and returns how many were removed.
	CleanupExpired(ctx context.Context) (int64, error)
}
