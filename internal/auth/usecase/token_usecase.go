package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	authDomain "github.com/allisson/passbox/internal/auth/domain"
	authService "github.com/allisson/passbox/internal/auth/service"
	"github.com/allisson/passbox/internal/config"
)

type tokenUseCase struct {
	config       *config.Config
	userRepo     UserRepository
	tokenRepo    TokenRepository
	tokenService authService.TokenService
	now          func() time.Time
}

// Issue generates a token for userID with the configured expiration.
func (t *tokenUseCase) Issue(ctx context.Context, userID uuid.UUID) (*authDomain.IssueTokenOutput, error) {
	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := t.now()
	token := &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		UserID:    userID,
		ExpiresAt: now.Add(t.config.AuthTokenExpiration),
		CreatedAt: now,
	}
	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{
		PlainToken: plainToken,
		ExpiresAt:  token.ExpiresAt,
	}, nil
}

// Authenticate validates a token hash and loads the owning user.
//
// Unknown, expired and revoked tokens, as well as tokens of deleted users, all
// collapse into ErrInvalidToken so callers learn nothing about token state.
func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Principal, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	if !token.Active(t.now()) {
		return nil, authDomain.ErrInvalidToken
	}

	user, err := t.userRepo.Get(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, accountDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	return &authDomain.Principal{UserID: user.ID, Username: user.Username}, nil
}

// Revoke marks the token as revoked.
func (t *tokenUseCase) Revoke(ctx context.Context, tokenHash string) error {
	return t.tokenRepo.Revoke(ctx, tokenHash, t.now())
}

// RevokeAllForUser revokes every token of the user except exceptTokenHash.
func (t *tokenUseCase) RevokeAllForUser(ctx context.Context, userID uuid.UUID, exceptTokenHash string) error {
	return t.tokenRepo.RevokeAllForUser(ctx, userID, exceptTokenHash, t.now())
}

// CleanupExpired removes expired tokens.
func (t *tokenUseCase) CleanupExpired(ctx context.Context) (int64, error) {
	return t.tokenRepo.DeleteExpired(ctx, t.now())
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	config *config.Config,
	userRepo UserRepository,
	tokenRepo TokenRepository,
	tokenService authService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		config:       config,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		now:          func() time.Time { return time.Now().UTC() },
	}
}
