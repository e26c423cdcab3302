package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	authService "github.com/allisson/passbox/internal/auth/service"
	authUseCase "github.com/allisson/passbox/internal/auth/usecase"
	"github.com/allisson/passbox/internal/config"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	"github.com/allisson/passbox/internal/database"
	apperrors "github.com/allisson/passbox/internal/errors"
)

const preLoginDecoyContext = "passbox:prelogin-decoy:v1:"

type accountUseCase struct {
	txManager     database.TxManager
	userRepo      UserRepository
	secretService authService.SecretService
	tokenUseCase  authUseCase.TokenUseCase
	decoySecret   []byte
	now           func() time.Time
}

// NewAccountUseCase creates an AccountUseCase. When no pre-login decoy secret is
// configured a random one is used, so decoy salts are only stable for the
// lifetime of the process.
func NewAccountUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	userRepo UserRepository,
	secretService authService.SecretService,
	tokenUseCase authUseCase.TokenUseCase,
) AccountUseCase {
	decoySecret := []byte(cfg.PreLoginDecoySecret)
	if len(decoySecret) == 0 {
		decoySecret = []byte(rand.Text())
	}

	return &accountUseCase{
		txManager:     txManager,
		userRepo:      userRepo,
		secretService: secretService,
		tokenUseCase:  tokenUseCase,
		decoySecret:   decoySecret,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user from a client enrollment. Only an Argon2id hash of
// the authenticator is stored; the wrapped master key is stored as sent.
func (a *accountUseCase) Register(
	ctx context.Context,
	registration *accountDomain.Registration,
) (*accountDomain.User, error) {
	username := accountDomain.NormalizeUsername(registration.Username)
	if username == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "username is required")
	}
	if err := registration.Enrollment.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := a.secretService.HashSecret(registration.Enrollment.Authenticator)
	if err != nil {
		return nil, err
	}

	now := a.now()
	user := &accountDomain.User{
		ID:               uuid.Must(uuid.NewV7()),
		Username:         username,
		PasswordHash:     passwordHash,
		WrappedMasterKey: registration.Enrollment.WrappedMasterKey,
		MasterKeySalt:    registration.Enrollment.Salt,
		KDFIterations:    registration.Enrollment.Iterations,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := a.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// PreLogin returns the KDF parameters for username, or decoy parameters when
// no such user exists.
func (a *accountUseCase) PreLogin(ctx context.Context, username string) (*accountDomain.KDFParams, error) {
	username = accountDomain.NormalizeUsername(username)

	user, err := a.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return &accountDomain.KDFParams{Salt: user.MasterKeySalt, Iterations: user.KDFIterations}, nil
	}
	if !apperrors.Is(err, accountDomain.ErrUserNotFound) {
		return nil, err
	}

	salt, err := a.decoySalt(username)
	if err != nil {
		return nil, err
	}
	return &accountDomain.KDFParams{Salt: salt, Iterations: cryptoDomain.DefaultIterations}, nil
}

// decoySalt derives a salt for an unknown username that stays the same across
// calls, so repeated pre-logins cannot tell real accounts from missing ones.
func (a *accountUseCase) decoySalt(username string) ([]byte, error) {
	reader := hkdf.New(sha256.New, a.decoySecret, nil, []byte(preLoginDecoyContext+username))
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := io.ReadFull(reader, salt); err != nil {
		return nil, apperrors.Wrap(err, "failed to derive decoy salt")
	}
	return salt, nil
}

// Login verifies the authenticator and issues a bearer token. Unknown users
// and wrong authenticators return the same error after the same work.
func (a *accountUseCase) Login(
	ctx context.Context,
	username string,
	authenticator []byte,
) (*accountDomain.LoginResult, error) {
	user, err := a.userRepo.GetByUsername(ctx, accountDomain.NormalizeUsername(username))
	if err != nil {
		if apperrors.Is(err, accountDomain.ErrUserNotFound) {
			a.secretService.CompareDummy(authenticator)
			return nil, accountDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.secretService.CompareSecret(authenticator, user.PasswordHash) {
		return nil, accountDomain.ErrInvalidCredentials
	}

	token, err := a.tokenUseCase.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &accountDomain.LoginResult{
		User:       user,
		PlainToken: token.PlainToken,
		ExpiresAt:  token.ExpiresAt,
	}, nil
}

// ChangeCredentials swaps in a new enrollment after checking the old
// authenticator, then revokes every other token of the user.
func (a *accountUseCase) ChangeCredentials(
	ctx context.Context,
	userID uuid.UUID,
	change *accountDomain.CredentialChange,
) error {
	if err := change.Enrollment.Validate(); err != nil {
		return err
	}

	return a.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := a.userRepo.Get(ctx, userID)
		if err != nil {
			return err
		}

		if !a.secretService.CompareSecret(change.OldAuthenticator, user.PasswordHash) {
			return accountDomain.ErrInvalidCredentials
		}

		passwordHash, err := a.secretService.HashSecret(change.Enrollment.Authenticator)
		if err != nil {
			return err
		}

		user.PasswordHash = passwordHash
		user.WrappedMasterKey = change.Enrollment.WrappedMasterKey
		user.MasterKeySalt = change.Enrollment.Salt
		user.KDFIterations = change.Enrollment.Iterations
		user.UpdatedAt = a.now()

		if err := a.userRepo.UpdateCredentials(ctx, user); err != nil {
			return err
		}

		return a.tokenUseCase.RevokeAllForUser(ctx, user.ID, change.CurrentTokenHash)
	})
}

// Logout revokes the token with tokenHash.
func (a *accountUseCase) Logout(ctx context.Context, tokenHash string) error {
	return a.tokenUseCase.Revoke(ctx, tokenHash)
}
