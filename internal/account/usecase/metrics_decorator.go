package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	"github.com/allisson/passbox/internal/metrics"
)

// accountUseCaseWithMetrics decorates AccountUseCase with metrics instrumentation.
type accountUseCaseWithMetrics struct {
	next    AccountUseCase
	metrics metrics.BusinessMetrics
}

// NewAccountUseCaseWithMetrics wraps an AccountUseCase with metrics recording.
func NewAccountUseCaseWithMetrics(useCase AccountUseCase, m metrics.BusinessMetrics) AccountUseCase {
	return &accountUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *accountUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	a.metrics.RecordOperation(ctx, "account", operation, status)
	a.metrics.RecordDuration(ctx, "account", operation, time.Since(start), status)
}

// Register records metrics for account registration.
func (a *accountUseCaseWithMetrics) Register(
	ctx context.Context,
	registration *accountDomain.Registration,
) (*accountDomain.User, error) {
	start := time.Now()
	user, err := a.next.Register(ctx, registration)
	a.record(ctx, "account_register", start, err)
	return user, err
}

// PreLogin records metrics for pre-login parameter lookups.
func (a *accountUseCaseWithMetrics) PreLogin(
	ctx context.Context,
	username string,
) (*accountDomain.KDFParams, error) {
	start := time.Now()
	params, err := a.next.PreLogin(ctx, username)
	a.record(ctx, "account_prelogin", start, err)
	return params, err
}

// Login records metrics for login attempts.
func (a *accountUseCaseWithMetrics) Login(
	ctx context.Context,
	username string,
	authenticator []byte,
) (*accountDomain.LoginResult, error) {
	start := time.Now()
	result, err := a.next.Login(ctx, username, authenticator)
	a.record(ctx, "account_login", start, err)
	return result, err
}

// ChangeCredentials records metrics for credential rotation.
func (a *accountUseCaseWithMetrics) ChangeCredentials(
	ctx context.Context,
	userID uuid.UUID,
	change *accountDomain.CredentialChange,
) error {
	start := time.Now()
	err := a.next.ChangeCredentials(ctx, userID, change)
	a.record(ctx, "account_change_credentials", start, err)
	return err
}

// Logout records metrics for logout.
func (a *accountUseCaseWithMetrics) Logout(ctx context.Context, tokenHash string) error {
	start := time.Now()
	err := a.next.Logout(ctx, tokenHash)
	a.record(ctx, "account_logout", start, err)
	return err
}
