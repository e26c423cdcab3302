package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	"github.com/allisson/passbox/internal/metrics"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	t.metrics.RecordOperation(ctx, "auth", operation, status)
	t.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// Issue records metrics for token issuance operations.
func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	userID uuid.UUID,
) (*authDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, userID)
	t.record(ctx, "token_issue", start, err)
	return output, err
}

// Authenticate records metrics for token authentication operations.
func (t *tokenUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	tokenHash string,
) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := t.next.Authenticate(ctx, tokenHash)
	t.record(ctx, "token_authenticate", start, err)
	return principal, err
}

// Revoke records metrics for token revocation.
func (t *tokenUseCaseWithMetrics) Revoke(ctx context.Context, tokenHash string) error {
	start := time.Now()
	err := t.next.Revoke(ctx, tokenHash)
	t.record(ctx, "token_revoke", start, err)
	return err
}

// RevokeAllForUser records metrics for bulk token revocation.
func (t *tokenUseCaseWithMetrics) RevokeAllForUser(
	ctx context.Context,
	userID uuid.UUID,
	exceptTokenHash string,
) error {
	start := time.Now()
	err := t.next.RevokeAllForUser(ctx, userID, exceptTokenHash)
	t.record(ctx, "token_revoke_all", start, err)
	return err
}

// CleanupExpired records metrics for expired token cleanup.
func (t *tokenUseCaseWithMetrics) CleanupExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := t.next.CleanupExpired(ctx)
	t.record(ctx, "token_cleanup", start, err)
	return count, err
}
