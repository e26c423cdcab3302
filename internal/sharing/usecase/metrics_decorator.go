package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	"github.com/allisson/passbox/internal/metrics"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// sharingUseCaseWithMetrics decorates SharingUseCase with metrics instrumentation.
type sharingUseCaseWithMetrics struct {
	next    SharingUseCase
	metrics metrics.BusinessMetrics
}

// NewSharingUseCaseWithMetrics wraps a SharingUseCase with metrics recording.
func NewSharingUseCaseWithMetrics(useCase SharingUseCase, m metrics.BusinessMetrics) SharingUseCase {
	return &sharingUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *sharingUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	s.metrics.RecordOperation(ctx, "sharing", operation, status)
	s.metrics.RecordDuration(ctx, "sharing", operation, time.Since(start), status)
}

// Create records metrics for share creation.
func (s *sharingUseCaseWithMetrics) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	input *sharingDomain.CreateShareInput,
) (*sharingDomain.Share, error) {
	start := time.Now()
	share, err := s.next.Create(ctx, principal, input)
	s.record(ctx, "share_create", start, err)
	return share, err
}

// Get records metrics for share lookups.
func (s *sharingUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	start := time.Now()
	share, err := s.next.Get(ctx, id)
	s.record(ctx, "share_get", start, err)
	return share, err
}

// Accept records metrics for share acceptance.
func (s *sharingUseCaseWithMetrics) Accept(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
	input *vaultDomain.AddOwnerInput,
) (*vaultDomain.Record, error) {
	start := time.Now()
	record, err := s.next.Accept(ctx, principal, id, input)
	s.record(ctx, "share_accept", start, err)
	return record, err
}

// Delete records metrics for share deletion.
func (s *sharingUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.record(ctx, "share_delete", start, err)
	return err
}

// CleanExpired records metrics for expired share cleanup.
func (s *sharingUseCaseWithMetrics) CleanExpired(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	count, err := s.next.CleanExpired(ctx, now)
	s.record(ctx, "share_clean_expired", start, err)
	return count, err
}
