package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	"github.com/allisson/passbox/internal/metrics"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	v.metrics.RecordOperation(ctx, "vault", operation, status)
	v.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

// Create records metrics for record creation.
func (v *vaultUseCaseWithMetrics) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	input *vaultDomain.CreateRecordInput,
) (*vaultDomain.Record, error) {
	start := time.Now()
	record, err := v.next.Create(ctx, principal, input)
	v.record(ctx, "record_create", start, err)
	return record, err
}

// GetKeyRecord records metrics for key record lookups.
func (v *vaultUseCaseWithMetrics) GetKeyRecord(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
) (*vaultDomain.KeyRecord, error) {
	start := time.Now()
	record, err := v.next.GetKeyRecord(ctx, principal, id)
	v.record(ctx, "key_record_get", start, err)
	return record, err
}

// ListRecords records metrics for record listing.
func (v *vaultUseCaseWithMetrics) ListRecords(
	ctx context.Context,
	principal *authDomain.Principal,
) ([]*vaultDomain.Record, error) {
	start := time.Now()
	records, err := v.next.ListRecords(ctx, principal)
	v.record(ctx, "record_list", start, err)
	return records, err
}

// GetDocument records metrics for document lookups.
func (v *vaultUseCaseWithMetrics) GetDocument(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
) (*vaultDomain.ContentDocument, error) {
	start := time.Now()
	doc, err := v.next.GetDocument(ctx, principal, id)
	v.record(ctx, "document_get", start, err)
	return doc, err
}

// UpdateDocument records metrics for document updates.
func (v *vaultUseCaseWithMetrics) UpdateDocument(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
	input *vaultDomain.UpdateDocumentInput,
) (*vaultDomain.ContentDocument, error) {
	start := time.Now()
	doc, err := v.next.UpdateDocument(ctx, principal, id, input)
	v.record(ctx, "document_update", start, err)
	return doc, err
}

// AddOwner records metrics for owner additions.
func (v *vaultUseCaseWithMetrics) AddOwner(
	ctx context.Context,
	principal *authDomain.Principal,
	documentID uuid.UUID,
	input *vaultDomain.AddOwnerInput,
) (*vaultDomain.Record, error) {
	start := time.Now()
	record, err := v.next.AddOwner(ctx, principal, documentID, input)
	v.record(ctx, "owner_add", start, err)
	return record, err
}

// RemoveOwner records metrics for owner removals.
func (v *vaultUseCaseWithMetrics) RemoveOwner(
	ctx context.Context,
	principal *authDomain.Principal,
	documentID uuid.UUID,
	username string,
) error {
	start := time.Now()
	err := v.next.RemoveOwner(ctx, principal, documentID, username)
	v.record(ctx, "owner_remove", start, err)
	return err
}
