// Package usecase implements the server side of the record ownership model.
// Every mutation runs in one transaction. Changes to a document's owners list
// are conditional on its version and retried a bounded number of times.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// DocumentRepository defines persistence operations for content documents.
type DocumentRepository interface {
	// Create stores a new document.
	Create(ctx context.Context, doc *vaultDomain.ContentDocument) error

	// Get retrieves a document by ID. Returns ErrDocumentNotFound if not found.
	Get(ctx context.Context, id uuid.UUID) (*vaultDomain.ContentDocument, error)

	// UpdateFields replaces the encrypted fields and bumps the version when the
	// stored version equals expectedVersion, else returns ErrVersionConflict.
	UpdateFields(
		ctx context.Context,
		id uuid.UUID,
		encryptedFields []byte,
		expectedVersion int64,
		updatedAt time.Time,
	) error

	// UpdateOwners replaces the owners list and bumps the version when the
	// stored version equals expectedVersion, else returns ErrVersionConflict.
	UpdateOwners(
		ctx context.Context,
		id uuid.UUID,
		owners []vaultDomain.Owner,
		expectedVersion int64,
		updatedAt time.Time,
	) error

	// Delete removes the document with its key records and shares when the
	// stored version equals expectedVersion, else returns ErrVersionConflict.
	Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) error
}

// KeyRecordRepository defines persistence operations for key records.
type KeyRecordRepository interface {
	// Create stores a new key record. Returns ErrAlreadyOwner when the owner
	// already holds one for the document.
	Create(ctx context.Context, record *vaultDomain.KeyRecord) error

	// Get retrieves a key record by ID. Returns ErrKeyRecordNotFound if not found.
	Get(ctx context.Context, id uuid.UUID) (*vaultDomain.KeyRecord, error)

	// ListByOwner returns every key record of an owner, oldest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*vaultDomain.KeyRecord, error)

	// UpdateNameByDocument sets the encrypted name of every key record of a document.
	UpdateNameByDocument(ctx context.Context, documentID uuid.UUID, name []byte) error

	// Delete removes a key record. Returns ErrKeyRecordNotFound if not found.
	Delete(ctx context.Context, id uuid.UUID) error
}

// VaultUseCase stores and hands out ciphertext on behalf of authenticated
// principals. It enforces ownership by identity only; clients re-check it
// cryptographically when they unwrap.
type VaultUseCase interface {
	// Create stores a new document owned by the principal and its key record.
	Create(
		ctx context.Context,
		principal *authDomain.Principal,
		input *vaultDomain.CreateRecordInput,
	) (*vaultDomain.Record, error)

	// GetKeyRecord returns one of the principal's key records.
	GetKeyRecord(ctx context.Context, principal *authDomain.Principal, id uuid.UUID) (*vaultDomain.KeyRecord, error)

	// ListRecords returns every key record of the principal joined with its document.
	ListRecords(ctx context.Context, principal *authDomain.Principal) ([]*vaultDomain.Record, error)

	// GetDocument returns a document the principal owns.
	GetDocument(
		ctx context.Context,
		principal *authDomain.Principal,
		id uuid.UUID,
	) (*vaultDomain.ContentDocument, error)

	// UpdateDocument replaces the fields of a document the principal owns.
	UpdateDocument(
		ctx context.Context,
		principal *authDomain.Principal,
		id uuid.UUID,
		input *vaultDomain.UpdateDocumentInput,
	) (*vaultDomain.ContentDocument, error)

	// AddOwner makes the principal an owner of a document with the given key
	// record material.
	AddOwner(
		ctx context.Context,
		principal *authDomain.Principal,
		documentID uuid.UUID,
		input *vaultDomain.AddOwnerInput,
	) (*vaultDomain.Record, error)

	// RemoveOwner removes username from the owners of a document the principal
	// owns. Removing the last owner deletes the document.
	RemoveOwner(ctx context.Context, principal *authDomain.Principal, documentID uuid.UUID, username string) error
}
