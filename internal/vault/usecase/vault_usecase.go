package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	authDomain "github.com/allisson/passbox/internal/auth/domain"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	"github.com/allisson/passbox/internal/database"
	"github.com/allisson/passbox/internal/envelope"
	apperrors "github.com/allisson/passbox/internal/errors"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// maxOwnerAttempts bounds the optimistic retries of an owners list change.
const maxOwnerAttempts = 3

// minNameSize is the smallest possible encrypted name: nonce and tag around
// an empty plaintext.
const minNameSize = cryptoDomain.NonceSize + cryptoDomain.TagSize

type vaultUseCase struct {
	txManager     database.TxManager
	documentRepo  DocumentRepository
	keyRecordRepo KeyRecordRepository
	now           func() time.Time
}

// NewVaultUseCase creates a VaultUseCase.
func NewVaultUseCase(
	txManager database.TxManager,
	documentRepo DocumentRepository,
	keyRecordRepo KeyRecordRepository,
) VaultUseCase {
	return &vaultUseCase{
		txManager:     txManager,
		documentRepo:  documentRepo,
		keyRecordRepo: keyRecordRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func validateFields(encryptedFields []byte) error {
	if _, err := envelope.DecodePlain(encryptedFields); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "encrypted fields are not a plain envelope")
	}
	return nil
}

func validateKeyMaterial(name, wrappedContentKey []byte) error {
	if len(name) < minNameSize {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "encrypted name is too short")
	}
	if _, err := envelope.ParseWrappedKey(wrappedContentKey); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "malformed wrapped content key")
	}
	return nil
}

// Create stores a new document with the principal as its only owner, together
// with the principal's key record, in one transaction.
func (v *vaultUseCase) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	input *vaultDomain.CreateRecordInput,
) (*vaultDomain.Record, error) {
	if !input.Kind.Valid() {
		return nil, vaultDomain.ErrInvalidKind
	}
	if err := validateFields(input.EncryptedFields); err != nil {
		return nil, err
	}
	if err := validateKeyMaterial(input.Name, input.WrappedContentKey); err != nil {
		return nil, err
	}

	now := v.now()
	record := &vaultDomain.KeyRecord{
		ID:                uuid.Must(uuid.NewV7()),
		Name:              input.Name,
		WrappedContentKey: input.WrappedContentKey,
		OwnerID:           principal.UserID,
		OwnerUsername:     principal.Username,
		Kind:              input.Kind,
		CreatedAt:         now,
	}
	doc := &vaultDomain.ContentDocument{
		ID:              uuid.Must(uuid.NewV7()),
		Kind:            input.Kind,
		EncryptedFields: input.EncryptedFields,
		Owners:          []vaultDomain.Owner{{Username: principal.Username, KeyRecordID: record.ID}},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	record.ContentDocumentID = doc.ID

	err := v.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := v.documentRepo.Create(ctx, doc); err != nil {
			return err
		}
		return v.keyRecordRepo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return &vaultDomain.Record{KeyRecord: record, Document: doc}, nil
}

// GetKeyRecord returns a key record of the principal. Other users' records
// are reported as not found.
func (v *vaultUseCase) GetKeyRecord(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
) (*vaultDomain.KeyRecord, error) {
	record, err := v.keyRecordRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.OwnerID != principal.UserID {
		return nil, vaultDomain.ErrKeyRecordNotFound
	}
	return record, nil
}

// ListRecords joins every key record of the principal with its document. A
// record whose document is gone is returned with a nil Document.
func (v *vaultUseCase) ListRecords(
	ctx context.Context,
	principal *authDomain.Principal,
) ([]*vaultDomain.Record, error) {
	var records []*vaultDomain.Record

	err := v.txManager.WithTx(ctx, func(ctx context.Context) error {
		keyRecords, err := v.keyRecordRepo.ListByOwner(ctx, principal.UserID)
		if err != nil {
			return err
		}

		records = make([]*vaultDomain.Record, 0, len(keyRecords))
		for _, keyRecord := range keyRecords {
			doc, err := v.documentRepo.Get(ctx, keyRecord.ContentDocumentID)
			if err != nil && !apperrors.Is(err, vaultDomain.ErrDocumentNotFound) {
				return err
			}
			records = append(records, &vaultDomain.Record{KeyRecord: keyRecord, Document: doc})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// getOwnedDocument loads a document and hides it from non-owners.
func (v *vaultUseCase) getOwnedDocument(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
) (*vaultDomain.ContentDocument, error) {
	doc, err := v.documentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(doc.Owners) == 0 {
		return nil, vaultDomain.ErrOwnerlessDocument
	}
	if !doc.HasOwner(principal.Username) {
		return nil, vaultDomain.ErrDocumentNotFound
	}
	return doc, nil
}

// GetDocument returns a document the principal owns.
func (v *vaultUseCase) GetDocument(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
) (*vaultDomain.ContentDocument, error) {
	return v.getOwnedDocument(ctx, principal, id)
}

// UpdateDocument replaces the encrypted fields when the caller's version is
// current. A stale version is ErrVersionConflict; the update is never merged.
func (v *vaultUseCase) UpdateDocument(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
	input *vaultDomain.UpdateDocumentInput,
) (*vaultDomain.ContentDocument, error) {
	if err := validateFields(input.EncryptedFields); err != nil {
		return nil, err
	}
	if len(input.Name) > 0 && len(input.Name) < minNameSize {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "encrypted name is too short")
	}

	var doc *vaultDomain.ContentDocument
	err := v.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		doc, err = v.getOwnedDocument(ctx, principal, id)
		if err != nil {
			return err
		}

		updatedAt := v.now()
		err = v.documentRepo.UpdateFields(ctx, id, input.EncryptedFields, input.ExpectedVersion, updatedAt)
		if err != nil {
			return err
		}

		if len(input.Name) > 0 {
			if err := v.keyRecordRepo.UpdateNameByDocument(ctx, id, input.Name); err != nil {
				return err
			}
		}

		doc.EncryptedFields = input.EncryptedFields
		doc.Version = input.ExpectedVersion + 1
		doc.UpdatedAt = updatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// mutateOwners loads a document and runs fn in a transaction, starting over
// when fn hits a version conflict. fn must write the conditional owners change
// before anything else so a conflicting attempt leaves no partial writes.
func (v *vaultUseCase) mutateOwners(
	ctx context.Context,
	documentID uuid.UUID,
	fn func(ctx context.Context, doc *vaultDomain.ContentDocument) error,
) error {
	var err error
	for attempt := 0; attempt < maxOwnerAttempts; attempt++ {
		err = v.txManager.WithTx(ctx, func(ctx context.Context) error {
			doc, err := v.documentRepo.Get(ctx, documentID)
			if err != nil {
				return err
			}
			return fn(ctx, doc)
		})
		if !apperrors.Is(err, vaultDomain.ErrVersionConflict) {
			return err
		}
	}
	return err
}

// AddOwner appends the principal to the owners list and stores its key record.
// Called by share acceptance inside the acceptance transaction.
func (v *vaultUseCase) AddOwner(
	ctx context.Context,
	principal *authDomain.Principal,
	documentID uuid.UUID,
	input *vaultDomain.AddOwnerInput,
) (*vaultDomain.Record, error) {
	if err := validateKeyMaterial(input.Name, input.WrappedContentKey); err != nil {
		return nil, err
	}

	var result *vaultDomain.Record
	err := v.mutateOwners(ctx, documentID, func(ctx context.Context, doc *vaultDomain.ContentDocument) error {
		if doc.HasOwner(principal.Username) {
			return vaultDomain.ErrAlreadyOwner
		}

		now := v.now()
		record := &vaultDomain.KeyRecord{
			ID:                uuid.Must(uuid.NewV7()),
			Name:              input.Name,
			WrappedContentKey: input.WrappedContentKey,
			ContentDocumentID: doc.ID,
			OwnerID:           principal.UserID,
			OwnerUsername:     principal.Username,
			Kind:              doc.Kind,
			CreatedAt:         now,
		}
		owners := append(slices.Clone(doc.Owners), vaultDomain.Owner{
			Username:    principal.Username,
			KeyRecordID: record.ID,
		})

		if err := v.documentRepo.UpdateOwners(ctx, doc.ID, owners, doc.Version, now); err != nil {
			return err
		}
		if err := v.keyRecordRepo.Create(ctx, record); err != nil {
			return err
		}

		doc.Owners = owners
		doc.Version++
		doc.UpdatedAt = now
		result = &vaultDomain.Record{KeyRecord: record, Document: doc}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveOwner drops username and its key record. Removing the last owner
// deletes the document, which cascades to its pending shares.
func (v *vaultUseCase) RemoveOwner(
	ctx context.Context,
	principal *authDomain.Principal,
	documentID uuid.UUID,
	username string,
) error {
	username = accountDomain.NormalizeUsername(username)

	return v.mutateOwners(ctx, documentID, func(ctx context.Context, doc *vaultDomain.ContentDocument) error {
		if !doc.HasOwner(principal.Username) {
			return vaultDomain.ErrDocumentNotFound
		}
		target, ok := doc.Owner(username)
		if !ok {
			return vaultDomain.ErrOwnerNotFound
		}

		owners := doc.WithoutOwner(username)
		if len(owners) == 0 {
			return v.documentRepo.Delete(ctx, doc.ID, doc.Version)
		}

		if err := v.documentRepo.UpdateOwners(ctx, doc.ID, owners, doc.Version, v.now()); err != nil {
			return err
		}
		err := v.keyRecordRepo.Delete(ctx, target.KeyRecordID)
		if apperrors.Is(err, vaultDomain.ErrKeyRecordNotFound) {
			return vaultDomain.ErrOrphanedKeyRecord
		}
		return err
	})
}
