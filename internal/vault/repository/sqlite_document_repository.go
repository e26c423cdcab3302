package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/passbox/internal/database"
	apperrors "github.com/allisson/passbox/internal/errors"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// SQLiteDocumentRepository implements ContentDocument persistence for SQLite. UUIDs are stored as text.
type SQLiteDocumentRepository struct {
	db *sql.DB
}

// NewSQLiteDocumentRepository creates a new SQLite ContentDocument repository.
func NewSQLiteDocumentRepository(db *sql.DB) *SQLiteDocumentRepository {
	return &SQLiteDocumentRepository{db: db}
}

// Create inserts a new ContentDocument.
func (s *SQLiteDocumentRepository) Create(ctx context.Context, doc *vaultDomain.ContentDocument) error {
	querier := database.GetTx(ctx, s.db)

	owners, err := encodeOwners(doc.Owners)
	if err != nil {
		return err
	}

	query := `INSERT INTO content_documents (` + documentColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		doc.ID,
		string(doc.Kind),
		doc.EncryptedFields,
		owners,
		doc.Version,
		doc.CreatedAt.UTC(),
		doc.UpdatedAt.UTC(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create content document")
	}
	return nil
}

// Get retrieves a ContentDocument by ID. Returns ErrDocumentNotFound if it doesn't exist.
func (s *SQLiteDocumentRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.ContentDocument, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT ` + documentColumns + ` FROM content_documents WHERE id = ?`

	var doc vaultDomain.ContentDocument
	var kind string
	var owners []byte

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&kind,
		&doc.EncryptedFields,
		&owners,
		&doc.Version,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrDocumentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get content document")
	}

	doc.Kind = vaultDomain.Kind(kind)
	if doc.Owners, err = decodeOwners(owners); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateFields replaces the encrypted fields if the stored version still equals
// expectedVersion. Returns ErrVersionConflict otherwise.
func (s *SQLiteDocumentRepository) UpdateFields(
	ctx context.Context,
	id uuid.UUID,
	encryptedFields []byte,
	expectedVersion int64,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE content_documents
			  SET encrypted_fields = ?, version = version + 1, updated_at = ?
			  WHERE id = ? AND version = ?`

	result, err := querier.ExecContext(ctx, query, encryptedFields, updatedAt.UTC(), id, expectedVersion)
	if err != nil {
		return apperrors.Wrap(err, "failed to update content document fields")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	return versionConflictUnlessUpdated(count)
}

// UpdateOwners replaces the owners list if the stored version still equals
// expectedVersion. Returns ErrVersionConflict otherwise.
func (s *SQLiteDocumentRepository) UpdateOwners(
	ctx context.Context,
	id uuid.UUID,
	owners []vaultDomain.Owner,
	expectedVersion int64,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, s.db)

	encoded, err := encodeOwners(owners)
	if err != nil {
		return err
	}

	query := `UPDATE content_documents
			  SET owners = ?, version = version + 1, updated_at = ?
			  WHERE id = ? AND version = ?`

	result, err := querier.ExecContext(ctx, query, encoded, updatedAt.UTC(), id, expectedVersion)
	if err != nil {
		return apperrors.Wrap(err, "failed to update content document owners")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	return versionConflictUnlessUpdated(count)
}

// Delete removes a ContentDocument if the stored version still equals
// expectedVersion. Key records and pending shares go with it through
// ON DELETE CASCADE.
func (s *SQLiteDocumentRepository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	querier := database.GetTx(ctx, s.db)

	query := `DELETE FROM content_documents WHERE id = ? AND version = ?`

	result, err := querier.ExecContext(ctx, query, id, expectedVersion)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete content document")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	return versionConflictUnlessUpdated(count)
}
