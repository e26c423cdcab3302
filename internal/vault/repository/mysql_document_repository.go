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

// MySQLDocumentRepository implements ContentDocument persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLDocumentRepository struct {
	db *sql.DB
}

// NewMySQLDocumentRepository creates a new MySQL ContentDocument repository.
func NewMySQLDocumentRepository(db *sql.DB) *MySQLDocumentRepository {
	return &MySQLDocumentRepository{db: db}
}

// Create inserts a new ContentDocument using BINARY(16) for the ID.
func (m *MySQLDocumentRepository) Create(ctx context.Context, doc *vaultDomain.ContentDocument) error {
	querier := database.GetTx(ctx, m.db)

	id, err := doc.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal document id")
	}

	owners, err := encodeOwners(doc.Owners)
	if err != nil {
		return err
	}

	query := `INSERT INTO content_documents (` + documentColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		string(doc.Kind),
		doc.EncryptedFields,
		owners,
		doc.Version,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create content document")
	}
	return nil
}

// Get retrieves a ContentDocument by ID. Returns ErrDocumentNotFound if it doesn't exist.
func (m *MySQLDocumentRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.ContentDocument, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal document id")
	}

	query := `SELECT ` + documentColumns + ` FROM content_documents WHERE id = ?`

	var doc vaultDomain.ContentDocument
	var docID []byte
	var kind string
	var owners []byte

	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&docID,
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

	if err := doc.ID.UnmarshalBinary(docID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal document id")
	}
	doc.Kind = vaultDomain.Kind(kind)
	if doc.Owners, err = decodeOwners(owners); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateFields replaces the encrypted fields if the stored version still equals
// expectedVersion. Returns ErrVersionConflict otherwise.
func (m *MySQLDocumentRepository) UpdateFields(
	ctx context.Context,
	id uuid.UUID,
	encryptedFields []byte,
	expectedVersion int64,
	updatedAt time.Time,
) error {
	query := `UPDATE content_documents
			  SET encrypted_fields = ?, version = version + 1, updated_at = ?
			  WHERE id = ? AND version = ?`

	return m.conditionalUpdate(ctx, query, id, expectedVersion, encryptedFields, updatedAt)
}

// UpdateOwners replaces the owners list if the stored version still equals
// expectedVersion. Returns ErrVersionConflict otherwise.
func (m *MySQLDocumentRepository) UpdateOwners(
	ctx context.Context,
	id uuid.UUID,
	owners []vaultDomain.Owner,
	expectedVersion int64,
	updatedAt time.Time,
) error {
	encoded, err := encodeOwners(owners)
	if err != nil {
		return err
	}

	query := `UPDATE content_documents
			  SET owners = ?, version = version + 1, updated_at = ?
			  WHERE id = ? AND version = ?`

	return m.conditionalUpdate(ctx, query, id, expectedVersion, encoded, updatedAt)
}

// conditionalUpdate runs query with (value, updatedAt, id, expectedVersion).
func (m *MySQLDocumentRepository) conditionalUpdate(
	ctx context.Context,
	query string,
	id uuid.UUID,
	expectedVersion int64,
	value any,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal document id")
	}

	result, err := querier.ExecContext(ctx, query, value, updatedAt, idBytes, expectedVersion)
	if err != nil {
		return apperrors.Wrap(err, "failed to update content document")
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
func (m *MySQLDocumentRepository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal document id")
	}

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM content_documents WHERE id = ? AND version = ?`,
		idBytes,
		expectedVersion,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete content document")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	return versionConflictUnlessUpdated(count)
}
