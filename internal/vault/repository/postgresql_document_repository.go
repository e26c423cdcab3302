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

// PostgreSQLDocumentRepository implements ContentDocument persistence for PostgreSQL.
type PostgreSQLDocumentRepository struct {
	db *sql.DB
}

// NewPostgreSQLDocumentRepository creates a new PostgreSQL ContentDocument repository.
func NewPostgreSQLDocumentRepository(db *sql.DB) *PostgreSQLDocumentRepository {
	return &PostgreSQLDocumentRepository{db: db}
}

// Create inserts a new ContentDocument.
func (p *PostgreSQLDocumentRepository) Create(ctx context.Context, doc *vaultDomain.ContentDocument) error {
	querier := database.GetTx(ctx, p.db)

	owners, err := encodeOwners(doc.Owners)
	if err != nil {
		return err
	}

	query := `INSERT INTO content_documents (` + documentColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(
		ctx,
		query,
		doc.ID,
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
func (p *PostgreSQLDocumentRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.ContentDocument, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + documentColumns + ` FROM content_documents WHERE id = $1`

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
func (p *PostgreSQLDocumentRepository) UpdateFields(
	ctx context.Context,
	id uuid.UUID,
	encryptedFields []byte,
	expectedVersion int64,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE content_documents
			  SET encrypted_fields = $1, version = version + 1, updated_at = $2
			  WHERE id = $3 AND version = $4`

	result, err := querier.ExecContext(ctx, query, encryptedFields, updatedAt, id, expectedVersion)
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
func (p *PostgreSQLDocumentRepository) UpdateOwners(
	ctx context.Context,
	id uuid.UUID,
	owners []vaultDomain.Owner,
	expectedVersion int64,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	encoded, err := encodeOwners(owners)
	if err != nil {
		return err
	}

	query := `UPDATE content_documents
			  SET owners = $1, version = version + 1, updated_at = $2
			  WHERE id = $3 AND version = $4`

	result, err := querier.ExecContext(ctx, query, encoded, updatedAt, id, expectedVersion)
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
func (p *PostgreSQLDocumentRepository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM content_documents WHERE id = $1 AND version = $2`

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
