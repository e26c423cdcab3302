package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/passbox/internal/database"
	apperrors "github.com/allisson/passbox/internal/errors"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// SQLiteKeyRecordRepository implements KeyRecord persistence for SQLite. UUIDs are stored as text.
type SQLiteKeyRecordRepository struct {
	db *sql.DB
}

// NewSQLiteKeyRecordRepository creates a new SQLite KeyRecord repository.
func NewSQLiteKeyRecordRepository(db *sql.DB) *SQLiteKeyRecordRepository {
	return &SQLiteKeyRecordRepository{db: db}
}

// Create inserts a new KeyRecord. Returns ErrAlreadyOwner when the owner already
// holds a key record for the document.
func (s *SQLiteKeyRecordRepository) Create(ctx context.Context, record *vaultDomain.KeyRecord) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO key_records (` + keyRecordColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.Name,
		record.WrappedContentKey,
		record.ContentDocumentID,
		record.OwnerID,
		record.OwnerUsername,
		string(record.Kind),
		record.CreatedAt.UTC(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return vaultDomain.ErrAlreadyOwner
		}
		return apperrors.Wrap(err, "failed to create key record")
	}
	return nil
}

// Get retrieves a KeyRecord by ID. Returns ErrKeyRecordNotFound if it doesn't exist.
func (s *SQLiteKeyRecordRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.KeyRecord, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT ` + keyRecordColumns + ` FROM key_records WHERE id = ?`

	record, err := scanKeyRecord(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrKeyRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get key record")
	}
	return record, nil
}

// ListByOwner returns every key record of an owner, oldest first.
func (s *SQLiteKeyRecordRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*vaultDomain.KeyRecord, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT ` + keyRecordColumns + ` FROM key_records
			  WHERE owner_id = ? ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list key records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*vaultDomain.KeyRecord, 0)
	for rows.Next() {
		record, err := scanKeyRecord(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan key record")
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating key records")
	}
	return records, nil
}

// UpdateNameByDocument sets the encrypted name on every key record of a document.
func (s *SQLiteKeyRecordRepository) UpdateNameByDocument(
	ctx context.Context,
	documentID uuid.UUID,
	name []byte,
) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE key_records SET name = ? WHERE content_document_id = ?`

	if _, err := querier.ExecContext(ctx, query, name, documentID); err != nil {
		return apperrors.Wrap(err, "failed to update key record names")
	}
	return nil
}

// Delete removes a KeyRecord. Returns ErrKeyRecordNotFound if it doesn't exist.
func (s *SQLiteKeyRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, s.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM key_records WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete key record")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if count == 0 {
		return vaultDomain.ErrKeyRecordNotFound
	}
	return nil
}
