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

// MySQLKeyRecordRepository implements KeyRecord persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLKeyRecordRepository struct {
	db *sql.DB
}

// NewMySQLKeyRecordRepository creates a new MySQL KeyRecord repository.
func NewMySQLKeyRecordRepository(db *sql.DB) *MySQLKeyRecordRepository {
	return &MySQLKeyRecordRepository{db: db}
}

// Create inserts a new KeyRecord. Returns ErrAlreadyOwner when the owner already
// holds a key record for the document.
func (m *MySQLKeyRecordRepository) Create(ctx context.Context, record *vaultDomain.KeyRecord) error {
	querier := database.GetTx(ctx, m.db)

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal key record id")
	}
	documentID, err := record.ContentDocumentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal document id")
	}
	ownerID, err := record.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `INSERT INTO key_records (` + keyRecordColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		record.Name,
		record.WrappedContentKey,
		documentID,
		ownerID,
		record.OwnerUsername,
		string(record.Kind),
		record.CreatedAt,
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
func (m *MySQLKeyRecordRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.KeyRecord, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal key record id")
	}

	query := `SELECT ` + keyRecordColumns + ` FROM key_records WHERE id = ?`

	record, err := scanMySQLKeyRecord(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrKeyRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get key record")
	}
	return record, nil
}

// ListByOwner returns every key record of an owner, oldest first.
func (m *MySQLKeyRecordRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*vaultDomain.KeyRecord, error) {
	querier := database.GetTx(ctx, m.db)

	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `SELECT ` + keyRecordColumns + ` FROM key_records
			  WHERE owner_id = ? ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, ownerBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list key records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*vaultDomain.KeyRecord, 0)
	for rows.Next() {
		record, err := scanMySQLKeyRecord(rows)
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
func (m *MySQLKeyRecordRepository) UpdateNameByDocument(
	ctx context.Context,
	documentID uuid.UUID,
	name []byte,
) error {
	querier := database.GetTx(ctx, m.db)

	documentBytes, err := documentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal document id")
	}

	query := `UPDATE key_records SET name = ? WHERE content_document_id = ?`

	if _, err := querier.ExecContext(ctx, query, name, documentBytes); err != nil {
		return apperrors.Wrap(err, "failed to update key record names")
	}
	return nil
}

// Delete removes a KeyRecord. Returns ErrKeyRecordNotFound if it doesn't exist.
func (m *MySQLKeyRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal key record id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM key_records WHERE id = ?`, idBytes)
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

func scanMySQLKeyRecord(row rowScanner) (*vaultDomain.KeyRecord, error) {
	var record vaultDomain.KeyRecord
	var id, documentID, ownerID []byte
	var kind string

	err := row.Scan(
		&id,
		&record.Name,
		&record.WrappedContentKey,
		&documentID,
		&ownerID,
		&record.OwnerUsername,
		&kind,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := record.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal key record id")
	}
	if err := record.ContentDocumentID.UnmarshalBinary(documentID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal document id")
	}
	if err := record.OwnerID.UnmarshalBinary(ownerID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal owner id")
	}

	record.Kind = vaultDomain.Kind(kind)
	return &record, nil
}
