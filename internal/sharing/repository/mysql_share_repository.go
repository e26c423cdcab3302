package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/passbox/internal/database"
	apperrors "github.com/allisson/passbox/internal/errors"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// MySQLShareRepository implements Share persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLShareRepository struct {
	db *sql.DB
}

// NewMySQLShareRepository creates a new MySQL Share repository.
func NewMySQLShareRepository(db *sql.DB) *MySQLShareRepository {
	return &MySQLShareRepository{db: db}
}

// Create inserts a new Share. Returns ErrShareAlreadyPending when the document
// already has a share for the same receiver tag.
func (m *MySQLShareRepository) Create(ctx context.Context, share *sharingDomain.Share) error {
	querier := database.GetTx(ctx, m.db)

	id, err := share.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share id")
	}
	documentID, err := share.ContentDocumentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal document id")
	}

	query := `INSERT INTO shares (` + shareColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		string(share.Kind),
		share.Name,
		documentID,
		share.EncryptedReceiver,
		share.WrappedContentKey,
		share.ReceiverTag,
		share.ExpiresAt,
		share.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sharingDomain.ErrShareAlreadyPending
		}
		return apperrors.Wrap(err, "failed to create share")
	}
	return nil
}

// Get retrieves a Share by ID. Returns ErrShareNotFound if it doesn't exist.
func (m *MySQLShareRepository) Get(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal share id")
	}

	query := `SELECT ` + shareColumns + ` FROM shares WHERE id = ?`

	var share sharingDomain.Share
	var shareID, documentID []byte
	var kind string

	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&shareID,
		&kind,
		&share.Name,
		&documentID,
		&share.EncryptedReceiver,
		&share.WrappedContentKey,
		&share.ReceiverTag,
		&share.ExpiresAt,
		&share.CreatedAt,
	)
	if err != nil {
		return nil, getShareError(err)
	}

	if err := share.ID.UnmarshalBinary(shareID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal share id")
	}
	if err := share.ContentDocumentID.UnmarshalBinary(documentID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal document id")
	}

	share.Kind = vaultDomain.Kind(kind)
	return &share, nil
}

// Delete removes a Share. Returns ErrShareNotFound if it was already removed.
func (m *MySQLShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM shares WHERE id = ?`, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete share")
	}
	return deletedOnce(result)
}

// DeleteExpiredFor removes an expired share of documentID for receiverTag so a
// new one can take its unique slot.
func (m *MySQLShareRepository) DeleteExpiredFor(
	ctx context.Context,
	documentID uuid.UUID,
	receiverTag string,
	now time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	docBytes, err := documentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal document id")
	}

	_, err = querier.ExecContext(
		ctx,
		`DELETE FROM shares WHERE content_document_id = ? AND receiver_tag = ? AND expires_at <= ?`,
		docBytes,
		receiverTag,
		now,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete expired share")
	}
	return nil
}

// DeleteExpired removes shares whose expiration is at or before the given time.
func (m *MySQLShareRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM shares WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired shares")
	}
	return deletedCount(result)
}
