package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/passbox/internal/database"
	apperrors "github.com/allisson/passbox/internal/errors"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
)

// SQLiteShareRepository implements Share persistence for SQLite. UUIDs are stored as text.
type SQLiteShareRepository struct {
	db *sql.DB
}

// NewSQLiteShareRepository creates a new SQLite Share repository.
func NewSQLiteShareRepository(db *sql.DB) *SQLiteShareRepository {
	return &SQLiteShareRepository{db: db}
}

// Create inserts a new Share. Returns ErrShareAlreadyPending when the document
// already has a share for the same receiver tag.
func (s *SQLiteShareRepository) Create(ctx context.Context, share *sharingDomain.Share) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO shares (` + shareColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		share.ID,
		string(share.Kind),
		share.Name,
		share.ContentDocumentID,
		share.EncryptedReceiver,
		share.WrappedContentKey,
		share.ReceiverTag,
		share.ExpiresAt.UTC(),
		share.CreatedAt.UTC(),
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
func (s *SQLiteShareRepository) Get(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT ` + shareColumns + ` FROM shares WHERE id = ?`

	share, err := scanShare(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, getShareError(err)
	}
	return share, nil
}

// Delete removes a Share. Returns ErrShareNotFound if it was already removed.
func (s *SQLiteShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, s.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM shares WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete share")
	}
	return deletedOnce(result)
}

// DeleteExpiredFor removes an expired share of documentID for receiverTag so a
// new one can take its unique slot.
func (s *SQLiteShareRepository) DeleteExpiredFor(
	ctx context.Context,
	documentID uuid.UUID,
	receiverTag string,
	now time.Time,
) error {
	querier := database.GetTx(ctx, s.db)

	_, err := querier.ExecContext(
		ctx,
		`DELETE FROM shares WHERE content_document_id = ? AND receiver_tag = ? AND expires_at <= ?`,
		documentID,
		receiverTag,
		now.UTC(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete expired share")
	}
	return nil
}

// DeleteExpired removes shares whose expiration is at or before the given time.
func (s *SQLiteShareRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, s.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM shares WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired shares")
	}
	return deletedCount(result)
}
