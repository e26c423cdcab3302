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

// PostgreSQLShareRepository implements Share persistence for PostgreSQL.
type PostgreSQLShareRepository struct {
	db *sql.DB
}

// NewPostgreSQLShareRepository creates a new PostgreSQL Share repository.
func NewPostgreSQLShareRepository(db *sql.DB) *PostgreSQLShareRepository {
	return &PostgreSQLShareRepository{db: db}
}

// Create inserts a new Share. Returns ErrShareAlreadyPending when the document
// already has a share for the same receiver tag.
func (p *PostgreSQLShareRepository) Create(ctx context.Context, share *sharingDomain.Share) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO shares (` + shareColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

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
func (p *PostgreSQLShareRepository) Get(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + shareColumns + ` FROM shares WHERE id = $1`

	share, err := scanShare(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, getShareError(err)
	}
	return share, nil
}

// Delete removes a Share. Returns ErrShareNotFound if it was already removed.
func (p *PostgreSQLShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM shares WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete share")
	}
	return deletedOnce(result)
}

// DeleteExpiredFor removes an expired share of documentID for receiverTag so a
// new one can take its unique slot.
func (p *PostgreSQLShareRepository) DeleteExpiredFor(
	ctx context.Context,
	documentID uuid.UUID,
	receiverTag string,
	now time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(
		ctx,
		`DELETE FROM shares WHERE content_document_id = $1 AND receiver_tag = $2 AND expires_at <= $3`,
		documentID,
		receiverTag,
		now,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete expired share")
	}
	return nil
}

// DeleteExpired removes shares whose expiration is at or before the given time.
func (p *PostgreSQLShareRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM shares WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired shares")
	}
	return deletedCount(result)
}
