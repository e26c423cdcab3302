package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	"github.com/allisson/passbox/internal/database"
	apperrors "github.com/allisson/passbox/internal/errors"
)

// SQLiteTokenRepository implements Token persistence for SQLite. UUIDs are stored as text.
type SQLiteTokenRepository struct {
	db *sql.DB
}

// Create inserts a new Token.
func (s *SQLiteTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO tokens (id, token_hash, user_id, expires_at, revoked_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.UserID,
		token.ExpiresAt.UTC(),
		utcPtr(token.RevokedAt),
		token.CreatedAt.UTC(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByTokenHash retrieves a Token by its hash. Returns ErrTokenNotFound if the token doesn't exist.
func (s *SQLiteTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT id, token_hash, user_id, expires_at, revoked_at, created_at
			  FROM tokens WHERE token_hash = ?`

	var token authDomain.Token
	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.TokenHash,
		&token.UserID,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token by hash")
	}

	return &token, nil
}

// Revoke sets revoked_at on an active token.
func (s *SQLiteTokenRepository) Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, revokedAt.UTC(), tokenHash); err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return nil
}

// RevokeAllForUser revokes every active token of a user except exceptTokenHash.
func (s *SQLiteTokenRepository) RevokeAllForUser(
	ctx context.Context,
	userID uuid.UUID,
	exceptTokenHash string,
	revokedAt time.Time,
) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE tokens SET revoked_at = ?
			  WHERE user_id = ? AND token_hash <> ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, revokedAt.UTC(), userID, exceptTokenHash); err != nil {
		return apperrors.Wrap(err, "failed to revoke user tokens")
	}
	return nil
}

// DeleteExpired removes tokens whose expiration is before the given time.
func (s *SQLiteTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, s.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < ?`, before.UTC())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// NewSQLiteTokenRepository creates a new SQLite Token repository.
func NewSQLiteTokenRepository(db *sql.DB) *SQLiteTokenRepository {
	return &SQLiteTokenRepository{db: db}
}
