// Package repository implements token persistence for PostgreSQL, MySQL and SQLite.
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

// PostgreSQLTokenRepository implements Token persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new Token.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tokens (id, token_hash, user_id, expires_at, revoked_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.UserID,
		token.ExpiresAt,
		token.RevokedAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByTokenHash retrieves a Token by its hash. Returns ErrTokenNotFound if the token doesn't exist.
func (p *PostgreSQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, user_id, expires_at, revoked_at, created_at
			  FROM tokens WHERE token_hash = $1`

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
func (p *PostgreSQLTokenRepository) Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens SET revoked_at = $1 WHERE token_hash = $2 AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, revokedAt, tokenHash); err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return nil
}

// RevokeAllForUser revokes every active token of a user except exceptTokenHash.
func (p *PostgreSQLTokenRepository) RevokeAllForUser(
	ctx context.Context,
	userID uuid.UUID,
	exceptTokenHash string,
	revokedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens SET revoked_at = $1
			  WHERE user_id = $2 AND token_hash <> $3 AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, revokedAt, userID, exceptTokenHash); err != nil {
		return apperrors.Wrap(err, "failed to revoke user tokens")
	}
	return nil
}

// DeleteExpired removes tokens whose expiration is before the given time.
func (p *PostgreSQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL Token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}
