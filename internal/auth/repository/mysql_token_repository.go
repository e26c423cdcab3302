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

// MySQLTokenRepository implements Token persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new Token using BINARY(16) for UUIDs.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (id, token_hash, user_id, expires_at, revoked_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	userID, err := token.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		userID,
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
func (m *MySQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, user_id, expires_at, revoked_at, created_at
			  FROM tokens WHERE token_hash = ?`

	var token authDomain.Token
	var idBytes []byte
	var userIDBytes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBytes,
		&token.TokenHash,
		&userIDBytes,
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

	if err := token.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}

	if err := token.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}

	return &token, nil
}

// Revoke sets revoked_at on an active token.
func (m *MySQLTokenRepository) Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, revokedAt, tokenHash); err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return nil
}

// RevokeAllForUser revokes every active token of a user except exceptTokenHash.
func (m *MySQLTokenRepository) RevokeAllForUser(
	ctx context.Context,
	userID uuid.UUID,
	exceptTokenHash string,
	revokedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `UPDATE tokens SET revoked_at = ?
			  WHERE user_id = ? AND token_hash <> ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, revokedAt, id, exceptTokenHash); err != nil {
		return apperrors.Wrap(err, "failed to revoke user tokens")
	}
	return nil
}

// DeleteExpired removes tokens whose expiration is before the given time.
func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < ?`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

// NewMySQLTokenRepository creates a new MySQL Token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
