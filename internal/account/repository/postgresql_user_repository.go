// Package repository provides data persistence implementations for account entities.
// PostgreSQL, MySQL and SQLite implementations share the same users table layout.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	"github.com/allisson/passbox/internal/database"
	apperrors "github.com/allisson/passbox/internal/errors"
)

const userColumns = `id, username, password_hash, wrapped_master_key, master_key_salt, kdf_iterations, created_at, updated_at`

// PostgreSQLUserRepository handles user persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts a new user. Returns ErrUserAlreadyExists when the username is taken.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *accountDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.WrappedMasterKey,
		user.MasterKeySalt,
		user.KDFIterations,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return accountDomain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Get retrieves a user by ID.
func (p *PostgreSQLUserRepository) Get(ctx context.Context, id uuid.UUID) (*accountDomain.User, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return p.scan(querier.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by its normalized username.
func (p *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*accountDomain.User, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return p.scan(querier.QueryRowContext(ctx, query, username))
}

// UpdateCredentials replaces the password hash and key material of a user.
func (p *PostgreSQLUserRepository) UpdateCredentials(ctx context.Context, user *accountDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE users
			  SET password_hash = $1, wrapped_master_key = $2, master_key_salt = $3,
			      kdf_iterations = $4, updated_at = $5
			  WHERE id = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.PasswordHash,
		user.WrappedMasterKey,
		user.MasterKeySalt,
		user.KDFIterations,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user credentials")
	}
	return requireOneRow(result)
}

func (p *PostgreSQLUserRepository) scan(row *sql.Row) (*accountDomain.User, error) {
	var user accountDomain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.WrappedMasterKey,
		&user.MasterKeySalt,
		&user.KDFIterations,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}
	return &user, nil
}

func requireOneRow(result sql.Result) error {
	count, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if count == 0 {
		return accountDomain.ErrUserNotFound
	}
	return nil
}
