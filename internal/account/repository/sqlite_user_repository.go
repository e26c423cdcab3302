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

// SQLiteUserRepository handles user persistence for SQLite. UUIDs are stored as text.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Create inserts a new user. Returns ErrUserAlreadyExists when the username is taken.
func (s *SQLiteUserRepository) Create(ctx context.Context, user *accountDomain.User) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.WrappedMasterKey,
		user.MasterKeySalt,
		user.KDFIterations,
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
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
func (s *SQLiteUserRepository) Get(ctx context.Context, id uuid.UUID) (*accountDomain.User, error) {
	querier := database.GetTx(ctx, s.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.scan(querier.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by its normalized username.
func (s *SQLiteUserRepository) GetByUsername(ctx context.Context, username string) (*accountDomain.User, error) {
	querier := database.GetTx(ctx, s.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return s.scan(querier.QueryRowContext(ctx, query, username))
}

// UpdateCredentials replaces the password hash and key material of a user.
func (s *SQLiteUserRepository) UpdateCredentials(ctx context.Context, user *accountDomain.User) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE users
			  SET password_hash = ?, wrapped_master_key = ?, master_key_salt = ?,
			      kdf_iterations = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.PasswordHash,
		user.WrappedMasterKey,
		user.MasterKeySalt,
		user.KDFIterations,
		user.UpdatedAt.UTC(),
		user.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user credentials")
	}
	return requireOneRow(result)
}

func (s *SQLiteUserRepository) scan(row *sql.Row) (*accountDomain.User, error) {
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
