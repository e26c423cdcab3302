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

// MySQLUserRepository handles user persistence for MySQL. UUIDs are stored as BINARY(16).
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new user. Returns ErrUserAlreadyExists when the username is taken.
func (m *MySQLUserRepository) Create(ctx context.Context, user *accountDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLUserRepository) Get(ctx context.Context, id uuid.UUID) (*accountDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return m.scan(querier.QueryRowContext(ctx, query, idBytes))
}

// GetByUsername retrieves a user by its normalized username.
func (m *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*accountDomain.User, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return m.scan(querier.QueryRowContext(ctx, query, username))
}

// UpdateCredentials replaces the password hash and key material of a user.
func (m *MySQLUserRepository) UpdateCredentials(ctx context.Context, user *accountDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

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
		user.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user credentials")
	}
	return requireOneRow(result)
}

func (m *MySQLUserRepository) scan(row *sql.Row) (*accountDomain.User, error) {
	var user accountDomain.User
	var idBytes []byte

	err := row.Scan(
		&idBytes,
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

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	return &user, nil
}
