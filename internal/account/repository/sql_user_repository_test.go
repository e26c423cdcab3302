package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
)

var userColumnNames = []string{
	"id",
	"username",
	"password_hash",
	"wrapped_master_key",
	"master_key_salt",
	"kdf_iterations",
	"created_at",
	"updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPostgreSQLUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := newTestUser("alice")

		mock.ExpectExec("INSERT INTO users").
			WithArgs(
				user.ID,
				"alice",
				user.PasswordHash,
				user.WrappedMasterKey,
				user.MasterKeySalt,
				user.KDFIterations,
				user.CreatedAt,
				user.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Create_Duplicate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_username_key"`))

		err := repo.Create(ctx, newTestUser("alice"))
		assert.ErrorIs(t, err, accountDomain.ErrUserAlreadyExists)
	})

	t.Run("GetByUsername", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := newTestUser("alice")

		rows := sqlmock.NewRows(userColumnNames).AddRow(
			user.ID.String(),
			user.Username,
			user.PasswordHash,
			user.WrappedMasterKey,
			user.MasterKeySalt,
			user.KDFIterations,
			user.CreatedAt,
			user.UpdatedAt,
		)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username = \\$1").
			WithArgs("alice").
			WillReturnRows(rows)

		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.WrappedMasterKey, got.WrappedMasterKey)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, id)
		assert.ErrorIs(t, err, accountDomain.ErrUserNotFound)
	})

	t.Run("UpdateCredentials_NoRows", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateCredentials(ctx, newTestUser("alice"))
		assert.ErrorIs(t, err, accountDomain.ErrUserNotFound)
	})
}

func TestMySQLUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create_Duplicate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.username'"))

		err := repo.Create(ctx, newTestUser("alice"))
		assert.ErrorIs(t, err, accountDomain.ErrUserAlreadyExists)
	})

	t.Run("Get", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)
		user := newTestUser("alice")
		idBytes, err := user.ID.MarshalBinary()
		require.NoError(t, err)

		rows := sqlmock.NewRows(userColumnNames).AddRow(
			idBytes,
			user.Username,
			user.PasswordHash,
			user.WrappedMasterKey,
			user.MasterKeySalt,
			user.KDFIterations,
			user.CreatedAt,
			user.UpdatedAt,
		)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\?").
			WithArgs(idBytes).
			WillReturnRows(rows)

		got, err := repo.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("UpdateCredentials", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)
		user := newTestUser("alice")
		idBytes, err := user.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec("UPDATE users").
			WithArgs(
				user.PasswordHash,
				user.WrappedMasterKey,
				user.MasterKeySalt,
				user.KDFIterations,
				user.UpdatedAt,
				idBytes,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateCredentials(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
