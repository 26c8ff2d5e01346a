package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountkit/pkg/auth"
	"github.com/dmitrymomot/accountkit/pkg/dualtoken"
)

func newUserStore(t *testing.T) (*auth.PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return auth.NewPostgresUserStore(db), mock
}

var userRowColumns = []string{"id", "email", "password_hash", "is_active", "role", "last_login", "created_at", "updated_at"}

func TestPostgresUserStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		store, mock := newUserStore(t)
		u := &auth.User{Email: "a@example.com", PasswordHash: []byte("hash")}

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(sqlmock.AnyArg(), "a@example.com", "hash", false, "user", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Create(context.Background(), u))
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.Equal(t, auth.RoleUser, u.Role)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		store, mock := newUserStore(t)
		mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pgconn.PgError{Code: "23505"})

		err := store.Create(context.Background(), &auth.User{Email: "a@example.com"})
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})
}

func TestPostgresUserStore_GetByEmail(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		store, mock := newUserStore(t)
		id := uuid.New()
		now := time.Now().UTC().Truncate(time.Second)

		mock.ExpectQuery(`SELECT .* FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
			WithArgs("a@example.com").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(id.String(), "a@example.com", "hash", true, "admin", now, now, now))

		u, err := store.GetByEmail(context.Background(), "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, u.ID)
		assert.True(t, u.IsActive)
		assert.Equal(t, auth.RoleAdmin, u.Role)
		assert.Equal(t, []byte("hash"), u.PasswordHash)
		require.NotNil(t, u.LastLogin)
		assert.Equal(t, now, *u.LastLogin)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		store, mock := newUserStore(t)
		mock.ExpectQuery(`SELECT .* FROM users`).WillReturnError(sql.ErrNoRows)

		_, err := store.GetByEmail(context.Background(), "missing@example.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestPostgresUserStore_Updates(t *testing.T) {
	t.Parallel()
	id := uuid.New()

	t.Run("set active", func(t *testing.T) {
		t.Parallel()
		store, mock := newUserStore(t)
		mock.ExpectExec(`UPDATE users SET is_active = \$2`).
			WithArgs(id, true, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.SetActive(context.Background(), id, true))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update role of missing user", func(t *testing.T) {
		t.Parallel()
		store, mock := newUserStore(t)
		mock.ExpectExec(`UPDATE users SET role = \$2`).
			WithArgs(id, "admin", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.UpdateRole(context.Background(), id, auth.RoleAdmin)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("update password", func(t *testing.T) {
		t.Parallel()
		store, mock := newUserStore(t)
		mock.ExpectExec(`UPDATE users SET password_hash = \$2`).
			WithArgs(id, "newhash", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.UpdatePassword(context.Background(), id, []byte("newhash")))
	})
}

func TestPostgresUserStore_FindIdentity(t *testing.T) {
	t.Parallel()
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		store, mock := newUserStore(t)
		mock.ExpectQuery(`SELECT is_active FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(false))

		ident, err := store.FindIdentity(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, dualtoken.Identity{ID: id, Active: false}, ident)
	})

	t.Run("missing maps to identity not found", func(t *testing.T) {
		t.Parallel()
		store, mock := newUserStore(t)
		mock.ExpectQuery(`SELECT is_active FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"is_active"}))

		_, err := store.FindIdentity(context.Background(), id)
		assert.ErrorIs(t, err, dualtoken.ErrIdentityNotFound)
	})
}
