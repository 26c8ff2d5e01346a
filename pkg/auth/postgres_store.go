package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accountkit/pkg/dualtoken"
	"github.com/dmitrymomot/accountkit/pkg/pg"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresUserStore keeps users in the users table. It also serves as the
// identity lookup of token verification.
type PostgresUserStore struct {
	db  DBTX
	now func() time.Time
}

// NewPostgresUserStore creates a store bound to db.
func NewPostgresUserStore(db DBTX) *PostgresUserStore {
	return &PostgresUserStore{db: db, now: time.Now}
}

const userColumns = `id, email, password_hash, is_active, role, last_login, created_at, updated_at`

func (s *PostgresUserStore) Create(ctx context.Context, u *User) error {
	now := s.now().UTC()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.CreatedAt, u.UpdatedAt = now, now

	query := `
		INSERT INTO users (id, email, password_hash, is_active, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, string(u.PasswordHash), u.IsActive, string(u.Role), u.CreatedAt, u.UpdatedAt,
	)
	switch {
	case pg.IsDuplicateKeyError(err):
		return ErrEmailAlreadyExists
	case err != nil:
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scan(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return s.scan(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresUserStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.update(ctx, `UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`, id, active)
}

func (s *PostgresUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash []byte) error {
	return s.update(ctx, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, string(hash))
}

func (s *PostgresUserStore) UpdateRole(ctx context.Context, id uuid.UUID, role Role) error {
	return s.update(ctx, `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`, id, string(role))
}

func (s *PostgresUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.update(ctx, `UPDATE users SET last_login = $2, updated_at = $3 WHERE id = $1`, id, at.UTC())
}

// FindIdentity implements dualtoken.IdentityFinder.
func (s *PostgresUserStore) FindIdentity(ctx context.Context, id uuid.UUID) (dualtoken.Identity, error) {
	var active bool
	err := s.db.QueryRowContext(ctx, `SELECT is_active FROM users WHERE id = $1`, id).Scan(&active)
	switch {
	case pg.IsNotFoundError(err):
		return dualtoken.Identity{}, dualtoken.ErrIdentityNotFound
	case err != nil:
		return dualtoken.Identity{}, fmt.Errorf("find identity: %w", err)
	}
	return dualtoken.Identity{ID: id, Active: active}, nil
}

func (s *PostgresUserStore) update(ctx context.Context, query string, id uuid.UUID, value any) error {
	res, err := s.db.ExecContext(ctx, query, id, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresUserStore) scan(row *sql.Row) (*User, error) {
	var (
		u         User
		hash      string
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &hash, &u.IsActive, &role, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.PasswordHash = []byte(hash)
	u.Role = Role(role)
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}
