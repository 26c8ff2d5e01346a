package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accountkit/pkg/pg"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore keeps entries in the user_activation_reset_tokens table.
type PostgresStore struct {
	db  DBTX
	now func() time.Time
}

// NewPostgresStore creates a store bound to db.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Record(ctx context.Context, e *Entry) error {
	if err := prepare(e, s.now().UTC()); err != nil {
		return err
	}

	query := `
		INSERT INTO user_activation_reset_tokens
			(id, user_id, token_a, token_b, fingerprint, event, used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := s.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.TokenA, e.TokenB, e.Fingerprint, string(e.Event), e.Used, e.CreatedAt, e.UpdatedAt,
	); err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return ErrUnknownUser
		}
		return fmt.Errorf("record ledger entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) InvalidatePrior(ctx context.Context, userID uuid.UUID, event Event) (int64, error) {
	if !event.Valid() {
		return 0, ErrInvalidEvent
	}

	query := `
		UPDATE user_activation_reset_tokens
		SET used = TRUE, updated_at = $3
		WHERE user_id = $1 AND event = $2 AND used = FALSE
	`
	res, err := s.db.ExecContext(ctx, query, userID, string(event), s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("invalidate ledger entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("invalidate ledger entries: %w", err)
	}
	return n, nil
}

// Consume relies on the row lock taken by UPDATE: a concurrent statement
// re-evaluates used = FALSE after the first commits and matches nothing.
func (s *PostgresStore) Consume(ctx context.Context, userID uuid.UUID, fingerprint string, event Event) error {
	if !event.Valid() {
		return ErrInvalidEvent
	}

	query := `
		UPDATE user_activation_reset_tokens
		SET used = TRUE, updated_at = $4
		WHERE user_id = $1 AND fingerprint = $2 AND event = $3 AND used = FALSE
	`
	res, err := s.db.ExecContext(ctx, query, userID, fingerprint, string(event), s.now().UTC())
	if err != nil {
		return fmt.Errorf("consume ledger entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume ledger entry: %w", err)
	}
	if n == 0 {
		return ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	query := `
		SELECT id, user_id, token_a, token_b, fingerprint, event, used, created_at, updated_at
		FROM user_activation_reset_tokens
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e     Entry
			event string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.TokenA, &e.TokenB, &e.Fingerprint, &event, &e.Used, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Event = Event(event)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return out, nil
}
