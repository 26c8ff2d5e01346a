package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the purpose a token pair was issued for.
type Event string

const (
	EventActivate      Event = "activate"
	EventResetPassword Event = "reset_password"
)

// Valid reports whether e is a known event.
func (e Event) Valid() bool {
	switch e {
	case EventActivate, EventResetPassword:
		return true
	}
	return false
}

func (e Event) String() string { return string(e) }

// Entry is one issued token pair.
type Entry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	TokenA      string
	TokenB      string
	Fingerprint string
	Event       Event
	Used        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store persists ledger entries.
type Store interface {
	// Record appends e. ID and timestamps are filled in when zero.
	Record(ctx context.Context, e *Entry) error
	// InvalidatePrior marks every unused entry of the user for event as used
	// and returns how many entries changed.
	InvalidatePrior(ctx context.Context, userID uuid.UUID, event Event) (int64, error)
	// Consume atomically marks the unused entry matching fingerprint as used.
	// ErrAlreadyUsed is returned when no such entry exists.
	Consume(ctx context.Context, userID uuid.UUID, fingerprint string, event Event) error
	// ListByUser returns the user's entries, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error)
}

func prepare(e *Entry, now time.Time) error {
	if e == nil || e.UserID == uuid.Nil || e.Fingerprint == "" || e.TokenA == "" || e.TokenB == "" {
		return ErrInvalidEntry
	}
	if !e.Event.Valid() {
		return ErrInvalidEvent
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	return nil
}
