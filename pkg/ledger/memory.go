package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Record(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := prepare(e, s.now()); err != nil {
		return err
	}
	s.entries = append(s.entries, *e)
	return nil
}

func (s *MemoryStore) InvalidatePrior(_ context.Context, userID uuid.UUID, event Event) (int64, error) {
	if !event.Valid() {
		return 0, ErrInvalidEvent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	now := s.now()
	for i := range s.entries {
		e := &s.entries[i]
		if e.UserID == userID && e.Event == event && !e.Used {
			e.Used = true
			e.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Consume(_ context.Context, userID uuid.UUID, fingerprint string, event Event) error {
	if !event.Valid() {
		return ErrInvalidEvent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	consumed := false
	now := s.now()
	for i := range s.entries {
		e := &s.entries[i]
		if e.UserID == userID && e.Event == event && e.Fingerprint == fingerprint && !e.Used {
			e.Used = true
			e.UpdatedAt = now
			consumed = true
		}
	}
	if !consumed {
		return ErrAlreadyUsed
	}
	return nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}
