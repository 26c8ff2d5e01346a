package ledger_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountkit/pkg/ledger"
)

func newEntry(userID uuid.UUID, fingerprint string, event ledger.Event) *ledger.Entry {
	return &ledger.Entry{
		UserID:      userID,
		TokenA:      "TOKENA" + fingerprint,
		TokenB:      "TOKENB" + fingerprint,
		Fingerprint: fingerprint,
		Event:       event,
	}
}

func TestMemoryStore_Record(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	userID := uuid.New()

	e := newEntry(userID, "fp1", ledger.EventActivate)
	require.NoError(t, store.Record(ctx, e))
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	entries, err := store.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, *e, entries[0])

	t.Run("invalid entries", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, store.Record(ctx, nil), ledger.ErrInvalidEntry)
		assert.ErrorIs(t, store.Record(ctx, newEntry(uuid.Nil, "fp", ledger.EventActivate)), ledger.ErrInvalidEntry)
		assert.ErrorIs(t, store.Record(ctx, newEntry(uuid.New(), "", ledger.EventActivate)), ledger.ErrInvalidEntry)
		assert.ErrorIs(t, store.Record(ctx, newEntry(uuid.New(), "fp", "login")), ledger.ErrInvalidEvent)
	})
}

func TestMemoryStore_Consume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("single use", func(t *testing.T) {
		t.Parallel()
		store := ledger.NewMemoryStore()
		userID := uuid.New()
		require.NoError(t, store.Record(ctx, newEntry(userID, "fp1", ledger.EventActivate)))

		require.NoError(t, store.Consume(ctx, userID, "fp1", ledger.EventActivate))
		assert.ErrorIs(t, store.Consume(ctx, userID, "fp1", ledger.EventActivate), ledger.ErrAlreadyUsed)

		entries, err := store.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Used)
	})

	t.Run("scoped by event and user", func(t *testing.T) {
		t.Parallel()
		store := ledger.NewMemoryStore()
		userID := uuid.New()
		require.NoError(t, store.Record(ctx, newEntry(userID, "fp1", ledger.EventActivate)))

		assert.ErrorIs(t, store.Consume(ctx, userID, "fp1", ledger.EventResetPassword), ledger.ErrAlreadyUsed)
		assert.ErrorIs(t, store.Consume(ctx, uuid.New(), "fp1", ledger.EventActivate), ledger.ErrAlreadyUsed)
		assert.ErrorIs(t, store.Consume(ctx, userID, "unknown", ledger.EventActivate), ledger.ErrAlreadyUsed)
		assert.NoError(t, store.Consume(ctx, userID, "fp1", ledger.EventActivate))
	})

	t.Run("invalid event", func(t *testing.T) {
		t.Parallel()
		store := ledger.NewMemoryStore()
		assert.ErrorIs(t, store.Consume(ctx, uuid.New(), "fp", "bogus"), ledger.ErrInvalidEvent)
	})

	t.Run("concurrent consumers", func(t *testing.T) {
		t.Parallel()
		store := ledger.NewMemoryStore()
		userID := uuid.New()
		require.NoError(t, store.Record(ctx, newEntry(userID, "fp1", ledger.EventResetPassword)))

		var (
			wg      sync.WaitGroup
			success atomic.Int32
		)
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if store.Consume(ctx, userID, "fp1", ledger.EventResetPassword) == nil {
					success.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), success.Load())
	})
}

func TestMemoryStore_InvalidatePrior(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	userID := uuid.New()
	other := uuid.New()

	require.NoError(t, store.Record(ctx, newEntry(userID, "fp1", ledger.EventResetPassword)))
	require.NoError(t, store.Record(ctx, newEntry(userID, "fp2", ledger.EventResetPassword)))
	require.NoError(t, store.Record(ctx, newEntry(userID, "fp3", ledger.EventActivate)))
	require.NoError(t, store.Record(ctx, newEntry(other, "fp4", ledger.EventResetPassword)))

	n, err := store.InvalidatePrior(ctx, userID, ledger.EventResetPassword)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = store.InvalidatePrior(ctx, userID, ledger.EventResetPassword)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, store.Consume(ctx, userID, "fp1", ledger.EventResetPassword), ledger.ErrAlreadyUsed)
	assert.ErrorIs(t, store.Consume(ctx, userID, "fp2", ledger.EventResetPassword), ledger.ErrAlreadyUsed)
	assert.NoError(t, store.Consume(ctx, userID, "fp3", ledger.EventActivate))
	assert.NoError(t, store.Consume(ctx, other, "fp4", ledger.EventResetPassword))

	_, err = store.InvalidatePrior(ctx, userID, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidEvent)
}
