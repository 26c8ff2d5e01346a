package ratelimit

import (
	"context"
	"time"
)

// FixedWindow allows up to limit requests per key in each window.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// FixedWindowOption configures a FixedWindow.
type FixedWindowOption func(*FixedWindow)

// WithPrefix namespaces keys in shared stores.
func WithPrefix(prefix string) FixedWindowOption {
	return func(f *FixedWindow) { f.prefix = prefix }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) FixedWindowOption {
	return func(f *FixedWindow) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFixedWindow creates a limiter.
func NewFixedWindow(store Store, limit int, window time.Duration, opts ...FixedWindowOption) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	f := &FixedWindow{store: store, limit: limit, window: window, prefix: "ratelimit:", now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, ttl, err := f.store.Increment(ctx, f.prefix+key, f.window)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   count <= int64(f.limit),
		Limit:     f.limit,
		Remaining: max(f.limit-int(count), 0),
		ResetAt:   f.now().Add(ttl),
	}, nil
}
