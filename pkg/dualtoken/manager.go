package dualtoken

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accountkit/pkg/ledger"
	"github.com/dmitrymomot/accountkit/pkg/logger"
	"github.com/dmitrymomot/accountkit/pkg/secrets"
	"github.com/dmitrymomot/accountkit/pkg/statehash"
	"github.com/dmitrymomot/accountkit/pkg/token"
)

// Manager issues, verifies and redeems token pairs against a ledger.
type Manager struct {
	issuer   *Issuer
	verifier *Verifier
	store    ledger.Store
	logger   *slog.Logger
}

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithClock replaces time.Now for hashing, signing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New derives the hashing and signing keys from cfg and builds a Manager.
func New(cfg Config, users IdentityFinder, store ledger.Store, opts ...Option) (*Manager, error) {
	o := options{
		now:    time.Now,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	hashKeys, err := secrets.DeriveRing(cfg.SigningKeys, cfg.KeySalt, secrets.PurposeStateHash)
	if err != nil {
		return nil, fmt.Errorf("derive hash keys: %w", err)
	}
	signKeys, err := secrets.DeriveRing(cfg.SigningKeys, cfg.KeySalt, secrets.PurposeEnvelope)
	if err != nil {
		return nil, fmt.Errorf("derive signing keys: %w", err)
	}

	hasher, err := statehash.New(hashKeys,
		statehash.WithClock(o.now),
		statehash.WithMaxAgeDays(cfg.HashMaxAgeDays),
	)
	if err != nil {
		return nil, err
	}
	signer, err := token.NewSigner(signKeys, token.WithClock(o.now))
	if err != nil {
		return nil, err
	}

	verifier := NewVerifier(hasher, signer, users,
		WithMaxAge(cfg.MaxAge),
		WithVerifierLogger(o.logger),
	)

	return NewManager(NewIssuer(hasher, signer), verifier, store, o.logger), nil
}

// NewManager assembles a Manager from its parts.
func NewManager(issuer *Issuer, verifier *Verifier, store ledger.Store, l *slog.Logger) *Manager {
	if l == nil {
		l = logger.Discard()
	}
	return &Manager{issuer: issuer, verifier: verifier, store: store, logger: l}
}

// IssueTokenPair issues a pair for id and records it before returning it.
func (m *Manager) IssueTokenPair(ctx context.Context, id Identity, event ledger.Event) (Pair, error) {
	if !event.Valid() {
		return Pair{}, ledger.ErrInvalidEvent
	}

	pair, err := m.issuer.Issue(id)
	if err != nil {
		return Pair{}, err
	}

	if err := m.store.Record(ctx, &ledger.Entry{
		UserID:      id.ID,
		TokenA:      pair.A,
		TokenB:      pair.B,
		Fingerprint: pair.Fingerprint,
		Event:       event,
	}); err != nil {
		return Pair{}, fmt.Errorf("record token pair: %w", err)
	}

	m.logger.InfoContext(ctx, "token pair issued",
		logger.Component("dualtoken"),
		logger.UserID(id.ID.String()),
		logger.Event(event.String()),
	)
	return pair, nil
}

// VerifyAndResolve checks a full link. It returns ErrInvalidToken or
// ErrExpired for rejected links.
func (m *Manager) VerifyAndResolve(ctx context.Context, tokenA, tokenB string) (*Claim, error) {
	return m.verifier.Resolve(ctx, tokenA, tokenB)
}

// VerifyConfirmation checks token_B alone. It is used once the full link
// has already been checked and only token_B was handed back to the client.
func (m *Manager) VerifyConfirmation(ctx context.Context, tokenB string) (*Claim, error) {
	return m.verifier.Confirm(ctx, tokenB)
}

// ConsumeToken redeems the issuance identified by fingerprint.
// It returns ledger.ErrAlreadyUsed when the issuance was consumed or
// invalidated before.
func (m *Manager) ConsumeToken(ctx context.Context, userID uuid.UUID, fingerprint string, event ledger.Event) error {
	if err := m.store.Consume(ctx, userID, fingerprint, event); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "token pair consumed",
		logger.Component("dualtoken"),
		logger.UserID(userID.String()),
		logger.Event(event.String()),
	)
	return nil
}

// InvalidateOutstanding marks every unused pair of the user for event as used.
func (m *Manager) InvalidateOutstanding(ctx context.Context, userID uuid.UUID, event ledger.Event) error {
	n, err := m.store.InvalidatePrior(ctx, userID, event)
	if err != nil {
		return err
	}
	if n > 0 {
		m.logger.InfoContext(ctx, "outstanding token pairs invalidated",
			logger.Component("dualtoken"),
			logger.UserID(userID.String()),
			logger.Event(event.String()),
			slog.Int64("count", n),
		)
	}
	return nil
}
