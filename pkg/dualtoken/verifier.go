package dualtoken

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accountkit/pkg/logger"
	"github.com/dmitrymomot/accountkit/pkg/statehash"
	"github.com/dmitrymomot/accountkit/pkg/token"
)

// Claim is what a verified token resolves to.
type Claim struct {
	Identity    Identity
	InnerHash   string
	Fingerprint string
}

// Verifier decodes and checks token halves.
type Verifier struct {
	hasher *statehash.Generator
	signer *token.Signer
	users  IdentityFinder
	maxAge time.Duration
	logger *slog.Logger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithMaxAge overrides MaxAge.
func WithMaxAge(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		if d > 0 {
			v.maxAge = d
		}
	}
}

// WithVerifierLogger sets the logger used for rejected tokens.
func WithVerifierLogger(l *slog.Logger) VerifierOption {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewVerifier creates a Verifier.
func NewVerifier(hasher *statehash.Generator, signer *token.Signer, users IdentityFinder, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		hasher: hasher,
		signer: signer,
		users:  users,
		maxAge: MaxAge,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyA decodes token_A. It does not check the embedded hash.
func (v *Verifier) VerifyA(ctx context.Context, tokenA string) (*Claim, error) {
	if !wellFormed(tokenA, MaxLenA) {
		return nil, v.reject(ctx, "token_a", ErrInvalidToken, nil)
	}

	outer, err := token.Decode(tokenA)
	if err != nil {
		return nil, v.reject(ctx, "token_a", ErrInvalidToken, err)
	}
	inner, err := v.unsign(ctx, "token_a", outer)
	if err != nil {
		return nil, err
	}
	env, err := token.Decode(string(inner))
	if err != nil {
		return nil, v.reject(ctx, "token_a", ErrInvalidToken, err)
	}
	raw, err := v.unsign(ctx, "token_a", env)
	if err != nil {
		return nil, err
	}

	p, ok := parsePayloadA(raw)
	if !ok {
		return nil, v.reject(ctx, "token_a", ErrInvalidToken, nil)
	}

	id, err := v.identity(ctx, p.userID)
	if err != nil {
		return nil, err
	}

	return &Claim{Identity: id, InnerHash: p.hash, Fingerprint: fingerprintString(fingerprint(p.nonce))}, nil
}

// VerifyB decodes token_B. It does not check the embedded hash.
func (v *Verifier) VerifyB(ctx context.Context, tokenB string) (*Claim, error) {
	if !wellFormed(tokenB, MaxLenB) {
		return nil, v.reject(ctx, "token_b", ErrInvalidToken, nil)
	}

	env, err := token.Decode(tokenB)
	if err != nil {
		return nil, v.reject(ctx, "token_b", ErrInvalidToken, err)
	}
	raw, err := v.unsign(ctx, "token_b", env)
	if err != nil {
		return nil, err
	}

	p, ok := parsePayloadB(raw)
	if !ok {
		return nil, v.reject(ctx, "token_b", ErrInvalidToken, nil)
	}

	id, err := v.identity(ctx, p.userID)
	if err != nil {
		return nil, err
	}

	return &Claim{Identity: id, InnerHash: p.hash, Fingerprint: fingerprintString(p.fingerprint)}, nil
}

// Resolve verifies both halves of a link and cross-checks them.
func (v *Verifier) Resolve(ctx context.Context, tokenA, tokenB string) (*Claim, error) {
	a, err := v.VerifyA(ctx, tokenA)
	if err != nil {
		return nil, err
	}
	b, err := v.VerifyB(ctx, tokenB)
	if err != nil {
		return nil, err
	}

	if a.Identity.ID != b.Identity.ID {
		return nil, v.reject(ctx, "pair", ErrInvalidToken, errors.New("halves name different users"))
	}
	if subtle.ConstantTimeCompare([]byte(a.Fingerprint), []byte(b.Fingerprint)) != 1 {
		return nil, v.reject(ctx, "pair", ErrInvalidToken, errors.New("halves belong to different issuances"))
	}
	if !v.checkHash(a) || !v.checkHash(b) {
		return nil, v.reject(ctx, "pair", ErrInvalidToken, errors.New("state hash mismatch"))
	}

	return a, nil
}

// Confirm verifies token_B alone, including its state hash.
func (v *Verifier) Confirm(ctx context.Context, tokenB string) (*Claim, error) {
	b, err := v.VerifyB(ctx, tokenB)
	if err != nil {
		return nil, err
	}
	if !v.checkHash(b) {
		return nil, v.reject(ctx, "token_b", ErrInvalidToken, errors.New("state hash mismatch"))
	}
	return b, nil
}

func (v *Verifier) checkHash(c *Claim) bool {
	return v.hasher.CheckToken(c.Identity.subject(), c.InnerHash)
}

func (v *Verifier) unsign(ctx context.Context, part string, env []byte) ([]byte, error) {
	payload, err := v.signer.Unsign(env, v.maxAge)
	switch {
	case err == nil:
		return payload, nil
	case errors.Is(err, token.ErrExpired):
		return nil, v.reject(ctx, part, ErrExpired, err)
	default:
		return nil, v.reject(ctx, part, ErrInvalidToken, err)
	}
}

func (v *Verifier) identity(ctx context.Context, id uuid.UUID) (Identity, error) {
	ident, err := v.users.FindIdentity(ctx, id)
	if errors.Is(err, ErrIdentityNotFound) {
		return Identity{}, v.reject(ctx, "identity", ErrInvalidToken, err)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("find identity: %w", err)
	}
	ident.ID = id
	return ident, nil
}

// reject logs the internal cause and returns only the public error.
func (v *Verifier) reject(ctx context.Context, part string, public, cause error) error {
	attrs := []any{logger.Component("dualtoken"), slog.String("part", part), slog.String("reason", public.Error())}
	if cause != nil {
		attrs = append(attrs, logger.Error(cause))
	}
	v.logger.DebugContext(ctx, "token rejected", attrs...)
	return public
}

func wellFormed(s string, maxLen int) bool {
	if len(s) == 0 || len(s) > maxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
