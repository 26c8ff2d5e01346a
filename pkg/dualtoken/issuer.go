package dualtoken

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/dmitrymomot/accountkit/pkg/statehash"
	"github.com/dmitrymomot/accountkit/pkg/token"
)

const (
	MaxLenA = 350
	MaxLenB = 250

	// MaxAge is how long each signed half of a pair stays valid.
	MaxAge = 24 * time.Hour
)

// Pair is the result of one issuance.
type Pair struct {
	A           string
	B           string
	Fingerprint string
	InnerHash   string
}

// Issuer builds token pairs. It has no side effects besides reading
// random bytes.
type Issuer struct {
	hasher *statehash.Generator
	signer *token.Signer
	random io.Reader
}

// NewIssuer creates an Issuer.
func NewIssuer(hasher *statehash.Generator, signer *token.Signer) *Issuer {
	return &Issuer{hasher: hasher, signer: signer, random: rand.Reader}
}

// Issue creates a fresh pair for id.
func (i *Issuer) Issue(id Identity) (Pair, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(i.random, nonce); err != nil {
		return Pair{}, fmt.Errorf("generate nonce: %w", err)
	}

	hash := i.hasher.MakeToken(id.subject())
	fp := fingerprint(nonce)

	inner := token.Encode(i.signer.Sign(payloadA{userID: id.ID, nonce: nonce, hash: hash}.marshal()))
	a := token.Encode(i.signer.Sign([]byte(inner)))
	b := token.Encode(i.signer.Sign(payloadB{userID: id.ID, hash: hash, fingerprint: fp}.marshal()))

	if len(a) > MaxLenA || len(b) > MaxLenB {
		return Pair{}, ErrTokenTooLong
	}

	return Pair{A: a, B: b, Fingerprint: fingerprintString(fp), InnerHash: hash}, nil
}
