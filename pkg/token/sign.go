package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

const (
	// TagSize is the length of the truncated HMAC-SHA256 tag.
	TagSize = 16

	timestampSize = 8

	// Overhead is the number of bytes Sign adds to a payload.
	Overhead = timestampSize + TagSize
)

// Signer signs and verifies envelopes with an ordered key ring.
type Signer struct {
	keys [][]byte
	now  func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSigner creates a Signer. keys[0] signs; all keys verify.
func NewSigner(keys [][]byte, opts ...Option) (*Signer, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	for _, k := range keys {
		if len(k) == 0 {
			return nil, ErrNoKeys
		}
	}

	s := &Signer{keys: keys, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Sign returns payload followed by the current time and a tag.
func (s *Signer) Sign(payload []byte) []byte {
	env := make([]byte, len(payload)+Overhead)
	n := copy(env, payload)
	binary.BigEndian.PutUint64(env[n:], uint64(s.now().Unix()))
	copy(env[n+timestampSize:], tag(s.keys[0], env[:n+timestampSize]))
	return env
}

func tag(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)[:TagSize]
}
