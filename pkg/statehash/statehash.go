package statehash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DigestLength is the number of hex characters kept from the HMAC.
	DigestLength = 40

	// DefaultMaxAgeDays bounds how many days a hash stays valid.
	DefaultMaxAgeDays = 3

	day = 24 * time.Hour
)

// Epoch is the reference point of the day counter.
var Epoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// Subject is the part of a user a hash is bound to.
type Subject struct {
	ID     uuid.UUID
	Active bool
}

// Generator makes and checks timestamped hashes.
type Generator struct {
	keys       [][]byte
	maxAgeDays int64
	now        func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxAgeDays sets how many days a hash stays valid.
func WithMaxAgeDays(days int) Option {
	return func(g *Generator) {
		if days > 0 {
			g.maxAgeDays = int64(days)
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a Generator. The first key produces new hashes, all keys are
// accepted when checking.
func New(keys [][]byte, opts ...Option) (*Generator, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	for _, k := range keys {
		if len(k) == 0 {
			return nil, ErrNoKeys
		}
	}

	g := &Generator{
		keys:       keys,
		maxAgeDays: DefaultMaxAgeDays,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// MakeToken returns the hash of s for the current day.
func (g *Generator) MakeToken(s Subject) string {
	return g.MakeHash(s, DaysSinceEpoch(g.now()))
}

// MakeHash returns the hash of s for the given day count.
func (g *Generator) MakeHash(s Subject, days int64) string {
	return strconv.FormatInt(days, 36) + "-" + digest(g.keys[0], s, days)
}

// CheckToken reports whether token was produced for s by any configured key
// and is not older than the maximum age. Malformed input returns false.
func (g *Generator) CheckToken(s Subject, token string) bool {
	ts, sum, ok := strings.Cut(token, "-")
	if !ok || ts == "" || len(sum) != DigestLength {
		return false
	}

	days, err := strconv.ParseInt(ts, 36, 64)
	if err != nil || days < 0 {
		return false
	}

	matched := 0
	for _, key := range g.keys {
		matched |= subtle.ConstantTimeCompare([]byte(digest(key, s, days)), []byte(sum))
	}
	if matched != 1 {
		return false
	}

	age := DaysSinceEpoch(g.now()) - days
	return age >= 0 && age <= g.maxAgeDays
}

// DaysSinceEpoch counts whole UTC days between Epoch and t.
func DaysSinceEpoch(t time.Time) int64 {
	return int64(t.UTC().Sub(Epoch) / day)
}

func digest(key []byte, s Subject, days int64) string {
	var msg [16 + 8 + 1]byte
	copy(msg[:16], s.ID[:])
	binary.BigEndian.PutUint64(msg[16:24], uint64(days))
	if s.Active {
		msg[24] = 1
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(msg[:])
	return hex.EncodeToString(mac.Sum(nil))[:DigestLength]
}
