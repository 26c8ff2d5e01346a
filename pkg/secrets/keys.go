package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the length of every derived key.
const KeySize = 32

// Purposes separate the keys derived from one configured secret.
const (
	PurposeStateHash = "accountkit/statehash/v1"
	PurposeEnvelope  = "accountkit/envelope/v1"
)

// DeriveKey expands secret into a KeySize key bound to salt and purpose.
// The same secret never yields the same key for two different purposes.
func DeriveKey(secret, salt []byte, purpose string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	r := hkdf.New(sha256.New, secret, salt, []byte(purpose))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return key, nil
}

// DeriveRing derives one key per secret, preserving order.
// The first secret is the current one; the rest are kept for verification
// of values produced before a rotation.
func DeriveRing(secrets []string, salt, purpose string) ([][]byte, error) {
	if len(secrets) == 0 {
		return nil, ErrNoSecrets
	}

	ring := make([][]byte, 0, len(secrets))
	for _, s := range secrets {
		key, err := DeriveKey([]byte(s), []byte(salt), purpose)
		if err != nil {
			ClearRing(ring)
			return nil, err
		}
		ring = append(ring, key)
	}

	return ring, nil
}

// ClearRing zeroes every key in the ring.
func ClearRing(ring [][]byte) {
	for _, k := range ring {
		clear(k)
	}
}

// GenerateKey creates a random KeySize key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateSecret returns a random secret suitable for TOKEN_SIGNING_KEYS.
func GenerateSecret() (string, error) {
	key, err := GenerateKey()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}
