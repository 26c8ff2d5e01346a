package token

import (
	"crypto/subtle"
	"encoding/binary"
	"time"
)

// Unsign verifies env and returns its payload. A non-positive maxAge
// disables the age check.
func (s *Signer) Unsign(env []byte, maxAge time.Duration) ([]byte, error) {
	if len(env) < Overhead {
		return nil, ErrInvalidToken
	}

	signed := env[:len(env)-TagSize]
	sig := env[len(env)-TagSize:]

	matched := 0
	for _, key := range s.keys {
		matched |= subtle.ConstantTimeCompare(tag(key, signed), sig)
	}
	if matched != 1 {
		return nil, ErrSignatureInvalid
	}

	n := len(signed) - timestampSize
	if maxAge > 0 {
		signedAt := time.Unix(int64(binary.BigEndian.Uint64(signed[n:])), 0)
		if s.now().Sub(signedAt) > maxAge {
			return nil, ErrExpired
		}
	}

	payload := make([]byte, n)
	copy(payload, signed[:n])
	return payload, nil
}

// SignedAt returns the signing time stored in env without verifying it.
func SignedAt(env []byte) (time.Time, error) {
	if len(env) < Overhead {
		return time.Time{}, ErrInvalidToken
	}
	n := len(env) - Overhead
	return time.Unix(int64(binary.BigEndian.Uint64(env[n:n+timestampSize])), 0), nil
}
