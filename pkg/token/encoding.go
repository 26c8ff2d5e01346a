package token

import (
	"encoding/base32"
	"errors"
)

var textEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Encode returns the URL-safe text form of b.
func Encode(b []byte) string {
	return textEncoding.EncodeToString(b)
}

// EncodedLen returns the length of Encode output for n bytes.
func EncodedLen(n int) int {
	return textEncoding.EncodedLen(n)
}

// Decode reverses Encode. Non-canonical input is rejected.
func Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, ErrInvalidToken
	}

	b, err := textEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if textEncoding.EncodeToString(b) != s {
		return nil, ErrInvalidToken
	}

	return b, nil
}
