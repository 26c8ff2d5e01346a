package token

import "errors"

var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrSignatureInvalid = errors.New("signature mismatch")
	ErrExpired          = errors.New("signature expired")
	ErrNoKeys           = errors.New("at least one signing key is required")
)
