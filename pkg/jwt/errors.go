package jwt

import "errors"

var (
	ErrInvalidToken      = errors.New("jwt: invalid token")
	ErrExpiredToken      = errors.New("jwt: token is expired")
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrWrongTokenType    = errors.New("jwt: unexpected token type")
	ErrMissingToken      = errors.New("jwt: missing bearer token")
)
