package dualtoken

import "errors"

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpired          = errors.New("token expired")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrTokenTooLong     = errors.New("issued token exceeds maximum length")
)
