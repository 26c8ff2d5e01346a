package ledger

import "errors"

var (
	ErrAlreadyUsed  = errors.New("token already used")
	ErrInvalidEvent = errors.New("invalid token event")
	ErrInvalidEntry = errors.New("invalid ledger entry")
	ErrUnknownUser  = errors.New("ledger entry references unknown user")
)
