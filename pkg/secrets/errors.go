package secrets

import "errors"

var (
	ErrEmptySecret         = errors.New("secret must not be empty")
	ErrNoSecrets           = errors.New("at least one secret is required")
	ErrKeyDerivationFailed = errors.New("key derivation failed")
)
