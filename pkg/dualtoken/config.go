package dualtoken

import "time"

// Config holds the secrets and lifetimes of token pairs.
type Config struct {
	SigningKeys    []string      `env:"TOKEN_SIGNING_KEYS,required" envSeparator:","` // newest first
	KeySalt        string        `env:"TOKEN_KEY_SALT,required"`
	MaxAge         time.Duration `env:"TOKEN_MAX_AGE" envDefault:"24h"`
	HashMaxAgeDays int           `env:"TOKEN_HASH_MAX_AGE_DAYS" envDefault:"3"`
}
