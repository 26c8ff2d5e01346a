package redis

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL, set REDIS_URL")
	ErrInvalidURL         = errors.New("redis: invalid connection URL")
	ErrNotReady           = errors.New("redis: server did not answer PING in time")
	ErrUnhealthy          = errors.New("redis: healthcheck failed")
)
