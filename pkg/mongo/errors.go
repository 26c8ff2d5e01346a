package mongo

import "errors"

var (
	ErrConnect       = errors.New("mongo: failed to connect")
	ErrUnhealthy     = errors.New("mongo: healthcheck failed")
	ErrEmptyDatabase = errors.New("mongo: database name is empty")
)
