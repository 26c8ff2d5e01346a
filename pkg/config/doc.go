// Package config loads typed configuration from environment variables.
//
// Every package that needs settings exposes a Config struct tagged for
// github.com/caarlos0/env; the binary composes them and calls Load once at
// startup. A ./.env file is read if present, which keeps local development
// free of exported variables.
//
//	var cfg struct {
//		PG    pg.Config
//		Redis redis.Config
//	}
//	config.MustLoad(&cfg)
package config
