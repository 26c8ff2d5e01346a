package main

import (
	"github.com/dmitrymomot/accountkit/pkg/auth"
	"github.com/dmitrymomot/accountkit/pkg/dualtoken"
	"github.com/dmitrymomot/accountkit/pkg/email"
	"github.com/dmitrymomot/accountkit/pkg/httpserver"
	"github.com/dmitrymomot/accountkit/pkg/jwt"
	"github.com/dmitrymomot/accountkit/pkg/mongo"
	"github.com/dmitrymomot/accountkit/pkg/pg"
	"github.com/dmitrymomot/accountkit/pkg/ratelimit"
	"github.com/dmitrymomot/accountkit/pkg/redis"
)

const (
	ledgerPostgres = "postgres"
	ledgerMongo    = "mongo"
)

type appConfig struct {
	Env           string `env:"APP_ENV" envDefault:"development"`
	Name          string `env:"APP_NAME" envDefault:"accountd"`
	LogLevel      string `env:"LOG_LEVEL"`
	LedgerBackend string `env:"LEDGER_BACKEND" envDefault:"postgres"`

	Auth      auth.Config
	HTTP      httpserver.Config
	Postgres  pg.Config
	Mongo     mongo.Config
	Redis     redis.Config
	Email     email.Config
	JWT       jwt.Config
	Tokens    dualtoken.Config
	RateLimit ratelimit.Config
}
