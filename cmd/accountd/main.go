package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/accountkit/migrations"
	"github.com/dmitrymomot/accountkit/modules/account"
	"github.com/dmitrymomot/accountkit/pkg/auth"
	"github.com/dmitrymomot/accountkit/pkg/config"
	"github.com/dmitrymomot/accountkit/pkg/dualtoken"
	"github.com/dmitrymomot/accountkit/pkg/email"
	"github.com/dmitrymomot/accountkit/pkg/httpserver"
	"github.com/dmitrymomot/accountkit/pkg/jwt"
	"github.com/dmitrymomot/accountkit/pkg/ledger"
	"github.com/dmitrymomot/accountkit/pkg/logger"
	"github.com/dmitrymomot/accountkit/pkg/mongo"
	"github.com/dmitrymomot/accountkit/pkg/pg"
	"github.com/dmitrymomot/accountkit/pkg/ratelimit"
	"github.com/dmitrymomot/accountkit/pkg/redis"
	"github.com/dmitrymomot/accountkit/pkg/secrets"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "keygen" {
		secret, err := secrets.GenerateSecret()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(secret)
		return
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(logger.RequestIDExtractor(middleware.GetReqID)),
	)

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := pg.OpenDB(pool)
	defer db.Close()

	if cfg.Postgres.AutoMigrate {
		if err := pg.Migrate(ctx, db, migrations.FS, cfg.Postgres, log); err != nil {
			return err
		}
	}

	checks := []httpserver.Check{{Name: "postgres", Probe: pg.Healthcheck(pool)}}

	entries, closeLedger, err := openLedger(ctx, cfg, db, &checks)
	if err != nil {
		return err
	}
	defer closeLedger()

	limiter, closeLimiter, err := openLimiter(ctx, cfg, &checks)
	if err != nil {
		return err
	}
	defer closeLimiter()

	sender, err := email.New(cfg.Email)
	if err != nil {
		return err
	}
	if !cfg.Email.UsePostmark() {
		log.Warn("postmark is not configured, emails are written to disk", slog.String("dir", cfg.Email.DevDir))
	}

	users := auth.NewPostgresUserStore(db)

	tokens, err := dualtoken.New(cfg.Tokens, users, entries, dualtoken.WithLogger(log))
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	sessions, err := jwt.New(cfg.JWT)
	if err != nil {
		return err
	}

	svc := auth.NewService(users, tokens, sessions,
		auth.NewMailNotifier(sender, cfg.Auth.BaseURL, cfg.Email.SupportEmail, cfg.Tokens.MaxAge),
		auth.WithBcryptCost(cfg.Auth.BcryptCost),
		auth.WithLogger(log),
	)

	router := account.Router(account.RouterOptions{
		Service:     svc,
		Sessions:    sessions,
		Logger:      log,
		Limiter:     limiter,
		ReadyChecks: checks,
	})

	return httpserver.New(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, router)
}

func openLedger(ctx context.Context, cfg appConfig, db *sql.DB, checks *[]httpserver.Check) (ledger.Store, func(), error) {
	switch cfg.LedgerBackend {
	case ledgerPostgres, "":
		return ledger.NewPostgresStore(db), func() {}, nil

	case ledgerMongo:
		mdb, err := mongo.ConnectDatabase(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mdb.Client().Disconnect(ctx)
		}

		store := ledger.NewMongoStore(mdb)
		if err := store.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		*checks = append(*checks, httpserver.Check{Name: "mongo", Probe: mongo.Healthcheck(mdb.Client())})
		return store, closeFn, nil
	}

	return nil, nil, errors.New("unknown LEDGER_BACKEND " + cfg.LedgerBackend)
}

func openLimiter(ctx context.Context, cfg appConfig, checks *[]httpserver.Check) (ratelimit.Limiter, func(), error) {
	if cfg.RateLimit.Window <= 0 {
		return nil, nil, ratelimit.ErrInvalidInterval
	}

	var (
		store   ratelimit.Store
		closeFn = func() {}
	)

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() { _ = client.Close() }
		store = ratelimit.NewRedisStore(client)
		*checks = append(*checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)})
	} else {
		mem := ratelimit.NewMemoryStore()
		ctx, cancel := context.WithCancel(ctx)
		go func() {
			ticker := time.NewTicker(cfg.RateLimit.Window)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					mem.Cleanup()
				}
			}
		}()
		closeFn = cancel
		store = mem
	}

	limiter, err := ratelimit.NewFixedWindow(store, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return limiter, closeFn, nil
}
