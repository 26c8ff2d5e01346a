package account

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/accountkit/pkg/auth"
	"github.com/dmitrymomot/accountkit/pkg/httpserver"
	"github.com/dmitrymomot/accountkit/pkg/jwt"
	"github.com/dmitrymomot/accountkit/pkg/logger"
	"github.com/dmitrymomot/accountkit/pkg/ratelimit"
)

// RouterOptions configures Router. Service and Sessions are required.
type RouterOptions struct {
	Service  *auth.Service
	Sessions *jwt.Service
	Messages *Catalog
	Logger   *slog.Logger

	// Limiter throttles register, login, reset and resend requests per
	// client address. Nil disables throttling.
	Limiter ratelimit.Limiter

	// ReadyChecks back GET /health/ready.
	ReadyChecks []httpserver.Check
}

// Router builds the account API.
//
//	r := account.Router(account.RouterOptions{
//	    Service:  svc,
//	    Sessions: sessions,
//	    Limiter:  limiter,
//	})
func Router(opts RouterOptions) chi.Router {
	if opts.Messages == nil {
		opts.Messages = DefaultCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	h := &Handler{svc: opts.Service, messages: opts.Messages, log: opts.Logger}

	throttle := func(next http.Handler) http.Handler { return next }
	if opts.Limiter != nil {
		throttle = ratelimit.Middleware(ratelimit.MiddlewareConfig{
			Limiter: opts.Limiter,
			Key:     ratelimit.Composite(ratelimit.KeyByIP, ratelimit.KeyByPath),
			Logger:  opts.Logger,
			OnLimited: func(w http.ResponseWriter, r *http.Request, _ *ratelimit.Result) {
				writeJSON(w, http.StatusTooManyRequests, errorBody{
					Error:   "rate_limited",
					Message: opts.Messages.errorText("rate_limited"),
				})
			},
		})
	}

	requireSession := jwt.Middleware(opts.Sessions, func(w http.ResponseWriter, r *http.Request, err error) {
		h.fail(w, r, err)
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", httpserver.LiveHandler())
	r.Get("/health/ready", httpserver.ReadyHandler(opts.Logger, 2*time.Second, opts.ReadyChecks...))

	r.Route("/auth", func(r chi.Router) {
		r.With(throttle).Post("/register", h.register)
		r.With(throttle).Post("/login", h.login)
		r.Post("/refresh", h.refresh)
		r.With(requireSession).Post("/logout", h.logout)

		r.Get("/activate/{token_a}/{token_b}", h.activate)
		r.With(throttle).Post("/activation/resend", h.resendActivation)

		r.With(throttle).Post("/password/reset", h.requestPasswordReset)
		r.Get("/password/reset/{token_a}/{token_b}", h.checkResetLink)
		r.Post("/password/change/{token_b}", h.changePassword)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Get("/me", h.me)
			r.Post("/me/role", h.changeRole)
		})
	})

	return r
}
