package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"
)

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	Limiter Limiter
	Key     KeyFunc
	// OnLimited writes the response for rejected requests. Defaults to a
	// plain 429.
	OnLimited func(w http.ResponseWriter, r *http.Request, res *Result)
	Logger    *slog.Logger
}

// Middleware rejects requests over the limit with 429 and sets the
// X-RateLimit-* headers on every response. Limiter failures let the request
// through.
func Middleware(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.Key == nil {
		cfg.Key = KeyByIP
	}
	if cfg.OnLimited == nil {
		cfg.OnLimited = func(w http.ResponseWriter, _ *http.Request, _ *Result) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.Key(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := cfg.Limiter.Allow(r.Context(), key)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.WarnContext(r.Context(), "rate limiter unavailable",
						slog.String("component", "ratelimit"),
						slog.Any("error", err),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retry := res.RetryAfter(time.Now())
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				cfg.OnLimited(w, r, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
