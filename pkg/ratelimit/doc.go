// Package ratelimit throttles requests with a fixed-window counter kept in
// process memory or in Redis.
//
//	limiter, err := ratelimit.NewFixedWindow(ratelimit.NewRedisStore(client), 10, time.Minute)
//	r.Use(ratelimit.Middleware(ratelimit.MiddlewareConfig{
//	    Limiter: limiter,
//	    Key:     ratelimit.Composite(ratelimit.KeyByIP, ratelimit.KeyByPath),
//	}))
//
// The account routes use it to slow down credential guessing and mail
// flooding; there is no per-account lockout.
package ratelimit
