// Package redis connects to Redis with retries and exposes a health probe.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := ratelimit.NewRedisStore(client)
//
// Redis is optional for the service: when REDIS_URL is empty, Config.Enabled
// returns false and in-memory stores are used instead.
package redis
