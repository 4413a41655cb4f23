// Package ratelimit implements the RATE_LIMIT_PER_MINUTE fixed-window limiter (spec §6),
// grounded on the same redis/go-redis client construction rate-svc's ReviewCache uses.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodcourt-platform/platform/apierr"
)

type Limiter struct {
	client    *redis.Client
	perMinute int
}

func New(client *redis.Client, perMinute int) *Limiter {
	return &Limiter{client: client, perMinute: perMinute}
}

// Allow increments the counter for key's current minute window and reports whether the caller
// is still under the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	window := time.Now().UTC().Format("200601021504")
	redisKey := fmt.Sprintf("ratelimit:%s:%s", key, window)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		l.client.Expire(ctx, redisKey, 90*time.Second)
	}
	return count <= int64(l.perMinute), nil
}

// Middleware rejects requests over the limit with apierr.RateLimited. identify extracts the
// rate-limit key from the request (principal id once authenticated, remote addr otherwise).
func (l *Limiter) Middleware(identify func(*http.Request) string, writeErr func(http.ResponseWriter, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := l.Allow(r.Context(), identify(r))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeErr(w, apierr.New(apierr.RateLimited, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
