package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimit creates a rate limiting middleware backed by Redis, using the
// limit and window from the rate_limiting config section. It is a no-op
// when rate limiting is disabled, in which case Redis is never touched.
func (m *Middleware) RateLimit(keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.cfg.RateLimiting.Enabled || m.rdb == nil {
				next.ServeHTTP(w, r)
				return
			}

			limit := m.cfg.RateLimiting.Limit
			window := m.cfg.RateLimiting.Window

			ctx := r.Context()
			key := fmt.Sprintf("ratelimit:%s", keyFn(r))

			// Get current count
			count, err := m.rdb.Incr(ctx, key)
			if err != nil {
				m.log.Error().Err(err).Msg("failed to increment rate limit counter")
				next.ServeHTTP(w, r)
				return
			}

			// Set expiry on first request
			if count == 1 {
				m.rdb.Expire(ctx, key, window)
			}

			// Get TTL for reset header
			ttl, _ := m.rdb.Client.TTL(ctx, key).Result()
			resetTime := time.Now().Add(ttl).Unix()

			// Set rate limit headers
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, limit-int(count))))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))

			// Check if limit exceeded
			if int(count) > limit {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(ttl.Seconds()), 10))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"message":"Too many requests. Please try again later."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IPKey returns the client IP address as the rate limit key
func IPKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
