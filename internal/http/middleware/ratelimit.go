package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apptbook/scheduling-platform/pkg/logging"
)

// RateLimiter is a fixed-window per-client rate limiter backed by redis,
// so the limit holds across API instances.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	logger *logging.Logger
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// NewRateLimiter creates a limiter allowing limit requests per window
// for each client IP.
func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration, logger *logging.Logger) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RateLimiter{redis: redisClient, limit: limit, window: window, logger: logger}
}

// Middleware rejects requests over the limit with 429. Redis errors
// fail open so a cache outage never takes scheduling down with it.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.redis == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := r.RemoteAddr
			// Prefer X-Real-Ip set by chi's RealIP middleware.
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}

			count, err := rl.incr(r.Context(), "ratelimit:"+ip)
			if err != nil {
				rl.logger.Warn("rate limiter unavailable, failing open", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(rl.limit) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, rl.redis, []string{key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("middleware: unexpected script result type %T", res)
	}
}
