package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/EMB-revenge/AlagaApp/internal/platform/auth"
)

// RedisRateLimiter enforces a fixed-window request limit shared across
// server instances. Each key gets `limit` requests per `window`; counters
// live in Redis so horizontally scaled replicas see the same budget.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisRateLimiter creates a limiter allowing limit requests per window.
func NewRedisRateLimiter(client *redis.Client, limit int64, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow increments the counter for key in the current window and reports
// whether the request is within the limit. remaining is the number of
// requests left in the window; retryAfter is how long until the window
// resets when the limit is exceeded.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (allowed bool, remaining int64, retryAfter time.Duration, err error) {
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(rl.window.Seconds()))

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	count := incr.Val()
	remaining = rl.limit - count
	if remaining < 0 {
		remaining = 0
	}

	if count > rl.limit {
		ttl, err := rl.client.TTL(ctx, windowKey).Result()
		if err != nil || ttl < 0 {
			ttl = rl.window
		}
		return false, 0, ttl, nil
	}
	return true, remaining, 0, nil
}

// RedisRateLimit returns Echo middleware backed by a shared Redis counter.
// Authenticated requests are keyed by user ID, anonymous ones by client IP.
// Redis failures are logged and the request is allowed through: losing rate
// limiting briefly is preferable to taking the API down with Redis.
func RedisRateLimit(limiter *RedisRateLimiter, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := auth.UserIDFromContext(ctx)
			if key == "" {
				key = c.RealIP()
			}

			allowed, remaining, retryAfter, err := limiter.Allow(ctx, key)
			if err != nil {
				logger.Error().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.FormatInt(limiter.limit, 10))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				retrySecs := int(retryAfter.Seconds())
				if retrySecs < 1 {
					retrySecs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retrySecs))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}
