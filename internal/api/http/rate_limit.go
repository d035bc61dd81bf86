package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// RateLimiter applies a fixed-window per-IP limit backed by Redis. When
// Redis is unreachable requests pass through; login brute force protection
// is not worth an outage.
type RateLimiter struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRateLimiter constructs a limiter.
func NewRateLimiter(client *redis.Client, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{client: client, logger: logger}
}

// Limit returns a handler enforcing max requests per window for the named
// scope.
func (rl *RateLimiter) Limit(scope string, max int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl == nil || rl.client == nil {
			return c.Next()
		}
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.IP())

		count, err := rl.client.Incr(c.UserContext(), key).Result()
		if err != nil {
			rl.logger.Warn("rate limit check failed", zap.String("scope", scope), zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := rl.client.Expire(c.UserContext(), key, window).Err(); err != nil {
				rl.logger.Warn("rate limit expire failed", zap.String("scope", scope), zap.Error(err))
			}
		}
		if count > int64(max) {
			return apperrors.NewDomainError("RATE_LIMITED", "too many requests", fiber.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}
