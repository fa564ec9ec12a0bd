package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter enforces a fixed-window per-client request budget backed by
// Redis. With no client configured, or when Redis is unreachable, the
// limiter degrades open: admission must not depend on Redis availability.
type Limiter struct {
	client *redis.Client
	logger *zap.Logger
}

// NewLimiter builds a limiter. client may be nil.
func NewLimiter(client *redis.Client, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, logger: logger}
}

// PerMinute returns middleware allowing at most limit requests per minute
// per client IP for the wrapped route.
func (l *Limiter) PerMinute(name string, limit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.client == nil || limit <= 0 {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s:%s:%d", name, c.IP(), time.Now().Unix()/60)
		count, err := l.client.Incr(c.UserContext(), key).Result()
		if err != nil {
			l.logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			l.client.Expire(c.UserContext(), key, time.Minute)
		}

		if count > int64(limit) {
			return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "RATE_LIMITED",
					"message": "too many requests, please retry later",
				},
			})
		}
		return c.Next()
	}
}
