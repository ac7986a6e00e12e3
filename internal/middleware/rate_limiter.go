package middleware

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
)

// RateLimiter is a fixed-window request counter per client IP and route,
// kept in Redis so every instance shares the same budget.
type RateLimiter struct {
	client redis.UniversalClient
	max    int
	window time.Duration
}

func NewRateLimiter(client redis.UniversalClient, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, max: max, window: window}
}

// Handler lets every request through when the limiter is nil or Redis is
// unreachable.
func (l *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil || l.client == nil {
			return c.Next()
		}

		// Keyed on the registered route, not the request path: routing ignores
		// case and a trailing slash, so /LOGIN/ must share the /login budget.
		ctx := c.UserContext()
		key := fmt.Sprintf("ratelimit:%s:%s", c.Route().Path, c.IP())

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			log.Warnf("rate limiter unavailable: %v", err)
			return c.Next()
		}
		if count == 1 {
			if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
				log.Warnf("rate limiter unavailable: %v", err)
			}
		}

		remaining := int64(l.max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(l.max))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(l.max) {
			if ttl, err := l.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(ttl.Seconds()))))
			}
			return autherror.New(autherror.ErrTooManyRequests, "too many requests, try again later")
		}

		return c.Next()
	}
}
