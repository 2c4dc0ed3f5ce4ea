package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/venuepoint/venue-booking-backend/internal/config"
)

// limiterStore is the subset of redis commands the rate limiter uses.
type limiterStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// RateLimit returns a fixed-window rate limiting middleware backed by
// redis, keyed per client IP and route. When no redis client is
// available the middleware degrades to a pass-through so the service
// keeps working without the dependency.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rateLimitWith(cfg, rdb)
}

func rateLimitWith(cfg config.RateLimitConfig, store limiterStore) gin.HandlerFunc {
	window := cfg.LoginWindow
	if window <= 0 {
		window = time.Minute
	}
	limit := int64(cfg.LoginLimit)
	if limit <= 0 {
		limit = 10
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())
		ctx := c.Request.Context()

		// SET NX attaches the TTL in the same command, so the counter
		// can never be left behind without an expiry.
		created, err := store.SetNX(ctx, key, 1, window).Result()
		if err != nil {
			// Redis being down must not lock users out.
			c.Next()
			return
		}

		count := int64(1)
		if !created {
			count, err = store.Incr(ctx, key).Result()
			if err != nil {
				c.Next()
				return
			}
		}

		if count > limit {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window/time.Second)))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests, try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
