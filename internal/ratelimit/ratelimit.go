// Package ratelimit throttles public write endpoints per client IP with a
// fixed one-minute window counted in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const window = time.Minute

type Limiter struct {
	redis  redis.Cmdable
	limit  int64
	logger *slog.Logger
}

// New returns a limiter allowing limit requests per minute per scope and IP.
// A nil client or a non-positive limit disables limiting.
func New(rdb redis.Cmdable, limit int, logger *slog.Logger) *Limiter {
	return &Limiter{redis: rdb, limit: int64(limit), logger: logger}
}

func key(scope, ip string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, ip)
}

// startWindow puts the TTL on k. When that fails the counter is dropped so
// the next request starts a fresh window.
func (l *Limiter) startWindow(ctx context.Context, scope, k string) {
	err := l.redis.Expire(ctx, k, window).Err()
	if err == nil {
		return
	}
	l.logger.Warn("rate limit expire failed", "scope", scope, "error", err)
	if err := l.redis.Del(ctx, k).Err(); err != nil {
		l.logger.Error("rate limit counter reset failed", "scope", scope, "error", err)
	}
}

// Middleware counts requests under scope. Redis errors let the request
// through.
func (l *Limiter) Middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.redis == nil || l.limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		k := key(scope, c.ClientIP())

		count, err := l.redis.Incr(ctx, k).Result()
		if err != nil {
			l.logger.Warn("rate limit check failed", "scope", scope, "error", err)
			c.Next()
			return
		}
		if count == 1 {
			l.startWindow(ctx, scope, k)
		}
		if count > l.limit {
			// A counter left without a TTL would block this IP forever.
			if ttl, err := l.redis.TTL(ctx, k).Result(); err == nil && ttl < 0 {
				l.startWindow(ctx, scope, k)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
