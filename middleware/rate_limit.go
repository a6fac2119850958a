package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit allows limit requests per client IP and route in each fixed
// window, counting in redis. Redis failures let the request through.
func RateLimit(client redis.UniversalClient, limit int, window time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		now := time.Now()
		bucket := now.UnixNano() / int64(window)
		key := fmt.Sprintf("rl:%s:%s:%d", c.FullPath(), c.ClientIP(), bucket)

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.WarnContext(ctx, "rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(ctx, key, window).Err(); err != nil {
				logger.WarnContext(ctx, "rate limiter expire failed", "key", key, "error", err)
			}
		}

		remaining := limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if int(count) > limit {
			reset := time.Unix(0, (bucket+1)*int64(window))
			c.Header("Retry-After", strconv.Itoa(int(time.Until(reset).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
