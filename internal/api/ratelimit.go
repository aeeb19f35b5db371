package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradersutopia/tradersutopia/internal/cache"
)

// RateLimitMiddleware is a fixed-window counter in Redis (INCR + EXPIRE),
// keyed by authenticated user when available, client IP otherwise. Redis
// being down fails open: a broken limiter should not take the API with it.
func RateLimitMiddleware(scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.ClientIP()
		if userID, exists := c.Get("userID"); exists {
			id = userID.(string)
		}
		windowStart := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("rl:%s:%s:%d", scope, id, windowStart)

		ctx := context.Background()
		pipe := cache.Rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("Rate limiter error (failing open): %v", err)
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
