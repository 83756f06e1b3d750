package middleware

import (
	"context"
	"net/http"
	"time"

	"thangka-gallery/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateCounter is the subset of the redis client the submit guard needs.
type RateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func incrWithTTL(ctx context.Context, client RateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// RequireSubmitQuota limits POSTs per client IP within window, counted in
// redis so the quota is shared between instances. A nil client disables the
// guard; redis failures let the request through.
func RequireSubmitQuota(client RateCounter, scope string, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || c.Request.Method != http.MethodPost || limit <= 0 {
			c.Next()
			return
		}

		key := "submit:" + scope + ":" + c.ClientIP()
		count, err := incrWithTTL(c.Request.Context(), client, key, window)
		if err != nil {
			logging.FromContext(c).Warn().Err(err).Str("scope", scope).Msg("submit quota check failed")
			c.Next()
			return
		}

		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many submissions. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
