package middleware

import (
	"context"
	"fmt"
	"time"

	"skillup_backend/internal/logger"
	"skillup_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter - фиксированное окно на счетчиках Redis
type RateLimiter struct {
	redisClient redis.UniversalClient
}

func NewRateLimiter(client redis.UniversalClient) *RateLimiter {
	return &RateLimiter{redisClient: client}
}

// Limit ограничивает число запросов с одного ключа (пользователь или IP) за окно.
// Если Redis недоступен, запрос пропускается.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.redisClient == nil || limit <= 0 {
			c.Next()
			return
		}

		subject := GetUserID(c)
		if subject == "" {
			subject = c.ClientIP()
		}
		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, subject)

		ctx := c.Request.Context()
		count, err := rl.hit(ctx, key, window)
		if err != nil {
			logger.CtxWarn(ctx, "Rate limiter unavailable, letting request through", "error", err.Error())
			c.Next()
			return
		}

		if count > int64(limit) {
			ttl, _ := rl.redisClient.TTL(ctx, key).Result()
			c.Header("Retry-After", fmt.Sprintf("%.0f", ttl.Seconds()))
			apperrors.HandleError(c, apperrors.ErrTooManyRequests.WithDetails(map[string]interface{}{
				"retry_after_seconds": int(ttl.Seconds()),
			}))
			return
		}
		c.Next()
	}
}

// hit открывает окно (SET NX EX) и увеличивает счетчик одной транзакцией,
// так что ключ не может остаться без TTL
func (rl *RateLimiter) hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := rl.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, window)
		incr = pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
