package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter limits requests per client IP. Counters live in Redis when a
// client is supplied so that several API replicas share one budget.
func RateLimiter(perMinute int, rdb *redis.Client) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 100
	}
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  int64(perMinute),
	}

	var store limiter.Store = memory.NewStore()
	if rdb != nil {
		rs, err := redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{
			Prefix:   "seneca_limiter",
			MaxRetry: 3,
		})
		if err != nil {
			log.Printf("⚠️ redis limiter store unavailable, using memory: %v", err)
		} else {
			store = rs
		}
	}

	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance)
}
