package middlewares

import (
	"strconv"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// NewRateLimitStore shares counters through redis when a client is configured,
// otherwise they live in this process.
func NewRateLimitStore(rdb *redis.Client, limit uint, window time.Duration) ratelimit.Store {
	if rdb != nil {
		return ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: rdb,
			Rate:        window,
			Limit:       limit,
		})
	}

	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  window,
		Limit: limit,
	})
}

// GlobalRateLimit applies one per-IP budget to every request.
func GlobalRateLimit(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			retryAfter := int(time.Until(info.ResetTime).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			abortWith(c, apperr.RateLimited("Too many requests from this IP, please try again later"))
		},
		KeyFunc: KeyByIP,
	})
}
