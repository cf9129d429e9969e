package middlewares

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window limiter held in process memory. With skipSuccessful set,
// only requests that end in a failure status count against the window.
type RateLimiter struct {
	mu             sync.Mutex
	window         time.Duration
	limit          int
	skipSuccessful bool
	clients        map[string]*clientBucket
	now            func() time.Time
	lastSweep      time.Time
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter(limit int, window time.Duration, skipSuccessful bool) *RateLimiter {
	return &RateLimiter{
		limit:          limit,
		window:         window,
		skipSuccessful: skipSuccessful,
		clients:        make(map[string]*clientBucket),
		now:            time.Now,
	}
}

func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			key = clientIP(c)
		}

		// The slot is taken before the handler runs so parallel requests cannot all slip
		// through an unspent budget.
		windowEnd, retryAfter, ok := rl.take(key)
		if !ok {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			abortWith(c, apperr.RateLimited(message))
			return
		}

		c.Next()

		if !rl.skipSuccessful {
			return
		}

		// ErrorHandler has not written yet, so the outcome comes from the error list.
		status := c.Writer.Status()
		if len(c.Errors) > 0 {
			status = apperr.From(c.Errors.Last().Err).Status()
		}
		if status < 400 {
			rl.release(key, windowEnd)
		}
	}
}

// take counts one request for key and reports the window it was counted in. When the
// budget is spent it returns the seconds left in the window instead.
func (rl *RateLimiter) take(key string) (time.Time, int, bool) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweep(now)

	b, ok := rl.clients[key]
	if !ok || !now.Before(b.windowEnd) {
		b = &clientBucket{windowEnd: now.Add(rl.window)}
		rl.clients[key] = b
	}

	if b.count >= rl.limit {
		retryAfter := int(b.windowEnd.Sub(now).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		return time.Time{}, retryAfter, false
	}

	b.count++
	return b.windowEnd, 0, true
}

// release hands back a slot taken in the window ending at windowEnd.
func (rl *RateLimiter) release(key string, windowEnd time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[key]
	if !ok || !b.windowEnd.Equal(windowEnd) || b.count == 0 {
		return
	}
	b.count--
}

// sweep drops expired buckets at most once per window. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now

	for k, b := range rl.clients {
		if !now.Before(b.windowEnd) {
			delete(rl.clients, k)
		}
	}
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)
	if err == nil && host != "" {
		return host
	}

	return ip
}
