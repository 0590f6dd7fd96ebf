package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "produce-market/internal/transport/http/response"
)

func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooManyRequests, "too many requests")
	}
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimitPerIP keeps one limiter per client IP. Buckets idle for longer
// than ten minutes are swept once the table grows past 10k entries.
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	const (
		sweepAt = 10_000
		idle    = 10 * time.Minute
	)
	var mu sync.Mutex
	buckets := make(map[string]*ipBucket)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		b, ok := buckets[ip]
		if !ok {
			if len(buckets) >= sweepAt {
				for k, v := range buckets {
					if now.Sub(v.seen) > idle {
						delete(buckets, k)
					}
				}
			}
			b = &ipBucket{lim: rate.NewLimiter(rps, burst)}
			buckets[ip] = b
		}
		b.seen = now
		allowed := b.lim.Allow()
		mu.Unlock()

		if allowed {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooManyRequests, "too many requests")
	}
}
