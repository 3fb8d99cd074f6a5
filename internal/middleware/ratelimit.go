package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yarachoice/clinic-api/internal/handler"
)

// RateLimit enforces a per-client-IP token bucket. Limiter state lives for
// the process lifetime; the map is unbounded but keyed by observed IPs only.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handler.Response{
				Success: false,
				Error:   &handler.APIError{Message: "too many requests"},
			})
			return
		}
		c.Next()
	}
}
