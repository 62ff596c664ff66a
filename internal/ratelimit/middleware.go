package ratelimit

import (
	"fmt"
	"net"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhajirhq/muhajir-backend/internal/apierr"
	"github.com/muhajirhq/muhajir-backend/internal/logger"
	"github.com/muhajirhq/muhajir-backend/internal/response"
)

type Limiter struct {
	log    *logger.Logger
	store  CounterStore
	window time.Duration
}

func NewLimiter(log *logger.Logger, store CounterStore, window time.Duration) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		log:    log.With("middleware", "RateLimiter"),
		store:  store,
		window: window,
	}
}

// Middleware rejects the request before any other work once the (address,
// class) bucket exceeds limit within the window. Store failures fail open:
// availability over strictness, with the failure logged.
func (l *Limiter) Middleware(class string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := class + ":" + clientAddr(c)

		count, err := l.store.Incr(c.Request.Context(), key, l.window)
		if err != nil {
			l.log.Warn("Rate limit counter unavailable, allowing request", "class", class, "error", err)
			c.Next()
			return
		}

		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			err := apierr.RateLimited(fmt.Errorf("class %s over %d requests per window", class, limit))
			response.AbortAPIError(c, err)
			return
		}

		c.Next()
	}
}

// Normalize IPv6-mapped IPv4 etc.
func clientAddr(c *gin.Context) string {
	raw := c.ClientIP()
	if raw == "" {
		return "unknown"
	}
	if ip := net.ParseIP(raw); ip != nil {
		return ip.String()
	}
	return raw
}
