package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobx/internal/ratelimit"
)

// RateLimit rejects requests once key has used up its window.
func RateLimit(limiter ratelimit.Limiter, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), key(c)) {
			abort(c, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}
		c.Next()
	}
}

// ClientIP keys limits by the caller's address.
func ClientIP(c *gin.Context) string {
	return c.ClientIP()
}
