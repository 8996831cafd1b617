package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Limiter decides whether a request from key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// RateLimit throttles requests per client IP.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "request was throttled"})
			return
		}
		c.Next()
	}
}
