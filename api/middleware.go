package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateCounter is the slice of the redis cache the limiter needs.
type RateCounter interface {
	IncrRequest(ctx context.Context, clientKey string, window time.Duration) (int64, error)
}

// RateLimit is a fixed-window per-client limiter. It fails open: a redis
// outage slows nobody down, it only loses the limiting.
func RateLimit(counter RateCounter, perMinute int, logger zerolog.Logger) gin.HandlerFunc {
	if counter == nil || perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		count, err := counter.IncrRequest(c.Request.Context(), c.ClientIP(), time.Minute)
		if err != nil {
			logger.Warn().Err(err).Msg("rate limiter unavailable, failing open")
			c.Next()
			return
		}
		if count > int64(perMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}

// AdminAuth guards staff routes with a static token from config, passed in
// the X-Admin-Token header.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "admin access is not configured"})
			return
		}
		provided := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		c.Next()
	}
}
