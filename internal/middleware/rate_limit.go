package middleware

import (
	"strconv"

	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimit throttles a route by user id when authenticated, otherwise by client IP.
// Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, name string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := "ip:" + c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			id = "user:" + strconv.FormatInt(userID, 10)
		}

		allowed, err := limiter.Allow(c.Request.Context(), name+":"+id)
		if err != nil {
			log.Warn().Err(err).Str("route", name).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		if !allowed {
			log.Warn().Str("route", name).Str("key", id).Msg("Rate limit exceeded")
			HandleAPIError(c, apperrors.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
