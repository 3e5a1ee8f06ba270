package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/triplog/triplog-backend/services"
)

// APIRateLimiter enforces a per-minute request budget per caller, keyed by
// authenticated user when available and client IP otherwise.
func APIRateLimiter(rateLimiter services.RateLimiterInterface, requestsPerMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := rateLimitIdentifier(c)

		key := fmt.Sprintf("api:minute:%s", identifier)
		allowed, retryAfter, err := rateLimiter.CheckLimit(
			c.Request.Context(), key, requestsPerMinute, time.Minute)
		if err != nil {
			// Redis being down must not take the API with it.
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.Header("X-RateLimit-Limit", strconv.Itoa(requestsPerMinute))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(retryAfter.Seconds()),
			})
			return
		}

		c.Next()
	}
}

func rateLimitIdentifier(c *gin.Context) string {
	if userID := c.GetString(UserIDKey); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}
