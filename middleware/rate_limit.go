package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/PageVerify/verify-widget-backend/config"
	"github.com/PageVerify/verify-widget-backend/errors"
	"github.com/PageVerify/verify-widget-backend/logger"
	"github.com/PageVerify/verify-widget-backend/services"
	"github.com/gin-gonic/gin"
)

// SubmitRateLimiter limits verification request submissions per client IP
// using a Redis-backed counting window. It complements the honeypot: the
// honeypot stops naive bots, the window stops replay floods.
//
// Redis outages must not block legitimate submissions, so limiter errors
// fail open with a warning.
func SubmitRateLimiter(rateLimiter services.RateLimiterInterface, cfg config.RateLimitConfig) gin.HandlerFunc {
	window := time.Duration(cfg.WindowSeconds) * time.Second

	return func(c *gin.Context) {
		key := fmt.Sprintf("submit:%s", c.ClientIP())

		allowed, retryAfter, err := rateLimiter.CheckLimit(
			c.Request.Context(),
			key,
			cfg.RequestsPerWindow,
			window,
		)
		if err != nil {
			logger.GetLogger().Warnw("Rate limiter unavailable, allowing request",
				"error", err, "client_ip", c.ClientIP())
			c.Next()
			return
		}

		if !allowed {
			seconds := int(retryAfter.Round(time.Second).Seconds())
			c.Header("Retry-After", strconv.Itoa(seconds))
			_ = c.Error(errors.RateLimited(retryAfter.Round(time.Second).String()))
			c.Abort()
			return
		}

		c.Next()
	}
}
