package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/PageVerify/verify-widget-backend/config"
	"github.com/PageVerify/verify-widget-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRouter(limiter services.RateLimiterInterface) *gin.Engine {
	cfg := config.RateLimitConfig{
		Enabled:           true,
		RequestsPerWindow: 10,
		WindowSeconds:     60,
	}

	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/v1/requests", SubmitRateLimiter(limiter, cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "accepted"})
	})
	return r
}

func TestSubmitRateLimiter(t *testing.T) {
	window := time.Minute
	// httptest requests carry the fixed RemoteAddr 192.0.2.1
	key := "rate_limit:submit:192.0.2.1"

	t.Run("allows within limit", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		limiter := services.NewRateLimitService(db)
		mock.ExpectIncr(key).SetVal(1)
		mock.ExpectExpire(key, window).SetVal(true)

		rec := performRequest(rateLimitedRouter(limiter), http.MethodPost, "/v1/requests")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("blocks over limit", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		limiter := services.NewRateLimitService(db)
		mock.ExpectIncr(key).SetVal(11)
		mock.ExpectExpire(key, window).SetVal(true)
		mock.ExpectTTL(key).SetVal(42 * time.Second)

		rec := performRequest(rateLimitedRouter(limiter), http.MethodPost, "/v1/requests")

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "42", rec.Header().Get("Retry-After"))
	})

	t.Run("fails open on limiter error", func(t *testing.T) {
		// An unexpected command makes the mock return an error, standing in
		// for an unreachable Redis.
		db, _ := redismock.NewClientMock()
		limiter := services.NewRateLimitService(db)

		rec := performRequest(rateLimitedRouter(limiter), http.MethodPost, "/v1/requests")

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
