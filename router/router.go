package router

import (
	"github.com/PageVerify/verify-widget-backend/config"
	"github.com/PageVerify/verify-widget-backend/handlers"
	"github.com/PageVerify/verify-widget-backend/middleware"
	"github.com/PageVerify/verify-widget-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config        *config.Config
	WidgetHandler *handlers.WidgetHandler
	HealthHandler *handlers.HealthHandler
	RateLimiter   services.RateLimiterInterface
	Logger        *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Host page with the widget mounted
	r.GET("/", deps.WidgetHandler.RenderHostPage)

	// Health and metrics routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Versioned API Group (v1)
	v1 := r.Group("/v1")
	{
		requestRoutes := v1.Group("/requests")

		// Template generation is pure and local; only the submit and e-mail
		// routes touch external systems and get rate limited.
		if deps.Config.RateLimit.Enabled && deps.RateLimiter != nil {
			limiter := middleware.SubmitRateLimiter(deps.RateLimiter, deps.Config.RateLimit)
			requestRoutes.POST("", limiter, deps.WidgetHandler.SubmitRequest)
			requestRoutes.POST("/template/email", limiter, deps.WidgetHandler.EmailTemplate)
		} else {
			requestRoutes.POST("", deps.WidgetHandler.SubmitRequest)
			requestRoutes.POST("/template/email", deps.WidgetHandler.EmailTemplate)
		}
		requestRoutes.POST("/template", deps.WidgetHandler.GenerateTemplate)
	}

	return r
}
