package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PageVerify/verify-widget-backend/config"
	"github.com/PageVerify/verify-widget-backend/handlers"
	"github.com/PageVerify/verify-widget-backend/logger"
	"github.com/PageVerify/verify-widget-backend/pkg/forwarder"
	"github.com/PageVerify/verify-widget-backend/router"
	"github.com/PageVerify/verify-widget-backend/services"
	"github.com/PageVerify/verify-widget-backend/widget"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Resolve the host page the widget mounts into
	page := widget.DefaultPage()
	if cfg.Server.PageFile != "" {
		page, err = widget.LoadPage(cfg.Server.PageFile)
		if err != nil {
			log.Fatalf("Failed to load host page definition: %v", err)
		}
	}

	// Mount the widget. A missing container is a configuration error: the
	// widget logs it and refuses to mount, and without a mounted widget the
	// service has nothing to serve.
	forwarderClient := forwarder.NewClient(cfg.Widget.Endpoint)
	w := widget.Mount(page, cfg.Widget, widget.WithForwarder(forwarderClient))
	if w == nil {
		log.Fatalf("Widget failed to mount into container %q", cfg.Widget.ContainerID)
	}

	// Redis backs the optional submit rate limiter
	var redisClient *redis.Client
	var rateLimiter services.RateLimiterInterface
	if cfg.RateLimit.Enabled {
		redisOptions := &redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		if cfg.Redis.UseTLS {
			redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(redisOptions)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warnw("Redis unreachable at startup; rate limiting will fail open", "error", err)
		}
		cancel()

		rateLimiter = services.NewRateLimitService(redisClient)
	}

	// Optional template e-mail delivery
	var emailSender services.EmailSender
	if cfg.Email.Enabled() {
		emailSender = services.NewEmailService(&cfg.Email)
	}

	healthService := services.NewHealthService(redisClient, cfg.Widget.Endpoint, cfg.Server.Version)

	deps := router.Dependencies{
		Config:        cfg,
		WidgetHandler: handlers.NewWidgetHandler(w, page, emailSender),
		HealthHandler: handlers.NewHealthHandler(healthService),
		RateLimiter:   rateLimiter,
		Logger:        log,
	}

	r := router.SetupRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"endpoint", cfg.Widget.Endpoint)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}

	w.Destroy()
	log.Info("Server exited")
}
