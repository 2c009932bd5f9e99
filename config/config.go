// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PageVerify/verify-widget-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Widget option defaults. Caller-supplied values are overlaid on these at
// load time; the resolved WidgetConfig is never mutated afterwards.
const (
	DefaultEndpoint       = "https://example.com/api/verify-request"
	DefaultContainerID    = "verified-badge-container"
	DefaultSubmitText     = "Request Verification"
	DefaultSuccessMessage = "Request submitted successfully. Our team will review it."
	DefaultErrorMessage   = "Submission failed. Please try again later."
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	// PageFile is an optional path to a YAML host page definition. When empty
	// the built-in default page (one container) is used.
	PageFile string `mapstructure:"PAGE_FILE" yaml:"page_file"`
}

// WidgetConfig holds the resolved widget options.
type WidgetConfig struct {
	// Endpoint is the upstream URL accepted submissions are forwarded to.
	Endpoint string `mapstructure:"ENDPOINT" yaml:"endpoint"`
	// ContainerID names the host page container the form mounts into.
	ContainerID    string `mapstructure:"CONTAINER_ID" yaml:"container_id"`
	SubmitText     string `mapstructure:"SUBMIT_TEXT" yaml:"submit_text"`
	SuccessMessage string `mapstructure:"SUCCESS_MESSAGE" yaml:"success_message"`
	ErrorMessage   string `mapstructure:"ERROR_MESSAGE" yaml:"error_message"`
	// RequireFile toggles the (currently unenforced) supporting document field.
	RequireFile bool `mapstructure:"REQUIRE_FILE" yaml:"require_file"`
}

// RedisConfig holds Redis connection details for the rate limiter.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
	UseTLS   bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
}

// RateLimitConfig holds configuration for rate limiting the submit endpoint.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"ENABLED" yaml:"enabled"`
	// Maximum submissions per window per client IP
	RequestsPerWindow int `mapstructure:"REQUESTS_PER_WINDOW" yaml:"requests_per_window"`
	// Window duration in seconds
	WindowSeconds int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// EmailConfig holds configuration for the optional template e-mail delivery.
type EmailConfig struct {
	FromAddress  string `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName     string `mapstructure:"FROM_NAME" yaml:"from_name"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
}

// Enabled reports whether outbound e-mail is configured.
func (c *EmailConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.FromAddress != ""
}

// Config is the top-level application configuration, resolved once at
// startup and treated as immutable afterwards.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	Widget    WidgetConfig    `mapstructure:"WIDGET" yaml:"widget"`
	Redis     RedisConfig     `mapstructure:"REDIS" yaml:"redis"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
	Email     EmailConfig     `mapstructure:"EMAIL" yaml:"email"`
}

// LoadConfig reads configuration from environment variables, overlaying any
// supplied values onto the package defaults, and validates the result.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.PAGE_FILE", "")
	v.SetDefault("WIDGET.ENDPOINT", DefaultEndpoint)
	v.SetDefault("WIDGET.CONTAINER_ID", DefaultContainerID)
	v.SetDefault("WIDGET.SUBMIT_TEXT", DefaultSubmitText)
	v.SetDefault("WIDGET.SUCCESS_MESSAGE", DefaultSuccessMessage)
	v.SetDefault("WIDGET.ERROR_MESSAGE", DefaultErrorMessage)
	v.SetDefault("WIDGET.REQUIRE_FILE", false)
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("RATE_LIMIT.ENABLED", false)
	v.SetDefault("RATE_LIMIT.REQUESTS_PER_WINDOW", 10)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables
	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.PAGE_FILE", "PAGE_FILE"},
		// Widget config
		{"WIDGET.ENDPOINT", "WIDGET_ENDPOINT"},
		{"WIDGET.CONTAINER_ID", "WIDGET_CONTAINER_ID"},
		{"WIDGET.SUBMIT_TEXT", "WIDGET_SUBMIT_TEXT"},
		{"WIDGET.SUCCESS_MESSAGE", "WIDGET_SUCCESS_MESSAGE"},
		{"WIDGET.ERROR_MESSAGE", "WIDGET_ERROR_MESSAGE"},
		{"WIDGET.REQUIRE_FILE", "WIDGET_REQUIRE_FILE"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Rate limit config
		{"RATE_LIMIT.ENABLED", "RATE_LIMIT_ENABLED"},
		{"RATE_LIMIT.REQUESTS_PER_WINDOW", "RATE_LIMIT_REQUESTS_PER_WINDOW"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
		// Email config
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"widget_endpoint", v.GetString("WIDGET.ENDPOINT"),
		"widget_container", v.GetString("WIDGET.CONTAINER_ID"),
		"rate_limit_enabled", v.GetBool("RATE_LIMIT.ENABLED"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	// Validate AllowedOrigins format if not wildcard
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	// The upstream endpoint must be an absolute http(s) URL.
	u, err := url.Parse(cfg.Widget.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid widget endpoint '%s': %w", cfg.Widget.Endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("widget endpoint must be an absolute http or https URL, got '%s'", cfg.Widget.Endpoint)
	}
	if cfg.Widget.ContainerID == "" {
		return fmt.Errorf("widget container id is required")
	}

	if cfg.RateLimit.Enabled {
		if cfg.Redis.Address == "" {
			return fmt.Errorf("redis address is required when rate limiting is enabled")
		}
		if cfg.RateLimit.RequestsPerWindow <= 0 || cfg.RateLimit.WindowSeconds <= 0 {
			return fmt.Errorf("rate limit window and request count must be positive")
		}
	}

	if cfg.Email.ResendAPIKey != "" && cfg.Email.FromAddress == "" {
		return fmt.Errorf("email from address is required when a Resend API key is set")
	}
	if cfg.Email.ResendAPIKey == "" {
		log.Info("Resend API key not set; template e-mail delivery is disabled")
	}

	return nil
}

// bindEnvVars binds a list of (viper key, env var) pairs.
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind env var %s: %w", b[1], err)
		}
	}
	return nil
}

// containsWildcard reports whether origins includes the "*" wildcard.
func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
