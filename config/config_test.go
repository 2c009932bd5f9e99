package config

import (
	"os"
	"testing"

	"github.com/PageVerify/verify-widget-backend/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	logger.InitLogger()
	os.Exit(m.Run())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DefaultEndpoint, cfg.Widget.Endpoint)
	assert.Equal(t, DefaultContainerID, cfg.Widget.ContainerID)
	assert.Equal(t, DefaultSubmitText, cfg.Widget.SubmitText)
	assert.Equal(t, DefaultSuccessMessage, cfg.Widget.SuccessMessage)
	assert.Equal(t, DefaultErrorMessage, cfg.Widget.ErrorMessage)
	assert.False(t, cfg.Widget.RequireFile)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.Email.Enabled())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WIDGET_ENDPOINT", "https://verify.pageverify.example/api/requests")
	t.Setenv("WIDGET_CONTAINER_ID", "sidebar-widget")
	t.Setenv("WIDGET_SUBMIT_TEXT", "Apply for the badge")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_REQUESTS_PER_WINDOW", "5")
	t.Setenv("REDIS_ADDRESS", "redis.internal:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://verify.pageverify.example/api/requests", cfg.Widget.Endpoint)
	assert.Equal(t, "sidebar-widget", cfg.Widget.ContainerID)
	assert.Equal(t, "Apply for the badge", cfg.Widget.SubmitText)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerWindow)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Address)
}

func TestLoadConfig_RejectsRelativeEndpoint(t *testing.T) {
	t.Setenv("WIDGET_ENDPOINT", "/api/verify-request")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute http or https URL")
}

func TestLoadConfig_RejectsNonHTTPEndpoint(t *testing.T) {
	t.Setenv("WIDGET_ENDPOINT", "ftp://example.com/upload")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_EmailRequiresFromAddress(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "re_test_key")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from address")
}

func TestLoadConfig_RateLimitValidation(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "0")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}
