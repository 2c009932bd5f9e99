package services

import (
	"context"
	"testing"

	"github.com/PageVerify/verify-widget-backend/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailService_Enabled(t *testing.T) {
	disabled := NewEmailServiceWithRegistry(&config.EmailConfig{}, prometheus.NewRegistry())
	assert.False(t, disabled.Enabled())

	enabled := NewEmailServiceWithRegistry(&config.EmailConfig{
		FromAddress:  "widget@pageverify.example",
		FromName:     "PageVerify",
		ResendAPIKey: "re_test_key",
	}, prometheus.NewRegistry())
	assert.True(t, enabled.Enabled())
}

func TestEmailService_SendDisabled(t *testing.T) {
	service := NewEmailServiceWithRegistry(&config.EmailConfig{}, prometheus.NewRegistry())

	err := service.SendTemplateEmail(context.Background(), "owner@acme.com", "Subject: hi\n\nbody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSplitSubject(t *testing.T) {
	subject, text := splitSubject("Subject: Verification request for Facebook Page \"Acme Inc\"\n\nHello,\n\nBody here.\n")
	assert.Equal(t, `Verification request for Facebook Page "Acme Inc"`, subject)
	assert.Equal(t, "Hello,\n\nBody here.\n", text)

	subject, text = splitSubject("No subject line here\nsecond line")
	assert.Equal(t, "Facebook Page verification request", subject)
	assert.Equal(t, "No subject line here\nsecond line", text)

	subject, text = splitSubject("single line")
	assert.Equal(t, "Facebook Page verification request", subject)
	assert.Equal(t, "single line", text)
}
