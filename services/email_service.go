package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PageVerify/verify-widget-backend/config"
	"github.com/PageVerify/verify-widget-backend/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

// EmailSender delivers a generated verification request template by e-mail.
type EmailSender interface {
	Enabled() bool
	SendTemplateEmail(ctx context.Context, to string, body string) error
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService sends generated templates through Resend so users can have
// the prepared e-mail delivered to their own inbox instead of copying it.
type EmailService struct {
	config  *config.EmailConfig
	client  *resend.Client
	metrics *EmailMetrics
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"from", cfg.FromAddress, "enabled", cfg.Enabled())
	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "verifywidget_email_send_duration_seconds",
			Help:    "Time taken to send template emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verifywidget_email_errors_total",
			Help: "Total number of template email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verifywidget_emails_sent_total",
			Help: "Total number of template emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:  cfg,
		client:  client,
		metrics: metrics,
	}
}

// Enabled reports whether outbound delivery is configured.
func (s *EmailService) Enabled() bool {
	return s.config.Enabled()
}

// SendTemplateEmail sends the generated template text to the given address.
// The template's leading "Subject:" line becomes the e-mail subject; the
// remainder is sent as the plain-text body.
func (s *EmailService) SendTemplateEmail(ctx context.Context, to string, body string) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	if !s.Enabled() {
		s.metrics.errorCount.Inc()
		return fmt.Errorf("email delivery is not configured")
	}

	subject, text := splitSubject(body)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{to},
		Subject: subject,
		Text:    text,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send template email",
			"error", err,
			"to", logger.MaskEmail(to))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Template email sent",
		"email_id", sent.Id,
		"to", logger.MaskEmail(to))
	return nil
}

// splitSubject separates a leading "Subject: ..." line from the body text.
// Templates without one fall back to a generic subject.
func splitSubject(body string) (subject, text string) {
	subject = "Facebook Page verification request"
	text = body

	line, rest, found := strings.Cut(body, "\n")
	if !found {
		return subject, text
	}
	if s, ok := strings.CutPrefix(line, "Subject: "); ok {
		subject = strings.TrimSpace(s)
		text = strings.TrimLeft(rest, "\n")
	}
	return subject, text
}
