// Package forwarder delivers accepted verification requests to the upstream
// review endpoint as a single JSON POST.
package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PageVerify/verify-widget-backend/logger"
	"github.com/PageVerify/verify-widget-backend/types"
	"github.com/prometheus/client_golang/prometheus"
)

// maxErrorBodyBytes caps how much of an upstream error body is kept as
// failure detail.
const maxErrorBodyBytes = 4 << 10

type Metrics struct {
	forwardLatency prometheus.Histogram
	errorCount     prometheus.Counter
	forwardedCount prometheus.Counter
}

// Client posts verification requests to a fixed upstream endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	metrics    *Metrics
}

// Option is a function that configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a forwarder client registering its metrics on the
// default Prometheus registerer.
func NewClient(endpoint string, opts ...Option) *Client {
	return NewClientWithRegistry(endpoint, prometheus.DefaultRegisterer, opts...)
}

// NewClientWithRegistry creates a forwarder client with metrics registered
// on the given registerer.
//
// The underlying HTTP client carries no timeout: a submission runs until the
// transport resolves it one way or the other, and callers re-enable the
// submit control only once that happens.
func NewClientWithRegistry(endpoint string, reg prometheus.Registerer, opts ...Option) *Client {
	metrics := &Metrics{
		forwardLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "verifywidget_forward_duration_seconds",
			Help:    "Time taken to forward verification requests upstream",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verifywidget_forward_errors_total",
			Help: "Total number of failed verification request forwards",
		}),
		forwardedCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verifywidget_forwarded_total",
			Help: "Total number of verification requests forwarded upstream",
		}),
	}

	reg.MustRegister(metrics.forwardLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.forwardedCount)

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		metrics:    metrics,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Endpoint returns the upstream URL this client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Forward sends the submission record as a JSON POST. A non-2xx response is
// a failure carrying the readable response body as detail; a transport error
// is a failure with no detail. No retry is attempted.
func (c *Client) Forward(ctx context.Context, req types.VerificationRequest) error {
	log := logger.GetLogger()
	startTime := time.Now()
	defer func() {
		c.metrics.forwardLatency.Observe(time.Since(startTime).Seconds())
	}()

	jsonData, err := json.Marshal(req)
	if err != nil {
		c.metrics.errorCount.Inc()
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		c.metrics.errorCount.Inc()
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.Debugw("Forwarding verification request", "endpoint", c.endpoint)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.errorCount.Inc()
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	log.Debugw("Upstream response received", "statusCode", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.errorCount.Inc()
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if readErr == nil && len(body) > 0 {
			return fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	c.metrics.forwardedCount.Inc()
	return nil
}
