package karma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Config holds the runtime configuration for the Karma client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "karma_client_requests_total",
		Help: "Requests issued to the Karma upstream, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "karma_client_request_duration_seconds",
		Help:    "Latency of Karma upstream requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// Client handles communication with the Karma dashboard API.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new Karma client with an explicit timeout. The timeout
// bounds every upstream round-trip since no retry policy exists above it.
func NewClient(config *Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string { return c.config.BaseURL }

// FetchAlerts performs POST /alerts.json with an empty JSON body and decodes
// the full snapshot.
func (c *Client) FetchAlerts(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	reqURL := c.config.BaseURL + "/alerts.json"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fetchTotal.WithLabelValues("alerts", "error").Inc()
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	fetchDuration.WithLabelValues("alerts").Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fetchTotal.WithLabelValues("alerts", "bad_status").Inc()
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		fetchTotal.WithLabelValues("alerts", "decode_error").Inc()
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	fetchTotal.WithLabelValues("alerts", "ok").Inc()
	log.Debug().Int("grids", len(snapshot.Grids)).Msg("fetched alert snapshot from Karma")
	return &snapshot, nil
}

// Health performs GET /health and reports any non-200 response as an error.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fetchTotal.WithLabelValues("health", "error").Inc()
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fetchTotal.WithLabelValues("health", "bad_status").Inc()
		return &StatusError{Code: resp.StatusCode}
	}
	fetchTotal.WithLabelValues("health", "ok").Inc()
	return nil
}

// FetchSilences performs GET /silences.json and returns the silence list.
func (c *Client) FetchSilences(ctx context.Context) ([]Silence, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/silences.json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fetchTotal.WithLabelValues("silences", "error").Inc()
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fetchTotal.WithLabelValues("silences", "bad_status").Inc()
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var silences []Silence
	if err := json.NewDecoder(resp.Body).Decode(&silences); err != nil {
		fetchTotal.WithLabelValues("silences", "decode_error").Inc()
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	fetchTotal.WithLabelValues("silences", "ok").Inc()
	return silences, nil
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("karma returned status %d", e.Code)
}
