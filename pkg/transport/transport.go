// Package transport implements the HTTP collaborator for the content
// API: request construction, error classification, and retry with
// backoff. Layers above it never retry; the request cache passes
// transport errors through unchanged.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for content API requests.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_api_requests_total",
		Help: "Total content API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "content_api_request_duration_seconds",
		Help:    "Content API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_api_errors_total",
		Help: "Total content API errors by class",
	}, []string{"class"})
)

// Transport performs one idempotent read against the content API and
// returns the raw response body. Implementations own retry and timeout
// policy.
type Transport interface {
	Do(ctx context.Context, endpoint string, opts CallOptions) ([]byte, error)
}

// CallOptions carries per-call request parameters.
type CallOptions struct {
	// Query is the query parameter set; encoding sorts the keys
	Query map[string]string
}

// Client is the HTTP implementation of Transport.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ Transport = (*Client)(nil)

// Config holds the transport configuration.
type Config struct {
	// BaseURL is the content API origin (e.g., "https://api.example.org")
	BaseURL string

	// UserAgent identifies the caller
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Timeout bounds a single HTTP attempt
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		UserAgent: "content-client/1.0",
		Timeout:   30 * time.Second,
	}
}

// New creates an HTTP transport for the content API.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.With().Str("component", "transport").Logger(),
	}, nil
}

// Do performs a GET request against the content API with error
// classification and per-class retry. On 2xx it returns the response
// body; otherwise it returns an *APIError (possibly wrapped by
// ErrRetryExhausted or ErrContextCancelled).
func (c *Client) Do(ctx context.Context, endpoint string, opts CallOptions) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	reqURL := c.buildURL(endpoint, opts)

	c.logger.Debug().
		Str("endpoint", endpoint).
		Msg("Executing content API request")

	var body []byte
	err := retryWithBackoff(ctx, c.logger, func() *APIError {
		data, apiErr := c.attempt(ctx, reqURL, endpoint)
		if apiErr != nil {
			return apiErr
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

// attempt executes one HTTP request and classifies any failure.
func (c *Client) attempt(ctx context.Context, reqURL, endpoint string) ([]byte, *APIError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &APIError{
			Class:   ErrorClassNetwork,
			Message: "build request",
			Err:     err,
		}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		apiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, &APIError{
			Class:   ErrorClassNetwork,
			Message: "transport unreachable",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		apiRequestsTotal.WithLabelValues(endpoint, "read_error").Inc()
		return nil, &APIError{
			Class:   ErrorClassNetwork,
			Message: "read response body",
			Err:     err,
		}
	}

	apiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		apiErr := errorFromResponse(resp.StatusCode, data)
		apiErrorsTotal.WithLabelValues(string(apiErr.Class)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(apiErr.Class)).
			Msg("Content API request error")

		return nil, apiErr
	}

	return data, nil
}

// buildURL joins the base URL, endpoint path, and encoded query. The
// encoder sorts keys, so equal parameter sets produce equal URLs.
func (c *Client) buildURL(endpoint string, opts CallOptions) string {
	u := c.baseURL + endpoint
	if len(opts.Query) == 0 {
		return u
	}

	q := url.Values{}
	for k, v := range opts.Query {
		q.Set(k, v)
	}
	return u + "?" + q.Encode()
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Close releases idle connections held by the transport.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
