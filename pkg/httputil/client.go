// Package httputil provides the HTTP layer shared by all goine endpoint
// clients: a GET client with timeout, connection reuse, and automatic
// retry with capped exponential backoff for transient failures.
//
// No caching logic lives here; see package cache for that.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tmcosta/goine/pkg/ine"
)

// ErrNotFound is returned for 404 responses. It is never retried — the
// endpoint clients translate it into the domain's indicator-not-found
// error without burning retry delay first.
var ErrNotFound = errors.New("resource not found")

// StatusError reports a non-2xx HTTP status.
type StatusError struct{ Code int }

func (e *StatusError) Error() string { return fmt.Sprintf("unexpected status %d", e.Code) }

// Default client configuration.
const (
	DefaultBaseURL     = "https://www.ine.pt"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultBackoffBase = time.Second
	DefaultBackoffCap  = 30 * time.Second
	defaultUserAgent   = "goine (github.com/tmcosta/goine)"
)

// Config holds the tunables for a [Client].
// Zero values fall back to the package defaults.
type Config struct {
	BaseURL     string        // upstream base URL
	Timeout     time.Duration // per-request timeout
	MaxRetries  int           // retries after the first attempt; negative disables retries
	BackoffBase time.Duration // delay before the first retry
	BackoffCap  time.Duration // upper bound for the backoff delay
	UserAgent   string
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = DefaultBackoffBase
	}
	if c.BackoffCap <= 0 {
		c.BackoffCap = DefaultBackoffCap
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	return c
}

// Client issues GET requests against the INE API with retry and
// backoff. It is safe for concurrent use; the underlying http.Client
// reuses connections.
type Client struct {
	http   *http.Client
	cfg    Config
	logger *log.Logger
}

// NewClient creates a Client with the given configuration.
// A nil logger falls back to log.Default().
func NewClient(cfg Config, logger *log.Logger) *Client {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		http:   &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Fetch GETs endpoint with the given query parameters and returns the
// raw response body.
//
// Transient failures (transport errors, timeouts, 5xx) are retried up
// to MaxRetries times with capped exponential backoff; with N retries
// the transport sees exactly N+1 attempts. 4xx responses fail
// immediately: 404 as [ErrNotFound], everything else wrapped in an
// *ine.APIError. Exhausted retries also surface as *ine.APIError
// carrying the last observed status or transport error.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := c.cfg.BaseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var body []byte
	attempt := 0
	err := Retry(ctx, c.cfg.MaxRetries+1, c.cfg.BackoffBase, c.cfg.BackoffCap, func() error {
		attempt++
		start := time.Now()
		data, err := c.do(ctx, reqURL)
		if err != nil {
			c.logger.Debug("request failed", "url", reqURL, "attempt", attempt, "err", err)
			return err
		}
		c.logger.Debug("request completed", "url", reqURL, "attempt", attempt,
			"bytes", len(data), "elapsed", time.Since(start).Round(time.Millisecond))
		body = data
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		var se *StatusError
		status := 0
		if errors.As(err, &se) {
			status = se.Code
		}
		return nil, &ine.APIError{StatusCode: status, Err: err}
	}
	return body, nil
}

// do performs a single GET and classifies the outcome into retryable
// and terminal failures.
func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts and connection resets land here and count as transient.
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &RetryableError{Err: err}
		}
		return data, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode >= 500:
		return nil, &RetryableError{Err: &StatusError{Code: resp.StatusCode}}
	default:
		return nil, &StatusError{Code: resp.StatusCode}
	}
}
