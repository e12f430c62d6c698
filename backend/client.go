// Package backend is the typed client for the plugin backend's /api/v1
// surface. Every request carries a bearer credential from the token
// provider; reads retry transparently on transient failures, mutations
// retry only when rate limited. Failures come back as *StatusError so the
// caller (or Classify) can map them onto the error taxonomy.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const basePath = "/api/v1"

// Linear backoff step between retry attempts.
const backoffStep = 50 * time.Millisecond

type retryPolicy int

const (
	// retryNone issues the request exactly once.
	retryNone retryPolicy = iota
	// retryRead retries up to 2 times on a network error or 5xx. 4xx
	// responses are decisions, not transients: retrying a 404 "no room
	// yet" or a 401 only triples the latency of a settled answer.
	retryRead
	// retryMutate retries at most once, and only on 429.
	retryMutate
)

type Client struct {
	baseURL    string
	tokens     oauth2.TokenSource
	httpClient *http.Client
	logger     zerolog.Logger
	sleep      func(time.Duration)
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSleepFunc sets the backoff sleeper (primarily for testing)
func WithSleepFunc(sleep func(time.Duration)) ClientOption {
	return func(c *Client) {
		c.sleep = sleep
	}
}

func New(baseURL string, tokens oauth2.TokenSource, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
		sleep:      time.Sleep,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// do issues one backend request with the operation's fixed timeout and
// retry policy, decoding a 2xx body into out when out is non-nil. The final
// error is returned untouched so status and structured body survive.
func (c *Client) do(ctx context.Context, method, path string, body any, timeout time.Duration, policy retryPolicy, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Client do] marshal request body for %s %s", method, path)
		}
	}

	maxAttempts := 1
	switch policy {
	case retryRead:
		maxAttempts = 3
	case retryMutate:
		maxAttempts = 2
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			c.sleep(time.Duration(attempt-1) * backoffStep)
		}

		lastErr = c.doOnce(ctx, method, path, payload, timeout, out)
		if lastErr == nil {
			return nil
		}
		if !shouldRetry(policy, lastErr) {
			return lastErr
		}
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("attempt", attempt).
			Err(lastErr).
			Msg("retrying backend request")
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tok, err := c.tokens.Token()
	if err != nil {
		return errors.Wrap(err, "[Client doOnce] obtaining signed token")
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+basePath+path, reqBody)
	if err != nil {
		return errors.Wrapf(err, "[Client doOnce] building %s %s", method, path)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[Client doOnce] %s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "[Client doOnce] reading response of %s %s", method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Status: resp.StatusCode}
		if len(respBody) > 0 {
			// Best effort: a non-JSON error body still yields the status.
			_ = json.Unmarshal(respBody, statusErr)
		}
		return statusErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.Wrapf(err, "[Client doOnce] decoding response of %s %s", method, path)
		}
	}
	return nil
}

func shouldRetry(policy retryPolicy, err error) bool {
	switch policy {
	case retryRead:
		se, ok := AsStatusError(err)
		if !ok {
			return true
		}
		return se.Status >= 500
	case retryMutate:
		return IsStatus(err, http.StatusTooManyRequests)
	default:
		return false
	}
}
