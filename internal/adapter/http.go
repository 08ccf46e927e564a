package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// HTTPClient defines an interface for HTTP client operations to enable mocking
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// PostJSON posts body as JSON and decodes a 2xx response into result
	PostJSON(ctx context.Context, url string, body interface{}, result interface{}) error

	// Post sends an already encoded JSON body with extra headers and returns the 2xx response body
	Post(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error)
}

// StatusError is returned for a non-retryable HTTP status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// RetryConfig configures the exponential backoff of HTTP requests
type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryConfig keeps retries well inside a proof collection deadline
var DefaultRetryConfig = RetryConfig{
	InitialInterval: 200 * time.Millisecond,
	MaxInterval:     2 * time.Second,
	MaxElapsedTime:  10 * time.Second,
}

// RealHTTPClient implements HTTPClient using the standard http package
type RealHTTPClient struct {
	client *http.Client
	retry  RetryConfig
	logger *zap.Logger
}

// NewHTTPClient creates a new real HTTP client
func NewHTTPClient(timeout time.Duration, retry RetryConfig, logger *zap.Logger) HTTPClient {
	return &RealHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		retry:  retry,
		logger: logger,
	}
}

// doRequestWithRetry executes an HTTP request with exponential backoff.
// Transport errors, 429 and 5xx are retried; any other non-2xx status is permanent.
func (c *RealHTTPClient) doRequestWithRetry(ctx context.Context, newRequest func() (*http.Request, error)) ([]byte, error) {
	var respBody []byte

	operation := func() error {
		req, err := newRequest()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				c.logger.Warn("failed to close response body", zap.Error(err), zap.String("url", req.URL.String()))
			}
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		switch {
		case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
			respBody = body
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			c.logger.Debug("retryable response", zap.Int("status", resp.StatusCode), zap.String("url", req.URL.String()))
			return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		default:
			return backoff.Permanent(&StatusError{StatusCode: resp.StatusCode, Body: string(body)})
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry.InitialInterval
	b.MaxInterval = c.retry.MaxInterval
	b.MaxElapsedTime = c.retry.MaxElapsedTime
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", err)
	}

	return respBody, nil
}

// PostJSON posts body as JSON and decodes a 2xx response into result
func (c *RealHTTPClient) PostJSON(ctx context.Context, url string, body interface{}, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	respBody, err := c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Post sends an already encoded JSON body with extra headers and returns the 2xx response body
func (c *RealHTTPClient) Post(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error) {
	return c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	})
}
