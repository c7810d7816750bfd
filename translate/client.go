// Package translate resolves unknown lemmas through an external translation
// service. It provides a provider-agnostic batch client with retry support
// and a concurrent fetcher that fans batches out over a bounded worker pool
// and merges the results into the vocabulary cache.
package translate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// maxResponseSize limits the translation response body to prevent memory
// exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Default language pair for the reading pipeline.
const (
	DefaultSourceLang = "de"
	DefaultTargetLang = "en"
)

// Translator is the external translation capability: one ordered word batch
// in, a word→translation mapping out. The key set of the result need not
// cover the input; a wholesale failure is reported as an error and treated
// as an empty mapping at the fetch boundary.
type Translator interface {
	TranslateBatch(ctx context.Context, words []string) (map[string]string, error)
}

// Client is a provider-agnostic translation client with retry support.
type Client struct {
	provider    Provider
	endpoint    string
	sourceLang  string
	targetLang  string
	httpClient  *http.Client
	retryConfig RetryConfig
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(client *Client) {
		client.retryConfig = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// WithEndpoint overrides the provider's default service endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(client *Client) {
		client.endpoint = endpoint
	}
}

// WithLangs sets the source and target language codes.
func WithLangs(source, target string) ClientOption {
	return func(client *Client) {
		if source != "" {
			client.sourceLang = source
		}
		if target != "" {
			client.targetLang = target
		}
	}
}

// NewClient creates a translation client for a registered provider.
func NewClient(providerName string, opts ...ClientOption) (*Client, error) {
	provider := GetProvider(providerName)
	if provider == nil {
		return nil, fmt.Errorf("unknown translation provider: %s (registered: %v)",
			providerName, ListProviders())
	}

	c := &Client{
		provider:    provider,
		sourceLang:  DefaultSourceLang,
		targetLang:  DefaultTargetLang,
		retryConfig: DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// TranslateBatch translates one word batch, retrying transient failures.
// An empty batch returns an empty mapping without a network call.
func (c *Client) TranslateBatch(ctx context.Context, words []string) (map[string]string, error) {
	if len(words) == 0 {
		return map[string]string{}, nil
	}

	// Request ID correlates the retry attempts of one batch in logs.
	requestID := uuid.New().String()

	var lastErr error
	for attempt := 1; attempt <= c.retryConfig.MaxAttempts; attempt++ {
		result, err := c.doRequest(ctx, words)
		if err == nil {
			c.logger.Debug("Batch translated",
				"request_id", requestID,
				"provider", c.provider.Name(),
				"words", len(words),
				"translated", len(result),
				"attempt", attempt)
			return result, nil
		}

		lastErr = err

		// Don't retry fatal errors
		if IsFatal(err) {
			return nil, err
		}

		if attempt < c.retryConfig.MaxAttempts {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debug("Batch failed, retrying",
				"request_id", requestID,
				"attempt", attempt,
				"max_attempts", c.retryConfig.MaxAttempts,
				"backoff", backoff,
				"error", err)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				// Continue to retry
			}
		}
	}

	return nil, lastErr
}

// calculateBackoff computes exponential backoff duration with jitter.
// Jitter prevents thundering herd when concurrent batches retry together.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= c.retryConfig.BackoffMultiplier
	}

	backoff := time.Duration(float64(c.retryConfig.BackoffBase) * multiplier)
	if backoff > c.retryConfig.MaxBackoff {
		backoff = c.retryConfig.MaxBackoff
	}

	// Add jitter: +/- 25% to prevent synchronized retries
	jitter := float64(backoff) * 0.25 * (rand.Float64()*2 - 1)
	return backoff + time.Duration(jitter)
}

// doRequest executes a single HTTP request to the translation service.
func (c *Client) doRequest(ctx context.Context, words []string) (map[string]string, error) {
	httpReq, err := c.provider.BuildRequest(ctx, c.endpoint, words, c.sourceLang, c.targetLang)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request: %w", err))
	}

	c.logger.Debug("Sending translation request",
		"provider", c.provider.Name(),
		"url", httpReq.URL.Host,
		"words", len(words))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network errors are transient
		return nil, NewTransientError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	// Read response body with size limit to prevent memory exhaustion
	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	result, err := c.provider.ParseResponse(respBody, words)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("parse %s response: %w", c.provider.Name(), err))
	}
	return result, nil
}

// classifyHTTPError determines if an HTTP error is transient or fatal.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("translation API error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		// Rate limiting is transient
		return NewTransientError(err)
	case statusCode >= 500:
		// Server errors are transient
		return NewTransientError(err)
	case statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden:
		// Auth errors are fatal
		return NewFatalError(err)
	case statusCode == http.StatusBadRequest:
		// Bad requests are fatal
		return NewFatalError(err)
	default:
		// Unknown errors default to fatal
		return NewFatalError(err)
	}
}
