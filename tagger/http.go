package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/wortlupe/wortlupe/token"
)

const (
	// DefaultModel is the spaCy pipeline the tagging service loads when the
	// request does not override it.
	DefaultModel = "de_core_news_md"

	// defaultTimeout bounds a single tagging request. Long documents can
	// take a while on a cold pipeline.
	defaultTimeout = 60 * time.Second

	// maxResponseSize caps the response body read (50MB).
	maxResponseSize = 50 * 1024 * 1024

	// errorSnippetSize caps how much of an error body lands in the error.
	errorSnippetSize = 512
)

// HTTPTagger talks to a tagging service over HTTP. The service accepts raw
// text and returns the annotated token sequence as JSON.
type HTTPTagger struct {
	endpoint   string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures an HTTPTagger.
type Option func(*HTTPTagger)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *HTTPTagger) {
		t.httpClient = client
	}
}

// WithModel overrides the pipeline model requested from the service.
func WithModel(model string) Option {
	return func(t *HTTPTagger) {
		t.model = model
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *HTTPTagger) {
		t.logger = logger
	}
}

// NewHTTPTagger creates a tagger client for the service at endpoint.
func NewHTTPTagger(endpoint string, opts ...Option) *HTTPTagger {
	t := &HTTPTagger{
		endpoint: endpoint,
		model:    DefaultModel,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

type tagRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type tagResponse struct {
	Tokens []token.Token `json:"tokens"`
}

// Tag sends text to the tagging service and decodes the annotated tokens.
func (t *HTTPTagger) Tag(ctx context.Context, text string) ([]token.Token, error) {
	payload, err := json.Marshal(tagRequest{Text: text, Model: t.model})
	if err != nil {
		return nil, fmt.Errorf("marshaling tag request: %w", err)
	}

	url := t.endpoint + "/tag"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating tag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tagging service request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading tag response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := body
		if len(snippet) > errorSnippetSize {
			snippet = snippet[:errorSnippetSize]
		}
		return nil, fmt.Errorf("tagging service returned status %d: %s", resp.StatusCode, snippet)
	}

	var decoded tagResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("parsing tag response: %w", err)
	}

	t.logger.Debug("tagged text",
		"model", t.model,
		"chars", len(text),
		"tokens", len(decoded.Tokens),
		"duration_ms", time.Since(start).Milliseconds())

	return decoded.Tokens, nil
}
