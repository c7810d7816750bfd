package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/wortlupe/wortlupe/translate"
)

// LibreTranslateProvider implements the LibreTranslate API. LibreTranslate
// is self-hostable, which makes it the default provider for local setups.
type LibreTranslateProvider struct{}

// defaultLibreTranslateEndpoint is the standard local deployment address.
const defaultLibreTranslateEndpoint = "http://localhost:5000"

func init() {
	translate.RegisterProvider(&LibreTranslateProvider{})
}

// Name returns the provider identifier.
func (p *LibreTranslateProvider) Name() string {
	return "libretranslate"
}

// libreTranslateRequest is the LibreTranslate API request format. The q
// field carries the full word batch; LibreTranslate translates array inputs
// element-wise.
type libreTranslateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
	APIKey string   `json:"api_key,omitempty"`
}

// BuildRequest constructs the LibreTranslate batch request.
func (p *LibreTranslateProvider) BuildRequest(ctx context.Context, endpoint string, words []string, sourceLang, targetLang string) (*http.Request, error) {
	if endpoint == "" {
		endpoint = defaultLibreTranslateEndpoint
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	body, err := json.Marshal(libreTranslateRequest{
		Q:      words,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
		APIKey: os.Getenv("LIBRETRANSLATE_API_KEY"),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/translate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// libreTranslateResponse is the array-input response format.
type libreTranslateResponse struct {
	TranslatedText []string `json:"translatedText"`
}

// libreTranslateSingleResponse is the response format for single-string
// inputs, kept for servers that flatten one-element batches.
type libreTranslateSingleResponse struct {
	TranslatedText string `json:"translatedText"`
}

// ParseResponse aligns translated texts with the submitted words by index.
func (p *LibreTranslateProvider) ParseResponse(body []byte, words []string) (map[string]string, error) {
	var resp libreTranslateResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.TranslatedText != nil {
		return zipWords(words, resp.TranslatedText), nil
	}

	var single libreTranslateSingleResponse
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return zipWords(words, []string{single.TranslatedText}), nil
}
