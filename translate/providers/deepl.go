package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/wortlupe/wortlupe/translate"
)

// DeepLProvider implements the DeepL v2 API. Requires an auth key in the
// DEEPL_AUTH_KEY environment variable.
type DeepLProvider struct{}

// defaultDeepLEndpoint is the free-tier API host; paid accounts override it
// with https://api.deepl.com.
const defaultDeepLEndpoint = "https://api-free.deepl.com"

func init() {
	translate.RegisterProvider(&DeepLProvider{})
}

// Name returns the provider identifier.
func (p *DeepLProvider) Name() string {
	return "deepl"
}

// BuildRequest constructs the DeepL form-encoded batch request. Each word
// goes into its own repeated text parameter; DeepL returns translations
// aligned with the parameter order.
func (p *DeepLProvider) BuildRequest(ctx context.Context, endpoint string, words []string, sourceLang, targetLang string) (*http.Request, error) {
	if endpoint == "" {
		endpoint = defaultDeepLEndpoint
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	form := url.Values{}
	for _, word := range words {
		form.Add("text", word)
	}
	form.Set("source_lang", strings.ToUpper(sourceLang))
	form.Set("target_lang", strings.ToUpper(targetLang))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v2/translate",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if key := os.Getenv("DEEPL_AUTH_KEY"); key != "" {
		req.Header.Set("Authorization", "DeepL-Auth-Key "+key)
	}
	return req, nil
}

// deepLResponse is the DeepL API response format.
type deepLResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// ParseResponse aligns translations with the submitted words by index.
func (p *DeepLProvider) ParseResponse(body []byte, words []string) (map[string]string, error) {
	var resp deepLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	texts := make([]string, len(resp.Translations))
	for i, t := range resp.Translations {
		texts[i] = t.Text
	}
	return zipWords(words, texts), nil
}
