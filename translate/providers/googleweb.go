package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/wortlupe/wortlupe/translate"
)

// GoogleWebProvider implements the unofficial Google Translate web endpoint
// (client=gtx). It needs no API key but offers no stability guarantees, so
// parsing is deliberately tolerant: segments that cannot be matched back to
// a submitted word are skipped rather than failing the batch.
type GoogleWebProvider struct{}

// defaultGoogleWebEndpoint is the public web translation host.
const defaultGoogleWebEndpoint = "https://translate.googleapis.com"

func init() {
	translate.RegisterProvider(&GoogleWebProvider{})
}

// Name returns the provider identifier.
func (p *GoogleWebProvider) Name() string {
	return "googleweb"
}

// BuildRequest constructs the web endpoint query. Words are joined with
// newlines; the service translates each line as its own segment.
func (p *GoogleWebProvider) BuildRequest(ctx context.Context, endpoint string, words []string, sourceLang, targetLang string) (*http.Request, error) {
	if endpoint == "" {
		endpoint = defaultGoogleWebEndpoint
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", sourceLang)
	query.Set("tl", targetLang)
	query.Set("dt", "t")
	query.Set("q", strings.Join(words, "\n"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		endpoint+"/translate_a/single?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	// The web endpoint rejects requests without a browser-like agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	return req, nil
}

// ParseResponse walks the endpoint's nested-array payload. The first element
// is a list of segments, each [translatedText, sourceText, ...]; segments
// map back to input lines by their source text.
func (p *GoogleWebProvider) ParseResponse(body []byte, words []string) (map[string]string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty response payload")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected payload shape")
	}

	// Source line → translated line, both trimmed of the newline joiners.
	bySource := make(map[string]string, len(segments))
	for _, raw := range segments {
		segment, ok := raw.([]any)
		if !ok || len(segment) < 2 {
			continue
		}
		translated, ok := segment[0].(string)
		if !ok {
			continue
		}
		source, ok := segment[1].(string)
		if !ok {
			continue
		}

		translated = strings.TrimSpace(translated)
		source = strings.TrimSpace(source)
		if source == "" || translated == "" {
			continue
		}
		bySource[source] = translated
	}

	result := make(map[string]string, len(words))
	for _, word := range words {
		if translated, ok := bySource[word]; ok {
			result[word] = translated
		}
	}
	return result, nil
}
