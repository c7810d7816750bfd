package providers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wortlupe/wortlupe/translate"
	"github.com/wortlupe/wortlupe/translate/providers"
)

func TestLibreTranslate_Registered(t *testing.T) {
	provider := translate.GetProvider("libretranslate")
	require.NotNil(t, provider)
	assert.Equal(t, "libretranslate", provider.Name())
}

func TestLibreTranslate_BuildRequest(t *testing.T) {
	p := &providers.LibreTranslateProvider{}

	req, err := p.BuildRequest(context.Background(), "http://translate.local:5000/", []string{"der", "Hund"}, "de", "en")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "http://translate.local:5000/translate", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, []any{"der", "Hund"}, payload["q"])
	assert.Equal(t, "de", payload["source"])
	assert.Equal(t, "en", payload["target"])
	assert.Equal(t, "text", payload["format"])
	assert.NotContains(t, payload, "api_key")
}

func TestLibreTranslate_BuildRequest_DefaultEndpoint(t *testing.T) {
	p := &providers.LibreTranslateProvider{}

	req, err := p.BuildRequest(context.Background(), "", []string{"der"}, "de", "en")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/translate", req.URL.String())
}

func TestLibreTranslate_BuildRequest_APIKeyFromEnv(t *testing.T) {
	t.Setenv("LIBRETRANSLATE_API_KEY", "secret123")
	p := &providers.LibreTranslateProvider{}

	req, err := p.BuildRequest(context.Background(), "", []string{"der"}, "de", "en")
	require.NoError(t, err)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "secret123", payload["api_key"])
}

func TestLibreTranslate_ParseResponse_ArrayResult(t *testing.T) {
	p := &providers.LibreTranslateProvider{}

	result, err := p.ParseResponse(
		[]byte(`{"translatedText": ["the", "dog"]}`),
		[]string{"der", "Hund"},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"der": "the", "Hund": "dog"}, result)
}

func TestLibreTranslate_ParseResponse_SingleStringResult(t *testing.T) {
	// Some deployments flatten one-element batches to a plain string.
	p := &providers.LibreTranslateProvider{}

	result, err := p.ParseResponse(
		[]byte(`{"translatedText": "the"}`),
		[]string{"der"},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"der": "the"}, result)
}

func TestLibreTranslate_ParseResponse_ShortResultList(t *testing.T) {
	p := &providers.LibreTranslateProvider{}

	result, err := p.ParseResponse(
		[]byte(`{"translatedText": ["the"]}`),
		[]string{"der", "Hund"},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"der": "the"}, result)
}

func TestLibreTranslate_ParseResponse_DropsEmptyTranslations(t *testing.T) {
	p := &providers.LibreTranslateProvider{}

	result, err := p.ParseResponse(
		[]byte(`{"translatedText": ["the", "  ", "dog"]}`),
		[]string{"der", "zu", "Hund"},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"der": "the", "Hund": "dog"}, result)
}

func TestLibreTranslate_ParseResponse_InvalidJSON(t *testing.T) {
	p := &providers.LibreTranslateProvider{}

	_, err := p.ParseResponse([]byte(`<html>error</html>`), []string{"der"})
	assert.Error(t, err)
}
