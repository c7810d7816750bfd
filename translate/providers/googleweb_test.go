package providers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wortlupe/wortlupe/translate"
	"github.com/wortlupe/wortlupe/translate/providers"
)

func TestGoogleWeb_Registered(t *testing.T) {
	provider := translate.GetProvider("googleweb")
	require.NotNil(t, provider)
	assert.Equal(t, "googleweb", provider.Name())
}

func TestGoogleWeb_BuildRequest(t *testing.T) {
	p := &providers.GoogleWebProvider{}

	req, err := p.BuildRequest(context.Background(), "", []string{"der", "Hund"}, "de", "en")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "translate.googleapis.com", req.URL.Host)
	assert.Equal(t, "/translate_a/single", req.URL.Path)

	query := req.URL.Query()
	assert.Equal(t, "gtx", query.Get("client"))
	assert.Equal(t, "de", query.Get("sl"))
	assert.Equal(t, "en", query.Get("tl"))
	assert.Equal(t, "t", query.Get("dt"))
	assert.Equal(t, "der\nHund", query.Get("q"))

	assert.Contains(t, req.Header.Get("User-Agent"), "Mozilla/5.0")
}

func TestGoogleWeb_ParseResponse(t *testing.T) {
	p := &providers.GoogleWebProvider{}

	// Segment sources come back with the newline joiners still attached.
	body := `[[["the\n","der\n",null,null,1],["dog","Hund",null,null,1]],null,"de"]`

	result, err := p.ParseResponse([]byte(body), []string{"der", "Hund"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"der": "the", "Hund": "dog"}, result)
}

func TestGoogleWeb_ParseResponse_SkipsUnmatchedSegments(t *testing.T) {
	p := &providers.GoogleWebProvider{}

	// The endpoint sometimes splits or rejoins lines; segments whose source
	// is not a submitted word are dropped instead of failing the batch.
	body := `[[["the\n","der\n"],["dog house","Hundehütte"],[null,null]],null,"de"]`

	result, err := p.ParseResponse([]byte(body), []string{"der", "Hund"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"der": "the"}, result)
}

func TestGoogleWeb_ParseResponse_EmptyPayload(t *testing.T) {
	p := &providers.GoogleWebProvider{}

	_, err := p.ParseResponse([]byte(`[]`), []string{"der"})
	assert.Error(t, err)
}

func TestGoogleWeb_ParseResponse_UnexpectedShape(t *testing.T) {
	p := &providers.GoogleWebProvider{}

	_, err := p.ParseResponse([]byte(`["not-a-segment-list"]`), []string{"der"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected payload shape")
}

func TestGoogleWeb_ParseResponse_InvalidJSON(t *testing.T) {
	p := &providers.GoogleWebProvider{}

	_, err := p.ParseResponse([]byte(`<html>captcha</html>`), []string{"der"})
	assert.Error(t, err)
}
