package tagger_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wortlupe/wortlupe/tagger"
	"github.com/wortlupe/wortlupe/token"
)

const tagPayload = `{"tokens": [
	{"text": "Der", "whitespace": " ", "lemma": "der", "pos": "DET",
	 "morph": {"Gender": ["Masc"], "Case": ["Nom"]}},
	{"text": "Hund", "whitespace": "", "lemma": "Hund", "pos": "NOUN",
	 "morph": {"Gender": ["Masc"], "Case": ["Nom"], "Number": ["Sing"]},
	 "ent_type": ""}
]}`

func TestHTTPTagger_Tag(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tagPayload))
	}))
	defer server.Close()

	tag := tagger.NewHTTPTagger(server.URL)

	tokens, err := tag.Tag(context.Background(), "Der Hund")
	require.NoError(t, err)

	assert.Equal(t, "/tag", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Der Hund", gotBody["text"])
	assert.Equal(t, tagger.DefaultModel, gotBody["model"])

	require.Len(t, tokens, 2)
	assert.Equal(t, "Der", tokens[0].Text)
	assert.Equal(t, "der", tokens[0].Lemma)
	assert.Equal(t, "DET", tokens[0].POS)
	assert.True(t, tokens[0].Morph.Has(token.FeatureGender, "Masc"))
	assert.Equal(t, "Hund", tokens[1].TextWithWhitespace())
}

func TestHTTPTagger_ModelOverride(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		_, _ = w.Write([]byte(`{"tokens": []}`))
	}))
	defer server.Close()

	tag := tagger.NewHTTPTagger(server.URL, tagger.WithModel("de_core_news_lg"))

	_, err := tag.Tag(context.Background(), "Hallo")
	require.NoError(t, err)
	assert.Equal(t, "de_core_news_lg", gotBody["model"])
}

func TestHTTPTagger_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	tag := tagger.NewHTTPTagger(server.URL)

	_, err := tag.Tag(context.Background(), "Hallo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestHTTPTagger_InvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tokens": [{`))
	}))
	defer server.Close()

	tag := tagger.NewHTTPTagger(server.URL)

	_, err := tag.Tag(context.Background(), "Hallo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing tag response")
}

func TestHTTPTagger_ConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	tag := tagger.NewHTTPTagger(endpoint)

	_, err := tag.Tag(context.Background(), "Hallo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tagging service request failed")
}
