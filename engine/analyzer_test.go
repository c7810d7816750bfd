package engine_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wortlupe/wortlupe/engine"
	"github.com/wortlupe/wortlupe/token"
	"github.com/wortlupe/wortlupe/translate"
	"github.com/wortlupe/wortlupe/vocab"
)

// fakeTagger returns a canned token sequence.
type fakeTagger struct {
	tokens []token.Token
	err    error

	lastText string
}

func (f *fakeTagger) Tag(ctx context.Context, text string) ([]token.Token, error) {
	f.lastText = text
	return f.tokens, f.err
}

// fakeTranslator translates every word to "en:<word>" and records the
// requested batches.
type fakeTranslator struct {
	mu      sync.Mutex
	batches [][]string
}

func (f *fakeTranslator) TranslateBatch(ctx context.Context, words []string) (map[string]string, error) {
	f.mu.Lock()
	f.batches = append(f.batches, append([]string(nil), words...))
	f.mu.Unlock()

	result := make(map[string]string, len(words))
	for _, w := range words {
		result[w] = "en:" + w
	}
	return result, nil
}

func (f *fakeTranslator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func sentence() []token.Token {
	return []token.Token{
		{Text: "Der", Whitespace: " ", Lemma: "der", POS: "DET",
			Morph: token.Morph{token.FeatureGender: {"Masc"}, token.FeatureCase: {"Nom"}}},
		{Text: "Hund", Whitespace: "", Lemma: "Hund", POS: "NOUN",
			Morph: token.Morph{token.FeatureGender: {"Masc"}, token.FeatureCase: {"Nom"}}},
		{Text: ".", Whitespace: "", Lemma: ".", POS: "PUNCT"},
	}
}

func newAnalyzer(t *testing.T, tag *fakeTagger, translator translate.Translator) *engine.Analyzer {
	t.Helper()
	store := vocab.Open(filepath.Join(t.TempDir(), "vocab.json"))

	var fetcher *translate.Fetcher
	if translator != nil {
		fetcher = translate.NewFetcher(translator)
	}
	return engine.NewAnalyzer(tag, fetcher, store)
}

func TestAnalyzer_AnalyzeText(t *testing.T) {
	tag := &fakeTagger{tokens: sentence()}
	translator := &fakeTranslator{}
	analyzer := newAnalyzer(t, tag, translator)

	out, err := analyzer.AnalyzeText(context.Background(), "Der Hund.")
	require.NoError(t, err)

	assert.Equal(t, "Der Hund.", tag.lastText)
	assert.Contains(t, out, `data-lemma="Hund"`)
	assert.Contains(t, out, `data-trans="en:Hund"`)
	assert.Contains(t, out, `data-trans="en:der"`)
	assert.Contains(t, out, `id="sb-word"`)
}

func TestAnalyzer_TaggerErrorIsWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	tag := &fakeTagger{err: cause}
	analyzer := newAnalyzer(t, tag, &fakeTranslator{})

	_, err := analyzer.AnalyzeText(context.Background(), "Hallo")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "tagging text")
}

func TestAnalyzer_RequestsUniqueAlphabeticLemmas(t *testing.T) {
	tokens := []token.Token{
		{Text: "Der", Whitespace: " ", Lemma: "der", POS: "DET"},
		{Text: "Hund", Whitespace: " ", Lemma: "Hund", POS: "NOUN"},
		{Text: "und", Whitespace: " ", Lemma: "und", POS: "CCONJ"},
		{Text: "der", Whitespace: " ", Lemma: "der", POS: "DET"},
		{Text: "42", Whitespace: "", Lemma: "42", POS: "NUM"},
		{Text: ".", Whitespace: "", Lemma: ".", POS: "PUNCT"},
	}
	tag := &fakeTagger{tokens: tokens}
	translator := &fakeTranslator{}
	analyzer := newAnalyzer(t, tag, translator)

	_, err := analyzer.AnalyzeText(context.Background(), "Der Hund und der 42.")
	require.NoError(t, err)

	require.Equal(t, 1, translator.calls())
	assert.Equal(t, []string{"der", "Hund", "und"}, translator.batches[0])
}

func TestAnalyzer_ReusesCachedTranslations(t *testing.T) {
	tag := &fakeTagger{tokens: sentence()}
	translator := &fakeTranslator{}
	analyzer := newAnalyzer(t, tag, translator)

	_, err := analyzer.AnalyzeText(context.Background(), "Der Hund.")
	require.NoError(t, err)
	require.Equal(t, 1, translator.calls())

	// The second document needs nothing new.
	_, err = analyzer.AnalyzeText(context.Background(), "Der Hund.")
	require.NoError(t, err)
	assert.Equal(t, 1, translator.calls())
}

func TestAnalyzer_NilFetcherRendersPlaceholders(t *testing.T) {
	tag := &fakeTagger{tokens: sentence()}
	analyzer := newAnalyzer(t, tag, nil)

	out, err := analyzer.AnalyzeText(context.Background(), "Der Hund.")
	require.NoError(t, err)
	assert.Contains(t, out, `data-trans="…"`)
}

func TestAnalyzer_NilFetcherUsesExistingStore(t *testing.T) {
	tag := &fakeTagger{tokens: sentence()}
	store := vocab.Open(filepath.Join(t.TempDir(), "vocab.json"))
	store.Merge(map[string]string{"Hund": "dog"})

	analyzer := engine.NewAnalyzer(tag, nil, store)

	out, err := analyzer.AnalyzeText(context.Background(), "Der Hund.")
	require.NoError(t, err)
	assert.Contains(t, out, `data-trans="dog"`)
	assert.Contains(t, out, `data-trans="…"`)
}
