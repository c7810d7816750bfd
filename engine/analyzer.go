// Package engine wires the analysis pipeline together: tag raw text, fill
// the vocabulary with any missing translations, and render the annotated
// reading view.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wortlupe/wortlupe/metrics"
	"github.com/wortlupe/wortlupe/render"
	"github.com/wortlupe/wortlupe/tagger"
	"github.com/wortlupe/wortlupe/token"
	"github.com/wortlupe/wortlupe/translate"
	"github.com/wortlupe/wortlupe/vocab"
)

// Analyzer runs the full pipeline for one document at a time. The vocabulary
// store is shared across runs, so translations fetched for one document are
// reused by the next.
type Analyzer struct {
	tagger  tagger.Tagger
	fetcher *translate.Fetcher
	store   *vocab.Store
	logger  *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer creates an analyzer over the given tagger, translation
// fetcher, and vocabulary store. The fetcher may be nil, in which case no
// translations are fetched and rendering falls back to whatever the store
// already holds.
func NewAnalyzer(tag tagger.Tagger, fetcher *translate.Fetcher, store *vocab.Store, opts ...Option) *Analyzer {
	a := &Analyzer{
		tagger:  tag,
		fetcher: fetcher,
		store:   store,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Store exposes the shared vocabulary store.
func (a *Analyzer) Store() *vocab.Store {
	return a.store
}

// AnalyzeText tags raw text and renders the reading view. The only error
// source is the tagging service; translation failures degrade to placeholder
// meanings instead of failing the document.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (string, error) {
	tokens, err := a.tagger.Tag(ctx, text)
	if err != nil {
		return "", fmt.Errorf("tagging text: %w", err)
	}
	return a.AnalyzeTokens(ctx, tokens), nil
}

// AnalyzeTokens fills the vocabulary for an already-tagged token sequence
// and renders it. Lemma collection keeps first-appearance order, so batch
// composition is stable for a given document.
func (a *Analyzer) AnalyzeTokens(ctx context.Context, tokens []token.Token) string {
	lemmas := collectLemmas(tokens)

	if a.fetcher != nil && len(lemmas) > 0 {
		added := a.fetcher.Fetch(ctx, lemmas, a.store)
		a.logger.Debug("vocabulary updated",
			"lemmas", len(lemmas),
			"added", added,
			"total", a.store.Len())
	}

	doc := render.Document(tokens, a.store)

	metrics.DocumentsAnalyzed.Inc()
	metrics.TokensRendered.Add(float64(len(tokens)))

	return doc
}

// collectLemmas gathers the unique lemmas of alphabetic tokens, preserving
// the order of first appearance.
func collectLemmas(tokens []token.Token) []string {
	seen := make(map[string]bool, len(tokens))
	lemmas := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.Alphabetic() || tok.Lemma == "" {
			continue
		}
		if seen[tok.Lemma] {
			continue
		}
		seen[tok.Lemma] = true
		lemmas = append(lemmas, tok.Lemma)
	}
	return lemmas
}
