package translate

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wortlupe/wortlupe/metrics"
	"github.com/wortlupe/wortlupe/vocab"
)

// Defaults for batch partitioning and pool width.
const (
	DefaultBatchSize   = 50
	DefaultMaxInFlight = 10
)

// Fetcher resolves unknown lemmas against the vocabulary cache. Unknown
// lemmas are partitioned into ordered batches and dispatched concurrently on
// a bounded pool; each worker fills a private result slot, and merging
// happens only at the single-threaded join point, so the final mapping is
// deterministic regardless of batch completion order.
type Fetcher struct {
	translator  Translator
	batchSize   int
	maxInFlight int
	logger      *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithBatchSize sets the maximum lemmas per batch.
func WithBatchSize(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.batchSize = n
		}
	}
}

// WithMaxInFlight caps the number of simultaneously dispatched batches.
func WithMaxInFlight(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxInFlight = n
		}
	}
}

// WithFetcherLogger sets the logger.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a fetcher over the given translation capability.
func NewFetcher(translator Translator, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		translator:  translator,
		batchSize:   DefaultBatchSize,
		maxInFlight: DefaultMaxInFlight,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch resolves translations for every lemma not yet in the store and
// merges them in, persisting the updated cache. Lemmas already cached cause
// no network activity. A failed batch contributes an empty partial mapping
// and never affects other batches; the pipeline always proceeds with
// whatever resolved. Returns the number of newly cached entries.
func (f *Fetcher) Fetch(ctx context.Context, lemmas []string, store *vocab.Store) int {
	metrics.LemmasRequested.Add(float64(len(lemmas)))

	unknown := store.Missing(lemmas)
	if len(unknown) == 0 {
		f.logger.Debug("All lemmas found in cache", "lemmas", len(lemmas))
		return 0
	}

	metrics.LemmasMissing.Add(float64(len(unknown)))
	batches := partition(unknown, f.batchSize)

	f.logger.Info("Fetching translations",
		"unknown", len(unknown),
		"batches", len(batches),
		"max_in_flight", f.maxInFlight)

	// Each worker writes only its own slot; no shared state until the join.
	results := make([]map[string]string, len(batches))

	var g errgroup.Group
	g.SetLimit(f.maxInFlight)

	for i, batch := range batches {
		g.Go(func() error {
			start := time.Now()
			partial, err := f.translator.TranslateBatch(ctx, batch)
			metrics.TranslateBatches.Inc()
			metrics.TranslateBatchDuration.Observe(time.Since(start).Seconds())

			if err != nil {
				// Batch failures are isolated: log and substitute an
				// empty partial mapping so the other batches still land.
				metrics.TranslateBatchFailures.Inc()
				f.logger.Warn("Translation batch failed",
					"batch", i+1,
					"batches", len(batches),
					"words", len(batch),
					"error", err)
				return nil
			}

			results[i] = partial
			return nil
		})
	}

	// Join-all: block until every batch has completed or failed.
	_ = g.Wait()

	merged := make(map[string]string, len(unknown))
	for _, partial := range results {
		for lemma, translation := range partial {
			merged[lemma] = translation
		}
	}

	added := store.MergeAndPersist(merged)
	metrics.VocabEntries.Set(float64(store.Len()))

	f.logger.Info("Translations merged",
		"fetched", len(merged),
		"added", added,
		"cache_entries", store.Len())
	return added
}

// partition splits lemmas into ordered batches of at most size entries.
func partition(lemmas []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(lemmas); start += size {
		end := min(start+size, len(lemmas))
		batches = append(batches, lemmas[start:end])
	}
	return batches
}
