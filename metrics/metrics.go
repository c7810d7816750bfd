// Package metrics defines the Prometheus collectors for the annotation
// pipeline. Collectors register on the default registry and are exposed by
// the server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wortlupe"

var (
	// DocumentsAnalyzed counts completed pipeline invocations.
	DocumentsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_analyzed_total",
		Help:      "Number of documents run through the annotation pipeline.",
	})

	// TokensRendered counts tokens emitted into rendered documents.
	TokensRendered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_rendered_total",
		Help:      "Number of tagged tokens rendered as interactive spans.",
	})

	// LemmasRequested counts unique lemmas entering translation resolution.
	LemmasRequested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lemmas_requested_total",
		Help:      "Number of unique lemmas submitted for translation resolution.",
	})

	// LemmasMissing counts lemmas not found in the vocabulary cache.
	LemmasMissing = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lemmas_missing_total",
		Help:      "Number of lemmas that required a remote translation fetch.",
	})

	// TranslateBatches counts dispatched translation batches.
	TranslateBatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "translate_batches_total",
		Help:      "Number of translation batches dispatched.",
	})

	// TranslateBatchFailures counts batches that failed wholesale.
	TranslateBatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "translate_batch_failures_total",
		Help:      "Number of translation batches that failed and contributed no results.",
	})

	// TranslateBatchDuration observes per-batch translation latency.
	TranslateBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "translate_batch_duration_seconds",
		Help:      "Wall-clock duration of translation batch calls.",
		Buckets:   prometheus.DefBuckets,
	})

	// VocabEntries tracks the size of the vocabulary cache.
	VocabEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "vocab_entries",
		Help:      "Current number of entries in the vocabulary cache.",
	})
)
