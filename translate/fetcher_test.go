package translate_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wortlupe/wortlupe/translate"
	"github.com/wortlupe/wortlupe/vocab"
)

// fakeTranslator records the batches it receives and translates every word
// to "en:<word>". fail selects batches that should error.
type fakeTranslator struct {
	mu      sync.Mutex
	batches [][]string

	fail  func(batch []string) bool
	delay time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeTranslator) TranslateBatch(ctx context.Context, words []string) (map[string]string, error) {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		observed := f.maxInFlight.Load()
		if current <= observed || f.maxInFlight.CompareAndSwap(observed, current) {
			break
		}
	}

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.batches = append(f.batches, slices.Clone(words))
	f.mu.Unlock()

	if f.fail != nil && f.fail(words) {
		return nil, errors.New("translation service exploded")
	}

	result := make(map[string]string, len(words))
	for _, w := range words {
		result[w] = "en:" + w
	}
	return result, nil
}

func (f *fakeTranslator) recordedBatches() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.batches)
}

func newTestStore(t *testing.T) *vocab.Store {
	t.Helper()
	return vocab.Open(filepath.Join(t.TempDir(), "vocab.json"))
}

func lemmaList(n int) []string {
	lemmas := make([]string, n)
	for i := range lemmas {
		lemmas[i] = fmt.Sprintf("wort%03d", i)
	}
	return lemmas
}

func TestFetcher_AllCachedSkipsTranslation(t *testing.T) {
	store := newTestStore(t)
	store.Merge(map[string]string{"Hund": "dog", "Katze": "cat"})

	fake := &fakeTranslator{}
	fetcher := translate.NewFetcher(fake)

	added := fetcher.Fetch(context.Background(), []string{"Hund", "Katze"}, store)
	assert.Equal(t, 0, added)
	assert.Empty(t, fake.recordedBatches())
}

func TestFetcher_PartitionsInOrder(t *testing.T) {
	store := newTestStore(t)
	lemmas := lemmaList(120)

	fake := &fakeTranslator{}
	fetcher := translate.NewFetcher(fake, translate.WithBatchSize(50))

	added := fetcher.Fetch(context.Background(), lemmas, store)
	assert.Equal(t, 120, added)

	batches := fake.recordedBatches()
	require.Len(t, batches, 3)

	sizes := []int{len(batches[0]), len(batches[1]), len(batches[2])}
	slices.Sort(sizes)
	assert.Equal(t, []int{20, 50, 50}, sizes)

	// Each batch is a contiguous run of the input, in input order.
	for _, batch := range batches {
		start := slices.Index(lemmas, batch[0])
		require.GreaterOrEqual(t, start, 0)
		assert.Equal(t, lemmas[start:start+len(batch)], batch)
	}

	for _, lemma := range lemmas {
		translation, ok := store.Lookup(lemma)
		require.True(t, ok, lemma)
		assert.Equal(t, "en:"+lemma, translation)
	}
}

func TestFetcher_FailedBatchIsIsolated(t *testing.T) {
	store := newTestStore(t)
	lemmas := []string{"alpha", "beta", "fehler", "delta", "epsilon"}

	fake := &fakeTranslator{
		fail: func(batch []string) bool {
			return slices.Contains(batch, "fehler")
		},
	}
	fetcher := translate.NewFetcher(fake, translate.WithBatchSize(2))

	// Batches: [alpha beta] [fehler delta] [epsilon]; the middle one fails.
	added := fetcher.Fetch(context.Background(), lemmas, store)
	assert.Equal(t, 3, added)

	for _, lemma := range []string{"alpha", "beta", "epsilon"} {
		_, ok := store.Lookup(lemma)
		assert.True(t, ok, lemma)
	}
	for _, lemma := range []string{"fehler", "delta"} {
		_, ok := store.Lookup(lemma)
		assert.False(t, ok, lemma)
	}

	// The next document retries only what is still missing.
	fake.fail = nil
	recorded := len(fake.recordedBatches())

	added = fetcher.Fetch(context.Background(), lemmas, store)
	assert.Equal(t, 2, added)

	batches := fake.recordedBatches()[recorded:]
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"fehler", "delta"}, batches[0])
}

func TestFetcher_DeterministicAcrossRuns(t *testing.T) {
	lemmas := lemmaList(75)

	run := func() map[string]string {
		store := newTestStore(t)
		fetcher := translate.NewFetcher(&fakeTranslator{},
			translate.WithBatchSize(10),
			translate.WithMaxInFlight(4),
		)
		fetcher.Fetch(context.Background(), lemmas, store)
		return store.Snapshot()
	}

	assert.Equal(t, run(), run())
}

func TestFetcher_RespectsMaxInFlight(t *testing.T) {
	store := newTestStore(t)
	lemmas := lemmaList(10)

	fake := &fakeTranslator{delay: 20 * time.Millisecond}
	fetcher := translate.NewFetcher(fake,
		translate.WithBatchSize(1),
		translate.WithMaxInFlight(2),
	)

	fetcher.Fetch(context.Background(), lemmas, store)

	assert.LessOrEqual(t, fake.maxInFlight.Load(), int32(2))
	assert.Len(t, fake.recordedBatches(), 10)
}

func TestFetcher_PersistsMergedResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.json")
	store := vocab.Open(path)

	fetcher := translate.NewFetcher(&fakeTranslator{})
	fetcher.Fetch(context.Background(), []string{"Hund"}, store)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	persisted := make(map[string]string)
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, map[string]string{"Hund": "en:Hund"}, persisted)
}
