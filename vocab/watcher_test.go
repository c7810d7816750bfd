package vocab_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wortlupe/wortlupe/vocab"
)

func startWatcher(t *testing.T, store *vocab.Store) {
	t.Helper()

	watcher, err := vocab.NewWatcher(store, vocab.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, watcher.Start(ctx))
	t.Cleanup(func() {
		cancel()
		_ = watcher.Stop()
	})
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := vocabPath(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"Hund": "dog"}`), 0644))

	store := vocab.Open(path)
	startWatcher(t, store)

	require.NoError(t, os.WriteFile(path, []byte(`{"Hund": "hound", "Katze": "cat"}`), 0644))

	require.Eventually(t, func() bool {
		_, ok := store.Lookup("Katze")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	translation, _ := store.Lookup("Hund")
	assert.Equal(t, "hound", translation)
}

func TestWatcher_ReloadsOnRenameReplace(t *testing.T) {
	// Editors typically save by writing a temp file and renaming it over
	// the original, which replaces the inode.
	path := vocabPath(t)
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	store := vocab.Open(path)
	startWatcher(t, store)

	tmp := filepath.Join(filepath.Dir(path), "vocab.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"Maus": "mouse"}`), 0644))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool {
		_, ok := store.Lookup("Maus")
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	path := vocabPath(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"Hund": "dog"}`), 0644))

	store := vocab.Open(path)
	startWatcher(t, store)

	other := filepath.Join(filepath.Dir(path), "unrelated.json")
	require.NoError(t, os.WriteFile(other, []byte(`{"Katze": "cat"}`), 0644))

	time.Sleep(100 * time.Millisecond)
	_, ok := store.Lookup("Katze")
	assert.False(t, ok)
	assert.Equal(t, 1, store.Len())
}
