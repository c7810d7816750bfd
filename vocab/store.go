// Package vocab implements the persistent vocabulary cache: a lemma to
// translation mapping stored as a single JSON document. The cache is
// append-only across its lifetime (entries are never evicted) and every
// persist writes the full mapping back to disk.
package vocab

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store is the vocabulary cache. A missing or corrupt file yields an empty
// cache, never an error. The store is safe for concurrent use so one instance
// can back concurrent renders.
type Store struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open loads the vocabulary cache from path. A missing file starts an empty
// cache; an unreadable or undecodable file is logged and also starts empty.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		logger:  slog.Default(),
		entries: make(map[string]string),
	}

	for _, opt := range opts {
		opt(s)
	}

	loaded, err := readFile(path)
	switch {
	case os.IsNotExist(err):
		s.logger.Debug("Vocabulary file not found, starting empty", "path", path)
	case err != nil:
		s.logger.Warn("Could not load vocabulary, starting empty",
			"path", path,
			"error", err)
	default:
		s.entries = loaded
		s.logger.Debug("Vocabulary loaded", "path", path, "entries", len(loaded))
	}

	return s
}

// readFile reads and decodes one vocabulary JSON document.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	return entries, nil
}

// Path returns the durable storage path.
func (s *Store) Path() string {
	return s.path
}

// Lookup returns the translation for a lemma.
func (s *Store) Lookup(lemma string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.entries[lemma]
	return t, ok
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a copy of the full mapping.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Missing filters lemmas down to those not yet cached, preserving input
// order.
func (s *Store) Missing(lemmas []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []string
	for _, lemma := range lemmas {
		if _, ok := s.entries[lemma]; !ok {
			missing = append(missing, lemma)
		}
	}
	return missing
}

// Merge unions batch results into the cache. Existing keys are never
// overwritten. Returns the number of newly added entries.
func (s *Store) Merge(batch map[string]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeLocked(batch)
}

func (s *Store) mergeLocked(batch map[string]string) int {
	added := 0
	for lemma, translation := range batch {
		if _, ok := s.entries[lemma]; ok {
			continue
		}
		s.entries[lemma] = translation
		added++
	}
	return added
}

// MergeAndPersist merges batch results and writes the full mapping back to
// durable storage. A write failure is logged and swallowed: the in-memory
// state remains usable for the current render. Returns the number of newly
// added entries.
func (s *Store) MergeAndPersist(batch map[string]string) int {
	s.mu.Lock()
	added := s.mergeLocked(batch)
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Could not encode vocabulary", "error", err)
		return added
	}
	if err := s.writeFile(data); err != nil {
		s.logger.Warn("Could not save vocabulary",
			"path", s.path,
			"error", err)
		return added
	}

	s.logger.Debug("Vocabulary saved", "path", s.path, "added", added)
	return added
}

// Save writes the current mapping to durable storage.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()

	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}
	if err := s.writeFile(data); err != nil {
		return fmt.Errorf("write vocabulary: %w", err)
	}
	return nil
}

// writeFile overwrites the vocabulary document wholesale.
func (s *Store) writeFile(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Reload re-reads the vocabulary file and overlays its entries onto the
// in-memory mapping. File entries win per key, so hand-corrected
// translations take effect in a running process; entries present only in
// memory are kept. Returns the number of entries read from the file.
func (s *Store) Reload() (int, error) {
	loaded, err := readFile(s.path)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	for lemma, translation := range loaded {
		s.entries[lemma] = translation
	}
	s.mu.Unlock()

	return len(loaded), nil
}
