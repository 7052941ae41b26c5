package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
)

// FileCache is one tool's directory of cache records, addressed by key.
type FileCache struct {
	dir string
}

// NewFileCache returns the cache for tool under root.
func NewFileCache(root, tool string) *FileCache {
	return &FileCache{dir: filepath.Join(root, tool)}
}

// Dir exposes the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

// PathFor returns the record path for key.
func (c *FileCache) PathFor(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Entry summarizes one record for listings.
type Entry struct {
	Key       string `json:"key"`
	Provider  string `json:"provider"`
	FetchedAt string `json:"fetched_at"`
	AgeSecs   uint64 `json:"age_secs"`
	IsFresh   bool   `json:"is_fresh"`
}

// Entries lists readable records sorted by key (best-effort). ttlFor picks the
// TTL used to judge each key; staged temp files and malformed records are skipped.
func (c *FileCache) Entries(now time.Time, ttlFor func(key string) uint64) ([]Entry, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, err
	}
	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			continue
		}
		var record domain.CacheRecord[json.RawMessage]
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		key := strings.TrimSuffix(name, ".json")
		freshness := EvaluateFreshness(record.FetchedAt, now, ttlFor(key))
		entries = append(entries, Entry{
			Key:       key,
			Provider:  record.Provider,
			FetchedAt: record.FetchedAt,
			AgeSecs:   freshness.AgeSecs,
			IsFresh:   freshness.IsFresh,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Store is a typed view over a FileCache.
type Store[T any] struct {
	cache *FileCache
}

// NewStore binds a typed record store to fc.
func NewStore[T any](fc *FileCache) Store[T] {
	return Store[T]{cache: fc}
}

// Load implements ports.RecordStore.
func (s Store[T]) Load(key string) (domain.CacheRecord[T], bool) {
	return Read[T](s.cache.PathFor(key))
}

// Save implements ports.RecordStore.
func (s Store[T]) Save(key string, record domain.CacheRecord[T]) error {
	return Write(s.cache.PathFor(key), record)
}
