package cache

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/pkg/filesystem"
)

// InvalidDataError reports a record that could not be serialized.
type InvalidDataError struct {
	Path string
	Err  error
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("invalid cache data for %s: %v", e.Path, e.Err)
}

func (e *InvalidDataError) Unwrap() error {
	return e.Err
}

// Read loads the record at path. Absent, unreadable and malformed files are
// all reported as a miss.
func Read[T any](path string) (domain.CacheRecord[T], bool) {
	var record domain.CacheRecord[T]
	data, err := os.ReadFile(path)
	if err != nil {
		return record, false
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.CacheRecord[T]{}, false
	}
	return record, true
}

// Write serializes record and replaces path atomically.
func Write[T any](path string, record domain.CacheRecord[T]) error {
	data, err := json.Marshal(record)
	if err != nil {
		return &InvalidDataError{Path: path, Err: err}
	}
	return filesystem.WriteFileAtomic(path, data, domain.FilePermissions)
}

// EvaluateFreshness derives the record age at now. A timestamp that does not
// parse is treated as one second past ttl; a timestamp in the future is age 0.
func EvaluateFreshness(fetchedAt string, now time.Time, ttlSecs uint64) domain.Freshness {
	fetched, ok := domain.ParseFetchedAt(fetchedAt)
	if !ok {
		age := ttlSecs
		if age < math.MaxUint64 {
			age++
		}
		return domain.Freshness{AgeSecs: age, IsFresh: false}
	}

	var age uint64
	if delta := now.Sub(fetched); delta > 0 {
		age = uint64(delta / time.Second)
	}
	return domain.Freshness{AgeSecs: age, IsFresh: age <= ttlSecs}
}
