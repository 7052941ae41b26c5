package project

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/pkg/filesystem"
)

const usageSeparator = " | "

type usageEntry struct {
	key  string
	when time.Time
}

// UsageLog is the "KEY | YYYY-MM-DD HH:MM:SS" file recording when each
// project was last opened. Later lines win for a repeated key.
type UsageLog struct {
	path    string
	entries []usageEntry
	index   map[string]int
}

// LoadUsage reads the log at path. A missing file is an empty log;
// malformed lines are ignored.
func LoadUsage(path string) (*UsageLog, error) {
	log := &UsageLog{path: path, index: map[string]int{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return log, nil
		}
		return nil, domain.StorageFailure("read usage log "+path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, stamp, ok := strings.Cut(scanner.Text(), usageSeparator)
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		when, err := time.ParseInLocation(domain.UsageTimestampFormat, strings.TrimSpace(stamp), time.Local)
		if err != nil {
			continue
		}
		log.set(key, when)
	}
	return log, nil
}

func (l *UsageLog) set(key string, when time.Time) {
	if i, ok := l.index[key]; ok {
		l.entries[i].when = when
		return
	}
	l.index[key] = len(l.entries)
	l.entries = append(l.entries, usageEntry{key: key, when: when})
}

// LastUsed looks up a project by absolute path, falling back to the bare
// directory name written by older versions.
func (l *UsageLog) LastUsed(path string) (time.Time, bool) {
	for _, key := range []string{filepath.Clean(path), filepath.Base(path)} {
		if i, ok := l.index[key]; ok {
			return l.entries[i].when, true
		}
	}
	return time.Time{}, false
}

// Record stamps path with now and rewrites the log atomically.
func (l *UsageLog) Record(path string, now time.Time) error {
	l.set(filepath.Clean(path), now.Local().Truncate(time.Second))

	var buf bytes.Buffer
	for _, e := range l.entries {
		buf.WriteString(e.key)
		buf.WriteString(usageSeparator)
		buf.WriteString(e.when.Format(domain.UsageTimestampFormat))
		buf.WriteByte('\n')
	}
	if err := filesystem.WriteFileAtomic(l.path, buf.Bytes(), domain.FilePermissions); err != nil {
		return domain.StorageFailure("write usage log "+l.path, err)
	}
	return nil
}
