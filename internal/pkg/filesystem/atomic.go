package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// TempPath is the sibling path a writer in this process stages data at.
func TempPath(path string) string {
	return path + ".tmp-" + strconv.Itoa(os.Getpid())
}

// WriteFileAtomic writes data to a pid-suffixed sibling and renames it onto
// path. Parent directories are created. Concurrent writers race at rename and
// the last one wins; readers never observe a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", path, err)
	}

	tempPath := TempPath(path)
	if err := os.WriteFile(tempPath, data, perm); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("write %s: %w", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename %s: %w", tempPath, err)
	}
	return nil
}
