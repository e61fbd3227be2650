// Package atomicfile writes files so that readers observe either the old
// content or the complete new content, never a partial write.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DirPerm is used for parent directories created on demand.
const DirPerm os.FileMode = 0o755

// WriteFile replaces path with data.
//
// The data goes to a uniquely named sibling first, which gets perm applied,
// is flushed to stable storage and then renamed onto path. Missing parent
// directories are created. On any failure before the rename the sibling is
// removed and path is left as it was.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("create parent of %s: %w", path, err)
	}

	tmpPath := filepath.Join(dir, tempName(filepath.Base(path)))
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	// The umask applies to OpenFile, so set the mode explicitly.
	if err = f.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// SetPermissions changes the mode of path. Callers treat a failure as a
// warning; the returned error is meant for logging.
func SetPermissions(path string, mode os.FileMode) error {
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("set permissions on %s: %w", path, err)
	}
	return nil
}

func tempName(base string) string {
	return "." + base + "." + uuid.NewString() + ".tmp"
}
