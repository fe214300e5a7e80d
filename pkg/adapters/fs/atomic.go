package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// dirPerm is used when the parent directories of the profile file are missing.
const dirPerm = 0o700

// tempPattern returns the os.CreateTemp pattern for filename. The leading dot
// keeps temp files hidden next to the target.
func tempPattern(filename string) string {
	return "." + filepath.Base(filename) + ".tmp-*"
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename, so readers see either the old or the new file.
// When the temp file cannot be created the parent directories are created and
// the write is attempted once more.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, tempPattern(filename))
	if err != nil {
		if mkErr := os.MkdirAll(dir, dirPerm); mkErr != nil {
			return errors.Join(fmt.Errorf("failed to create temp file: %w", err), mkErr)
		}
		tmpFile, err = os.CreateTemp(dir, tempPattern(filename))
		if err != nil {
			return fmt.Errorf("failed to create temp file: %w", err)
		}
	}
	defer os.Remove(tmpFile.Name()) // no-op after a successful rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
