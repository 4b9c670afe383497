// Package fileutil holds small filesystem helpers shared by the stores.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWrite replaces path with data. Readers see either the old content
// or the new content, never a partial file.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	return publish(path, data, perm, os.Rename)
}

// WriteNew creates path with data and fails with an error matching
// fs.ErrExist when path is already present. The check and the create are
// one filesystem operation, so two writers cannot both succeed.
func WriteNew(path string, data []byte, perm os.FileMode) error {
	return publish(path, data, perm, os.Link)
}

// publish stages data in a synced temp file beside path and moves it into
// place with commit. The temp file is always removed.
func publish(path string, data []byte, perm os.FileMode, commit func(oldpath, newpath string) error) error {
	staged, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("staging %s: %w", filepath.Base(path), err)
	}
	stagedPath := staged.Name()
	defer func() { _ = os.Remove(stagedPath) }()

	err = stage(staged, data, perm)
	if closeErr := staged.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("staging %s: %w", filepath.Base(path), err)
	}
	if err := commit(stagedPath, path); err != nil {
		return err
	}
	return nil
}

func stage(f *os.File, data []byte, perm os.FileMode) error {
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Chmod(perm); err != nil {
		return err
	}
	return f.Sync()
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
