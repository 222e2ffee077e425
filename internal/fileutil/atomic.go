// Package fileutil holds small file helpers shared by the stores.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteAtomic writes data to path through a temp file in the same directory
// and a rename, so readers never observe a partial file. Missing parent
// directories are created.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("write atomic: path is required")
	}
	if perm == 0 {
		perm = 0o644
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write atomic: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write atomic: create temp: %w", err)
	}
	name := tmp.Name()
	done := false
	defer func() {
		if !done {
			_ = os.Remove(name)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write atomic: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write atomic: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write atomic: close temp: %w", err)
	}
	if err := os.Chmod(name, perm); err != nil {
		return fmt.Errorf("write atomic: chmod temp: %w", err)
	}

	if err := os.Rename(name, path); err != nil {
		// Windows refuses to rename over an existing file.
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("write atomic: replace file: %w", err)
		}
		if err := os.Rename(name, path); err != nil {
			return fmt.Errorf("write atomic: replace file: %w", err)
		}
	}
	done = true
	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
