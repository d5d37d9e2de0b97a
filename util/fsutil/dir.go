package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir ensures a directory exists.
func EnsureDir(p string) error {
	fi, err := os.Stat(p)
	if err == nil {
		if !fi.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", p)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(p, 0775)
}

// EnsurePath ensures the parent directory of a file path exists.
func EnsurePath(p string) error {
	return EnsureDir(filepath.Dir(p))
}

// Exists returns true if a file or directory exists at the given path.
func Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
