// Package osutil holds OS level constants and helpers
package osutil

import (
	"errors"
	"os"
)

const Windows = "windows"

type exitCode int

const ExitError exitCode = 1

const DirPermission = 0o755

// Exists reports whether path is present on disk. An empty path is treated
// as present.
func Exists(path string) bool {
	if path == "" {
		return true
	}

	_, err := os.Stat(path)

	return !errors.Is(err, os.ErrNotExist)
}
