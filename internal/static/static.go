// Package static embeds static files into the binary and copies them to the
// user's data directory
package static

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const (
	filesDir = "files"

	// IconFile is the notification icon.
	IconFile = "icon.png"
)

//go:embed files/*
var embeddedFiles embed.FS

// Install copies the embedded files into appDir under the XDG data home.
// Files that already exist are left alone.
func Install(appDir string) error {
	return fs.WalkDir(
		embeddedFiles,
		filesDir,
		func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			rel := strings.TrimPrefix(p, filesDir+"/")

			destPath, err := xdg.DataFile(
				filepath.Join(appDir, filepath.FromSlash(rel)),
			)
			if err != nil {
				return err
			}

			if _, err := os.Stat(destPath); !os.IsNotExist(err) {
				return nil
			}

			b, err := embeddedFiles.ReadFile(path.Join(filesDir, rel))
			if err != nil {
				return err
			}

			return os.WriteFile(destPath, b, 0o644)
		},
	)
}

// IconPath returns the installed icon or an empty string if it cannot be
// found.
func IconPath(appDir string) string {
	p, err := xdg.SearchDataFile(filepath.Join(appDir, IconFile))
	if err != nil {
		return ""
	}

	return p
}
