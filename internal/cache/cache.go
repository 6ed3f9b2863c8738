// Package cache manages the content-addressed directory of generated
// packages, decides whether a cached artifact can be reused, and evicts
// stale entries.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
)

// ManifestFile is the generated package manifest.
const ManifestFile = "Cargo.toml"

// Cache is a directory of entries, one per identifier.
type Cache struct {
	Root string
	Log  *zap.Logger
}

// New returns a cache rooted at root. A nil logger discards output.
func New(root string, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{Root: root, Log: log}
}

func (c *Cache) log() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// EntryPath is the package directory for id.
func (c *Cache) EntryPath(id string) string {
	return filepath.Join(c.Root, id)
}

// ExePath is where cargo leaves the binary for a package built in pkgDir.
func ExePath(pkgDir, safeName string, debug bool) string {
	profile := "release"
	if debug {
		profile = "debug"
	}
	return filepath.Join(pkgDir, "target", profile, safeName+exeSuffix())
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// File is one generated package file, relative to the package directory.
type File struct {
	Name string
	Data []byte
}

// WritePackage writes files into dir. Any existing metadata is removed first
// so that a build interrupted after this point is never taken for a cache
// hit; metadata is only written back after a successful build.
func WritePackage(dir string, files []File) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating package directory: %w", err)
	}
	if err := os.Remove(metadataPath(dir)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale metadata: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", f.Name, err)
		}
		if err := writeFileAtomic(path, f.Data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	return nil
}
