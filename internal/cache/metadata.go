package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/jorge-barreto/rsrun/internal/manifest"
)

// MetadataFile is the name of the fingerprint file inside a cache entry.
const MetadataFile = "metadata.json"

// Metadata is the fingerprint of everything that affects a build. A cached
// artifact is reused only when the persisted Metadata equals a freshly built
// one.
type Metadata struct {
	Path     *string        `json:"path"`
	Modified *int64         `json:"modified"`
	Debug    bool           `json:"debug"`
	Deps     []manifest.Dep `json:"deps"`
	Prelude  []string       `json:"prelude"`
	Features *string        `json:"features"`
}

// Equal reports structural equality. Nil and empty slices are equal.
func (m *Metadata) Equal(o *Metadata) bool {
	if m == nil || o == nil {
		return m == o
	}
	return equalPtr(m.Path, o.Path) &&
		equalPtr(m.Modified, o.Modified) &&
		m.Debug == o.Debug &&
		slices.Equal(m.Deps, o.Deps) &&
		slices.Equal(m.Prelude, o.Prelude) &&
		equalPtr(m.Features, o.Features)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func metadataPath(dir string) string {
	return filepath.Join(dir, MetadataFile)
}

// LoadMetadata reads the metadata persisted in dir. A missing file returns
// (nil, nil).
func LoadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(metadataPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", MetadataFile, err)
	}
	return &m, nil
}

// SaveMetadata persists m into dir.
func SaveMetadata(dir string, m *Metadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(metadataPath(dir), data, 0644)
}
