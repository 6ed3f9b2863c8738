package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jorge-barreto/rsrun/internal/errs"
)

const cacheSize = 16

// Store resolves templates by name, preferring <Dir>/<name>.rs over the
// built-ins.
type Store struct {
	Dir   string
	cache *lru.Cache[string, string]
}

// NewStore returns a Store reading overrides from dir. An empty dir disables
// overrides.
func NewStore(dir string) *Store {
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &Store{Dir: dir, cache: cache}
}

// Get returns the text of the named template.
func (s *Store) Get(name string) (string, error) {
	if text, ok := s.cache.Get(name); ok {
		return text, nil
	}

	text, err := s.load(name)
	if err != nil {
		return "", err
	}
	s.cache.Add(name, text)
	return text, nil
}

func (s *Store) load(name string) (string, error) {
	if s.Dir != "" {
		path := filepath.Join(s.Dir, name+".rs")
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading template %s: %w", path, err)
		}
	}
	if text, ok := Builtin(name); ok {
		return text, nil
	}
	if s.Dir == "" {
		return "", errs.Humanf("template %q does not exist", name)
	}
	return "", errs.Humanf("template file `%s.rs` does not exist in %s", name, s.Dir)
}

// List returns the names of override templates found in Dir, sorted.
func (s *Store) List() ([]string, error) {
	if s.Dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot list template directory %s: %w", s.Dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != ".rs" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".rs"))
	}
	sort.Strings(names)
	return names, nil
}
