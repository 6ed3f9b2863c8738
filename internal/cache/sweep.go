package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"go.uber.org/zap"
)

// SweepReport summarises one eviction pass.
type SweepReport struct {
	Removed []string
	Kept    int
	Failed  map[string]error
}

// Sweep removes entries whose metadata file was last modified at or before
// now-maxAge, along with entries that have no metadata at all. Failures on
// individual entries are logged and recorded in the report; only an
// unreadable cache root is returned as an error. Entries named in keep are
// never removed.
func (c *Cache) Sweep(maxAge time.Duration, now time.Time, keep ...string) (*SweepReport, error) {
	report := &SweepReport{Failed: map[string]error{}}
	entries, err := c.entries()
	if err != nil {
		return report, err
	}
	cutoff := now.Add(-maxAge)
	for _, id := range entries {
		if slices.Contains(keep, id) {
			report.Kept++
			continue
		}
		dir := c.EntryPath(id)
		info, err := os.Stat(metadataPath(dir))
		switch {
		case err == nil && info.ModTime().After(cutoff):
			report.Kept++
			continue
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			c.log().Debug("metadata unreadable, evicting", zap.String("entry", id), zap.Error(err))
		}
		if err := os.RemoveAll(dir); err != nil {
			c.log().Warn("failed to evict cache entry", zap.String("entry", id), zap.Error(err))
			report.Failed[id] = err
			continue
		}
		c.log().Debug("evicted cache entry", zap.String("entry", id))
		report.Removed = append(report.Removed, id)
	}
	return report, nil
}

// Clear removes every entry and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	entries, err := c.entries()
	if err != nil {
		return 0, err
	}
	n := 0
	var errList []error
	for _, id := range entries {
		if err := os.RemoveAll(c.EntryPath(id)); err != nil {
			errList = append(errList, fmt.Errorf("removing %s: %w", id, err))
			continue
		}
		n++
	}
	return n, errors.Join(errList...)
}

// EntryInfo describes one cache entry for listing.
type EntryInfo struct {
	ID       string
	Metadata *Metadata // nil when missing or unreadable
	Updated  time.Time // metadata mtime; zero when missing
	Size     int64
}

// List returns the entries sorted by id.
func (c *Cache) List() ([]EntryInfo, error) {
	entries, err := c.entries()
	if err != nil {
		return nil, err
	}
	infos := make([]EntryInfo, 0, len(entries))
	for _, id := range entries {
		dir := c.EntryPath(id)
		info := EntryInfo{ID: id, Size: dirSize(dir)}
		if st, err := os.Stat(metadataPath(dir)); err == nil {
			info.Updated = st.ModTime()
		}
		info.Metadata, _ = LoadMetadata(dir)
		infos = append(infos, info)
	}
	return infos, nil
}

// entries lists the entry directory names. A missing root has no entries.
func (c *Cache) entries() ([]string, error) {
	des, err := os.ReadDir(c.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	var ids []string
	for _, de := range des {
		if de.IsDir() && de.Name()[0] != '.' {
			ids = append(ids, de.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func dirSize(dir string) int64 {
	var total int64
	filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}
