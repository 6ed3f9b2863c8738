package ux

import (
	"fmt"
	"io"
	"time"

	"github.com/jorge-barreto/rsrun/internal/cache"
)

// RenderCacheList prints one line per cache entry.
func RenderCacheList(w io.Writer, root string, entries []cache.EntryInfo, now time.Time) {
	fmt.Fprintf(w, "%sCache:%s   %s\n", Bold, Reset, root)
	if len(entries) == 0 {
		fmt.Fprintf(w, "%sEntries:%s none\n", Bold, Reset)
		return
	}
	fmt.Fprintf(w, "%sEntries:%s %d\n\n", Bold, Reset, len(entries))

	var total int64
	for _, e := range entries {
		total += e.Size
		fmt.Fprintf(w, "  %s%-24s%s  %-10s %8s  %s\n",
			Dim, e.ID, Reset, age(e, now), humanSize(e.Size), describe(e))
	}
	fmt.Fprintf(w, "\n%sTotal:%s   %s\n", Bold, Reset, humanSize(total))
}

func age(e cache.EntryInfo, now time.Time) string {
	if e.Updated.IsZero() {
		return Yellow + "incomplete" + Reset
	}
	d := now.Sub(e.Updated)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func describe(e cache.EntryInfo) string {
	m := e.Metadata
	if m == nil {
		return ""
	}
	profile := "release"
	if m.Debug {
		profile = "debug"
	}
	if m.Path != nil {
		return fmt.Sprintf("%s (%s)", *m.Path, profile)
	}
	return fmt.Sprintf("<expression> (%s, %d deps)", profile, len(m.Deps))
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
