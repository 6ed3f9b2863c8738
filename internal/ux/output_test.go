package ux

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jorge-barreto/rsrun/internal/cache"
)

func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := Out
	Out = &buf
	t.Cleanup(func() { Out = old })
	return &buf
}

func TestCompiling(t *testing.T) {
	buf := captureOut(t)
	Compiling("hello", "no cached metadata")
	if !strings.Contains(buf.String(), "Compiling hello") || !strings.Contains(buf.String(), "no cached metadata") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestSwept(t *testing.T) {
	buf := captureOut(t)
	Swept(0)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	Swept(1)
	if !strings.Contains(buf.String(), "1 stale cache entry") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestError(t *testing.T) {
	buf := captureOut(t)
	Error(errors.New("boom"))
	if !strings.Contains(buf.String(), "error:") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(5 * time.Second); got != "5s" {
		t.Fatalf("got %q", got)
	}
	if got := formatDuration(125 * time.Second); got != "2m 05s" {
		t.Fatalf("got %q", got)
	}
}

func TestHumanSize(t *testing.T) {
	cases := map[int64]string{
		0:               "0 B",
		1023:            "1023 B",
		1024:            "1.0 KiB",
		5 * 1024 * 1024: "5.0 MiB",
	}
	for n, want := range cases {
		if got := humanSize(n); got != want {
			t.Fatalf("humanSize(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRenderCacheList(t *testing.T) {
	now := time.Now()
	path := "/home/me/hello.rs"
	entries := []cache.EntryInfo{
		{ID: "aaa", Updated: now.Add(-3 * time.Hour), Size: 2048, Metadata: &cache.Metadata{Path: &path}},
		{ID: "bbb", Size: 10},
	}
	var buf bytes.Buffer
	RenderCacheList(&buf, "/cache", entries, now)
	out := buf.String()
	for _, want := range []string{"/cache", "aaa", "3h ago", "2.0 KiB", "hello.rs (release)", "bbb", "incomplete"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderCacheList_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderCacheList(&buf, "/cache", nil, time.Now())
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("got %q", buf.String())
	}
}
