package manifest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jorge-barreto/rsrun/internal/errs"
)

func TestParseDeps(t *testing.T) {
	got, err := ParseDeps([]string{"time=0.1.25", "libc", "regex = 1", "libc=*"})
	if err != nil {
		t.Fatal(err)
	}
	want := []Dep{
		{Name: "libc", Version: "*"},
		{Name: "regex", Version: "1"},
		{Name: "time", Version: "0.1.25"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("deps mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDeps_Errors(t *testing.T) {
	for _, specs := range [][]string{
		{"=1.0"},
		{"time="},
		{"time=0.1", "time=0.2"},
	} {
		_, err := ParseDeps(specs)
		if err == nil {
			t.Fatalf("%q: expected error", specs)
		}
		if !errs.IsHuman(err) {
			t.Fatalf("%q: expected human error, got %v", specs, err)
		}
	}
}

func TestParseDeps_ConflictMessage(t *testing.T) {
	_, err := ParseDeps([]string{"time=0.1", "time=0.2"})
	want := "conflicting versions for dependency 'time': '0.1', '0.2'"
	if err == nil || err.Error() != want {
		t.Fatalf("got %v, want %q", err, want)
	}
}

func TestDepsTable(t *testing.T) {
	tbl, err := DepsTable([]Dep{
		{Name: "libc", Version: "0.2"},
		{Name: "serde", Version: `{ version = "1", features = ["derive"] }`},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"libc": "0.2",
		"serde": map[string]any{
			"version":  "1",
			"features": []any{"derive"},
		},
	}
	if diff := cmp.Diff(want, tbl["dependencies"]); diff != "" {
		t.Fatalf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestDepListTable(t *testing.T) {
	tbl, err := depListTable(` time="0.1.25", libc, rand = 0.8, serde = { version = "1", features = ["derive", "rc"] },`)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"time": "0.1.25",
		"libc": "*",
		"rand": "0.8",
		"serde": map[string]any{
			"version":  "1",
			"features": []any{"derive", "rc"},
		},
	}
	if diff := cmp.Diff(want, tbl["dependencies"]); diff != "" {
		t.Fatalf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestDepListTable_Invalid(t *testing.T) {
	if _, err := depListTable(`time = { version = `); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := depListTable(`= "1"`); err == nil {
		t.Fatal("expected empty name error")
	}
	_, err := depListTable(`time=, regex`)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Stage != "dependency list" {
		t.Fatalf("expected dependency list error for empty version, got %v", err)
	}
	if !errs.IsHuman(err) {
		t.Fatal("empty version should be a human error")
	}
}

func TestSplitTopLevel(t *testing.T) {
	got := splitTopLevel(`a, b = { x = [1, 2] }, c = "p,q"`)
	want := []string{"a", ` b = { x = [1, 2] }`, ` c = "p,q"`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("split mismatch (-want +got):\n%s", diff)
	}
}
