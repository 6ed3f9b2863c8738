package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jorge-barreto/rsrun/internal/errs"
	"github.com/jorge-barreto/rsrun/internal/manifest"
	"github.com/jorge-barreto/rsrun/internal/template"
)

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"hello":      "hello",
		"my-script":  "my-script",
		"has space":  "has_space",
		"1st":        "_1st",
		"naïve.test": "na_ve_test",
		"":           "script",
	}
	for name, want := range cases {
		in := Input{Kind: File, Name: name}
		if got := in.SafeName(); got != want {
			t.Fatalf("SafeName(%q) = %q, want %q", name, got, want)
		}
	}
	if got := NewExpr("1").SafeName(); got != "expr" {
		t.Fatalf("expr SafeName = %q", got)
	}
	if got := NewLoop("|l| l", true).SafeName(); got != "loop" {
		t.Fatalf("loop SafeName = %q", got)
	}
}

func TestTemplateName(t *testing.T) {
	if got := (Input{Kind: File}).TemplateName(); got != template.File {
		t.Fatalf("got %q", got)
	}
	if got := NewExpr("1").TemplateName(); got != template.Expr {
		t.Fatalf("got %q", got)
	}
	if got := NewLoop("x", false).TemplateName(); got != template.Loop {
		t.Fatalf("got %q", got)
	}
	if got := NewLoop("x", true).TemplateName(); got != template.LoopCount {
		t.Fatalf("got %q", got)
	}
}

func TestFind_ExactPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "hello.rs")
	os.WriteFile(p, []byte("fn main() {}"), 0644)
	got, err := Find(p)
	if err != nil || got != p {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestFind_SearchExtsInOrder(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "hello.rs"), []byte(""), 0644)
	os.WriteFile(filepath.Join(dir, "hello.ers"), []byte(""), 0644)
	got, err := Find(filepath.Join(dir, "hello"))
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "hello.ers") {
		t.Fatalf("got %q, want .ers first", got)
	}

	os.Remove(filepath.Join(dir, "hello.ers"))
	got, err = Find(filepath.Join(dir, "hello"))
	if err != nil || got != filepath.Join(dir, "hello.rs") {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestFind_NoSearchWhenExtensionGiven(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "hello.txt.rs"), []byte(""), 0644)
	_, err := Find(filepath.Join(dir, "hello.txt"))
	if err == nil {
		t.Fatal("expected not found")
	}
	if !errs.IsHuman(err) {
		t.Fatalf("expected human error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "greet.rs")
	if err := os.WriteFile(p, []byte("fn main() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	in, err := Load(filepath.Join(dir, "greet"))
	if err != nil {
		t.Fatal(err)
	}
	if in.Kind != File || in.Name != "greet" || in.Path != p {
		t.Fatalf("got %+v", in)
	}
	if in.Content != "fn main() {}\n" {
		t.Fatalf("Content = %q", in.Content)
	}
	info, _ := os.Stat(p)
	if in.Modified != info.ModTime().UnixMilli() {
		t.Fatalf("Modified = %d", in.Modified)
	}
	base, _ := in.BaseDir()
	if base != dir {
		t.Fatalf("BaseDir = %q", base)
	}
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestID_Stable(t *testing.T) {
	var h Hasher
	deps := []manifest.Dep{{Name: "time", Version: "*"}}
	a := h.ID(NewExpr("1 + 2"), deps)
	b := h.ID(NewExpr("1 + 2"), deps)
	if a != b {
		t.Fatalf("unstable id: %q vs %q", a, b)
	}
	if len(a) != IDDigestLen {
		t.Fatalf("len = %d", len(a))
	}
}

func TestID_DepOrderIrrelevant(t *testing.T) {
	var h Hasher
	a := h.ID(NewExpr("x"), []manifest.Dep{{Name: "a", Version: "1"}, {Name: "b", Version: "2"}})
	b := h.ID(NewExpr("x"), []manifest.Dep{{Name: "b", Version: "2"}, {Name: "a", Version: "1"}})
	if a != b {
		t.Fatal("dependency order changed the id")
	}
}

func TestID_Distinguishes(t *testing.T) {
	var h Hasher
	base := h.ID(NewExpr("x"), nil)
	for name, other := range map[string]string{
		"text": h.ID(NewExpr("y"), nil),
		"deps": h.ID(NewExpr("x"), []manifest.Dep{{Name: "a", Version: "*"}}),
		"kind": h.ID(NewLoop("x", false), nil),
	} {
		if other == base {
			t.Fatalf("%s change did not change the id", name)
		}
	}
}

func TestID_LoopCountChangesID(t *testing.T) {
	var h Hasher
	if h.ID(NewLoop("|l| l", false), nil) == h.ID(NewLoop("|l| l", true), nil) {
		t.Fatal("count flag did not change the id")
	}
}

func TestID_FileUsesPathOnly(t *testing.T) {
	var h Hasher
	a := h.ID(Input{Kind: File, Path: "/s/a.rs", Content: "one", Modified: 1}, nil)
	b := h.ID(Input{Kind: File, Path: "/s/a.rs", Content: "two", Modified: 2}, []manifest.Dep{{Name: "x", Version: "*"}})
	if a != b {
		t.Fatal("file id should depend on the path only")
	}
	if a == h.ID(Input{Kind: File, Path: "/s/b.rs"}, nil) {
		t.Fatal("different paths share an id")
	}
}

func TestID_Stub(t *testing.T) {
	h := Hasher{Stub: true}
	if got := h.ID(NewExpr("anything"), nil); got != "stub" {
		t.Fatalf("got %q", got)
	}
}
