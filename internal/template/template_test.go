package template

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jorge-barreto/rsrun/internal/errs"
)

func TestExpand_Simple(t *testing.T) {
	got, err := Expand("a #{x} b #{y_2}", map[string]string{"x": "1", "y_2": "two"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "a 1 b two" {
		t.Fatalf("got %q", got)
	}
}

func TestExpand_NoPlaceholders(t *testing.T) {
	input := "fn main() { println!(\"{}\", 1); }"
	got, err := Expand(input, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != input {
		t.Fatalf("got %q", got)
	}
}

func TestExpand_Unknown(t *testing.T) {
	_, err := Expand("#{script} #{nope}", map[string]string{"script": "x"})
	var unknown *UnknownSubstitutionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSubstitutionError, got %v", err)
	}
	if unknown.Name != "nope" {
		t.Fatalf("Name = %q", unknown.Name)
	}
	if !errs.IsHuman(err) {
		t.Fatal("unknown substitution should be a human error")
	}
}

func TestExpand_NotRecursive(t *testing.T) {
	got, err := Expand("#{a}", map[string]string{"a": "#{b}"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "#{b}" {
		t.Fatalf("got %q", got)
	}
}

func TestExpand_InvalidNamesLeftAlone(t *testing.T) {
	input := "#{1abc} #{} #{a-b}"
	got, err := Expand(input, map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	if got != input {
		t.Fatalf("got %q", got)
	}
}

func TestBuiltins_HavePlaceholders(t *testing.T) {
	for _, name := range []string{Expr, Loop, LoopCount} {
		text, ok := Builtin(name)
		if !ok {
			t.Fatalf("missing builtin %q", name)
		}
		if !strings.Contains(text, "#{script}") || !strings.Contains(text, "#{prelude}") {
			t.Fatalf("builtin %q lacks placeholders", name)
		}
	}
	if text, _ := Builtin(File); text != "#{script}" {
		t.Fatalf("file template = %q", text)
	}
}

func TestStore_Override(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "expr.rs"), []byte("custom #{script}"), 0644)

	s := NewStore(dir)
	got, err := s.Get(Expr)
	if err != nil {
		t.Fatal(err)
	}
	if got != "custom #{script}" {
		t.Fatalf("got %q", got)
	}
	got, err = s.Get(Loop)
	if err != nil {
		t.Fatal(err)
	}
	if want, _ := Builtin(Loop); got != want {
		t.Fatal("expected builtin fallback for loop")
	}
}

func TestStore_GetIsMemoised(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expr.rs")
	if err := os.WriteFile(path, []byte("first #{script}"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(dir)
	if _, err := s.Get(Expr); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(Expr)
	if err != nil {
		t.Fatal(err)
	}
	if got != "first #{script}" {
		t.Fatalf("second lookup re-read disk: got %q", got)
	}
}

func TestStore_UnknownTemplate(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Get("missing")
	if err == nil || !errs.IsHuman(err) {
		t.Fatalf("expected human error, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "b.rs"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "a.rs"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.Mkdir(filepath.Join(dir, "sub.rs"), 0755)

	names, err := NewStore(dir).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("got %v", names)
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	names, err := NewStore(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil || len(names) != 0 {
		t.Fatalf("names=%v err=%v", names, err)
	}
}
