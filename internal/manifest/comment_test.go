package manifest

import (
	"errors"
	"testing"
)

func TestExtractComment_LineDoc(t *testing.T) {
	got, err := extractComment("//! Here is a manifest:\n//!\n//! ```cargo\n//! [dependencies]\n//! ```\nfn main() {}\n")
	if err != nil {
		t.Fatal(err)
	}
	want := "Here is a manifest:\n\n```cargo\n[dependencies]\n```\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractComment_LineDocStopsAtCode(t *testing.T) {
	got, err := extractComment("//! one\n// plain comment\n//! two\n")
	if err != nil {
		t.Fatal(err)
	}
	if got != "one\n" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractComment_LineDocKeepsDeeperIndent(t *testing.T) {
	got, err := extractComment("//! a\n//!     b\n//! c\n")
	if err != nil {
		t.Fatal(err)
	}
	if got != "a\n    b\nc\n" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractComment_Block(t *testing.T) {
	got, err := extractComment("/*!\nHere is a manifest:\n\n```cargo\n[dependencies]\n```\n*/\nfn main() {}\n")
	if err != nil {
		t.Fatal(err)
	}
	want := "\nHere is a manifest:\n\n```cargo\n[dependencies]\n```\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractComment_BlockMargin(t *testing.T) {
	got, err := extractComment("/*!\n * Here is a manifest:\n *\n * ```cargo\n * [dependencies]\n * ```\n */\n")
	if err != nil {
		t.Fatal(err)
	}
	want := "\nHere is a manifest:\n\n```cargo\n[dependencies]\n```\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractComment_BlockSingleLine(t *testing.T) {
	got, err := extractComment("/*! just this */ fn main() {}")
	if err != nil {
		t.Fatal(err)
	}
	if got != "just this \n" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractComment_BlockNested(t *testing.T) {
	got, err := extractComment("/*!\nouter\n/* inner */\nstill outer\n*/\nfn main() {}\n")
	if err != nil {
		t.Fatal(err)
	}
	want := "\nouter\n/* inner */\nstill outer\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractComment_Unterminated(t *testing.T) {
	_, err := extractComment("/*!\nnever closed\n")
	var ce *CommentError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CommentError, got %v", err)
	}
}

func TestExtractComment_ShallowerIndentFails(t *testing.T) {
	_, err := extractComment("//!    ```cargo\n//! [dependencies]\n//!    ```\n")
	var ce *CommentError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CommentError, got %v", err)
	}
}

func TestExtractComment_NotAComment(t *testing.T) {
	if _, err := extractComment("fn main() {}"); err == nil {
		t.Fatal("expected error")
	}
}

func TestStripIndent(t *testing.T) {
	cases := []struct {
		line string
		n    int
		want string
		err  bool
	}{
		{"   abc", 2, " abc", false},
		{"  ", 4, "", false},
		{"", 3, "", false},
		{"  abc", 4, "", true},
		{" \tabc", 2, "", true},
		{"\tabc", 0, "\tabc", false},
	}
	for _, c := range cases {
		got, err := stripIndent(c.line, c.n)
		if (err != nil) != c.err {
			t.Fatalf("stripIndent(%q, %d) err = %v", c.line, c.n, err)
		}
		if !c.err && got != c.want {
			t.Fatalf("stripIndent(%q, %d) = %q, want %q", c.line, c.n, got, c.want)
		}
	}
}
