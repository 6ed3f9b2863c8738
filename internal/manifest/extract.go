package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

// EmbeddedKind distinguishes the forms an embedded manifest can take.
type EmbeddedKind int

const (
	// KindNone means no detector matched.
	KindNone EmbeddedKind = iota
	// KindInlineTable is a TOML fragment taken from a ```cargo block.
	KindInlineTable
	// KindDependencyList is a `name[=version], ...` list from a
	// `// cargo-deps:` comment.
	KindDependencyList
)

func (k EmbeddedKind) String() string {
	switch k {
	case KindInlineTable:
		return "inline table"
	case KindDependencyList:
		return "dependency list"
	default:
		return "none"
	}
}

// Embedded is the manifest fragment found inside a script.
type Embedded struct {
	Kind EmbeddedKind
	Text string
}

var (
	hashbangRe     = regexp.MustCompile(`^#!(?:[^\[\n][^\n]*)?(?:\n|$)`)
	shortCommentRe = regexp.MustCompile(`(?i)^[ \t]*//[ \t]*cargo-deps[ \t]*:(.*)$`)
	cargoFenceRe   = regexp.MustCompile("(?im)^[ \t]*(?://!|\\*)?[ \t]*(?:`{3,}|~{3,})[ \t]*cargo\\b")
)

// StripHashbang returns s without a leading `#!` interpreter line. Lines
// starting with `#![` are inner attributes and are kept.
func StripHashbang(s string) string {
	if loc := hashbangRe.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	return s
}

// Extract locates the embedded manifest in script text whose hashbang has
// already been stripped. A doc comment without a cargo block is not a
// manifest. Failing to strip the comment is only an error when the text
// carries a cargo fence, since otherwise no manifest was being declared.
func Extract(s string) (Embedded, error) {
	if m, ok := findShortComment(s); ok {
		return m, nil
	}

	trimmed := strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(trimmed, "/*!") && !strings.HasPrefix(trimmed, "//!") {
		return Embedded{}, nil
	}
	body, err := extractComment(trimmed)
	if err != nil {
		if cargoFenceRe.MatchString(s) {
			return Embedded{}, fmt.Errorf("extracting embedded manifest: %w", err)
		}
		return Embedded{}, nil
	}
	text, ok := FirstCodeBlock(body, "cargo")
	if !ok {
		return Embedded{}, nil
	}
	return Embedded{Kind: KindInlineTable, Text: text}, nil
}

// findShortComment matches a `// cargo-deps: ...` comment on the first line.
func findShortComment(s string) (Embedded, bool) {
	first := s
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first = s[:i]
	}
	first = strings.TrimSuffix(first, "\r")
	m := shortCommentRe.FindStringSubmatch(first)
	if m == nil {
		return Embedded{}, false
	}
	return Embedded{Kind: KindDependencyList, Text: strings.TrimSpace(m[1])}, true
}
