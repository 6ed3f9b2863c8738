package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	marginRe  = regexp.MustCompile(`^[ \t]*\*( |$)`)
	lineDocRe = regexp.MustCompile(`^[ \t]*//!`)
)

// CommentError reports a doc comment whose markers or indentation could not
// be stripped unambiguously.
type CommentError struct {
	Line int // 1-based, relative to the start of the comment
	Msg  string
}

func (e *CommentError) Error() string {
	if e.Line == 0 {
		return "doc comment: " + e.Msg
	}
	return fmt.Sprintf("doc comment line %d: %s", e.Line, e.Msg)
}

func (e *CommentError) HumanError() bool { return true }

// detection is the tri-state used for margin and indentation: both are
// decided once, on the first line with content.
type detection int

const (
	undecided detection = iota
	absent
	present
)

// commentScanner accumulates the body of a doc comment line by line.
type commentScanner struct {
	allowMargin bool
	margin      detection
	indentState detection
	indent      int
	line        int
	out         strings.Builder
}

func (sc *commentScanner) feed(line string) error {
	sc.line++
	blank := strings.TrimSpace(line) == ""

	if sc.allowMargin && sc.margin == undecided && !blank {
		if marginRe.MatchString(line) {
			sc.margin = present
		} else {
			sc.margin = absent
		}
	}
	if sc.margin == present {
		if loc := marginRe.FindStringIndex(line); loc != nil {
			line = line[loc[1]:]
			blank = strings.TrimSpace(line) == ""
		}
	}

	if sc.indentState == undecided && !blank {
		sc.indent = len(line) - len(strings.TrimLeft(line, " \t\v\f"))
		sc.indentState = present
	}

	stripped, err := stripIndent(line, sc.indent)
	if err != nil {
		return &CommentError{Line: sc.line, Msg: err.Error()}
	}
	sc.out.WriteString(stripped)
	sc.out.WriteByte('\n')
	return nil
}

// stripIndent removes the n-space indentation of a comment body line. Every
// one of the first n chars must be a space; shorter lines must be all spaces.
func stripIndent(line string, n int) (string, error) {
	i := 0
	for i < n && i < len(line) {
		if line[i] != ' ' {
			return "", fmt.Errorf("leading %d chars aren't all spaces: %q", n, line)
		}
		i++
	}
	return line[i:], nil
}

// extractComment returns the body of the doc comment that s starts with.
func extractComment(s string) (string, error) {
	switch {
	case strings.HasPrefix(s, "/*!"):
		return extractBlock(s[len("/*!"):])
	case strings.HasPrefix(s, "//!"):
		return extractLines(s)
	default:
		return "", &CommentError{Msg: "no doc comment found"}
	}
}

func extractBlock(s string) (string, error) {
	sc := &commentScanner{allowMargin: true}
	depth := 1
	for _, line := range splitLines(s) {
		line, closed := scanNesting(line, &depth)
		if closed && strings.TrimSpace(line) == "" {
			return sc.out.String(), nil
		}
		if err := sc.feed(line); err != nil {
			return "", err
		}
		if closed {
			return sc.out.String(), nil
		}
	}
	return "", &CommentError{Msg: "unterminated block comment"}
}

// scanNesting walks the /* and */ markers of one line, updating depth. When
// the outermost comment closes it returns the line cut at the closing marker.
func scanNesting(line string, depth *int) (string, bool) {
	for i := 0; i+1 < len(line); i++ {
		switch line[i : i+2] {
		case "/*":
			*depth++
			i++
		case "*/":
			if *depth == 1 {
				*depth = 0
				return line[:i], true
			}
			*depth--
			i++
		}
	}
	return line, false
}

func extractLines(s string) (string, error) {
	sc := &commentScanner{}
	for _, line := range splitLines(s) {
		loc := lineDocRe.FindStringIndex(line)
		if loc == nil {
			break
		}
		if err := sc.feed(line[loc[1]:]); err != nil {
			return "", err
		}
	}
	return sc.out.String(), nil
}
