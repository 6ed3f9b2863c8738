package manifest

import (
	"regexp"
	"strings"
)

// CodeBlock is a fenced code block found in Markdown text.
type CodeBlock struct {
	Lang    string // first word of the info string, e.g. "cargo"
	Content string // lines between the fences, each terminated by \n
}

var (
	fenceOpenRe  = regexp.MustCompile("^( {0,3})(`{3,}|~{3,})[ \t]*([^ \t,`]*)")
	fenceCloseRe = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})[ \t]*$")
)

// CodeBlocks extracts fenced code blocks from Markdown text in order of
// appearance. It recognizes openers like:
//
//	```cargo
//	~~~Cargo
//	```cargo,ignore
//
// A block left open runs to the end of the text.
func CodeBlocks(text string) []CodeBlock {
	var blocks []CodeBlock
	var current *CodeBlock
	var fence string
	var indent int
	var buf strings.Builder

	for _, line := range splitLines(text) {
		if current != nil {
			// Inside a block: look for a closing fence of the same kind
			if m := fenceCloseRe.FindStringSubmatch(line); m != nil &&
				m[1][0] == fence[0] && len(m[1]) >= len(fence) {
				current.Content = buf.String()
				blocks = append(blocks, *current)
				current = nil
				continue
			}
			buf.WriteString(trimSpaces(line, indent))
			buf.WriteByte('\n')
			continue
		}

		m := fenceOpenRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// Backtick fences may not carry backticks in the info string.
		if m[2][0] == '`' && strings.Contains(line[len(m[0]):], "`") {
			continue
		}
		current = &CodeBlock{Lang: m[3]}
		indent = len(m[1])
		fence = m[2]
		buf.Reset()
	}

	if current != nil {
		current.Content = buf.String()
		blocks = append(blocks, *current)
	}
	return blocks
}

// FirstCodeBlock returns the content of the first block whose language tag
// equals lang, ignoring case.
func FirstCodeBlock(text, lang string) (string, bool) {
	for _, b := range CodeBlocks(text) {
		if strings.EqualFold(b.Lang, lang) {
			return b.Content, true
		}
	}
	return "", false
}

// trimSpaces removes up to n leading spaces from line.
func trimSpaces(line string, n int) string {
	i := 0
	for i < n && i < len(line) && line[i] == ' ' {
		i++
	}
	return line[i:]
}

// splitLines splits text on \n, dropping a trailing \r from each line and
// the empty element after a final newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
