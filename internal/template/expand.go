package template

import (
	"fmt"
	"regexp"
	"strings"
)

var subRe = regexp.MustCompile(`#\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// UnknownSubstitutionError is returned when a template names a placeholder
// that has no value.
type UnknownSubstitutionError struct {
	Name string
}

func (e *UnknownSubstitutionError) Error() string {
	return fmt.Sprintf("substitution `%s` in template is unknown", e.Name)
}

func (e *UnknownSubstitutionError) HumanError() bool { return true }

// Expand replaces every #{name} placeholder in tmpl with subs[name].
// Replacement text is copied literally and never re-scanned.
func Expand(tmpl string, subs map[string]string) (string, error) {
	size := len(tmpl)
	for _, v := range subs {
		size += len(v)
	}

	var b strings.Builder
	b.Grow(size)

	anchor := 0
	for _, m := range subRe.FindAllStringSubmatchIndex(tmpl, -1) {
		b.WriteString(tmpl[anchor:m[0]])
		anchor = m[1]

		name := tmpl[m[2]:m[3]]
		v, ok := subs[name]
		if !ok {
			return "", &UnknownSubstitutionError{Name: name}
		}
		b.WriteString(v)
	}
	b.WriteString(tmpl[anchor:])
	return b.String(), nil
}
