package manifest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jorge-barreto/rsrun/internal/errs"
)

// Dep is an explicit dependency: a package name and a version requirement or
// inline table.
type Dep struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

var bareKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ParseDeps turns `name` or `name=version` specs into a sorted, deduplicated
// list. A missing version means "*". The same name with two different
// versions is an error; no resolution is attempted.
func ParseDeps(specs []string) ([]Dep, error) {
	byName := make(map[string]string, len(specs))
	for _, spec := range specs {
		name, version, found := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		version = strings.TrimSpace(version)
		if !found {
			version = "*"
		}
		if name == "" {
			return nil, errs.Humanf("cannot have empty dependency package name")
		}
		if version == "" {
			return nil, errs.Humanf("cannot have empty dependency version")
		}
		if existing, ok := byName[name]; ok && existing != version {
			return nil, errs.Humanf("conflicting versions for dependency '%s': '%s', '%s'", name, existing, version)
		}
		byName[name] = version
	}

	deps := make([]Dep, 0, len(byName))
	for name, version := range byName {
		deps = append(deps, Dep{Name: name, Version: version})
	}
	SortDeps(deps)
	return deps, nil
}

// SortDeps orders deps by name, then version.
func SortDeps(deps []Dep) {
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Name != deps[j].Name {
			return deps[i].Name < deps[j].Name
		}
		return deps[i].Version < deps[j].Version
	})
}

// DepsTable builds a [dependencies] table from explicit pairs.
func DepsTable(deps []Dep) (Table, error) {
	var b strings.Builder
	b.WriteString("[dependencies]\n")
	for _, d := range deps {
		writeDep(&b, d.Name, d.Version)
	}
	return Parse("dependencies", b.String())
}

// depListTable rewrites a `cargo-deps:` payload into a [dependencies] table.
func depListTable(list string) (Table, error) {
	var b strings.Builder
	b.WriteString("[dependencies]\n")
	for _, item := range splitTopLevel(strings.TrimSpace(list)) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, version, found := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &ParseError{Stage: "dependency list", Err: errs.Humanf("empty dependency name in %q", item)}
		}
		switch {
		case !found:
			version = "*"
		case strings.TrimSpace(version) == "":
			return nil, &ParseError{Stage: "dependency list", Err: errs.Humanf("empty version for dependency %q", name)}
		}
		writeDep(&b, name, version)
	}
	return Parse("dependency list", b.String())
}

// writeDep emits one `name = version` line. The version is quoted unless it
// is already a quoted string or an inline table.
func writeDep(b *strings.Builder, name, version string) {
	if bareKeyRe.MatchString(name) {
		b.WriteString(name)
	} else {
		b.WriteString(quote(name))
	}
	b.WriteString(" = ")

	v := strings.TrimSpace(version)
	switch {
	case strings.HasPrefix(v, "{"), strings.HasPrefix(v, `"`), strings.HasPrefix(v, "'"):
		b.WriteString(v)
	default:
		b.WriteString(quote(v))
	}
	b.WriteByte('\n')
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// splitTopLevel splits s on commas that are not nested inside braces,
// brackets or string literals, so inline-table versions survive intact.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	var quoteCh byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quoteCh != 0 {
			if c == '\\' && quoteCh == '"' {
				i++
			} else if c == quoteCh {
				quoteCh = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quoteCh = c
		case '{', '[':
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
