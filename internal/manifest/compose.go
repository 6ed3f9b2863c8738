package manifest

import (
	"errors"
	"strings"

	"github.com/jorge-barreto/rsrun/internal/template"
)

// DefaultOptions describes the generated package.
type DefaultOptions struct {
	Name      string // safe package and binary name
	BinPath   string // absolute path of the generated source file
	Edition   string
	Toolchain string // recorded under [package.metadata.rsrun] when set
}

// DefaultTable returns the manifest every script starts from.
func DefaultTable(o DefaultOptions) Table {
	pkg := map[string]any{
		"name":    o.Name,
		"version": "0.1.0",
		"authors": []any{"Anonymous"},
		"edition": o.Edition,
	}
	if o.Toolchain != "" {
		pkg["metadata"] = map[string]any{
			"rsrun": map[string]any{"toolchain": o.Toolchain},
		}
	}
	return Table{
		"package": pkg,
		"bin": []map[string]any{
			{"name": o.Name, "path": o.BinPath},
		},
		"profile": map[string]any{
			"release": map[string]any{"strip": true},
		},
	}
}

// Table converts the embedded fragment into a manifest table. KindNone
// yields an empty table.
func (e Embedded) Table() (Table, error) {
	switch e.Kind {
	case KindInlineTable:
		return Parse("embedded manifest", e.Text)
	case KindDependencyList:
		return depListTable(e.Text)
	default:
		return Table{}, nil
	}
}

// ComposeInput is everything needed to generate a package's manifest and
// source file.
type ComposeInput struct {
	Source   string // script text; hashbang is stripped when IsFile
	IsFile   bool   // only file scripts may embed a manifest
	Template string // wrapper with #{prelude} and #{script}
	Prelude  []string
	BaseDir  string
	Deps     []Dep
	DefaultOptions
}

// Composed is a generated package.
type Composed struct {
	Manifest string
	Source   string
	Embedded Embedded
}

// Compose extracts, wraps, merges and resolves a script into a package.
// Merge order is default, then embedded, then explicit dependencies.
func Compose(in ComposeInput) (*Composed, error) {
	body := in.Source
	var embedded Embedded
	if in.IsFile {
		if len(in.Prelude) > 0 {
			return nil, errors.New("prelude items are not supported for file scripts")
		}
		body = StripHashbang(body)
		var err error
		if embedded, err = Extract(body); err != nil {
			return nil, err
		}
	}

	var prelude strings.Builder
	for _, item := range in.Prelude {
		prelude.WriteString(item)
		prelude.WriteByte('\n')
	}
	source, err := template.Expand(in.Template, map[string]string{
		"prelude": prelude.String(),
		"script":  body,
	})
	if err != nil {
		return nil, err
	}

	embeddedTable, err := embedded.Table()
	if err != nil {
		return nil, err
	}
	depsTable, err := DepsTable(in.Deps)
	if err != nil {
		return nil, err
	}

	merged, err := Merge(DefaultTable(in.DefaultOptions), embeddedTable)
	if err != nil {
		return nil, err
	}
	if merged, err = Merge(merged, depsTable); err != nil {
		return nil, err
	}
	ResolvePaths(merged, in.BaseDir)

	text, err := Encode(merged)
	if err != nil {
		return nil, err
	}
	return &Composed{Manifest: text, Source: source, Embedded: embedded}, nil
}
