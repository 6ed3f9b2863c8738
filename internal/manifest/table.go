// Package manifest builds the Cargo manifest for a script: it finds the
// manifest fragment embedded in the script's leading comment, merges it with a
// generated default and any explicit dependencies, and rewrites relative paths
// so the result can live in a cache directory.
package manifest

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Table is a decoded TOML table. Nested tables are map[string]any; arrays of
// tables are []map[string]any.
type Table map[string]any

// ParseError reports a manifest fragment that is not valid TOML.
type ParseError struct {
	Stage string // "embedded manifest", "dependency list" or "dependencies"
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) HumanError() bool { return true }

// MergeConflictError reports a key that holds a table in one manifest and a
// non-table value in another.
type MergeConflictError struct {
	Key string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("cannot merge manifests: key %q mixes table and non-table values", e.Key)
}

func (e *MergeConflictError) HumanError() bool { return true }

// Parse decodes TOML text, attributing failures to stage.
func Parse(stage, text string) (Table, error) {
	t := Table{}
	if _, err := toml.Decode(text, (*map[string]any)(&t)); err != nil {
		return nil, &ParseError{Stage: stage, Err: err}
	}
	return t, nil
}

// Encode renders t as TOML. Keys are emitted in sorted order.
func Encode(t Table) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(map[string]any(t)); err != nil {
		return "", fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.String(), nil
}

func asTable(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Table:
		return map[string]any(t), true
	}
	return nil, false
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
