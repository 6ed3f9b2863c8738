// Package script models the three kinds of input rsrun accepts and computes
// the identifier that names each input's cache entry.
package script

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/jorge-barreto/rsrun/internal/errs"
	"github.com/jorge-barreto/rsrun/internal/template"
)

// Kind tags an Input.
type Kind int

const (
	File Kind = iota
	Expr
	Loop
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Expr:
		return "expr"
	case Loop:
		return "loop"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// SearchExts are tried, in order, when a script path without an extension
// does not exist.
var SearchExts = []string{".ers", ".rs"}

// Input is one script to build. It is not modified after construction.
type Input struct {
	Kind     Kind
	Name     string // display name; file stem for files
	Path     string // absolute path; files only
	Content  string
	Modified int64 // mtime in epoch milliseconds; files only
	Count    bool  // loops only: pass the line index to the closure
}

// NewExpr returns an expression input.
func NewExpr(text string) Input {
	return Input{Kind: Expr, Name: "expr", Content: text}
}

// NewLoop returns a loop-body input.
func NewLoop(text string, count bool) Input {
	return Input{Kind: Loop, Name: "loop", Content: text, Count: count}
}

// SafeName is usable as a Cargo package name, binary name and file stem.
func (in Input) SafeName() string {
	switch in.Kind {
	case Expr:
		return "expr"
	case Loop:
		return "loop"
	}
	var b strings.Builder
	for _, r := range in.Name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		return "script"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// BaseDir is the directory relative manifest paths resolve against.
func (in Input) BaseDir() (string, error) {
	if in.Kind == File {
		return filepath.Dir(in.Path), nil
	}
	return os.Getwd()
}

// TemplateName is the built-in template that wraps this input.
func (in Input) TemplateName() string {
	switch in.Kind {
	case Expr:
		return template.Expr
	case Loop:
		if in.Count {
			return template.LoopCount
		}
		return template.Loop
	}
	return template.File
}

// Find resolves a script path. If path does not exist and has no extension,
// each of SearchExts is appended in turn and the first existing file wins.
func Find(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if filepath.Ext(path) == "" {
		for _, ext := range SearchExts {
			candidate := path + ext
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}
	return "", errs.Humanf("script %q not found", path)
}

// Load reads the script at path into a File input.
func Load(path string) (Input, error) {
	found, err := Find(path)
	if err != nil {
		return Input{}, err
	}
	abs, err := filepath.Abs(found)
	if err != nil {
		return Input{}, fmt.Errorf("resolving %s: %w", found, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Input{}, errs.Human(fmt.Errorf("reading script: %w", err))
	}
	if info.IsDir() {
		return Input{}, errs.Humanf("%s is a directory", found)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Input{}, errs.Human(fmt.Errorf("reading script: %w", err))
	}
	stem := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	return Input{
		Kind:     File,
		Name:     stem,
		Path:     abs,
		Content:  string(data),
		Modified: info.ModTime().UnixMilli(),
	}, nil
}
