package scaffold

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jorge-barreto/rsrun/internal/errs"
	"github.com/jorge-barreto/rsrun/internal/manifest"
	"github.com/jorge-barreto/rsrun/internal/ux"
)

const scriptTemplate = `#!/usr/bin/env rsrun
//! %s
//!
//! ` + "```cargo" + `
//! [dependencies]
%s//! ` + "```" + `

fn main() {
    println!("Hello from %s!");
}
`

// Script renders a new script named name with deps in its embedded manifest.
func Script(name string, deps []manifest.Dep) string {
	var lines strings.Builder
	for _, d := range deps {
		fmt.Fprintf(&lines, "//! %s = %s\n", d.Name, quoteVersion(d.Version))
	}
	return fmt.Sprintf(scriptTemplate, name, lines.String(), name)
}

func quoteVersion(v string) string {
	if strings.HasPrefix(v, "{") || strings.HasPrefix(v, `"`) {
		return v
	}
	return `"` + v + `"`
}

// New writes a script at path, adding the .rs extension when path has none.
// Existing files are never overwritten. It returns the path written.
func New(w io.Writer, path string, deps []manifest.Dep) (string, error) {
	if filepath.Ext(path) == "" {
		path += ".rs"
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if name == "" {
		return "", errs.Humanf("invalid script name %q", path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0755)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", errs.Humanf("%s already exists", path)
		}
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.WriteString(Script(name, deps)); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(w, "\n%s%s✓ Created %s%s\n\n", ux.Bold, ux.Green, path, ux.Reset)
	fmt.Fprintf(w, "  Next steps:\n")
	fmt.Fprintf(w, "    1. Add dependencies to the %s```cargo%s block\n", ux.Cyan, ux.Reset)
	fmt.Fprintf(w, "    2. Run %srsrun %s%s\n\n", ux.Cyan, path, ux.Reset)
	return path, nil
}
