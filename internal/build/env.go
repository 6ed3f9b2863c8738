package build

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/jorge-barreto/rsrun/internal/errs"
)

// Vars are the paths exported to cargo and to the script.
type Vars struct {
	ScriptPath string // empty for expressions and loops
	BasePath   string
	PkgPath    string
}

// Env returns base (os.Environ() when nil) with the RSRUN_ variables added.
func Env(base []string, v Vars) []string {
	if base == nil {
		base = os.Environ()
	}
	result := make([]string, len(base), len(base)+3)
	copy(result, base)
	return append(result,
		"RSRUN_SCRIPT_PATH="+v.ScriptPath,
		"RSRUN_BASE_PATH="+v.BasePath,
		"RSRUN_PKG_PATH="+v.PkgPath,
	)
}

// Preflight checks that the cargo binary is available.
func Preflight(binary string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return errs.Humanf("%s not found in PATH; install Rust from https://rustup.rs", binary)
	}
	return nil
}

// Exec runs the compiled script with the terminal attached and returns its
// exit code.
func Exec(ctx context.Context, exe string, args, env []string) (int, error) {
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	code, err := exitCode(cmd.Run())
	if err != nil {
		return 0, fmt.Errorf("running %s: %w", exe, err)
	}
	return code, nil
}
