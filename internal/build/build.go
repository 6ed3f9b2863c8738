// Package build drives cargo to compile a generated package and runs the
// resulting executable.
package build

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Kind selects the cargo subcommand.
type Kind int

const (
	Normal Kind = iota
	Test
	Bench
)

// Subcommand is the cargo subcommand for k.
func (k Kind) Subcommand() string {
	switch k {
	case Test:
		return "test"
	case Bench:
		return "bench"
	}
	return "build"
}

func (k Kind) String() string { return k.Subcommand() }

// Request describes one cargo invocation.
type Request struct {
	Kind         Kind
	ManifestPath string
	TargetDir    string
	Debug        bool
	Features     string
	Toolchain    string
	Env          []string // full environment; nil inherits
	ShowOutput   bool
}

// Args is the cargo argument list for r.
func (r Request) Args() []string {
	var args []string
	if r.Toolchain != "" {
		args = append(args, "+"+r.Toolchain)
	}
	args = append(args, r.Kind.Subcommand(), "--manifest-path", r.ManifestPath)
	if r.TargetDir != "" {
		args = append(args, "--target-dir", r.TargetDir)
	}
	if !r.Debug && r.Kind != Bench {
		args = append(args, "--release")
	}
	if r.Features != "" {
		args = append(args, "--features", r.Features)
	}
	return args
}

// Failure is a cargo run that exited non-zero.
type Failure struct {
	Kind Kind
	Code int
}

func (f *Failure) Error() string {
	return fmt.Sprintf("cargo %s failed with exit code %d", f.Kind.Subcommand(), f.Code)
}

func (f *Failure) HumanError() bool { return true }

// Builder compiles packages. Tests substitute a fake.
type Builder interface {
	Build(ctx context.Context, req Request) error
}

// Cargo runs the cargo binary.
type Cargo struct {
	Binary string // defaults to "cargo"
	Stderr io.Writer
}

func (c *Cargo) binary() string {
	if c.Binary == "" {
		return "cargo"
	}
	return c.Binary
}

func (c *Cargo) stderr() io.Writer {
	if c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}

// Build runs cargo for req. Output is captured and only echoed when the build
// fails, unless req.ShowOutput streams it.
func (c *Cargo) Build(ctx context.Context, req Request) error {
	if err := Preflight(c.binary()); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, c.binary(), req.Args()...)
	cmd.Env = req.Env

	var captured bytes.Buffer
	if req.ShowOutput {
		cmd.Stdout = c.stderr()
		cmd.Stderr = c.stderr()
	} else {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	}

	code, err := exitCode(cmd.Run())
	if err != nil {
		return fmt.Errorf("running %s: %w", c.binary(), err)
	}
	if code != 0 {
		if !req.ShowOutput {
			c.stderr().Write(captured.Bytes())
		}
		return &Failure{Kind: req.Kind, Code: code}
	}
	return nil
}
