package main

import (
	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/rsrun/internal/build"
	"github.com/jorge-barreto/rsrun/internal/errs"
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "expr", Aliases: []string{"e"}, Usage: "Treat the argument as an expression to evaluate and print"},
		&cli.BoolFlag{Name: "loop", Aliases: []string{"l"}, Usage: "Treat the argument as a closure called for every line of stdin"},
		&cli.BoolFlag{Name: "count", Usage: "Pass the line number to the --loop closure as a second argument"},
		&cli.StringSliceFlag{Name: "dep", Aliases: []string{"d"}, Usage: "Add a dependency, as name or name=version (repeatable)"},
		&cli.StringSliceFlag{Name: "extern", Aliases: []string{"x"}, Usage: "Add '#[macro_use] extern crate NAME;' to an expression or loop"},
		&cli.StringSliceFlag{Name: "unstable-feature", Aliases: []string{"u"}, Usage: "Add '#![feature(NAME)]' to an expression or loop"},
		&cli.StringFlag{Name: "features", Usage: "Cargo features to enable"},
		&cli.BoolFlag{Name: "debug", Usage: "Build without optimisations"},
		&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Rebuild even if the cached build is current"},
		&cli.BoolFlag{Name: "package", Aliases: []string{"p"}, Usage: "Generate the package and print its path without building"},
		&cli.StringFlag{Name: "pkg-path", Usage: "Build in this directory instead of the cache"},
		&cli.BoolFlag{Name: "test", Usage: "Run 'cargo test' on the script"},
		&cli.BoolFlag{Name: "bench", Usage: "Run 'cargo bench' on the script"},
		&cli.StringFlag{Name: "toolchain", Aliases: []string{"t"}, Usage: "Rustup toolchain to build with"},
		&cli.BoolFlag{Name: "cargo-output", Aliases: []string{"c"}, Usage: "Show cargo's output while building"},
		&cli.BoolFlag{Name: "clear-cache", Usage: "Delete every cached build before running"},
		&cli.BoolFlag{Name: "verbose", Usage: "Log cache decisions and other diagnostics"},
		&cli.BoolFlag{Name: "stub-hashes", Hidden: true, Usage: "Use a fixed cache id (for tests)"},
	}
}

// runSettings is the parsed form of runFlags.
type runSettings struct {
	Expr, Loop, Count     bool
	Deps                  []string
	Externs, Features     []string
	CargoFeatures         string
	Debug, Force, Package bool
	PkgPath               string
	Test, Bench           bool
	Toolchain             string
	CargoOutput           bool
	ClearCache            bool
	StubHashes            bool
}

func settingsFrom(cmd *cli.Command) runSettings {
	return runSettings{
		Expr:          cmd.Bool("expr"),
		Loop:          cmd.Bool("loop"),
		Count:         cmd.Bool("count"),
		Deps:          cmd.StringSlice("dep"),
		Externs:       cmd.StringSlice("extern"),
		Features:      cmd.StringSlice("unstable-feature"),
		CargoFeatures: cmd.String("features"),
		Debug:         cmd.Bool("debug"),
		Force:         cmd.Bool("force"),
		Package:       cmd.Bool("package"),
		PkgPath:       cmd.String("pkg-path"),
		Test:          cmd.Bool("test"),
		Bench:         cmd.Bool("bench"),
		Toolchain:     cmd.String("toolchain"),
		CargoOutput:   cmd.Bool("cargo-output"),
		ClearCache:    cmd.Bool("clear-cache"),
		StubHashes:    cmd.Bool("stub-hashes"),
	}
}

// validate rejects flag combinations that have no sensible meaning.
func (s runSettings) validate() error {
	type conflict struct {
		a, b string
		aSet bool
		bSet bool
	}
	conflicts := []conflict{
		{"--expr", "--loop", s.Expr, s.Loop},
		{"--package", "--debug", s.Package, s.Debug},
		{"--package", "--force", s.Package, s.Force},
		{"--package", "--test", s.Package, s.Test},
		{"--package", "--bench", s.Package, s.Bench},
		{"--pkg-path", "--force", s.PkgPath != "", s.Force},
		{"--test", "--bench", s.Test, s.Bench},
		{"--test", "--debug", s.Test, s.Debug},
		{"--test", "--force", s.Test, s.Force},
		{"--bench", "--debug", s.Bench, s.Debug},
		{"--bench", "--force", s.Bench, s.Force},
		{"--toolchain", "--bench", s.Toolchain != "", s.Bench},
	}
	for _, c := range conflicts {
		if c.aSet && c.bSet {
			return errs.Humanf("%s cannot be used with %s", c.a, c.b)
		}
	}
	if s.Count && !s.Loop {
		return errs.Humanf("--count requires --loop")
	}
	if !s.Expr && !s.Loop {
		if len(s.Externs) > 0 {
			return errs.Humanf("--extern requires --expr or --loop")
		}
		if len(s.Features) > 0 {
			return errs.Humanf("--unstable-feature requires --expr or --loop")
		}
	}
	return nil
}

func (s runSettings) kind() build.Kind {
	switch {
	case s.Test:
		return build.Test
	case s.Bench:
		return build.Bench
	}
	return build.Normal
}
