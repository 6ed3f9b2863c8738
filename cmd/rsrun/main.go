package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jorge-barreto/rsrun/internal/build"
	"github.com/jorge-barreto/rsrun/internal/cache"
	"github.com/jorge-barreto/rsrun/internal/config"
	"github.com/jorge-barreto/rsrun/internal/docs"
	"github.com/jorge-barreto/rsrun/internal/errs"
	"github.com/jorge-barreto/rsrun/internal/manifest"
	"github.com/jorge-barreto/rsrun/internal/runner"
	"github.com/jorge-barreto/rsrun/internal/scaffold"
	"github.com/jorge-barreto/rsrun/internal/script"
	"github.com/jorge-barreto/rsrun/internal/template"
	"github.com/jorge-barreto/rsrun/internal/ux"
)

// exitStatus carries a script's non-zero exit code out of the command tree.
type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func main() {
	app := &cli.Command{
		Name:        "rsrun",
		Usage:       "Compile and run Rust scripts with embedded Cargo manifests",
		ArgsUsage:   "<script|expr> [args...]",
		Description: "Run 'rsrun docs' for documentation on manifests, expressions, the build cache, and configuration.",
		Flags:       runFlags(),
		Action:      runAction,
		Commands: []*cli.Command{
			cacheCmd(),
			templatesCmd(),
			newCmd(),
			docsCmd(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args)
	stop()
	os.Exit(exitCode(err, app.Bool("verbose")))
}

// exitCode reports err and maps it to the process exit status.
func exitCode(err error, verbose bool) int {
	if err == nil {
		return 0
	}
	var status exitStatus
	if errors.As(err, &status) {
		return int(status)
	}
	ux.Error(err)
	if !errs.IsHuman(err) && verbose {
		for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
			fmt.Fprintf(os.Stderr, "  caused by (%T): %v\n", e, e)
		}
	}
	var failure *build.Failure
	if errors.As(err, &failure) && failure.Kind != build.Normal {
		return failure.Code
	}
	return 1
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// env bundles what every command needs.
type env struct {
	cfg   *config.Config
	cache *cache.Cache
	log   *zap.Logger
}

func setup(cmd *cli.Command) (*env, error) {
	log := newLogger(cmd.Bool("verbose"))
	path, err := config.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("locating config: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errs.Human(fmt.Errorf("loading config: %w", err))
	}
	root, err := cfg.CacheRoot()
	if err != nil {
		return nil, err
	}
	log.Debug("configuration loaded", zap.String("config", path), zap.String("cache", root))
	return &env{cfg: cfg, cache: cache.New(root, log), log: log}, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	s := settingsFrom(cmd)
	if err := s.validate(); err != nil {
		return err
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	args := cmd.Args().Slice()
	if s.ClearCache {
		n, err := e.cache.Clear()
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintf(ux.Out, "%sCleared %d cache entries%s\n", ux.Dim, n, ux.Reset)
		if len(args) == 0 {
			return nil
		}
	}
	if len(args) == 0 {
		return errs.Humanf("a script path is required (or --expr/--loop with code); run 'rsrun --help'")
	}

	var in script.Input
	switch {
	case s.Expr:
		in = script.NewExpr(args[0])
	case s.Loop:
		in = script.NewLoop(args[0], s.Count)
	default:
		if in, err = script.Load(args[0]); err != nil {
			return err
		}
	}

	toolchain := s.Toolchain
	if toolchain == "" {
		toolchain = e.cfg.Toolchain
	}
	r := &runner.Runner{
		Cache:     e.cache,
		Builder:   &build.Cargo{Binary: e.cfg.Cargo},
		Templates: template.NewStore(e.cfg.TemplateRoot()),
		Config:    e.cfg,
		Hasher:    script.Hasher{Stub: s.StubHashes},
		Log:       e.log,
	}
	code, err := r.Run(ctx, runner.Options{
		Input:            in,
		Args:             args[1:],
		Deps:             s.Deps,
		Externs:          s.Externs,
		UnstableFeatures: s.Features,
		Features:         s.CargoFeatures,
		Toolchain:        toolchain,
		Debug:            s.Debug,
		Force:            s.Force,
		GenPkgOnly:       s.Package,
		PkgPath:          s.PkgPath,
		Kind:             s.kind(),
		ShowOutput:       s.CargoOutput || e.cfg.CargoOutput,
		NoSweep:          s.ClearCache,
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return exitStatus(code)
	}
	return nil
}

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and clean the build cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached builds",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					e, err := setup(cmd)
					if err != nil {
						return err
					}
					entries, err := e.cache.List()
					if err != nil {
						return err
					}
					ux.RenderCacheList(os.Stdout, e.cache.Root, entries, time.Now())
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Delete every cached build",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					e, err := setup(cmd)
					if err != nil {
						return err
					}
					n, err := e.cache.Clear()
					fmt.Printf("Cleared %d cache entries\n", n)
					return err
				},
			},
			{
				Name:  "sweep",
				Usage: "Delete cached builds older than max-cache-age",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					e, err := setup(cmd)
					if err != nil {
						return err
					}
					report, err := e.cache.Sweep(time.Duration(e.cfg.MaxCacheAge), time.Now())
					if err != nil {
						return err
					}
					ux.Swept(len(report.Removed))
					for id, ferr := range report.Failed {
						ux.Warn("could not evict %s: %v", id, ferr)
					}
					return nil
				},
			},
		},
	}
}

func templatesCmd() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "List template overrides",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			dir := e.cfg.TemplateRoot()
			names, err := template.NewStore(dir).List()
			if err != nil {
				return err
			}
			fmt.Printf("%sTemplate directory:%s %s\n\n", ux.Bold, ux.Reset, dir)
			if len(names) == 0 {
				fmt.Println("  (no overrides)")
			}
			for _, name := range names {
				fmt.Printf("  %s%s%s  %s\n", ux.Cyan, name, ux.Reset, filepath.Join(dir, name+".rs"))
			}
			fmt.Printf("\nBuilt-in: %s, %s, %s, %s\n", template.File, template.Expr, template.Loop, template.LoopCount)
			return nil
		},
	}
}

func newCmd() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a script with an embedded Cargo manifest",
		ArgsUsage: "<name> [--dep name=version]...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return errs.Humanf("script name argument is required")
			}
			deps, err := manifest.ParseDeps(cmd.StringSlice("dep"))
			if err != nil {
				return err
			}
			_, err = scaffold.New(os.Stdout, name, deps)
			return err
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'rsrun docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}
