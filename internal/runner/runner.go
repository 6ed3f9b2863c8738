package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jorge-barreto/rsrun/internal/build"
	"github.com/jorge-barreto/rsrun/internal/cache"
	"github.com/jorge-barreto/rsrun/internal/config"
	"github.com/jorge-barreto/rsrun/internal/errs"
	"github.com/jorge-barreto/rsrun/internal/manifest"
	"github.com/jorge-barreto/rsrun/internal/script"
	"github.com/jorge-barreto/rsrun/internal/template"
	"github.com/jorge-barreto/rsrun/internal/ux"
)

// ExecFunc runs a compiled script and returns its exit code.
type ExecFunc func(ctx context.Context, exe string, args, env []string) (int, error)

// Runner drives one invocation: decide, generate, build, run, sweep.
type Runner struct {
	Cache     *cache.Cache
	Builder   build.Builder
	Templates *template.Store
	Config    *config.Config
	Hasher    script.Hasher
	Log       *zap.Logger
	Now       func() time.Time
	Stdout    io.Writer
	Exec      ExecFunc
}

// Options are the per-invocation choices.
type Options struct {
	Input            script.Input
	Args             []string // passed to the script
	Deps             []string // name[=version] specs
	Externs          []string // expr/loop only
	UnstableFeatures []string // expr/loop only
	Features         string
	Toolchain        string
	Debug            bool
	Force            bool
	GenPkgOnly       bool
	PkgPath          string // user-chosen package directory; never a cache entry
	Kind             build.Kind
	ShowOutput       bool
	NoSweep          bool
}

// Plan is the result of Prepare.
type Plan struct {
	ID           string
	PkgDir       string
	ExePath      string
	UserOverride bool
	Metadata     *cache.Metadata
	Decision     cache.Decision
	Env          []string
}

func (r *Runner) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Prelude turns extern crates and unstable features into prelude lines,
// sorted so crate attributes come before items.
func Prelude(externs, features []string) []string {
	var items []string
	for _, f := range features {
		items = append(items, fmt.Sprintf("#![feature(%s)]", f))
	}
	for _, e := range externs {
		items = append(items, fmt.Sprintf("#[macro_use] extern crate %s;", e))
	}
	sort.Strings(items)
	return items
}

// Prepare decides what to do with the script and, unless the cached artifact
// can be reused, generates the package and (except for GenPkgOnly) builds
// it. Metadata is persisted only after a successful normal build inside the
// managed cache.
func (r *Runner) Prepare(ctx context.Context, opts Options) (*Plan, error) {
	in := opts.Input
	deps, err := manifest.ParseDeps(opts.Deps)
	if err != nil {
		return nil, err
	}
	prelude := Prelude(opts.Externs, opts.UnstableFeatures)
	if in.Kind == script.File && len(prelude) > 0 {
		return nil, errs.Humanf("--extern and --unstable-feature only apply to expressions and loops")
	}

	plan := &Plan{ID: r.Hasher.ID(in, deps)}
	if opts.PkgPath != "" {
		abs, err := filepath.Abs(opts.PkgPath)
		if err != nil {
			return nil, fmt.Errorf("resolving package path: %w", err)
		}
		plan.PkgDir = abs
		plan.UserOverride = true
	} else {
		plan.PkgDir = r.Cache.EntryPath(plan.ID)
	}
	plan.ExePath = cache.ExePath(plan.PkgDir, in.SafeName(), opts.Debug)
	plan.Metadata = newMetadata(in, opts, deps, prelude)

	plan.Decision = cache.Decide(cache.Request{
		PkgDir:       plan.PkgDir,
		ExePath:      plan.ExePath,
		Metadata:     plan.Metadata,
		Force:        opts.Force,
		GenPkgOnly:   opts.GenPkgOnly,
		UserOverride: plan.UserOverride,
	})
	if plan.Decision.Action == cache.Execute && opts.Kind != build.Normal {
		plan.Decision = cache.Decision{Action: cache.Compile, Reason: "cargo " + opts.Kind.Subcommand() + " always runs"}
	}
	r.log().Debug("cache decision",
		zap.String("id", plan.ID),
		zap.String("pkg", plan.PkgDir),
		zap.String("action", plan.Decision.Action.String()),
		zap.String("reason", plan.Decision.Reason))

	baseDir, err := in.BaseDir()
	if err != nil {
		return nil, fmt.Errorf("resolving base directory: %w", err)
	}
	plan.Env = build.Env(nil, build.Vars{ScriptPath: in.Path, BasePath: baseDir, PkgPath: plan.PkgDir})

	if plan.Decision.Action == cache.Execute {
		return plan, nil
	}

	if err := r.generate(in, opts, plan, deps, prelude, baseDir); err != nil {
		return nil, err
	}
	if plan.Decision.Action == cache.Generate {
		return plan, nil
	}

	ux.Compiling(in.SafeName(), plan.Decision.Reason)
	start := r.now()
	err = r.Builder.Build(ctx, build.Request{
		Kind:         opts.Kind,
		ManifestPath: filepath.Join(plan.PkgDir, cache.ManifestFile),
		TargetDir:    filepath.Join(plan.PkgDir, "target"),
		Debug:        opts.Debug,
		Features:     opts.Features,
		Toolchain:    opts.Toolchain,
		Env:          plan.Env,
		ShowOutput:   opts.ShowOutput,
	})
	if err != nil {
		var failure *build.Failure
		if errors.As(err, &failure) && opts.Kind == build.Normal {
			ux.BuildFail(in.SafeName(), err.Error())
		}
		return nil, err
	}
	if opts.Kind != build.Normal {
		return plan, nil
	}
	ux.Compiled(in.SafeName(), r.now().Sub(start))

	if !plan.UserOverride {
		if err := cache.SaveMetadata(plan.PkgDir, plan.Metadata); err != nil {
			return nil, fmt.Errorf("saving metadata: %w", err)
		}
	}
	return plan, nil
}

func (r *Runner) generate(in script.Input, opts Options, plan *Plan, deps []manifest.Dep, prelude []string, baseDir string) error {
	tmpl, err := r.Templates.Get(in.TemplateName())
	if err != nil {
		return err
	}
	safe := in.SafeName()
	binPath := filepath.Join(plan.PkgDir, safe+".rs")
	composed, err := manifest.Compose(manifest.ComposeInput{
		Source:   in.Content,
		IsFile:   in.Kind == script.File,
		Template: tmpl,
		Prelude:  prelude,
		BaseDir:  baseDir,
		Deps:     deps,
		DefaultOptions: manifest.DefaultOptions{
			Name:      safe,
			BinPath:   binPath,
			Edition:   r.Config.Edition,
			Toolchain: opts.Toolchain,
		},
	})
	if err != nil {
		return err
	}
	return cache.WritePackage(plan.PkgDir, []cache.File{
		{Name: cache.ManifestFile, Data: []byte(composed.Manifest)},
		{Name: safe + ".rs", Data: []byte(composed.Source)},
	})
}

func newMetadata(in script.Input, opts Options, deps []manifest.Dep, prelude []string) *cache.Metadata {
	m := &cache.Metadata{
		Debug:   opts.Debug,
		Deps:    deps,
		Prelude: prelude,
	}
	if in.Kind == script.File {
		path, modified := in.Path, in.Modified
		m.Path = &path
		m.Modified = &modified
	}
	if opts.Features != "" {
		features := opts.Features
		m.Features = &features
	}
	return m
}

// Run prepares the script, then prints the package path (GenPkgOnly), reports
// the cargo test/bench result, or executes the artifact. The cache is swept
// afterwards unless opts.NoSweep is set.
func (r *Runner) Run(ctx context.Context, opts Options) (int, error) {
	plan, err := r.Prepare(ctx, opts)
	if err != nil {
		return 0, err
	}

	code := 0
	switch {
	case plan.Decision.Action == cache.Generate:
		fmt.Fprintln(r.stdout(), plan.PkgDir)
	case opts.Kind != build.Normal:
	default:
		exec := r.Exec
		if exec == nil {
			exec = build.Exec
		}
		if code, err = exec(ctx, plan.ExePath, opts.Args, plan.Env); err != nil {
			return 0, err
		}
	}

	if !opts.NoSweep {
		var keep []string
		if !plan.UserOverride {
			keep = append(keep, plan.ID)
		}
		r.Sweep(keep...)
	}
	return code, nil
}

// Sweep evicts stale cache entries other than keep. Failures are logged,
// never returned.
func (r *Runner) Sweep(keep ...string) {
	report, err := r.Cache.Sweep(time.Duration(r.Config.MaxCacheAge), r.now(), keep...)
	if err != nil {
		r.log().Warn("cache sweep failed", zap.Error(err))
		return
	}
	r.log().Debug("cache swept",
		zap.Int("removed", len(report.Removed)),
		zap.Int("kept", report.Kept),
		zap.Int("failed", len(report.Failed)))
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}
