package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with rsrun",
		Content: topicQuickstart,
	},
	{
		Name:    "manifest",
		Title:   "Embedded Manifests",
		Summary: "Declaring dependencies inside a script",
		Content: topicManifest,
	},
	{
		Name:    "expressions",
		Title:   "Expressions and Loops",
		Summary: "Running one-liners with --expr and --loop",
		Content: topicExpressions,
	},
	{
		Name:    "cache",
		Title:   "Build Cache",
		Summary: "When scripts are rebuilt and how old builds are evicted",
		Content: topicCache,
	},
	{
		Name:    "templates",
		Title:   "Templates",
		Summary: "Overriding the wrappers used for expressions and loops",
		Content: topicTemplates,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, environment variables, and defaults",
		Content: topicConfig,
	},
}

const topicQuickstart = `QUICK START

rsrun compiles a single Rust source file with cargo, caches the result, and
runs it. The script needs no Cargo.toml of its own.

  rsrun new hello            create hello.rs with an embedded manifest
  rsrun hello.rs             build (first time) and run it
  rsrun hello a b c          arguments after the script go to the script
  rsrun hello -- --flag      use -- before arguments that start with a dash

The extension may be omitted: rsrun tries the name as given, then with .ers,
then with .rs.

Useful flags:

  --debug          build without optimisations
  --force, -f      rebuild even if the cached build is current
  --cargo-output   show cargo's output while building
  --package, -p    generate the package and print its path; do not build
  --pkg-path DIR   build in DIR instead of the cache
  --test, --bench  run cargo test / cargo bench on the script

Run 'rsrun docs manifest' next.
`

const topicManifest = `EMBEDDED MANIFESTS

A script declares its dependencies in its leading comment, in one of two
forms. The first one found wins.

SHORT COMMENT

The very first line of the script (after an optional #! line) may be:

  // cargo-deps: time="0.1.25", libc="0.2.5", regex

Entries are name or name=version; a missing version means "*". Inline tables
are allowed: serde = { version = "1", features = ["derive"] }.

DOC COMMENT CODE BLOCK

A leading //! or /*! doc comment may contain a fenced code block tagged
cargo. Its contents are a Cargo manifest fragment:

  //! Prints the time.
  //!
  //! ` + "```cargo" + `
  //! [dependencies]
  //! time = "0.1.25"
  //! ` + "```" + `

Only the first cargo block counts. Block comments may use a leading * margin.
Indentation is taken from the first line with content; tabs inside that
indentation are rejected.

MERGING

The fragment is merged over a generated default manifest, then --dep values
are merged over the result. A table present in both is merged one level
deep; any other value is replaced. A key that is a table on one side and a
plain value on the other is an error.

Relative path dependencies and package.build are resolved against the
script's directory.
`

const topicExpressions = `EXPRESSIONS AND LOOPS

  rsrun -e '1 + 2'
  rsrun -d regex -x regex -e 'regex::Regex::new("a+").unwrap().is_match("aaa")'

--expr evaluates an expression and prints its value with {:?}.

  cat file | rsrun -l '|line| line.to_uppercase()'
  cat file | rsrun --count -l '|line, n| format!("{}: {}", n, line)'

--loop calls a closure once per line of standard input and prints every
non-unit result. --count passes the 1-based line number as well.

--extern NAME adds #[macro_use] extern crate NAME; and --unstable-feature
NAME adds #![feature(NAME)]. Both apply only to expressions and loops.
`

const topicCache = `BUILD CACHE

Builds live in <user cache dir>/rsrun/script-cache/<id>/, where <id> is
derived from the script's absolute path (files) or from its text and
dependencies (expressions and loops).

Each entry holds the generated Cargo.toml, the generated source, cargo's
target directory, and metadata.json. The metadata records the script path and
modification time, debug/release, dependencies, prelude lines, and features.
A build is reused only when the recorded metadata matches the current
invocation exactly and the executable exists.

metadata.json is written last, after cargo succeeds, so an interrupted build
is never reused.

EVICTION

After every successful run, entries whose metadata.json is older than
max-cache-age (default 168h) are deleted, along with entries that have no
metadata at all.

  rsrun cache list     show entries, their age and size
  rsrun cache sweep    evict stale entries now
  rsrun cache clear    delete every entry
  rsrun --clear-cache  same as cache clear; may be combined with a script

Packages built with --pkg-path are never recorded or evicted.
`

const topicTemplates = `TEMPLATES

Expressions and loops are wrapped in a template before compilation. The
built-in templates are expr, loop and loop-count. Templates use two
placeholders:

  #{prelude}   extern crate and feature lines
  #{script}    the expression or closure text

A file named <name>.rs in the template directory overrides the built-in
template of the same name. An unknown #{placeholder} is an error.

  rsrun templates      list override templates

The template directory defaults to <user config dir>/rsrun/templates and can
be changed with template-dir in the config file.
`

const topicConfig = `CONFIGURATION

rsrun reads <user config dir>/rsrun/config.yaml when it exists.

  cache-dir: /path/to/cache      default: <user cache dir>/rsrun/script-cache
  max-cache-age: 168h            Go duration; must be positive
  edition: "2021"                2015, 2018, 2021 or 2024
  toolchain: nightly             passed to cargo as +nightly
  cargo: cargo                   cargo binary
  template-dir: /path/to/dir     template overrides
  cargo-output: false            always show cargo's output

ENVIRONMENT

These override the file. A .env file in the working directory is loaded
first.

  RSRUN_CACHE_DIR
  RSRUN_MAX_CACHE_AGE
  RSRUN_TOOLCHAIN
  RSRUN_CARGO

Cargo and the script see:

  RSRUN_SCRIPT_PATH   absolute path of the script (empty for expressions)
  RSRUN_BASE_PATH     directory relative paths resolve against
  RSRUN_PKG_PATH      generated package directory
`
