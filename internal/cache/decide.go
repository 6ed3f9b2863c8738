package cache

import "os"

// Action is what to do with a package.
type Action int

const (
	// Compile (re)builds the package and then runs it.
	Compile Action = iota
	// Execute reuses the existing artifact.
	Execute
	// Generate writes the package without building it.
	Generate
)

func (a Action) String() string {
	switch a {
	case Compile:
		return "compile"
	case Execute:
		return "execute"
	case Generate:
		return "generate"
	}
	return "unknown"
}

// Request is the input to Decide.
type Request struct {
	PkgDir       string
	ExePath      string
	Metadata     *Metadata // freshly computed for this invocation
	Force        bool
	GenPkgOnly   bool
	UserOverride bool // PkgDir was chosen by the user and is not a cache entry
}

// Decision is the outcome of Decide.
type Decision struct {
	Action Action
	Reason string
}

// Decide chooses whether the artifact in r.PkgDir can be reused. Checks run in
// order and stop at the first reason to rebuild. Unreadable metadata forces a
// rebuild and is not an error.
func Decide(r Request) Decision {
	switch {
	case r.GenPkgOnly:
		return Decision{Generate, "package generation only"}
	case r.Force:
		return Decision{Compile, "rebuild forced"}
	}

	if !r.UserOverride {
		old, err := LoadMetadata(r.PkgDir)
		switch {
		case err != nil:
			return Decision{Compile, "cached metadata unreadable: " + err.Error()}
		case old == nil:
			return Decision{Compile, "no cached metadata"}
		case !old.Equal(r.Metadata):
			return Decision{Compile, "cached metadata differs"}
		}
	}

	info, err := os.Stat(r.ExePath)
	if err != nil || !info.Mode().IsRegular() {
		return Decision{Compile, "no compiled artifact"}
	}
	return Decision{Execute, "cached artifact is up to date"}
}
