package script

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strconv"

	"github.com/jorge-barreto/rsrun/internal/manifest"
)

// IDDigestLen is the number of hex digits kept from the digest.
const IDDigestLen = 24

// Hasher computes cache identifiers. Stub makes every identifier "stub" so
// test fixtures are deterministic.
type Hasher struct {
	Stub bool
}

// ID names the cache entry for in.
//
// A file is identified by its absolute path alone, so editing it in place
// reuses the same entry and rebuilds are driven by its mtime. Expressions and
// loops are identified by their dependencies and text; a loop also mixes in
// its Count flag because that selects a different wrapper.
func (h Hasher) ID(in Input, deps []manifest.Dep) string {
	if h.Stub {
		return "stub"
	}
	d := sha256.New()
	switch in.Kind {
	case File:
		io.WriteString(d, in.Path)
	default:
		sorted := append([]manifest.Dep(nil), deps...)
		manifest.SortDeps(sorted)
		for _, dep := range sorted {
			io.WriteString(d, "dep=")
			io.WriteString(d, dep.Name)
			io.WriteString(d, "=")
			io.WriteString(d, dep.Version)
			io.WriteString(d, ";")
		}
		if in.Kind == Loop {
			io.WriteString(d, "count:"+strconv.FormatBool(in.Count)+";")
		}
		io.WriteString(d, in.Content)
	}
	sum := hex.EncodeToString(d.Sum(nil))
	return sum[:IDDigestLen]
}
