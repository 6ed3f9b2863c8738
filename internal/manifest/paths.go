package manifest

import "path/filepath"

var depSections = []string{"dependencies", "dev-dependencies", "build-dependencies"}

// ResolvePaths rewrites relative filesystem paths in t to absolute paths
// under baseDir. It covers dependency `path` fields (including per-target
// sections) and the package `build` script.
func ResolvePaths(t Table, baseDir string) {
	for _, section := range depSections {
		resolveDepPaths(t, section, baseDir)
	}

	if targets, ok := asTable(t["target"]); ok {
		for cfg, v := range targets {
			target, ok := asTable(v)
			if !ok {
				continue
			}
			target = cloneMap(target)
			for _, section := range depSections {
				resolveDepPaths(target, section, baseDir)
			}
			targets[cfg] = target
		}
	}

	if pkg, ok := asTable(t["package"]); ok {
		if build, ok := pkg["build"].(string); ok {
			pkg["build"] = absolute(build, baseDir)
		}
	}
}

func resolveDepPaths(parent map[string]any, section, baseDir string) {
	deps, ok := asTable(parent[section])
	if !ok {
		return
	}
	for name, v := range deps {
		dep, ok := asTable(v)
		if !ok {
			continue
		}
		p, ok := dep["path"].(string)
		if !ok || filepath.IsAbs(p) {
			continue
		}
		dep = cloneMap(dep)
		dep["path"] = absolute(p, baseDir)
		deps[name] = dep
	}
}

func absolute(p, baseDir string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
