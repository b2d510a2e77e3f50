// Package domain contains the core domain models and algorithms for
// lockfile resolution and module-tree planning.
package domain

import (
	"iter"
	"strings"
)

// ModuleDir is the directory name under which nested dependencies live.
const ModuleDir = "node_modules"

// HierarchyPath locates a package within the nested module-directory
// convention, e.g. "node_modules/a/node_modules/b" or "packages/app".
// The empty path is the root manifest. It doubles as the identity key
// for package records and as the basis for name resolution.
type HierarchyPath string

// RootPath is the hierarchy path of the root manifest entry.
const RootPath HierarchyPath = ""

// IsRoot reports whether the path identifies the root manifest.
func (p HierarchyPath) IsRoot() bool {
	return p == RootPath
}

// String returns the slash-delimited representation.
func (p HierarchyPath) String() string {
	return string(p)
}

// Segments returns the path split into its segment sequence.
// The root path has no segments.
func (p HierarchyPath) Segments() []string {
	if p.IsRoot() {
		return nil
	}
	return strings.Split(string(p), "/")
}

// Depth returns the number of segments in the path.
func (p HierarchyPath) Depth() int {
	if p.IsRoot() {
		return 0
	}
	return strings.Count(string(p), "/") + 1
}

// ModuleChild returns the location a dependency called name would occupy
// if it were nested directly under this path. Scoped names contribute two
// segments ("@scope/name"), which works out naturally with slash joining.
func (p HierarchyPath) ModuleChild(name string) HierarchyPath {
	if p.IsRoot() {
		return HierarchyPath(ModuleDir + "/" + name)
	}
	return HierarchyPath(string(p) + "/" + ModuleDir + "/" + name)
}

// Parent returns the path with its last segment removed.
// The parent of a single-segment path is the root.
func (p HierarchyPath) Parent() HierarchyPath {
	idx := strings.LastIndexByte(string(p), '/')
	if idx < 0 {
		return RootPath
	}
	return p[:idx]
}

// Ancestors yields the path itself followed by every prefix up to and
// including the root, innermost first. Intermediate prefixes that are not
// package locations (e.g. a bare "node_modules" segment) are yielded too;
// they simply never match a lockfile key during resolution.
func (p HierarchyPath) Ancestors() iter.Seq[HierarchyPath] {
	return func(yield func(HierarchyPath) bool) {
		cur := p
		for {
			if !yield(cur) {
				return
			}
			if cur.IsRoot() {
				return
			}
			cur = cur.Parent()
		}
	}
}

// PackageName derives the package name a path stands for under the nested
// module convention: the segments after the last module directory, which
// is two segments for scoped packages ("@scope/name") and one otherwise.
// Paths outside any module directory (workspace dirs) have no derivable
// name and return "".
func (p HierarchyPath) PackageName() string {
	segs := p.Segments()
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != ModuleDir {
			continue
		}
		rest := segs[i+1:]
		if len(rest) == 0 {
			return ""
		}
		if strings.HasPrefix(rest[0], "@") && len(rest) >= 2 {
			return rest[0] + "/" + rest[1]
		}
		return rest[0]
	}
	return ""
}
