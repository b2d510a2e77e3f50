package domain

// SourceLocator identifies where a package's content comes from:
// a registry/archive URL pinned by an integrity hash, or a local path
// for linked and workspace packages.
type SourceLocator struct {
	// Resolved is the archive URL or local path (e.g. "file:./lib").
	Resolved string `json:"resolved,omitzero"`

	// Integrity is the subresource integrity hash (e.g. "sha512-...")
	// for content verification during the out-of-band fetch.
	Integrity string `json:"integrity,omitzero"`
}

// IsZero reports whether the locator carries no source at all.
func (s SourceLocator) IsZero() bool {
	return s.Resolved == "" && s.Integrity == ""
}

// PackageRecord is one parsed lockfile entry, immutable after parsing.
// The hierarchy path uniquely identifies the record within one lockfile.
type PackageRecord struct {
	// Path is the record's location in the nested module hierarchy.
	Path HierarchyPath

	// Name is the package name. Derived from the path for nested entries,
	// declared explicitly for workspace and linked entries.
	Name InternedString

	// Version is the resolved version string.
	Version InternedString

	// Source locates the package content for the external fetcher.
	Source SourceLocator

	// IsLink marks entries that are symlinks to local directories
	// (workspace members and file: dependencies).
	IsLink bool

	// DevOnly marks entries needed only for development installs.
	DevOnly bool

	// Bundled marks entries shipped inside their parent's archive.
	Bundled bool

	// Bin maps executable entrypoint names to paths relative to the
	// package root.
	Bin map[string]string
}

// Workspace is a locally defined package declared as a member on the
// root lockfile entry. Workspaces form a flat global namespace during
// name resolution.
type Workspace struct {
	// Path is the member's directory relative to the project root.
	Path HierarchyPath

	// Name is the declared package name.
	Name InternedString
}
