package domain

// DependencyEdge is a named requirement declared by one package record,
// not yet bound to a concrete location.
type DependencyEdge struct {
	// From is the hierarchy path of the declaring record.
	From HierarchyPath

	// Name is the required package name.
	Name InternedString

	// Optional marks edges whose target may be absent without failing
	// the closure.
	Optional bool
}

// ResolvedDependency is a DependencyEdge bound to a concrete hierarchy
// path, either by nearest-ancestor search or by workspace-name binding.
type ResolvedDependency struct {
	DependencyEdge

	// To is the location the name was bound to.
	To HierarchyPath
}
