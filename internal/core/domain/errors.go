package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedLockfile is returned when the lockfile cannot be parsed
	// or violates a structural invariant (e.g. a non-bundled, non-link
	// entry without a source locator).
	ErrMalformedLockfile = zerr.New("malformed lockfile")

	// ErrDuplicatePackagePath is returned when two lockfile entries claim
	// the same hierarchy path.
	ErrDuplicatePackagePath = zerr.New("duplicate package path")

	// ErrUnresolved signals that a dependency name has no binding at any
	// ancestor level. It is recovered silently for optional edges and
	// never surfaces for them.
	ErrUnresolved = zerr.New("dependency not resolvable")

	// ErrUnresolvedRequiredDependency is returned when a required edge
	// points at a name with no binding. It aborts the whole closure.
	ErrUnresolvedRequiredDependency = zerr.New("required dependency not resolvable")

	// ErrCyclicWorkspaceDependency is returned when workspace members
	// depend on each other in a cycle.
	ErrCyclicWorkspaceDependency = zerr.New("cyclic workspace dependency")

	// ErrDuplicateWorkspace is returned when two workspace members
	// declare the same package name.
	ErrDuplicateWorkspace = zerr.New("duplicate workspace name")

	// ErrUnknownWorkspace is returned when a requested target is not a
	// declared workspace member.
	ErrUnknownWorkspace = zerr.New("unknown workspace")

	// ErrHierarchyTooDeep is returned when tree assembly exceeds the
	// nesting ceiling, guarding against pathological or cyclic input.
	ErrHierarchyTooDeep = zerr.New("module hierarchy too deep")

	// ErrClosureTooLarge is returned when a closure traversal exceeds the
	// node-count ceiling.
	ErrClosureTooLarge = zerr.New("dependency closure too large")

	// ErrNoTargetsSpecified is returned when planning is requested
	// without any target.
	ErrNoTargetsSpecified = zerr.New("no targets specified")
)
