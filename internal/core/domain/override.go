package domain

// OverrideSource is the lazy view of the pre-override artifact set
// handed to substitution functions. Only paths actually read through it
// are forced; looking up a path never fails the overall evaluation.
type OverrideSource interface {
	// Artifact returns the pre-override artifact planned at the given
	// path, if any.
	Artifact(p HierarchyPath) (Artifact, bool)
}

// OverrideFunc substitutes the artifact at one physical hierarchy path.
// The base view lets a function wrap the pre-override value rather than
// only replace it. Functions never observe the output of other
// overrides.
type OverrideFunc func(base OverrideSource) Artifact

// OverrideMap maps physical hierarchy paths to substitution functions.
// Overriding one occurrence of a package does not affect another
// occurrence at a different path.
type OverrideMap map[HierarchyPath]OverrideFunc

// OverrideSet pairs an OverrideMap with a stable fingerprint of the
// declarative rules it was compiled from. The fingerprint identifies the
// override set in plan memoization keys.
type OverrideSet struct {
	Map         OverrideMap
	Fingerprint string
}

// Empty reports whether the set carries no substitutions.
func (s OverrideSet) Empty() bool {
	return len(s.Map) == 0
}
