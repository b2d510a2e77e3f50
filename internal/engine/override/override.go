// Package override applies user substitutions to the resolved artifact
// set via lazy fixpoint evaluation.
package override

import "go.trai.ch/plank/internal/core/domain"

// BaseFunc derives the pre-override artifact for a hierarchy path, if
// the path carries one. Derivation stays lazy: a path is only derived
// when a substitution (or the final plan) actually reads it.
type BaseFunc func(domain.HierarchyPath) (domain.Artifact, bool)

// Engine applies one override set. Substitutions bind per physical
// hierarchy path: overriding one occurrence of a package leaves other
// occurrences untouched.
type Engine struct {
	set domain.OverrideSet
}

// NewEngine creates an Engine for the given override set.
func NewEngine(set domain.OverrideSet) *Engine {
	return &Engine{set: set}
}

// source memoizes lazy base derivations. Each path is derived at most
// once per Apply pass, and only when read — a substitution that never
// touches unrelated paths never forces them.
type source struct {
	base BaseFunc
	memo map[domain.HierarchyPath]memoEntry
}

type memoEntry struct {
	artifact domain.Artifact
	ok       bool
}

var _ domain.OverrideSource = (*source)(nil)

// Artifact returns the memoized pre-override artifact at p.
func (s *source) Artifact(p domain.HierarchyPath) (domain.Artifact, bool) {
	if e, done := s.memo[p]; done {
		return e.artifact, e.ok
	}
	art, ok := s.base(p)
	s.memo[p] = memoEntry{artifact: art, ok: ok}
	return art, ok
}

// Apply evaluates the override set over the given paths in order and
// returns the post-override artifacts, skipping paths that derive no
// artifact. Substitution functions see only pre-override values, never
// each other's output, so evaluation reaches its fixpoint in a single
// pass regardless of ordering.
func (e *Engine) Apply(paths []domain.HierarchyPath, base BaseFunc) []domain.Artifact {
	src := &source{
		base: base,
		memo: make(map[domain.HierarchyPath]memoEntry, len(paths)),
	}

	out := make([]domain.Artifact, 0, len(paths))
	for _, p := range paths {
		if fn, ok := e.set.Map[p]; ok {
			out = append(out, fn(src))
			continue
		}
		if art, ok := src.Artifact(p); ok {
			out = append(out, art)
		}
	}
	return out
}
