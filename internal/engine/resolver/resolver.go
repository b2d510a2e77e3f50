// Package resolver simulates nearest-ancestor name resolution across the
// nested module hierarchy.
package resolver

import (
	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolve binds a dependency name for the requester at from to a
// concrete hierarchy path. A name declared by a workspace member always
// wins: workspaces form a flat global namespace. Otherwise the
// requester's ancestor chain is walked innermost to root, testing
// <ancestor>/node_modules/<name> at each level; the first match wins.
//
// Resolve is a pure function of (from, name, index); it performs no I/O
// and does not depend on evaluation order. No match yields
// domain.ErrUnresolved, which callers recover silently for optional
// edges.
func Resolve(idx *domain.Index, from domain.HierarchyPath, name domain.InternedString) (domain.HierarchyPath, error) {
	if p, ok := idx.WorkspaceByName(name); ok {
		return p, nil
	}

	for anc := range from.Ancestors() {
		cand := anc.ModuleChild(name.String())
		if _, ok := idx.Record(cand); ok {
			return cand, nil
		}
	}

	err := zerr.Wrap(domain.ErrUnresolved, "resolving dependency")
	err = zerr.With(err, "name", name.String())
	return "", zerr.With(err, "from", from.String())
}

// ResolveEdge binds a dependency edge to its concrete target.
func ResolveEdge(idx *domain.Index, edge domain.DependencyEdge) (domain.ResolvedDependency, error) {
	to, err := Resolve(idx, edge.From, edge.Name)
	if err != nil {
		return domain.ResolvedDependency{}, err
	}
	return domain.ResolvedDependency{DependencyEdge: edge, To: to}, nil
}
