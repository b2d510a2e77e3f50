// Package closure computes the transitive package set reachable from one
// or more roots, with required/optional edge semantics.
package closure

import (
	"errors"

	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/plank/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// maxNodes caps a single traversal. Real lockfiles stay well below
// this; hitting it means the input is pathological.
const maxNodes = 1 << 20

// Builder computes closures over one parsed lockfile index.
type Builder struct {
	idx *domain.Index
}

// NewBuilder creates a Builder over the given index.
func NewBuilder(idx *domain.Index) *Builder {
	return &Builder{idx: idx}
}

type workItem struct {
	path     domain.HierarchyPath
	optional bool
}

// Build traverses dependency edges breadth-first from the given roots.
// The visited set is keyed by hierarchy path and first-seen wins: once a
// path is visited its children are not re-traversed, even if a later,
// differently-classified edge reaches the same path. A required edge to
// an unresolvable name aborts the whole closure with
// ErrUnresolvedRequiredDependency; an unresolvable optional edge is
// dropped silently. Traversal order is deterministic: roots in the given
// order, then the record's edge order as the parser emitted it.
func (b *Builder) Build(roots ...domain.HierarchyPath) (*domain.Closure, error) {
	c := domain.NewClosure()

	queue := make([]workItem, 0, len(roots))
	for _, r := range roots {
		queue = append(queue, workItem{path: r})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if !c.Add(item.path, item.optional) {
			continue
		}
		if c.Len() > maxNodes {
			return nil, zerr.With(zerr.Wrap(domain.ErrClosureTooLarge, "building closure"), "limit", maxNodes)
		}

		// A link record points at a local directory that declares the
		// real dependencies and anchors nested resolution; pull the
		// target into the closure with the same classification.
		if rec, ok := b.idx.Record(item.path); ok && rec.IsLink {
			if target := domain.HierarchyPath(rec.Source.Resolved); target != item.path {
				queue = append(queue, workItem{path: target, optional: item.optional})
			}
		}

		for _, edge := range b.idx.Edges(item.path) {
			dep, err := resolver.ResolveEdge(b.idx, edge)
			if err != nil {
				if edge.Optional && errors.Is(err, domain.ErrUnresolved) {
					continue
				}
				err = zerr.Wrap(err, domain.ErrUnresolvedRequiredDependency.Error())
				err = zerr.With(err, "from", edge.From.String())
				return nil, zerr.With(err, "name", edge.Name.String())
			}
			queue = append(queue, workItem{
				path:     dep.To,
				optional: item.optional || edge.Optional,
			})
		}
	}

	return c, nil
}
