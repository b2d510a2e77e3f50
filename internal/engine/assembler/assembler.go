// Package assembler converts the flat resolved-path artifact set into
// the nested overlay plan consumed by the external materializer.
package assembler

import (
	"slices"

	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/zerr"
)

// Result is one assembled overlay plan: the recursive module tree, the
// aggregated executable-entrypoint manifest, and the merge collisions
// resolved along the way (diagnostics, never errors).
type Result struct {
	Root       *domain.ModuleTreeNode
	Bins       map[string]string
	Collisions []domain.MergeCollision
}

// Assemble composes per-package artifacts into a nested module tree.
// Every artifact contributes a single-chain subtree along its hierarchy
// path segments, merged into the accumulating root in input order; the
// merge rules classify each node as pass-through, overlay or merge by
// shape. Input order is the lockfile insertion order, which makes
// collision winners deterministic.
func Assemble(artifacts []domain.Artifact) (*Result, error) {
	res := &Result{
		Root: &domain.ModuleTreeNode{},
		Bins: make(map[string]string),
	}

	for _, art := range artifacts {
		chain, err := chainFor(art)
		if err != nil {
			return nil, err
		}
		res.Collisions = append(res.Collisions, domain.Merge(res.Root, chain)...)
	}

	res.Collisions = append(res.Collisions, aggregateBins(artifacts, res.Bins)...)
	return res, nil
}

// chainFor builds the single-chain tree placing one artifact at its
// path. The chain depth equals the lockfile nesting depth; a documented
// ceiling guards against adversarial input.
func chainFor(art domain.Artifact) (*domain.ModuleTreeNode, error) {
	segs := art.Path.Segments()
	if len(segs) == 0 {
		err := zerr.Wrap(domain.ErrMalformedLockfile, "assembling tree")
		return nil, zerr.With(err, "reason", "artifact at root path")
	}
	if len(segs) > domain.MaxHierarchyDepth {
		err := zerr.With(zerr.Wrap(domain.ErrHierarchyTooDeep, "assembling tree"), "path", art.Path.String())
		return nil, zerr.With(err, "limit", domain.MaxHierarchyDepth)
	}

	leaf := &domain.ModuleTreeNode{Artifact: &art}
	node := leaf
	for i := len(segs) - 1; i >= 0; i-- {
		parent := &domain.ModuleTreeNode{}
		parent.PutChild(segs[i], node)
		node = parent
	}
	return node, nil
}

// aggregateBins folds every artifact's executable entrypoints into one
// manifest, name -> path relative to the output root. Artifacts are
// processed in input order and collisions are last-wins, mirroring the
// tree merge rule.
func aggregateBins(artifacts []domain.Artifact, bins map[string]string) []domain.MergeCollision {
	var collisions []domain.MergeCollision
	winners := make(map[string]domain.HierarchyPath)

	for _, art := range artifacts {
		for _, name := range sortedKeys(art.Bin) {
			target := art.Path.String() + "/" + art.Bin[name]
			if prev, seen := winners[name]; seen && bins[name] != target {
				collisions = append(collisions, domain.MergeCollision{
					At:       "bin/" + name,
					Previous: prev.String(),
					Winner:   art.Path.String(),
				})
			}
			winners[name] = art.Path
			bins[name] = target
		}
	}
	return collisions
}

// sortedKeys pins the iteration order of one package's own bin entries;
// across packages the input order governs.
func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
