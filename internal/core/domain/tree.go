package domain

import (
	"encoding/json"
	"maps"
)

// MaxHierarchyDepth bounds the nesting of the assembled module tree.
// Lockfiles are written by tools and stay shallow in practice; anything
// deeper is treated as pathological input and fails fast.
const MaxHierarchyDepth = 128

// MaterializeMethod selects how an artifact is placed into the output
// tree by the external materializer.
type MaterializeMethod string

const (
	// MethodLink places the artifact as a link into its store location.
	MethodLink MaterializeMethod = "link"
	// MethodCopy places the artifact as a full copy.
	MethodCopy MaterializeMethod = "copy"
)

// NodeKind classifies a position in the module tree plan.
type NodeKind string

const (
	// KindPassThrough is a single artifact with no nested overlay.
	KindPassThrough NodeKind = "pass-through"
	// KindOverlay is a base artifact with nested dependencies injected
	// under it before any build step runs on the artifact.
	KindOverlay NodeKind = "overlay"
	// KindMerge is a pure grouping directory unioning multiple named
	// children, with no artifact of its own.
	KindMerge NodeKind = "merge"
)

// Artifact is the materialization recipe for one resolved package
// occurrence. Artifacts are bound to a physical hierarchy path, so two
// occurrences of the same package at different paths are distinct.
type Artifact struct {
	Path    HierarchyPath     `json:"path"`
	Name    string            `json:"name,omitzero"`
	Version string            `json:"version,omitzero"`
	Source  SourceLocator     `json:"source"`
	Method  MaterializeMethod `json:"method"`
	Bin     map[string]string `json:"bin,omitempty"`
}

// TreeChild is a named child of a module tree node. Child order is
// insertion order and is significant: it is the documented tie-break for
// merge collisions.
type TreeChild struct {
	Name string          `json:"name"`
	Node *ModuleTreeNode `json:"node"`
}

// ModuleTreeNode is the recursive overlay plan over path segments.
// Its kind is derived from its shape, see Kind.
type ModuleTreeNode struct {
	Artifact *Artifact
	Children []TreeChild
}

// Kind derives the node classification from its shape.
func (n *ModuleTreeNode) Kind() NodeKind {
	switch {
	case n.Artifact != nil && len(n.Children) == 0:
		return KindPassThrough
	case n.Artifact != nil:
		return KindOverlay
	default:
		return KindMerge
	}
}

// Mergeable reports whether the node is a pure grouping directory that
// may be merged recursively into an existing same-named directory.
func (n *ModuleTreeNode) Mergeable() bool {
	return n.Artifact == nil
}

// Child returns the child with the given name, if any.
func (n *ModuleTreeNode) Child(name string) (*ModuleTreeNode, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c.Node, true
		}
	}
	return nil, false
}

// PutChild inserts or replaces the named child. Replacement keeps the
// original insertion position so iteration order stays deterministic.
func (n *ModuleTreeNode) PutChild(name string, node *ModuleTreeNode) {
	for i, c := range n.Children {
		if c.Name == name {
			n.Children[i].Node = node
			return
		}
	}
	n.Children = append(n.Children, TreeChild{Name: name, Node: node})
}

// Equal reports deep structural equality of two subtrees, including
// child order.
func (n *ModuleTreeNode) Equal(other *ModuleTreeNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	if (n.Artifact == nil) != (other.Artifact == nil) {
		return false
	}
	if n.Artifact != nil && !artifactEqual(*n.Artifact, *other.Artifact) {
		return false
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i, c := range n.Children {
		oc := other.Children[i]
		if c.Name != oc.Name || !c.Node.Equal(oc.Node) {
			return false
		}
	}
	return true
}

func artifactEqual(a, b Artifact) bool {
	return a.Path == b.Path &&
		a.Name == b.Name &&
		a.Version == b.Version &&
		a.Source == b.Source &&
		a.Method == b.Method &&
		maps.Equal(a.Bin, b.Bin)
}

// MergeCollision records a concrete name collision resolved by the
// last-wins rule. Collisions are diagnostics, never errors.
type MergeCollision struct {
	// At is the tree position (slash path of the colliding child).
	At string `json:"at"`

	// Previous identifies the overwritten contributor.
	Previous string `json:"previous,omitzero"`

	// Winner identifies the contributor that prevailed.
	Winner string `json:"winner,omitzero"`
}

// Merge overlays src into dst. Children are overlaid by name in src
// insertion order: a child with no counterpart is placed verbatim, a
// child whose counterpart exists merges recursively into it. Artifact
// slots union independently of children, so a base artifact and its
// nested overlays may arrive in either order without conflict. Two
// differing artifacts at the same position collide: last-applied wins
// and a diagnostic is recorded. Merging a subtree equal to what is
// already present is a no-op. Returned collisions preserve occurrence
// order.
func Merge(dst, src *ModuleTreeNode) []MergeCollision {
	return merge(dst, src, "")
}

func merge(dst, src *ModuleTreeNode, at string) []MergeCollision {
	var collisions []MergeCollision

	if src.Artifact != nil {
		if dst.Artifact != nil && !artifactEqual(*dst.Artifact, *src.Artifact) {
			collisions = append(collisions, MergeCollision{
				At:       at,
				Previous: dst.Artifact.Path.String(),
				Winner:   src.Artifact.Path.String(),
			})
		}
		dst.Artifact = src.Artifact
	}

	for _, c := range src.Children {
		childAt := c.Name
		if at != "" {
			childAt = at + "/" + c.Name
		}

		existing, ok := dst.Child(c.Name)
		if !ok {
			dst.PutChild(c.Name, c.Node)
			continue
		}
		if existing.Equal(c.Node) {
			continue
		}
		collisions = append(collisions, merge(existing, c.Node, childAt)...)
	}
	return collisions
}

// treeNodeJSON is the serialized shape of a ModuleTreeNode, with the
// derived kind made explicit for the external materializer.
type treeNodeJSON struct {
	Kind     NodeKind    `json:"kind"`
	Artifact *Artifact   `json:"artifact,omitempty"`
	Children []TreeChild `json:"children,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (n *ModuleTreeNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(treeNodeJSON{
		Kind:     n.Kind(),
		Artifact: n.Artifact,
		Children: n.Children,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *ModuleTreeNode) UnmarshalJSON(data []byte) error {
	var raw treeNodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Artifact = raw.Artifact
	n.Children = raw.Children
	return nil
}
