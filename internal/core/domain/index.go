package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Index is the immutable view over one parsed lockfile: package records
// keyed by hierarchy path, dependency edges grouped by declaring record,
// and the declared workspace members. Records keep their lockfile
// insertion order, which is the documented tie-break for merges and bin
// aggregation. An Index is safe for concurrent use once built.
type Index struct {
	records    map[HierarchyPath]PackageRecord
	order      []HierarchyPath
	edges      map[HierarchyPath][]DependencyEdge
	workspaces []Workspace
	byWsName   map[InternedString]HierarchyPath
	digest     string
}

// NewIndex builds an Index from parsed records, edges and workspace
// declarations. It enforces path uniqueness and workspace-name
// uniqueness. The digest is the content hash of the lockfile text.
func NewIndex(records []PackageRecord, edges []DependencyEdge, workspaces []Workspace, digest string) (*Index, error) {
	idx := &Index{
		records:  make(map[HierarchyPath]PackageRecord, len(records)),
		order:    make([]HierarchyPath, 0, len(records)),
		edges:    make(map[HierarchyPath][]DependencyEdge, len(records)),
		byWsName: make(map[InternedString]HierarchyPath, len(workspaces)),
		digest:   digest,
	}

	for _, rec := range records {
		if _, exists := idx.records[rec.Path]; exists {
			return nil, zerr.With(zerr.Wrap(ErrDuplicatePackagePath, "indexing lockfile"), "path", rec.Path.String())
		}
		idx.records[rec.Path] = rec
		idx.order = append(idx.order, rec.Path)
	}

	for _, e := range edges {
		idx.edges[e.From] = append(idx.edges[e.From], e)
	}

	for _, ws := range workspaces {
		if prev, exists := idx.byWsName[ws.Name]; exists {
			err := zerr.With(zerr.Wrap(ErrDuplicateWorkspace, "indexing lockfile"), "workspace", ws.Name.String())
			err = zerr.With(err, "first_occurrence", prev.String())
			err = zerr.With(err, "duplicate_at", ws.Path.String())
			return nil, err
		}
		idx.byWsName[ws.Name] = ws.Path
		idx.workspaces = append(idx.workspaces, ws)
	}

	return idx, nil
}

// Record returns the record at the given path, if any.
func (idx *Index) Record(p HierarchyPath) (PackageRecord, bool) {
	rec, ok := idx.records[p]
	return rec, ok
}

// Edges returns the dependency edges declared by the record at p, in
// the order the parser emitted them.
func (idx *Index) Edges(p HierarchyPath) []DependencyEdge {
	return idx.edges[p]
}

// Workspaces returns the declared workspace members in lockfile order.
func (idx *Index) Workspaces() []Workspace {
	return idx.workspaces
}

// WorkspaceByName returns the path of the workspace declaring the given
// package name. Workspaces form a flat global namespace, so this binding
// takes precedence over any nested match during resolution.
func (idx *Index) WorkspaceByName(name InternedString) (HierarchyPath, bool) {
	p, ok := idx.byWsName[name]
	return p, ok
}

// WorkspaceByPath returns the workspace member rooted at the given path.
func (idx *Index) WorkspaceByPath(p HierarchyPath) (Workspace, bool) {
	for _, ws := range idx.workspaces {
		if ws.Path == p {
			return ws, true
		}
	}
	return Workspace{}, false
}

// Digest returns the content hash of the lockfile this index was parsed
// from.
func (idx *Index) Digest() string {
	return idx.digest
}

// Len returns the number of package records.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Walk yields the package records in lockfile insertion order.
func (idx *Index) Walk() iter.Seq[PackageRecord] {
	return func(yield func(PackageRecord) bool) {
		for _, p := range idx.order {
			if !yield(idx.records[p]) {
				return
			}
		}
	}
}
