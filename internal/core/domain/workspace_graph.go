package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// WorkspaceGraph is the directed dependency graph restricted to edges
// between declared workspace members. Edges point from a member to the
// members it depends on.
type WorkspaceGraph struct {
	members map[InternedString]Workspace
	deps    map[InternedString][]InternedString
	order   []InternedString
}

// NewWorkspaceGraph creates a new empty WorkspaceGraph.
func NewWorkspaceGraph() *WorkspaceGraph {
	return &WorkspaceGraph{
		members: make(map[InternedString]Workspace),
		deps:    make(map[InternedString][]InternedString),
	}
}

// AddMember adds a workspace member to the graph.
// It returns an error if a member with the same name already exists.
func (g *WorkspaceGraph) AddMember(ws Workspace) error {
	if prev, exists := g.members[ws.Name]; exists {
		err := zerr.With(zerr.Wrap(ErrDuplicateWorkspace, "registering workspace member"), "workspace", ws.Name.String())
		err = zerr.With(err, "first_occurrence", prev.Path.String())
		return zerr.With(err, "duplicate_at", ws.Path.String())
	}
	g.members[ws.Name] = ws
	return nil
}

// AddDependency records that member from depends on member to. Edges to
// names that are not members are ignored: only inter-workspace edges
// belong in this graph.
func (g *WorkspaceGraph) AddDependency(from, to InternedString) {
	if _, ok := g.members[from]; !ok {
		return
	}
	if _, ok := g.members[to]; !ok {
		return
	}
	if slices.Contains(g.deps[from], to) {
		return
	}
	g.deps[from] = append(g.deps[from], to)
}

// Member returns the workspace declared under the given name.
func (g *WorkspaceGraph) Member(name InternedString) (Workspace, bool) {
	ws, ok := g.members[name]
	return ws, ok
}

// Validate checks for cycles with a depth-first three-coloring and
// populates the global execution order. A cycle fails with
// ErrCyclicWorkspaceDependency carrying the cycle path.
func (g *WorkspaceGraph) Validate() error {
	g.order = make([]InternedString, 0, len(g.members))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range g.deps[u] {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, u)
		return nil
	}

	// Sorted roots keep the order stable across runs even for
	// disconnected members.
	for _, name := range g.sortedNames() {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *WorkspaceGraph) sortedNames() []InternedString {
	names := make([]InternedString, 0, len(g.members))
	for name := range g.members {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b InternedString) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		default:
			return 0
		}
	})
	return names
}

// buildCycleError constructs an error with cycle path metadata.
func (g *WorkspaceGraph) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += dep.String()
	return zerr.With(zerr.Wrap(ErrCyclicWorkspaceDependency, "validating workspace graph"), "cycle", cyclePath)
}

// DependencyOrder returns the members the target transitively depends
// on, dependencies before dependents, the target last. It requires a
// prior successful Validate.
func (g *WorkspaceGraph) DependencyOrder(target InternedString) ([]Workspace, error) {
	if _, ok := g.members[target]; !ok {
		return nil, zerr.With(zerr.Wrap(ErrUnknownWorkspace, "ordering workspace dependencies"), "workspace", target.String())
	}

	var order []Workspace
	emitted := make(map[InternedString]bool)

	var visit func(u InternedString)
	visit = func(u InternedString) {
		if emitted[u] {
			return
		}
		emitted[u] = true
		for _, dep := range g.deps[u] {
			visit(dep)
		}
		order = append(order, g.members[u])
	}
	visit(target)

	return order, nil
}

// Included returns the minimal member set needed to build the target:
// the target plus its transitive workspace dependencies. Unreachable
// sibling members are excluded.
func (g *WorkspaceGraph) Included(target InternedString) (map[InternedString]Workspace, error) {
	order, err := g.DependencyOrder(target)
	if err != nil {
		return nil, err
	}
	included := make(map[InternedString]Workspace, len(order))
	for _, ws := range order {
		included[ws.Name] = ws
	}
	return included, nil
}

// Walk yields all members in validated global order (dependencies
// first). It assumes Validate() has been called and returned nil.
func (g *WorkspaceGraph) Walk() iter.Seq[Workspace] {
	return func(yield func(Workspace) bool) {
		for _, name := range g.order {
			if !yield(g.members[name]) {
				return
			}
		}
	}
}
