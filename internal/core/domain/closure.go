package domain

// Closure is the ordered set of hierarchy paths reachable from one or
// more roots. Membership is first-seen-wins: a path's recorded
// optionality is fixed at its first visit and is not reconciled if a
// later traversal reaches the same path through a differently-classified
// edge.
type Closure struct {
	paths    []HierarchyPath
	optional map[HierarchyPath]bool
}

// NewClosure creates an empty Closure.
func NewClosure() *Closure {
	return &Closure{
		optional: make(map[HierarchyPath]bool),
	}
}

// Add records a path with the optionality of the edge that first reached
// it. It reports whether the path was newly added; re-adding an existing
// path is a no-op regardless of optionality.
func (c *Closure) Add(p HierarchyPath, optional bool) bool {
	if _, seen := c.optional[p]; seen {
		return false
	}
	c.optional[p] = optional
	c.paths = append(c.paths, p)
	return true
}

// Contains reports whether the path was reached.
func (c *Closure) Contains(p HierarchyPath) bool {
	_, seen := c.optional[p]
	return seen
}

// Optional reports whether the path was first reached through an
// optional edge chain.
func (c *Closure) Optional(p HierarchyPath) bool {
	return c.optional[p]
}

// Paths returns the member paths in discovery order.
func (c *Closure) Paths() []HierarchyPath {
	return c.paths
}

// Len returns the number of member paths.
func (c *Closure) Len() int {
	return len(c.paths)
}
