package graph

// Index is the containment arena of a graph: node positions by id and child
// positions by parent id. It holds pointers into the graph's node slice, so
// updates made through [Index.Node] are visible in the graph.
//
// The index is built once per layout call. Adding or removing nodes from the
// graph invalidates it.
type Index struct {
	g        *Graph
	pos      map[string]int
	children map[string][]int
}

// Index builds the containment index. Children keep the order in which they
// appear in the node list. Nodes whose parent is unknown are indexed under
// that parent id and are not reachable from the root.
func (g *Graph) Index() *Index {
	ix := &Index{
		g:        g,
		pos:      make(map[string]int, len(g.Nodes)),
		children: make(map[string][]int),
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if _, dup := ix.pos[n.ID]; !dup {
			ix.pos[n.ID] = i
		}
		ix.children[n.ParentID] = append(ix.children[n.ParentID], i)
	}
	return ix
}

// Graph returns the indexed graph.
func (ix *Index) Graph() *Graph { return ix.g }

// Has reports whether a node with the given id exists.
func (ix *Index) Has(id string) bool {
	_, ok := ix.pos[id]
	return ok
}

// Node returns the node with the given id, or nil.
func (ix *Index) Node(id string) *Node {
	i, ok := ix.pos[id]
	if !ok {
		return nil
	}
	return &ix.g.Nodes[i]
}

// Children returns the direct children of parentID. The empty id returns the
// root-level nodes.
func (ix *Index) Children(parentID string) []*Node {
	idx := ix.children[parentID]
	out := make([]*Node, len(idx))
	for k, i := range idx {
		out[k] = &ix.g.Nodes[i]
	}
	return out
}

// ChildCount returns the number of direct children of parentID.
func (ix *Index) ChildCount(parentID string) int {
	return len(ix.children[parentID])
}

// HasNestedBoundaries reports whether any direct child of id is a boundary.
func (ix *Index) HasNestedBoundaries(id string) bool {
	for _, i := range ix.children[id] {
		if ix.g.Nodes[i].IsBoundary() {
			return true
		}
	}
	return false
}

// Depth returns the nesting depth of id: 0 for root-level nodes. Unknown ids
// and broken parent chains report -1.
func (ix *Index) Depth(id string) int {
	depth := 0
	seen := map[string]bool{}
	for {
		n := ix.Node(id)
		if n == nil || seen[id] {
			return -1
		}
		if n.ParentID == "" {
			return depth
		}
		seen[id] = true
		id = n.ParentID
		depth++
	}
}

// IsAncestor reports whether ancestor contains id, directly or transitively.
func (ix *Index) IsAncestor(ancestor, id string) bool {
	seen := map[string]bool{}
	for n := ix.Node(id); n != nil && n.ParentID != "" && !seen[n.ID]; n = ix.Node(n.ParentID) {
		if n.ParentID == ancestor {
			return true
		}
		seen[n.ID] = true
	}
	return false
}

// AbsolutePosition returns the top-left corner of id in root coordinates by
// summing positions along the parent chain.
func (ix *Index) AbsolutePosition(id string) Position {
	var p Position
	seen := map[string]bool{}
	for n := ix.Node(id); n != nil && !seen[n.ID]; n = ix.Node(n.ParentID) {
		seen[n.ID] = true
		p.X += n.Position.X
		p.Y += n.Position.Y
	}
	return p
}

// PostOrder returns the boundaries reachable from the root, deepest first.
// Siblings keep node-list order, so the result is deterministic.
func (ix *Index) PostOrder() []*Node {
	var out []*Node
	seen := map[string]bool{}
	var walk func(parentID string)
	walk = func(parentID string) {
		for _, i := range ix.children[parentID] {
			n := &ix.g.Nodes[i]
			if !n.IsBoundary() || seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			walk(n.ID)
			out = append(out, n)
		}
	}
	walk("")
	return out
}
