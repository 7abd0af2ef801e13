package dag

import (
	"errors"
	"maps"
	"slices"
)

// Errors returned by graph construction and [DAG.Validate].
var (
	ErrInvalidNodeID       = errors.New("dag: empty node id")
	ErrDuplicateNodeID     = errors.New("dag: node id already present")
	ErrUnknownSourceNode   = errors.New("dag: edge source not in graph")
	ErrUnknownTargetNode   = errors.New("dag: edge target not in graph")
	ErrSelfLoop            = errors.New("dag: edge from a node to itself")
	ErrInvalidEdgeEndpoint = errors.New("dag: edge endpoint missing")
	ErrRankConstraint      = errors.New("dag: edge shorter than its minimum length")
	ErrGraphHasCycle       = errors.New("dag: graph has a cycle")
)

// NodeKind tells diagram nodes from nodes added by the transforms.
type NodeKind int

const (
	// NodeKindRegular represents a diagram node.
	NodeKindRegular NodeKind = iota
	// NodeKindVirtual represents a synthetic node inserted to subdivide a long
	// edge. Virtual nodes keep a MasterID naming the edge's source.
	NodeKindVirtual
)

// Node is a vertex with an assigned row (rank) and the size it occupies in
// the layout. Width runs across rows, Height along them.
type Node struct {
	ID     string
	Row    int
	Width  float64
	Height float64

	Kind     NodeKind
	MasterID string
}

// IsVirtual reports whether the node was inserted to break a long edge.
func (n Node) IsVirtual() bool { return n.Kind == NodeKindVirtual }

// EffectiveID returns MasterID if set (for virtual nodes), otherwise the ID.
func (n Node) EffectiveID() string {
	if n.MasterID != "" {
		return n.MasterID
	}
	return n.ID
}

// Edge is a weighted directed edge with a minimum rank span.
//
// Reversed is set on edges that were flipped to break a cycle or because the
// diagram edge points against the flow. Weight defaults to 1 and MinLen to 1
// when zero.
type Edge struct {
	From     string
	To       string
	Weight   float64
	MinLen   int
	Reversed bool
}

func (e Edge) normalized() Edge {
	if e.Weight <= 0 {
		e.Weight = 1
	}
	if e.MinLen < 1 {
		e.MinLen = 1
	}
	return e
}

type edgeKey struct{ from, to string }

// DAG is a directed graph organized into rows. Nodes and edges keep their
// insertion order, so every traversal is deterministic.
//
// Use [New]; the zero value is not ready for use. A DAG must not be
// shared between goroutines while it is modified.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []*Edge
	byKey    map[edgeKey]*Edge
	outgoing map[string][]string
	incoming map[string][]string
	rows     map[int][]*Node // left-to-right within each row
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		byKey:    make(map[edgeKey]*Edge),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		rows:     make(map[int][]*Node),
	}
}

// AddNode adds a node to the graph and indexes it by its Row.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	d.rows[node.Row] = append(d.rows[node.Row], node)
	return nil
}

// SetRows updates the row assignments for nodes and rebuilds the row index.
// Nodes not present in the rows map retain their current row assignment.
// Within a row, nodes are listed in insertion order.
func (d *DAG) SetRows(rows map[string]int) {
	d.rows = make(map[int][]*Node)
	for _, id := range d.order {
		n := d.nodes[id]
		if newRow, ok := rows[n.ID]; ok {
			n.Row = newRow
		}
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// SetRowOrder replaces the left-to-right order of a row. ids must be a
// permutation of the row's current members; unknown ids are ignored.
func (d *DAG) SetRowOrder(row int, ids []string) {
	ordered := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := d.nodes[id]; ok && n.Row == row {
			ordered = append(ordered, n)
		}
	}
	d.rows[row] = ordered
}

// AddEdge adds a directed edge between two existing nodes. A second edge
// between the same ordered pair is merged into the first: weights add and
// the larger minimum length wins.
//
// Returns ErrUnknownSourceNode, ErrUnknownTargetNode or ErrSelfLoop.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	e = e.normalized()
	key := edgeKey{e.From, e.To}
	if prev, ok := d.byKey[key]; ok {
		prev.Weight += e.Weight
		prev.MinLen = max(prev.MinLen, e.MinLen)
		return nil
	}
	edge := &e
	d.edges = append(d.edges, edge)
	d.byKey[key] = edge
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge from→to and returns it. The second result is
// false if no such edge exists.
func (d *DAG) RemoveEdge(from, to string) (Edge, bool) {
	key := edgeKey{from, to}
	e, ok := d.byKey[key]
	if !ok {
		return Edge{}, false
	}
	delete(d.byKey, key)
	d.edges = slices.DeleteFunc(d.edges, func(x *Edge) bool { return x == e })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
	return *e, true
}

// ReverseEdge flips the edge from→to, toggling its Reversed flag. If the
// opposite edge already exists the two are merged.
func (d *DAG) ReverseEdge(from, to string) bool {
	e, ok := d.RemoveEdge(from, to)
	if !ok {
		return false
	}
	e.From, e.To = e.To, e.From
	e.Reversed = !e.Reversed
	return d.AddEdge(e) == nil
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual node structs, so modifications affect the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = d.nodes[id]
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge {
	out := make([]Edge, len(d.edges))
	for i, e := range d.edges {
		out[i] = *e
	}
	return out
}

// Edge returns the edge from→to.
func (d *DAG) Edge(from, to string) (Edge, bool) {
	e, ok := d.byKey[edgeKey{from, to}]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

func (d *DAG) NodeCount() int { return len(d.nodes) }
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children and Parents return adjacency in edge insertion order. The
// slices belong to the graph; do not modify them.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }
func (d *DAG) Parents(id string) []string  { return d.incoming[id] }

func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }
func (d *DAG) InDegree(id string) int  { return len(d.incoming[id]) }

// Node looks a node up by id.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// NodesInRow returns a row's nodes left to right.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowCount is the number of non-empty rows.
func (d *DAG) RowCount() int { return len(d.rows) }

// RowIDs returns the non-empty row indices in ascending order.
func (d *DAG) RowIDs() []int { return slices.Sorted(maps.Keys(d.rows)) }

// MaxRow is the deepest non-empty row, 0 for an empty graph.
func (d *DAG) MaxRow() int {
	deepest := 0
	for r := range d.rows {
		deepest = max(deepest, r)
	}
	return deepest
}

// Sources returns the nodes without parents, in insertion order.
func (d *DAG) Sources() []*Node {
	return d.where(func(id string) bool { return len(d.incoming[id]) == 0 })
}

// Sinks returns the nodes without children, in insertion order.
func (d *DAG) Sinks() []*Node {
	return d.where(func(id string) bool { return len(d.outgoing[id]) == 0 })
}

func (d *DAG) where(keep func(id string) bool) []*Node {
	var out []*Node
	for _, id := range d.order {
		if keep(id) {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// Slack returns how many rows an edge exceeds its minimum length by.
// A feasible ranking has no negative slack.
func (d *DAG) Slack(e Edge) int {
	return d.nodes[e.To].Row - d.nodes[e.From].Row - e.normalized().MinLen
}

// Validate checks graph integrity and returns nil if valid:
//
//  1. All edges connect existing nodes and respect their minimum length
//  2. The graph is acyclic
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		_, okS := d.nodes[e.From]
		_, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
		if d.Slack(*e) < 0 {
			return ErrRankConstraint
		}
	}
	if d.HasCycle() {
		return ErrGraphHasCycle
	}
	return nil
}

// HasCycle reports whether the graph contains a directed cycle. It peels
// off nodes with no remaining incoming edges; any node left over lies on
// or behind a cycle.
func (d *DAG) HasCycle() bool {
	indeg := make(map[string]int, len(d.nodes))
	var ready []string
	for _, id := range d.order {
		if indeg[id] = len(d.incoming[id]); indeg[id] == 0 {
			ready = append(ready, id)
		}
	}
	peeled := 0
	for len(ready) > 0 {
		id := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		peeled++
		for _, child := range d.outgoing[id] {
			if indeg[child]--; indeg[child] == 0 {
				ready = append(ready, child)
			}
		}
	}
	return peeled < len(d.order)
}

// Clone returns an independent copy of the graph.
func (d *DAG) Clone() *DAG {
	out := New()
	for _, id := range d.order {
		_ = out.AddNode(*d.nodes[id])
	}
	for _, e := range d.edges {
		_ = out.AddEdge(*e)
	}
	for row, nodes := range d.rows {
		out.SetRowOrder(row, NodeIDs(nodes))
	}
	return out
}

// PosMap maps each id to its index in ids.
func PosMap(ids []string) map[string]int { return positions(ids, func(id string) string { return id }) }

// NodePosMap maps each node's id to its index in nodes.
func NodePosMap(nodes []*Node) map[string]int {
	return positions(nodes, func(n *Node) string { return n.ID })
}

func positions[T any](items []T, key func(T) string) map[string]int {
	pos := make(map[string]int, len(items))
	for i, it := range items {
		pos[key(it)] = i
	}
	return pos
}

// NodeIDs returns the ids of nodes in order.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}
