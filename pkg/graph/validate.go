package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	nlerrors "github.com/matzehuels/nestlayout/pkg/errors"
)

var (
	// ErrDuplicateNodeID is returned by [Graph.Validate] when two nodes share
	// an id.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownParent is returned by [Graph.Validate] when a parentId does
	// not reference a node of the graph.
	ErrUnknownParent = errors.New("unknown parent")

	// ErrContainmentCycle is returned by [Graph.Validate] when following
	// parent pointers returns to a node already visited, including a node
	// that is its own parent.
	ErrContainmentCycle = errors.New("containment cycle")

	// ErrDeviceParent is returned by [Graph.Validate] when a device is used
	// as a parent. Only boundaries may own children.
	ErrDeviceParent = errors.New("device cannot contain nodes")

	// ErrInvalidSize is returned by [Graph.Validate] for negative or
	// non-finite sizes and positions.
	ErrInvalidSize = errors.New("invalid node geometry")

	// ErrUnknownKind is returned by [Graph.Validate] for a kind other than
	// device or boundary.
	ErrUnknownKind = errors.New("unknown node kind")
)

// edgeIDNamespace seeds generated edge ids so that normalizing the same graph
// twice yields the same ids.
var edgeIDNamespace = uuid.MustParse("6f1d3c52-8a0e-4b8e-9a57-2f6c1a9d4e03")

// Normalize fills in defaults: nodes without a kind become devices and edges
// without an id receive a name-based UUID derived from their endpoints and
// position in the edge list.
func (g *Graph) Normalize() {
	for i := range g.Nodes {
		if g.Nodes[i].Kind == "" {
			g.Nodes[i].Kind = KindDevice
		}
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.ID == "" {
			name := fmt.Sprintf("%d:%s->%s", i, e.Source, e.Target)
			e.ID = uuid.NewSHA1(edgeIDNamespace, []byte(name)).String()
		}
	}
}

// Validate checks the containment structure. Edges are not validated here:
// edges with missing endpoints are tolerated and reported by the router.
//
// The returned error wraps one of the package sentinels and carries the
// INVALID_GRAPH code.
func (g *Graph) Validate() error {
	ix := g.Index()
	seen := make(map[string]bool, len(g.Nodes))

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if err := nlerrors.ValidateNodeID(n.ID); err != nil {
			return invalid(err, "node %d", i)
		}
		if seen[n.ID] {
			return invalid(ErrDuplicateNodeID, "%q", n.ID)
		}
		seen[n.ID] = true

		switch n.Kind {
		case "", KindDevice, KindBoundary:
		default:
			return invalid(ErrUnknownKind, "%q on node %q", n.Kind, n.ID)
		}
		if !validGeometry(n) {
			return invalid(ErrInvalidSize, "node %q", n.ID)
		}
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ParentID == "" {
			continue
		}
		if n.ParentID == n.ID {
			return invalid(ErrContainmentCycle, "%q is its own parent", n.ID)
		}
		p := ix.Node(n.ParentID)
		if p == nil {
			return invalid(ErrUnknownParent, "%q (parent of %q)", n.ParentID, n.ID)
		}
		if !p.IsBoundary() {
			return invalid(ErrDeviceParent, "%q (parent of %q)", p.ID, n.ID)
		}
	}

	return g.checkContainmentCycles(ix)
}

func (g *Graph) checkContainmentCycles(ix *Index) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.Nodes))
	for i := range g.Nodes {
		id := g.Nodes[i].ID
		var chain []string
		for id != "" && state[id] == unvisited {
			state[id] = visiting
			chain = append(chain, id)
			n := ix.Node(id)
			if n == nil {
				break
			}
			id = n.ParentID
		}
		if id != "" && state[id] == visiting {
			return invalid(ErrContainmentCycle, "through %q", id)
		}
		for _, c := range chain {
			state[c] = done
		}
	}
	return nil
}

func validGeometry(n *Node) bool {
	for _, v := range []float64{
		n.Width, n.Height, n.MeasuredWidth, n.MeasuredHeight,
		n.Data.Padding, n.Data.ImageSizePercent,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, v := range []float64{n.Position.X, n.Position.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func invalid(sentinel error, format string, args ...any) error {
	return nlerrors.Wrap(nlerrors.ErrCodeInvalidGraph, sentinel, format, args...)
}
