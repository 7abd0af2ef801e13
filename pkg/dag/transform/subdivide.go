package transform

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/nestlayout/pkg/dag"
)

// Subdivide replaces every edge that skips rows with a chain of single-row
// segments through virtual nodes, one per intermediate row:
//
//	gateway (row 0) → db (row 3)
//	gateway → gateway>db@1 → gateway>db@2 → db
//
// Afterwards each edge joins consecutive rows, as the ordering sweeps and
// the crossing counter require. Virtual nodes record the edge's source as
// MasterID; segments copy the edge's weight and Reversed flag and have a
// minimum length of 1. An id already taken gets a "#n" suffix.
//
// It returns the number of virtual nodes added. An error means the graph
// changed underneath it and is left partially subdivided.
func Subdivide(g *dag.DAG) (int, error) {
	taken := make(map[string]bool, g.NodeCount())
	for _, n := range g.Nodes() {
		taken[n.ID] = true
	}

	var long []dag.Edge
	for _, e := range g.Edges() {
		src, ok1 := g.Node(e.From)
		dst, ok2 := g.Node(e.To)
		if ok1 && ok2 && dst.Row-src.Row > 1 {
			long = append(long, e)
		}
	}

	created := 0
	for _, e := range long {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		g.RemoveEdge(e.From, e.To)

		prev := e.From
		for row := src.Row + 1; row <= dst.Row; row++ {
			next := e.To
			if row < dst.Row {
				next = freeID(taken, e.From+">"+e.To+"@"+strconv.Itoa(row))
				v := dag.Node{ID: next, Row: row, Kind: dag.NodeKindVirtual, MasterID: e.From}
				if err := g.AddNode(v); err != nil {
					return created, fmt.Errorf("subdivide %s->%s: %w", e.From, e.To, err)
				}
				created++
			}
			seg := dag.Edge{From: prev, To: next, Weight: e.Weight, MinLen: 1, Reversed: e.Reversed}
			if err := g.AddEdge(seg); err != nil {
				return created, fmt.Errorf("subdivide %s->%s: %w", e.From, e.To, err)
			}
			prev = next
		}
	}
	return created, nil
}

func freeID(taken map[string]bool, id string) string {
	candidate := id
	for n := 2; taken[candidate]; n++ {
		candidate = id + "#" + strconv.Itoa(n)
	}
	taken[candidate] = true
	return candidate
}
