package layered

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

// buildGraph makes n root devices and one edge per pair in ends. Endpoints
// at or beyond n name nodes that do not exist.
func buildGraph(n int, ends [][]int) graph.Graph {
	var g graph.Graph
	for i := range n {
		g.Nodes = append(g.Nodes, dev(fmt.Sprintf("n%d", i), ""))
	}
	for i, e := range ends {
		if len(e) < 2 {
			continue
		}
		g.Edges = append(g.Edges, graph.Edge{
			ID:     fmt.Sprintf("e%d", i),
			Source: fmt.Sprintf("n%d", e[0]),
			Target: fmt.Sprintf("n%d", e[1]),
		})
	}
	return g
}

func TestGridProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("grid places every node without overlap", prop.ForAll(
		func(n int, w, h float64) bool {
			nodes := make([]*graph.Node, n)
			for i := range nodes {
				nodes[i] = &graph.Node{ID: fmt.Sprintf("n%d", i), Kind: graph.KindDevice, Width: w, Height: h}
			}
			rects := Grid(nodes, resolver)
			if len(rects) != n {
				return false
			}
			var list []geometry.Rect
			for _, r := range rects {
				for _, o := range list {
					if r.Overlaps(o) {
						return false
					}
				}
				list = append(list, r)
			}
			return true
		},
		gen.IntRange(0, 40),
		gen.Float64Range(1, 300),
		gen.Float64Range(1, 300),
	))

	properties.TestingRun(t)
}

func TestLayoutProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	genEnds := gen.SliceOfN(2, gen.IntRange(0, 14))

	properties.Property("layout never fails and keeps every node", prop.ForAll(
		func(n int, ends [][]int) bool {
			g := buildGraph(n, ends)
			res, err := New(nil).Layout(context.Background(), g, layout.Options{})
			if err != nil || len(res.Nodes) != n || len(res.Edges) != len(g.Edges) {
				return false
			}
			for i := range res.Nodes {
				if res.Nodes[i].ID != g.Nodes[i].ID {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 10),
		gen.SliceOf(genEnds),
	))

	properties.Property("layout is deterministic", prop.ForAll(
		func(n int, ends [][]int) bool {
			g := buildGraph(n, ends)
			a, _ := New(nil).Layout(context.Background(), g, layout.Options{})
			b, _ := New(nil).Layout(context.Background(), g, layout.Options{Parallel: true})
			for i := range a.Nodes {
				if a.Nodes[i].Position != b.Nodes[i].Position {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 10),
		gen.SliceOf(genEnds),
	))

	properties.TestingRun(t)
}
