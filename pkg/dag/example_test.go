package dag_test

import (
	"fmt"

	"github.com/matzehuels/nestlayout/pkg/dag"
)

func ExampleDAG_basic() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "internet", Row: 0})
	_ = g.AddNode(dag.Node{ID: "firewall", Row: 1})
	_ = g.AddNode(dag.Node{ID: "web", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "internet", To: "firewall"})
	_ = g.AddEdge(dag.Edge{From: "firewall", To: "web"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowCount())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: 3
}

func ExampleDAG_AddEdge_merge() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b", Weight: 1.5, MinLen: 1})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b", Weight: 1, MinLen: 2})

	e, _ := g.Edge("a", "b")
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Weight:", e.Weight)
	fmt.Println("MinLen:", e.MinLen)
	// Output:
	// Edges: 1
	// Weight: 2.5
	// MinLen: 2
}

func ExampleCountLayerCrossings() {
	g := dag.New()
	for _, id := range []string{"a", "b", "x", "y"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	fmt.Println(dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"x", "y"}))
	fmt.Println(dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"y", "x"}))
	// Output:
	// 1
	// 0
}
