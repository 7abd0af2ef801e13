package transform

import (
	"testing"

	"github.com/matzehuels/nestlayout/pkg/dag"
)

func TestSubdivide(t *testing.T) {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 1})
	_ = g.AddNode(dag.Node{ID: "c", Row: 3})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "c", Weight: 2.5, Reversed: true})

	created, err := Subdivide(g)
	if err != nil || created != 2 {
		t.Fatalf("Subdivide() = %d, %v, want 2 nodes", created, err)
	}

	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		if to.Row != from.Row+1 {
			t.Errorf("edge %s->%s spans rows %d->%d", e.From, e.To, from.Row, to.Row)
		}
	}

	v, ok := g.Node("a>c@1")
	if !ok || !v.IsVirtual() || v.EffectiveID() != "a" || v.Row != 1 {
		t.Fatalf("a>c@1 = %+v, %v", v, ok)
	}
	if _, ok := g.Edge("a>c@1", "a>c@2"); !ok {
		t.Error("missing middle segment")
	}
	e, ok := g.Edge("a>c@2", "c")
	if !ok || e.Weight != 2.5 || !e.Reversed {
		t.Errorf("last segment = %+v, %v; want weight 2.5 reversed", e, ok)
	}
	if _, ok := g.Edge("a", "c"); ok {
		t.Error("original long edge still present")
	}
}

func TestSubdivideIDCollision(t *testing.T) {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "a>c@1", Row: 5})
	_ = g.AddNode(dag.Node{ID: "c", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "a", To: "c"})

	if _, err := Subdivide(g); err != nil {
		t.Fatal(err)
	}
	if _, ok := g.Edge("a", "a>c@1#2"); !ok {
		t.Error("expected suffixed virtual node a>c@1#2")
	}
}

func TestOrderRows(t *testing.T) {
	// Two sources whose children are listed crossed.
	g := dag.New()
	for _, n := range []dag.Node{
		{ID: "a", Row: 0}, {ID: "b", Row: 0},
		{ID: "x", Row: 1}, {ID: "y", Row: 1},
		{ID: "p", Row: 2}, {ID: "q", Row: 2},
	} {
		_ = g.AddNode(n)
	}
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})
	_ = g.AddEdge(dag.Edge{From: "y", To: "q"})
	_ = g.AddEdge(dag.Edge{From: "x", To: "p"})

	before := dag.CountCrossings(g, dag.RowOrders(g))
	after := OrderRows(g, DefaultSweeps)

	if before != 1 {
		t.Fatalf("initial crossings = %d, want 1", before)
	}
	if after != 0 {
		t.Errorf("OrderRows() = %d, want 0", after)
	}
	if got := dag.CountCrossings(g, dag.RowOrders(g)); got != after {
		t.Errorf("applied ordering has %d crossings, OrderRows reported %d", got, after)
	}
}

func TestOrderRowsKeepsCrossingFreeOrder(t *testing.T) {
	g := dag.New()
	for _, n := range []dag.Node{{ID: "a", Row: 0}, {ID: "b", Row: 0}, {ID: "x", Row: 1}, {ID: "y", Row: 1}} {
		_ = g.AddNode(n)
	}
	_ = g.AddEdge(dag.Edge{From: "a", To: "x"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "y"})

	if got := OrderRows(g, DefaultSweeps); got != 0 {
		t.Errorf("OrderRows() = %d, want 0", got)
	}
	if ids := dag.NodeIDs(g.NodesInRow(0)); ids[0] != "a" || ids[1] != "b" {
		t.Errorf("row 0 = %v, want [a b]", ids)
	}
}
