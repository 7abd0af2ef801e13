package dag

import (
	"errors"
	"slices"
	"testing"
)

func chain(t *testing.T, ids ...string) *DAG {
	t.Helper()
	g := New()
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for i := 0; i+1 < len(ids); i++ {
		if err := g.AddEdge(Edge{From: ids[i], To: ids[i+1]}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return g
}

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want %v", err, ErrInvalidNodeID)
	}
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want %v", err, ErrDuplicateNodeID)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := chain(t, "a", "b")
	tests := []struct {
		edge Edge
		want error
	}{
		{Edge{From: "x", To: "a"}, ErrUnknownSourceNode},
		{Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
		{Edge{From: "a", To: "a"}, ErrSelfLoop},
	}
	for _, tt := range tests {
		if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
			t.Errorf("AddEdge(%v) = %v, want %v", tt.edge, err, tt.want)
		}
	}
}

func TestEdgeDefaults(t *testing.T) {
	g := chain(t, "a", "b")
	e, ok := g.Edge("a", "b")
	if !ok {
		t.Fatal("Edge(a, b) not found")
	}
	if e.Weight != 1 || e.MinLen != 1 {
		t.Errorf("Edge = %+v, want Weight 1 MinLen 1", e)
	}
}

func TestReverseEdge(t *testing.T) {
	g := chain(t, "a", "b")
	_ = g.AddEdge(Edge{From: "b", To: "a", Weight: 2})

	if !g.ReverseEdge("b", "a") {
		t.Fatal("ReverseEdge(b, a) = false")
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	e, _ := g.Edge("a", "b")
	if e.Weight != 3 {
		t.Errorf("merged Weight = %v, want 3", e.Weight)
	}
	if g.ReverseEdge("b", "a") {
		t.Error("ReverseEdge on missing edge = true")
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	ids := []string{"z", "m", "a", "q"}
	g := New()
	for _, id := range ids {
		_ = g.AddNode(Node{ID: id})
	}
	for i := 0; i < 5; i++ {
		if got := NodeIDs(g.Nodes()); !slices.Equal(got, ids) {
			t.Fatalf("Nodes() = %v, want %v", got, ids)
		}
	}
	if got := NodeIDs(g.Sources()); !slices.Equal(got, ids) {
		t.Errorf("Sources() = %v, want %v", got, ids)
	}
}

func TestSetRowsAndOrder(t *testing.T) {
	g := chain(t, "a", "b", "c")
	g.SetRows(map[string]int{"a": 0, "b": 1, "c": 1})
	if got := g.RowCount(); got != 2 {
		t.Errorf("RowCount() = %d, want 2", got)
	}
	g.SetRowOrder(1, []string{"c", "b", "a"})
	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"c", "b"}) {
		t.Errorf("NodesInRow(1) = %v, want [c b]", got)
	}
}

func TestValidate(t *testing.T) {
	g := chain(t, "a", "b", "c")
	g.SetRows(map[string]int{"a": 0, "b": 1, "c": 2})
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	g.SetRows(map[string]int{"c": 1})
	if err := g.Validate(); !errors.Is(err, ErrRankConstraint) {
		t.Errorf("Validate() = %v, want %v", err, ErrRankConstraint)
	}

	g.SetRows(map[string]int{"c": 2})
	_ = g.AddEdge(Edge{From: "c", To: "a"})
	if !g.HasCycle() {
		t.Error("HasCycle() = false, want true")
	}
}

func TestClone(t *testing.T) {
	g := chain(t, "a", "b")
	g.SetRows(map[string]int{"b": 1})
	c := g.Clone()
	c.RemoveEdge("a", "b")
	n, _ := c.Node("b")
	n.Row = 7

	if g.EdgeCount() != 1 {
		t.Errorf("original EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if orig, _ := g.Node("b"); orig.Row != 1 {
		t.Errorf("original Row = %d, want 1", orig.Row)
	}
}

func TestCountCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "x", "y", "z"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "z"})
	_ = g.AddEdge(Edge{From: "b", To: "y"})
	_ = g.AddEdge(Edge{From: "c", To: "x"})

	tests := []struct {
		lower []string
		want  int
	}{
		{[]string{"x", "y", "z"}, 3},
		{[]string{"z", "y", "x"}, 0},
		{[]string{"y", "z", "x"}, 1},
	}
	for _, tt := range tests {
		orders := map[int][]string{0: {"a", "b", "c"}, 1: tt.lower}
		if got := CountCrossings(g, orders); got != tt.want {
			t.Errorf("CountCrossings(%v) = %d, want %d", tt.lower, got, tt.want)
		}
	}
}

func TestCountPairCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "x", "y"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "y"})
	_ = g.AddEdge(Edge{From: "b", To: "x"})

	if got := CountPairCrossings(g, "a", "b", []string{"x", "y"}, false); got != 1 {
		t.Errorf("CountPairCrossings(a, b) = %d, want 1", got)
	}
	if got := CountPairCrossings(g, "b", "a", []string{"x", "y"}, false); got != 0 {
		t.Errorf("CountPairCrossings(b, a) = %d, want 0", got)
	}
}

func TestMeasureCrossingsWeighted(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "x", "y", "z"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "y", Weight: 4})
	_ = g.AddEdge(Edge{From: "b", To: "x", Weight: 2})
	_ = g.AddEdge(Edge{From: "c", To: "z"})

	got := MeasureCrossings(g, map[int][]string{0: {"a", "b", "c"}, 1: {"x", "y", "z"}})
	if got.Count != 1 || got.Weight != 8 {
		t.Errorf("MeasureCrossings() = %+v, want {Count:1 Weight:8}", got)
	}

	lighter := Crossings{Count: 1, Weight: 2}
	if !lighter.Less(got) || got.Less(lighter) {
		t.Errorf("Less: want %+v before %+v", lighter, got)
	}
	if (Crossings{Count: 0, Weight: 100}).Less(Crossings{Count: 0, Weight: 100}) {
		t.Error("Less on equal values = true")
	}
}
