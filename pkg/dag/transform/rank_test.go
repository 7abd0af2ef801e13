package transform

import (
	"errors"
	"fmt"
	"maps"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/nestlayout/pkg/dag"
)

func rowsOf(g *dag.DAG) map[string]int {
	rows := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		rows[n.ID] = n.Row
	}
	return rows
}

func TestRank(t *testing.T) {
	// internet -> fw -> web -> db, backup -> db (weight 3), fw -> db (minlen 2)
	newGraph := func() *dag.DAG {
		g := build([]string{"internet", "fw", "web", "db", "backup"},
			[2]string{"internet", "fw"}, [2]string{"fw", "web"}, [2]string{"web", "db"})
		_ = g.AddEdge(dag.Edge{From: "backup", To: "db", Weight: 3})
		_ = g.AddEdge(dag.Edge{From: "fw", To: "db", MinLen: 2})
		return g
	}

	tests := []struct {
		ranker Ranker
		want   map[string]int
	}{
		{RankLongestPath, map[string]int{"internet": 0, "fw": 1, "web": 2, "db": 3, "backup": 0}},
		{RankTightTree, map[string]int{"internet": 0, "fw": 1, "web": 2, "db": 3, "backup": 2}},
		{RankNetworkSimplex, map[string]int{"internet": 0, "fw": 1, "web": 2, "db": 3, "backup": 2}},
		{RankTree, map[string]int{"internet": 0, "fw": 1, "web": 2, "db": 3, "backup": 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.ranker), func(t *testing.T) {
			g := newGraph()
			if err := Rank(g, tt.ranker); err != nil {
				t.Fatalf("Rank() error: %v", err)
			}
			if got := rowsOf(g); !maps.Equal(got, tt.want) {
				t.Errorf("rows = %v, want %v", got, tt.want)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestRankNetworkSimplexPullsHeavyEdges(t *testing.T) {
	// a -> b -> c -> d, a -> x; x -> d is heavy. Longest path puts x on row 1;
	// the weighted span is smaller with x next to d.
	g := build([]string{"a", "b", "c", "d", "x"},
		[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "d"}, [2]string{"a", "x"})
	_ = g.AddEdge(dag.Edge{From: "x", To: "d", Weight: 5})

	if err := Rank(g, RankLongestPath); err != nil {
		t.Fatal(err)
	}
	longest := TotalSpan(g)

	if err := Rank(g, RankNetworkSimplex); err != nil {
		t.Fatal(err)
	}
	simplex := TotalSpan(g)

	if simplex >= longest {
		t.Errorf("TotalSpan network-simplex = %v, want < longest-path %v", simplex, longest)
	}
	if x, _ := g.Node("x"); x.Row != 2 {
		t.Errorf("x.Row = %d, want 2", x.Row)
	}
}

func TestRankErrors(t *testing.T) {
	g := build([]string{"a", "b"}, [2]string{"a", "b"}, [2]string{"b", "a"})
	if err := Rank(g, RankLongestPath); !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Errorf("Rank(cyclic) = %v, want %v", err, dag.ErrGraphHasCycle)
	}

	g = build([]string{"a"})
	if err := Rank(g, Ranker("random")); !errors.Is(err, ErrUnknownRanker) {
		t.Errorf("Rank(random) = %v, want %v", err, ErrUnknownRanker)
	}
}

func TestRankDisconnected(t *testing.T) {
	g := build([]string{"a", "b", "c", "d", "lonely"}, [2]string{"a", "b"}, [2]string{"c", "d"})
	for _, r := range Rankers {
		if err := Rank(g, r); err != nil {
			t.Fatalf("Rank(%s) error: %v", r, err)
		}
		if n, _ := g.Node("lonely"); n.Row != 0 {
			t.Errorf("Rank(%s) lonely.Row = %d, want 0", r, n.Row)
		}
		if err := g.Validate(); err != nil {
			t.Errorf("Rank(%s) Validate() = %v", r, err)
		}
	}
}

// randomGraph decodes edge codes into a graph over n nodes: code c is the
// edge c/n -> c%n. Self loops are skipped and duplicates merge.
func randomGraph(n int, codes []int) *dag.DAG {
	g := dag.New()
	for i := 0; i < n; i++ {
		_ = g.AddNode(dag.Node{ID: fmt.Sprintf("n%d", i)})
	}
	for k, c := range codes {
		from, to := c/n, c%n
		if from == to {
			continue
		}
		_ = g.AddEdge(dag.Edge{
			From:   fmt.Sprintf("n%d", from),
			To:     fmt.Sprintf("n%d", to),
			Weight: float64(k%3) + 0.5,
			MinLen: 1 + k%2,
		})
	}
	return g
}

func TestRankProperties(t *testing.T) {
	const n = 8

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("every ranker yields a feasible ranking", prop.ForAll(
		func(codes []int) bool {
			for _, r := range Rankers {
				g := randomGraph(n, codes)
				BreakCycles(g)
				if err := Rank(g, r); err != nil {
					return false
				}
				if g.Validate() != nil {
					return false
				}
				if len(g.RowIDs()) > 0 && g.RowIDs()[0] != 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, n*n-1)),
	))

	properties.Property("ranking is deterministic", prop.ForAll(
		func(codes []int) bool {
			for _, r := range Rankers {
				a, b := randomGraph(n, codes), randomGraph(n, codes)
				BreakCycles(a)
				BreakCycles(b)
				_ = Rank(a, r)
				_ = Rank(b, r)
				if !maps.Equal(rowsOf(a), rowsOf(b)) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, n*n-1)),
	))

	properties.Property("network simplex never increases weighted span", prop.ForAll(
		func(codes []int) bool {
			g := randomGraph(n, codes)
			BreakCycles(g)
			_ = Rank(g, RankTightTree)
			tight := TotalSpan(g)
			_ = Rank(g, RankNetworkSimplex)
			return TotalSpan(g) <= tight+1e-9
		},
		gen.SliceOf(gen.IntRange(0, n*n-1)),
	))

	properties.TestingRun(t)
}
