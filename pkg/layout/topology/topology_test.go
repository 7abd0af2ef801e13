package topology

import (
	"slices"
	"testing"

	"github.com/matzehuels/nestlayout/pkg/dag"
	"github.com/matzehuels/nestlayout/pkg/dag/transform"
)

func graphOf(ids []string, edges ...[2]string) *dag.DAG {
	g := dag.New()
	for _, id := range ids {
		_ = g.AddNode(dag.Node{ID: id})
	}
	for _, e := range edges {
		_ = g.AddEdge(dag.Edge{From: e[0], To: e[1]})
	}
	return g
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		g    *dag.DAG
		want Kind
	}{
		{"empty", dag.New(), Hierarchical},
		{"isolated nodes", graphOf([]string{"a", "b"}), Hierarchical},
		{"tree", graphOf([]string{"r", "a", "b", "c"},
			[2]string{"r", "a"}, [2]string{"r", "b"}, [2]string{"a", "c"}), Hierarchical},
		{"cycle", graphOf([]string{"a", "b", "c"},
			[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"}), Networked},
		{"diamonds", graphOf([]string{"a", "b", "c", "d", "e"},
			[2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"b", "d"}, [2]string{"c", "d"},
			[2]string{"b", "e"}, [2]string{"c", "e"}), Mixed},
		{"dense", graphOf([]string{"a", "b", "c"},
			[2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"b", "c"},
			[2]string{"b", "a"}), Networked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.g).Kind; got != tt.want {
				t.Errorf("Classify().Kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyRanks(t *testing.T) {
	g := graphOf([]string{"r", "a", "b"}, [2]string{"r", "a"}, [2]string{"a", "b"})
	a := Classify(g)
	if a.MaxRank != 2 || a.Ranks["b"] != 2 {
		t.Errorf("Ranks = %v, MaxRank = %d", a.Ranks, a.MaxRank)
	}
	if !slices.Equal(a.Roots, []string{"r"}) {
		t.Errorf("Roots = %v, want [r]", a.Roots)
	}
	if g.EdgeCount() != 2 {
		t.Error("Classify modified its input")
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		kind Kind
		n    int
		want []transform.Ranker
	}{
		{Hierarchical, 5, []transform.Ranker{transform.RankTightTree, transform.RankNetworkSimplex, transform.RankLongestPath, transform.RankTree}},
		{Networked, 5, []transform.Ranker{transform.RankNetworkSimplex, transform.RankTightTree, transform.RankLongestPath, transform.RankTree}},
		{Mixed, 60, []transform.Ranker{transform.RankLongestPath, transform.RankNetworkSimplex, transform.RankTightTree}},
	}
	for _, tt := range tests {
		got := Analysis{Kind: tt.kind}.Candidates(tt.n)
		if !slices.Equal(got, tt.want) {
			t.Errorf("Candidates(%s, %d) = %v, want %v", tt.kind, tt.n, got, tt.want)
		}
	}
}
