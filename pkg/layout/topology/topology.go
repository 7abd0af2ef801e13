// Package topology classifies the shape of a container's edge set so the
// layered engine can pick a ranking strategy.
package topology

import (
	"github.com/matzehuels/nestlayout/pkg/dag"
	"github.com/matzehuels/nestlayout/pkg/dag/transform"
)

// Kind is the shape of a graph.
type Kind string

const (
	Hierarchical Kind = "hierarchical"
	Networked    Kind = "networked"
	Mixed        Kind = "mixed"
)

const (
	// treeShare is the share of nodes with at most one parent above which
	// an acyclic graph with roots counts as hierarchical.
	treeShare = 0.8
	// denseRatio is the edges per node above which a graph is networked.
	denseRatio = 1.5
)

// Analysis is the result of [Classify]. Ranks is an estimate only; final
// rows are assigned by the ranker the engine picks.
type Analysis struct {
	Kind        Kind
	Ranks       map[string]int
	MaxRank     int
	Roots       []string
	HasCycles   bool
	Density     float64
	MultiParent int
}

// Classify inspects g without modifying it.
//
// A graph is hierarchical when it is acyclic, has at least one root and at
// least 80% of its nodes have in-degree 0 or 1. It is networked when it has
// a cycle, has no root, or has more than 1.5 edges per node. Anything else
// is mixed. An empty graph is hierarchical.
func Classify(g *dag.DAG) Analysis {
	a := Analysis{Ranks: map[string]int{}}
	n := g.NodeCount()
	if n == 0 {
		a.Kind = Hierarchical
		return a
	}

	for _, s := range g.Sources() {
		a.Roots = append(a.Roots, s.ID)
	}
	treeLike := 0
	for _, node := range g.Nodes() {
		if g.InDegree(node.ID) <= 1 {
			treeLike++
		} else {
			a.MultiParent++
		}
	}
	a.HasCycles = g.HasCycle()
	a.Density = float64(g.EdgeCount()) / float64(n)

	work := g.Clone()
	transform.BreakCycles(work)
	if err := transform.Rank(work, transform.RankLongestPath); err == nil {
		for _, node := range work.Nodes() {
			a.Ranks[node.ID] = node.Row
			a.MaxRank = max(a.MaxRank, node.Row)
		}
	}

	switch {
	case a.HasCycles || len(a.Roots) == 0 || a.Density > denseRatio:
		a.Kind = Networked
	case float64(treeLike) >= treeShare*float64(n):
		a.Kind = Hierarchical
	default:
		a.Kind = Mixed
	}
	return a
}

// Recommended returns the ranker suited to the graph's shape.
func (a Analysis) Recommended() transform.Ranker {
	switch a.Kind {
	case Hierarchical:
		return transform.RankTightTree
	case Networked:
		return transform.RankNetworkSimplex
	default:
		return transform.RankLongestPath
	}
}

// Candidates returns the rankers to try, recommended first, followed by the
// two other general strategies. The tree strategy is appended for graphs
// with fewer than 50 nodes.
func (a Analysis) Candidates(nodeCount int) []transform.Ranker {
	first := a.Recommended()
	out := []transform.Ranker{first}
	for _, r := range []transform.Ranker{transform.RankNetworkSimplex, transform.RankTightTree, transform.RankLongestPath} {
		if r != first {
			out = append(out, r)
		}
	}
	if nodeCount < 50 {
		out = append(out, transform.RankTree)
	}
	return out
}
