package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/nestlayout/pkg/dag"
)

// Ranker names a row assignment strategy.
type Ranker string

const (
	// RankLongestPath places every node as deep as its deepest parent allows.
	// Fast, but leaves sources at row 0 even when their children are deep.
	RankLongestPath Ranker = "longest-path"
	// RankTightTree starts from the longest path and shifts connected groups
	// until every component is spanned by a tree of tight edges.
	RankTightTree Ranker = "tight-tree"
	// RankNetworkSimplex refines the tight tree by moving single nodes to the
	// row that minimises the weighted span of their edges.
	RankNetworkSimplex Ranker = "network-simplex"
	// RankTree ranks by breadth-first depth from the sources and then pulls
	// sources next to their children.
	RankTree Ranker = "tree"
)

// Rankers lists the strategies in the order they are tried by default.
var Rankers = []Ranker{RankNetworkSimplex, RankTightTree, RankLongestPath, RankTree}

// ErrUnknownRanker is returned by [Rank] for an unrecognised strategy.
var ErrUnknownRanker = errors.New("unknown ranker")

// Rank assigns rows with the given strategy. The graph must be acyclic (run
// [BreakCycles] first). Rows are shifted so the smallest is 0, and every
// edge spans at least its minimum length afterwards.
func Rank(g *dag.DAG, r Ranker) error {
	if g.HasCycle() {
		return dag.ErrGraphHasCycle
	}

	var rows map[string]int
	switch r {
	case RankLongestPath:
		rows = longestPath(g)
	case RankTightTree:
		rows = tightTree(g, longestPath(g))
	case RankNetworkSimplex:
		rows = networkSimplex(g, tightTree(g, longestPath(g)))
	case RankTree:
		rows = treeRank(g)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRanker, r)
	}

	normalizeRows(rows)
	g.SetRows(rows)
	return nil
}

// tightTree grows, per weakly connected component, a spanning tree of edges
// with zero slack. When the tree cannot grow, the whole tree is shifted by
// the smallest slack of an edge leaving it, which makes that edge tight and
// keeps every other edge feasible.
func tightTree(g *dag.DAG, rows map[string]int) map[string]int {
	edges := g.Edges()
	slack := func(e dag.Edge) int { return rows[e.To] - rows[e.From] - e.MinLen }
	done := make(map[string]bool, g.NodeCount())

	for _, start := range g.Nodes() {
		if done[start.ID] {
			continue
		}
		size := len(component(g, start.ID))
		tree := map[string]bool{start.ID: true}

		for {
			growTight(g, rows, tree)
			if len(tree) >= size {
				break
			}

			best, bestSlack := -1, 0
			for i, e := range edges {
				if tree[e.From] == tree[e.To] {
					continue
				}
				if s := slack(e); best < 0 || s < bestSlack {
					best, bestSlack = i, s
				}
			}
			if best < 0 {
				break
			}

			delta := bestSlack
			if !tree[edges[best].From] {
				delta = -delta
			}
			for id := range tree {
				rows[id] += delta
			}
		}

		for id := range tree {
			done[id] = true
		}
	}
	return rows
}

func growTight(g *dag.DAG, rows map[string]int, tree map[string]bool) {
	stack := make([]string, 0, len(tree))
	for _, n := range g.Nodes() {
		if tree[n.ID] {
			stack = append(stack, n.ID)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range g.Children(id) {
			e, _ := g.Edge(id, c)
			if !tree[c] && rows[c]-rows[id] == e.MinLen {
				tree[c] = true
				stack = append(stack, c)
			}
		}
		for _, p := range g.Parents(id) {
			e, _ := g.Edge(p, id)
			if !tree[p] && rows[id]-rows[p] == e.MinLen {
				tree[p] = true
				stack = append(stack, p)
			}
		}
	}
}

// component returns the weakly connected component containing id.
func component(g *dag.DAG, id string) []string {
	seen := map[string]bool{id: true}
	out := []string{id}
	for i := 0; i < len(out); i++ {
		curr := out[i]
		for _, nbrs := range [][]string{g.Children(curr), g.Parents(curr)} {
			for _, n := range nbrs {
				if !seen[n] {
					seen[n] = true
					out = append(out, n)
				}
			}
		}
	}
	return out
}

// networkSimplex minimises the weighted edge span sum(weight * span) by
// moving one node at a time inside the window its edges allow. A node whose
// incoming weight exceeds its outgoing weight moves up to its lowest
// feasible row, and the reverse moves it down. Every move strictly lowers
// the cost, so the loop terminates.
func networkSimplex(g *dag.DAG, rows map[string]int) map[string]int {
	nodes := g.Nodes()
	maxIter := 4*len(nodes) + 10

	for iter := 0; iter < maxIter; iter++ {
		moved := false
		for _, n := range nodes {
			lo, hi := math.MinInt, math.MaxInt
			var in, out float64
			for _, p := range g.Parents(n.ID) {
				e, _ := g.Edge(p, n.ID)
				lo = max(lo, rows[p]+e.MinLen)
				in += e.Weight
			}
			for _, c := range g.Children(n.ID) {
				e, _ := g.Edge(n.ID, c)
				hi = min(hi, rows[c]-e.MinLen)
				out += e.Weight
			}

			r := rows[n.ID]
			switch {
			case in > out && lo != math.MinInt && lo < r:
				rows[n.ID] = lo
				moved = true
			case out > in && hi != math.MaxInt && hi > r:
				rows[n.ID] = hi
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return rows
}

// treeRank assigns breadth-first depth from the sources, relaxes the result
// so every edge meets its minimum length, and then moves each source down
// next to its nearest child.
func treeRank(g *dag.DAG) map[string]int {
	rows := make(map[string]int, g.NodeCount())
	seen := make(map[string]bool, g.NodeCount())
	var queue []string
	for _, s := range g.Sources() {
		rows[s.ID] = 0
		seen[s.ID] = true
		queue = append(queue, s.ID)
	}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, c := range g.Children(curr) {
			if seen[c] {
				continue
			}
			e, _ := g.Edge(curr, c)
			rows[c] = rows[curr] + e.MinLen
			seen[c] = true
			queue = append(queue, c)
		}
	}

	order := topoOrder(g)
	for _, id := range order {
		for _, c := range g.Children(id) {
			e, _ := g.Edge(id, c)
			if need := rows[id] + e.MinLen; rows[c] < need {
				rows[c] = need
			}
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		if g.InDegree(id) > 0 || g.OutDegree(id) == 0 {
			continue
		}
		nearest := math.MaxInt
		for _, c := range g.Children(id) {
			e, _ := g.Edge(id, c)
			nearest = min(nearest, rows[c]-e.MinLen)
		}
		rows[id] = nearest
	}
	return rows
}

// TotalSpan returns sum(weight * (row span)) over all edges. Lower is
// tighter. Useful to compare rankers.
func TotalSpan(g *dag.DAG) float64 {
	var total float64
	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		total += e.Weight * float64(to.Row-from.Row)
	}
	return total
}
