package transform

import (
	"slices"

	"github.com/matzehuels/nestlayout/pkg/dag"
)

// DefaultSweeps is the number of barycenter passes used by the layered
// engine.
const DefaultSweeps = 8

// OrderRows reorders every row to reduce edge crossings and returns the
// crossing count of the best ordering found.
//
// The graph must have been subdivided: edges connect consecutive rows only.
// Each pass sorts the rows by the weighted barycenter of their neighbours,
// alternating downward passes (using parents) with upward passes (using
// children), and then transposes adjacent nodes while that lowers the
// count. The best ordering seen is kept, comparing crossing counts first
// and weighted crossings second; ties keep the earlier one.
func OrderRows(g *dag.DAG, sweeps int) int {
	best := dag.RowOrders(g)
	bestCrossings := dag.MeasureCrossings(g, best)
	rows := g.RowIDs()

	for i := 0; i < sweeps && bestCrossings.Count > 0; i++ {
		down := i%2 == 0
		if down {
			for _, r := range rows[1:] {
				sortByBarycenter(g, r, r-1, true)
			}
		} else {
			for k := len(rows) - 2; k >= 0; k-- {
				sortByBarycenter(g, rows[k], rows[k]+1, false)
			}
		}
		transpose(g, rows)

		orders := dag.RowOrders(g)
		if c := dag.MeasureCrossings(g, orders); c.Less(bestCrossings) {
			best, bestCrossings = orders, c
		}
	}

	for r, ids := range best {
		g.SetRowOrder(r, ids)
	}
	return bestCrossings.Count
}

func sortByBarycenter(g *dag.DAG, row, adjRow int, useParents bool) {
	nodes := g.NodesInRow(row)
	if len(nodes) < 2 {
		return
	}
	adjPos := dag.NodePosMap(g.NodesInRow(adjRow))

	type keyed struct {
		id  string
		key float64
	}
	items := make([]keyed, len(nodes))
	for i, n := range nodes {
		var sum, weight float64
		if useParents {
			for _, p := range g.Parents(n.ID) {
				if pos, ok := adjPos[p]; ok {
					e, _ := g.Edge(p, n.ID)
					sum += e.Weight * float64(pos)
					weight += e.Weight
				}
			}
		} else {
			for _, c := range g.Children(n.ID) {
				if pos, ok := adjPos[c]; ok {
					e, _ := g.Edge(n.ID, c)
					sum += e.Weight * float64(pos)
					weight += e.Weight
				}
			}
		}
		key := float64(i)
		if weight > 0 {
			key = sum / weight
		}
		items[i] = keyed{n.ID, key}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	g.SetRowOrder(row, ids)
}

func transpose(g *dag.DAG, rows []int) {
	for improved, pass := true, 0; improved && pass < 4*len(rows)+4; pass++ {
		improved = false
		for _, r := range rows {
			ids := dag.NodeIDs(g.NodesInRow(r))
			if len(ids) < 2 {
				continue
			}
			above := dag.NodePosMap(g.NodesInRow(r - 1))
			below := dag.NodePosMap(g.NodesInRow(r + 1))
			changed := false
			for i := 0; i+1 < len(ids); i++ {
				l, rt := ids[i], ids[i+1]
				before := dag.CountPairCrossingsWithPos(g, l, rt, above, true) +
					dag.CountPairCrossingsWithPos(g, l, rt, below, false)
				after := dag.CountPairCrossingsWithPos(g, rt, l, above, true) +
					dag.CountPairCrossingsWithPos(g, rt, l, below, false)
				if after < before {
					ids[i], ids[i+1] = rt, l
					changed = true
				}
			}
			if changed {
				g.SetRowOrder(r, ids)
				improved = true
			}
		}
	}
}
