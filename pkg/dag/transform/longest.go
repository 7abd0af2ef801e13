package transform

import (
	"maps"
	"slices"

	"github.com/matzehuels/nestlayout/pkg/dag"
)

// longestPath puts every source on row 0 and every other node MinLen below
// its deepest parent. Nodes on a cycle are never reached and keep row 0.
func longestPath(g *dag.DAG) map[string]int {
	rows := make(map[string]int, g.NodeCount())
	for _, id := range topoOrder(g) {
		for _, c := range g.Children(id) {
			e, _ := g.Edge(id, c)
			rows[c] = max(rows[c], rows[id]+e.MinLen)
		}
	}
	for _, n := range g.Nodes() {
		if _, ok := rows[n.ID]; !ok {
			rows[n.ID] = 0
		}
	}
	return rows
}

// topoOrder is Kahn's algorithm with a FIFO queue seeded in insertion
// order, so ties resolve the same way on every run. Nodes on a cycle are
// omitted.
func topoOrder(g *dag.DAG) []string {
	pending := make(map[string]int, g.NodeCount())
	order := make([]string, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		if pending[n.ID] = g.InDegree(n.ID); pending[n.ID] == 0 {
			order = append(order, n.ID)
		}
	}
	for i := 0; i < len(order); i++ {
		for _, c := range g.Children(order[i]) {
			if pending[c]--; pending[c] == 0 {
				order = append(order, c)
			}
		}
	}
	return order
}

// normalizeRows shifts rows so the smallest is 0.
func normalizeRows(rows map[string]int) {
	if len(rows) == 0 {
		return
	}
	lo := slices.Min(slices.Collect(maps.Values(rows)))
	for id := range rows {
		rows[id] -= lo
	}
}
