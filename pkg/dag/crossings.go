package dag

import (
	"cmp"
	"maps"
	"slices"
)

// Crossings is the crossing count of an ordering together with its
// weighted form, where a crossing between two edges costs the product of
// their weights. Heavier connections are therefore kept apart first.
type Crossings struct {
	Count  int
	Weight float64
}

// Less orders crossing totals by count, then by weight.
func (c Crossings) Less(o Crossings) bool {
	if c.Count != o.Count {
		return c.Count < o.Count
	}
	return c.Weight < o.Weight
}

func (c Crossings) add(o Crossings) Crossings {
	return Crossings{c.Count + o.Count, c.Weight + o.Weight}
}

// CountCrossings returns the total number of edge crossings for the given row
// orderings, summed over consecutive rows. Rows missing from orders count as
// empty.
//
//	orders := map[int][]string{
//	    0: {"gateway", "vpn"},
//	    1: {"web", "api", "worker"},
//	}
//	n := dag.CountCrossings(g, orders)
func CountCrossings(g *DAG, orders map[int][]string) int {
	return MeasureCrossings(g, orders).Count
}

// MeasureCrossings is like [CountCrossings] but also reports the weighted
// total.
func MeasureCrossings(g *DAG, orders map[int][]string) Crossings {
	var total Crossings
	for _, r := range slices.Sorted(maps.Keys(orders)) {
		total = total.add(layerCrossings(g, orders[r], orders[r+1]))
	}
	return total
}

// CountLayerCrossings counts crossings between edges from upper to lower,
// two adjacent rows given in left-to-right order.
//
// Edges (u1,v1) and (u2,v2) cross when u1 is left of u2 and v1 right of v2,
// so the count is the number of inversions among target positions once the
// edges are sorted by source. Inversions are counted with a Fenwick tree in
// O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	return layerCrossings(g, upper, lower).Count
}

type span struct {
	from, to int
	weight   float64
}

func layerCrossings(g *DAG, upper, lower []string) Crossings {
	if len(upper) == 0 || len(lower) == 0 {
		return Crossings{}
	}
	lowerPos := PosMap(lower)

	var spans []span
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if pos, ok := lowerPos[child]; ok {
				e, _ := g.Edge(id, child)
				spans = append(spans, span{i, pos, e.Weight})
			}
		}
	}
	if len(spans) < 2 {
		return Crossings{}
	}
	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Or(cmp.Compare(a.from, b.from), cmp.Compare(a.to, b.to))
	})

	counts := newFenwick[int](len(lower))
	weights := newFenwick[float64](len(lower))
	var out Crossings
	var seen int
	var seenWeight float64
	for _, s := range spans {
		out.Count += seen - counts.prefix(s.to)
		out.Weight += s.weight * (seenWeight - weights.prefix(s.to))
		counts.add(s.to, 1)
		weights.add(s.to, s.weight)
		seen++
		seenWeight += s.weight
	}
	return out
}

// fenwick is a binary indexed tree over positions 0..n-1.
type fenwick[T int | float64] []T

func newFenwick[T int | float64](n int) fenwick[T] { return make(fenwick[T], n+1) }

// prefix returns the sum over positions 0..i.
func (f fenwick[T]) prefix(i int) T {
	var s T
	for q := i + 1; q > 0; q -= q & -q {
		s += f[q]
	}
	return s
}

func (f fenwick[T]) add(i int, v T) {
	for q := i + 1; q < len(f); q += q & -q {
		f[q] += v
	}
}

// CountPairCrossings returns the crossings between the edges of two
// neighbours in a row, left before right, and an adjacent row in adjOrder.
// useParents selects the row above instead of the row below. The transpose
// pass swaps neighbours when the swapped count is lower.
func CountPairCrossings(g *DAG, left, right string, adjOrder []string, useParents bool) int {
	return CountPairCrossingsWithPos(g, left, right, PosMap(adjOrder), useParents)
}

// CountPairCrossingsWithPos is [CountPairCrossings] with the adjacent row
// given as a position map. Neighbours missing from adjPos are ignored.
func CountPairCrossingsWithPos(g *DAG, left, right string, adjPos map[string]int, useParents bool) int {
	adj := g.Children
	if useParents {
		adj = g.Parents
	}

	n := 0
	for _, l := range adj(left) {
		lp, ok := adjPos[l]
		if !ok {
			continue
		}
		for _, r := range adj(right) {
			if rp, ok := adjPos[r]; ok && rp < lp {
				n++
			}
		}
	}
	return n
}

// RowOrders returns the current left-to-right order of every row, keyed by
// row index. The result can be passed to [CountCrossings].
func RowOrders(g *DAG) map[int][]string {
	orders := make(map[int][]string, g.RowCount())
	for _, r := range g.RowIDs() {
		orders[r] = NodeIDs(g.NodesInRow(r))
	}
	return orders
}
