package layered

import (
	"math"
	"slices"

	"github.com/matzehuels/nestlayout/pkg/dag"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
	"github.com/matzehuels/nestlayout/pkg/layout/spacing"
)

// packing describes one directional coordinate pass.
type packing struct {
	upper       bool // align to parents (rows above) instead of children
	right       bool // pack toward decreasing coordinates
	upperMedian bool // pick the upper of two middle neighbours
}

func packingFor(a layout.Alignment) packing {
	switch a {
	case layout.AlignUpRight:
		return packing{upper: true, right: true, upperMedian: true}
	case layout.AlignDownLeft:
		return packing{}
	case layout.AlignDownRight:
		return packing{right: true, upperMedian: true}
	default:
		return packing{upper: true}
	}
}

// place assigns rectangles to the regular nodes of a ranked, ordered graph.
func (p *problem) place(g *dag.DAG, align layout.Alignment) placement {
	cross := crossCoordinates(g, align, p.sp)

	rows := g.RowIDs()
	thick := make(map[int]float64, len(rows))
	start := make(map[int]float64, len(rows))
	var extent float64
	for i, r := range rows {
		for _, n := range g.NodesInRow(r) {
			if !n.IsVirtual() {
				thick[r] = math.Max(thick[r], n.Height)
			}
		}
		if i > 0 {
			extent += p.sp.RankSep
		}
		start[r] = extent
		extent += thick[r]
	}

	out := make(placement, len(p.order))
	for _, id := range p.order {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		along := start[n.Row] + (thick[n.Row]-n.Height)/2
		if p.dir.IsReversed() {
			along = extent - along - n.Height
		}
		s := p.sizes[id]
		if p.dir.IsHorizontal() {
			out[id] = geometry.Rect{X: along, Y: cross[id], W: s.W, H: s.H}
		} else {
			out[id] = geometry.Rect{X: cross[id], Y: along, W: s.W, H: s.H}
		}
	}
	return out
}

// crossCoordinates returns the left edge of every node along its row.
// The balanced alignment averages the upper-left and upper-right passes.
func crossCoordinates(g *dag.DAG, align layout.Alignment, sp spacing.Spacing) map[string]float64 {
	if align != layout.AlignBalanced {
		return normalize(pack(g, packingFor(align), sp))
	}
	left := normalize(pack(g, packingFor(layout.AlignUpLeft), sp))
	right := normalize(pack(g, packingFor(layout.AlignUpRight), sp))
	out := make(map[string]float64, len(left))
	for id, x := range left {
		out[id] = (x + right[id]) / 2
	}
	return out
}

// pack places rows one at a time, each node as close as the row order
// allows to the median centre of its neighbours in the previously placed
// row. Rows are visited top-down when aligning to parents, bottom-up
// otherwise.
func pack(g *dag.DAG, pk packing, sp spacing.Spacing) map[string]float64 {
	rows := g.RowIDs()
	if !pk.upper {
		slices.Reverse(rows)
	}

	left := make(map[string]float64, g.NodeCount())
	for _, r := range rows {
		nodes := g.NodesInRow(r)
		desired := make([]float64, len(nodes))
		has := make([]bool, len(nodes))
		for i, n := range nodes {
			adj := g.Children(n.ID)
			if pk.upper {
				adj = g.Parents(n.ID)
			}
			var centres []float64
			for _, a := range adj {
				x, ok := left[a]
				if !ok {
					continue
				}
				an, _ := g.Node(a)
				centres = append(centres, x+crossWidth(an)/2)
			}
			if len(centres) == 0 {
				continue
			}
			desired[i] = median(centres, pk.upperMedian) - crossWidth(n)/2
			has[i] = true
		}

		if pk.right {
			packRight(nodes, desired, has, left, sp)
		} else {
			packLeft(nodes, desired, has, left, sp)
		}
	}
	return left
}

func packLeft(nodes []*dag.Node, desired []float64, has []bool, out map[string]float64, sp spacing.Spacing) {
	limit := math.Inf(-1)
	for i, n := range nodes {
		x := limit
		if i == 0 {
			x = 0
		}
		if has[i] {
			x = math.Max(desired[i], limit)
		}
		out[n.ID] = x
		if i+1 < len(nodes) {
			limit = x + crossWidth(n) + gap(n, nodes[i+1], sp)
		}
	}
}

func packRight(nodes []*dag.Node, desired []float64, has []bool, out map[string]float64, sp spacing.Spacing) {
	limit := math.Inf(1)
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		w := crossWidth(n)
		x := limit - w
		if i == len(nodes)-1 {
			x = -w
		}
		if has[i] {
			x = math.Min(desired[i], limit-w)
		}
		out[n.ID] = x
		if i > 0 {
			limit = x - gap(nodes[i-1], n, sp)
		}
	}
}

// crossWidth is the extent of n along its row. Virtual nodes occupy no
// space of their own.
func crossWidth(n *dag.Node) float64 {
	if n.IsVirtual() {
		return 0
	}
	return n.Width
}

// gap is the separation between two adjacent nodes of a row. Edge routing
// points only need the edge separation.
func gap(a, b *dag.Node, sp spacing.Spacing) float64 {
	if a.IsVirtual() || b.IsVirtual() {
		return sp.EdgeSep
	}
	return sp.NodeSep
}

func median(vals []float64, upper bool) float64 {
	slices.Sort(vals)
	k := len(vals)
	if k%2 == 1 {
		return vals[k/2]
	}
	if upper {
		return vals[k/2]
	}
	return vals[k/2-1]
}

func normalize(xs map[string]float64) map[string]float64 {
	lowest := math.Inf(1)
	for _, x := range xs {
		lowest = math.Min(lowest, x)
	}
	if math.IsInf(lowest, 1) {
		return xs
	}
	for id := range xs {
		xs[id] -= lowest
	}
	return xs
}
