package layered

import (
	"math"

	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

const (
	minGridMargin    = 20.0
	gridMarginFactor = 0.3
)

// Grid arranges nodes row by row in a near-square grid whose cells are the
// average node size plus a margin of max(20, 0.3 * average width). Each
// node is centred in its cell and the grid starts at the origin. Grid
// never fails; an empty node list yields an empty placement.
func Grid(nodes []*graph.Node, res geometry.Resolver) map[string]geometry.Rect {
	out := make(map[string]geometry.Rect, len(nodes))
	if len(nodes) == 0 {
		return out
	}

	avg := res.Average(nodes)
	margin := math.Max(minGridMargin, avg.W*gridMarginFactor)
	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	cellW, cellH := avg.W+margin, avg.H+margin

	for i, n := range nodes {
		row, col := i/cols, i%cols
		s := res.Size(n)
		out[n.ID] = geometry.Rect{
			X: float64(col)*cellW + (avg.W-s.W)/2,
			Y: float64(row)*cellH + (avg.H-s.H)/2,
			W: s.W,
			H: s.H,
		}
	}
	return out
}
