// Package spacing derives node, rank and edge separation from rendered node
// sizes, so spacing follows the visual scale instead of a fixed constant.
package spacing

import (
	"math"

	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

const (
	// MinNodeSep is the smallest adaptive separation between nodes of a rank.
	MinNodeSep = 20.0
	// MinRankSep is the smallest adaptive separation between ranks.
	MinRankSep = 30.0
	// EdgeSep is the separation kept around edge routing points.
	EdgeSep = 10.0

	nodeSepFactor = 0.3
	rankSepFactor = 0.4
	rankSepBoost  = 1.3

	// overlapInflation scales spacing when overlaps must be avoided.
	overlapInflation = 1.4
	// crowdingFloor bounds the shrink applied to crowded containers.
	crowdingFloor = 0.6
	// crowdingCount is the child count at which the floor is reached.
	crowdingCount = 50.0
)

// Spacing holds the separations used by one layout pass.
type Spacing struct {
	NodeSep float64
	RankSep float64
	EdgeSep float64
}

// Adaptive returns spacing derived from an average node size.
//
// The average is clamped to at least the device default. NodeSep follows
// the size across ranks and RankSep the size along them, so for horizontal
// flows width and height swap roles.
func Adaptive(avg geometry.Size, dir layout.Direction) Spacing {
	w := math.Max(avg.W, geometry.DefaultDeviceWidth)
	h := math.Max(avg.H, geometry.DefaultDeviceHeight)
	if dir.IsHorizontal() {
		w, h = h, w
	}
	return Spacing{
		NodeSep: math.Max(MinNodeSep, math.Round(w*nodeSepFactor)),
		RankSep: math.Max(MinRankSep, math.Round(math.Round(h*rankSepFactor)*rankSepBoost)),
		EdgeSep: EdgeSep,
	}
}

// CrowdingFactor returns the shrink factor for a container with n children:
// max(0.6, 1 - n/50).
func CrowdingFactor(n int) float64 {
	return math.Max(crowdingFloor, 1-float64(n)/crowdingCount)
}

// ForContainer returns the spacing for laying out childCount children of
// the given average size. Explicit NodeSpacing and RankSpacing options
// replace the adaptive values; the result is then shrunk for crowded
// containers and inflated when MinimizeOverlaps is set.
func ForContainer(avg geometry.Size, childCount int, dir layout.Direction, opts layout.Options) Spacing {
	s := Adaptive(avg, dir)
	if opts.NodeSpacing > 0 {
		s.NodeSep = opts.NodeSpacing
	}
	if opts.RankSpacing > 0 {
		s.RankSep = opts.RankSpacing
	}

	f := CrowdingFactor(childCount)
	if opts.MinimizeOverlaps {
		f *= overlapInflation
	}
	s.NodeSep = math.Round(s.NodeSep * f)
	s.RankSep = math.Round(s.RankSep * f)
	return s
}
