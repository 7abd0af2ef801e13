package layered

import (
	"math"

	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

const (
	minWeight = 0.1

	// reorientRatio is the width/height ratio beyond which a container
	// switches to the flow that runs along its long side.
	reorientRatio = 1.5
	// reorientMinChildren is the child count above which re-orientation
	// applies.
	reorientMinChildren = 3
)

// EdgeWeight returns the ranking weight and minimum rank span of an edge.
//
// Weight starts at 1: +1 for a one-way direction hint, +0.5 for
// bidirectional, +0.5 encrypted, +0.25 monitored, +0.25 for an active
// connection and -0.5 for a failed one, never below 0.1. The minimum span
// starts at 1: +1 for a label and +1 for a one-way direction hint.
func EdgeWeight(d graph.EdgeData) (weight float64, minLen int) {
	weight, minLen = 1, 1

	switch d.Direction {
	case graph.DirectionSourceToTarget, graph.DirectionTargetToSource:
		weight++
		minLen++
	case graph.DirectionBidirectional:
		weight += 0.5
	}
	if d.Label != "" {
		minLen++
	}
	if d.Encrypted {
		weight += 0.5
	}
	if d.Monitored {
		weight += 0.25
	}
	switch d.ConnectionState {
	case graph.ConnectionActive:
		weight += 0.25
	case graph.ConnectionFailed:
		weight -= 0.5
	}
	return math.Max(minWeight, weight), minLen
}

// Orient returns the flow direction to use for a container of the given
// size holding childCount children. Containers with more than three
// children whose width/height ratio exceeds 1.5 get a horizontal flow;
// those with a ratio below 1/1.5 get a vertical one. A zero size (the root)
// keeps the requested direction.
func Orient(dir layout.Direction, area geometry.Size, childCount int) layout.Direction {
	if childCount <= reorientMinChildren || area.W <= 0 || area.H <= 0 {
		return dir
	}
	switch r := area.W / area.H; {
	case r > reorientRatio && !dir.IsHorizontal():
		return dir.Horizontal()
	case r < 1/reorientRatio && dir.IsHorizontal():
		return dir.Vertical()
	}
	return dir
}
