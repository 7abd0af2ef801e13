package geometry

import (
	"math"

	"github.com/matzehuels/nestlayout/pkg/graph"
)

// Default node sizes in pixels.
const (
	DefaultDeviceWidth    = 140.0
	DefaultDeviceHeight   = 110.0
	DefaultBoundaryWidth  = 400.0
	DefaultBoundaryHeight = 300.0

	// ReferenceImageSizePercent is the image size at which devices render at
	// their nominal size.
	ReferenceImageSizePercent = 55.0
)

// Resolver returns the effective size of nodes.
//
// The rule is: a measured (rendered) size wins, then an explicit size, then
// the default for the node kind. Device sizes are then multiplied by
// imageSizePercent/55 and rounded to whole pixels, where imageSizePercent is
// the node's own value or, failing that, the resolver's.
type Resolver struct {
	ImageSizePercent float64
}

// NewResolver returns a resolver for the given global image size. Zero
// selects the reference size (scale 1).
func NewResolver(imageSizePercent float64) Resolver {
	return Resolver{ImageSizePercent: imageSizePercent}
}

// Size returns the node's effective width and height. Always positive.
func (r Resolver) Size(n *graph.Node) Size {
	w := firstPositive(n.MeasuredWidth, n.Width)
	h := firstPositive(n.MeasuredHeight, n.Height)

	if n.IsBoundary() {
		return Size{
			W: orDefault(w, DefaultBoundaryWidth),
			H: orDefault(h, DefaultBoundaryHeight),
		}
	}

	scale := r.Scale(n)
	return Size{
		W: math.Max(1, math.Round(orDefault(w, DefaultDeviceWidth)*scale)),
		H: math.Max(1, math.Round(orDefault(h, DefaultDeviceHeight)*scale)),
	}
}

// Scale returns the device scale factor for n.
func (r Resolver) Scale(n *graph.Node) float64 {
	pct := firstPositive(n.Data.ImageSizePercent, r.ImageSizePercent)
	if pct <= 0 {
		return 1
	}
	return pct / ReferenceImageSizePercent
}

// Rect returns the node's rectangle in its parent's coordinate space.
func (r Resolver) Rect(n *graph.Node) Rect {
	s := r.Size(n)
	return Rect{n.Position.X, n.Position.Y, s.W, s.H}
}

// Average returns the mean effective size of nodes. An empty slice yields
// the device default.
func (r Resolver) Average(nodes []*graph.Node) Size {
	if len(nodes) == 0 {
		return Size{DefaultDeviceWidth, DefaultDeviceHeight}
	}
	var sum Size
	for _, n := range nodes {
		s := r.Size(n)
		sum.W += s.W
		sum.H += s.H
	}
	k := float64(len(nodes))
	return Size{sum.W / k, sum.H / k}
}

// Bounds returns the bounding box of nodes in their shared parent space.
func (r Resolver) Bounds(nodes []*graph.Node) (Rect, bool) {
	rects := make([]Rect, len(nodes))
	for i, n := range nodes {
		rects[i] = r.Rect(n)
	}
	return Bounds(rects)
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
