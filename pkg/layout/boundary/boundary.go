// Package boundary computes container sizes from their laid-out children.
package boundary

import (
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

// AspectRange is a preferred width/height ratio range.
type AspectRange struct {
	Min, Max float64
}

// Mid returns the midpoint of the range.
func (r AspectRange) Mid() float64 { return (r.Min + r.Max) / 2 }

var (
	// VerticalAspect is preferred for top-to-bottom and bottom-to-top flows.
	VerticalAspect = AspectRange{0.6, 0.9}
	// HorizontalAspect is preferred for left-to-right and right-to-left flows.
	HorizontalAspect = AspectRange{1.2, 1.8}
)

// Sizer computes the minimal enclosing size of a container.
type Sizer struct {
	Padding      float64
	MinWidth     float64
	MinHeight    float64
	Direction    layout.Direction
	PreferAspect bool
}

// NewSizer returns a sizer configured from layout options.
func NewSizer(opts layout.Options, dir layout.Direction) Sizer {
	return Sizer{
		Padding:      opts.Padding(),
		MinWidth:     opts.MinBoundaryWidth,
		MinHeight:    opts.MinBoundaryHeight,
		Direction:    dir,
		PreferAspect: opts.PreferAspectRatio,
	}
}

// Sizing is the result of [Sizer.Size].
type Sizing struct {
	Width       float64
	Height      float64
	AspectRatio float64

	// Offset translates the children so that their bounding box is centred
	// in the container.
	Offset geometry.Point

	// ChildrenBounds is the raw bounding box of the children before Offset.
	ChildrenBounds geometry.Rect

	MinApplied     bool
	AspectAdjusted bool
	Empty          bool
}

// Size computes the container size for children given in the container's
// coordinate space.
//
// The size is the children's bounding box plus twice the padding on each
// axis, raised to the configured minimums. With PreferAspect set, the
// shorter side then grows toward the middle of the direction's preferred
// aspect range. Empty containers get the minimum size.
func (s Sizer) Size(children []geometry.Rect) Sizing {
	bounds, ok := geometry.Bounds(children)
	if !ok {
		return Sizing{
			Width:       s.MinWidth,
			Height:      s.MinHeight,
			AspectRatio: ratio(s.MinWidth, s.MinHeight),
			MinApplied:  true,
			Empty:       true,
		}
	}

	out := Sizing{ChildrenBounds: bounds}
	w := bounds.W + 2*s.Padding
	h := bounds.H + 2*s.Padding
	if w < s.MinWidth {
		w = s.MinWidth
		out.MinApplied = true
	}
	if h < s.MinHeight {
		h = s.MinHeight
		out.MinApplied = true
	}

	if s.PreferAspect && h > 0 {
		rng := VerticalAspect
		if s.Direction.IsHorizontal() {
			rng = HorizontalAspect
		}
		switch r := w / h; {
		case r < rng.Min:
			w = h * rng.Mid()
			out.AspectAdjusted = true
		case r > rng.Max:
			h = w / rng.Mid()
			out.AspectAdjusted = true
		}
	}

	out.Width, out.Height = w, h
	out.AspectRatio = ratio(w, h)
	out.Offset = geometry.Point{
		X: (w-bounds.W)/2 - bounds.X,
		Y: (h-bounds.H)/2 - bounds.Y,
	}
	return out
}

func ratio(w, h float64) float64 {
	if h == 0 {
		return 0
	}
	return w / h
}
