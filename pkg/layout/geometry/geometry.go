// Package geometry resolves node dimensions and provides the small amount
// of plane geometry the layout engines share.
package geometry

import "math"

// Point is a position in the plane, y pointing down.
type Point struct {
	X, Y float64
}

// Size is a width and height.
type Size struct {
	W, H float64
}

// Area returns W×H.
func (s Size) Area() float64 { return s.W * s.H }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the rectangle's center point.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Area returns W×H.
func (r Rect) Area() float64 { return r.W * r.H }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{r.X + dx, r.Y + dy, r.W, r.H}
}

// Overlaps reports whether r and o share interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Contains reports whether o lies inside r, allowing eps of rounding.
func (r Rect) Contains(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps && o.MaxX() <= r.MaxX()+eps && o.MaxY() <= r.MaxY()+eps
}

// Bounds returns the smallest rectangle enclosing all rects. The second
// result is false when rects is empty.
func Bounds(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.MaxX())
		maxY = max(maxY, r.MaxY())
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}, true
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Segment is a straight line between two points.
type Segment struct {
	A, B Point
}

// Intersects reports whether two segments cross. Segments that only touch at
// an endpoint, or that are collinear, do not count as crossing.
func (s Segment) Intersects(o Segment) bool {
	d1 := orient(o.A, o.B, s.A)
	d2 := orient(o.A, o.B, s.B)
	d3 := orient(s.A, s.B, o.A)
	d4 := orient(s.A, s.B, o.B)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func orient(a, b, c Point) float64 {
	v := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if math.Abs(v) < 1e-9 {
		return 0
	}
	return v
}
