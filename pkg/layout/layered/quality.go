package layered

import (
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

// Score weights. Lower scores are better.
const (
	CrossingPenalty = 10.0
	LengthWeight    = 0.1
	OverflowWeight  = 100.0
	UnderfillWeight = 50.0

	overflowLimit  = 1.1
	underfillLimit = 0.5
)

// Quality is the score of one candidate layout.
type Quality struct {
	Crossings   int
	AvgLength   float64
	Utilization float64
	Total       float64
}

// Evaluate scores rectangles connected by edges. Edges are compared as
// straight segments between rectangle centres; pairs sharing an endpoint
// are not counted. When area is non-zero, layouts covering more than 110%
// or less than 50% of it are penalised. Edges naming unknown rectangles are
// ignored.
func Evaluate(rects map[string]geometry.Rect, edges [][2]string, area geometry.Size) Quality {
	var q Quality

	segs := make([]geometry.Segment, 0, len(edges))
	ends := make([][2]string, 0, len(edges))
	var total float64
	for _, e := range edges {
		a, okA := rects[e[0]]
		b, okB := rects[e[1]]
		if !okA || !okB {
			continue
		}
		s := geometry.Segment{A: a.Center(), B: b.Center()}
		segs = append(segs, s)
		ends = append(ends, e)
		total += geometry.Distance(s.A, s.B)
	}
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			if sharesEndpoint(ends[i], ends[j]) {
				continue
			}
			if segs[i].Intersects(segs[j]) {
				q.Crossings++
			}
		}
	}
	if len(segs) > 0 {
		q.AvgLength = total / float64(len(segs))
	}
	q.Total = CrossingPenalty*float64(q.Crossings) + LengthWeight*q.AvgLength

	if area.W > 0 && area.H > 0 {
		rs := make([]geometry.Rect, 0, len(rects))
		for _, r := range rects {
			rs = append(rs, r)
		}
		if b, ok := geometry.Bounds(rs); ok {
			q.Utilization = b.Area() / area.Area()
			switch {
			case q.Utilization > overflowLimit:
				q.Total += (q.Utilization - overflowLimit) * OverflowWeight
			case q.Utilization < underfillLimit:
				q.Total += (underfillLimit - q.Utilization) * UnderfillWeight
			}
		}
	}
	return q
}

func sharesEndpoint(a, b [2]string) bool {
	return a[0] == b[0] || a[0] == b[1] || a[1] == b[0] || a[1] == b[1]
}
