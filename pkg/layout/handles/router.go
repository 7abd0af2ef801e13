package handles

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

// DefaultSpacing is the distance between fanned-out parallel connectors.
const DefaultSpacing = 20.0

// Router assigns handles and offsets to edges.
type Router struct {
	Resolver geometry.Resolver
	Spacing  float64
	Logger   *log.Logger
}

// NewRouter returns a router using the given resolver for node sizes. A nil
// logger discards output.
func NewRouter(resolver geometry.Resolver, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Router{Resolver: resolver, Spacing: DefaultSpacing, Logger: logger}
}

// Report summarises one routing pass.
type Report struct {
	Routed  int
	Invalid int
	Fanned  int
}

type routed struct {
	edge   int
	target string
	side   Side
	perp   float64
}

// Route sets SourceHandle, TargetHandle and Offset on every edge of g whose
// endpoints both exist. Node centres are compared in root coordinates, so
// edges between nodes in different containers are routed correctly.
//
// Edges sharing a target node and target side are sorted by their source
// centre along that side and spread at Spacing intervals centred on zero.
// Edges with a missing endpoint are left untouched and logged.
func (r *Router) Route(g *graph.Graph) Report {
	ix := g.Index()
	spacing := r.Spacing
	if spacing <= 0 {
		spacing = DefaultSpacing
	}

	var rep Report
	var entries []routed
	for i := range g.Edges {
		e := &g.Edges[i]
		src, dst := ix.Node(e.Source), ix.Node(e.Target)
		if src == nil || dst == nil {
			rep.Invalid++
			r.Logger.Warn("edge references missing node, leaving unchanged",
				"edge", e.ID, "source", e.Source, "target", e.Target)
			continue
		}

		sc := r.center(ix, src)
		tc := r.center(ix, dst)
		side := SideForAngle(Angle(sc.X, sc.Y, tc.X, tc.Y))
		e.SourceHandle = Handle{Side: side, Role: Source}.String()
		e.TargetHandle = Handle{Side: side.Opposite(), Role: Target}.String()
		e.Offset = 0
		rep.Routed++

		perp := sc.X
		if side.Opposite().IsHorizontal() {
			perp = sc.Y
		}
		entries = append(entries, routed{edge: i, target: dst.ID, side: side.Opposite(), perp: perp})
	}

	type groupKey struct {
		target string
		side   Side
	}
	groups := map[groupKey][]routed{}
	var keys []groupKey
	for _, en := range entries {
		k := groupKey{en.target, en.side}
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], en)
	}

	for _, k := range keys {
		members := groups[k]
		if len(members) < 2 {
			continue
		}
		slices.SortStableFunc(members, func(a, b routed) int {
			switch {
			case a.perp < b.perp:
				return -1
			case a.perp > b.perp:
				return 1
			}
			return 0
		})
		mid := float64(len(members)-1) / 2
		for i, m := range members {
			g.Edges[m.edge].Offset = (float64(i) - mid) * spacing
		}
		rep.Fanned += len(members)
	}

	r.Logger.Debug("routed edges", "routed", rep.Routed, "invalid", rep.Invalid, "fanned", rep.Fanned)
	return rep
}

func (r *Router) center(ix *graph.Index, n *graph.Node) geometry.Point {
	p := ix.AbsolutePosition(n.ID)
	s := r.Resolver.Size(n)
	return geometry.Point{X: p.X + s.W/2, Y: p.Y + s.H/2}
}
