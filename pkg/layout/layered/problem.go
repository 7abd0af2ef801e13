package layered

import (
	"github.com/samber/lo"

	"github.com/matzehuels/nestlayout/pkg/dag"
	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
	"github.com/matzehuels/nestlayout/pkg/layout/spacing"
)

// placement maps node ids to rectangles in container-local coordinates.
type placement map[string]geometry.Rect

func (p placement) bounds() (geometry.Rect, bool) {
	return geometry.Bounds(lo.Values(p))
}

func (p placement) translate(dx, dy float64) {
	for id, r := range p {
		p[id] = r.Translate(dx, dy)
	}
}

// problem is the read-only input shared by every attempt for one container.
type problem struct {
	base   *dag.DAG
	order  []string
	sizes  map[string]geometry.Size
	edges  [][2]string
	dir    layout.Direction
	sp     spacing.Spacing
	area   geometry.Size
	sweeps int

	// dups lists child ids seen more than once. Only the first node with
	// an id is placed.
	dups []string
}

// newProblem builds the weighted graph for the given children. Edges are
// kept only when both endpoints are children and distinct.
func newProblem(children []*graph.Node, edges []graph.Edge, dir layout.Direction, sp spacing.Spacing, area geometry.Size, res geometry.Resolver, sweeps int) *problem {
	p := &problem{
		base:   dag.New(),
		sizes:  make(map[string]geometry.Size, len(children)),
		dir:    dir,
		sp:     sp,
		area:   area,
		sweeps: sweeps,
	}

	for _, c := range children {
		s := res.Size(c)

		// Width runs along a row, Height along the rank axis.
		w, h := s.W, s.H
		if dir.IsHorizontal() {
			w, h = h, w
		}
		if err := p.base.AddNode(dag.Node{ID: c.ID, Width: w, Height: h}); err != nil {
			p.dups = append(p.dups, c.ID)
			continue
		}
		p.sizes[c.ID] = s
		p.order = append(p.order, c.ID)
	}

	internal := lo.Filter(edges, func(e graph.Edge, _ int) bool {
		_, okSrc := p.sizes[e.Source]
		_, okDst := p.sizes[e.Target]
		return okSrc && okDst && e.Source != e.Target
	})
	for _, e := range internal {
		hints := e.Hints()
		weight, minLen := EdgeWeight(hints)
		from, to := e.Source, e.Target
		reversed := hints.Direction == graph.DirectionTargetToSource
		if reversed {
			from, to = to, from
		}
		if err := p.base.AddEdge(dag.Edge{From: from, To: to, Weight: weight, MinLen: minLen, Reversed: reversed}); err != nil {
			continue
		}
		p.edges = append(p.edges, [2]string{e.Source, e.Target})
	}
	return p
}

// withSweeps returns a copy of p that runs the given number of ordering
// passes.
func (p *problem) withSweeps(n int) *problem {
	q := *p
	q.sweeps = n
	return &q
}
