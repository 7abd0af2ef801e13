package layered

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nestlayout/pkg/dag/transform"
	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/boundary"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
	"github.com/matzehuels/nestlayout/pkg/layout/spacing"
	"github.com/matzehuels/nestlayout/pkg/layout/topology"
)

// Name is the engine name reported in stats.
const Name = string(layout.AlgorithmLayered)

// Engine is the layered layout engine. The zero value is usable and logs
// nothing. An Engine holds no per-call state and may be shared.
type Engine struct {
	Logger *log.Logger

	// Sweeps is the number of ordering passes per attempt. Zero selects
	// transform.DefaultSweeps.
	Sweeps int

	attempt attemptFunc
}

// New returns an engine logging to logger. A nil logger discards output.
func New(logger *log.Logger) *Engine {
	return &Engine{Logger: logger}
}

var _ layout.Engine = (*Engine)(nil)

// Name implements layout.Engine.
func (e *Engine) Name() string { return Name }

// Report describes how one container was laid out. The root level uses an
// empty Container id.
type Report struct {
	Container string
	Children  int
	Edges     int
	Direction layout.Direction
	Spacing   spacing.Spacing
	Kind      topology.Kind

	Tried   int
	Chosen  string
	Quality Quality
	Retried bool
	Grid    bool

	// Duplicates are child ids that occur more than once. The repeats keep
	// their input position.
	Duplicates []string

	// Sizing is set for containers resized around their children.
	Sizing *boundary.Sizing
}

// Layout implements layout.Engine. It never fails: containers whose
// attempts all fail are laid out on a grid.
func (e *Engine) Layout(ctx context.Context, g graph.Graph, opts layout.Options) (layout.Result, error) {
	res, _, err := e.Run(ctx, g, opts)
	return res, err
}

// Run lays out g like Layout and also returns one report per container,
// deepest containers first and the root level last.
func (e *Engine) Run(ctx context.Context, g graph.Graph, opts layout.Options) (layout.Result, []Report, error) {
	start := time.Now()
	logger := e.logger()
	opts = opts.WithDefaults()
	g = g.Clone()

	res := geometry.NewResolver(opts.ImageSizePercent)
	ix := g.Index()

	before := make(map[string]graph.Position, len(g.Nodes))
	for _, n := range g.Nodes {
		before[n.ID] = n.Position
	}

	var reports []Report
	stats := layout.Stats{TotalNodes: len(g.Nodes), Engine: Name}

	for _, b := range ix.PostOrder() {
		rep := e.layoutContainer(ctx, ix, b.ID, res.Size(b), opts, res)
		if b.AutoResizeOr(opts.ShouldAutoResize()) {
			sizing := resize(ix, b, opts, rep.Direction, res)
			rep.Sizing = &sizing
		}
		reports = append(reports, rep)
		stats.BoundariesProcessed++
		stats.ConfigurationsTried += rep.Tried
		if rep.Grid {
			stats.FallbacksUsed++
		}
	}

	rootRep := e.layoutRoot(ctx, ix, opts, res)
	reports = append(reports, rootRep)
	stats.ConfigurationsTried += rootRep.Tried
	if rootRep.Grid {
		stats.FallbacksUsed++
	}

	for _, n := range g.Nodes {
		if n.IsDevice() && n.Position != before[n.ID] {
			stats.DevicesRepositioned++
		}
	}
	stats.ProcessingTimeMs = time.Since(start).Milliseconds()

	logger.Debug("layered layout done",
		"nodes", stats.TotalNodes,
		"boundaries", stats.BoundariesProcessed,
		"configs", stats.ConfigurationsTried,
		"fallbacks", stats.FallbacksUsed,
		"ms", stats.ProcessingTimeMs)

	return layout.Result{Nodes: g.Nodes, Edges: g.Edges, Stats: stats}, reports, nil
}

// layoutContainer positions the direct children of parentID and centres
// them in a container of the given size.
func (e *Engine) layoutContainer(ctx context.Context, ix *graph.Index, parentID string, area geometry.Size, opts layout.Options, res geometry.Resolver) Report {
	children := ix.Children(parentID)
	rep := Report{Container: parentID, Children: len(children)}
	rects, rep := e.arrange(ctx, ix, children, area, opts, res, rep)
	if rects == nil {
		return rep
	}

	if b, ok := rects.bounds(); ok {
		rects.translate((area.W-b.W)/2-b.X, (area.H-b.H)/2-b.Y)
	}
	apply(children, rects)
	return rep
}

// layoutRoot positions the root-level nodes, keeping the top-left corner
// they had on input.
func (e *Engine) layoutRoot(ctx context.Context, ix *graph.Index, opts layout.Options, res geometry.Resolver) Report {
	children := ix.Children("")
	rep := Report{Children: len(children)}
	if len(children) == 0 {
		return rep
	}

	origin := geometry.Point{X: math.Inf(1), Y: math.Inf(1)}
	for _, c := range children {
		origin.X = math.Min(origin.X, c.Position.X)
		origin.Y = math.Min(origin.Y, c.Position.Y)
	}

	rects, rep := e.arrange(ctx, ix, children, geometry.Size{}, opts, res, rep)
	if rects == nil {
		return rep
	}
	if b, ok := rects.bounds(); ok {
		rects.translate(origin.X-b.X, origin.Y-b.Y)
	}
	apply(children, rects)
	return rep
}

// arrange runs the configuration search for a set of siblings. It returns
// nil when there is nothing to place.
func (e *Engine) arrange(ctx context.Context, ix *graph.Index, children []*graph.Node, area geometry.Size, opts layout.Options, res geometry.Resolver, rep Report) (placement, Report) {
	if len(children) == 0 {
		return nil, rep
	}
	logger := e.logger()

	dir := Orient(opts.Direction, area, len(children))
	if dir != opts.Direction {
		logger.Debug("re-oriented container", "container", rep.Container, "from", opts.Direction, "to", dir)
	}
	sp := spacing.ForContainer(res.Average(children), len(children), dir, opts)

	sweeps := e.Sweeps
	if sweeps <= 0 {
		sweeps = transform.DefaultSweeps
	}
	p := newProblem(children, ix.Graph().Edges, dir, sp, area, res, sweeps)
	rep.Direction, rep.Spacing, rep.Edges = dir, sp, len(p.edges)
	if len(p.dups) > 0 {
		rep.Duplicates = p.dups
		logger.Warn("skipping duplicate node ids", "container", rep.Container, "ids", p.dups)
	}

	analysis := topology.Classify(p.base)
	rep.Kind = analysis.Kind
	cfgs := Configs(analysis, len(children), opts.Alignment)

	searchCtx := ctx
	if opts.SearchTimeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, opts.SearchTimeout)
		defer cancel()
	}

	outs := e.search(searchCtx, p, cfgs, opts.Parallel)
	for _, o := range outs {
		if !o.ran {
			continue
		}
		rep.Tried++
		if o.err != nil {
			logger.Debug("layout attempt failed", "container", rep.Container, "config", o.cfg, "err", o.err)
		}
	}

	win, ok := best(outs)
	if !ok {
		rep.Retried = true
		rep.Tried++
		win = e.run(p.withSweeps(0), defaultConfig)
		ok = win.err == nil
		if !ok {
			logger.Warn("layered layout failed, using grid", "container", rep.Container, "err", win.err)
		}
	}
	if !ok {
		rep.Grid = true
		rep.Chosen = "grid"
		return Grid(children, res), rep
	}

	rep.Chosen = win.cfg.String()
	rep.Quality = win.quality
	logger.Debug("container laid out",
		"container", rep.Container,
		"children", rep.Children,
		"direction", dir,
		"config", rep.Chosen,
		"score", win.quality.Total,
		"crossings", win.quality.Crossings)
	return win.rects, rep
}

// resize sizes b around its children and centres them inside it. The
// preferred aspect ratio follows dir, the flow the children were laid out
// with.
func resize(ix *graph.Index, b *graph.Node, opts layout.Options, dir layout.Direction, res geometry.Resolver) boundary.Sizing {
	if dir == "" {
		dir = opts.Direction
	}
	children := ix.Children(b.ID)
	rects := make([]geometry.Rect, len(children))
	for i, c := range children {
		rects[i] = res.Rect(c)
	}

	sizer := boundary.NewSizer(opts, dir)
	if b.Data.Padding > 0 {
		sizer.Padding = b.Data.Padding
	}
	sizing := sizer.Size(rects)
	b.SetSize(sizing.Width, sizing.Height)
	for _, c := range children {
		c.Position.X += sizing.Offset.X
		c.Position.Y += sizing.Offset.Y
	}
	return sizing
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return e.Logger
}

// apply moves each node to its rectangle. A repeated id is left where it
// was.
func apply(nodes []*graph.Node, rects placement) {
	placed := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if r, ok := rects[n.ID]; ok && !placed[n.ID] {
			placed[n.ID] = true
			n.Position = graph.Position{X: r.X, Y: r.Y}
		}
	}
}
