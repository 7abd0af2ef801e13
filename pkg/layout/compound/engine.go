package compound

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/goccy/go-graphviz/gvc"

	nlerrors "github.com/matzehuels/nestlayout/pkg/errors"
	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

// Name is the engine name reported in stats.
const Name = string(layout.AlgorithmCompound)

// backend lays out a DOT document.
type backend interface {
	Layout(ctx context.Context, dot string) (Layout, error)
	Close() error
}

type graphvizBackend struct {
	gv *gvc.Context
}

func newGraphvizBackend(ctx context.Context) (backend, error) {
	c, err := gvc.New(ctx)
	if err != nil {
		return nil, err
	}
	return &graphvizBackend{gv: c}, nil
}

func (b *graphvizBackend) Layout(ctx context.Context, dot string) (lay Layout, err error) {
	g, err := cgraph.ParseBytes([]byte(dot))
	if err != nil {
		return Layout{}, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := b.gv.Layout(ctx, g, "dot"); err != nil {
		return Layout{}, fmt.Errorf("layout: %w", err)
	}
	defer func() {
		if ferr := b.gv.FreeLayout(ctx, g); ferr != nil && err == nil {
			err = fmt.Errorf("free layout: %w", ferr)
		}
	}()

	// Rendering writes pos, width, height and bb back onto the graph.
	if err := b.gv.RenderData(ctx, g, "dot", io.Discard); err != nil {
		return Layout{}, fmt.Errorf("attach attributes: %w", err)
	}
	attrs, err := collect(g)
	if err != nil {
		return Layout{}, fmt.Errorf("read attributes: %w", err)
	}
	return attrs.layout()
}

func (b *graphvizBackend) Close() error { return b.gv.Close() }

// Engine is the compound layout engine. Create it with [New]; it owns a
// Graphviz runtime that is released by [Engine.Close]. Layout calls are
// serialised on the runtime and safe for concurrent use.
type Engine struct {
	logger *log.Logger

	once    sync.Once
	initErr error
	mu      sync.Mutex
	backend backend

	newBackend func(context.Context) (backend, error)
}

// New returns an engine logging to logger. A nil logger discards output.
// The Graphviz runtime is not created until first use.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Engine{logger: logger, newBackend: newGraphvizBackend}
}

var (
	_ layout.Engine      = (*Engine)(nil)
	_ layout.Initializer = (*Engine)(nil)
)

// Name implements layout.Engine.
func (e *Engine) Name() string { return Name }

// EnsureInitialized creates the Graphviz runtime. Only the first call does
// any work; later calls return the first call's result.
func (e *Engine) EnsureInitialized(ctx context.Context) error {
	e.once.Do(func() {
		start := time.Now()
		b, err := e.newBackend(ctx)
		if err != nil {
			e.initErr = nlerrors.Wrap(nlerrors.ErrCodeBackendUnavailable, err, "initialize graphviz")
			return
		}
		e.backend = b
		e.logger.Debug("graphviz runtime ready", "ms", time.Since(start).Milliseconds())
	})
	return e.initErr
}

// Close releases the Graphviz runtime. The engine cannot be used after
// Close.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.backend == nil {
		return nil
	}
	err := e.backend.Close()
	e.backend = nil
	return err
}

// Layout implements layout.Engine. Errors carry the INVALID_GRAPH,
// BACKEND_UNAVAILABLE or LAYOUT_FAILED code.
func (e *Engine) Layout(ctx context.Context, g graph.Graph, opts layout.Options) (layout.Result, error) {
	start := time.Now()
	opts = opts.WithDefaults()
	g = g.Clone()
	if err := g.Validate(); err != nil {
		return layout.Result{}, err
	}
	if err := e.EnsureInitialized(ctx); err != nil {
		return layout.Result{}, err
	}
	if len(g.Nodes) == 0 {
		return layout.Result{Nodes: g.Nodes, Edges: g.Edges, Stats: layout.Stats{Engine: Name}}, nil
	}

	res := geometry.NewResolver(opts.ImageSizePercent)
	doc := build(&g, opts, res)
	e.logger.Debug("compound layout",
		"nodes", len(g.Nodes),
		"clusters", len(doc.clusters),
		"edges", doc.edges,
		"spacers", doc.spacers,
		"skipped_edges", doc.skipped)

	lay, err := e.layout(ctx, doc.dot)
	if err != nil {
		return layout.Result{}, nlerrors.Wrap(nlerrors.ErrCodeLayoutFailed, err, "graphviz layout")
	}

	before := make(map[string]graph.Position, len(g.Nodes))
	for _, n := range g.Nodes {
		before[n.ID] = n.Position
	}
	if err := apply(&g, doc, lay, opts); err != nil {
		return layout.Result{}, nlerrors.Wrap(nlerrors.ErrCodeLayoutFailed, err, "apply graphviz output")
	}

	stats := layout.Stats{TotalNodes: len(g.Nodes), Engine: Name, BoundariesProcessed: len(doc.clusters)}
	for _, n := range g.Nodes {
		if n.IsDevice() && n.Position != before[n.ID] {
			stats.DevicesRepositioned++
		}
	}
	stats.ProcessingTimeMs = time.Since(start).Milliseconds()
	return layout.Result{Nodes: g.Nodes, Edges: g.Edges, Stats: stats}, nil
}

func (e *Engine) layout(ctx context.Context, dot string) (Layout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.backend == nil {
		return Layout{}, nlerrors.New(nlerrors.ErrCodeBackendUnavailable, "graphviz runtime closed")
	}
	return e.backend.Layout(ctx, dot)
}

// apply writes parsed positions back to the graph. Positions become
// relative to the parent container; root-level nodes keep the top-left
// corner they had on input.
func apply(g *graph.Graph, doc *document, lay Layout, opts layout.Options) error {
	abs := make(map[string]geometry.Rect, len(g.Nodes))
	for _, n := range g.Nodes {
		name := doc.names[n.ID]
		r, ok := lay.Nodes[name]
		if doc.clusters[n.ID] {
			r, ok = lay.Clusters[name]
		}
		if !ok {
			return fmt.Errorf("node %q (%s) missing from output", n.ID, name)
		}
		abs[n.ID] = r
	}

	origin := geometry.Point{X: math.Inf(1), Y: math.Inf(1)}
	drawn := geometry.Point{X: math.Inf(1), Y: math.Inf(1)}
	for _, n := range g.Nodes {
		if n.IsRoot() {
			origin.X = math.Min(origin.X, n.Position.X)
			origin.Y = math.Min(origin.Y, n.Position.Y)
			drawn.X = math.Min(drawn.X, abs[n.ID].X)
			drawn.Y = math.Min(drawn.Y, abs[n.ID].Y)
		}
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		r := abs[n.ID]
		if n.IsRoot() {
			n.Position = graph.Position{X: r.X - drawn.X + origin.X, Y: r.Y - drawn.Y + origin.Y}
		} else {
			p := abs[n.ParentID]
			n.Position = graph.Position{X: r.X - p.X, Y: r.Y - p.Y}
		}
		if n.IsBoundary() && n.AutoResizeOr(opts.ShouldAutoResize()) {
			n.SetSize(r.W, r.H)
		}
	}
	return nil
}
