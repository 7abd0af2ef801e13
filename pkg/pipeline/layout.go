package pipeline

import (
	"context"

	nlerrors "github.com/matzehuels/nestlayout/pkg/errors"
	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
	"github.com/matzehuels/nestlayout/pkg/layout/handles"
)

// =============================================================================
// Engine Dispatch
// =============================================================================

// engine returns the engine for alg, initializing its backend if it has one.
func (r *Runner) engine(ctx context.Context, alg layout.Algorithm) (layout.Engine, error) {
	e, ok := r.engines[alg]
	if !ok {
		return nil, nlerrors.New(nlerrors.ErrCodeUnsupported, "no engine for algorithm %q", alg)
	}
	if init, ok := e.(layout.Initializer); ok {
		if err := init.EnsureInitialized(ctx); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// compute runs the engine and the post-processing passes on g, which the
// caller has already copied and validated.
func (r *Runner) compute(ctx context.Context, g graph.Graph, opts layout.Options) (layout.Result, handles.Report, error) {
	e, err := r.engine(ctx, opts.Algorithm)
	if err != nil {
		return layout.Result{}, handles.Report{}, err
	}
	res, err := e.Layout(ctx, g, opts)
	if err != nil {
		return layout.Result{}, handles.Report{}, err
	}

	out := res.Graph()
	resolver := geometry.NewResolver(opts.ImageSizePercent)
	if opts.Algorithm == layout.AlgorithmCompound {
		if err := checkBoundaries(&out, opts, resolver); err != nil {
			return layout.Result{}, handles.Report{}, err
		}
	}
	report := handles.NewRouter(resolver, r.Logger).Route(&out)

	res.Nodes, res.Edges = out.Nodes, out.Edges
	res.Stats.InvalidEdges = report.Invalid
	return res, report, nil
}

// =============================================================================
// Compound Result Check
// =============================================================================

// boundarySlack absorbs the rounding of Graphviz's output coordinates.
const boundarySlack = 1.0

// checkBoundaries verifies the compound result: every auto-resized
// boundary with children is at least the configured minimum and holds
// each child inside its padding. Graphviz sizes the clusters; nothing is
// moved here, so a violation is a LAYOUT_FAILED error.
func checkBoundaries(g *graph.Graph, opts layout.Options, res geometry.Resolver) error {
	ix := g.Index()
	for _, b := range ix.PostOrder() {
		children := ix.Children(b.ID)
		if len(children) == 0 || !b.AutoResizeOr(opts.ShouldAutoResize()) {
			continue
		}
		size := res.Size(b)
		if size.W+boundarySlack < opts.MinBoundaryWidth || size.H+boundarySlack < opts.MinBoundaryHeight {
			return nlerrors.New(nlerrors.ErrCodeLayoutFailed, "boundary %q is %gx%g, below the %gx%g minimum",
				b.ID, size.W, size.H, opts.MinBoundaryWidth, opts.MinBoundaryHeight)
		}

		pad := opts.Padding()
		if b.Data.Padding > 0 {
			pad = b.Data.Padding
		}
		interior := geometry.Rect{X: pad, Y: pad, W: size.W - 2*pad, H: size.H - 2*pad}
		for _, c := range children {
			if r := res.Rect(c); !interior.Contains(r, boundarySlack) {
				return nlerrors.New(nlerrors.ErrCodeLayoutFailed, "%q at %v is outside the padded interior of %q",
					c.ID, r, b.ID)
			}
		}
	}
	return nil
}
