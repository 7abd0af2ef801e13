package layered

import (
	"context"
	"fmt"
	"runtime"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nestlayout/pkg/dag/transform"
	nlerrors "github.com/matzehuels/nestlayout/pkg/errors"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/topology"
)

// Config is one ranking strategy and alignment combination.
type Config struct {
	Ranker    transform.Ranker
	Alignment layout.Alignment
}

func (c Config) String() string {
	a := string(c.Alignment)
	if a == "" {
		a = "balanced"
	}
	return string(c.Ranker) + "/" + a
}

// defaultConfig is the single configuration retried after every candidate
// failed. It runs without ordering sweeps.
var defaultConfig = Config{Ranker: transform.RankLongestPath, Alignment: layout.AlignBalanced}

// Configs returns the combinations tried for a graph with the given
// analysis: every candidate ranker crossed with the requested alignment
// followed by the balanced, upper-left and upper-right alignments. A
// requested alignment already in that set is not repeated.
func Configs(a topology.Analysis, nodeCount int, requested layout.Alignment) []Config {
	aligns := lo.Uniq([]layout.Alignment{requested, layout.AlignBalanced, layout.AlignUpLeft, layout.AlignUpRight})
	var out []Config
	for _, r := range a.Candidates(nodeCount) {
		for _, al := range aligns {
			out = append(out, Config{Ranker: r, Alignment: al})
		}
	}
	return out
}

type attemptFunc func(p *problem, cfg Config) (placement, error)

// attempt runs the full layered pipeline for one configuration on a copy
// of the problem graph.
func attempt(p *problem, cfg Config) (placement, error) {
	g := p.base.Clone()
	transform.BreakCycles(g)
	if err := transform.Rank(g, cfg.Ranker); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("rank %s: %w", cfg.Ranker, err)
	}
	if _, err := transform.Subdivide(g); err != nil {
		return nil, err
	}
	transform.OrderRows(g, p.sweeps)
	return p.place(g, cfg.Alignment), nil
}

type outcome struct {
	cfg     Config
	rects   placement
	quality Quality
	err     error
	ran     bool
}

// run executes one attempt, turning a panic into an error.
func (e *Engine) run(p *problem, cfg Config) (out outcome) {
	out.cfg = cfg
	out.ran = true
	defer func() {
		if r := recover(); r != nil {
			out.rects = nil
			out.err = nlerrors.New(nlerrors.ErrCodeInternal, "attempt %s panicked: %v", cfg, r)
		}
	}()

	fn := e.attempt
	if fn == nil {
		fn = attempt
	}
	rects, err := fn(p, cfg)
	if err != nil {
		out.err = err
		return out
	}
	out.rects = rects
	out.quality = Evaluate(rects, p.edges, p.area)
	return out
}

// search tries every configuration and returns the outcomes in
// configuration order. Attempts not started before ctx is done are left
// with ran unset.
func (e *Engine) search(ctx context.Context, p *problem, cfgs []Config, parallel bool) []outcome {
	outs := make([]outcome, len(cfgs))
	if !parallel {
		for i, cfg := range cfgs {
			if ctx.Err() != nil {
				break
			}
			outs[i] = e.run(p, cfg)
		}
		return outs
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, cfg := range cfgs {
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outs[i] = e.run(p, cfg)
			return nil
		})
	}
	_ = eg.Wait()
	return outs
}

// best returns the successful outcome with the lowest score. Ties go to
// the earliest configuration, so the choice does not depend on completion
// order.
func best(outs []outcome) (outcome, bool) {
	var winner outcome
	found := false
	for _, o := range outs {
		if !o.ran || o.err != nil {
			continue
		}
		if !found || o.quality.Total < winner.quality.Total {
			winner, found = o, true
		}
	}
	return winner, found
}
