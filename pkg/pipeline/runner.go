package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/nestlayout/pkg/cache"
	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/observability"
)

// cacheKeyType labels cache events for hooks.
const cacheKeyType = "layout"

// Layout lays out g with opts. The input graph is never modified.
//
// Invalid options or an invalid containment structure are reported with
// the INVALID_OPTIONS and INVALID_GRAPH codes. The layered engine always
// produces a result; compound failures are returned as errors and the
// caller should keep its previous positions.
func (r *Runner) Layout(ctx context.Context, g graph.Graph, opts layout.Options) (layout.Result, error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return layout.Result{}, err
	}
	opts = opts.WithDefaults()

	work := g.Clone()
	work.Normalize()
	if err := work.Validate(); err != nil {
		return layout.Result{}, err
	}

	key, keyErr := r.key(work, opts)
	if keyErr != nil {
		r.Logger.Warn("cache key unavailable, skipping cache", "error", keyErr)
	}
	if keyErr == nil {
		if res, ok := r.cached(ctx, key); ok {
			res.Stats.CacheHit = true
			res.Stats.ProcessingTimeMs = time.Since(start).Milliseconds()
			r.Logger.Debug("layout cache hit", "engine", res.Stats.Engine, "nodes", len(res.Nodes))
			return res, nil
		}
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, string(opts.Algorithm), len(work.Nodes))

	res, report, err := r.compute(ctx, work, opts)
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, string(opts.Algorithm), elapsed, err)
	if err != nil {
		r.Logger.Error("layout failed", "engine", opts.Algorithm, "error", err)
		return layout.Result{}, err
	}
	hooks.OnSearch(ctx, res.Stats.ConfigurationsTried, res.Stats.FallbacksUsed)
	hooks.OnEdgesRouted(ctx, report.Routed, report.Invalid)

	res.Stats.ProcessingTimeMs = elapsed.Milliseconds()
	r.Logger.Info("computed layout",
		"engine", res.Stats.Engine,
		"nodes", res.Stats.TotalNodes,
		"boundaries", res.Stats.BoundariesProcessed,
		"repositioned", res.Stats.DevicesRepositioned,
		"invalid_edges", res.Stats.InvalidEdges,
		"duration", elapsed)

	if keyErr == nil {
		r.store(ctx, key, res)
	}
	return res, nil
}

// key derives the cache key from the normalized graph and the effective
// options.
func (r *Runner) key(g graph.Graph, opts layout.Options) (string, error) {
	gh, err := cache.HashJSON(g)
	if err != nil {
		return "", err
	}
	oh, err := cache.HashJSON(opts)
	if err != nil {
		return "", err
	}
	return r.Keyer.LayoutKey(gh, oh), nil
}

// cached returns a stored result. Backend errors and undecodable entries
// count as misses.
func (r *Runner) cached(ctx context.Context, key string) (layout.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return layout.Result{}, false
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return layout.Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return res, true
}

func (r *Runner) store(ctx context.Context, key string, res layout.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		r.Logger.Warn("cache encode failed", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}
