// Package pipeline runs a layout request end to end for the CLI and the
// HTTP service.
//
// By centralizing this logic, both entry points share option handling,
// engine selection, post-processing and caching.
//
// # Stages
//
// One call to [Runner.Layout]:
//
//  1. Validates the options and fills in defaults
//  2. Copies, normalizes and validates the graph
//  3. Looks the result up in the cache
//  4. Selects the engine named by Options.Algorithm and runs it
//  5. Clamps compound boundaries to the configured minimum size
//  6. Assigns edge handles and offsets
//  7. Stores the result in the cache
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//
//	res, err := runner.Layout(ctx, g, layout.Options{Direction: layout.DirectionRight})
//	if err != nil {
//	    // compound failures and invalid input end up here;
//	    // keep the previous positions
//	}
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nestlayout/pkg/cache"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/compound"
	"github.com/matzehuels/nestlayout/pkg/layout/layered"
)

// Runner executes layout requests with caching.
//
// The Runner is stateless except for the cache, the logger and the engines.
// Multiple goroutines can safely use the same Runner with different graphs
// and options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	engines map[layout.Algorithm]layout.Engine
}

// NewRunner creates a runner with the layered and compound engines.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		engines: map[layout.Algorithm]layout.Engine{
			layout.AlgorithmLayered:  layered.New(logger),
			layout.AlgorithmCompound: compound.New(logger),
		},
	}
}

// SetEngine replaces the engine used for an algorithm. The previous engine
// is not closed.
func (r *Runner) SetEngine(alg layout.Algorithm, e layout.Engine) {
	r.engines[alg] = e
}

// Close releases the engines' backends and the cache.
func (r *Runner) Close() error {
	var first error
	for _, e := range r.engines {
		if c, ok := e.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
