// Package observability lets the layout packages report events without
// depending on a metrics backend.
//
// Three hook interfaces cover layout runs, cache lookups and HTTP requests.
// Until something is installed every call goes to [Noop]. The server
// installs a [PrometheusHooks], which implements all three:
//
//	h := observability.NewPrometheusHooks(prometheus.NewRegistry())
//	defer observability.Install(h)()
//
// Instrumented code fetches the current hooks at the call site:
//
//	observability.Layout().OnLayoutStart(ctx, engine, nodeCount)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// LayoutHooks receives events from the layout pipeline.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, engine string, nodeCount int)
	OnLayoutComplete(ctx context.Context, engine string, duration time.Duration, err error)

	// OnSearch reports how many layered configurations were tried and how
	// many containers fell back to the grid.
	OnSearch(ctx context.Context, configurations, fallbacks int)

	// OnEdgesRouted reports the handle router's result.
	OnEdgesRouted(ctx context.Context, routed, invalid int)
}

// CacheHooks receives cache lookups and writes. keyType names the kind of
// entry, currently always "layout".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives requests served by the API. route is the matched
// pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// Noop implements every hook interface and discards all events. Embed it
// to implement only the methods you care about.
type Noop struct{}

func (Noop) OnLayoutStart(context.Context, string, int)                     {}
func (Noop) OnLayoutComplete(context.Context, string, time.Duration, error) {}
func (Noop) OnSearch(context.Context, int, int)                             {}
func (Noop) OnEdgesRouted(context.Context, int, int)                        {}
func (Noop) OnCacheHit(context.Context, string)                             {}
func (Noop) OnCacheMiss(context.Context, string)                            {}
func (Noop) OnCacheSet(context.Context, string, int)                        {}
func (Noop) OnRequest(context.Context, string, string)                      {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration) {}

type hookSet struct {
	layout LayoutHooks
	cache  CacheHooks
	http   HTTPHooks
}

var defaults = &hookSet{Noop{}, Noop{}, Noop{}}

var current atomic.Pointer[hookSet]

func init() { current.Store(defaults) }

// Install registers h for each hook interface it implements and leaves the
// others as they are. It returns a function that restores the hooks that
// were installed before. A nil h changes nothing.
func Install(h any) (restore func()) {
	for {
		prev := current.Load()
		next := *prev
		if l, ok := h.(LayoutHooks); ok {
			next.layout = l
		}
		if c, ok := h.(CacheHooks); ok {
			next.cache = c
		}
		if x, ok := h.(HTTPHooks); ok {
			next.http = x
		}
		if current.CompareAndSwap(prev, &next) {
			return func() { current.Store(prev) }
		}
	}
}

// Reset restores the no-op hooks.
func Reset() { current.Store(defaults) }

// Layout returns the installed layout hooks.
func Layout() LayoutHooks { return current.Load().layout }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }
