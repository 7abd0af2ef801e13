package layout

import (
	"context"

	"github.com/matzehuels/nestlayout/pkg/graph"
)

// Stats describes one layout call.
type Stats struct {
	TotalNodes          int    `json:"totalNodes"`
	BoundariesProcessed int    `json:"boundariesProcessed"`
	DevicesRepositioned int    `json:"devicesRepositioned"`
	ProcessingTimeMs    int64  `json:"processingTimeMs"`
	Engine              string `json:"engine,omitempty"`
	ConfigurationsTried int    `json:"configurationsTried,omitempty"`
	FallbacksUsed       int    `json:"fallbacksUsed,omitempty"`
	InvalidEdges        int    `json:"invalidEdges,omitempty"`
	CacheHit            bool   `json:"cacheHit,omitempty"`
}

// Result is the output of one layout call: the nodes with updated
// positions and sizes, the edges with handle annotations, and statistics.
// A Result is never modified after it is returned.
type Result struct {
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
	Stats Stats        `json:"stats"`
}

// Graph returns the result's nodes and edges as a graph.
func (r Result) Graph() graph.Graph {
	return graph.Graph{Nodes: r.Nodes, Edges: r.Edges}
}

// Engine lays out a whole diagram. Implementations receive their own copy
// of the graph and may modify it freely.
type Engine interface {
	// Name identifies the engine in stats and logs.
	Name() string
	// Layout computes positions and sizes for every node of g.
	Layout(ctx context.Context, g graph.Graph, opts Options) (Result, error)
}

// Initializer is implemented by engines with a heavy backend that must be
// prepared before first use. EnsureInitialized is idempotent and safe to
// call concurrently.
type Initializer interface {
	EnsureInitialized(ctx context.Context) error
}
