// Package dag provides a weighted, row-based directed graph used by the
// layered layout engine.
//
// # Overview
//
// The layered engine lays out the children of one container as a Sugiyama
// style drawing: nodes are assigned to rows (ranks), long edges are broken
// into chains of virtual nodes, rows are ordered to reduce crossings, and
// finally coordinates are assigned. This package holds the graph those
// phases share.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "gateway", Width: 140, Height: 110})
//	g.AddNode(dag.Node{ID: "web", Width: 140, Height: 110})
//	g.AddEdge(dag.Edge{From: "gateway", To: "web", Weight: 2, MinLen: 1})
//
// Edges carry a Weight, used by the rankers to decide which edges should be
// kept short, and a MinLen, the minimum number of rows the edge must span.
// Adding the same ordered pair twice merges the edges. Self loops are
// rejected with [ErrSelfLoop].
//
// # Determinism
//
// Nodes, edges, sources and sinks are reported in insertion order. Layout
// results must be identical across runs, so no traversal depends on map
// iteration order.
//
// # Edge Crossings
//
// The [CountCrossings] and [CountLayerCrossings] functions use a Fenwick tree
// (binary indexed tree) to count inversions in O(E log V) time, which keeps
// the ordering sweeps cheap even for wide rows. [MeasureCrossings] also
// weighs each crossing by the product of the two edge weights; the ordering
// pass uses it to break ties between equal counts.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. The layout search builds one
// DAG per configuration attempt, so attempts never share a graph.
//
// # Related Packages
//
// The [transform] subpackage provides the graph transformations:
//   - Cycle breaking by edge reversal
//   - Rankers (longest path, tight tree, network simplex, tree)
//   - Edge subdivision (break long edges into virtual nodes)
//   - Row ordering (barycenter sweeps with transposition)
//
// [transform]: github.com/matzehuels/nestlayout/pkg/dag/transform
package dag
