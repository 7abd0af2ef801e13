// Package transform provides the graph transformations of the layered
// layout pipeline.
//
// # Overview
//
// Diagram edges rarely form a DAG with a clean row structure. This package
// turns an arbitrary weighted graph into a ranked, subdivided and ordered
// one, in this order:
//
//  1. [BreakCycles] reverses back edges so the graph becomes acyclic
//  2. [Rank] assigns rows with one of the [Ranker] strategies
//  3. [Subdivide] breaks long edges into chains of virtual nodes
//  4. [OrderRows] orders each row to reduce crossings
//
// # Rankers
//
// The layered engine tries several rankers per container and keeps the
// layout with the best quality score:
//
//   - [RankLongestPath]: Kahn's algorithm, sources on row 0
//   - [RankTightTree]: feasible tree of tight edges per component
//   - [RankNetworkSimplex]: tight tree refined to minimise weighted span
//   - [RankTree]: breadth-first depth, sources pulled to their children
//
// All rankers honour each edge's MinLen and are deterministic.
//
// # Ordering
//
// [OrderRows] alternates weighted barycenter sweeps with adjacent
// transposition and keeps the ordering with the fewest crossings as counted
// by [dag.CountCrossings].
package transform
