// Package layout defines the types shared by the layout engines: the
// per-call [Options], the [Result] handed back to the caller, and the
// [Engine] interface implemented by the layered and compound engines.
//
// # Engines
//
// Two engines implement [Engine]:
//
//   - layered (pkg/layout/layered): lays out one container at a time as a
//     layered graph and recurses through the containment tree, deepest
//     containers first. Never fails: when every configuration fails it
//     falls back to a grid.
//   - compound (pkg/layout/compound): lays out the whole containment tree
//     in one Graphviz pass. Failures are returned to the caller.
//
// The engine is picked once per call from [Options.Algorithm] by the
// orchestrator in pkg/pipeline.
//
// # Options
//
// Options are an immutable value. [Options.WithDefaults] returns a copy with
// unset fields filled in, and [Options.Validate] checks the value with struct
// tags. Options can be loaded from a TOML preset with [LoadOptionsFile]:
//
//	algorithm = "layered"
//	direction = "right"
//	boundaryPadding = 48
//	minimizeOverlaps = true
//	searchTimeout = "2s"
//
// # Directions
//
// [Direction] names the flow of edges: down (top to bottom), up, right (left
// to right) and left. Horizontal flows swap the roles of width and height
// in spacing and sizing.
package layout
