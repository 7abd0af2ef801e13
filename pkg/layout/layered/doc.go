// Package layered lays out a diagram one container at a time as a layered
// (Sugiyama-style) graph.
//
// # Per-container pass
//
// Containers are processed deepest first. For each one the engine takes the
// direct children and the edges between them, derives spacing from the
// children's rendered sizes, and possibly re-orients the flow to suit the
// container's shape. It then tries several combinations of ranking strategy
// and alignment:
//
//	ranker    := topology.Classify(...).Candidates(n)
//	alignment := {Options.Alignment, UL, UR}
//
// Each attempt breaks cycles, ranks, subdivides long edges, orders rows to
// reduce crossings and assigns coordinates. The attempt with the lowest
// [Quality] wins. If every attempt fails, one plain retry runs before a
// grid placement, which cannot fail.
//
// After the children are placed, auto-resizing containers are sized around
// them with [boundary.Sizer] and the children are centred.
//
// # Root level
//
// Root-level nodes are laid out last. Their bounding box keeps the top-left
// corner the root set had on input, so a re-layout does not move the
// diagram on the canvas.
//
// [boundary.Sizer]: github.com/matzehuels/nestlayout/pkg/layout/boundary.Sizer
package layered
