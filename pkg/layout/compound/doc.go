// Package compound lays out a whole containment tree in one Graphviz pass.
//
// Every non-empty boundary becomes a cluster subgraph and every device (and
// every empty boundary) a fixed-size node. Graphviz sizes the clusters
// around their contents, so auto-resizing boundaries take the size of their
// cluster. An invisible spacer node inside each auto-resizing cluster
// reserves the minimum boundary size, so siblings are placed around it. Edges are declared at the top level; an edge ending at a
// boundary is drawn to a representative node inside it and clipped at the
// cluster border with lhead/ltail.
//
// The backend is the WebAssembly build of Graphviz shipped with
// github.com/goccy/go-graphviz. It is created once, on the first call to
// [Engine.EnsureInitialized] or [Engine.Layout]. Positions are read from
// the laid-out graph through cgraph attributes.
//
// Unlike the layered engine, failures are returned to the caller: a pass
// over the whole tree has no partial result to fall back to.
package compound
