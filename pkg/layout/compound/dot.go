package compound

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
	"github.com/matzehuels/nestlayout/pkg/layout/layered"
	"github.com/matzehuels/nestlayout/pkg/layout/spacing"
)

// pointsPerInch converts between pixels (points) and Graphviz inches.
const pointsPerInch = 72.0

// document is a DOT graph plus the mapping between DOT names and node ids.
type document struct {
	dot      string
	names    map[string]string // node id -> DOT name
	ids      map[string]string // DOT name -> node id
	clusters map[string]bool   // node ids rendered as clusters
	sizes    map[string]geometry.Size
	edges    int
	skipped  int
	spacers  int
}

type builder struct {
	ix    *graph.Index
	opts  layout.Options
	res   geometry.Resolver
	doc   *document
	buf   bytes.Buffer
	leafN int
	clusN int
}

// ToDOT returns the DOT document the engine would hand to Graphviz for g.
func ToDOT(g graph.Graph, opts layout.Options) string {
	opts = opts.WithDefaults()
	return build(&g, opts, geometry.NewResolver(opts.ImageSizePercent)).dot
}

func build(g *graph.Graph, opts layout.Options, res geometry.Resolver) *document {
	b := &builder{
		ix:   g.Index(),
		opts: opts,
		res:  res,
		doc: &document{
			names:    map[string]string{},
			ids:      map[string]string{},
			clusters: map[string]bool{},
			sizes:    map[string]geometry.Size{},
		},
	}

	var leaves []*graph.Node
	for i := range g.Nodes {
		if n := &g.Nodes[i]; b.ix.ChildCount(n.ID) == 0 {
			leaves = append(leaves, n)
		}
	}
	sp := spacing.ForContainer(res.Average(leaves), len(leaves), opts.Direction, opts)

	b.buf.WriteString("digraph G {\n")
	b.buf.WriteString("  compound=true;\n")
	fmt.Fprintf(&b.buf, "  rankdir=%s;\n", opts.Direction.RankDir())
	fmt.Fprintf(&b.buf, "  nodesep=%s;\n", inches(sp.NodeSep))
	fmt.Fprintf(&b.buf, "  ranksep=%s;\n", inches(sp.RankSep))
	b.buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	b.buf.WriteString("  graph [label=\"\"];\n")
	b.buf.WriteString("\n")

	b.emit("", 1)
	b.buf.WriteString("\n")
	b.emitEdges(g)
	b.buf.WriteString("}\n")

	b.doc.dot = b.buf.String()
	return b.doc
}

func (b *builder) emit(parentID string, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range b.ix.Children(parentID) {
		if n.IsBoundary() && b.ix.ChildCount(n.ID) > 0 {
			name := fmt.Sprintf("cluster_%d", b.clusN)
			b.clusN++
			b.register(n.ID, name)
			b.doc.clusters[n.ID] = true

			fmt.Fprintf(&b.buf, "%ssubgraph %s {\n", indent, name)
			fmt.Fprintf(&b.buf, "%s  margin=%s;\n", indent, num(b.margin(n)))
			b.emitSpacer(n, indent+"  ")
			b.emit(n.ID, depth+1)
			fmt.Fprintf(&b.buf, "%s}\n", indent)
			continue
		}

		name := fmt.Sprintf("n%d", b.leafN)
		b.leafN++
		b.register(n.ID, name)
		s := b.leafSize(n)
		b.doc.sizes[n.ID] = s
		fmt.Fprintf(&b.buf, "%s%s [width=%s, height=%s];\n", indent, name, inches(s.W), inches(s.H))
	}
}

// emitSpacer reserves the minimum boundary size inside an auto-resizing
// cluster with an invisible fixed-size node. Graphviz then packs the
// cluster's siblings around its final size. Clusters whose margins alone
// reach the minimum get no spacer.
func (b *builder) emitSpacer(n *graph.Node, indent string) {
	if !n.AutoResizeOr(b.opts.ShouldAutoResize()) {
		return
	}
	m := b.margin(n)
	w, h := b.opts.MinBoundaryWidth-2*m, b.opts.MinBoundaryHeight-2*m
	if w <= 0 && h <= 0 {
		return
	}
	fmt.Fprintf(&b.buf, "%sspacer%d [width=%s, height=%s, style=invis];\n",
		indent, b.doc.spacers, inches(max(w, 1)), inches(max(h, 1)))
	b.doc.spacers++
}

// margin is the cluster padding in points. Clusters holding other clusters
// get extra room for the nested labels.
func (b *builder) margin(n *graph.Node) float64 {
	m := b.opts.Padding()
	if n.Data.Padding > 0 {
		m = n.Data.Padding
	}
	if b.ix.HasNestedBoundaries(n.ID) {
		m += b.opts.NestedBoundarySpacing
	}
	return m
}

// leafSize is the fixed size of a DOT node. Empty auto-resizing boundaries
// collapse to the minimum boundary size.
func (b *builder) leafSize(n *graph.Node) geometry.Size {
	if n.IsBoundary() && n.AutoResizeOr(b.opts.ShouldAutoResize()) {
		return geometry.Size{W: b.opts.MinBoundaryWidth, H: b.opts.MinBoundaryHeight}
	}
	return b.res.Size(n)
}

func (b *builder) register(id, name string) {
	b.doc.names[id] = name
	b.doc.ids[name] = id
}

// anchor returns the DOT node an edge endpoint attaches to, and the cluster
// to clip at when the endpoint is a boundary.
func (b *builder) anchor(id string) (node, cluster string) {
	name := b.doc.names[id]
	if !b.doc.clusters[id] {
		return name, ""
	}
	return b.doc.names[b.representative(id)], name
}

// representative returns the first leaf inside a cluster, depth first.
func (b *builder) representative(id string) string {
	for _, c := range b.ix.Children(id) {
		if !b.doc.clusters[c.ID] {
			return c.ID
		}
		if r := b.representative(c.ID); r != "" {
			return r
		}
	}
	return ""
}

func (b *builder) emitEdges(g *graph.Graph) {
	for i := range g.Edges {
		e := &g.Edges[i]
		src, dst := e.Source, e.Target
		if !b.ix.Has(src) || !b.ix.Has(dst) || src == dst ||
			b.ix.IsAncestor(src, dst) || b.ix.IsAncestor(dst, src) {
			b.doc.skipped++
			continue
		}

		hints := e.Hints()
		if hints.Direction == graph.DirectionTargetToSource {
			src, dst = dst, src
		}
		tail, ltail := b.anchor(src)
		head, lhead := b.anchor(dst)
		if tail == "" || head == "" || tail == head {
			b.doc.skipped++
			continue
		}

		weight, minLen := edgeAttrs(hints)
		attrs := []string{fmt.Sprintf("weight=%d", weight), fmt.Sprintf("minlen=%d", minLen)}
		if ltail != "" {
			attrs = append(attrs, "ltail="+ltail)
		}
		if lhead != "" {
			attrs = append(attrs, "lhead="+lhead)
		}
		fmt.Fprintf(&b.buf, "  %s -> %s [%s];\n", tail, head, strings.Join(attrs, ", "))
		b.doc.edges++
	}
}

// edgeAttrs converts the layered edge weight to the integer weight dot
// requires, keeping quarter steps apart.
func edgeAttrs(d graph.EdgeData) (weight, minLen int) {
	w, minLen := layered.EdgeWeight(d)
	return max(1, int(math.Round(w*4))), minLen
}

func inches(px float64) string { return num(px / pointsPerInch) }

func num(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*10000)/10000)
}
