package compound

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz/cgraph"

	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

// Layout is a Graphviz result in top-left, y-down coordinates with the
// origin at the top-left corner of the whole drawing. Keys are DOT names.
type Layout struct {
	Bounds   geometry.Rect
	Nodes    map[string]geometry.Rect
	Clusters map[string]geometry.Rect
}

// ErrNoBoundingBox is returned when a laid-out graph has no bb attribute.
var ErrNoBoundingBox = errors.New("graphviz output has no bounding box")

// attributes are the raw layout attributes Graphviz attached to a graph:
// bb for the graph and each subgraph, pos/width/height for each node.
type attributes struct {
	bb        string
	nodes     map[string]nodeAttrs
	subgraphs map[string]string
}

type nodeAttrs struct {
	pos, width, height string
}

// collect reads the layout attributes of a graph that has been laid out
// and rendered.
func collect(g *cgraph.Graph) (attributes, error) {
	a := attributes{
		bb:        g.GetStr("bb"),
		nodes:     map[string]nodeAttrs{},
		subgraphs: map[string]string{},
	}
	n, err := g.FirstNode()
	for ; err == nil && n != nil; n, err = g.NextNode(n) {
		name, err := n.Name()
		if err != nil {
			return a, err
		}
		a.nodes[name] = nodeAttrs{pos: n.GetStr("pos"), width: n.GetStr("width"), height: n.GetStr("height")}
	}
	if err != nil {
		return a, err
	}
	return a, collectSubgraphs(g, a.subgraphs)
}

func collectSubgraphs(g *cgraph.Graph, out map[string]string) error {
	sub, err := g.FirstSubGraph()
	for ; err == nil && sub != nil; sub, err = sub.NextSubGraph() {
		name, err := sub.Name()
		if err != nil {
			return err
		}
		out[name] = sub.GetStr("bb")
		if err := collectSubgraphs(sub, out); err != nil {
			return err
		}
	}
	return err
}

// layout converts the attributes from Graphviz points (y up, origin at the
// lower-left of bb) to a [Layout]. Nodes without a pos are skipped.
func (a attributes) layout() (Layout, error) {
	if a.bb == "" {
		return Layout{}, ErrNoBoundingBox
	}
	llx, lly, urx, ury, err := parseBox(a.bb)
	if err != nil {
		return Layout{}, fmt.Errorf("graph bb: %w", err)
	}
	lay := Layout{
		Bounds:   geometry.Rect{W: urx - llx, H: ury - lly},
		Nodes:    make(map[string]geometry.Rect, len(a.nodes)),
		Clusters: make(map[string]geometry.Rect, len(a.subgraphs)),
	}

	for name, bb := range a.subgraphs {
		if bb == "" {
			return Layout{}, fmt.Errorf("subgraph %s has no bb", name)
		}
		x0, y0, x1, y1, err := parseBox(bb)
		if err != nil {
			return Layout{}, fmt.Errorf("subgraph %s bb: %w", name, err)
		}
		lay.Clusters[name] = geometry.Rect{X: x0 - llx, Y: ury - y1, W: x1 - x0, H: y1 - y0}
	}

	for name, na := range a.nodes {
		if na.pos == "" {
			continue
		}
		cx, cy, err := parsePair(na.pos)
		if err != nil {
			return Layout{}, fmt.Errorf("node %s pos: %w", name, err)
		}
		w, err := strconv.ParseFloat(na.width, 64)
		if err != nil {
			return Layout{}, fmt.Errorf("node %s width: %w", name, err)
		}
		h, err := strconv.ParseFloat(na.height, 64)
		if err != nil {
			return Layout{}, fmt.Errorf("node %s height: %w", name, err)
		}
		w, h = w*pointsPerInch, h*pointsPerInch
		lay.Nodes[name] = geometry.Rect{X: cx - w/2 - llx, Y: ury - cy - h/2, W: w, H: h}
	}
	return lay, nil
}

func parseBox(s string) (llx, lly, urx, ury float64, err error) {
	f, err := floats(s, 4)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return f[0], f[1], f[2], f[3], nil
}

func parsePair(s string) (x, y float64, err error) {
	f, err := floats(strings.TrimSuffix(s, "!"), 2)
	if err != nil {
		return 0, 0, err
	}
	return f[0], f[1], nil
}

func floats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
