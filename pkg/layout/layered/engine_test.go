package layered

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/geometry"
)

var resolver = geometry.NewResolver(layout.DefaultImageSizePercent)

func dev(id, parent string) graph.Node {
	return graph.Node{ID: id, Kind: graph.KindDevice, ParentID: parent}
}

func zone(id, parent string) graph.Node {
	return graph.Node{ID: id, Kind: graph.KindBoundary, ParentID: parent}
}

func link(src, dst string) graph.Edge {
	return graph.Edge{ID: src + "->" + dst, Source: src, Target: dst}
}

func nodeByID(t *testing.T, nodes []graph.Node, id string) graph.Node {
	t.Helper()
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %q not in result", id)
	return graph.Node{}
}

func rectOf(n graph.Node) geometry.Rect { return resolver.Rect(&n) }

// nestedGraph is a small network with two levels of containers and edges
// that cross container borders.
func nestedGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			zone("dmz", ""),
			zone("web", "dmz"),
			dev("lb", "dmz"),
			dev("web1", "web"),
			dev("web2", "web"),
			dev("web3", "web"),
			dev("internet", ""),
			dev("db", ""),
		},
		Edges: []graph.Edge{
			link("internet", "lb"),
			link("lb", "web1"),
			link("web1", "web2"),
			link("web1", "web3"),
			link("web2", "db"),
			link("internet", "db"),
		},
	}
}

func assertNoSiblingOverlap(t *testing.T, nodes []graph.Node) {
	t.Helper()
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			if a.ParentID != b.ParentID {
				continue
			}
			if rectOf(a).Overlaps(rectOf(b)) {
				t.Errorf("siblings %s %v and %s %v overlap", a.ID, rectOf(a), b.ID, rectOf(b))
			}
		}
	}
}

func TestLayoutContainment(t *testing.T) {
	res, err := New(nil).Layout(context.Background(), nestedGraph(), layout.Options{})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	for _, parentID := range []string{"dmz", "web"} {
		parent := nodeByID(t, res.Nodes, parentID)
		if parent.Width < layout.DefaultMinBoundaryWidth || parent.Height < layout.DefaultMinBoundaryHeight {
			t.Errorf("%s size = %vx%v, below minimum", parentID, parent.Width, parent.Height)
		}

		var kids []geometry.Rect
		for _, n := range res.Nodes {
			if n.ParentID == parentID {
				kids = append(kids, rectOf(n))
			}
		}
		bounds, _ := geometry.Bounds(kids)
		pad := layout.DefaultBoundaryPadding
		if parent.Width < bounds.W+2*pad-1e-6 || parent.Height < bounds.H+2*pad-1e-6 {
			t.Errorf("%s size = %vx%v, children need %vx%v", parentID, parent.Width, parent.Height, bounds.W+2*pad, bounds.H+2*pad)
		}

		interior := geometry.Rect{X: pad, Y: pad, W: parent.Width - 2*pad, H: parent.Height - 2*pad}
		for _, k := range kids {
			if !interior.Contains(k, 1e-6) {
				t.Errorf("child %v outside padded interior %v of %s", k, interior, parentID)
			}
		}
	}
	assertNoSiblingOverlap(t, res.Nodes)

	if res.Stats.BoundariesProcessed != 2 {
		t.Errorf("BoundariesProcessed = %d, want 2", res.Stats.BoundariesProcessed)
	}
	if res.Stats.TotalNodes != 8 {
		t.Errorf("TotalNodes = %d, want 8", res.Stats.TotalNodes)
	}
	if res.Stats.Engine != Name {
		t.Errorf("Engine = %q, want %q", res.Stats.Engine, Name)
	}
}

func TestLayoutIdempotent(t *testing.T) {
	g := nestedGraph()
	for _, parallel := range []bool{false, true} {
		opts := layout.Options{Parallel: parallel}
		first, err := New(nil).Layout(context.Background(), g, opts)
		if err != nil {
			t.Fatal(err)
		}
		second, err := New(nil).Layout(context.Background(), g, opts)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first.Nodes, second.Nodes) {
			t.Errorf("parallel=%v: repeated layout differs", parallel)
		}
	}

	seq, _ := New(nil).Layout(context.Background(), g, layout.Options{})
	par, _ := New(nil).Layout(context.Background(), g, layout.Options{Parallel: true})
	if !reflect.DeepEqual(seq.Nodes, par.Nodes) {
		t.Error("parallel search chose a different layout than sequential search")
	}
}

func TestLayoutDoesNotModifyInput(t *testing.T) {
	g := nestedGraph()
	orig := g.Clone()
	if _, err := New(nil).Layout(context.Background(), g, layout.Options{}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(g, orig) {
		t.Error("Layout() modified its input graph")
	}
}

func TestLayoutReorientsWideBoundary(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "rack", Kind: graph.KindBoundary, Width: 540, Height: 300,
				Data: graph.NodeData{AutoResize: graph.Bool(false)}},
			{ID: "s1", Kind: graph.KindDevice, ParentID: "rack", Data: graph.NodeData{DeviceType: "server"}},
			{ID: "s2", Kind: graph.KindDevice, ParentID: "rack", Data: graph.NodeData{DeviceType: "server"}},
			{ID: "s3", Kind: graph.KindDevice, ParentID: "rack", Data: graph.NodeData{DeviceType: "server"}},
			{ID: "sw1", Kind: graph.KindDevice, ParentID: "rack", Data: graph.NodeData{DeviceType: "switch"}},
			{ID: "sw2", Kind: graph.KindDevice, ParentID: "rack", Data: graph.NodeData{DeviceType: "switch"}},
		},
		Edges: []graph.Edge{link("s1", "s2"), link("s2", "s3"), link("s3", "sw1"), link("sw1", "sw2")},
	}

	res, reports, err := New(nil).Run(context.Background(), g, layout.Options{Direction: layout.DirectionDown})
	if err != nil {
		t.Fatal(err)
	}
	if reports[0].Container != "rack" {
		t.Fatalf("first report = %q, want rack", reports[0].Container)
	}
	if got := reports[0].Direction; got != layout.DirectionRight {
		t.Errorf("Direction = %v, want %v", got, layout.DirectionRight)
	}

	chain := []string{"s1", "s2", "s3", "sw1", "sw2"}
	for i := 1; i < len(chain); i++ {
		prev, cur := nodeByID(t, res.Nodes, chain[i-1]), nodeByID(t, res.Nodes, chain[i])
		if cur.Position.X <= prev.Position.X {
			t.Errorf("%s.X = %v, want right of %s.X = %v", cur.ID, cur.Position.X, prev.ID, prev.Position.X)
		}
		if cur.Position.Y != prev.Position.Y {
			t.Errorf("%s.Y = %v, want %v", cur.ID, cur.Position.Y, prev.Position.Y)
		}
	}

	rack := nodeByID(t, res.Nodes, "rack")
	if rack.Width != 540 || rack.Height != 300 {
		t.Errorf("rack size = %vx%v, want unchanged 540x300", rack.Width, rack.Height)
	}
}

func TestLayoutCentresInFixedContainer(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "box", Kind: graph.KindBoundary, Width: 800, Height: 600,
				Data: graph.NodeData{AutoResize: graph.Bool(false)}},
			dev("a", "box"),
			dev("b", "box"),
		},
		Edges: []graph.Edge{link("a", "b")},
	}
	res, err := New(nil).Layout(context.Background(), g, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var kids []geometry.Rect
	for _, id := range []string{"a", "b"} {
		kids = append(kids, rectOf(nodeByID(t, res.Nodes, id)))
	}
	b, _ := geometry.Bounds(kids)
	if math.Abs(b.X-(800-b.MaxX())) > 1e-6 || math.Abs(b.Y-(600-b.MaxY())) > 1e-6 {
		t.Errorf("children bounds %v not centred in 800x600", b)
	}
}

func TestLayoutKeepsRootOrigin(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Kind: graph.KindDevice, Position: graph.Position{X: 120, Y: 900}},
			{ID: "b", Kind: graph.KindDevice, Position: graph.Position{X: 700, Y: 80}},
			{ID: "c", Kind: graph.KindDevice, Position: graph.Position{X: 300, Y: 300}},
		},
		Edges: []graph.Edge{link("a", "b"), link("a", "c")},
	}
	res, err := New(nil).Layout(context.Background(), g, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	for _, n := range res.Nodes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
	}
	if minX != 120 || minY != 80 {
		t.Errorf("root origin = (%v, %v), want (120, 80)", minX, minY)
	}
	a, b := nodeByID(t, res.Nodes, "a"), nodeByID(t, res.Nodes, "b")
	if a.Position.Y >= b.Position.Y {
		t.Errorf("a.Y = %v, want above b.Y = %v for a downward flow", a.Position.Y, b.Position.Y)
	}
}

func TestLayoutUpwardFlow(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{dev("a", ""), dev("b", "")},
		Edges: []graph.Edge{link("a", "b")},
	}
	res, err := New(nil).Layout(context.Background(), g, layout.Options{Direction: layout.DirectionUp})
	if err != nil {
		t.Fatal(err)
	}
	a, b := nodeByID(t, res.Nodes, "a"), nodeByID(t, res.Nodes, "b")
	if a.Position.Y <= b.Position.Y {
		t.Errorf("a.Y = %v, want below b.Y = %v for an upward flow", a.Position.Y, b.Position.Y)
	}
}

func TestLayoutTargetToSourceEdgeIsReversed(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{dev("client", ""), dev("server", "")},
		Edges: []graph.Edge{{
			ID: "e", Source: "client", Target: "server",
			Data: &graph.EdgeData{Direction: graph.DirectionTargetToSource},
		}},
	}
	res, err := New(nil).Layout(context.Background(), g, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	client, server := nodeByID(t, res.Nodes, "client"), nodeByID(t, res.Nodes, "server")
	if server.Position.Y >= client.Position.Y {
		t.Errorf("server.Y = %v, want above client.Y = %v", server.Position.Y, client.Position.Y)
	}
}

func TestLayoutFallsBackToGrid(t *testing.T) {
	tests := []struct {
		name    string
		attempt attemptFunc
	}{
		{"errors", func(*problem, Config) (placement, error) { return nil, errors.New("boom") }},
		{"panics", func(*problem, Config) (placement, error) { panic("boom") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.Graph{}
			for i := range 5 {
				g.Nodes = append(g.Nodes, dev(fmt.Sprintf("n%d", i), ""))
			}
			g.Edges = []graph.Edge{link("n0", "n1"), link("n1", "n0")}

			e := &Engine{attempt: tt.attempt}
			res, reports, err := e.Run(context.Background(), g, layout.Options{})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			root := reports[len(reports)-1]
			if !root.Grid || !root.Retried {
				t.Errorf("root report = %+v, want retried grid", root)
			}
			if res.Stats.FallbacksUsed != 1 {
				t.Errorf("FallbacksUsed = %d, want 1", res.Stats.FallbacksUsed)
			}
			assertNoSiblingOverlap(t, res.Nodes)
		})
	}
}

func TestLayoutRetriesDefaultConfig(t *testing.T) {
	calls := 0
	e := &Engine{attempt: func(p *problem, cfg Config) (placement, error) {
		calls++
		if cfg == defaultConfig && p.sweeps == 0 {
			return attempt(p, cfg)
		}
		return nil, errors.New("boom")
	}}
	g := graph.Graph{
		Nodes: []graph.Node{dev("a", ""), dev("b", "")},
		Edges: []graph.Edge{link("a", "b")},
	}
	_, reports, err := e.Run(context.Background(), g, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	root := reports[0]
	if !root.Retried || root.Grid {
		t.Errorf("root report = %+v, want retried without grid", root)
	}
	if root.Chosen != defaultConfig.String() {
		t.Errorf("Chosen = %q, want %q", root.Chosen, defaultConfig.String())
	}
	if root.Tried != calls {
		t.Errorf("Tried = %d, want %d", root.Tried, calls)
	}
}

func TestLayoutSearchTimeout(t *testing.T) {
	e := &Engine{attempt: func(p *problem, cfg Config) (placement, error) {
		time.Sleep(20 * time.Millisecond)
		return attempt(p, cfg)
	}}
	g := graph.Graph{
		Nodes: []graph.Node{dev("a", ""), dev("b", ""), dev("c", "")},
		Edges: []graph.Edge{link("a", "b"), link("b", "c")},
	}
	_, reports, err := e.Run(context.Background(), g, layout.Options{SearchTimeout: 30 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	root := reports[0]
	if root.Tried >= 12 {
		t.Errorf("Tried = %d, want the timeout to cut the search short", root.Tried)
	}
	if root.Grid {
		t.Error("timeout should keep the best attempt, not fall back to the grid")
	}
}

func TestLayoutEmptyBoundaryGetsMinimumSize(t *testing.T) {
	g := graph.Graph{Nodes: []graph.Node{zone("empty", "")}}
	res, err := New(nil).Layout(context.Background(), g, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	n := res.Nodes[0]
	if n.Width != layout.DefaultMinBoundaryWidth || n.Height != layout.DefaultMinBoundaryHeight {
		t.Errorf("size = %vx%v, want minimum", n.Width, n.Height)
	}
}

func TestLayoutEmptyGraph(t *testing.T) {
	res, err := New(nil).Layout(context.Background(), graph.Graph{}, layout.Options{})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if len(res.Nodes) != 0 || res.Stats.TotalNodes != 0 {
		t.Errorf("Layout() = %+v, want empty", res)
	}
}

func TestRunReportsDuplicateIDs(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "vpc", Kind: graph.KindBoundary, Width: 600, Height: 400, Data: graph.NodeData{AutoResize: graph.Bool(false)}},
			dev("a", "vpc"),
			dev("b", "vpc"),
			{ID: "a", Kind: graph.KindDevice, ParentID: "vpc", Position: graph.Position{X: 5000, Y: 5000}},
		},
		Edges: []graph.Edge{link("a", "b")},
	}
	res, reports, err := New(nil).Run(context.Background(), g, layout.Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	rep := reports[0]
	if rep.Container != "vpc" || !reflect.DeepEqual(rep.Duplicates, []string{"a"}) {
		t.Errorf("report = %+v, want vpc with duplicate a", rep)
	}
	if rep.Grid {
		t.Error("duplicate id forced the grid fallback")
	}
	if got := res.Nodes[3].Position; got != (graph.Position{X: 5000, Y: 5000}) {
		t.Errorf("repeated a moved to %v, want its input position", got)
	}
	if a, b := rectOf(res.Nodes[1]), rectOf(res.Nodes[2]); a.Overlaps(b) {
		t.Errorf("a %v overlaps b %v", a, b)
	}
	if root := reports[len(reports)-1]; len(root.Duplicates) != 0 {
		t.Errorf("root duplicates = %v, want none", root.Duplicates)
	}
}
