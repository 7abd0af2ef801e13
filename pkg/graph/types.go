package graph

import (
	"maps"
	"slices"
)

// Kind distinguishes leaf devices from containers.
type Kind string

const (
	KindDevice   Kind = "device"
	KindBoundary Kind = "boundary"
)

// Direction is the optional flow hint carried by an edge.
type Direction string

const (
	DirectionNone           Direction = ""
	DirectionSourceToTarget Direction = "source-to-target"
	DirectionTargetToSource Direction = "target-to-source"
	DirectionBidirectional  Direction = "bidirectional"
)

// Connection states recognised by the edge weighting.
const (
	ConnectionActive   = "active"
	ConnectionInactive = "inactive"
	ConnectionFailed   = "failed"
)

// Label placements for boundaries.
const (
	LabelTopLeft   = "top-left"
	LabelTopCenter = "top-center"
	LabelBottom    = "bottom"
)

// Position is a top-left corner in the parent's coordinate space.
type Position struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
}

// NodeData holds kind-specific attributes. Boundary fields are ignored on
// devices and vice versa.
type NodeData struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`

	// Boundary fields.
	Padding        float64 `json:"padding,omitempty" yaml:"padding,omitempty" bson:"padding,omitempty"`
	LabelPlacement string  `json:"labelPlacement,omitempty" yaml:"labelPlacement,omitempty" bson:"labelPlacement,omitempty"`
	AutoResize     *bool   `json:"autoResize,omitempty" yaml:"autoResize,omitempty" bson:"autoResize,omitempty"`

	// Device fields.
	DeviceType       string  `json:"deviceType,omitempty" yaml:"deviceType,omitempty" bson:"deviceType,omitempty"`
	ImageSizePercent float64 `json:"imageSizePercent,omitempty" yaml:"imageSizePercent,omitempty" bson:"imageSizePercent,omitempty"`

	Meta map[string]any `json:"meta,omitempty" yaml:"meta,omitempty" bson:"meta,omitempty"`
}

// Node is a device or boundary. Zero sizes mean "unset".
type Node struct {
	ID             string   `json:"id" yaml:"id" bson:"id"`
	Kind           Kind     `json:"kind" yaml:"kind" bson:"kind"`
	ParentID       string   `json:"parentId,omitempty" yaml:"parentId,omitempty" bson:"parentId,omitempty"`
	Position       Position `json:"position" yaml:"position" bson:"position"`
	Width          float64  `json:"width,omitempty" yaml:"width,omitempty" bson:"width,omitempty"`
	Height         float64  `json:"height,omitempty" yaml:"height,omitempty" bson:"height,omitempty"`
	MeasuredWidth  float64  `json:"measuredWidth,omitempty" yaml:"measuredWidth,omitempty" bson:"measuredWidth,omitempty"`
	MeasuredHeight float64  `json:"measuredHeight,omitempty" yaml:"measuredHeight,omitempty" bson:"measuredHeight,omitempty"`
	Data           NodeData `json:"data" yaml:"data,omitempty" bson:"data"`
}

// IsBoundary reports whether the node is a container.
func (n *Node) IsBoundary() bool { return n.Kind == KindBoundary }

// IsDevice reports whether the node is a leaf device.
func (n *Node) IsDevice() bool { return n.Kind != KindBoundary }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.ParentID == "" }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Data.Label != "" {
		return n.Data.Label
	}
	return n.ID
}

// AutoResizeOr returns the node's auto-resize override, or def when the
// node does not carry one.
func (n *Node) AutoResizeOr(def bool) bool {
	if n.Data.AutoResize != nil {
		return *n.Data.AutoResize
	}
	return def
}

// EdgeData carries the optional hints that influence edge weight and
// minimum rank length.
type EdgeData struct {
	Direction       Direction `json:"direction,omitempty" yaml:"direction,omitempty" bson:"direction,omitempty"`
	Label           string    `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Encrypted       bool      `json:"encrypted,omitempty" yaml:"encrypted,omitempty" bson:"encrypted,omitempty"`
	Monitored       bool      `json:"monitored,omitempty" yaml:"monitored,omitempty" bson:"monitored,omitempty"`
	ConnectionState string    `json:"connectionState,omitempty" yaml:"connectionState,omitempty" bson:"connectionState,omitempty"`
}

// Edge is a directed connection. Handle and offset fields are written by the
// handle router.
type Edge struct {
	ID           string    `json:"id" yaml:"id" bson:"id"`
	Source       string    `json:"source" yaml:"source" bson:"source"`
	Target       string    `json:"target" yaml:"target" bson:"target"`
	SourceHandle string    `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty" bson:"sourceHandle,omitempty"`
	TargetHandle string    `json:"targetHandle,omitempty" yaml:"targetHandle,omitempty" bson:"targetHandle,omitempty"`
	Offset       float64   `json:"offset,omitempty" yaml:"offset,omitempty" bson:"offset,omitempty"`
	Data         *EdgeData `json:"data,omitempty" yaml:"data,omitempty" bson:"data,omitempty"`
}

// Hints returns the edge data, or the zero value when the edge has none.
func (e *Edge) Hints() EdgeData {
	if e.Data == nil {
		return EdgeData{}
	}
	return *e.Data
}

// Graph is one diagram: its nodes and edges in caller order.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" bson:"edges"`
}

// Clone returns a deep copy. Metadata maps are copied one level deep.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		if n.Data.AutoResize != nil {
			v := *n.Data.AutoResize
			n.Data.AutoResize = &v
		}
		n.Data.Meta = maps.Clone(n.Data.Meta)
		out.Nodes[i] = n
	}
	for i, e := range g.Edges {
		if e.Data != nil {
			d := *e.Data
			e.Data = &d
		}
		out.Edges[i] = e
	}
	return out
}

// Node returns a pointer to the node with the given id, or nil. It scans the
// node list; use [Graph.Index] for repeated lookups.
func (g *Graph) Node(id string) *Node {
	i := slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == id })
	if i < 0 {
		return nil
	}
	return &g.Nodes[i]
}

// Counts returns the number of boundaries and devices.
func (g *Graph) Counts() (boundaries, devices int) {
	for i := range g.Nodes {
		if g.Nodes[i].IsBoundary() {
			boundaries++
		} else {
			devices++
		}
	}
	return boundaries, devices
}

// SetSize sets the node's size. A measured size, which takes precedence
// when sizes are resolved, is updated too so it does not mask the new one.
func (n *Node) SetSize(w, h float64) {
	n.Width, n.Height = w, h
	if n.MeasuredWidth > 0 {
		n.MeasuredWidth = w
	}
	if n.MeasuredHeight > 0 {
		n.MeasuredHeight = h
	}
}

// Bool returns a pointer to v, for NodeData.AutoResize literals.
func Bool(v bool) *bool { return &v }
