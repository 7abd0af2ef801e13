// Package graph defines the diagram data model consumed and produced by the
// layout engines.
//
// A diagram is a flat list of nodes and edges. Containment is expressed with
// parent pointers: every node belongs to exactly one container (a boundary)
// or to the root when ParentID is empty.
//
// # Core Types
//
//   - [Node]: a device (leaf) or a boundary (container)
//   - [Edge]: a directed connection between two nodes, with optional hints
//   - [Graph]: the node and edge lists of one diagram
//   - [Index]: the containment arena built from a [Graph]
//
// # Coordinates
//
// Positions are the top-left corner of a node, relative to the coordinate
// space of its parent. Root-level positions are absolute. The y axis points
// down.
//
// # Serialization
//
// Graphs are read and written as JSON, or as YAML when the file extension is
// .yaml or .yml:
//
//	g, _ := graph.ReadFile("diagram.json")
//	_ = graph.WriteFile(g, "diagram.yaml")
//
// Field names follow the camelCase form used by diagram editors
// (parentId, measuredWidth, sourceHandle), so files produced by a front end
// can be passed through unchanged.
//
// # Concurrency
//
// Graph values are plain data. Layout calls work on a [Graph.Clone], so the
// caller's graph is never modified.
package graph
