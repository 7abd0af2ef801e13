// Package pkg provides the core libraries for nestlayout diagram layout.
//
// # Overview
//
// nestlayout computes positions and sizes for diagrams made of nested
// boundaries (sites, VPCs, racks) and the devices inside them, connected
// by directed edges. The pkg directory is organized into these areas:
//
//  1. [graph] - Input and output types: nodes, edges, handles
//  2. [layout] - Options, results and the two layout engines
//  3. [dag] - Layered graph structure used by the layered engine
//  4. [pipeline] - Orchestration (validate → cache → layout → route)
//  5. [cache] - Result caches (file, Redis, MongoDB)
//  6. [observability] - Hooks and Prometheus metrics
//
// # Architecture
//
// The typical data flow through nestlayout:
//
//	Diagram JSON
//	     ↓
//	[graph] package (decode, normalize, validate)
//	     ↓
//	[layout/layered] or [layout/compound] engine
//	     ↓
//	[layout/handles] package (edge handle assignment)
//	     ↓
//	Diagram JSON with positions, sizes and handles
//
// # Quick Start
//
//	g, _ := graph.ReadFile("network.json")
//	r := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), nil)
//	defer r.Close()
//
//	res, err := r.Layout(ctx, g, layout.Options{Direction: layout.DirectionRight})
//	if err != nil {
//	    return err
//	}
//	_ = graph.WriteFile(res.Graph(), "out.json")
//
// # Engines
//
// [layout/layered] lays out each container bottom-up with a Sugiyama
// pipeline, searching spacing and alignment configurations and keeping the
// best scoring one. Containers whose configurations all fail are placed on
// a grid.
//
// [layout/compound] hands the whole nested graph to Graphviz and converts
// the resulting cluster coordinates back to parent-relative positions.
//
// # Errors
//
// Every package reports failures as [errors.Error] values carrying a
// [errors.Code]. The HTTP server maps codes to status codes.
package pkg
