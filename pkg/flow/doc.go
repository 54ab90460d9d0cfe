// Package flow defines the diagram records that flowtrail keeps history for.
//
// A diagram is a [State]: an ordered list of [Node] values and an ordered list
// of [Edge] values. The history manager treats both as opaque and only copies
// them; everything else in this package is what a diagram UI needs around
// those records.
//
// # Core Types
//
//   - [State]: the node/edge pair stored as a history snapshot
//   - [Node]: a positioned, styled diagram element
//   - [Edge]: a connection between two nodes
//   - [NodeChange], [EdgeChange]: change events emitted by a diagram UI
//   - [Connection]: a request to connect two nodes
//
// # Copy Semantics
//
// [State.Clone] copies every node individually (maps included). Edges are
// either copied as a fresh slice of the same edge values, sharing their style
// maps, or deep-copied when deepEdges is set:
//
//	snap := live.Clone(false) // nodes deep, edges shallow
//	snap := live.Clone(true)  // nodes deep, edges deep
//
// # Change Events
//
// A diagram UI reports user interaction as batches of changes:
//
//	nodes = flow.ApplyNodeChanges([]flow.NodeChange{
//	    flow.PositionChange("2", flow.Position{X: 120, Y: 140}, true),
//	}, nodes)
//
// A position change with Dragging set to true is part of an ongoing drag
// gesture; the batch that carries Dragging set to false ends it.
//
// # Serialization
//
// States use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "1", "position": {"x": 250, "y": 25}}],
//	  "edges": [{"id": "e1-2", "source": "1", "target": "2"}]
//	}
//
// A missing "nodes" or "edges" key is treated as a malformed state.
//
// # Concurrency
//
// Values in this package are plain data and are not safe for concurrent
// mutation.
package flow
