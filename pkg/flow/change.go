package flow

import "fmt"

// =============================================================================
// Node Changes
// =============================================================================

// NodeChangeType identifies the kind of a [NodeChange].
type NodeChangeType string

// Node change kinds emitted by a diagram UI.
const (
	NodeChangePosition   NodeChangeType = "position"
	NodeChangeSelect     NodeChangeType = "select"
	NodeChangeRemove     NodeChangeType = "remove"
	NodeChangeAdd        NodeChangeType = "add"
	NodeChangeDimensions NodeChangeType = "dimensions"
)

// NodeChange describes one change to one node.
//
// For position changes, Position is the new position (nil leaves it as is)
// and Dragging reports gesture progress: true while a drag is in flight,
// false on the change that ends it, nil for changes outside any gesture.
type NodeChange struct {
	Type     NodeChangeType
	ID       string
	Position *Position
	Dragging *bool
	Selected bool
	Width    float64
	Height   float64
	Item     *Node // NodeChangeAdd only
}

// PositionChange builds a position change that is part of a drag gesture.
// Pass dragging=false for the change that ends the gesture.
func PositionChange(id string, pos Position, dragging bool) NodeChange {
	return NodeChange{Type: NodeChangePosition, ID: id, Position: &pos, Dragging: Bool(dragging)}
}

// MoveChange builds a position change outside any gesture.
func MoveChange(id string, pos Position) NodeChange {
	return NodeChange{Type: NodeChangePosition, ID: id, Position: &pos}
}

// IsDragging reports whether the change belongs to an in-flight drag.
func (c NodeChange) IsDragging() bool {
	return c.Type == NodeChangePosition && c.Dragging != nil && *c.Dragging
}

// IsDragEnd reports whether the change ends a drag.
func (c NodeChange) IsDragEnd() bool {
	return c.Type == NodeChangePosition && c.Dragging != nil && !*c.Dragging
}

// ApplyNodeChanges returns a new node list with changes applied.
// The input slice is not modified. Changes to unknown IDs are ignored;
// added nodes are appended in the order given.
func ApplyNodeChanges(changes []NodeChange, nodes []Node) []Node {
	if len(changes) == 0 {
		return nodes
	}

	byID := make(map[string][]NodeChange, len(changes))
	var added []Node
	for _, c := range changes {
		if c.Type == NodeChangeAdd {
			if c.Item != nil {
				added = append(added, *c.Item)
			}
			continue
		}
		byID[c.ID] = append(byID[c.ID], c)
	}

	out := make([]Node, 0, len(nodes)+len(added))
	for _, n := range nodes {
		cs, ok := byID[n.ID]
		if !ok {
			out = append(out, n)
			continue
		}
		removed := false
		for _, c := range cs {
			switch c.Type {
			case NodeChangeRemove:
				removed = true
			case NodeChangeSelect:
				n.Selected = c.Selected
			case NodeChangeDimensions:
				n.Width, n.Height = c.Width, c.Height
			case NodeChangePosition:
				if c.Position != nil {
					n.Position = *c.Position
				}
				if c.Dragging != nil {
					n.Dragging = *c.Dragging
				}
			}
		}
		if !removed {
			out = append(out, n)
		}
	}
	return append(out, added...)
}

// =============================================================================
// Edge Changes
// =============================================================================

// EdgeChangeType identifies the kind of an [EdgeChange].
type EdgeChangeType string

// Edge change kinds emitted by a diagram UI.
const (
	EdgeChangeSelect EdgeChangeType = "select"
	EdgeChangeRemove EdgeChangeType = "remove"
	EdgeChangeAdd    EdgeChangeType = "add"
)

// EdgeChange describes one change to one edge.
type EdgeChange struct {
	Type     EdgeChangeType
	ID       string
	Selected bool
	Item     *Edge // EdgeChangeAdd only
}

// ApplyEdgeChanges returns a new edge list with changes applied.
// The input slice is not modified.
func ApplyEdgeChanges(changes []EdgeChange, edges []Edge) []Edge {
	if len(changes) == 0 {
		return edges
	}

	byID := make(map[string][]EdgeChange, len(changes))
	var added []Edge
	for _, c := range changes {
		if c.Type == EdgeChangeAdd {
			if c.Item != nil {
				added = append(added, *c.Item)
			}
			continue
		}
		byID[c.ID] = append(byID[c.ID], c)
	}

	out := make([]Edge, 0, len(edges)+len(added))
	for _, e := range edges {
		removed := false
		for _, c := range byID[e.ID] {
			switch c.Type {
			case EdgeChangeRemove:
				removed = true
			case EdgeChangeSelect:
				e.Selected = c.Selected
			}
		}
		if !removed {
			out = append(out, e)
		}
	}
	return append(out, added...)
}

// =============================================================================
// Connections
// =============================================================================

// Connection is a request to draw an edge from Source to Target.
type Connection struct {
	Source string
	Target string
}

// EdgeID returns the conventional ID for an edge created from c.
func (c Connection) EdgeID() string {
	return fmt.Sprintf("e%s-%s", c.Source, c.Target)
}

// AddEdge returns a new edge list with an edge for conn appended.
// It fails with [ErrSelfLoop] or [ErrDuplicateEdge]; endpoint existence is
// the caller's concern.
func AddEdge(conn Connection, edges []Edge) ([]Edge, error) {
	if conn.Source == conn.Target {
		return edges, fmt.Errorf("%w: %s", ErrSelfLoop, conn.Source)
	}
	for _, e := range edges {
		if e.Source == conn.Source && e.Target == conn.Target {
			return edges, fmt.Errorf("%w: %s→%s", ErrDuplicateEdge, conn.Source, conn.Target)
		}
	}
	out := make([]Edge, len(edges), len(edges)+1)
	copy(out, edges)
	return append(out, Edge{ID: conn.EdgeID(), Source: conn.Source, Target: conn.Target}), nil
}

// RemoveNodeEdges returns the edges that do not touch the node with the given ID.
func RemoveNodeEdges(id string, edges []Edge) []Edge {
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if !e.Connects(id) {
			out = append(out, e)
		}
	}
	return out
}
