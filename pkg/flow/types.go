package flow

import (
	"errors"
	"maps"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrMissingNodes is returned by [State.Valid] when the node list is absent.
	// An empty but present list is valid.
	ErrMissingNodes = errors.New("state has no node list")

	// ErrMissingEdges is returned by [State.Valid] when the edge list is absent.
	ErrMissingEdges = errors.New("state has no edge list")

	// ErrUnknownNode is returned when a change or connection references a node
	// that is not part of the diagram.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateEdge is returned by [AddEdge] when an edge between the same
	// source and target already exists.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrSelfLoop is returned by [AddEdge] when source and target are the same node.
	ErrSelfLoop = errors.New("edge connects a node to itself")
)

// =============================================================================
// Node Types
// =============================================================================

// Node types understood by the demo diagram.
const (
	TypeInput   = "input"
	TypeDefault = "default"
	TypeOutput  = "output"
)

// Position is a point on the diagram canvas.
type Position struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Add returns p translated by (dx, dy).
func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// =============================================================================
// State - History Snapshot
// =============================================================================

// State is a diagram snapshot: the ordered node and edge lists.
//
// A nil slice means the list is absent, which makes the state malformed.
// An empty, non-nil slice is a valid diagram with no nodes or no edges.
type State struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Valid reports whether both lists are present.
func (s State) Valid() error {
	if s.Nodes == nil {
		return ErrMissingNodes
	}
	if s.Edges == nil {
		return ErrMissingEdges
	}
	return nil
}

// Clone returns a copy of s that shares no node data with it.
// Edges are copied into a new slice; their style maps are shared unless
// deepEdges is set.
func (s State) Clone(deepEdges bool) State {
	out := State{Nodes: cloneNodes(s.Nodes)}
	switch {
	case s.Edges == nil:
	case deepEdges:
		out.Edges = make([]Edge, len(s.Edges))
		for i := range s.Edges {
			out.Edges[i] = s.Edges[i].Clone()
		}
	default:
		out.Edges = make([]Edge, len(s.Edges))
		copy(out.Edges, s.Edges)
	}
	return out
}

// Node returns the node with the given ID.
func (s State) Node(id string) (Node, bool) {
	if i := s.NodeIndex(id); i >= 0 {
		return s.Nodes[i], true
	}
	return Node{}, false
}

// NodeIndex returns the index of the node with the given ID, or -1.
func (s State) NodeIndex(id string) int {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// HasNode reports whether a node with the given ID exists.
func (s State) HasNode(id string) bool { return s.NodeIndex(id) >= 0 }

// =============================================================================
// Node
// =============================================================================

// Node is a diagram element. History stores nodes by value and copies their
// maps, so a stored node never aliases the live diagram.
type Node struct {
	ID        string            `json:"id"`
	Type      string            `json:"type,omitempty"`
	Position  Position          `json:"position"`
	Label     string            `json:"label,omitempty"`
	Data      map[string]any    `json:"data,omitempty"`
	Style     map[string]string `json:"style,omitempty"`
	Width     float64           `json:"width,omitempty"`
	Height    float64           `json:"height,omitempty"`
	Selected  bool              `json:"selected,omitempty"`
	Dragging  bool              `json:"dragging,omitempty"`
	Draggable *bool             `json:"draggable,omitempty"` // nil means draggable
}

// Clone returns a copy of n with its own Data, Style and Draggable.
// Nested maps and slices inside Data are copied too.
func (n Node) Clone() Node {
	out := n
	out.Data = cloneData(n.Data)
	out.Style = maps.Clone(n.Style)
	if n.Draggable != nil {
		d := *n.Draggable
		out.Draggable = &d
	}
	return out
}

// IsDraggable reports whether the node may be moved by a drag gesture.
func (n Node) IsDraggable() bool {
	return n.Draggable == nil || *n.Draggable
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// cloneData copies the map and slice values JSON decoding produces.
// Other values are copied as-is.
func cloneData(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneData(v)
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
	}
	return out
}

// =============================================================================
// Edge
// =============================================================================

// Edge connects a source node to a target node.
type Edge struct {
	ID       string            `json:"id"`
	Source   string            `json:"source"`
	Target   string            `json:"target"`
	Label    string            `json:"label,omitempty"`
	Animated bool              `json:"animated,omitempty"`
	Selected bool              `json:"selected,omitempty"`
	Style    map[string]string `json:"style,omitempty"`
}

// Clone returns a copy of e with its own Style map.
func (e Edge) Clone() Edge {
	out := e
	out.Style = maps.Clone(e.Style)
	return out
}

// Connects reports whether the edge touches the node with the given ID.
func (e Edge) Connects(id string) bool {
	return e.Source == id || e.Target == id
}

// Bool returns a pointer to b. It is used for optional change fields.
func Bool(b bool) *bool { return &b }
