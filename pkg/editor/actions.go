package editor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/flowtrail/pkg/flow"
)

// These helpers produce the same change events a pointer-driven diagram UI
// would, so keyboard hosts and scripts go through OnNodesChange too.

// MoveNode moves a node by (dx, dy) outside any gesture and records the move.
func (s *Session) MoveNode(id string, dx, dy float64) error {
	n, ok := s.state.Node(id)
	if !ok {
		return fmt.Errorf("move %s: %w", id, flow.ErrUnknownNode)
	}
	s.OnNodesChange([]flow.NodeChange{flow.MoveChange(id, n.Position.Add(dx, dy))})
	return nil
}

// StartDrag begins dragging a node at its current position.
func (s *Session) StartDrag(id string) error {
	n, err := s.draggable(id)
	if err != nil {
		return err
	}
	s.OnNodesChange([]flow.NodeChange{flow.PositionChange(id, n.Position, true)})
	return nil
}

// DragTo moves a node being dragged. The move is not recorded on its own.
func (s *Session) DragTo(id string, pos flow.Position) error {
	if _, err := s.draggable(id); err != nil {
		return err
	}
	s.OnNodesChange([]flow.NodeChange{flow.PositionChange(id, pos, true)})
	return nil
}

// EndDrag releases a dragged node where it is.
func (s *Session) EndDrag(id string) error {
	n, ok := s.state.Node(id)
	if !ok {
		return fmt.Errorf("drag %s: %w", id, flow.ErrUnknownNode)
	}
	s.OnNodesChange([]flow.NodeChange{flow.PositionChange(id, n.Position, false)})
	return nil
}

// Drag replays a whole drag along path. The final point becomes one entry.
func (s *Session) Drag(id string, path []flow.Position) error {
	if len(path) == 0 {
		return nil
	}
	if err := s.StartDrag(id); err != nil {
		return err
	}
	for _, p := range path {
		if err := s.DragTo(id, p); err != nil {
			return err
		}
	}
	return s.EndDrag(id)
}

func (s *Session) draggable(id string) (flow.Node, error) {
	n, ok := s.state.Node(id)
	if !ok {
		return n, fmt.Errorf("drag %s: %w", id, flow.ErrUnknownNode)
	}
	if !n.IsDraggable() {
		return n, fmt.Errorf("drag %s: node is not draggable", id)
	}
	return n, nil
}

// AddNode adds a default node and records it. An empty id gets a UUID.
// It returns the node's ID.
func (s *Session) AddNode(id, label string, pos flow.Position) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if s.state.HasNode(id) {
		return "", fmt.Errorf("add %s: node already exists", id)
	}
	n := flow.Node{ID: id, Type: flow.TypeDefault, Label: label, Position: pos}
	s.OnNodesChange([]flow.NodeChange{{Type: flow.NodeChangeAdd, Item: &n}})
	return id, nil
}

// RemoveNode removes a node and every edge touching it as one entry.
func (s *Session) RemoveNode(id string) error {
	if !s.state.HasNode(id) {
		return fmt.Errorf("remove %s: %w", id, flow.ErrUnknownNode)
	}
	s.settleGesture()
	s.state.Nodes = flow.ApplyNodeChanges([]flow.NodeChange{{Type: flow.NodeChangeRemove, ID: id}}, s.state.Nodes)
	s.state.Edges = flow.RemoveNodeEdges(id, s.state.Edges)
	s.history.AddState(s.state)
	return nil
}

// Select marks a single node as selected. Selection is not recorded.
func (s *Session) Select(id string) {
	changes := make([]flow.NodeChange, 0, len(s.state.Nodes))
	for _, n := range s.state.Nodes {
		if n.Selected != (n.ID == id) {
			changes = append(changes, flow.NodeChange{Type: flow.NodeChangeSelect, ID: n.ID, Selected: n.ID == id})
		}
	}
	s.OnNodesChange(changes)
}
