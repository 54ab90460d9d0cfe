package editor

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowtrail/pkg/flow"
	"github.com/matzehuels/flowtrail/pkg/history"
)

// Session is one editing session over one diagram.
// It is meant to be driven from a single UI event loop.
type Session struct {
	id      uuid.UUID
	state   flow.State
	history *history.Manager

	historyOpts []history.Option
	logger      *log.Logger
	policy      StaleGesturePolicy
}

// NewSession starts a session on a copy of initial and seeds its history.
// Absent node or edge lists are treated as empty.
func NewSession(initial flow.State, opts ...Option) *Session {
	s := &Session{
		id:     uuid.New(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id.String()[:8])

	if s.history == nil {
		hopts := append([]history.Option{history.WithLogger(s.logger)}, s.historyOpts...)
		s.history = history.New(hopts...)
	}

	s.state = initial.Clone(true)
	if s.state.Nodes == nil {
		s.state.Nodes = []flow.Node{}
	}
	if s.state.Edges == nil {
		s.state.Edges = []flow.Edge{}
	}
	s.history.Initialize(s.state)

	s.logger.Debug("session started", "nodes", len(s.state.Nodes), "edges", len(s.state.Edges))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns a copy of the live diagram.
func (s *Session) State() flow.State { return s.state.Clone(true) }

// History returns the session's history manager.
func (s *Session) History() *history.Manager { return s.history }

// Policy returns the stale gesture policy.
func (s *Session) Policy() StaleGesturePolicy { return s.policy }

// =============================================================================
// Change Events
// =============================================================================

// changeSet summarizes what a batch of node changes means for history.
type changeSet struct {
	drag    bool // a drag is in progress
	dragEnd bool // a drag finished
	record  bool // the batch carries a standalone edit
}

func classifyNodeChanges(changes []flow.NodeChange) changeSet {
	var cs changeSet
	for _, c := range changes {
		switch {
		case c.IsDragging():
			cs.drag = true
		case c.IsDragEnd():
			cs.dragEnd = true
		case c.Type == flow.NodeChangeRemove, c.Type == flow.NodeChangeAdd,
			c.Type == flow.NodeChangePosition && c.Position != nil:
			cs.record = true
		}
	}
	return cs
}

// OnNodesChange applies a batch of node changes from the UI.
func (s *Session) OnNodesChange(changes []flow.NodeChange) {
	cs := classifyNodeChanges(changes)
	if cs.record && !cs.drag && !cs.dragEnd {
		s.settleGesture()
	}

	s.state.Nodes = flow.ApplyNodeChanges(changes, s.state.Nodes)

	switch {
	case cs.drag:
		if !s.history.InTransaction() {
			s.logger.Debug("drag started")
			s.history.StartTransaction()
		}
	case cs.dragEnd && s.history.InTransaction():
		s.logger.Debug("drag ended")
		s.history.EndTransaction(s.state)
	case cs.record:
		s.history.AddState(s.state)
	}
	// A lone drag end without an open gesture means the gesture was
	// already settled; the next recorded edit will carry its position.
}

// OnEdgesChange applies a batch of edge changes from the UI.
// Selection-only batches are not recorded.
func (s *Session) OnEdgesChange(changes []flow.EdgeChange) {
	record := false
	for _, c := range changes {
		if c.Type != flow.EdgeChangeSelect {
			record = true
			break
		}
	}
	if record {
		s.settleGesture()
	}

	s.state.Edges = flow.ApplyEdgeChanges(changes, s.state.Edges)

	if record {
		s.history.AddState(s.state)
	}
}

// OnConnect adds an edge for conn and records it.
func (s *Session) OnConnect(conn flow.Connection) error {
	for _, id := range []string{conn.Source, conn.Target} {
		if !s.state.HasNode(id) {
			return fmt.Errorf("connect %s→%s: %w: %s", conn.Source, conn.Target, flow.ErrUnknownNode, id)
		}
	}
	edges, err := flow.AddEdge(conn, s.state.Edges)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	s.settleGesture()
	s.state.Edges = edges
	s.history.AddState(s.state)
	return nil
}

// =============================================================================
// Gestures
// =============================================================================

// BeginGesture opens a gesture explicitly.
func (s *Session) BeginGesture() {
	s.history.StartTransaction()
}

// EndGesture commits the live diagram as the gesture's single entry.
// It does nothing when no gesture is open.
func (s *Session) EndGesture() {
	if s.history.InTransaction() {
		s.history.EndTransaction(s.state)
	}
}

// InGesture reports whether a gesture is open.
func (s *Session) InGesture() bool {
	return s.history.InTransaction()
}

// settleGesture resolves a gesture left open by a lost drag end.
func (s *Session) settleGesture() {
	if !s.history.InTransaction() {
		return
	}
	for i := range s.state.Nodes {
		s.state.Nodes[i].Dragging = false
	}
	switch s.policy {
	case DropStaleGesture:
		s.logger.Warn("dropping unfinished gesture")
		s.history.CancelTransaction()
	default:
		s.logger.Warn("committing unfinished gesture")
		s.history.EndTransaction(s.state)
	}
}

// =============================================================================
// Navigation
// =============================================================================

// Undo restores the previous entry. It reports whether anything changed.
func (s *Session) Undo() bool {
	s.settleGesture()
	st, ok := s.history.Undo()
	if ok {
		s.state = st
	}
	return ok
}

// Redo restores the next entry. It reports whether anything changed.
func (s *Session) Redo() bool {
	s.settleGesture()
	st, ok := s.history.Redo()
	if ok {
		s.state = st
	}
	return ok
}

// Seek restores the timeline entry at index.
func (s *Session) Seek(index int) bool {
	s.settleGesture()
	st, ok := s.history.Seek(index)
	if ok {
		s.state = st
	}
	return ok
}
