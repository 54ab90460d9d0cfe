package history

import "github.com/matzehuels/flowtrail/pkg/flow"

// StartTransaction marks the beginning of a continuous gesture.
// Nothing is recorded until EndTransaction. Nested calls are ignored.
func (m *Manager) StartTransaction() {
	m.mu.Lock()
	if m.inTransaction {
		m.mu.Unlock()
		return
	}
	m.inTransaction = true
	m.mu.Unlock()

	m.logger.Debug("history transaction started")
	m.hookset().OnGestureStart()
}

// EndTransaction closes the gesture and records state as one entry.
// It records state even when no transaction was open.
func (m *Manager) EndTransaction(state flow.State) {
	m.mu.Lock()
	wasOpen := m.inTransaction
	m.inTransaction = false
	m.mu.Unlock()

	if wasOpen {
		m.logger.Debug("history transaction ended")
		m.hookset().OnGestureEnd(true)
	}
	m.AddState(state)
}

// CancelTransaction closes the gesture without recording anything.
func (m *Manager) CancelTransaction() {
	m.mu.Lock()
	wasOpen := m.inTransaction
	m.inTransaction = false
	m.mu.Unlock()

	if wasOpen {
		m.logger.Debug("history transaction cancelled")
		m.hookset().OnGestureEnd(false)
	}
}

// InTransaction reports whether a gesture is open.
func (m *Manager) InTransaction() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inTransaction
}

// GestureScope closes a transaction exactly once.
// Usage:
//
//	func drag(h *history.Manager, s *flow.State) {
//	    g := h.Gesture()
//	    defer g.Cancel() // no-op once End has run
//	    // ... move nodes ...
//	    g.End(*s)
//	}
type GestureScope struct {
	history *Manager
	active  bool
}

// Gesture starts a transaction and returns its scope.
func (m *Manager) Gesture() *GestureScope {
	m.StartTransaction()
	return &GestureScope{history: m, active: true}
}

// End commits state as the gesture's single entry.
// Only the first End or Cancel has effect.
func (g *GestureScope) End(state flow.State) {
	if g.active {
		g.active = false
		g.history.EndTransaction(state)
	}
}

// Cancel closes the gesture without recording.
func (g *GestureScope) Cancel() {
	if g.active {
		g.active = false
		g.history.CancelTransaction()
	}
}

// Transaction runs fn inside a gesture. If fn succeeds, the state it returns
// is recorded as one entry; if it fails, nothing is recorded.
func (m *Manager) Transaction(fn func() (flow.State, error)) error {
	g := m.Gesture()
	defer g.Cancel()

	state, err := fn()
	if err != nil {
		return err
	}
	g.End(state)
	return nil
}
