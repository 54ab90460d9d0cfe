package history

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowtrail/pkg/flow"
	"github.com/matzehuels/flowtrail/pkg/observability"
)

// Manager owns the undo/redo history of one editing session.
//
// The zero value is not usable; create managers with [New].
type Manager struct {
	mu sync.Mutex

	entries []flow.State
	index   int // -1 while empty

	inTransaction bool

	// Configuration
	limit    int
	edgeCopy EdgeCopy
	logger   *log.Logger
	hooks    observability.HistoryHooks
}

// New creates an empty history manager.
// Call Initialize once with the starting diagram before using it.
func New(opts ...Option) *Manager {
	m := &Manager{
		index:  -1,
		limit:  DefaultLimit,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize discards all history and stores a copy of state as entry 0.
// It also closes any open transaction.
func (m *Manager) Initialize(state flow.State) {
	m.mu.Lock()
	m.entries = []flow.State{m.copyState(state)}
	m.index = 0
	m.inTransaction = false
	m.mu.Unlock()

	m.logger.Debug("history initialized", "nodes", len(state.Nodes), "edges", len(state.Edges))
	m.hookset().OnPush(1, 0)
}

// AddState records a copy of state as the newest entry.
//
// Entries after the current index are discarded first, and the oldest
// entries are dropped once the limit is exceeded. A state without a node
// list or edge list is logged and ignored, as is any call made while a
// transaction is open.
func (m *Manager) AddState(state flow.State) {
	if err := state.Valid(); err != nil {
		m.logger.Error("rejected history state", "err", err)
		m.hookset().OnRejected(err)
		return
	}

	m.mu.Lock()
	if m.inTransaction {
		m.mu.Unlock()
		m.logger.Debug("history write suppressed during transaction")
		return
	}
	length, index, evicted := m.pushLocked(state)
	m.mu.Unlock()

	m.notifyPush(length, index, evicted)
}

// pushLocked appends a copy of state at the tip and enforces the limit.
func (m *Manager) pushLocked(state flow.State) (length, index, evicted int) {
	// Discard redo entries
	m.entries = append(m.entries[:m.index+1], m.copyState(state))

	if excess := len(m.entries) - m.limit; excess > 0 {
		clear(m.entries[:excess])
		m.entries = m.entries[excess:]
		evicted = excess
	}
	m.index = len(m.entries) - 1
	return len(m.entries), m.index, evicted
}

func (m *Manager) notifyPush(length, index, evicted int) {
	h := m.hookset()
	if evicted > 0 {
		m.logger.Debug("history evicted oldest entries", "count", evicted)
		h.OnEvict(evicted)
	}
	m.logger.Debug("history push", "index", index, "length", length)
	h.OnPush(length, index)
}

// Undo moves back one entry and returns a copy of it.
// At the oldest entry it returns false and changes nothing.
func (m *Manager) Undo() (flow.State, bool) {
	m.mu.Lock()
	if m.index <= 0 {
		m.mu.Unlock()
		return flow.State{}, false
	}
	m.index--
	index := m.index
	state := m.copyState(m.entries[index])
	m.mu.Unlock()

	m.hookset().OnMove("undo", index)
	return state, true
}

// Redo moves forward one entry and returns a copy of it.
// At the newest entry it returns false and changes nothing.
func (m *Manager) Redo() (flow.State, bool) {
	m.mu.Lock()
	if m.index >= len(m.entries)-1 {
		m.mu.Unlock()
		return flow.State{}, false
	}
	m.index++
	index := m.index
	state := m.copyState(m.entries[index])
	m.mu.Unlock()

	m.hookset().OnMove("redo", index)
	return state, true
}

// CanUndo reports whether Undo would move.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index > 0
}

// CanRedo reports whether Redo would move.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index < len(m.entries)-1
}

// CurrentIndex returns the index of the current entry, or -1 before Initialize.
func (m *Manager) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Len returns the number of stored entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Limit returns the maximum number of stored entries.
func (m *Manager) Limit() int {
	return m.limit
}

// Current returns a copy of the current entry.
func (m *Manager) Current() (flow.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index < 0 {
		return flow.State{}, false
	}
	return m.copyState(m.entries[m.index]), true
}

func (m *Manager) copyState(s flow.State) flow.State {
	return s.Clone(m.edgeCopy == EdgeCopyDeep)
}

func (m *Manager) hookset() observability.HistoryHooks {
	if m.hooks != nil {
		return m.hooks
	}
	return observability.History()
}
