package history

import "github.com/matzehuels/flowtrail/pkg/flow"

// TimelineEntry describes one stored snapshot for a scrubber UI.
type TimelineEntry struct {
	Index  int
	Active bool // true for the current entry
	State  flow.State
}

// Timeline returns every stored entry, oldest first.
// Each State is a fresh copy.
func (m *Manager) Timeline() []TimelineEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]TimelineEntry, len(m.entries))
	for i, s := range m.entries {
		out[i] = TimelineEntry{
			Index:  i,
			Active: i == m.index,
			State:  m.copyState(s),
		}
	}
	return out
}

// Seek makes the entry at index current and returns a copy of it.
// Like Undo and Redo it only moves the index. An out-of-range index
// returns false and changes nothing.
func (m *Manager) Seek(index int) (flow.State, bool) {
	m.mu.Lock()
	if index < 0 || index >= len(m.entries) {
		m.mu.Unlock()
		return flow.State{}, false
	}
	m.index = index
	state := m.copyState(m.entries[index])
	m.mu.Unlock()

	m.hookset().OnMove("seek", index)
	return state, true
}
