package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowtrail/pkg/observability"
)

// DefaultLimit is the number of snapshots kept when no limit is configured.
const DefaultLimit = 50

// EdgeCopy selects how edges are copied into and out of history.
type EdgeCopy int

const (
	// EdgeCopyShallow copies the edge slice; edge style maps are shared.
	EdgeCopyShallow EdgeCopy = iota
	// EdgeCopyDeep copies every edge including its style map.
	EdgeCopyDeep
)

// String returns the config name of the mode.
func (e EdgeCopy) String() string {
	switch e {
	case EdgeCopyDeep:
		return "deep"
	default:
		return "shallow"
	}
}

// ParseEdgeCopy parses "shallow" or "deep". The empty string means shallow.
func ParseEdgeCopy(s string) (EdgeCopy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shallow":
		return EdgeCopyShallow, nil
	case "deep":
		return EdgeCopyDeep, nil
	}
	return EdgeCopyShallow, fmt.Errorf("unknown edge copy mode %q (want shallow or deep)", s)
}

// Option configures a [Manager].
type Option func(*Manager)

// WithLimit sets the maximum number of snapshots kept.
// Values below 1 fall back to [DefaultLimit].
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n < 1 {
			n = DefaultLimit
		}
		m.limit = n
	}
}

// WithLogger sets the logger used for rejected states and debug tracing.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithEdgeCopy sets how edges are copied.
func WithEdgeCopy(mode EdgeCopy) Option {
	return func(m *Manager) { m.edgeCopy = mode }
}

// WithHooks sets the hooks notified of history events.
// Without it the manager reports to [observability.History] at call time.
func WithHooks(h observability.HistoryHooks) Option {
	return func(m *Manager) { m.hooks = h }
}
