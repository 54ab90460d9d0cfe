package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowtrail/pkg/history"
)

// StaleGesturePolicy decides what to do with a gesture that was never ended.
type StaleGesturePolicy int

const (
	// CommitStaleGesture records the open gesture before the next edit.
	CommitStaleGesture StaleGesturePolicy = iota
	// DropStaleGesture discards the open gesture; its edit gets no entry.
	DropStaleGesture
)

// String returns the config name of the policy.
func (p StaleGesturePolicy) String() string {
	if p == DropStaleGesture {
		return "drop"
	}
	return "commit"
}

// ParseStaleGesturePolicy parses "commit" or "drop". The empty string means commit.
func ParseStaleGesturePolicy(s string) (StaleGesturePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "commit":
		return CommitStaleGesture, nil
	case "drop":
		return DropStaleGesture, nil
	}
	return CommitStaleGesture, fmt.Errorf("unknown stale gesture policy %q (want commit or drop)", s)
}

// Option configures a [Session].
type Option func(*Session)

// WithLogger sets the session logger. The history manager created by the
// session logs through it too, unless WithHistory supplies a manager.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistory uses an existing manager instead of creating one.
// The session calls Initialize on it.
func WithHistory(h *history.Manager) Option {
	return func(s *Session) { s.history = h }
}

// WithHistoryOptions passes options to the manager the session creates.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(s *Session) { s.historyOpts = append(s.historyOpts, opts...) }
}

// WithStaleGesturePolicy sets how lost gesture ends are handled.
func WithStaleGesturePolicy(p StaleGesturePolicy) Option {
	return func(s *Session) { s.policy = p }
}
