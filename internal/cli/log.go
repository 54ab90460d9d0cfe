// Package cli implements the flowtrail command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - demo: Interactive terminal editor for the three-node diagram
//   - replay: Run a TOML script against an editing session
//   - diagram: Print the built-in diagram as JSON
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowtrail/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Replayed 12 steps (1ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Hooks
// =============================================================================

// logHooks reports script steps at debug level.
type logHooks struct {
	observability.NoopScriptHooks
	logger *log.Logger
}

func (h *logHooks) OnStepStart(_ context.Context, step int, op string) {
	h.logger.Debug("step start", "step", step+1, "op", op)
}

func (h *logHooks) OnStepComplete(_ context.Context, step int, op string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("step failed", "step", step+1, "op", op, "err", err)
		return
	}
	h.logger.Debug("step done", "step", step+1, "op", op, "took", d)
}

// historyStats counts history events for a run summary.
type historyStats struct {
	pushes, evicted, rejected int
	undos, redos, seeks       int
	gestures, cancelled       int
}

func (s *historyStats) OnPush(int, int)  { s.pushes++ }
func (s *historyStats) OnEvict(n int)    { s.evicted += n }
func (s *historyStats) OnRejected(error) { s.rejected++ }
func (s *historyStats) OnGestureStart()  {}

func (s *historyStats) OnMove(dir string, _ int) {
	switch dir {
	case "undo":
		s.undos++
	case "redo":
		s.redos++
	case "seek":
		s.seeks++
	}
}

func (s *historyStats) OnGestureEnd(committed bool) {
	if committed {
		s.gestures++
	} else {
		s.cancelled++
	}
}
