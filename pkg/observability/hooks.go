// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about history changes and script execution.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHistoryHooks(&myHistoryHooks{})
//	    observability.SetScriptHooks(&myScriptHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.History().OnPush(length, index)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// History Hooks
// =============================================================================

// HistoryHooks receives events from a history manager.
// Hooks are called after the manager has released its lock, so they may
// query the manager.
type HistoryHooks interface {
	// OnPush records a snapshot written at index, leaving length entries.
	OnPush(length, index int)

	// OnEvict records entries dropped from the front of a full history.
	OnEvict(count int)

	// OnRejected records a malformed state refused by the manager.
	OnRejected(err error)

	// OnMove records undo, redo, and seek. direction is "undo", "redo" or "seek".
	OnMove(direction string, index int)

	// Gesture events. committed is false when the gesture was cancelled.
	OnGestureStart()
	OnGestureEnd(committed bool)
}

// =============================================================================
// Script Hooks
// =============================================================================

// ScriptHooks receives events from scripted editor sessions.
type ScriptHooks interface {
	OnStepStart(ctx context.Context, step int, op string)
	OnStepComplete(ctx context.Context, step int, op string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnPush(int, int)    {}
func (NoopHistoryHooks) OnEvict(int)        {}
func (NoopHistoryHooks) OnRejected(error)   {}
func (NoopHistoryHooks) OnMove(string, int) {}
func (NoopHistoryHooks) OnGestureStart()    {}
func (NoopHistoryHooks) OnGestureEnd(bool)  {}

// NoopScriptHooks is a no-op implementation of ScriptHooks.
type NoopScriptHooks struct{}

func (NoopScriptHooks) OnStepStart(context.Context, int, string) {}
func (NoopScriptHooks) OnStepComplete(context.Context, int, string, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	historyHooks HistoryHooks = NoopHistoryHooks{}
	scriptHooks  ScriptHooks  = NoopScriptHooks{}
	hooksMu      sync.RWMutex
)

// SetHistoryHooks registers custom history hooks.
// Managers created with an explicit hooks option are not affected.
func SetHistoryHooks(h HistoryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		historyHooks = h
	}
}

// SetScriptHooks registers custom script hooks.
func SetScriptHooks(h ScriptHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scriptHooks = h
	}
}

// History returns the registered history hooks.
func History() HistoryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return historyHooks
}

// Script returns the registered script hooks.
func Script() ScriptHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scriptHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	historyHooks = NoopHistoryHooks{}
	scriptHooks = NoopScriptHooks{}
}
