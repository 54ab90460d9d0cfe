// Package history provides undo/redo for diagram editing sessions.
//
// A [Manager] keeps a bounded, linear sequence of [flow.State] snapshots and
// an index pointing at the current one. Writing while not at the newest
// snapshot discards everything after the current position; there is no
// branching history.
//
// # Snapshots
//
// Every stored snapshot is a copy of the caller's state. Nodes are copied one
// by one; edges are copied into a fresh slice whose elements share style maps
// with the caller unless [WithEdgeCopy] selects [EdgeCopyDeep]. Every snapshot
// handed back to a caller is again a fresh copy, so callers may mutate what
// they receive.
//
//	h := history.New()
//	h.Initialize(diagram)
//	h.AddState(edited)
//
//	if prev, ok := h.Undo(); ok {
//	    diagram = prev
//	}
//
// # Bounds
//
// At most [DefaultLimit] snapshots are kept unless [WithLimit] says otherwise.
// On overflow the oldest snapshots are dropped and the index moves to the
// newest entry. Undo and redo never evict.
//
// # Transactions
//
// A drag produces many intermediate positions but should undo as one step.
// StartTransaction marks the gesture as open; AddState calls are ignored
// until EndTransaction commits the gesture's final state as a single entry:
//
//	h.StartTransaction()
//	// ... position updates, no history writes ...
//	h.EndTransaction(finalState)
//
// [Manager.Gesture] wraps the same protocol for use with defer.
//
// # Errors
//
// The only failure is AddState receiving a state without a node list or
// without an edge list. The call is logged and ignored; history is unchanged.
// Undo at the oldest entry and redo at the newest are no-ops that report false.
//
// # Concurrency
//
// A Manager is safe for concurrent use, but operations are expected to come
// from a single UI event loop one at a time.
package history
