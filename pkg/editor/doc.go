// Package editor connects diagram UI events to a history manager.
//
// A [Session] owns the live diagram and the [history.Manager] for one editing
// session. The UI layer forwards its change events and key presses; the
// session applies them to the live diagram and decides what becomes a
// history entry:
//
//   - a position change flagged as dragging opens a gesture
//   - the position change that clears the flag commits the gesture as one entry
//   - removals, additions, connections and plain moves are recorded at once
//   - selection and dimension changes are never recorded
//
// Gestures can also be driven explicitly with [Session.BeginGesture] and
// [Session.EndGesture].
//
// # Lost Gesture Ends
//
// If the change that ends a drag never arrives, the gesture stays open. The
// session's [StaleGesturePolicy] decides what happens when the next recorded
// edit, undo or redo arrives: [CommitStaleGesture] records the gesture's
// state first, [DropStaleGesture] discards it so the drag gets no entry of
// its own.
package editor
