package editor

import "strings"

// KeyEvent is a key press with its modifiers.
type KeyEvent struct {
	Key   string // lower-case key name, e.g. "z"
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Action is what a key press did.
type Action int

const (
	ActionNone Action = iota
	ActionUndo
	ActionRedo
)

func (a Action) String() string {
	switch a {
	case ActionUndo:
		return "undo"
	case ActionRedo:
		return "redo"
	default:
		return "none"
	}
}

// ParseKey parses key strings such as "ctrl+z", "cmd+shift+z" or "Z".
// An upper-case letter implies shift. Other modifiers, alt included, are ignored.
func ParseKey(s string) KeyEvent {
	var ev KeyEvent
	parts := strings.Split(s, "+")
	for i, p := range parts {
		if i == len(parts)-1 {
			if len(p) == 1 && strings.ToUpper(p) == p && strings.ToLower(p) != p {
				ev.Shift = true
			}
			ev.Key = strings.ToLower(p)
			break
		}
		switch strings.ToLower(p) {
		case "ctrl", "control":
			ev.Ctrl = true
		case "cmd", "meta", "super":
			ev.Meta = true
		case "shift":
			ev.Shift = true
		}
	}
	return ev
}

// Classify maps a key press to an action without performing it:
// Ctrl/Cmd+Z undoes, Ctrl/Cmd+Shift+Z and Ctrl/Cmd+Y redo.
func Classify(ev KeyEvent) Action {
	if !ev.Ctrl && !ev.Meta {
		return ActionNone
	}
	switch ev.Key {
	case "z":
		if ev.Shift {
			return ActionRedo
		}
		return ActionUndo
	case "y":
		return ActionRedo
	}
	return ActionNone
}

// HandleKey performs the undo or redo bound to ev.
// It returns the action and whether the diagram changed.
func (s *Session) HandleKey(ev KeyEvent) (Action, bool) {
	switch a := Classify(ev); a {
	case ActionUndo:
		return a, s.Undo()
	case ActionRedo:
		return a, s.Redo()
	default:
		return a, false
	}
}
