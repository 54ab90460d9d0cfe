package editor

import "testing"

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want KeyEvent
	}{
		{"ctrl+z", KeyEvent{Key: "z", Ctrl: true}},
		{"ctrl+shift+z", KeyEvent{Key: "z", Ctrl: true, Shift: true}},
		{"cmd+Z", KeyEvent{Key: "z", Meta: true, Shift: true}},
		{"ctrl+y", KeyEvent{Key: "y", Ctrl: true}},
		{"u", KeyEvent{Key: "u"}},
		{"up", KeyEvent{Key: "up"}},
		{"alt+z", KeyEvent{Key: "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseKey(tt.in); got != tt.want {
				t.Errorf("ParseKey(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		key  string
		want Action
	}{
		{"ctrl+z", ActionUndo},
		{"cmd+z", ActionUndo},
		{"ctrl+shift+z", ActionRedo},
		{"cmd+shift+z", ActionRedo},
		{"ctrl+y", ActionRedo},
		{"z", ActionNone},
		{"shift+z", ActionNone},
		{"ctrl+x", ActionNone},
		{"alt+z", ActionNone},
		{"alt+shift+z", ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := Classify(ParseKey(tt.key)); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestHandleKey(t *testing.T) {
	s, _ := newTestSession()
	if err := s.MoveNode("2", 50, 0); err != nil {
		t.Fatal(err)
	}

	a, changed := s.HandleKey(ParseKey("ctrl+z"))
	if a != ActionUndo || !changed {
		t.Errorf("ctrl+z = %v, %v", a, changed)
	}
	a, changed = s.HandleKey(ParseKey("ctrl+z"))
	if a != ActionUndo || changed {
		t.Errorf("second ctrl+z = %v, %v; want undo, false", a, changed)
	}
	a, changed = s.HandleKey(ParseKey("ctrl+shift+z"))
	if a != ActionRedo || !changed {
		t.Errorf("ctrl+shift+z = %v, %v", a, changed)
	}
	a, changed = s.HandleKey(ParseKey("q"))
	if a != ActionNone || changed {
		t.Errorf("q = %v, %v", a, changed)
	}
}
