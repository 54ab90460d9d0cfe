package history

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowtrail/pkg/flow"
)

// Helper to create a manager whose log output is captured.
func newTestManager(opts ...Option) (*Manager, *bytes.Buffer) {
	var buf bytes.Buffer
	opts = append([]Option{WithLogger(log.New(&buf)), WithHooks(&recordingHooks{})}, opts...)
	return New(opts...), &buf
}

// stateAt returns a one-node diagram with the node at (x, 0).
func stateAt(x float64) flow.State {
	return flow.State{
		Nodes: []flow.Node{{ID: "n", Position: flow.Position{X: x}}},
		Edges: []flow.Edge{{ID: "e", Source: "n", Target: "n"}},
	}
}

func nodeX(t *testing.T, s flow.State) float64 {
	t.Helper()
	if len(s.Nodes) == 0 {
		t.Fatal("state has no nodes")
	}
	return s.Nodes[0].Position.X
}

type recordingHooks struct {
	pushes   int
	evicted  int
	rejected []error
	moves    []string
	starts   int
	ends     []bool
}

func (h *recordingHooks) OnPush(int, int)            { h.pushes++ }
func (h *recordingHooks) OnEvict(n int)              { h.evicted += n }
func (h *recordingHooks) OnRejected(err error)       { h.rejected = append(h.rejected, err) }
func (h *recordingHooks) OnMove(dir string, idx int) { h.moves = append(h.moves, dir) }
func (h *recordingHooks) OnGestureStart()            { h.starts++ }
func (h *recordingHooks) OnGestureEnd(c bool)        { h.ends = append(h.ends, c) }

// Manager Tests

func TestNewIsEmpty(t *testing.T) {
	h, _ := newTestManager()
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
	if h.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", h.CurrentIndex())
	}
	if _, ok := h.Current(); ok {
		t.Error("Current() should report false before Initialize")
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo() should report false on empty history")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo() should report false on empty history")
	}
	if h.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", h.Limit(), DefaultLimit)
	}
}

func TestInitialize(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(1))
	h.AddState(stateAt(2))
	h.StartTransaction()

	h.Initialize(stateAt(10))

	if h.Len() != 1 || h.CurrentIndex() != 0 {
		t.Errorf("Len()=%d CurrentIndex()=%d, want 1, 0", h.Len(), h.CurrentIndex())
	}
	if h.InTransaction() {
		t.Error("Initialize should close an open transaction")
	}
	cur, ok := h.Current()
	if !ok || nodeX(t, cur) != 10 {
		t.Errorf("Current() = %+v, want node at 10", cur)
	}
}

func TestAddStateIndexTracksTip(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(0))
	for i := 1; i <= 20; i++ {
		h.AddState(stateAt(float64(i)))
		if h.CurrentIndex() != h.Len()-1 {
			t.Fatalf("after push %d: CurrentIndex()=%d Len()=%d", i, h.CurrentIndex(), h.Len())
		}
	}
}

func TestAddStateBeforeInitialize(t *testing.T) {
	h, _ := newTestManager()
	h.AddState(stateAt(5))
	if h.Len() != 1 || h.CurrentIndex() != 0 {
		t.Errorf("Len()=%d CurrentIndex()=%d, want 1, 0", h.Len(), h.CurrentIndex())
	}
}

func TestAddStateRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		state flow.State
		want  error
	}{
		{name: "MissingNodes", state: flow.State{Edges: []flow.Edge{}}, want: flow.ErrMissingNodes},
		{name: "MissingEdges", state: flow.State{Nodes: []flow.Node{}}, want: flow.ErrMissingEdges},
		{name: "Zero", state: flow.State{}, want: flow.ErrMissingNodes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks := &recordingHooks{}
			h, logs := newTestManager(WithHooks(hooks))
			h.Initialize(stateAt(0))

			h.AddState(tt.state)

			if h.Len() != 1 || h.CurrentIndex() != 0 {
				t.Errorf("history changed: Len()=%d CurrentIndex()=%d", h.Len(), h.CurrentIndex())
			}
			if !strings.Contains(logs.String(), "rejected history state") {
				t.Errorf("expected error log, got %q", logs.String())
			}
			if len(hooks.rejected) != 1 || !errors.Is(hooks.rejected[0], tt.want) {
				t.Errorf("rejected = %v, want %v", hooks.rejected, tt.want)
			}
		})
	}
}

func TestAddStateAcceptsEmptyLists(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(0))
	h.AddState(flow.State{Nodes: []flow.Node{}, Edges: []flow.Edge{}})
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestUndoRedo(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(0))
	h.AddState(stateAt(1))
	h.AddState(stateAt(2))

	if !h.CanUndo() || h.CanRedo() {
		t.Fatal("at tip: CanUndo should be true and CanRedo false")
	}

	s, ok := h.Undo()
	if !ok || nodeX(t, s) != 1 {
		t.Fatalf("Undo() = %+v, %v", s, ok)
	}
	s, ok = h.Undo()
	if !ok || nodeX(t, s) != 0 {
		t.Fatalf("Undo() = %+v, %v", s, ok)
	}
	if h.CanUndo() {
		t.Error("CanUndo should be false at index 0")
	}

	s, ok = h.Redo()
	if !ok || nodeX(t, s) != 1 {
		t.Fatalf("Redo() = %+v, %v", s, ok)
	}
	if h.Len() != 3 {
		t.Errorf("undo/redo should not change Len(): %d", h.Len())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(0))
	for i := 1; i <= 5; i++ {
		h.AddState(stateAt(float64(i)))
	}
	// Move strictly inside the history
	h.Undo()
	h.Undo()

	before, _ := h.Current()
	idx := h.CurrentIndex()

	if _, ok := h.Undo(); !ok {
		t.Fatal("Undo() should succeed")
	}
	after, ok := h.Redo()
	if !ok {
		t.Fatal("Redo() should succeed")
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("round trip changed snapshot: %+v vs %+v", before, after)
	}
	if h.CurrentIndex() != idx {
		t.Errorf("CurrentIndex() = %d, want %d", h.CurrentIndex(), idx)
	}
}

func TestUndoAtOldest(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(0))

	s, ok := h.Undo()
	if ok {
		t.Error("Undo() at index 0 should report false")
	}
	if s.Nodes != nil || s.Edges != nil {
		t.Error("Undo() at index 0 should return the zero state")
	}
	if h.CurrentIndex() != 0 || h.Len() != 1 {
		t.Errorf("state changed: CurrentIndex()=%d Len()=%d", h.CurrentIndex(), h.Len())
	}
}

func TestRedoAtNewest(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(0))
	h.AddState(stateAt(1))

	if _, ok := h.Redo(); ok {
		t.Error("Redo() at tip should report false")
	}
	if h.CurrentIndex() != 1 || h.Len() != 2 {
		t.Errorf("state changed: CurrentIndex()=%d Len()=%d", h.CurrentIndex(), h.Len())
	}
}

func TestAddStateTruncatesRedo(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(0))
	for i := 1; i <= 4; i++ {
		h.AddState(stateAt(float64(i)))
	}
	h.Undo()
	h.Undo()
	before := h.CurrentIndex()

	h.AddState(stateAt(100))

	if h.Len() != before+2 {
		t.Errorf("Len() = %d, want %d", h.Len(), before+2)
	}
	if h.CanRedo() {
		t.Error("redo entries should be discarded")
	}
	cur, _ := h.Current()
	if nodeX(t, cur) != 100 {
		t.Errorf("current = %v, want 100", nodeX(t, cur))
	}
}

func TestScenarioWriteAfterDoubleUndo(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(0))
	h.AddState(stateAt(1))
	h.AddState(stateAt(2))
	if h.Len() != 3 || h.CurrentIndex() != 2 {
		t.Fatalf("setup: Len()=%d CurrentIndex()=%d", h.Len(), h.CurrentIndex())
	}

	h.Undo()
	h.Undo()
	if h.CurrentIndex() != 0 {
		t.Fatalf("CurrentIndex() = %d, want 0", h.CurrentIndex())
	}

	h.AddState(stateAt(42))

	tl := h.Timeline()
	if len(tl) != 2 || h.CurrentIndex() != 1 {
		t.Fatalf("Len()=%d CurrentIndex()=%d, want 2, 1", len(tl), h.CurrentIndex())
	}
	if nodeX(t, tl[0].State) != 0 || nodeX(t, tl[1].State) != 42 {
		t.Errorf("timeline = [%v %v], want [0 42]", nodeX(t, tl[0].State), nodeX(t, tl[1].State))
	}
}

func TestScenarioDiagramUndoRedo(t *testing.T) {
	a := flow.Node{ID: "A", Position: flow.Position{X: 0, Y: 0}}
	b := flow.Node{ID: "B", Position: flow.Position{X: 10, Y: 10}}
	b2 := flow.Node{ID: "B", Position: flow.Position{X: 50, Y: 60}}
	e1 := flow.Edge{ID: "e1", Source: "A", Target: "B"}

	first := flow.State{Nodes: []flow.Node{a, b}, Edges: []flow.Edge{e1}}
	second := flow.State{Nodes: []flow.Node{a, b2}, Edges: []flow.Edge{e1}}

	h, _ := newTestManager()
	h.Initialize(first)
	h.AddState(second)

	got, ok := h.Undo()
	if !ok || !reflect.DeepEqual(got, first) {
		t.Errorf("Undo() = %+v, want %+v", got, first)
	}
	got, ok = h.Redo()
	if !ok || !reflect.DeepEqual(got, second) {
		t.Errorf("Redo() = %+v, want %+v", got, second)
	}
}

func TestLimitEvictsOldest(t *testing.T) {
	hooks := &recordingHooks{}
	h, _ := newTestManager(WithHooks(hooks))
	h.Initialize(stateAt(0))
	for i := 1; i <= 120; i++ {
		h.AddState(stateAt(float64(i)))
		if h.Len() > DefaultLimit {
			t.Fatalf("Len() = %d exceeds limit", h.Len())
		}
	}

	if h.Len() != DefaultLimit {
		t.Fatalf("Len() = %d, want %d", h.Len(), DefaultLimit)
	}
	if h.CurrentIndex() != DefaultLimit-1 {
		t.Errorf("CurrentIndex() = %d, want %d", h.CurrentIndex(), DefaultLimit-1)
	}

	tl := h.Timeline()
	// 121 states written (0..120); the newest 50 are 71..120
	if nodeX(t, tl[0].State) != 71 {
		t.Errorf("oldest retained = %v, want 71", nodeX(t, tl[0].State))
	}
	if nodeX(t, tl[len(tl)-1].State) != 120 {
		t.Errorf("newest = %v, want 120", nodeX(t, tl[len(tl)-1].State))
	}
	if hooks.evicted != 121-DefaultLimit {
		t.Errorf("evicted = %d, want %d", hooks.evicted, 121-DefaultLimit)
	}

	// The earliest pushes are unreachable
	for h.CanUndo() {
		h.Undo()
	}
	cur, _ := h.Current()
	if nodeX(t, cur) != 71 {
		t.Errorf("oldest reachable = %v, want 71", nodeX(t, cur))
	}
}

func TestWithLimit(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"Custom", 3, 3},
		{"Zero", 0, DefaultLimit},
		{"Negative", -5, DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestManager(WithLimit(tt.in))
			if h.Limit() != tt.want {
				t.Errorf("Limit() = %d, want %d", h.Limit(), tt.want)
			}
		})
	}

	h, _ := newTestManager(WithLimit(3))
	h.Initialize(stateAt(0))
	for i := 1; i <= 5; i++ {
		h.AddState(stateAt(float64(i)))
	}
	tl := h.Timeline()
	if len(tl) != 3 || nodeX(t, tl[0].State) != 3 {
		t.Errorf("timeline length %d, oldest %v; want 3, 3", len(tl), nodeX(t, tl[0].State))
	}
}

func TestUndoRedoNeverEvict(t *testing.T) {
	h, _ := newTestManager(WithLimit(2))
	h.Initialize(stateAt(0))
	h.AddState(stateAt(1))
	for i := 0; i < 5; i++ {
		h.Undo()
		h.Redo()
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

// Copy isolation tests

func TestStoredSnapshotIsolatedFromLiveState(t *testing.T) {
	live := flow.DefaultState()
	live.Nodes[1].Data = map[string]any{"label": "before"}

	h, _ := newTestManager()
	h.Initialize(stateAt(0))
	h.AddState(live)

	live.Nodes[1].Position.X = -1
	live.Nodes[1].Data["label"] = "after"
	live.Nodes = append(live.Nodes[:1], live.Nodes[2:]...)

	cur, _ := h.Current()
	if len(cur.Nodes) != 3 {
		t.Fatalf("stored nodes = %d, want 3", len(cur.Nodes))
	}
	if cur.Nodes[1].Position.X != 100 {
		t.Errorf("stored position = %v, want 100", cur.Nodes[1].Position.X)
	}
	if cur.Nodes[1].Data["label"] != "before" {
		t.Errorf("stored data = %v, want before", cur.Nodes[1].Data["label"])
	}
}

func TestStoredSnapshotIsolatesNestedData(t *testing.T) {
	live := flow.DefaultState()
	live.Nodes[0].Data = map[string]any{"meta": map[string]any{"label": "before"}}

	h, _ := newTestManager()
	h.Initialize(live)
	live.Nodes[0].Data["meta"].(map[string]any)["label"] = "after"

	cur, _ := h.Current()
	if label := cur.Nodes[0].Data["meta"].(map[string]any)["label"]; label != "before" {
		t.Errorf("stored nested label = %v, want before", label)
	}

	// Snapshots handed out must not reach back into storage either.
	cur.Nodes[0].Data["meta"].(map[string]any)["label"] = "changed"
	again, _ := h.Current()
	if label := again.Nodes[0].Data["meta"].(map[string]any)["label"]; label != "before" {
		t.Errorf("stored nested label after editing a returned copy = %v, want before", label)
	}
}

func TestReturnedSnapshotsAreCopies(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(0))
	h.AddState(stateAt(1))

	s, _ := h.Undo()
	s.Nodes[0].Position.X = 999
	s.Edges[0].Label = "mutated"

	tl := h.Timeline()
	tl[1].State.Nodes[0].Position.X = 999

	cur, _ := h.Current()
	if nodeX(t, cur) != 0 || cur.Edges[0].Label != "" {
		t.Errorf("undo result aliases history: %+v", cur)
	}
	again, _ := h.Redo()
	if nodeX(t, again) != 1 {
		t.Errorf("timeline result aliases history: %v", nodeX(t, again))
	}
}

func TestEdgeCopyModes(t *testing.T) {
	tests := []struct {
		mode      EdgeCopy
		wantColor string
	}{
		{EdgeCopyShallow, "red"},
		{EdgeCopyDeep, "black"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			live := flow.DefaultState()
			live.Edges[0].Style = map[string]string{"stroke": "black"}

			h, _ := newTestManager(WithEdgeCopy(tt.mode))
			h.Initialize(live)

			live.Edges[0].Style["stroke"] = "red"
			live.Edges[0].Label = "changed"

			cur, _ := h.Current()
			if cur.Edges[0].Label != "" {
				t.Error("edge slice should always be copied")
			}
			if got := cur.Edges[0].Style["stroke"]; got != tt.wantColor {
				t.Errorf("stroke = %q, want %q", got, tt.wantColor)
			}
		})
	}
}

func TestParseEdgeCopy(t *testing.T) {
	tests := []struct {
		in      string
		want    EdgeCopy
		wantErr bool
	}{
		{"", EdgeCopyShallow, false},
		{"shallow", EdgeCopyShallow, false},
		{"Deep", EdgeCopyDeep, false},
		{"sideways", EdgeCopyShallow, true},
	}

	for _, tt := range tests {
		got, err := ParseEdgeCopy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEdgeCopy(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseEdgeCopy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Timeline tests

func TestTimeline(t *testing.T) {
	h, _ := newTestManager()
	h.Initialize(stateAt(0))
	h.AddState(stateAt(1))
	h.AddState(stateAt(2))
	h.Undo()

	tl := h.Timeline()
	if len(tl) != 3 {
		t.Fatalf("len = %d, want 3", len(tl))
	}
	for i, e := range tl {
		if e.Index != i {
			t.Errorf("entry %d has Index %d", i, e.Index)
		}
		if e.Active != (i == 1) {
			t.Errorf("entry %d Active = %v", i, e.Active)
		}
		if nodeX(t, e.State) != float64(i) {
			t.Errorf("entry %d state = %v", i, nodeX(t, e.State))
		}
	}
}

func TestSeek(t *testing.T) {
	hooks := &recordingHooks{}
	h, _ := newTestManager(WithHooks(hooks))
	h.Initialize(stateAt(0))
	h.AddState(stateAt(1))
	h.AddState(stateAt(2))

	s, ok := h.Seek(0)
	if !ok || nodeX(t, s) != 0 || h.CurrentIndex() != 0 {
		t.Fatalf("Seek(0) = %+v, %v; index %d", s, ok, h.CurrentIndex())
	}
	if h.Len() != 3 {
		t.Error("Seek should not change Len()")
	}

	for _, idx := range []int{-1, 3} {
		if _, ok := h.Seek(idx); ok {
			t.Errorf("Seek(%d) should report false", idx)
		}
	}
	if h.CurrentIndex() != 0 {
		t.Errorf("failed seek moved index to %d", h.CurrentIndex())
	}
	if !reflect.DeepEqual(hooks.moves, []string{"seek"}) {
		t.Errorf("moves = %v", hooks.moves)
	}
}
