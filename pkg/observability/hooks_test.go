package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	h := NoopHistoryHooks{}
	h.OnPush(3, 2)
	h.OnEvict(1)
	h.OnRejected(errors.New("bad state"))
	h.OnMove("undo", 1)
	h.OnGestureStart()
	h.OnGestureEnd(true)

	s := NoopScriptHooks{}
	s.OnStepStart(ctx, 0, "move")
	s.OnStepComplete(ctx, 0, "move", time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := History().(NoopHistoryHooks); !ok {
		t.Error("History() should return NoopHistoryHooks by default")
	}
	if _, ok := Script().(NoopScriptHooks); !ok {
		t.Error("Script() should return NoopScriptHooks by default")
	}

	customHistory := &testHistoryHooks{}
	SetHistoryHooks(customHistory)
	if History() != customHistory {
		t.Error("SetHistoryHooks should set custom hooks")
	}

	customScript := &testScriptHooks{}
	SetScriptHooks(customScript)
	if Script() != customScript {
		t.Error("SetScriptHooks should set custom hooks")
	}

	Reset()
	if _, ok := History().(NoopHistoryHooks); !ok {
		t.Error("Reset() should restore NoopHistoryHooks")
	}
	if _, ok := Script().(NoopScriptHooks); !ok {
		t.Error("Reset() should restore NoopScriptHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testHistoryHooks{}
	SetHistoryHooks(custom)

	SetHistoryHooks(nil)

	if History() != custom {
		t.Error("SetHistoryHooks(nil) should be ignored")
	}

	Reset()
}

type testHistoryHooks struct{ NoopHistoryHooks }
type testScriptHooks struct{ NoopScriptHooks }
