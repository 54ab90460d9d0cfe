package script

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/flowtrail/pkg/editor"
	"github.com/matzehuels/flowtrail/pkg/flow"
	"github.com/matzehuels/flowtrail/pkg/observability"
)

// Result summarizes a script run.
type Result struct {
	Steps   int // steps executed
	Changed int // undo/redo/seek/key steps that moved history
}

// Run executes the script's steps in order against sess.
// The context is checked between steps.
func Run(ctx context.Context, sess *editor.Session, s *Script) (Result, error) {
	var res Result
	hooks := observability.Script()

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		hooks.OnStepStart(ctx, i, st.Op)
		start := time.Now()
		changed, err := apply(sess, st)
		if err == nil {
			err = st.check(sess)
		}
		hooks.OnStepComplete(ctx, i, st.Op, time.Since(start), err)

		if err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		res.Steps++
		if changed {
			res.Changed++
		}
	}
	return res, nil
}

func apply(sess *editor.Session, st Step) (bool, error) {
	switch st.Op {
	case OpMove:
		n, ok := sess.State().Node(st.Node)
		if !ok {
			return false, fmt.Errorf("%w: %s", flow.ErrUnknownNode, st.Node)
		}
		return false, sess.MoveNode(st.Node, st.X-n.Position.X, st.Y-n.Position.Y)
	case OpNudge:
		return false, sess.MoveNode(st.Node, st.X, st.Y)
	case OpDrag:
		return false, sess.Drag(st.Node, st.points())
	case OpBegin:
		sess.BeginGesture()
	case OpEnd:
		sess.EndGesture()
	case OpUndo:
		return sess.Undo(), nil
	case OpRedo:
		return sess.Redo(), nil
	case OpSeek:
		return sess.Seek(st.Index), nil
	case OpAdd:
		_, err := sess.AddNode(st.Node, st.Label, flow.Position{X: st.X, Y: st.Y})
		return false, err
	case OpRemove:
		return false, sess.RemoveNode(st.Node)
	case OpConnect:
		return false, sess.OnConnect(flow.Connection{Source: st.Source, Target: st.Target})
	case OpKey:
		_, changed := sess.HandleKey(editor.ParseKey(st.Key))
		return changed, nil
	}
	return false, nil
}

func (st Step) check(sess *editor.Session) error {
	h := sess.History()
	if st.ExpectIndex != nil && h.CurrentIndex() != *st.ExpectIndex {
		return fmt.Errorf("%w: index is %d, want %d", ErrExpectation, h.CurrentIndex(), *st.ExpectIndex)
	}
	if st.ExpectLen != nil && h.Len() != *st.ExpectLen {
		return fmt.Errorf("%w: length is %d, want %d", ErrExpectation, h.Len(), *st.ExpectLen)
	}
	return nil
}
