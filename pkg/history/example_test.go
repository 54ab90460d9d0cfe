package history_test

import (
	"fmt"

	"github.com/matzehuels/flowtrail/pkg/flow"
	"github.com/matzehuels/flowtrail/pkg/history"
)

func Example() {
	diagram := flow.DefaultState()

	h := history.New()
	h.Initialize(diagram)

	diagram.Nodes[1].Position = flow.Position{X: 300, Y: 140}
	h.AddState(diagram)

	prev, _ := h.Undo()
	fmt.Println("after undo:", prev.Nodes[1].Position)

	next, _ := h.Redo()
	fmt.Println("after redo:", next.Nodes[1].Position)

	_, ok := h.Redo()
	fmt.Println("redo at tip:", ok)
	// Output:
	// after undo: {100 125}
	// after redo: {300 140}
	// redo at tip: false
}

func ExampleManager_StartTransaction() {
	diagram := flow.DefaultState()

	h := history.New()
	h.Initialize(diagram)

	// A drag: many positions, one history entry.
	h.StartTransaction()
	for x := 100.0; x <= 200; x += 20 {
		diagram.Nodes[1].Position.X = x
	}
	h.EndTransaction(diagram)

	fmt.Println("entries:", h.Len())
	fmt.Println("index:", h.CurrentIndex())
	// Output:
	// entries: 2
	// index: 1
}

func ExampleManager_Timeline() {
	h := history.New()
	h.Initialize(flow.DefaultState())
	h.AddState(flow.DefaultState())
	h.AddState(flow.DefaultState())
	h.Undo()

	for _, e := range h.Timeline() {
		fmt.Println(e.Index, e.Active)
	}
	// Output:
	// 0 false
	// 1 true
	// 2 false
}
