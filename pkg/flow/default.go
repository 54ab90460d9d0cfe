package flow

// DefaultState returns the demo diagram: an input node feeding a default node
// feeding an output node. Each call returns fresh slices.
func DefaultState() State {
	return State{
		Nodes: []Node{
			{ID: "1", Type: TypeInput, Label: "Input Node", Position: Position{X: 250, Y: 25}},
			{ID: "2", Type: TypeDefault, Label: "Default Node", Position: Position{X: 100, Y: 125}},
			{ID: "3", Type: TypeOutput, Label: "Output Node", Position: Position{X: 250, Y: 250}},
		},
		Edges: []Edge{
			{ID: "e1-2", Source: "1", Target: "2"},
			{ID: "e2-3", Source: "2", Target: "3", Animated: true},
		},
	}
}
