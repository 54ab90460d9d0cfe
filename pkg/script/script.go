// Package script replays editor actions described in TOML.
//
// A script is a list of steps run in order against an [editor.Session]:
//
//	name = "drag then undo"
//
//	[[step]]
//	op   = "drag"
//	node = "2"
//	path = [[120, 130], [180, 160]]
//
//	[[step]]
//	op = "undo"
//	expect_index = 0
//
// Steps may carry expect_index and expect_len to assert the history position
// after they run; a failed assertion stops the script with [ErrExpectation].
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowtrail/pkg/flow"
)

// Step operations.
const (
	OpMove    = "move"  // node to (x, y), recorded
	OpNudge   = "nudge" // node by (x, y), recorded
	OpDrag    = "drag"  // node along path, one entry
	OpBegin   = "begin" // open a gesture explicitly
	OpEnd     = "end"   // close a gesture explicitly
	OpUndo    = "undo"
	OpRedo    = "redo"
	OpSeek    = "seek"    // jump to index
	OpAdd     = "add"     // node with label at (x, y)
	OpRemove  = "remove"  // node and its edges
	OpConnect = "connect" // source to target
	OpKey     = "key"     // key press such as "ctrl+z"
)

var validOps = map[string]bool{
	OpMove: true, OpNudge: true, OpDrag: true, OpBegin: true, OpEnd: true,
	OpUndo: true, OpRedo: true, OpSeek: true, OpAdd: true, OpRemove: true,
	OpConnect: true, OpKey: true,
}

var (
	// ErrInvalidStep is returned for steps missing required fields.
	ErrInvalidStep = errors.New("invalid step")

	// ErrExpectation is returned when a step's expect_* assertion fails.
	ErrExpectation = errors.New("expectation failed")
)

// Script is a named list of steps.
type Script struct {
	Name  string `toml:"name"`
	Steps []Step `toml:"step"`
}

// Step is one editor action.
type Step struct {
	Op     string      `toml:"op"`
	Node   string      `toml:"node"`
	X      float64     `toml:"x"`
	Y      float64     `toml:"y"`
	Path   [][]float64 `toml:"path"`
	Index  int         `toml:"index"`
	Source string      `toml:"source"`
	Target string      `toml:"target"`
	Label  string      `toml:"label"`
	Key    string      `toml:"key"`

	ExpectIndex *int `toml:"expect_index"`
	ExpectLen   *int `toml:"expect_len"`
}

// Parse decodes a script. Unknown keys are rejected so typos do not pass
// silently.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode script: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFile reads and decodes a script file.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks every step for the fields its op needs.
func (s *Script) Validate() error {
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	if !validOps[st.Op] {
		return fmt.Errorf("%w: unknown op %q", ErrInvalidStep, st.Op)
	}
	switch st.Op {
	case OpMove, OpNudge, OpRemove:
		if st.Node == "" {
			return fmt.Errorf("%w: %s needs node", ErrInvalidStep, st.Op)
		}
	case OpDrag:
		if st.Node == "" || len(st.Path) == 0 {
			return fmt.Errorf("%w: drag needs node and path", ErrInvalidStep)
		}
		for _, p := range st.Path {
			if len(p) != 2 {
				return fmt.Errorf("%w: path points are [x, y] pairs", ErrInvalidStep)
			}
		}
	case OpConnect:
		if st.Source == "" || st.Target == "" {
			return fmt.Errorf("%w: connect needs source and target", ErrInvalidStep)
		}
	case OpKey:
		if st.Key == "" {
			return fmt.Errorf("%w: key needs key", ErrInvalidStep)
		}
	}
	return nil
}

func (st Step) points() []flow.Position {
	out := make([]flow.Position, len(st.Path))
	for i, p := range st.Path {
		out[i] = flow.Position{X: p[0], Y: p[1]}
	}
	return out
}
