package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowtrail/pkg/editor"
	"github.com/matzehuels/flowtrail/pkg/flow"
	"github.com/matzehuels/flowtrail/pkg/history"
	"github.com/matzehuels/flowtrail/pkg/script"
)

// replayReport is the --json output of replay.
type replayReport struct {
	Script  string       `json:"script"`
	Session string       `json:"session"`
	Steps   int          `json:"steps"`
	Changed int          `json:"changed"`
	Index   int          `json:"index"`
	Length  int          `json:"length"`
	Limit   int          `json:"limit"`
	State   flow.State   `json:"state"`
	History []flow.State `json:"history,omitempty"`
}

// replayCommand runs a TOML script against a fresh session.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		asJSON      bool
		withHistory bool
	)

	cmd := &cobra.Command{
		Use:   "replay <script.toml>",
		Short: "Run an editing script and print the resulting history",
		Long: `Run a TOML script of editor steps against a new session.

Each [[step]] names an op (move, nudge, drag, begin, end, undo, redo, seek,
add, remove, connect, key) and may assert the history position afterwards
with expect_index and expect_len. The run stops at the first failing step.`,
		Example: `  # Drag node 2, undo, then redo with the keyboard shortcut
  flowtrail replay drag.toml

  # Machine-readable result with every stored snapshot
  flowtrail replay drag.toml --json --history`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd, args[0], asJSON, withHistory)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&withHistory, "history", false, "include every stored snapshot in JSON output")

	return cmd
}

func (c *CLI) runReplay(cmd *cobra.Command, path string, asJSON, withHistory bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := script.ParseFile(path)
	if err != nil {
		return err
	}

	stats := &historyStats{}
	sess, err := c.newSession(logger, history.WithHooks(stats))
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := script.Run(ctx, sess, s)
	if err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Replayed %d steps", res.Steps))

	if asJSON {
		return writeReport(cmd.OutOrStdout(), newReport(s, sess, res, withHistory))
	}

	name := s.Name
	if name == "" {
		name = path
	}
	h := sess.History()
	printSuccess("Replayed %s", StyleHighlight.Render(name))
	printKeyValue("Session", sess.ID().String())
	printKeyValue("Steps", fmt.Sprintf("%d (%d moved history)", res.Steps, res.Changed))
	printKeyValue("Position", fmt.Sprintf("%d of %d (limit %d)", h.CurrentIndex(), h.Len()-1, h.Limit()))
	printStats(stats)
	printNewline()
	printTimeline(h.Timeline())
	if sess.InGesture() {
		printWarning("script ended inside a gesture; its moves are not recorded")
	}
	return nil
}

func newReport(s *script.Script, sess *editor.Session, res script.Result, withHistory bool) replayReport {
	h := sess.History()
	r := replayReport{
		Script:  s.Name,
		Session: sess.ID().String(),
		Steps:   res.Steps,
		Changed: res.Changed,
		Index:   h.CurrentIndex(),
		Length:  h.Len(),
		Limit:   h.Limit(),
		State:   sess.State(),
	}
	if withHistory {
		for _, e := range h.Timeline() {
			r.History = append(r.History, e.State)
		}
	}
	return r
}

func writeReport(w io.Writer, r replayReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
