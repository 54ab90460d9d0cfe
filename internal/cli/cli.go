// Package cli implements the flowtrail command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowtrail/internal/config"
	"github.com/matzehuels/flowtrail/pkg/buildinfo"
	"github.com/matzehuels/flowtrail/pkg/editor"
	"github.com/matzehuels/flowtrail/pkg/flow"
	"github.com/matzehuels/flowtrail/pkg/history"
	"github.com/matzehuels/flowtrail/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and the env prefix.
const appName = "flowtrail"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Flowtrail records undo/redo history for flow diagrams",
		Long: `Flowtrail keeps a bounded undo/redo history of a small flow diagram.
Drags are recorded as single entries, and the history can be explored
interactively or replayed from TOML scripts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	config.BindFlags(flags)

	// Register all subcommands
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	c.Config = cfg

	observability.SetScriptHooks(&logHooks{logger: c.Logger})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))

	c.Logger.Debug("config loaded",
		"history_limit", cfg.History.Limit,
		"edge_copy", cfg.History.EdgeCopy,
		"stale_gesture", cfg.Editor.StaleGesture)
	return nil
}

// =============================================================================
// Session Factory
// =============================================================================

// loadDiagram returns the configured diagram, or the built-in one.
func (c *CLI) loadDiagram() (flow.State, error) {
	path := c.Config.Demo.Diagram
	if path == "" {
		return flow.DefaultState(), nil
	}
	state, err := flow.ReadStateFile(path)
	if err != nil {
		return flow.State{}, fmt.Errorf("load diagram: %w", err)
	}
	return state, nil
}

// newSession starts an editing session configured from c.Config.
func (c *CLI) newSession(logger *log.Logger, opts ...history.Option) (*editor.Session, error) {
	state, err := c.loadDiagram()
	if err != nil {
		return nil, err
	}
	policy, err := c.Config.StaleGesturePolicy()
	if err != nil {
		return nil, err
	}
	hopts := append(c.Config.HistoryOptions(), opts...)
	return editor.NewSession(state,
		editor.WithLogger(logger),
		editor.WithHistoryOptions(hopts...),
		editor.WithStaleGesturePolicy(policy),
	), nil
}
