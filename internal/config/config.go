// Package config loads flowtrail settings.
//
// Sources are layered, later ones winning: built-in defaults, an optional
// TOML file, FLOWTRAIL_* environment variables, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/flowtrail/pkg/editor"
	"github.com/matzehuels/flowtrail/pkg/history"
)

const (
	// DefaultFile is read from the working directory when no file is given.
	DefaultFile = "flowtrail.toml"

	envPrefix = "FLOWTRAIL_"
)

// Flag names bound to config keys. Flags use dashes, keys use dots.
const (
	FlagHistoryLimit = "history-limit"
	FlagEdgeCopy     = "edge-copy"
	FlagStaleGesture = "stale-gesture"
	FlagDiagram      = "diagram"
)

var flagKeys = map[string]string{
	FlagHistoryLimit: "history.limit",
	FlagEdgeCopy:     "history.edge_copy",
	FlagStaleGesture: "editor.stale_gesture",
	FlagDiagram:      "demo.diagram",
}

// Config holds all configuration for the application.
type Config struct {
	History History `koanf:"history"`
	Editor  Editor  `koanf:"editor"`
	Demo    Demo    `koanf:"demo"`
}

// History configures the undo/redo manager.
type History struct {
	Limit    int    `koanf:"limit"`
	EdgeCopy string `koanf:"edge_copy"`
}

// Editor configures editing sessions.
type Editor struct {
	StaleGesture string `koanf:"stale_gesture"`
}

// Demo configures the interactive host.
type Demo struct {
	Diagram      string  `koanf:"diagram"` // JSON diagram file; empty uses the built-in one
	CanvasWidth  int     `koanf:"canvas_width"`
	CanvasHeight int     `koanf:"canvas_height"`
	Step         float64 `koanf:"step"` // arrow-key move distance
}

func defaults() map[string]any {
	return map[string]any{
		"history": map[string]any{
			"limit":     history.DefaultLimit,
			"edge_copy": history.EdgeCopyShallow.String(),
		},
		"editor": map[string]any{
			"stale_gesture": editor.CommitStaleGesture.String(),
		},
		"demo": map[string]any{
			"diagram":       "",
			"canvas_width":  60,
			"canvas_height": 16,
			"step":          10.0,
		},
	}
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
//
// An empty path reads [DefaultFile] if it exists. An explicit path must exist.
func Load(path string, f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	// 3. Environment variables, e.g. FLOWTRAIL_HISTORY_LIMIT=100
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	// 4. Flags that were set explicitly
	if f != nil {
		if err := k.Load(posflag.ProviderWithFlag(f, ".", k, flagKey(f)), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps FLOWTRAIL_HISTORY_EDGE_COPY to history.edge_copy: the first
// underscore separates section from key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + key
}

// flagKey maps explicitly set, known flags to config keys and drops the rest.
func flagKey(fs *pflag.FlagSet) func(*pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	}
}

// mapProvider serves a nested map as a koanf provider.
type mapProvider struct {
	m map[string]any
}

func makeMapProvider(m map[string]any) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]any, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("not implemented")
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := c.EdgeCopy(); err != nil {
		return fmt.Errorf("history.edge_copy: %w", err)
	}
	if _, err := c.StaleGesturePolicy(); err != nil {
		return fmt.Errorf("editor.stale_gesture: %w", err)
	}
	if c.Demo.CanvasWidth < 10 || c.Demo.CanvasHeight < 5 {
		return fmt.Errorf("demo canvas must be at least 10x5, got %dx%d", c.Demo.CanvasWidth, c.Demo.CanvasHeight)
	}
	return nil
}

// EdgeCopy returns the parsed history.edge_copy setting.
func (c *Config) EdgeCopy() (history.EdgeCopy, error) {
	return history.ParseEdgeCopy(c.History.EdgeCopy)
}

// StaleGesturePolicy returns the parsed editor.stale_gesture setting.
func (c *Config) StaleGesturePolicy() (editor.StaleGesturePolicy, error) {
	return editor.ParseStaleGesturePolicy(c.Editor.StaleGesture)
}

// HistoryOptions converts the history section into manager options.
func (c *Config) HistoryOptions() []history.Option {
	mode, _ := c.EdgeCopy()
	return []history.Option{
		history.WithLimit(c.History.Limit),
		history.WithEdgeCopy(mode),
	}
}

// BindFlags registers the config flags on f.
func BindFlags(f *pflag.FlagSet) {
	f.Int(FlagHistoryLimit, history.DefaultLimit, "maximum number of undo entries")
	f.String(FlagEdgeCopy, "shallow", "edge copy depth in history: shallow or deep")
	f.String(FlagStaleGesture, "commit", "unfinished drag handling: commit or drop")
	f.String(FlagDiagram, "", "JSON diagram file to start from")
}
