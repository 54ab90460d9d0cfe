package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowtrail/internal/config"
	"github.com/matzehuels/flowtrail/pkg/editor"
	"github.com/matzehuels/flowtrail/pkg/flow"
)

// demoCommand starts the interactive editor.
func (c *CLI) demoCommand() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Edit the diagram interactively with undo and redo",
		Long: `Open the diagram in a terminal editor.

Select a node with tab, move it with the arrow keys, or grab it with space
and move it while held: the whole drag becomes one history entry. Undo and
redo with ctrl+z / ctrl+y (or u / r), and jump through the timeline with
[ and ].`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(logFile)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write session logs to this file while the editor runs")

	return cmd
}

func (c *CLI) runDemo(logFile string) error {
	// The terminal belongs to the editor while it runs.
	logger := log.New(io.Discard)
	if logFile != "" {
		f, err := tea.LogToFile(logFile, appName)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = newLogger(f, c.Logger.GetLevel())
	}

	sess, err := c.newSession(logger)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(newDemoModel(sess, c.Config.Demo), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}

	m := final.(demoModel)
	h := m.sess.History()
	printSuccess("Session %s closed", StyleHighlight.Render(m.sess.ID().String()[:8]))
	printKeyValue("History", fmt.Sprintf("%d entries, at %d", h.Len(), h.CurrentIndex()))
	printKeyValue("Edits", strconv.Itoa(m.edits))
	if logFile != "" {
		printInfo("Session log written to %s", logFile)
	}
	printNextStep("Replay edits from a script", appName+" replay script.toml")
	return nil
}

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Key Bindings
// =============================================================================

type demoKeys struct {
	Next, Prev            key.Binding
	Up, Down, Left, Right key.Binding
	Grab                  key.Binding
	Undo, Redo            key.Binding
	Oldest, Newest        key.Binding
	Add, Remove           key.Binding
	Help, Quit            key.Binding
}

func newDemoKeys() demoKeys {
	return demoKeys{
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next node")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev node")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Grab:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab/drop")),
		Undo:   key.NewBinding(key.WithKeys("ctrl+z", "u"), key.WithHelp("ctrl+z/u", "undo")),
		Redo:   key.NewBinding(key.WithKeys("ctrl+y", "r"), key.WithHelp("ctrl+y/r", "redo")),
		Oldest: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "oldest")),
		Newest: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "newest")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add node")),
		Remove: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove node")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k demoKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Grab, k.Undo, k.Redo, k.Help, k.Quit}
}

func (k demoKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.Add, k.Remove},
		{k.Undo, k.Redo, k.Oldest, k.Newest},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Model
// =============================================================================

// demoModel is the bubbletea model for the interactive editor.
type demoModel struct {
	sess     *editor.Session
	cfg      config.Demo
	keys     demoKeys
	help     help.Model
	selected string // node ID
	status   string
	edits    int // recorded actions, excluding undo and redo
}

func newDemoModel(sess *editor.Session, cfg config.Demo) demoModel {
	m := demoModel{
		sess: sess,
		cfg:  cfg,
		keys: newDemoKeys(),
		help: help.New(),
	}
	if nodes := sess.State().Nodes; len(nodes) > 0 {
		m.selected = nodes[0].ID
	}
	m.status = "ready"
	return m
}

func (m demoModel) Init() tea.Cmd {
	return nil
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m demoModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Platform shortcuts go through the session's own key handling.
	if a, changed := m.sess.HandleKey(editor.ParseKey(msg.String())); a != editor.ActionNone {
		m.report(a.String(), changed)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.sess.InGesture() {
			m.sess.EndGesture()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Next):
		m.cycle(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)
	case key.Matches(msg, m.keys.Up):
		m.move(0, -m.cfg.Step)
	case key.Matches(msg, m.keys.Down):
		m.move(0, m.cfg.Step)
	case key.Matches(msg, m.keys.Left):
		m.move(-m.cfg.Step, 0)
	case key.Matches(msg, m.keys.Right):
		m.move(m.cfg.Step, 0)
	case key.Matches(msg, m.keys.Grab):
		m.toggleGrab()
	case key.Matches(msg, m.keys.Undo):
		m.report("undo", m.sess.Undo())
	case key.Matches(msg, m.keys.Redo):
		m.report("redo", m.sess.Redo())
	case key.Matches(msg, m.keys.Oldest):
		m.report("oldest", m.sess.Seek(0))
	case key.Matches(msg, m.keys.Newest):
		m.report("newest", m.sess.Seek(m.sess.History().Len()-1))
	case key.Matches(msg, m.keys.Add):
		m.addNode()
	case key.Matches(msg, m.keys.Remove):
		m.removeNode()
	}
	return m, nil
}

// cycle moves the selection through the node list.
func (m *demoModel) cycle(delta int) {
	if m.sess.InGesture() {
		m.status = "drop the node first"
		return
	}
	nodes := m.sess.State().Nodes
	if len(nodes) == 0 {
		return
	}
	i := m.sess.State().NodeIndex(m.selected)
	i = (i + delta + len(nodes)) % len(nodes)
	m.selected = nodes[i].ID
	m.sess.Select(m.selected)
	m.status = "selected " + m.selected
}

func (m *demoModel) move(dx, dy float64) {
	if m.selected == "" {
		return
	}
	var err error
	if m.sess.InGesture() {
		n, _ := m.sess.State().Node(m.selected)
		err = m.sess.DragTo(m.selected, n.Position.Add(dx, dy))
		m.status = "dragging " + m.selected
	} else {
		err = m.sess.MoveNode(m.selected, dx, dy)
		m.status = "moved " + m.selected
		m.edits++
	}
	if err != nil {
		m.status = err.Error()
	}
}

func (m *demoModel) toggleGrab() {
	if m.selected == "" {
		return
	}
	if m.sess.InGesture() {
		if err := m.sess.EndDrag(m.selected); err != nil {
			m.status = err.Error()
			return
		}
		m.status = "dropped " + m.selected
		m.edits++
		return
	}
	if err := m.sess.StartDrag(m.selected); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "grabbed " + m.selected
}

func (m *demoModel) addNode() {
	id := nextNodeID(m.sess.State())
	pos := flow.Position{X: 50, Y: 50}
	if n, ok := m.sess.State().Node(m.selected); ok {
		pos = n.Position.Add(m.cfg.Step*3, m.cfg.Step*3)
	}
	if _, err := m.sess.AddNode(id, "Node "+id, pos); err != nil {
		m.status = err.Error()
		return
	}
	m.selected = id
	m.status = "added " + id
	m.edits++
}

func (m *demoModel) removeNode() {
	if m.selected == "" {
		return
	}
	if err := m.sess.RemoveNode(m.selected); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "removed " + m.selected
	m.edits++
	m.keepSelection()
}

// report updates the status after a history move and repairs the selection,
// which may name a node the restored snapshot does not have.
func (m *demoModel) report(action string, changed bool) {
	if changed {
		m.status = action
	} else {
		m.status = "nothing to " + action
	}
	m.keepSelection()
}

func (m *demoModel) keepSelection() {
	state := m.sess.State()
	if state.HasNode(m.selected) {
		return
	}
	m.selected = ""
	if len(state.Nodes) > 0 {
		m.selected = state.Nodes[0].ID
	}
}

// nextNodeID returns the smallest positive integer ID not in use.
func nextNodeID(s flow.State) string {
	for i := 1; ; i++ {
		id := strconv.Itoa(i)
		if !s.HasNode(id) {
			return id
		}
	}
}

// =============================================================================
// View
// =============================================================================

func (m demoModel) View() string {
	state := m.sess.State()
	h := m.sess.History()
	grabbed := m.sess.InGesture()

	var b strings.Builder
	b.WriteString(StyleTitle.Render("flowtrail"))
	b.WriteString(StyleDim.Render("  session " + m.sess.ID().String()[:8]))
	b.WriteString("\n")
	b.WriteString(renderCanvas(state, m.selected, grabbed, m.cfg.CanvasWidth, m.cfg.CanvasHeight))
	b.WriteString("\n")

	for _, n := range state.Nodes {
		cursor := "  "
		style := listNormalStyle
		if n.ID == m.selected {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := fmt.Sprintf("%s %-14s (%g, %g)", n.ID, n.DisplayLabel(), n.Position.X, n.Position.Y)
		b.WriteString(cursor + style.Render(line) + "\n")
	}
	for _, e := range state.Edges {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s %s %s", e.Source, iconArrow, e.Target)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(timelineBar(h.Timeline()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d", h.CurrentIndex(), h.Len()-1)))
	if grabbed {
		b.WriteString("  " + StyleWarning.Render("grabbing"))
	}
	b.WriteString("\n")
	b.WriteString(styleIconInfo.Render(iconInfo) + " " + m.status + "\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
