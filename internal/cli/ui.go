package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flowtrail/pkg/flow"
	"github.com/matzehuels/flowtrail/pkg/history"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleActive   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleInactive = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCurrent = "◆"
	iconEntry   = "•"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// statsLine formats history counters on a single line, skipping zeros.
func statsLine(s *historyStats) string {
	counts := []struct {
		n    int
		name string
	}{
		{s.pushes, "pushes"},
		{s.evicted, "evicted"},
		{s.rejected, "rejected"},
		{s.gestures, "gestures"},
		{s.cancelled, "cancelled"},
		{s.undos, "undos"},
		{s.redos, "redos"},
		{s.seeks, "seeks"},
	}

	var parts []string
	for _, c := range counts {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.name))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "no history changes")
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	return line
}

// printStats prints history statistics on a single line.
func printStats(s *historyStats) {
	fmt.Println(statsLine(s))
}

// =============================================================================
// Timeline
// =============================================================================

// timelineBar renders entries as a row of dots with the current one marked.
func timelineBar(entries []history.TimelineEntry) string {
	var b strings.Builder
	for _, e := range entries {
		if e.Active {
			b.WriteString(styleActive.Render(iconCurrent))
		} else {
			b.WriteString(styleInactive.Render(iconEntry))
		}
	}
	return b.String()
}

// summarize describes a snapshot by its node positions, e.g. "1(250,25) 2(100,125)".
func summarize(s flow.State) string {
	parts := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		parts[i] = fmt.Sprintf("%s(%g,%g)", n.ID, n.Position.X, n.Position.Y)
	}
	return fmt.Sprintf("%s  %d edges", strings.Join(parts, " "), len(s.Edges))
}

// printTimeline prints one line per history entry.
func printTimeline(entries []history.TimelineEntry) {
	fmt.Println(StyleTitle.Render("Timeline") + " " + timelineBar(entries))
	for _, e := range entries {
		marker, style := " ", StyleDim
		if e.Active {
			marker, style = iconCurrent, StyleValue
		}
		idx := StyleNumber.Render(fmt.Sprintf("%3d", e.Index))
		fmt.Println(styleActive.Render(marker) + " " + idx + "  " + style.Render(summarize(e.State)))
	}
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
