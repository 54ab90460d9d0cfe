package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flowtrail/pkg/flow"
)

// Diagram units per terminal cell. Cells are roughly twice as tall as wide.
const (
	unitsPerCol = 5.0
	unitsPerRow = 20.0
)

var (
	canvasBorder   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	canvasNode     = lipgloss.NewStyle().Foreground(colorWhite)
	canvasSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	canvasGrabbed  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// cellOf maps a diagram position to a canvas cell, clamped to w x h.
func cellOf(p flow.Position, w, h int) (col, row int) {
	col = int(p.X / unitsPerCol)
	row = int(p.Y / unitsPerRow)
	return clamp(col, 0, w-1), clamp(row, 0, h-1)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// renderCanvas draws each node as "[id]" at its scaled position.
// Later nodes overwrite earlier ones where they overlap.
func renderCanvas(state flow.State, selected string, grabbed bool, w, h int) string {
	grid := make([][]string, h)
	for r := range grid {
		grid[r] = make([]string, w)
		for col := range grid[r] {
			grid[r][col] = " "
		}
	}

	for _, n := range state.Nodes {
		style := canvasNode
		if n.ID == selected {
			style = canvasSelected
			if grabbed {
				style = canvasGrabbed
			}
		}
		label := []rune("[" + n.ID + "]")
		if len(label) > w {
			label = label[:w]
		}
		col, row := cellOf(n.Position, w, h)
		col = min(col, w-len(label))
		for i, r := range label {
			grid[row][col+i] = style.Render(string(r))
		}
	}

	lines := make([]string, h)
	for r, cells := range grid {
		lines[r] = strings.Join(cells, "")
	}
	return canvasBorder.Render(strings.Join(lines, "\n"))
}
