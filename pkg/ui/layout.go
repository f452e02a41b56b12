package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/maillog-explorer/pkg/config"
)

// ErrTerminalTooSmall is fatal: the minimum layout cannot be drawn
var ErrTerminalTooSmall = errors.New("terminal window too small")

const chromeRows = config.ChromeRows

// Layout is the screen geometry derived from the terminal size
type Layout struct {
	Width          int
	Height         int
	IDPaneWidth    int
	LinesPaneWidth int
	ListHeight     int
	EditorWidth    int
}

// LayoutLimits are the configured minimums
type LayoutLimits struct {
	MinWidth    int
	MinHeight   int
	IDPaneWidth int
}

// ComputeLayout derives pane geometry for a width x height terminal
func ComputeLayout(width, height int, limits LayoutLimits) (Layout, error) {
	if width < limits.MinWidth || height < limits.MinHeight {
		return Layout{}, fmt.Errorf("%w (need %dx%d, got %dx%d)",
			ErrTerminalTooSmall, limits.MinWidth, limits.MinHeight, width, height)
	}

	idWidth := limits.IDPaneWidth
	linesWidth := width - idWidth - 1
	if linesWidth < 1 {
		return Layout{}, fmt.Errorf("%w (id pane %d does not fit in width %d)", ErrTerminalTooSmall, idWidth, width)
	}

	return Layout{
		Width:          width,
		Height:         height,
		IDPaneWidth:    idWidth,
		LinesPaneWidth: linesWidth,
		ListHeight:     height - chromeRows,
		EditorWidth:    min(width-8, 72),
	}, nil
}

// renderHorizontalSplit renders panes side by side with sep between them
func renderHorizontalSplit(panes []string, widths []int, sep string) string {
	if len(panes) == 0 {
		return ""
	}

	paneLines := make([][]string, len(panes))
	maxHeight := 0

	for i, pane := range panes {
		lines := strings.Split(pane, "\n")
		paneLines[i] = lines
		if len(lines) > maxHeight {
			maxHeight = len(lines)
		}
	}

	for i := range paneLines {
		for len(paneLines[i]) < maxHeight {
			paneLines[i] = append(paneLines[i], "")
		}
	}

	var result []string
	for lineIdx := 0; lineIdx < maxHeight; lineIdx++ {
		var lineParts []string
		for paneIdx := range paneLines {
			line := paneLines[paneIdx][lineIdx]
			if w := lipgloss.Width(line); w < widths[paneIdx] {
				line += strings.Repeat(" ", widths[paneIdx]-w)
			}
			lineParts = append(lineParts, line)
		}
		result = append(result, strings.Join(lineParts, sep))
	}

	return strings.Join(result, "\n")
}

// paneHeader draws a "─ title ───" rule of width cells
func paneHeader(title string, width int, focused bool) string {
	corner := "├"
	if focused {
		corner = "┣"
	}

	line := corner + "─" + title + "─"
	if fill := width - lipgloss.Width(line); fill > 0 {
		line += strings.Repeat("─", fill)
	}
	return truncate(line, width)
}
