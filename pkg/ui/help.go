package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay lists the key map
type HelpOverlay struct {
	visible bool
	rows    [][3]string
}

// NewHelpOverlay creates a hidden help overlay for keys
func NewHelpOverlay(keys KeyMap) *HelpOverlay {
	return &HelpOverlay{rows: keys.HelpRows()}
}

// Toggle flips visibility
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// Hide closes the overlay
func (h *HelpOverlay) Hide() {
	h.visible = false
}

// IsVisible returns current visibility state
func (h *HelpOverlay) IsVisible() bool {
	return h.visible
}

// View renders the overlay sized to the terminal
func (h *HelpOverlay) View(rc *RenderContext) string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("MAILLOG EXPLORER HELP"))
	sb.WriteString("\n")
	sb.WriteString(rc.Styles.Muted.Render("any key closes this window"))
	sb.WriteString("\n\n")
	sb.WriteString(h.renderTable(rc))
	return rc.Styles.Help.Render(strings.TrimRight(sb.String(), "\n"))
}

func (h *HelpOverlay) renderTable(rc *RenderContext) string {
	var sb strings.Builder
	contentWidth := max(30, rc.Width-6)

	keyWidth := 8
	actionWidth := contentWidth - keyWidth - 1
	groupWidth := 0
	if contentWidth >= 70 {
		groupWidth = 7
		actionWidth -= groupWidth + 1
	}

	header := fmt.Sprintf("%-*s %s", keyWidth, "KEY", "ACTION")
	if groupWidth > 0 {
		header = fmt.Sprintf("%-*s %s", groupWidth, "GROUP", header)
	}
	sb.WriteString(rc.Styles.Header.Render(header))
	sb.WriteString("\n")
	sb.WriteString(rc.Styles.Separator.Render(strings.Repeat("─", min(contentWidth, 60))))
	sb.WriteString("\n")

	for _, row := range h.rows {
		for i, line := range wrapWords(row[2], actionWidth) {
			groupCell, keyCell := "", ""
			if i == 0 {
				groupCell, keyCell = row[0], row[1]
			}
			text := padRight(keyCell, keyWidth) + " " + line
			if groupWidth > 0 {
				text = padRight(groupCell, groupWidth) + " " + text
			}
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
