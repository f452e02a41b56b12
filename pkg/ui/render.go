package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds every style the UI draws with
type Styles struct {
	TopBar    lipgloss.Style
	TopInfo   lipgloss.Style
	Header    lipgloss.Style
	Separator lipgloss.Style
	Cursor    lipgloss.Style
	Row       lipgloss.Style
	Muted     lipgloss.Style
	Value     lipgloss.Style
	Banner    lipgloss.Style
	Status    lipgloss.Style
	Modal     lipgloss.Style
	ModalErr  lipgloss.Style
	Editor    lipgloss.Style
	Help      lipgloss.Style
}

// RenderContext is the single drawing handle passed to every component
type RenderContext struct {
	Width  int
	Height int
	Styles Styles
}

// NewRenderContext creates a render context with the default palette
func NewRenderContext() *RenderContext {
	return &RenderContext{
		Width:  80,
		Height: 24,
		Styles: Styles{
			TopBar:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("27")).Padding(0, 1),
			TopInfo:   lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("31")).Padding(0, 1),
			Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
			Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("25")),
			Row:       lipgloss.NewStyle(),
			Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Value:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
			Banner:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			Modal: lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("12")).
				Padding(0, 1),
			ModalErr: lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("9")).
				Padding(0, 1),
			Editor: lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("6")).
				Padding(0, 1),
			Help: lipgloss.NewStyle().
				BorderStyle(lipgloss.DoubleBorder()).
				BorderForeground(lipgloss.Color("12")).
				Padding(0, 1),
		},
	}
}

// Resize records the terminal size
func (rc *RenderContext) Resize(width, height int) {
	rc.Width = width
	rc.Height = height
}

// Overlay draws popup centered over base, line by line
func (rc *RenderContext) Overlay(base, popup string) string {
	baseLines := strings.Split(strings.TrimRight(base, "\n"), "\n")
	for len(baseLines) < rc.Height {
		baseLines = append(baseLines, "")
	}
	popupLines := strings.Split(strings.TrimRight(popup, "\n"), "\n")
	if len(popupLines) == 0 {
		return base
	}

	popupWidth := 0
	for _, line := range popupLines {
		popupWidth = max(popupWidth, lipgloss.Width(line))
	}
	startRow := max(0, (rc.Height-len(popupLines))/2)
	leftPad := max(0, (rc.Width-popupWidth)/2)
	for i, line := range popupLines {
		row := startRow + i
		if row >= len(baseLines) {
			break
		}
		baseLines[row] = strings.Repeat(" ", leftPad) + line
	}
	return strings.Join(baseLines, "\n")
}

// Box renders text inside a modal frame no wider than the terminal
func (rc *RenderContext) Box(text string, isErr bool) string {
	style := rc.Styles.Modal
	if isErr {
		style = rc.Styles.ModalErr
	}
	inner := max(10, rc.Width-8)
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapWords(para, inner)...)
	}
	return style.Render(strings.Join(lines, "\n"))
}
