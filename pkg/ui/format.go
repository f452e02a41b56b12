package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

// sanitizeLine makes a raw log line safe to measure and draw
func sanitizeLine(s string) string {
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// wrapToWidth hard-wraps text into rows no wider than width display cells.
// It always returns at least one row.
func wrapToWidth(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var rows []string
	var current strings.Builder
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if used+w > width && used > 0 {
			rows = append(rows, current.String())
			current.Reset()
			used = 0
		}
		current.WriteRune(r)
		used += w
	}
	rows = append(rows, current.String())
	return rows
}

// itemHeight is the number of display rows text occupies at width
func itemHeight(text string, width int) int {
	return len(wrapToWidth(text, width))
}

// truncate shortens s to width display cells with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// padRight fills s with spaces up to width display cells
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func wrapWords(input string, width int) []string {
	if width < 8 {
		return []string{input}
	}
	words := strings.Fields(input)
	if len(words) == 0 {
		return []string{""}
	}
	lines := make([]string, 0, 2)
	current := words[0]
	for _, w := range words[1:] {
		if runewidth.StringWidth(current)+1+runewidth.StringWidth(w) <= width {
			current += " " + w
			continue
		}
		lines = append(lines, current)
		current = w
	}
	lines = append(lines, current)
	return lines
}
