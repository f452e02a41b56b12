package ui

import (
	"strings"
)

// PaginatedList is a windowed selection over an ordered sequence. Only
// items[windowStart : windowStart+windowSize] are drawn, and pointer is the
// active row inside that window.
type PaginatedList[T any] struct {
	items       []T
	windowStart int
	windowSize  int
	pointer     int
	rowHeight   int
	height      int
	width       int
	indent      int
	render      func(T) string
}

// NewPaginatedList creates an empty list drawn into height rows of width
// cells. indent adds blank rows under every item.
func NewPaginatedList[T any](height, width, indent int, render func(T) string) *PaginatedList[T] {
	pl := &PaginatedList[T]{
		height: height,
		width:  width,
		indent: max(0, indent),
		render: render,
	}
	pl.recompute()
	return pl
}

// Refill replaces the items and resets the window to the top
func (pl *PaginatedList[T]) Refill(items []T) {
	pl.items = items
	pl.windowStart = 0
	pl.pointer = 0
	pl.recompute()
}

// Resize re-derives the window for new dimensions, keeping the items and the
// active item.
func (pl *PaginatedList[T]) Resize(height, width int) {
	active := pl.ActiveIndex()
	pl.height = height
	pl.width = width
	pl.recompute()
	if active >= 0 {
		pl.SelectIndex(active)
	}
}

func (pl *PaginatedList[T]) recompute() {
	pl.rowHeight = 1 + pl.indent
	for _, item := range pl.items {
		pl.rowHeight = max(pl.rowHeight, itemHeight(pl.text(item), pl.width)+pl.indent)
	}
	pl.windowSize = max(1, pl.height/pl.rowHeight)
}

func (pl *PaginatedList[T]) text(item T) string {
	return sanitizeLine(pl.render(item))
}

func (pl *PaginatedList[T]) visibleCount() int {
	return min(pl.windowSize, len(pl.items)-pl.windowStart)
}

// MoveUp moves the selection up one item, scrolling the window when the
// pointer is on its first row. It returns false at the top of the list.
func (pl *PaginatedList[T]) MoveUp() bool {
	if len(pl.items) == 0 || pl.ActiveIndex() == 0 {
		return false
	}
	if pl.pointer > 0 {
		pl.pointer--
	} else {
		pl.windowStart--
	}
	return true
}

// MoveDown moves the selection down one item, scrolling the window when the
// pointer is on its last row. It returns false at the bottom of the list.
func (pl *PaginatedList[T]) MoveDown() bool {
	if len(pl.items) == 0 || pl.ActiveIndex() == len(pl.items)-1 {
		return false
	}
	if pl.pointer < pl.visibleCount()-1 {
		pl.pointer++
	} else {
		pl.windowStart++
	}
	return true
}

// SelectIndex makes the item at absolute index i active, moving the window
// only as far as needed
func (pl *PaginatedList[T]) SelectIndex(i int) bool {
	if i < 0 || i >= len(pl.items) {
		return false
	}
	switch {
	case i < pl.windowStart:
		pl.windowStart = i
	case i >= pl.windowStart+pl.windowSize:
		pl.windowStart = i - pl.windowSize + 1
	}
	pl.pointer = i - pl.windowStart
	return true
}

// ActiveElement returns the item under the pointer
func (pl *PaginatedList[T]) ActiveElement() (T, bool) {
	var zero T
	if len(pl.items) == 0 {
		return zero, false
	}
	return pl.items[pl.windowStart+pl.pointer], true
}

// ActiveIndex returns the absolute index of the active item, or -1
func (pl *PaginatedList[T]) ActiveIndex() int {
	if len(pl.items) == 0 {
		return -1
	}
	return pl.windowStart + pl.pointer
}

func (pl *PaginatedList[T]) Len() int         { return len(pl.items) }
func (pl *PaginatedList[T]) Items() []T       { return pl.items }
func (pl *PaginatedList[T]) WindowStart() int { return pl.windowStart }
func (pl *PaginatedList[T]) WindowSize() int  { return pl.windowSize }
func (pl *PaginatedList[T]) Pointer() int     { return pl.pointer }
func (pl *PaginatedList[T]) RowHeight() int   { return pl.rowHeight }

// Visible returns the items inside the window
func (pl *PaginatedList[T]) Visible() []T {
	return pl.items[pl.windowStart : pl.windowStart+pl.visibleCount()]
}

// View draws the window into exactly height rows. The active item is drawn
// with the cursor style only when highlighted.
func (pl *PaginatedList[T]) View(rc *RenderContext, highlighted bool) string {
	rows := make([]string, 0, pl.height)
	for i, item := range pl.Visible() {
		lines := wrapToWidth(pl.text(item), pl.width)
		for len(lines) < pl.rowHeight {
			lines = append(lines, "")
		}
		style := rc.Styles.Row
		if highlighted && i == pl.pointer {
			style = rc.Styles.Cursor
		}
		for j, line := range lines {
			line = padRight(line, pl.width)
			if j < pl.rowHeight-pl.indent {
				line = style.Render(line)
			}
			rows = append(rows, line)
		}
	}
	for len(rows) < pl.height {
		rows = append(rows, strings.Repeat(" ", max(0, pl.width)))
	}
	return strings.Join(rows[:max(0, pl.height)], "\n")
}
