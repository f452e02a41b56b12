package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/maillog-explorer/pkg/models"
)

const appTitle = "Maillog Explorer"

// renderTopBar shows the title and the active filters
func (a *App) renderTopBar() string {
	f := a.filters.Current()
	email := f.Email
	if email == "" {
		email = "-"
	}
	info := fmt.Sprintf("e-mail: %s  date: %s  file: %s",
		email, a.filters.DateLabel(a.now()), f.SourcePath)

	title := a.rc.Styles.TopBar.Render(appTitle)
	room := a.layout.Width - lipgloss.Width(title) - 2
	if room < 1 {
		return truncate(title, a.layout.Width)
	}
	right := a.rc.Styles.TopInfo.Render(padRight(truncate(info, room), room))
	return title + right
}

// renderPaneHeaders draws the rule above both lists with the ID counter
func (a *App) renderPaneHeaders() string {
	ordinal := 0
	if a.totalIDCount > 0 {
		ordinal = a.idsList.ActiveIndex() + 1
	}
	idTitle := fmt.Sprintf(" IDs %d/%d ", ordinal, a.totalIDCount)
	linesTitle := " Lines "
	if id, ok := a.activeDisplayedID(); ok {
		linesTitle = fmt.Sprintf(" Lines of %s (%d) ", id, a.linesList.Len())
	}

	idHeader := paneHeader(idTitle, a.layout.IDPaneWidth, a.focus == models.FocusIDs)
	linesHeader := paneHeader(linesTitle, a.layout.LinesPaneWidth, a.focus == models.FocusLines)
	return a.rc.Styles.Header.Render(idHeader) +
		a.rc.Styles.Separator.Render("┬") +
		a.rc.Styles.Header.Render(linesHeader)
}

// renderPanes draws the two lists side by side
func (a *App) renderPanes() string {
	height := a.layout.ListHeight

	ids := a.idsList.View(a.rc, a.focus == models.FocusIDs)
	if a.idsList.Len() == 0 {
		msg := "no IDs"
		if a.searching {
			msg = "searching…"
		}
		ids = placeholderBlock(a.rc, msg, a.layout.IDPaneWidth, height)
	}

	var lines string
	switch {
	case a.loadingLines:
		lines = placeholderBlock(a.rc, "loading…", a.layout.LinesPaneWidth, height)
	case a.linesList.Len() == 0:
		lines = placeholderBlock(a.rc, "no lines", a.layout.LinesPaneWidth, height)
	default:
		lines = a.linesList.View(a.rc, a.focus == models.FocusLines)
	}

	return renderHorizontalSplit(
		[]string{ids, lines},
		[]int{a.layout.IDPaneWidth, a.layout.LinesPaneWidth},
		a.rc.Styles.Separator.Render("│"),
	)
}

// renderStatus shows the last banner, or the session state when there is none
func (a *App) renderStatus() string {
	width := a.layout.Width
	if a.banner != "" {
		return a.rc.Styles.Banner.Render(truncate(a.banner, width))
	}

	parts := []string{a.follower.Status(), "backend: " + a.engine.Backend().Name()}
	if a.searching {
		parts = append([]string{"searching…"}, parts...)
	}
	return a.rc.Styles.Status.Render(truncate(strings.Join(parts, "  "), width))
}

// renderHints lists the main function keys
func (a *App) renderHints() string {
	var parts []string
	for _, b := range a.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return a.rc.Styles.Muted.Render(truncate(strings.Join(parts, "  "), a.layout.Width))
}

// activeDisplayedID is the ID whose lines are on screen
func (a *App) activeDisplayedID() (models.CorrelationID, bool) {
	if a.activeIDOrdinal < 0 || a.activeIDOrdinal >= a.idsList.Len() {
		return "", false
	}
	return a.idsList.Items()[a.activeIDOrdinal], true
}

// placeholderBlock fills a pane with a single muted message
func placeholderBlock(rc *RenderContext, msg string, width, height int) string {
	rows := make([]string, max(1, height))
	rows[0] = rc.Styles.Muted.Render(truncate(msg, width))
	return strings.Join(rows, "\n")
}
