package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbletea"
	"github.com/user/maillog-explorer/pkg/config"
	"github.com/user/maillog-explorer/pkg/models"
	"github.com/user/maillog-explorer/pkg/query"
)

// ErrInterrupted ends the session on ctrl+c
var ErrInterrupted = errors.New("unhandled interrupt")

// App is the navigation controller: two paginated lists, the filters, and
// at most one editing session or modal at a time
type App struct {
	engine *query.Engine
	logger *slog.Logger
	keys   KeyMap
	rc     *RenderContext
	limits LayoutLimits
	layout Layout
	ready  bool

	focus           models.Focus
	idsList         *PaginatedList[models.CorrelationID]
	linesList       *PaginatedList[models.LogLine]
	filters         *FilterState
	result          models.QueryResult
	activeIDOrdinal int
	totalIDCount    int

	editor   *TextEntryField
	modal    *Notice
	banner   string
	help     *HelpOverlay
	follower *Follower

	searchRequestID uint64 // detects stale search results
	fetchRequestID  uint64 // detects stale line fetches
	cancelSearch    context.CancelFunc
	cancelFetch     context.CancelFunc
	searching       bool
	loadingLines    bool

	err error
	now func() time.Time
}

type searchResultMsg struct {
	requestID uint64
	filter    models.Filter
	result    models.QueryResult
	lines     models.LineGroup
	follow    bool
	err       error
}

type linesResultMsg struct {
	requestID uint64
	ordinal   int
	group     models.LineGroup
	atEnd     bool
	err       error
}

// NewApp creates the controller with the mandatory e-mail prompt open
func NewApp(engine *query.Engine, cfg config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	keys := DefaultKeyMap(cfg.VimMode)
	a := &App{
		engine: engine,
		logger: logger,
		keys:   keys,
		rc:     NewRenderContext(),
		limits: LayoutLimits{
			MinWidth:    cfg.MinWidth,
			MinHeight:   cfg.MinHeight,
			IDPaneWidth: cfg.IDPaneWidth,
		},
		focus:    models.FocusIDs,
		filters:  NewFilterState(cfg.LogPath),
		help:     NewHelpOverlay(keys),
		follower: NewFollower(cfg.FollowInterval()),
		now:      time.Now,
	}
	a.idsList = NewPaginatedList(0, max(1, cfg.IDPaneWidth), 0, func(id models.CorrelationID) string {
		return string(id)
	})
	a.linesList = NewPaginatedList(0, 1, 1, func(line models.LogLine) string {
		return string(line)
	})
	a.editor = NewTextEntryField(models.FieldEmail, "", false, a.filters.Validator(models.FieldEmail))
	return a
}

// Init focuses the initial e-mail prompt
func (a *App) Init() tea.Cmd {
	return a.editor.Focus()
}

// Update handles events and state mutations
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if err := a.relayout(msg.Width, msg.Height); err != nil {
			a.err = err
			a.cancelPending()
			return a, tea.Quit
		}
		return a, nil

	case searchResultMsg:
		return a.handleSearchResult(msg)

	case linesResultMsg:
		return a.handleLinesResult(msg)

	case followTickMsg:
		if !a.follower.Accept(msg) {
			return a, nil
		}
		if a.searching || a.editor != nil || a.filters.Current().Email == "" {
			return a, a.follower.Next()
		}
		return a, tea.Batch(a.reread(true), a.follower.Next())

	case tea.KeyMsg:
		return a.handleKeyPress(msg)
	}

	return a, nil
}

// relayout is the single geometry path, used for the first size and every
// resize. Lists keep their items and selection, an editor keeps its text.
func (a *App) relayout(width, height int) error {
	layout, err := ComputeLayout(width, height, a.limits)
	if err != nil {
		return err
	}
	a.layout = layout
	a.rc.Resize(width, height)
	a.idsList.Resize(layout.ListHeight, layout.IDPaneWidth)
	a.linesList.Resize(layout.ListHeight, layout.LinesPaneWidth)
	if a.editor != nil {
		a.editor.Resize(layout.EditorWidth)
	}
	a.ready = true
	return nil
}

func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Interrupt) {
		a.err = ErrInterrupted
		a.cancelPending()
		return a, tea.Quit
	}

	if a.modal != nil {
		n := a.modal
		a.modal = nil
		if n.Kind == NoticeConfirmQuit && key.Matches(msg, a.keys.Quit) {
			a.cancelPending()
			return a, tea.Quit
		}
		return a, nil
	}

	if a.help.IsVisible() {
		a.help.Hide()
		return a, nil
	}

	if a.editor != nil {
		return a.handleEditorKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		return a, a.move(-1)
	case key.Matches(msg, a.keys.Down):
		return a, a.move(1)
	case key.Matches(msg, a.keys.SwitchFocus):
		if a.focus == models.FocusIDs {
			a.focus = models.FocusLines
		} else {
			a.focus = models.FocusIDs
		}
	case key.Matches(msg, a.keys.EditEmail):
		return a, a.openEditor(models.FieldEmail, true)
	case key.Matches(msg, a.keys.EditDate):
		return a, a.openEditor(models.FieldDate, true)
	case key.Matches(msg, a.keys.EditPath):
		return a, a.openEditor(models.FieldSourcePath, true)
	case key.Matches(msg, a.keys.Reread):
		a.banner = ""
		return a, a.reread(false)
	case key.Matches(msg, a.keys.Follow):
		cmd := a.follower.Toggle()
		if a.follower.IsEnabled() {
			a.banner = fmt.Sprintf("Following the log every %s", a.follower.GetInterval())
		} else {
			a.banner = "Follow mode off"
		}
		return a, cmd
	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()
	case key.Matches(msg, a.keys.Quit):
		a.modal = &Notice{Kind: NoticeConfirmQuit, Text: quitPrompt}
	case key.Matches(msg, a.keys.Exit):
		a.cancelPending()
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := a.editor
	outcome, cmd := field.Update(msg)

	switch outcome {
	case OutcomeCancelled:
		a.logger.Debug("edit cancelled", "field", field.Kind(), "restored", field.Initial())
		a.editor = nil
		return a, nil

	case OutcomeShutdownRequested:
		a.editor = nil
		a.cancelPending()
		return a, tea.Quit

	case OutcomeRejected:
		a.logger.Debug("edit rejected", "field", field.Kind(), "error", field.Err())
		// the first e-mail has nothing to revert to, so its prompt stays open
		if field.AllowCancel() {
			a.banner = field.Err().Error()
			field.Revert()
			a.editor = nil
		}
		return a, nil

	case OutcomeCommitted:
		a.editor = nil
		a.logger.Debug("edit committed", "field", field.Kind(), "from", field.Initial(), "to", field.Value())
		return a, a.commit(field)
	}

	return a, cmd
}

// commit turns a committed field into a candidate filter and searches it.
// The filter becomes active only when the search succeeds.
func (a *App) commit(field *TextEntryField) tea.Cmd {
	candidate, err := a.filters.Candidate(field.Kind(), field.Value())
	if err != nil {
		a.banner = err.Error()
		return nil
	}

	if field.Kind() == models.FieldSourcePath {
		if err := query.CheckSource(a.engine.Backend(), candidate.SourcePath); err != nil {
			a.modal = noticeFor(err)
			return nil
		}
	}

	a.banner = ""
	a.logger.Debug("filter committed", "field", field.Kind(), "value", field.Value())
	return a.startSearch(candidate, "", false)
}

func (a *App) openEditor(kind models.FieldKind, allowCancel bool) tea.Cmd {
	return a.openEditorWithText(kind, a.filters.FieldText(kind), allowCancel)
}

func (a *App) openEditorWithText(kind models.FieldKind, text string, allowCancel bool) tea.Cmd {
	a.editor = NewTextEntryField(kind, text, allowCancel, a.filters.Validator(kind))
	if a.ready {
		a.editor.Resize(a.layout.EditorWidth)
	}
	a.banner = ""
	return a.editor.Focus()
}

// reread searches the active filters again, keeping the displayed ID when
// it is still present
func (a *App) reread(follow bool) tea.Cmd {
	keep, _ := a.activeDisplayedID()
	return a.startSearch(a.filters.Current(), keep, follow)
}

func (a *App) startSearch(filter models.Filter, keep models.CorrelationID, follow bool) tea.Cmd {
	a.cancelPending()
	a.searchRequestID++
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelSearch = cancel
	a.searching = true

	requestID := a.searchRequestID
	engine := a.engine
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = searchResultMsg{requestID: requestID, filter: filter, follow: follow, err: fmt.Errorf("search panic: %v", r)}
			}
		}()

		result, err := engine.Search(ctx, filter)
		if err != nil {
			return searchResultMsg{requestID: requestID, filter: filter, follow: follow, err: err}
		}
		for i, id := range result.IDs {
			if id == keep {
				result.SelectedIndex = i
				break
			}
		}
		id, _ := result.Selected()
		group, err := engine.FetchLines(ctx, filter.SourcePath, id)
		return searchResultMsg{
			requestID: requestID,
			filter:    filter,
			result:    result,
			lines:     group,
			follow:    follow,
			err:       err,
		}
	}
}

func (a *App) handleSearchResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if msg.requestID != a.searchRequestID {
		a.logger.Debug("dropping stale search result", "request", msg.requestID, "current", a.searchRequestID)
		return a, nil
	}
	a.searching = false
	if a.cancelSearch != nil {
		a.cancelSearch()
		a.cancelSearch = nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return a, nil
		}
		a.logger.Debug("search failed", "error", msg.err, "follow", msg.follow)
		if msg.follow {
			a.banner = noticeFor(msg.err).Text
		} else {
			a.modal = noticeFor(msg.err)
		}
		if a.filters.Current().Email == "" {
			return a, a.openEditorWithText(models.FieldEmail, msg.filter.Email, false)
		}
		return a, nil
	}

	a.dropFetch()
	before := a.totalIDCount
	prevID, hadPrev := a.activeDisplayedID()
	prevLine := a.linesList.ActiveIndex()
	a.filters.Apply(msg.filter)
	a.result = msg.result
	a.idsList.Refill(msg.result.IDs)
	a.idsList.SelectIndex(msg.result.SelectedIndex)
	a.linesList.Refill(msg.lines.Lines)
	// same transaction re-read: keep the line cursor where it was
	if hadPrev && msg.lines.ID == prevID && prevLine > 0 {
		a.linesList.SelectIndex(min(prevLine, a.linesList.Len()-1))
	}
	a.activeIDOrdinal = msg.result.SelectedIndex
	a.totalIDCount = len(msg.result.IDs)
	if msg.follow {
		a.follower.MarkRefreshed(a.now(), max(0, a.totalIDCount-before))
	}
	a.logger.Debug("search applied", "ids", a.totalIDCount, "lines", a.linesList.Len(), "follow", msg.follow)
	return a, nil
}

// move handles up (-1) and down (+1) on the focused list
func (a *App) move(delta int) tea.Cmd {
	if a.focus == models.FocusLines {
		if a.loadingLines {
			return nil
		}
		if (delta < 0 && a.linesList.MoveUp()) || (delta > 0 && a.linesList.MoveDown()) {
			return nil
		}
		return a.stepID(delta)
	}

	if (delta < 0 && a.idsList.MoveUp()) || (delta > 0 && a.idsList.MoveDown()) {
		return a.fetchActive(false)
	}
	return a.stepID(delta)
}

// stepID selects the adjacent ID, wrapping around the ends of the list
func (a *App) stepID(delta int) tea.Cmd {
	n := a.idsList.Len()
	if n == 0 {
		return nil
	}
	cur := a.idsList.ActiveIndex()
	next := ((cur+delta)%n + n) % n
	if next == cur {
		return nil
	}
	a.idsList.SelectIndex(next)
	return a.fetchActive(delta < 0 && a.focus == models.FocusLines)
}

func (a *App) fetchActive(atEnd bool) tea.Cmd {
	id, ok := a.idsList.ActiveElement()
	if !ok {
		return nil
	}
	if a.cancelFetch != nil {
		a.cancelFetch()
	}
	a.fetchRequestID++
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelFetch = cancel
	a.loadingLines = true

	requestID := a.fetchRequestID
	ordinal := a.idsList.ActiveIndex()
	source := a.filters.Current().SourcePath
	engine := a.engine
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = linesResultMsg{requestID: requestID, ordinal: ordinal, err: fmt.Errorf("fetch panic: %v", r)}
			}
		}()
		group, err := engine.FetchLines(ctx, source, id)
		return linesResultMsg{requestID: requestID, ordinal: ordinal, group: group, atEnd: atEnd, err: err}
	}
}

func (a *App) handleLinesResult(msg linesResultMsg) (tea.Model, tea.Cmd) {
	if msg.requestID != a.fetchRequestID {
		a.logger.Debug("dropping stale lines", "request", msg.requestID, "current", a.fetchRequestID)
		return a, nil
	}
	a.loadingLines = false
	if a.cancelFetch != nil {
		a.cancelFetch()
		a.cancelFetch = nil
	}

	if msg.err != nil {
		a.idsList.SelectIndex(a.activeIDOrdinal)
		if !errors.Is(msg.err, context.Canceled) {
			a.modal = noticeFor(msg.err)
		}
		return a, nil
	}

	a.linesList.Refill(msg.group.Lines)
	if msg.atEnd {
		a.linesList.SelectIndex(a.linesList.Len() - 1)
	}
	a.activeIDOrdinal = msg.ordinal
	return a, nil
}

// dropFetch abandons a pending line fetch and restores the ID whose lines
// are on screen
func (a *App) dropFetch() {
	if a.cancelFetch != nil {
		a.cancelFetch()
		a.cancelFetch = nil
	}
	a.fetchRequestID++
	if a.loadingLines {
		a.loadingLines = false
		a.idsList.SelectIndex(a.activeIDOrdinal)
	}
}

func (a *App) cancelPending() {
	if a.cancelSearch != nil {
		a.cancelSearch()
		a.cancelSearch = nil
	}
	a.dropFetch()
}

// Err is the fatal condition that ended the program, if any
func (a *App) Err() error { return a.err }

// ExitCode is the process status for how the session ended
func (a *App) ExitCode() int {
	if a.err != nil {
		return 1
	}
	return 0
}

func (a *App) Focus() models.Focus         { return a.focus }
func (a *App) ActiveIDOrdinal() int        { return a.activeIDOrdinal }
func (a *App) TotalIDCount() int           { return a.totalIDCount }
func (a *App) Filter() models.Filter       { return a.filters.Current() }
func (a *App) Editor() *TextEntryField     { return a.editor }
func (a *App) Modal() *Notice              { return a.modal }
func (a *App) Banner() string              { return a.banner }
func (a *App) Layout() Layout              { return a.layout }
func (a *App) Result() models.QueryResult  { return a.result }
func (a *App) IDs() []models.CorrelationID { return a.idsList.Items() }
func (a *App) Lines() []models.LogLine     { return a.linesList.Items() }

// ActiveID is the selected ID, which may still be waiting for its lines
func (a *App) ActiveID() models.CorrelationID {
	id, _ := a.idsList.ActiveElement()
	return id
}

// View renders the UI
func (a *App) View() string {
	if a.err != nil {
		return ""
	}
	if !a.ready {
		return "Loading...\n"
	}
	if a.help.IsVisible() {
		return a.help.View(a.rc)
	}

	var sb strings.Builder
	sb.WriteString(a.renderTopBar())
	sb.WriteString("\n")
	sb.WriteString(a.renderPaneHeaders())
	sb.WriteString("\n")
	sb.WriteString(a.renderPanes())
	sb.WriteString("\n")
	sb.WriteString(a.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(a.renderHints())
	output := sb.String()

	switch {
	case a.modal != nil:
		output = a.rc.Overlay(output, a.modal.View(a.rc))
	case a.editor != nil:
		output = a.rc.Overlay(output, a.editor.View(a.rc))
	}
	return output
}
