package ui

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/user/maillog-explorer/pkg/config"
	"github.com/user/maillog-explorer/pkg/query"
)

const testSource = "message.log"

var colorProfileMu sync.Mutex

// forceColorProfile pins lipgloss to ANSI output for the duration of a test
func forceColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prev)
		colorProfileMu.Unlock()
	})
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testLog builds a log dated today: five transactions from a@b.com, one
// from c@d.com
func testLog() string {
	stamp := time.Now().Format(time.Stamp)
	var sb strings.Builder
	line := func(pid int, text string) {
		fmt.Fprintf(&sb, "%s mail sm-mta[%d]: %s\n", stamp, pid, text)
	}
	for i := 1; i <= 5; i++ {
		line(100+i, fmt.Sprintf("from=<a@b.com>, size=%d, msgid=ID%d", i*10, i))
	}
	line(200, "from=<c@d.com>, size=7, msgid=ID9")
	for i := 1; i <= 5; i++ {
		line(100+i, fmt.Sprintf("to=<x@y.org>, stat=Sent ID%d", i))
	}
	line(103, "relay=mx.y.org ID3")
	return sb.String()
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.LogPath = testSource
	return cfg
}

func newTestEngine(t *testing.T, backend query.Backend) *query.Engine {
	t.Helper()
	cfg := testConfig()
	engine, err := query.NewEngine(backend, cfg.Marker, cfg.IDPattern, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

// newTestApp returns an app sized to width x height with the e-mail prompt open
func newTestApp(t *testing.T, text string, width, height int) *App {
	t.Helper()
	engine := newTestEngine(t, query.NewScanBackend().WithText(testSource, text))
	app := NewApp(engine, testConfig(), nil)
	app.Update(tea.WindowSizeMsg{Width: width, Height: height})
	if app.Err() != nil {
		t.Fatalf("unexpected layout error: %v", app.Err())
	}
	return app
}

// newSearchedApp returns an app that already searched for a@b.com
func newSearchedApp(t *testing.T) *App {
	t.Helper()
	app := newTestApp(t, testLog(), 100, 24)
	submit(t, app, "a@b.com")
	return app
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runesMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, app *App, msg tea.KeyMsg) tea.Cmd {
	t.Helper()
	_, cmd := app.Update(msg)
	return cmd
}

// deliver runs a search or fetch command synchronously and feeds its
// result back into the app
func deliver(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg := cmd()
	switch msg.(type) {
	case searchResultMsg, linesResultMsg:
	default:
		t.Fatalf("unexpected message %T", msg)
	}
	app.Update(msg)
}

// submit replaces the open editor text with value, commits it and runs the
// resulting search
func submit(t *testing.T, app *App, value string) {
	t.Helper()
	if app.Editor() == nil {
		t.Fatal("expected an open editor")
	}
	for range app.Editor().Text() {
		press(t, app, keyMsg(tea.KeyBackspace))
	}
	press(t, app, runesMsg(value))
	deliver(t, app, press(t, app, keyMsg(tea.KeyEnter)))
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}
