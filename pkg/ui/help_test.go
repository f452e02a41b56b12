package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/maillog-explorer/pkg/query"
)

func TestDefaultKeyMapVimMode(t *testing.T) {
	tests := []struct {
		name    string
		vimMode bool
		msg     tea.KeyMsg
		binding func(KeyMap) key.Binding
		want    bool
	}{
		{"arrow down", false, keyMsg(tea.KeyDown), func(k KeyMap) key.Binding { return k.Down }, true},
		{"j without vim", false, runesMsg("j"), func(k KeyMap) key.Binding { return k.Down }, false},
		{"j with vim", true, runesMsg("j"), func(k KeyMap) key.Binding { return k.Down }, true},
		{"k with vim", true, runesMsg("k"), func(k KeyMap) key.Binding { return k.Up }, true},
		{"f1 is help", false, keyMsg(tea.KeyF1), func(k KeyMap) key.Binding { return k.Help }, true},
		{"f9 edits path", false, keyMsg(tea.KeyF9), func(k KeyMap) key.Binding { return k.EditPath }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := DefaultKeyMap(tt.vimMode)
			if got := key.Matches(tt.msg, tt.binding(keys)); got != tt.want {
				t.Errorf("Expected match %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHelpOverlay(t *testing.T) {
	h := NewHelpOverlay(DefaultKeyMap(true))
	if h.IsVisible() {
		t.Fatal("help should start hidden")
	}
	h.Toggle()
	if !h.IsVisible() {
		t.Fatal("Toggle should show help")
	}

	rc := NewRenderContext()
	rc.Resize(100, 30)
	view := stripANSI(h.View(rc))
	for _, want := range []string{"MAILLOG EXPLORER HELP", "GROUP", "F2", "edit the e-mail filter", "↓/j", "ctrl+c"} {
		if !strings.Contains(view, want) {
			t.Errorf("help view missing %q", want)
		}
	}

	h.Hide()
	if h.IsVisible() {
		t.Error("Hide should close help")
	}
}

func TestHelpOverlayNarrowDropsGroupColumn(t *testing.T) {
	rc := NewRenderContext()
	rc.Resize(50, 20)
	view := stripANSI(NewHelpOverlay(DefaultKeyMap(false)).View(rc))
	if strings.Contains(view, "GROUP") {
		t.Errorf("narrow help should not show the group column:\n%s", view)
	}
}

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind NoticeKind
		wantText string
	}{
		{"empty result", fmt.Errorf("search: %w", query.ErrEmptyResult), NoticeInfo, "No information was found."},
		{"missing source", &query.SourceError{Path: "x.log", Reason: "does not exist"}, NoticeError, "File `x.log` does not exist."},
		{"wrapped source", fmt.Errorf("fetch: %w", &query.SourceError{Path: "d", Reason: "is not a log file"}), NoticeError, "File `d` is not a log file."},
		{"other", errors.New("boom"), NoticeError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := noticeFor(tt.err)
			if n.Kind != tt.wantKind || n.Text != tt.wantText {
				t.Errorf("Expected %v %q, got %v %q", tt.wantKind, tt.wantText, n.Kind, n.Text)
			}
		})
	}
}

func TestNoticeView(t *testing.T) {
	rc := NewRenderContext()
	confirm := stripANSI((&Notice{Kind: NoticeConfirmQuit, Text: quitPrompt}).View(rc))
	if !strings.Contains(confirm, "Press ESC once more") || !strings.Contains(confirm, "any other key to stay") {
		t.Errorf("unexpected confirmation:\n%s", confirm)
	}
	info := stripANSI((&Notice{Kind: NoticeInfo, Text: "hello"}).View(rc))
	if !strings.Contains(info, "press any key") {
		t.Errorf("unexpected notice:\n%s", info)
	}
}
