package ui

import (
	"errors"

	"github.com/user/maillog-explorer/pkg/query"
)

// NoticeKind selects how a modal notice looks and is dismissed
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
	NoticeConfirmQuit
)

// Notice is a modal message dismissed by the next key
type Notice struct {
	Kind NoticeKind
	Text string
}

const quitPrompt = "Do you want to close application? Press ESC once more to exit."

// noticeFor maps a failed query to the modal shown for it
func noticeFor(err error) *Notice {
	switch {
	case errors.Is(err, query.ErrEmptyResult):
		return &Notice{Kind: NoticeInfo, Text: "No information was found."}
	default:
		var se *query.SourceError
		if errors.As(err, &se) {
			return &Notice{Kind: NoticeError, Text: se.Error()}
		}
		return &Notice{Kind: NoticeError, Text: err.Error()}
	}
}

// View renders the notice in a frame
func (n *Notice) View(rc *RenderContext) string {
	text := n.Text
	switch n.Kind {
	case NoticeConfirmQuit:
		text += "\n" + rc.Styles.Muted.Render("any other key to stay")
	default:
		text += "\n" + rc.Styles.Muted.Render("press any key")
	}
	return rc.Box(text, n.Kind == NoticeError)
}
