package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/user/maillog-explorer/pkg/models"
)

// Outcome is what one keystroke did to an editing session
type Outcome int

const (
	OutcomeEditing Outcome = iota
	OutcomeCommitted
	OutcomeCancelled
	OutcomeShutdownRequested
	OutcomeResizeHandled
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEditing:
		return "editing"
	case OutcomeCommitted:
		return "committed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeShutdownRequested:
		return "shutdown requested"
	case OutcomeResizeHandled:
		return "resize handled"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// TextEntryField is one inline editing session for a filter field.
// Every key is inspected before it reaches the text input.
type TextEntryField struct {
	kind        models.FieldKind
	input       textinput.Model
	initial     string
	allowCancel bool
	validate    func(string) error
	value       string
	err         error
}

// NewTextEntryField opens a session on kind starting from initial.
// validate may be nil.
func NewTextEntryField(kind models.FieldKind, initial string, allowCancel bool, validate func(string) error) *TextEntryField {
	ti := textinput.New()
	ti.Prompt = "> "
	switch kind {
	case models.FieldEmail:
		ti.Placeholder = "user@example.com"
		ti.CharLimit = 254
	case models.FieldDate:
		ti.Placeholder = "day-month, __ or ** for any"
		ti.CharLimit = 5
	case models.FieldSourcePath:
		ti.Placeholder = "/var/log/maillog"
		ti.CharLimit = 4096
	}
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	return &TextEntryField{
		kind:        kind,
		input:       ti,
		initial:     initial,
		allowCancel: allowCancel,
		validate:    validate,
	}
}

// Update applies one key. The returned command drives cursor blinking.
func (f *TextEntryField) Update(msg tea.KeyMsg) (Outcome, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if !f.allowCancel {
			return OutcomeEditing, nil
		}
		return OutcomeCancelled, nil
	case "f10":
		return OutcomeShutdownRequested, nil
	case "enter":
		text := f.input.Value()
		if f.validate != nil {
			if err := f.validate(text); err != nil {
				f.err = err
				return OutcomeRejected, nil
			}
		}
		f.err = nil
		f.value = strings.TrimSpace(text)
		return OutcomeCommitted, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return OutcomeEditing, cmd
}

// Resize fits the input into width cells. Typed text is kept.
func (f *TextEntryField) Resize(width int) Outcome {
	f.input.Width = max(1, width-len(f.input.Prompt)-len(f.Label())-2)
	return OutcomeResizeHandled
}

// Revert restores the text the session started with
func (f *TextEntryField) Revert() {
	f.input.SetValue(f.initial)
	f.input.CursorEnd()
}

// Focus returns the blink command for a freshly shown field
func (f *TextEntryField) Focus() tea.Cmd {
	return f.input.Focus()
}

func (f *TextEntryField) Kind() models.FieldKind { return f.kind }
func (f *TextEntryField) AllowCancel() bool       { return f.allowCancel }
func (f *TextEntryField) Initial() string         { return f.initial }

// Text is the in-progress input
func (f *TextEntryField) Text() string { return f.input.Value() }

// Value is the committed value
func (f *TextEntryField) Value() string { return f.value }

// Err is the last validation failure
func (f *TextEntryField) Err() error { return f.err }

// Label names the field in the editor frame
func (f *TextEntryField) Label() string {
	switch f.kind {
	case models.FieldEmail:
		return "E-mail:"
	case models.FieldDate:
		return "Date (day-month):"
	default:
		return "Log file:"
	}
}

// View draws the editor frame with its error banner
func (f *TextEntryField) View(rc *RenderContext) string {
	var sb strings.Builder
	sb.WriteString(rc.Styles.Header.Render(f.Label()))
	sb.WriteString(" ")
	sb.WriteString(f.input.View())
	if f.err != nil {
		sb.WriteString("\n")
		sb.WriteString(rc.Styles.Banner.Render(f.err.Error()))
	}
	hint := "enter to apply"
	if f.allowCancel {
		hint += ", esc to cancel"
	}
	sb.WriteString("\n")
	sb.WriteString(rc.Styles.Muted.Render(hint))
	return rc.Styles.Editor.Render(sb.String())
}
