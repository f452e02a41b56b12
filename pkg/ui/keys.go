package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap lists every navigation binding
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	SwitchFocus key.Binding
	EditEmail   key.Binding
	EditDate    key.Binding
	EditPath    key.Binding
	Reread      key.Binding
	Follow      key.Binding
	Help        key.Binding
	Quit        key.Binding
	Exit        key.Binding
	Interrupt   key.Binding
}

// DefaultKeyMap returns the function-key layout, adding j/k in vim mode
func DefaultKeyMap(vimMode bool) KeyMap {
	up := []string{"up"}
	down := []string{"down"}
	upHelp, downHelp := "↑", "↓"
	if vimMode {
		up = append(up, "k")
		down = append(down, "j")
		upHelp, downHelp = "↑/k", "↓/j"
	}

	return KeyMap{
		Up:          key.NewBinding(key.WithKeys(up...), key.WithHelp(upHelp, "previous item (previous ID at the top)")),
		Down:        key.NewBinding(key.WithKeys(down...), key.WithHelp(downHelp, "next item (next ID at the bottom)")),
		SwitchFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch between IDs and lines")),
		EditEmail:   key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "e-mail")),
		EditDate:    key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "date")),
		Reread:      key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "reread")),
		EditPath:    key.NewBinding(key.WithKeys("f9"), key.WithHelp("F9", "log file")),
		Exit:        key.NewBinding(key.WithKeys("f10"), key.WithHelp("F10", "exit")),
		Follow:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow the log")),
		Help:        key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit (asks to confirm)")),
		Interrupt:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "interrupt")),
	}
}

// ShortHelp is the bindings shown in the key hint row
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.EditEmail, k.EditDate, k.Reread, k.EditPath, k.Exit, k.Help}
}

// HelpRows groups bindings for the help overlay
func (k KeyMap) HelpRows() [][3]string {
	groups := []struct {
		name     string
		bindings []key.Binding
	}{
		{"Nav", []key.Binding{k.Up, k.Down, k.SwitchFocus}},
		{"Filter", []key.Binding{k.EditEmail, k.EditDate, k.EditPath}},
		{"Log", []key.Binding{k.Reread, k.Follow}},
		{"Other", []key.Binding{k.Help, k.Quit, k.Exit, k.Interrupt}},
	}

	var rows [][3]string
	for _, g := range groups {
		for _, b := range g.bindings {
			h := b.Help()
			desc := h.Desc
			switch desc {
			case "e-mail", "date", "log file":
				desc = "edit the " + desc + " filter"
			case "reread":
				desc = "reread the log with the current filters"
			case "exit":
				desc = "exit immediately"
			}
			rows = append(rows, [3]string{g.name, h.Key, desc})
		}
	}
	return rows
}
