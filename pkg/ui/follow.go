package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbletea"
)

// Follower re-reads the log on a fixed interval while enabled
type Follower struct {
	enabled     bool
	interval    time.Duration
	lastRefresh time.Time
	generation  int
	newIDsCount int
}

type followTickMsg struct {
	generation int
}

// NewFollower creates a disabled follower
func NewFollower(interval time.Duration) *Follower {
	if interval < 500*time.Millisecond {
		interval = 500 * time.Millisecond
	}
	return &Follower{interval: interval}
}

// Toggle switches follow mode and returns the first tick when enabling.
// Ticks scheduled before a disable are ignored after it.
func (f *Follower) Toggle() tea.Cmd {
	f.enabled = !f.enabled
	f.generation++
	if !f.enabled {
		return nil
	}
	f.newIDsCount = 0
	return f.Next()
}

// Next schedules the following tick
func (f *Follower) Next() tea.Cmd {
	gen := f.generation
	return tea.Tick(f.interval, func(time.Time) tea.Msg {
		return followTickMsg{generation: gen}
	})
}

// Accept reports whether msg belongs to the current follow session
func (f *Follower) Accept(msg followTickMsg) bool {
	return f.enabled && msg.generation == f.generation
}

// MarkRefreshed records a completed re-read that added newIDs IDs
func (f *Follower) MarkRefreshed(now time.Time, newIDs int) {
	f.lastRefresh = now
	f.newIDsCount += newIDs
}

// IsEnabled returns whether follow mode is on
func (f *Follower) IsEnabled() bool {
	return f.enabled
}

// GetInterval returns the re-read period
func (f *Follower) GetInterval() time.Duration {
	return f.interval
}

// Status is the status bar fragment
func (f *Follower) Status() string {
	if !f.enabled {
		return "follow:off"
	}
	if f.newIDsCount > 0 {
		return fmt.Sprintf("follow:%s +%d", f.interval, f.newIDsCount)
	}
	return fmt.Sprintf("follow:%s", f.interval)
}
