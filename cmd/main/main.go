package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/bubbletea"
	"github.com/user/maillog-explorer/pkg/ui"
)

const (
	exitCodeOK    = 0
	exitCodeFatal = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// the UI has restored the terminal by now
		fmt.Println(userMessage(err))
		return exitCodeFatal
	}
	return exitCodeOK
}

// userMessage maps fatal conditions to the text shown after exit
func userMessage(err error) string {
	switch {
	case errors.Is(err, ui.ErrTerminalTooSmall):
		return "Too small terminal window to work in program."
	case errors.Is(err, ui.ErrInterrupted), errors.Is(err, tea.ErrProgramKilled):
		return "Interrupted."
	default:
		return "Error: " + err.Error()
	}
}
