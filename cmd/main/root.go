package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/user/maillog-explorer/pkg/config"
	"github.com/user/maillog-explorer/pkg/query"
	"github.com/user/maillog-explorer/pkg/ui"
)

const version = "1.0"

var errNotATerminal = errors.New("standard output is not a terminal")

const helpEpilog = `
DEFAULT PATH TO SENDMAIL LOGS:
  ` + config.DefaultLogPath + `

KEYS:
  F2 e-mail   F3 date   F4 reread   F9 log file   F10 exit
  tab switches panes, ? shows every key

EXIT STATUS:
  0   normal exit or confirmed quit
  1   terminal too small, not a terminal, bad configuration,
      or an unhandled interrupt
`

type rootFlags struct {
	logPath  string
	cfgFile  string
	backend  string
	debugLog string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "maillog-explorer",
		Short: "Browse sendmail logs by sender, date and transaction",
		Long: `maillog-explorer searches a sendmail log for one sender address and date,
lists the transaction IDs it finds, and shows every log line of the selected
transaction.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}
	cmd.SetUsageTemplate(cmd.UsageTemplate() + helpEpilog)

	cmd.Flags().StringVarP(&flags.logPath, "path_to_log", "P", config.DefaultLogPath, "path to the sendmail log (plain or gzip)")
	cmd.Flags().StringVar(&flags.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/maillog-explorer/config.toml)")
	cmd.Flags().StringVar(&flags.backend, "backend", config.BackendAuto, "search backend: auto, zgrep or scan")
	cmd.Flags().StringVar(&flags.debugLog, "debug-log", "", "write debug logs to this file")
	return cmd
}

// loadSettings merges the config file with explicitly set flags
func loadSettings(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.LoadConfig(flags.cfgFile)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("path_to_log") {
		cfg.LogPath = flags.logPath
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = flags.backend
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, flags *rootFlags) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errNotATerminal
	}

	cfg, err := loadSettings(cmd, flags)
	if err != nil {
		return err
	}

	limits := ui.LayoutLimits{MinWidth: cfg.MinWidth, MinHeight: cfg.MinHeight, IDPaneWidth: cfg.IDPaneWidth}
	if width, height, err := term.GetSize(fd); err == nil {
		if _, err := ui.ComputeLayout(width, height, limits); err != nil {
			return err
		}
	}

	logger, closer, err := config.NewLogger(flags.debugLog)
	if err != nil {
		return err
	}
	defer closer.Close()

	backend, err := query.SelectBackend(cfg.Backend, cfg.ZgrepCommand, logger)
	if err != nil {
		return err
	}
	engine, err := query.NewEngine(backend, cfg.Marker, cfg.IDPattern, logger)
	if err != nil {
		return err
	}
	logger.Info("starting", "source", cfg.LogPath, "backend", backend.Name(), "version", version)

	app := ui.NewApp(engine, cfg, logger)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	if err := app.Err(); err != nil {
		logger.Info("exiting", "error", err)
		return err
	}
	return nil
}
