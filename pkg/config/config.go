package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

const appDirName = "maillog-explorer"

// DefaultLogPath is the log source used when neither config nor flags name one
const DefaultLogPath = "./message.log"

// ChromeRows is the number of rows taken by the top bar, pane header, status
// line and key hints
const ChromeRows = 4

// Backend selection values
const (
	BackendAuto  = "auto"
	BackendZgrep = "zgrep"
	BackendScan  = "scan"
)

// Config represents application configuration
type Config struct {
	LogPath          string `toml:"log_path"`
	Marker           string `toml:"marker"`
	IDPattern        string `toml:"id_pattern"`
	Backend          string `toml:"backend"`
	ZgrepCommand     string `toml:"zgrep_command"`
	FollowIntervalMs int    `toml:"follow_interval_ms"`
	VimMode          bool   `toml:"vim_mode"`
	MinWidth         int    `toml:"min_width"`
	MinHeight        int    `toml:"min_height"`
	IDPaneWidth      int    `toml:"id_pane_width"`
}

// DefaultConfig returns default configuration values
func DefaultConfig() Config {
	return Config{
		LogPath:          DefaultLogPath,
		Marker:           "msgid=",
		IDPattern:        `msgid=(\w+)`,
		Backend:          BackendAuto,
		ZgrepCommand:     "zgrep",
		FollowIntervalMs: 2000,
		VimMode:          true,
		MinWidth:         50,
		MinHeight:        11,
		IDPaneWidth:      18,
	}
}

// FollowInterval returns the follow-mode re-read period
func (c Config) FollowInterval() time.Duration {
	if c.FollowIntervalMs < 500 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.FollowIntervalMs) * time.Millisecond
}

// Validate checks values that would otherwise fail deep inside the engine
func (c Config) Validate() error {
	if c.Marker == "" {
		return fmt.Errorf("marker cannot be empty")
	}
	re, err := regexp.Compile(c.IDPattern)
	if err != nil {
		return fmt.Errorf("invalid id_pattern %q: %w", c.IDPattern, err)
	}
	if re.NumSubexp() < 1 {
		return fmt.Errorf("id_pattern %q must contain a capture group", c.IDPattern)
	}
	switch c.Backend {
	case BackendAuto, BackendZgrep, BackendScan:
	default:
		return fmt.Errorf("unknown backend %q (want auto, zgrep or scan)", c.Backend)
	}
	if c.MinWidth <= c.IDPaneWidth {
		return fmt.Errorf("min_width %d must exceed id_pane_width %d", c.MinWidth, c.IDPaneWidth)
	}
	if c.MinHeight <= ChromeRows {
		return fmt.Errorf("min_height %d must exceed %d rows of chrome", c.MinHeight, ChromeRows)
	}
	return nil
}

// GetConfigDir returns the XDG config directory for maillog-explorer
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// LoadConfig loads configuration from path. An empty path means config.toml in
// the config directory; a missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		configDir, err := GetConfigDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(configDir, "config.toml")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.LogPath = expandPath(cfg.LogPath)
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogPath
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// NewLogger returns a debug logger writing to path, or a discarding logger
// when path is empty. The terminal belongs to the UI, so nothing goes to stderr.
func NewLogger(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nopCloser{}, nil
	}

	f, err := os.OpenFile(expandPath(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return logger, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
