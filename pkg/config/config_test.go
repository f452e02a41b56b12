package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		expected interface{}
		actual   interface{}
	}{
		{"LogPath", "./message.log", cfg.LogPath},
		{"Marker", "msgid=", cfg.Marker},
		{"IDPattern", `msgid=(\w+)`, cfg.IDPattern},
		{"Backend", BackendAuto, cfg.Backend},
		{"ZgrepCommand", "zgrep", cfg.ZgrepCommand},
		{"FollowIntervalMs", 2000, cfg.FollowIntervalMs},
		{"VimMode", true, cfg.VimMode},
		{"MinWidth", 50, cfg.MinWidth},
		{"MinHeight", 11, cfg.MinHeight},
		{"IDPaneWidth", 18, cfg.IDPaneWidth},
	}

	for _, tt := range tests {
		if tt.expected != tt.actual {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, tt.actual)
		}
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetConfigDirWithXDGEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir with XDG failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "maillog-explorer")
	if dir != expected {
		t.Errorf("Expected %s, got %s", expected, dir)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFromXDGDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "maillog-explorer")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	data := `
log_path = "/var/log/maillog"
backend = "scan"
vim_mode = false
follow_interval_ms = 5000
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := DefaultConfig()
	want.LogPath = "/var/log/maillog"
	want.Backend = BackendScan
	want.VimMode = false
	want.FollowIntervalMs = 5000

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if cfg.FollowInterval() != 5*time.Second {
		t.Errorf("Expected follow interval 5s, got %v", cfg.FollowInterval())
	}
}

func TestLoadConfigExplicitPathErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad toml", "log_path = ", "decode config"},
		{"no capture group", `id_pattern = "msgid=\\w+"`, "capture group"},
		{"bad regexp", `id_pattern = "msgid=(\\w+"`, "invalid id_pattern"},
		{"unknown backend", `backend = "ripgrep"`, "unknown backend"},
		{"empty marker", `marker = ""`, "marker"},
		{"narrow min_width", "min_width = 18", "min_width"},
		{"min_height within chrome", "min_height = 4", "min_height 4 must exceed 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q should mention %q", err, tt.errPart)
			}
		})
	}
}

func TestFollowIntervalFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FollowIntervalMs = 10
	if cfg.FollowInterval() != 500*time.Millisecond {
		t.Errorf("Expected 500ms floor, got %v", cfg.FollowInterval())
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandPath("~/maillog"); got != filepath.Join(home, "maillog") {
		t.Errorf("expandPath(~/maillog) = %s", got)
	}
	if got := expandPath("./message.log"); got != "./message.log" {
		t.Errorf("relative paths should be untouched, got %s", got)
	}
}

func TestNewLogger(t *testing.T) {
	logger, closer, err := NewLogger("")
	if err != nil || logger == nil {
		t.Fatalf("discard logger: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("closing the discard logger: %v", err)
	}

	path := filepath.Join(t.TempDir(), "debug.log")
	logger, closer, err = NewLogger(path)
	if err != nil {
		t.Fatalf("file logger: %v", err)
	}
	logger.Debug("search finished", "ids", 3)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "search finished") || !strings.Contains(string(data), "ids=3") {
		t.Errorf("debug log missing record: %q", data)
	}
}
