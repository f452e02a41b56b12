package query

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// Backend runs a conjunctive line search over a log source
type Backend interface {
	// Search returns every line of source matching all patterns, in file order
	Search(ctx context.Context, source string, patterns []string) ([]string, error)
	// Exists reports whether path names a readable log file
	Exists(path string) bool
	Name() string
}

// Backend modes accepted by SelectBackend
const (
	ModeAuto  = "auto"
	ModeZgrep = "zgrep"
	ModeScan  = "scan"
)

var lookPath = exec.LookPath

// SelectBackend picks the backend once at startup. In auto mode zgrep is used when
// command is on PATH, otherwise lines are scanned in-process.
func SelectBackend(mode, command string, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if command == "" {
		command = "zgrep"
	}

	switch mode {
	case ModeScan:
		return NewScanBackend(), nil
	case ModeZgrep:
		path, err := lookPath(command)
		if err != nil {
			return nil, fmt.Errorf("backend zgrep: %w", err)
		}
		return NewZgrepBackend(path, logger), nil
	case ModeAuto, "":
		if path, err := lookPath(command); err == nil {
			logger.Debug("selected backend", "backend", ModeZgrep, "path", path)
			return NewZgrepBackend(path, logger), nil
		}
		logger.Debug("selected backend", "backend", ModeScan)
		return NewScanBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", mode)
	}
}

// CheckSource reports why path cannot be searched, or nil
func CheckSource(b Backend, path string) error {
	if b.Exists(path) {
		return nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return &SourceError{Path: path, Reason: "is not a log file"}
	}
	return &SourceError{Path: path, Reason: "does not exist"}
}

// SourceError describes an unusable log source
type SourceError struct {
	Path   string
	Reason string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("File `%s` %s.", e.Path, e.Reason)
}

func (e *SourceError) Unwrap() error {
	return ErrSourceUnavailable
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
