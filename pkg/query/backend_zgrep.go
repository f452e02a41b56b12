package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ZgrepBackend shells out to zgrep, which reads plain and compressed logs alike
type ZgrepBackend struct {
	command string
	logger  *slog.Logger
}

// NewZgrepBackend creates a backend running command (normally "zgrep")
func NewZgrepBackend(command string, logger *slog.Logger) *ZgrepBackend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ZgrepBackend{command: command, logger: logger}
}

func (b *ZgrepBackend) Name() string { return ModeZgrep }

func (b *ZgrepBackend) Exists(path string) bool {
	return isRegularFile(path)
}

// Search runs zgrep with one PCRE lookahead per pattern so that all of them
// must match the same line in any order.
func (b *ZgrepBackend) Search(ctx context.Context, source string, patterns []string) ([]string, error) {
	startTime := time.Now()
	args := buildArgs(source, patterns)

	cmd := exec.CommandContext(ctx, b.command, args...)
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// grep exits 1 when nothing matched
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			b.logger.Debug("zgrep matched nothing", "source", source, "duration", time.Since(startTime))
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrSourceUnavailable, b.command, source, err)
	}

	lines := splitLines(string(output))
	b.logger.Debug("zgrep finished",
		"source", source,
		"patterns", len(patterns),
		"lines", len(lines),
		"duration", time.Since(startTime))
	return lines, nil
}

func buildArgs(source string, patterns []string) []string {
	var sb strings.Builder
	for _, p := range patterns {
		sb.WriteString("(?=.*")
		sb.WriteString(p)
		sb.WriteString(")")
	}
	return []string{"-s", "-P", sb.String(), "--", source}
}

func splitLines(output string) []string {
	output = strings.TrimRight(output, "\r\n")
	if output == "" {
		return nil
	}
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
