package query

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/user/maillog-explorer/pkg/models"
)

// Engine turns a Filter into the ordered set of matching transaction IDs and
// fetches the lines of one transaction
type Engine struct {
	backend   Backend
	marker    string
	idPattern *regexp.Regexp
	logger    *slog.Logger
	now       func() time.Time
}

// NewEngine creates an engine. idPattern must contain a capture group
// holding the ID.
func NewEngine(backend Backend, marker, idPattern string, logger *slog.Logger) (*Engine, error) {
	re, err := regexp.Compile(idPattern)
	if err != nil {
		return nil, fmt.Errorf("compile id pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("id pattern %q has no capture group", idPattern)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		backend:   backend,
		marker:    marker,
		idPattern: re,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Backend returns the injected search backend
func (e *Engine) Backend() Backend {
	return e.backend
}

// Patterns returns the backend patterns Search would run for f
func (e *Engine) Patterns(f models.Filter) []string {
	return NewBuilder(e.marker).
		AddEmail(f.Email).
		AddDate(f.Date, e.now()).
		Build()
}

// Search returns the distinct IDs of every marker line matching f, in the
// order they first appear in the source. The date is normalised first, so an
// out-of-range month or day fails with a *FilterError.
func (e *Engine) Search(ctx context.Context, f models.Filter) (models.QueryResult, error) {
	if err := CheckSource(e.backend, f.SourcePath); err != nil {
		return models.QueryResult{}, err
	}

	if f.Date != nil {
		d, err := NewValidator().NormalizeDate(*f.Date)
		if err != nil {
			return models.QueryResult{}, err
		}
		f = f.WithDate(&d)
	}

	startTime := time.Now()
	patterns := e.Patterns(f)
	lines, err := e.backend.Search(ctx, f.SourcePath, patterns)
	if err != nil {
		return models.QueryResult{}, fmt.Errorf("search %s: %w", f.SourcePath, err)
	}

	ids := e.extractIDs(lines)
	e.logger.Debug("search finished",
		"backend", e.backend.Name(),
		"patterns", patterns,
		"lines", len(lines),
		"ids", len(ids),
		"duration", time.Since(startTime))

	if len(ids) == 0 {
		return models.QueryResult{}, ErrEmptyResult
	}
	return models.QueryResult{IDs: ids, SelectedIndex: 0}, nil
}

// FetchLines returns every line of source containing id, in file order
func (e *Engine) FetchLines(ctx context.Context, source string, id models.CorrelationID) (models.LineGroup, error) {
	if err := CheckSource(e.backend, source); err != nil {
		return models.LineGroup{}, err
	}

	startTime := time.Now()
	lines, err := e.backend.Search(ctx, source, NewBuilder("").AddLiteral(string(id)).Build())
	if err != nil {
		return models.LineGroup{}, fmt.Errorf("fetch %s: %w", id, err)
	}

	group := models.LineGroup{ID: id, Lines: make([]models.LogLine, 0, len(lines))}
	for _, line := range lines {
		group.Lines = append(group.Lines, models.LogLine(line))
	}
	e.logger.Debug("fetched lines", "id", id, "lines", len(lines), "duration", time.Since(startTime))
	return group, nil
}

func (e *Engine) extractIDs(lines []string) []models.CorrelationID {
	seen := make(map[models.CorrelationID]bool)
	var ids []models.CorrelationID
	for _, line := range lines {
		m := e.idPattern.FindStringSubmatch(line)
		if m == nil || m[1] == "" {
			continue
		}
		id := models.CorrelationID(m[1])
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
