package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/maillog-explorer/pkg/models"
	"github.com/user/maillog-explorer/pkg/query"
)

// FilterState holds the filters of the last successful query. It changes
// only through Apply, so a failed query leaves it untouched.
type FilterState struct {
	current   models.Filter
	validator *query.Validator
}

// NewFilterState starts with today's date, no e-mail and sourcePath
func NewFilterState(sourcePath string) *FilterState {
	return &FilterState{
		current:   models.Filter{SourcePath: sourcePath, Date: models.TodaySpec()},
		validator: query.NewValidator(),
	}
}

// Current returns the active filter snapshot
func (fs *FilterState) Current() models.Filter {
	return fs.current.WithDate(fs.current.Date)
}

// Apply replaces the active filter
func (fs *FilterState) Apply(f models.Filter) {
	fs.current = f.WithDate(f.Date)
}

// Validator returns the input check for kind
func (fs *FilterState) Validator(kind models.FieldKind) func(string) error {
	switch kind {
	case models.FieldEmail:
		return fs.validator.ValidateEmail
	case models.FieldDate:
		return fs.validator.ValidateDate
	default:
		return fs.validator.ValidatePath
	}
}

// Candidate builds the filter that committing value to kind would produce
func (fs *FilterState) Candidate(kind models.FieldKind, value string) (models.Filter, error) {
	if err := fs.Validator(kind)(value); err != nil {
		return models.Filter{}, err
	}

	f := fs.Current()
	switch kind {
	case models.FieldEmail:
		return f.WithEmail(strings.TrimSpace(value)), nil
	case models.FieldDate:
		d, err := fs.validator.ParseDate(value)
		if err != nil {
			return models.Filter{}, err
		}
		return f.WithDate(d), nil
	case models.FieldSourcePath:
		return f.WithSourcePath(strings.TrimSpace(value)), nil
	default:
		return models.Filter{}, fmt.Errorf("unknown field %v", kind)
	}
}

// FieldText is the editor text for kind under the active filter
func (fs *FilterState) FieldText(kind models.FieldKind) string {
	switch kind {
	case models.FieldEmail:
		return fs.current.Email
	case models.FieldDate:
		if fs.current.Date == nil {
			return ""
		}
		return fs.current.Date.Day + "-" + fs.current.Date.Month
	default:
		return fs.current.SourcePath
	}
}

// DateLabel renders the date filter for the top bar
func (fs *FilterState) DateLabel(now time.Time) string {
	if fs.current.Date == nil {
		return "__-__"
	}
	return query.FormatDate(*fs.current.Date, now)
}
