package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/user/maillog-explorer/pkg/models"
)

var monthAbbrev = [...]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

const (
	anyMonthPattern = `[A-Z][a-z]{2}`
	anyDayPattern   = `\d{1,2}`
)

// Builder assembles the conjunctive pattern list handed to a Backend.
// Every pattern must match for a line to be selected.
type Builder struct {
	marker   string
	patterns []string
}

// NewBuilder creates a pattern builder. A non-empty marker is always
// appended last by Build.
func NewBuilder(marker string) *Builder {
	return &Builder{
		marker:   marker,
		patterns: []string{},
	}
}

// AddEmail adds the sender address as a literal
func (qb *Builder) AddEmail(email string) *Builder {
	return qb.AddLiteral(strings.TrimSpace(email))
}

// AddLiteral adds a plain substring match
func (qb *Builder) AddLiteral(s string) *Builder {
	if s != "" {
		qb.patterns = append(qb.patterns, regexp.QuoteMeta(s))
	}
	return qb
}

// AddDate adds the syslog date prefix for d. A nil date adds nothing.
func (qb *Builder) AddDate(d *models.DateSpec, now time.Time) *Builder {
	if d != nil {
		qb.patterns = append(qb.patterns, DatePattern(*d, now))
	}
	return qb
}

// Build returns the pattern list
func (qb *Builder) Build() []string {
	out := make([]string, 0, len(qb.patterns)+1)
	out = append(out, qb.patterns...)
	if qb.marker != "" {
		out = append(out, regexp.QuoteMeta(qb.marker))
	}
	return out
}

// FormatDate renders d as "Mon D". When both segments are wildcards the
// current date is substituted as "Mon DD".
func FormatDate(d models.DateSpec, now time.Time) string {
	if d.IsToday() {
		return fmt.Sprintf("%s %02d", monthAbbrev[now.Month()], now.Day())
	}
	month := d.Month
	if n, err := strconv.Atoi(month); err == nil && n >= 1 && n <= 12 {
		month = monthAbbrev[n]
	}
	return month + " " + d.Day
}

// DatePattern is the regular expression form of FormatDate. Syslog pads
// single-digit days with a space, so the separator accepts any run of spaces
// and a leading zero on the day is optional.
func DatePattern(d models.DateSpec, now time.Time) string {
	if d.IsToday() {
		d = models.DateSpec{Month: strconv.Itoa(int(now.Month())), Day: strconv.Itoa(now.Day())}
	}

	month := anyMonthPattern
	if !models.IsWildcard(d.Month) {
		if n, err := strconv.Atoi(d.Month); err == nil && n >= 1 && n <= 12 {
			month = monthAbbrev[n]
		} else {
			month = regexp.QuoteMeta(d.Month)
		}
	}

	day := anyDayPattern
	if !models.IsWildcard(d.Day) {
		day = "0?" + regexp.QuoteMeta(d.Day)
	}

	return month + " +" + day + `\b`
}

// Validator checks operator input for the editable filter fields
type Validator struct{}

// NewValidator creates a filter validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateEmail requires a non-empty address without whitespace
func (v *Validator) ValidateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return &FilterError{Field: "e-mail", Value: email, Rule: "cannot be empty"}
	}
	if strings.ContainsAny(trimmed, " \t") {
		return &FilterError{Field: "e-mail", Value: trimmed, Rule: "must not contain spaces"}
	}
	return nil
}

// ParseDate parses "D-M" input. Empty input clears the date filter and
// returns nil. A missing part becomes a wildcard.
func (v *Validator) ParseDate(input string) (*models.DateSpec, error) {
	input = strings.TrimSpace(input)
	if strings.Trim(input, "_- ") == "" {
		return nil, nil
	}

	day, month, _ := strings.Cut(input, "-")
	d, err := v.NormalizeDate(models.DateSpec{Month: month, Day: day})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ValidateDate reports whether ParseDate would accept input
func (v *Validator) ValidateDate(input string) error {
	_, err := v.ParseDate(input)
	return err
}

// NormalizeDate strips padding from both segments and checks their ranges.
// Day range is not checked against the month.
func (v *Validator) NormalizeDate(d models.DateSpec) (models.DateSpec, error) {
	d.Month = normalizeSegment(d.Month)
	d.Day = normalizeSegment(d.Day)

	if !models.IsWildcard(d.Month) && !inRange(d.Month, 12) {
		return d, &FilterError{Field: "month number", Value: d.Month, Rule: "must be 1-12, __ or **"}
	}
	if !models.IsWildcard(d.Day) && !inRange(d.Day, 31) {
		return d, &FilterError{Field: "day number", Value: d.Day, Rule: "must be 1-31, __ or **"}
	}
	return d, nil
}

// ValidatePath requires a non-empty path
func (v *Validator) ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &FilterError{Field: "log file", Value: path, Rule: "cannot be empty"}
	}
	return nil
}

func normalizeSegment(s string) string {
	s = strings.TrimSpace(s)
	if models.IsWildcard(s) {
		return s
	}
	s = strings.TrimLeft(s, "0")
	s = strings.Trim(s, "_ ")
	if s == "" {
		return models.WildcardUnderscore
	}
	return s
}

func inRange(s string, max int) bool {
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s {
		return false
	}
	return n >= 1 && n <= max
}

// FilterError names a rejected filter value and the rule it broke
type FilterError struct {
	Field string
	Value string
	Rule  string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("Wrong %s `%s`: %s", e.Field, e.Value, e.Rule)
}

func (e *FilterError) Unwrap() error {
	return ErrInvalidFilter
}

// Error types
var (
	ErrInvalidFilter     = fmt.Errorf("invalid filter")
	ErrEmptyResult       = fmt.Errorf("no information was found")
	ErrSourceUnavailable = fmt.Errorf("log source unavailable")
)
