package models

// Wildcard tokens accepted in place of a month or day number
const (
	WildcardUnderscore = "__"
	WildcardStar       = "**"
)

// IsWildcard reports whether a date segment matches any month or day
func IsWildcard(segment string) bool {
	return segment == WildcardUnderscore || segment == WildcardStar
}

// CorrelationID identifies one mail transaction across all of its log lines
type CorrelationID string

// LogLine is a raw line from the mail log
type LogLine string

// DateSpec is a month/day pair as entered by the operator.
// Month is "1".."12" and Day is "1".."31", either may be a wildcard token.
type DateSpec struct {
	Month string `json:"month"`
	Day   string `json:"day"`
}

// IsToday reports whether both segments are wildcards, which selects the current date
func (d DateSpec) IsToday() bool {
	return IsWildcard(d.Month) && IsWildcard(d.Day)
}

// TodaySpec returns the wildcard pair that resolves to the current date
func TodaySpec() *DateSpec {
	return &DateSpec{Month: WildcardStar, Day: WildcardStar}
}

// Filter is an immutable snapshot of the filters used for one query
type Filter struct {
	Email      string    `json:"email,omitempty"`
	Date       *DateSpec `json:"date,omitempty"`
	SourcePath string    `json:"sourcePath"`
}

// WithEmail returns a copy of f with the email replaced
func (f Filter) WithEmail(email string) Filter {
	f.Email = email
	return f
}

// WithDate returns a copy of f with the date replaced; nil clears the date filter
func (f Filter) WithDate(date *DateSpec) Filter {
	if date != nil {
		d := *date
		date = &d
	}
	f.Date = date
	return f
}

// WithSourcePath returns a copy of f with the source path replaced
func (f Filter) WithSourcePath(path string) Filter {
	f.SourcePath = path
	return f
}

// QueryResult is the deduplicated, first-seen ordered set of IDs for a filter
type QueryResult struct {
	IDs           []CorrelationID
	SelectedIndex int
}

// Selected returns the ID at SelectedIndex
func (qr QueryResult) Selected() (CorrelationID, bool) {
	if qr.SelectedIndex < 0 || qr.SelectedIndex >= len(qr.IDs) {
		return "", false
	}
	return qr.IDs[qr.SelectedIndex], true
}

// LineGroup holds every line of one transaction in original file order
type LineGroup struct {
	ID    CorrelationID
	Lines []LogLine
}

// Focus names the pane receiving navigation keys
type Focus int

const (
	FocusIDs Focus = iota
	FocusLines
)

func (f Focus) String() string {
	switch f {
	case FocusIDs:
		return "ids"
	case FocusLines:
		return "lines"
	default:
		return "unknown"
	}
}

// FieldKind names an editable filter field
type FieldKind int

const (
	FieldEmail FieldKind = iota
	FieldDate
	FieldSourcePath
)

func (k FieldKind) String() string {
	switch k {
	case FieldEmail:
		return "email"
	case FieldDate:
		return "date"
	case FieldSourcePath:
		return "log file"
	default:
		return "unknown"
	}
}
