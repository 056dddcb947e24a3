package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ecommerce-dashboard/internal/dataset"
	"ecommerce-dashboard/internal/models"
)

// AllCountries disables the country restriction.
const AllCountries = "All Countries"

const dateLayout = "2006-01-02"

var (
	ErrInvalidRange    = errors.New("invalid date range")
	ErrIncompleteRange = fmt.Errorf("%w: both start and end dates are required", ErrInvalidRange)
	ErrStartAfterEnd   = fmt.Errorf("%w: start date is after end date", ErrInvalidRange)
)

type Severity string

const (
	SeverityNone    Severity = ""
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SeverityOf reports how a validation failure should be surfaced: an
// incomplete range is a warning, everything else an error.
func SeverityOf(err error) Severity {
	switch {
	case err == nil:
		return SeverityNone
	case errors.Is(err, ErrIncompleteRange):
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Selection is the user's filter state. Start and End are calendar dates,
// both inclusive; nil means the picker has no value.
type Selection struct {
	Start   *time.Time
	End     *time.Time
	Country string
}

// FullSpan returns a selection covering every date in the table.
func FullSpan(table *dataset.Table) Selection {
	var s Selection
	s.Reset(table)
	s.Country = AllCountries
	return s
}

// Reset sets the range back to the table's first and last dates. The
// country is left untouched.
func (s *Selection) Reset(table *dataset.Table) {
	start, end := table.Span()
	s.Start = &start
	s.End = &end
}

// Validate checks the date range without touching any data.
func (s Selection) Validate() error {
	if s.Start == nil || s.End == nil {
		return ErrIncompleteRange
	}
	if dataset.Date(*s.Start).After(dataset.Date(*s.End)) {
		return ErrStartAfterEnd
	}
	return nil
}

func (s Selection) allCountries() bool {
	return s.Country == "" || s.Country == AllCountries
}

// Result is a filtered view over the loaded table.
type Result struct {
	Rows  []models.Transaction
	Start time.Time
	End   time.Time
}

// Apply keeps the rows with start <= ts < end+1 day and, unless every
// country is selected, an exact country match. The table is not modified.
func Apply(table *dataset.Table, sel Selection) (Result, error) {
	if err := sel.Validate(); err != nil {
		return Result{}, err
	}

	start := dataset.Date(*sel.Start)
	end := dataset.Date(*sel.End)
	upper := end.AddDate(0, 0, 1)

	rows := make([]models.Transaction, 0)
	for _, tx := range table.Rows() {
		if tx.InvoiceDate.Before(start) || !tx.InvoiceDate.Before(upper) {
			continue
		}
		if !sel.allCountries() && tx.Country != sel.Country {
			continue
		}
		rows = append(rows, tx)
	}

	return Result{Rows: rows, Start: start, End: end}, nil
}

// ParseDate reads a YYYY-MM-DD control value. Blank input yields nil.
func ParseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidRange, value)
	}
	return &t, nil
}

// FormatDate renders a calendar date the way ParseDate reads it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// NewSelection builds a selection from raw control values.
func NewSelection(start, end, country string) (Selection, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Selection{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Selection{}, err
	}
	if strings.TrimSpace(country) == "" {
		country = AllCountries
	}
	return Selection{Start: s, End: e, Country: country}, nil
}
