// Package dates provides calendar-month helpers for the zero-padded
// string dates ("YYYY-MM-DD") used throughout the expense tables.
package dates

import (
	"fmt"
	"time"
)

const (
	// MonthLayout is the calendar-month format used in budget keys and filters.
	MonthLayout = "2006-01"
	// DayLayout is the economic-date format stored on expenses.
	DayLayout = "2006-01-02"
)

// Range is a half-open date interval [Start, EndExclusive) whose bounds are
// "YYYY-MM-DD" strings. Zero-padded dates compare correctly as strings, so
// the range can be applied lexicographically in SQL.
type Range struct {
	Start        string
	EndExclusive string
}

// CurrentMonth returns the current calendar month as "YYYY-MM".
func CurrentMonth() string {
	return time.Now().Format(MonthLayout)
}

// MonthRange computes the half-open interval covering a calendar month,
// rolling December over into January of the following year.
func MonthRange(month string) (Range, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return Range{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return Range{
		Start:        t.Format(DayLayout),
		EndExclusive: t.AddDate(0, 1, 0).Format(DayLayout),
	}, nil
}

// ValidDay reports whether s is a valid "YYYY-MM-DD" calendar date.
func ValidDay(s string) bool {
	_, err := time.Parse(DayLayout, s)
	return err == nil
}

// ValidMonth reports whether s is a valid "YYYY-MM" calendar month.
func ValidMonth(s string) bool {
	_, err := time.Parse(MonthLayout, s)
	return err == nil
}
