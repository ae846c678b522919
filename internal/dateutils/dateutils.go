// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts used by the legacy export and the output streams
const (
	DateLayoutUS       = "01/02/2006"
	DateLayoutUSFull   = "01/02/2006 15:04:05"
	DateLayoutISO      = "2006-01-02"
	DateLayoutLogStamp = "2006-01-02 15:04:05.000000"
)

// dateTextLength is the length of the MM/DD/YYYY prefix of a legacy date cell.
const dateTextLength = 10

// Window is a closed range of dates considered plausible for a record.
type Window struct {
	Min time.Time
	Max time.Time
}

// DefaultWindow returns the [1980-01-01, 2040-12-31] window.
func DefaultWindow() Window {
	return Window{
		Min: time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC),
		Max: time.Date(2040, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Contains reports whether the date lies inside the window, bounds included.
func (w Window) Contains(date time.Time) bool {
	return !date.Before(w.Min) && !date.After(w.Max)
}

// DateText returns the MM/DD/YYYY portion of a legacy date cell. Access exports
// append a time component ("07/01/2015 00:00:00"), which is cut off.
func DateText(cell string) string {
	cell = strings.TrimSpace(cell)
	if len(cell) > dateTextLength {
		cell = cell[:dateTextLength]
	}
	return strings.TrimSpace(cell)
}

// ParseUS parses the MM/DD/YYYY portion of a legacy date cell.
func ParseUS(cell string) (time.Time, error) {
	text := DateText(cell)
	if text == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.Parse(DateLayoutUS, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", cell)
	}
	return t, nil
}

// ParseISO parses a YYYY-MM-DD date, as used in configuration values.
func ParseISO(text string) (time.Time, error) {
	t, err := time.Parse(DateLayoutISO, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", text)
	}
	return t, nil
}

// FormatUS formats a date as MM/DD/YYYY.
func FormatUS(date time.Time) string {
	return date.Format(DateLayoutUS)
}

// FormatUSFull formats a date as MM/DD/YYYY HH:MM:SS, the layout of the export's date cells.
func FormatUSFull(date time.Time) string {
	return date.Format(DateLayoutUSFull)
}

// NextDay returns the calendar day after date.
func NextDay(date time.Time) time.Time {
	return date.AddDate(0, 0, 1)
}

// CompareDates compares two dates and returns:
//
//	-1 if date1 is before date2
//	 0 if date1 is equal to date2
//	 1 if date1 is after date2
func CompareDates(date1, date2 time.Time) int {
	// Normalize dates to remove time component
	date1 = time.Date(date1.Year(), date1.Month(), date1.Day(), 0, 0, 0, 0, time.UTC)
	date2 = time.Date(date2.Year(), date2.Month(), date2.Day(), 0, 0, 0, 0, time.UTC)

	if date1.Before(date2) {
		return -1
	} else if date1.After(date2) {
		return 1
	} else {
		return 0
	}
}
