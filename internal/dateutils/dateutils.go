// Package dateutils provides calendar arithmetic and date parsing shared by the
// insights services.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// CommonFormats is a list of standard formats to try when parsing dates
var CommonFormats = []string{
	DateLayoutISO,
	time.RFC3339,
	DateLayoutFull,
	DateLayoutEuropean,
	DateLayoutUS,
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using multiple common formats.
// Returns the parsed time and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims and collapses whitespace in a date string
func CleanDateString(dateStr string) string {
	return whitespacePattern.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// StartOfDay drops the time of day, keeping the location.
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// StartOfWeek returns the Monday of the week containing date.
func StartOfWeek(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return StartOfDay(date).AddDate(0, 0, -offset)
}

// EndOfWeek returns the Sunday of the week containing date.
func EndOfWeek(date time.Time) time.Time {
	return StartOfWeek(date).AddDate(0, 0, 6)
}

// DaysBetween returns the number of calendar days from a to b. It is negative
// when b is before a and ignores the time of day.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// AddDays returns the start of the day n days after date.
func AddDays(date time.Time, n int) time.Time {
	return StartOfDay(date).AddDate(0, 0, n)
}

// CompareDates compares two dates on the calendar day only and returns
// -1, 0 or 1.
func CompareDates(date1, date2 time.Time) int {
	switch d := DaysBetween(date2, date1); {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}
