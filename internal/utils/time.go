package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/ascend/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// TodayInTimezone returns the calendar date (YYYY-MM-DD) of now in the given timezone.
func TodayInTimezone(now time.Time, timezone string) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return now.In(loc).Format(constants.DateFormat), nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b (YYYY-MM-DD).
// It is negative when b precedes a.
func DaysBetween(a, b string) (int, error) {
	ta, err := time.Parse(constants.DateFormat, a)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", a, err)
	}
	tb, err := time.Parse(constants.DateFormat, b)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", b, err)
	}
	// Both are UTC midnights, so the difference is an exact multiple of 24h.
	return int(tb.Sub(ta).Hours() / 24), nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
