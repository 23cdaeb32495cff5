package dateutil

import (
	"fmt"
	"time"
)

const (
	// DayFormat is the canonical calendar-date format used across the API
	// and storage layers.
	DayFormat = "2006-01-02"
	// ClockFormat is the canonical time-of-day format (24h).
	ClockFormat = "15:04"
)

// ParseDay parses a YYYY-MM-DD string into a midnight UTC time.Time.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	return t, nil
}

// FormatDay renders a time as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// Normalize strips the time-of-day component, leaving midnight UTC of the
// same calendar date. Stored check-in dates may arrive as full timestamps;
// only the date part participates in day comparisons.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeDay parses a date string that may be either a plain calendar date
// or a full RFC 3339 timestamp, normalized to midnight UTC.
func NormalizeDay(day string) (time.Time, error) {
	if t, err := time.Parse(DayFormat, day); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	return Normalize(t), nil
}

// DaysBetween returns the whole-day difference b-a between two normalized
// dates. Positive when b is after a.
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// TodayIn returns the current calendar date in the given IANA timezone,
// normalized to midnight UTC. An empty or "Local" name uses the system zone.
func TodayIn(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(time.Now().In(loc)), nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// At combines a calendar date and a clock time into a moment in the given
// location.
func At(day, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayFormat+" "+ClockFormat, day+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q %q: %w", day, clock, err)
	}
	return t, nil
}

// ValidDay reports whether the string is a well-formed YYYY-MM-DD date.
func ValidDay(day string) bool {
	_, err := time.Parse(DayFormat, day)
	return err == nil
}

// ValidClock reports whether the string is a well-formed HH:MM time.
func ValidClock(clock string) bool {
	_, err := time.Parse(ClockFormat, clock)
	return err == nil
}

// ValidTimezone checks if the timezone name is valid.
func ValidTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// MonthBounds returns the first and last day of a YYYY-MM month.
func MonthBounds(month string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}
