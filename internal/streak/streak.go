// Package streak computes consecutive-day check-in streaks for habits.
package streak

import (
	"sort"
	"time"

	"github.com/nimeshab/focusday/internal/dateutil"
	"github.com/nimeshab/focusday/internal/models"
)

// Calculate returns the number of consecutive calendar days with at least one
// check-in, counting backward from the reference date. A streak survives the
// reference day itself being unchecked: a run ending yesterday still counts.
// A most-recent check-in two or more days old breaks the streak entirely.
//
// The input may be unordered and may contain duplicate days; duplicates are
// skipped without affecting the count. The function is pure and never fails:
// records whose dates cannot be parsed are ignored.
func Calculate(checkins []models.Checkin, reference time.Time) int {
	if len(checkins) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(checkins))
	for _, c := range checkins {
		d, err := dateutil.NormalizeDay(c.Day)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}

	// Most recent first.
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	mostRecent := days[0]
	if dateutil.DaysBetween(mostRecent, dateutil.Normalize(reference)) > 1 {
		return 0
	}

	streak := 0
	expected := mostRecent
	for _, d := range days {
		switch {
		case d.Equal(expected):
			streak++
			expected = expected.AddDate(0, 0, -1)
		case d.Before(expected):
			// Gap found, streak broken.
			return streak
		default:
			// Duplicate of an already-counted day; skip it.
		}
	}

	return streak
}
