// Package recurrence expands recurring task seeds into dated child instances.
package recurrence

import (
	"time"

	"github.com/nimeshab/focusday/internal/dateutil"
	"github.com/nimeshab/focusday/internal/models"
)

// Expand generates the child instances for a recurring seed task, one per
// matching day from the seed's date (exclusive) through the recurrence end
// date (inclusive). Children copy the seed's descriptive fields, reference it
// through ParentTaskID, start out pending, and never recur themselves.
//
// A seed without a pattern or end date, or with an end date before its own
// date, expands to nothing. The result is chronological and deterministic for
// a given seed.
func Expand(seed models.Task) []models.Task {
	if seed.Recurrence == "" || seed.RecurrenceEndDate == "" {
		return nil
	}

	start, err := dateutil.ParseDay(seed.Date)
	if err != nil {
		return nil
	}
	end, err := dateutil.ParseDay(seed.RecurrenceEndDate)
	if err != nil {
		return nil
	}

	var instances []models.Task
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		// The seed date itself already exists as the parent task.
		if d.Equal(start) {
			continue
		}
		if !occursOn(seed.Recurrence, start, d) {
			continue
		}

		child := seed
		child.ID = ""
		child.Date = dateutil.FormatDay(d)
		child.Status = models.StatusPending
		child.Recurrence = ""
		child.RecurrenceEndDate = ""
		child.ParentTaskID = seed.ID
		child.Subtasks = nil
		instances = append(instances, child)
	}

	return instances
}

// occursOn decides whether a pattern anchored at start includes the given day.
func occursOn(pattern models.RecurrencePattern, start, day time.Time) bool {
	switch pattern {
	case models.RecurDaily:
		return true
	case models.RecurWeekdays:
		wd := day.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	case models.RecurWeekends:
		wd := day.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	case models.RecurWeekly:
		return day.Weekday() == start.Weekday()
	case models.RecurMonthly:
		// Same day-of-month as the seed. Months too short to contain it
		// (e.g. the 31st in February) are skipped.
		return day.Day() == start.Day()
	default:
		return false
	}
}
