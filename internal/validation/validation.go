package validation

import (
	"fmt"

	"github.com/nimeshab/focusday/internal/dateutil"
	"github.com/nimeshab/focusday/internal/models"
)

// Problem describes a single validation failure on an incoming record.
type Problem struct {
	Field       string
	Description string
}

// Result collects the problems found in one record.
type Result struct {
	Problems []Problem
}

// OK returns true when no problems were found.
func (r Result) OK() bool {
	return len(r.Problems) == 0
}

// Error is a validation failure surfaced to API clients. Handlers map it to
// a 400 response.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Problems[0].Field, e.Problems[0].Description)
}

// NewError builds a single-problem validation error.
func NewError(field, format string, args ...any) *Error {
	return &Error{Problems: []Problem{{
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	}}}
}

// Err returns the result as a single error, or nil when the record is valid.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Problems: r.Problems}
}

func (r *Result) add(field, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	})
}

var validCategories = map[models.TaskCategory]bool{
	models.CategoryWork:        true,
	models.CategoryFreelancing: true,
	models.CategoryGym:         true,
	models.CategoryReading:     true,
	models.CategoryClass:       true,
	models.CategoryRest:        true,
	models.CategoryMisc:        true,
}

var validStatuses = map[models.TaskStatus]bool{
	models.StatusPending:    true,
	models.StatusInProgress: true,
	models.StatusDone:       true,
}

var validTimeBlocks = map[models.TimeBlock]bool{
	models.BlockMorning:   true,
	models.BlockWorkHours: true,
	models.BlockEvening:   true,
	models.BlockLateNight: true,
	models.BlockWeekend:   true,
}

var validPriorities = map[models.TaskPriority]bool{
	models.PriorityLow:    true,
	models.PriorityMedium: true,
	models.PriorityHigh:   true,
}

var validPatterns = map[models.RecurrencePattern]bool{
	models.RecurDaily:    true,
	models.RecurWeekly:   true,
	models.RecurMonthly:  true,
	models.RecurWeekdays: true,
	models.RecurWeekends: true,
}

var validTargetTypes = map[models.TargetType]bool{
	models.TargetDaily:  true,
	models.TargetWeekly: true,
	models.TargetCustom: true,
}

var validDayTypes = map[models.DayType]bool{
	models.DayTypeWeekday: true,
	models.DayTypeWeekend: true,
	models.DayTypeCustom:  true,
}

// ValidateTask checks a task record before it is stored.
func ValidateTask(task models.Task) Result {
	var r Result

	if task.Title == "" {
		r.add("title", "title is required")
	}
	if !validCategories[task.Category] {
		r.add("category", "unknown category %q", task.Category)
	}
	if !dateutil.ValidDay(task.Date) {
		r.add("date", "date must be in YYYY-MM-DD format, got %q", task.Date)
	}
	if task.Status != "" && !validStatuses[task.Status] {
		r.add("status", "unknown status %q", task.Status)
	}
	if !validTimeBlocks[task.TimeBlock] {
		r.add("time_block", "unknown time block %q", task.TimeBlock)
	}
	if task.Priority != "" && !validPriorities[task.Priority] {
		r.add("priority", "unknown priority %q", task.Priority)
	}
	if task.EffortMin < 0 {
		r.add("effort_min", "effort must not be negative")
	}

	if task.StartTime != "" && !dateutil.ValidClock(task.StartTime) {
		r.add("start_time", "start time must be in HH:MM format, got %q", task.StartTime)
	}
	if task.EndTime != "" && !dateutil.ValidClock(task.EndTime) {
		r.add("end_time", "end time must be in HH:MM format, got %q", task.EndTime)
	}
	if dateutil.ValidClock(task.StartTime) && dateutil.ValidClock(task.EndTime) && task.EndTime < task.StartTime {
		r.add("end_time", "end time %s is before start time %s", task.EndTime, task.StartTime)
	}

	validateRecurrence(task, &r)

	return r
}

// validateRecurrence checks the recurrence fields as a unit: a pattern
// requires an end date on or after the seed date, and an end date without a
// pattern is meaningless.
func validateRecurrence(task models.Task, r *Result) {
	if task.Recurrence == "" {
		if task.RecurrenceEndDate != "" {
			r.add("recurrence_end_date", "end date set without a recurrence pattern")
		}
		return
	}

	if !validPatterns[task.Recurrence] {
		r.add("recurrence_pattern", "unknown recurrence pattern %q", task.Recurrence)
	}
	if task.RecurrenceEndDate == "" {
		r.add("recurrence_end_date", "recurring tasks require an end date")
		return
	}
	if !dateutil.ValidDay(task.RecurrenceEndDate) {
		r.add("recurrence_end_date", "end date must be in YYYY-MM-DD format, got %q", task.RecurrenceEndDate)
		return
	}
	if dateutil.ValidDay(task.Date) && task.RecurrenceEndDate < task.Date {
		r.add("recurrence_end_date", "end date %s is before task date %s", task.RecurrenceEndDate, task.Date)
	}
}

// ValidateSubtask checks a subtask record before it is stored.
func ValidateSubtask(sub models.Subtask) Result {
	var r Result
	if sub.Title == "" {
		r.add("title", "title is required")
	}
	if sub.Order < 0 {
		r.add("order", "order must not be negative")
	}
	return r
}

// ValidateHabit checks a habit record before it is stored.
func ValidateHabit(habit models.Habit) Result {
	var r Result
	if habit.Name == "" {
		r.add("name", "name is required")
	}
	if !validTargetTypes[habit.TargetType] {
		r.add("target_type", "unknown target type %q", habit.TargetType)
	}
	if habit.TargetValue < 1 {
		r.add("target_value", "target value must be at least 1")
	}
	if habit.Category != "" && !validCategories[habit.Category] {
		r.add("category", "unknown category %q", habit.Category)
	}
	return r
}

// ValidateCheckin checks a habit check-in before it is stored.
func ValidateCheckin(checkin models.Checkin) Result {
	var r Result
	if !dateutil.ValidDay(checkin.Day) {
		r.add("date", "date must be in YYYY-MM-DD format, got %q", checkin.Day)
	}
	if checkin.Value < 1 {
		r.add("value", "value must be at least 1")
	}
	return r
}

// ValidateTemplate checks a routine template and its blocks.
func ValidateTemplate(tpl models.RoutineTemplate) Result {
	var r Result
	if tpl.Name == "" {
		r.add("name", "name is required")
	}
	if !validDayTypes[tpl.DayType] {
		r.add("day_type", "unknown day type %q", tpl.DayType)
	}
	for i, block := range tpl.Blocks {
		if !validTimeBlocks[block.TimeBlock] {
			r.add(fmt.Sprintf("blocks[%d].time_block", i), "unknown time block %q", block.TimeBlock)
		}
		for j, task := range block.DefaultTasks {
			if task.Title == "" {
				r.add(fmt.Sprintf("blocks[%d].default_tasks[%d].title", i, j), "title is required")
			}
			if !validCategories[task.Category] {
				r.add(fmt.Sprintf("blocks[%d].default_tasks[%d].category", i, j), "unknown category %q", task.Category)
			}
		}
	}
	return r
}
