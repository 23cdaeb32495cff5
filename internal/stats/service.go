package stats

import (
	"math"

	"github.com/nimeshab/focusday/internal/dateutil"
	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
	"github.com/nimeshab/focusday/internal/streak"
)

// Service computes read-only aggregates over tasks and habits.
type Service struct {
	store storage.Provider
}

func NewService(store storage.Provider) *Service {
	return &Service{store: store}
}

// CategoryStat aggregates the tasks of a single category.
type CategoryStat struct {
	Count     int `json:"count"`
	Done      int `json:"done"`
	EffortMin int `json:"effort_min"`
}

// WeeklyStats covers the seven days starting at WeekStart.
type WeeklyStats struct {
	WeekStart      string                              `json:"week_start"`
	WeekEnd        string                              `json:"week_end"`
	TotalTasks     int                                 `json:"total_tasks"`
	CompletedTasks int                                 `json:"completed_tasks"`
	CompletionRate float64                             `json:"completion_rate"`
	ByCategory     map[models.TaskCategory]CategoryStat `json:"by_category"`
}

// Weekly aggregates the user's tasks for the week starting on weekStart.
func (s *Service) Weekly(userID, weekStart string) (WeeklyStats, error) {
	start, err := dateutil.ParseDay(weekStart)
	if err != nil {
		return WeeklyStats{}, err
	}
	end := start.AddDate(0, 0, 6)

	tasks, err := s.store.ListTasks(userID, storage.TaskFilter{
		StartDay: dateutil.FormatDay(start),
		EndDay:   dateutil.FormatDay(end),
	})
	if err != nil {
		return WeeklyStats{}, err
	}

	out := WeeklyStats{
		WeekStart:  dateutil.FormatDay(start),
		WeekEnd:    dateutil.FormatDay(end),
		ByCategory: make(map[models.TaskCategory]CategoryStat),
	}
	for _, task := range tasks {
		out.TotalTasks++
		stat := out.ByCategory[task.Category]
		stat.Count++
		stat.EffortMin += task.EffortMin
		if task.Status == models.StatusDone {
			out.CompletedTasks++
			stat.Done++
		}
		out.ByCategory[task.Category] = stat
	}
	out.CompletionRate = rate(out.CompletedTasks, out.TotalTasks)

	return out, nil
}

// MonthlyStats covers one YYYY-MM calendar month.
type MonthlyStats struct {
	Month          string                              `json:"month"`
	TotalTasks     int                                 `json:"total_tasks"`
	CompletedTasks int                                 `json:"completed_tasks"`
	CompletionRate float64                             `json:"completion_rate"`
	ByCategory     map[models.TaskCategory]CategoryStat `json:"by_category"`
	DoneByDay      map[string]int                      `json:"done_by_day"`
	Habits         []HabitSummary                      `json:"habits"`
}

// HabitSummary is the per-habit slice of the monthly report.
type HabitSummary struct {
	HabitID      string `json:"habit_id"`
	Name         string `json:"name"`
	CheckinCount int    `json:"checkin_count"`
}

// Monthly aggregates tasks and habit check-ins for a YYYY-MM month.
func (s *Service) Monthly(userID, month string) (MonthlyStats, error) {
	first, last, err := dateutil.MonthBounds(month)
	if err != nil {
		return MonthlyStats{}, err
	}
	startDay := dateutil.FormatDay(first)
	endDay := dateutil.FormatDay(last)

	tasks, err := s.store.ListTasks(userID, storage.TaskFilter{StartDay: startDay, EndDay: endDay})
	if err != nil {
		return MonthlyStats{}, err
	}

	out := MonthlyStats{
		Month:      month,
		ByCategory: make(map[models.TaskCategory]CategoryStat),
		DoneByDay:  make(map[string]int),
		Habits:     []HabitSummary{},
	}
	for _, task := range tasks {
		out.TotalTasks++
		stat := out.ByCategory[task.Category]
		stat.Count++
		stat.EffortMin += task.EffortMin
		if task.Status == models.StatusDone {
			out.CompletedTasks++
			stat.Done++
			out.DoneByDay[task.Date]++
		}
		out.ByCategory[task.Category] = stat
	}
	out.CompletionRate = rate(out.CompletedTasks, out.TotalTasks)

	habits, err := s.store.ListHabits(userID, false)
	if err != nil {
		return MonthlyStats{}, err
	}
	for _, habit := range habits {
		checkins, err := s.store.ListCheckins(userID, habit.ID, startDay, endDay)
		if err != nil {
			return MonthlyStats{}, err
		}
		out.Habits = append(out.Habits, HabitSummary{
			HabitID:      habit.ID,
			Name:         habit.Name,
			CheckinCount: len(checkins),
		})
	}

	return out, nil
}

// HabitRangeStat aggregates one habit over a date range.
type HabitRangeStat struct {
	HabitID        string            `json:"habit_id"`
	Name           string            `json:"name"`
	TargetType     models.TargetType `json:"target_type"`
	CheckinCount   int               `json:"checkin_count"`
	ExpectedCount  int               `json:"expected_count"`
	CompletionRate float64           `json:"completion_rate"`
	Streak         int               `json:"streak"`
}

// HabitStats covers all active habits over [Start, End].
type HabitStats struct {
	Start  string           `json:"start"`
	End    string           `json:"end"`
	Habits []HabitRangeStat `json:"habits"`
}

// Habits aggregates check-in counts and completion rates for the user's
// active habits over the range. Streaks are measured against the range end.
func (s *Service) Habits(userID, startDay, endDay string) (HabitStats, error) {
	start, err := dateutil.ParseDay(startDay)
	if err != nil {
		return HabitStats{}, err
	}
	end, err := dateutil.ParseDay(endDay)
	if err != nil {
		return HabitStats{}, err
	}
	days := dateutil.DaysBetween(start, end) + 1
	if days < 1 {
		days = 0
	}

	habits, err := s.store.ListHabits(userID, true)
	if err != nil {
		return HabitStats{}, err
	}

	out := HabitStats{Start: startDay, End: endDay, Habits: []HabitRangeStat{}}
	for _, habit := range habits {
		checkins, err := s.store.ListCheckins(userID, habit.ID, startDay, endDay)
		if err != nil {
			return HabitStats{}, err
		}

		expected := expectedCheckins(habit, days)
		out.Habits = append(out.Habits, HabitRangeStat{
			HabitID:        habit.ID,
			Name:           habit.Name,
			TargetType:     habit.TargetType,
			CheckinCount:   len(checkins),
			ExpectedCount:  expected,
			CompletionRate: rate(len(checkins), expected),
			Streak:         streak.Calculate(checkins, end),
		})
	}

	return out, nil
}

// expectedCheckins translates a habit target into the number of check-ins a
// fully kept habit would produce over the range.
func expectedCheckins(habit models.Habit, days int) int {
	if days <= 0 {
		return 0
	}
	switch habit.TargetType {
	case models.TargetDaily:
		return days
	case models.TargetWeekly:
		weeks := (days + 6) / 7
		return weeks * habit.TargetValue
	default:
		return habit.TargetValue
	}
}

// rate returns done/total rounded to two decimals, capped at 1. Zero totals
// yield 0 rather than NaN.
func rate(done, total int) float64 {
	if total == 0 {
		return 0
	}
	r := float64(done) / float64(total)
	if r > 1 {
		r = 1
	}
	return math.Round(r*100) / 100
}
