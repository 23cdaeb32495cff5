package models

import "time"

type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
	DayTypeCustom  DayType = "custom"
)

// RoutineTemplate is a reusable set of time-blocked default tasks. Global
// templates have no owner and are visible to every user.
type RoutineTemplate struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	Name      string          `json:"name"`
	DayType   DayType         `json:"day_type"`
	IsGlobal  bool            `json:"is_global"`
	Blocks    []TemplateBlock `json:"blocks"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type TemplateBlock struct {
	ID           string         `json:"id"`
	TemplateID   string         `json:"template_id"`
	TimeBlock    TimeBlock      `json:"time_block"`
	DefaultTasks []TemplateTask `json:"default_tasks"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TemplateTask is one default task inside a template block. Stored as JSON in
// the template_blocks row.
type TemplateTask struct {
	Title     string       `json:"title"`
	Category  TaskCategory `json:"category"`
	EffortMin int          `json:"effort,omitempty"`
	StartTime string       `json:"start_time,omitempty"`
	EndTime   string       `json:"end_time,omitempty"`
}
