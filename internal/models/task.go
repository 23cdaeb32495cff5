package models

import "time"

type TaskCategory string

const (
	CategoryWork        TaskCategory = "work"
	CategoryFreelancing TaskCategory = "freelancing"
	CategoryGym         TaskCategory = "gym"
	CategoryReading     TaskCategory = "reading"
	CategoryClass       TaskCategory = "class"
	CategoryRest        TaskCategory = "rest"
	CategoryMisc        TaskCategory = "misc"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

type TimeBlock string

const (
	BlockMorning   TimeBlock = "morning"
	BlockWorkHours TimeBlock = "work-hours"
	BlockEvening   TimeBlock = "evening"
	BlockLateNight TimeBlock = "late-night"
	BlockWeekend   TimeBlock = "weekend"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type RecurrencePattern string

const (
	RecurDaily    RecurrencePattern = "daily"
	RecurWeekly   RecurrencePattern = "weekly"
	RecurMonthly  RecurrencePattern = "monthly"
	RecurWeekdays RecurrencePattern = "weekdays"
	RecurWeekends RecurrencePattern = "weekends"
)

// Task is a single dated to-do item. A task that carries a recurrence pattern
// acts as the seed for generated child instances; children reference the seed
// through ParentTaskID and never recur themselves.
type Task struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	Title             string            `json:"title"`
	Description       string            `json:"description,omitempty"`
	Category          TaskCategory      `json:"category"`
	Date              string            `json:"date"`                 // YYYY-MM-DD format
	StartTime         string            `json:"start_time,omitempty"` // HH:MM format
	EndTime           string            `json:"end_time,omitempty"`   // HH:MM format
	Status            TaskStatus        `json:"status"`
	TimeBlock         TimeBlock         `json:"time_block"`
	EffortMin         int               `json:"effort_min"`
	Priority          TaskPriority      `json:"priority"`
	Recurrence        RecurrencePattern `json:"recurrence_pattern,omitempty"`
	RecurrenceEndDate string            `json:"recurrence_end_date,omitempty"` // YYYY-MM-DD format
	ParentTaskID      string            `json:"parent_task_id,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Subtasks          []Subtask         `json:"subtasks,omitempty"`
}

// Recurs reports whether the task is a recurrence seed.
func (t Task) Recurs() bool {
	return t.Recurrence != ""
}

type Subtask struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
