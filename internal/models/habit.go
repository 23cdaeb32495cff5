package models

import "time"

type TargetType string

const (
	TargetDaily  TargetType = "daily"
	TargetWeekly TargetType = "weekly"
	TargetCustom TargetType = "custom"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	TargetType  TargetType   `json:"target_type"`
	TargetValue int          `json:"target_value"`
	Category    TaskCategory `json:"category,omitempty"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Checkin records that a habit was performed on a specific day. At most one
// check-in exists per (habit, day); the storage layer upserts on that key.
type Checkin struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	UserID    string    `json:"user_id"`
	Day       string    `json:"date"` // YYYY-MM-DD format
	Value     int       `json:"value"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
