package storage

import (
	"errors"

	"github.com/nimeshab/focusday/internal/models"
)

// ErrNotFound is returned by all backends when the requested record does not
// exist or belongs to a different owner.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when registering an email that already has an
// account.
var ErrDuplicateEmail = errors.New("email already registered")

// TaskFilter narrows ListTasks. Zero-value fields are ignored; StartDay and
// EndDay must be set together.
type TaskFilter struct {
	Day       string
	StartDay  string
	EndDay    string
	Category  models.TaskCategory
	Status    models.TaskStatus
	TimeBlock models.TimeBlock
}

// Provider is the persistence contract shared by the sqlite and postgres
// backends. All reads and writes are scoped to the owning user where the
// signature carries a userID.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Users
	CreateUser(models.User) error
	GetUser(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)

	// Tasks
	AddTask(models.Task) error
	AddTasks([]models.Task) error
	GetTask(userID, id string) (models.Task, error)
	ListTasks(userID string, filter TaskFilter) ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(userID, id string) error

	// Subtasks
	AddSubtask(models.Subtask) error
	GetSubtask(taskID, id string) (models.Subtask, error)
	UpdateSubtask(models.Subtask) error
	DeleteSubtask(taskID, id string) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(userID, id string) (models.Habit, error)
	ListHabits(userID string, activeOnly bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	// DeleteHabit removes the habit and, by cascade, its check-ins.
	DeleteHabit(userID, id string) error

	// Checkins
	// UpsertCheckin inserts the record or, when one already exists for the
	// same (habit, day), overwrites its value and notes.
	UpsertCheckin(models.Checkin) error
	GetCheckin(habitID, day string) (models.Checkin, error)
	// ListCheckins returns the habit's check-ins most recent first,
	// optionally bounded to [startDay, endDay].
	ListCheckins(userID, habitID, startDay, endDay string) ([]models.Checkin, error)

	// Templates
	AddTemplate(models.RoutineTemplate) error
	GetTemplate(userID, id string) (models.RoutineTemplate, error)
	// ListTemplates returns the user's own templates plus global ones.
	ListTemplates(userID string) ([]models.RoutineTemplate, error)
	DeleteTemplate(userID, id string) error
}
