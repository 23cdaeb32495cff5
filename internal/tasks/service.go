package tasks

import (
	"time"

	"github.com/google/uuid"

	"github.com/nimeshab/focusday/internal/dateutil"
	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/recurrence"
	"github.com/nimeshab/focusday/internal/reminder"
	"github.com/nimeshab/focusday/internal/storage"
	"github.com/nimeshab/focusday/internal/validation"
)

const defaultEffortMin = 30

// Service owns task and subtask lifecycle. Recurring seeds are expanded into
// child instances once, at creation; instances are never regenerated.
type Service struct {
	store     storage.Provider
	reminders *reminder.Scheduler
}

func NewService(store storage.Provider, reminders *reminder.Scheduler) *Service {
	return &Service{
		store:     store,
		reminders: reminders,
	}
}

// CreateResult is returned by Create: the persisted seed plus any generated
// recurrence instances.
type CreateResult struct {
	Task      models.Task   `json:"task"`
	Instances []models.Task `json:"instances,omitempty"`
}

// Create validates and persists the task. When the task carries a recurrence
// pattern, the generated instances are persisted in the same batch.
func (s *Service) Create(userID string, task models.Task) (CreateResult, error) {
	now := time.Now().UTC()
	task.ID = uuid.New().String()
	task.UserID = userID
	task.ParentTaskID = ""
	task.Subtasks = nil
	task.CreatedAt = now
	task.UpdatedAt = now
	applyDefaults(&task)

	if err := validation.ValidateTask(task).Err(); err != nil {
		return CreateResult{}, err
	}

	children := recurrence.Expand(task)
	for i := range children {
		children[i].ID = uuid.New().String()
		children[i].CreatedAt = now
		children[i].UpdatedAt = now
	}

	if err := s.store.AddTasks(append([]models.Task{task}, children...)); err != nil {
		return CreateResult{}, err
	}

	s.scheduleReminder(userID, task)

	return CreateResult{Task: task, Instances: children}, nil
}

// BulkCreate validates and persists a batch of tasks in one transaction.
// Recurrence patterns are not expanded here; the batch is stored as given.
func (s *Service) BulkCreate(userID string, tasks []models.Task) ([]models.Task, error) {
	now := time.Now().UTC()
	for i := range tasks {
		tasks[i].ID = uuid.New().String()
		tasks[i].UserID = userID
		tasks[i].Recurrence = ""
		tasks[i].RecurrenceEndDate = ""
		tasks[i].Subtasks = nil
		tasks[i].CreatedAt = now
		tasks[i].UpdatedAt = now
		applyDefaults(&tasks[i])

		if err := validation.ValidateTask(tasks[i]).Err(); err != nil {
			return nil, err
		}
	}

	if err := s.store.AddTasks(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Service) Get(userID, id string) (models.Task, error) {
	return s.store.GetTask(userID, id)
}

func (s *Service) List(userID string, filter storage.TaskFilter) ([]models.Task, error) {
	return s.store.ListTasks(userID, filter)
}

// Update applies the changes to an existing task. The parent back-reference
// and creation timestamp are immutable.
func (s *Service) Update(userID string, task models.Task) (models.Task, error) {
	existing, err := s.store.GetTask(userID, task.ID)
	if err != nil {
		return models.Task{}, err
	}

	task.UserID = userID
	task.ParentTaskID = existing.ParentTaskID
	task.CreatedAt = existing.CreatedAt
	applyDefaults(&task)

	if err := validation.ValidateTask(task).Err(); err != nil {
		return models.Task{}, err
	}

	if err := s.store.UpdateTask(task); err != nil {
		return models.Task{}, err
	}

	return s.store.GetTask(userID, task.ID)
}

// Delete removes the task and its subtasks. Child instances of a recurring
// seed are independent rows and stay untouched.
func (s *Service) Delete(userID, id string) error {
	if err := s.store.DeleteTask(userID, id); err != nil {
		return err
	}
	if s.reminders != nil {
		s.reminders.Cancel(id)
	}
	return nil
}

// Subtasks

func (s *Service) AddSubtask(userID, taskID string, sub models.Subtask) (models.Subtask, error) {
	// Ownership check before touching the subtask table.
	if _, err := s.store.GetTask(userID, taskID); err != nil {
		return models.Subtask{}, err
	}

	now := time.Now().UTC()
	sub.ID = uuid.New().String()
	sub.TaskID = taskID
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if err := validation.ValidateSubtask(sub).Err(); err != nil {
		return models.Subtask{}, err
	}
	if err := s.store.AddSubtask(sub); err != nil {
		return models.Subtask{}, err
	}
	return sub, nil
}

func (s *Service) UpdateSubtask(userID, taskID string, sub models.Subtask) (models.Subtask, error) {
	if _, err := s.store.GetTask(userID, taskID); err != nil {
		return models.Subtask{}, err
	}

	existing, err := s.store.GetSubtask(taskID, sub.ID)
	if err != nil {
		return models.Subtask{}, err
	}

	sub.TaskID = taskID
	sub.CreatedAt = existing.CreatedAt

	if err := validation.ValidateSubtask(sub).Err(); err != nil {
		return models.Subtask{}, err
	}
	if err := s.store.UpdateSubtask(sub); err != nil {
		return models.Subtask{}, err
	}
	return s.store.GetSubtask(taskID, sub.ID)
}

func (s *Service) DeleteSubtask(userID, taskID, subtaskID string) error {
	if _, err := s.store.GetTask(userID, taskID); err != nil {
		return err
	}
	return s.store.DeleteSubtask(taskID, subtaskID)
}

func applyDefaults(task *models.Task) {
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.EffortMin == 0 {
		task.EffortMin = defaultEffortMin
	}
}

// scheduleReminder arms a start-time reminder in the owner's timezone. Tasks
// without a start time never remind.
func (s *Service) scheduleReminder(userID string, task models.Task) {
	if s.reminders == nil || task.StartTime == "" {
		return
	}

	user, err := s.store.GetUser(userID)
	if err != nil {
		return
	}
	loc, err := dateutil.LoadLocation(user.Timezone)
	if err != nil {
		return
	}
	at, err := dateutil.At(task.Date, task.StartTime, loc)
	if err != nil {
		return
	}
	s.reminders.Schedule(task, at)
}
