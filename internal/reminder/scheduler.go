package reminder

import (
	"sync"
	"time"

	"github.com/nimeshab/focusday/internal/logger"
	"github.com/nimeshab/focusday/internal/models"
)

// NotifyFunc is invoked when a scheduled reminder fires.
type NotifyFunc func(task models.Task)

// Scheduler owns one pending timer per task. Scheduling a task that already
// has a timer replaces it; deleting or completing a task cancels it.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	notify NotifyFunc
}

func New(notify NotifyFunc) *Scheduler {
	if notify == nil {
		notify = func(task models.Task) {
			logger.Info("task reminder", "task_id", task.ID, "title", task.Title, "start_time", task.StartTime)
		}
	}
	return &Scheduler{
		timers: make(map[string]*time.Timer),
		notify: notify,
	}
}

// Schedule arms a reminder for the task at the given moment. Moments in the
// past are ignored.
func (s *Scheduler) Schedule(task models.Task, at time.Time) {
	delay := time.Until(at)
	if delay <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[task.ID]; ok {
		timer.Stop()
	}
	s.timers[task.ID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, task.ID)
		s.mu.Unlock()
		s.notify(task)
	})
}

// Cancel stops the pending reminder for the task, if any.
func (s *Scheduler) Cancel(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[taskID]; ok {
		timer.Stop()
		delete(s.timers, taskID)
	}
}

// CancelAll stops every pending reminder. Called on server shutdown.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the number of armed reminders.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
