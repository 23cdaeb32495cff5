package habits

import (
	"time"

	"github.com/google/uuid"

	"github.com/nimeshab/focusday/internal/dateutil"
	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
	"github.com/nimeshab/focusday/internal/streak"
	"github.com/nimeshab/focusday/internal/validation"
)

// Service owns habit lifecycle and check-ins.
type Service struct {
	store storage.Provider
}

func NewService(store storage.Provider) *Service {
	return &Service{store: store}
}

func (s *Service) Create(userID string, habit models.Habit) (models.Habit, error) {
	now := time.Now().UTC()
	habit.ID = uuid.New().String()
	habit.UserID = userID
	habit.Active = true
	habit.CreatedAt = now
	habit.UpdatedAt = now
	if habit.TargetValue == 0 {
		habit.TargetValue = 1
	}

	if err := validation.ValidateHabit(habit).Err(); err != nil {
		return models.Habit{}, err
	}
	if err := s.store.AddHabit(habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (s *Service) Get(userID, id string) (models.Habit, error) {
	return s.store.GetHabit(userID, id)
}

func (s *Service) List(userID string, activeOnly bool) ([]models.Habit, error) {
	return s.store.ListHabits(userID, activeOnly)
}

func (s *Service) Update(userID string, habit models.Habit) (models.Habit, error) {
	existing, err := s.store.GetHabit(userID, habit.ID)
	if err != nil {
		return models.Habit{}, err
	}

	habit.UserID = userID
	habit.CreatedAt = existing.CreatedAt

	if err := validation.ValidateHabit(habit).Err(); err != nil {
		return models.Habit{}, err
	}
	if err := s.store.UpdateHabit(habit); err != nil {
		return models.Habit{}, err
	}
	return s.store.GetHabit(userID, habit.ID)
}

// Delete removes the habit and all of its check-ins.
func (s *Service) Delete(userID, id string) error {
	return s.store.DeleteHabit(userID, id)
}

// CheckIn records that the habit was performed on the given day. A repeat
// check-in for the same day overwrites value and notes instead of erroring.
func (s *Service) CheckIn(userID, habitID string, checkin models.Checkin) (models.Checkin, error) {
	if _, err := s.store.GetHabit(userID, habitID); err != nil {
		return models.Checkin{}, err
	}

	checkin.ID = uuid.New().String()
	checkin.HabitID = habitID
	checkin.UserID = userID
	checkin.CreatedAt = time.Now().UTC()
	if checkin.Value == 0 {
		checkin.Value = 1
	}

	if err := validation.ValidateCheckin(checkin).Err(); err != nil {
		return models.Checkin{}, err
	}
	if err := s.store.UpsertCheckin(checkin); err != nil {
		return models.Checkin{}, err
	}
	return s.store.GetCheckin(habitID, checkin.Day)
}

// CheckinHistory bundles a habit's check-ins with its current streak.
type CheckinHistory struct {
	Checkins []models.Checkin `json:"checkins"`
	Streak   int              `json:"streak"`
}

// GetCheckins returns the habit's check-ins, most recent first, plus the
// current streak measured against today in the owner's timezone.
func (s *Service) GetCheckins(userID, habitID, startDay, endDay string) (CheckinHistory, error) {
	if _, err := s.store.GetHabit(userID, habitID); err != nil {
		return CheckinHistory{}, err
	}

	checkins, err := s.store.ListCheckins(userID, habitID, startDay, endDay)
	if err != nil {
		return CheckinHistory{}, err
	}

	reference := time.Now().UTC()
	if user, err := s.store.GetUser(userID); err == nil {
		if today, err := dateutil.TodayIn(user.Timezone); err == nil {
			reference = today
		}
	}

	return CheckinHistory{
		Checkins: checkins,
		Streak:   streak.Calculate(checkins, reference),
	}, nil
}
