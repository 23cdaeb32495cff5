package stats

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
	"github.com/nimeshab/focusday/internal/storage/sqlite"
)

func testSetup(t *testing.T) (*Service, storage.Provider, string) {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Email:        "alice@example.com",
		PasswordHash: "x",
		Name:         "Alice",
		Timezone:     "UTC",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return NewService(store), store, user.ID
}

func addTask(t *testing.T, store storage.Provider, userID, day string, category models.TaskCategory, status models.TaskStatus, effort int) {
	t.Helper()
	now := time.Now().UTC()
	err := store.AddTask(models.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     "task",
		Category:  category,
		Date:      day,
		Status:    status,
		TimeBlock: models.BlockMorning,
		EffortMin: effort,
		Priority:  models.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
}

func addHabit(t *testing.T, store storage.Provider, userID, name string, target models.TargetType, targetValue int) models.Habit {
	t.Helper()
	now := time.Now().UTC()
	habit := models.Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		TargetType:  target,
		TargetValue: targetValue,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return habit
}

func checkIn(t *testing.T, store storage.Provider, userID, habitID, day string) {
	t.Helper()
	err := store.UpsertCheckin(models.Checkin{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		UserID:    userID,
		Day:       day,
		Value:     1,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to upsert checkin: %v", err)
	}
}

func TestWeekly(t *testing.T) {
	svc, store, userID := testSetup(t)

	// Week of Mon 2024-06-10 through Sun 2024-06-16.
	addTask(t, store, userID, "2024-06-10", models.CategoryWork, models.StatusDone, 60)
	addTask(t, store, userID, "2024-06-11", models.CategoryWork, models.StatusPending, 30)
	addTask(t, store, userID, "2024-06-12", models.CategoryGym, models.StatusDone, 45)
	addTask(t, store, userID, "2024-06-16", models.CategoryReading, models.StatusPending, 30)
	// Outside the week.
	addTask(t, store, userID, "2024-06-17", models.CategoryWork, models.StatusDone, 60)

	got, err := svc.Weekly(userID, "2024-06-10")
	if err != nil {
		t.Fatalf("weekly failed: %v", err)
	}

	if got.WeekEnd != "2024-06-16" {
		t.Errorf("expected week end 2024-06-16, got %s", got.WeekEnd)
	}
	if got.TotalTasks != 4 {
		t.Errorf("expected 4 tasks, got %d", got.TotalTasks)
	}
	if got.CompletedTasks != 2 {
		t.Errorf("expected 2 completed, got %d", got.CompletedTasks)
	}
	if got.CompletionRate != 0.5 {
		t.Errorf("expected completion rate 0.5, got %v", got.CompletionRate)
	}

	work := got.ByCategory[models.CategoryWork]
	if work.Count != 2 || work.Done != 1 || work.EffortMin != 90 {
		t.Errorf("unexpected work stats: %+v", work)
	}
	gym := got.ByCategory[models.CategoryGym]
	if gym.Count != 1 || gym.Done != 1 || gym.EffortMin != 45 {
		t.Errorf("unexpected gym stats: %+v", gym)
	}
}

func TestWeeklyEmpty(t *testing.T) {
	svc, _, userID := testSetup(t)

	got, err := svc.Weekly(userID, "2024-06-10")
	if err != nil {
		t.Fatalf("weekly failed: %v", err)
	}
	if got.TotalTasks != 0 || got.CompletionRate != 0 {
		t.Errorf("expected empty week, got %+v", got)
	}
}

func TestWeeklyRejectsBadDate(t *testing.T) {
	svc, _, userID := testSetup(t)

	if _, err := svc.Weekly(userID, "next week"); err == nil {
		t.Error("expected error for malformed week start")
	}
}

func TestWeeklyRoundsRate(t *testing.T) {
	svc, store, userID := testSetup(t)

	addTask(t, store, userID, "2024-06-10", models.CategoryWork, models.StatusDone, 30)
	addTask(t, store, userID, "2024-06-10", models.CategoryWork, models.StatusPending, 30)
	addTask(t, store, userID, "2024-06-10", models.CategoryWork, models.StatusPending, 30)

	got, err := svc.Weekly(userID, "2024-06-10")
	if err != nil {
		t.Fatalf("weekly failed: %v", err)
	}
	if got.CompletionRate != 0.33 {
		t.Errorf("expected rate rounded to 0.33, got %v", got.CompletionRate)
	}
}

func TestMonthly(t *testing.T) {
	svc, store, userID := testSetup(t)

	addTask(t, store, userID, "2024-06-01", models.CategoryWork, models.StatusDone, 60)
	addTask(t, store, userID, "2024-06-01", models.CategoryGym, models.StatusDone, 45)
	addTask(t, store, userID, "2024-06-15", models.CategoryWork, models.StatusPending, 30)
	addTask(t, store, userID, "2024-06-30", models.CategoryWork, models.StatusDone, 30)
	// Next month.
	addTask(t, store, userID, "2024-07-01", models.CategoryWork, models.StatusDone, 30)

	habit := addHabit(t, store, userID, "Read", models.TargetDaily, 1)
	checkIn(t, store, userID, habit.ID, "2024-06-01")
	checkIn(t, store, userID, habit.ID, "2024-06-02")
	checkIn(t, store, userID, habit.ID, "2024-07-02")

	got, err := svc.Monthly(userID, "2024-06")
	if err != nil {
		t.Fatalf("monthly failed: %v", err)
	}

	if got.TotalTasks != 4 || got.CompletedTasks != 3 {
		t.Errorf("expected 4/3 tasks, got %d/%d", got.TotalTasks, got.CompletedTasks)
	}
	if got.CompletionRate != 0.75 {
		t.Errorf("expected rate 0.75, got %v", got.CompletionRate)
	}
	if got.DoneByDay["2024-06-01"] != 2 {
		t.Errorf("expected 2 done on 2024-06-01, got %d", got.DoneByDay["2024-06-01"])
	}
	if got.DoneByDay["2024-06-15"] != 0 {
		t.Errorf("pending tasks must not count, got %d", got.DoneByDay["2024-06-15"])
	}
	if len(got.Habits) != 1 || got.Habits[0].CheckinCount != 2 {
		t.Errorf("expected habit summary with 2 check-ins, got %+v", got.Habits)
	}
}

func TestMonthlyRejectsBadMonth(t *testing.T) {
	svc, _, userID := testSetup(t)

	if _, err := svc.Monthly(userID, "June"); err == nil {
		t.Error("expected error for malformed month")
	}
}

func TestHabitsRange(t *testing.T) {
	svc, store, userID := testSetup(t)

	daily := addHabit(t, store, userID, "Read", models.TargetDaily, 1)
	weekly := addHabit(t, store, userID, "Long run", models.TargetWeekly, 2)

	// Daily habit: 2024-06-08 through 2024-06-10, a 3-day tail of the range.
	checkIn(t, store, userID, daily.ID, "2024-06-08")
	checkIn(t, store, userID, daily.ID, "2024-06-09")
	checkIn(t, store, userID, daily.ID, "2024-06-10")

	checkIn(t, store, userID, weekly.ID, "2024-06-05")

	got, err := svc.Habits(userID, "2024-06-04", "2024-06-10")
	if err != nil {
		t.Fatalf("habit stats failed: %v", err)
	}
	if len(got.Habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(got.Habits))
	}

	byID := make(map[string]HabitRangeStat)
	for _, h := range got.Habits {
		byID[h.HabitID] = h
	}

	d := byID[daily.ID]
	if d.CheckinCount != 3 || d.ExpectedCount != 7 {
		t.Errorf("unexpected daily counts: %+v", d)
	}
	if d.CompletionRate != 0.43 {
		t.Errorf("expected daily rate 0.43, got %v", d.CompletionRate)
	}
	if d.Streak != 3 {
		t.Errorf("expected streak 3 against range end, got %d", d.Streak)
	}

	w := byID[weekly.ID]
	if w.ExpectedCount != 2 {
		t.Errorf("expected weekly expectation 2, got %d", w.ExpectedCount)
	}
	if w.CheckinCount != 1 || w.CompletionRate != 0.5 {
		t.Errorf("unexpected weekly counts: %+v", w)
	}
	if w.Streak != 0 {
		t.Errorf("stale weekly habit must have streak 0, got %d", w.Streak)
	}
}

func TestHabitsIgnoresInactive(t *testing.T) {
	svc, store, userID := testSetup(t)

	habit := addHabit(t, store, userID, "Paused", models.TargetDaily, 1)
	habit.Active = false
	if err := store.UpdateHabit(habit); err != nil {
		t.Fatalf("failed to deactivate habit: %v", err)
	}

	got, err := svc.Habits(userID, "2024-06-04", "2024-06-10")
	if err != nil {
		t.Fatalf("habit stats failed: %v", err)
	}
	if len(got.Habits) != 0 {
		t.Errorf("expected inactive habits to be skipped, got %d", len(got.Habits))
	}
}
