package main

import (
	"errors"
	"time"

	"github.com/nimeshab/focusday/internal/auth"
	"github.com/nimeshab/focusday/internal/dateutil"
	"github.com/nimeshab/focusday/internal/habits"
	"github.com/nimeshab/focusday/internal/logger"
	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
	"github.com/nimeshab/focusday/internal/tasks"
	"github.com/nimeshab/focusday/internal/templates"
)

type SeedCmd struct {
	Email    string `help:"Demo account email." default:"demo@focusday.local"`
	Password string `help:"Demo account password." default:"demo-password"`
}

// Run provisions a demo account with a few days of tasks, two habits with an
// ongoing streak, and a weekday routine template.
func (c *SeedCmd) Run(app *appContext) error {
	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	authSvc := auth.NewService(store, app.cfg)
	user, _, err := authSvc.Register(c.Email, c.Password, "Demo User", "")
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			logger.Info("demo account already exists, skipping seed", "email", c.Email)
			return nil
		}
		return err
	}

	taskSvc := tasks.NewService(store, nil)
	habitSvc := habits.NewService(store)
	templateSvc := templates.NewService(store, taskSvc)

	today := time.Now().UTC()
	day := func(offset int) string {
		return dateutil.FormatDay(today.AddDate(0, 0, offset))
	}

	seedTasks := []models.Task{
		{Title: "Sprint planning", Category: models.CategoryWork, Date: day(0), StartTime: "09:30", EndTime: "10:30", TimeBlock: models.BlockWorkHours, EffortMin: 60, Priority: models.PriorityHigh},
		{Title: "Client invoice", Category: models.CategoryFreelancing, Date: day(0), TimeBlock: models.BlockEvening, EffortMin: 30},
		{Title: "Leg day", Category: models.CategoryGym, Date: day(1), StartTime: "07:00", EndTime: "08:00", TimeBlock: models.BlockMorning, EffortMin: 60},
		{Title: "Finish chapter 4", Category: models.CategoryReading, Date: day(1), TimeBlock: models.BlockLateNight, EffortMin: 45},
		{Title: "Grocery run", Category: models.CategoryMisc, Date: day(2), TimeBlock: models.BlockEvening, EffortMin: 30, Priority: models.PriorityLow},
	}
	for _, task := range seedTasks {
		if _, err := taskSvc.Create(user.ID, task); err != nil {
			return err
		}
	}

	// A recurring seed, so the demo shows expanded instances too.
	if _, err := taskSvc.Create(user.ID, models.Task{
		Title:             "Evening review",
		Category:          models.CategoryMisc,
		Date:              day(0),
		TimeBlock:         models.BlockEvening,
		EffortMin:         15,
		Recurrence:        models.RecurDaily,
		RecurrenceEndDate: day(6),
	}); err != nil {
		return err
	}

	reading, err := habitSvc.Create(user.ID, models.Habit{
		Name:        "Read 20 pages",
		Description: "Before bed",
		TargetType:  models.TargetDaily,
		Category:    models.CategoryReading,
	})
	if err != nil {
		return err
	}
	// Three-day streak ending today.
	for offset := -2; offset <= 0; offset++ {
		if _, err := habitSvc.CheckIn(user.ID, reading.ID, models.Checkin{Day: day(offset)}); err != nil {
			return err
		}
	}

	if _, err := habitSvc.Create(user.ID, models.Habit{
		Name:        "Long run",
		TargetType:  models.TargetWeekly,
		TargetValue: 2,
		Category:    models.CategoryGym,
	}); err != nil {
		return err
	}

	if _, err := templateSvc.Create(user.ID, models.RoutineTemplate{
		Name:    "Focused weekday",
		DayType: models.DayTypeWeekday,
		Blocks: []models.TemplateBlock{
			{
				TimeBlock: models.BlockMorning,
				DefaultTasks: []models.TemplateTask{
					{Title: "Plan the day", Category: models.CategoryMisc, EffortMin: 15},
					{Title: "Workout", Category: models.CategoryGym, EffortMin: 60, StartTime: "07:00", EndTime: "08:00"},
				},
			},
			{
				TimeBlock: models.BlockWorkHours,
				DefaultTasks: []models.TemplateTask{
					{Title: "Deep work block", Category: models.CategoryWork, EffortMin: 120, StartTime: "09:00", EndTime: "11:00"},
				},
			},
			{
				TimeBlock: models.BlockEvening,
				DefaultTasks: []models.TemplateTask{
					{Title: "Read", Category: models.CategoryReading, EffortMin: 30},
				},
			},
		},
	}); err != nil {
		return err
	}

	logger.Info("demo data seeded", "email", c.Email, "user_id", user.ID)
	return nil
}
