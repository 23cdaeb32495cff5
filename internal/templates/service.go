package templates

import (
	"time"

	"github.com/google/uuid"

	"github.com/nimeshab/focusday/internal/dateutil"
	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
	"github.com/nimeshab/focusday/internal/tasks"
	"github.com/nimeshab/focusday/internal/validation"
)

// Service owns routine templates. Applying a template materializes its
// default tasks onto a concrete date through the tasks service.
type Service struct {
	store storage.Provider
	tasks *tasks.Service
}

func NewService(store storage.Provider, taskSvc *tasks.Service) *Service {
	return &Service{
		store: store,
		tasks: taskSvc,
	}
}

func (s *Service) Create(userID string, tpl models.RoutineTemplate) (models.RoutineTemplate, error) {
	now := time.Now().UTC()
	tpl.ID = uuid.New().String()
	tpl.UserID = userID
	tpl.IsGlobal = false
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	for i := range tpl.Blocks {
		tpl.Blocks[i].ID = uuid.New().String()
		tpl.Blocks[i].TemplateID = tpl.ID
		tpl.Blocks[i].CreatedAt = now
	}

	if err := validation.ValidateTemplate(tpl).Err(); err != nil {
		return models.RoutineTemplate{}, err
	}
	if err := s.store.AddTemplate(tpl); err != nil {
		return models.RoutineTemplate{}, err
	}
	return tpl, nil
}

func (s *Service) Get(userID, id string) (models.RoutineTemplate, error) {
	return s.store.GetTemplate(userID, id)
}

func (s *Service) List(userID string) ([]models.RoutineTemplate, error) {
	return s.store.ListTemplates(userID)
}

func (s *Service) Delete(userID, id string) error {
	return s.store.DeleteTemplate(userID, id)
}

// Apply creates one task per default task in the template, all dated to the
// given day. The whole batch is persisted in a single transaction.
func (s *Service) Apply(userID, templateID, day string) ([]models.Task, error) {
	if !dateutil.ValidDay(day) {
		return nil, validation.NewError("date", "date must be in YYYY-MM-DD format, got %q", day)
	}

	tpl, err := s.store.GetTemplate(userID, templateID)
	if err != nil {
		return nil, err
	}

	var batch []models.Task
	for _, block := range tpl.Blocks {
		for _, def := range block.DefaultTasks {
			batch = append(batch, models.Task{
				Title:     def.Title,
				Category:  def.Category,
				Date:      day,
				StartTime: def.StartTime,
				EndTime:   def.EndTime,
				TimeBlock: block.TimeBlock,
				EffortMin: def.EffortMin,
			})
		}
	}
	if len(batch) == 0 {
		return []models.Task{}, nil
	}

	return s.tasks.BulkCreate(userID, batch)
}
