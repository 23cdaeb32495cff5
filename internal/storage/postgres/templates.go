package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
)

func (s *Store) AddTemplate(tpl models.RoutineTemplate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO routine_templates (id, user_id, name, day_type, is_global, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tpl.ID, tpl.UserID, tpl.Name, string(tpl.DayType), tpl.IsGlobal,
		tpl.CreatedAt.Format(time.RFC3339), tpl.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, block := range tpl.Blocks {
		tasksJSON, err := json.Marshal(block.DefaultTasks)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to encode default tasks for block %s: %w", block.ID, err)
		}
		_, err = tx.Exec(`
			INSERT INTO template_blocks (id, template_id, time_block, default_tasks, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			block.ID, tpl.ID, string(block.TimeBlock), string(tasksJSON),
			block.CreatedAt.Format(time.RFC3339))
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetTemplate(userID, id string) (models.RoutineTemplate, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, name, day_type, is_global, created_at, updated_at
		FROM routine_templates WHERE id = $1 AND (user_id = $2 OR is_global = TRUE)`, id, userID)

	tpl, err := scanTemplate(row)
	if err != nil {
		return models.RoutineTemplate{}, err
	}

	blocks, err := s.listBlocks(tpl.ID)
	if err != nil {
		return models.RoutineTemplate{}, err
	}
	tpl.Blocks = blocks

	return tpl, nil
}

func (s *Store) ListTemplates(userID string) ([]models.RoutineTemplate, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, day_type, is_global, created_at, updated_at
		FROM routine_templates WHERE user_id = $1 OR is_global = TRUE
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.RoutineTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range templates {
		blocks, err := s.listBlocks(templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Blocks = blocks
	}

	return templates, nil
}

func (s *Store) DeleteTemplate(userID, id string) error {
	// Only the owner may delete; global templates are read-only here.
	result, err := s.db.Exec(`
		DELETE FROM routine_templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *Store) listBlocks(templateID string) ([]models.TemplateBlock, error) {
	rows, err := s.db.Query(`
		SELECT id, template_id, time_block, default_tasks, created_at
		FROM template_blocks WHERE template_id = $1 ORDER BY created_at`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.TemplateBlock
	for rows.Next() {
		var b models.TemplateBlock
		var timeBlock, tasksJSON, createdAt string

		if err := rows.Scan(&b.ID, &b.TemplateID, &timeBlock, &tasksJSON, &createdAt); err != nil {
			return nil, err
		}

		b.TimeBlock = models.TimeBlock(timeBlock)
		if err := json.Unmarshal([]byte(tasksJSON), &b.DefaultTasks); err != nil {
			return nil, fmt.Errorf("failed to decode default tasks for block %s: %w", b.ID, err)
		}
		b.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for block %s: %w", b.ID, err)
		}

		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func scanTemplate(row scanner) (models.RoutineTemplate, error) {
	var tpl models.RoutineTemplate
	var dayType string
	var createdAt, updatedAt string

	err := row.Scan(&tpl.ID, &tpl.UserID, &tpl.Name, &dayType, &tpl.IsGlobal, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RoutineTemplate{}, storage.ErrNotFound
		}
		return models.RoutineTemplate{}, err
	}

	tpl.DayType = models.DayType(dayType)

	tpl.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.RoutineTemplate{}, fmt.Errorf("failed to parse created_at for template %s: %w", tpl.ID, err)
	}
	tpl.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.RoutineTemplate{}, fmt.Errorf("failed to parse updated_at for template %s: %w", tpl.ID, err)
	}

	return tpl, nil
}
