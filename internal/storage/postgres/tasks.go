package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
)

const taskColumns = `id, user_id, title, description, category, date, start_time, end_time,
	status, time_block, effort_min, priority, recurrence_pattern, recurrence_end_date,
	parent_task_id, notes, created_at, updated_at`

const taskPlaceholders = `$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18`

func (s *Store) AddTask(task models.Task) error {
	_, err := s.db.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (`+taskPlaceholders+`)`,
		task.ID, task.UserID, task.Title, task.Description, string(task.Category),
		task.Date, task.StartTime, task.EndTime, string(task.Status), string(task.TimeBlock),
		task.EffortMin, string(task.Priority), string(task.Recurrence), task.RecurrenceEndDate,
		task.ParentTaskID, task.Notes,
		task.CreatedAt.Format(time.RFC3339), task.UpdatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) AddTasks(tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, task := range tasks {
		_, err := tx.Exec(`
			INSERT INTO tasks (`+taskColumns+`)
			VALUES (`+taskPlaceholders+`)`,
			task.ID, task.UserID, task.Title, task.Description, string(task.Category),
			task.Date, task.StartTime, task.EndTime, string(task.Status), string(task.TimeBlock),
			task.EffortMin, string(task.Priority), string(task.Recurrence), task.RecurrenceEndDate,
			task.ParentTaskID, task.Notes,
			task.CreatedAt.Format(time.RFC3339), task.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert task %s: %w", task.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetTask(userID, id string) (models.Task, error) {
	row := s.db.QueryRow(`
		SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)

	task, err := scanTask(row)
	if err != nil {
		return models.Task{}, err
	}

	subtasks, err := s.listSubtasks(task.ID)
	if err != nil {
		return models.Task{}, err
	}
	task.Subtasks = subtasks

	return task, nil
}

func (s *Store) ListTasks(userID string, filter storage.TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}

	if filter.Day != "" {
		args = append(args, filter.Day)
		query += fmt.Sprintf(" AND date = $%d", len(args))
	}
	if filter.StartDay != "" && filter.EndDay != "" {
		args = append(args, filter.StartDay)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
		args = append(args, filter.EndDay)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.TimeBlock != "" {
		args = append(args, string(filter.TimeBlock))
		query += fmt.Sprintf(" AND time_block = $%d", len(args))
	}
	query += " ORDER BY date DESC, start_time ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachSubtasks(userID, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (s *Store) UpdateTask(task models.Task) error {
	result, err := s.db.Exec(`
		UPDATE tasks SET title = $1, description = $2, category = $3, date = $4,
			start_time = $5, end_time = $6, status = $7, time_block = $8, effort_min = $9,
			priority = $10, recurrence_pattern = $11, recurrence_end_date = $12, notes = $13,
			updated_at = $14
		WHERE id = $15 AND user_id = $16`,
		task.Title, task.Description, string(task.Category), task.Date,
		task.StartTime, task.EndTime, string(task.Status), string(task.TimeBlock), task.EffortMin,
		string(task.Priority), string(task.Recurrence), task.RecurrenceEndDate, task.Notes,
		time.Now().UTC().Format(time.RFC3339),
		task.ID, task.UserID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *Store) DeleteTask(userID, id string) error {
	result, err := s.db.Exec(`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Subtasks

func (s *Store) AddSubtask(sub models.Subtask) error {
	_, err := s.db.Exec(`
		INSERT INTO subtasks (id, task_id, title, done, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.TaskID, sub.Title, sub.Done, sub.Order,
		sub.CreatedAt.Format(time.RFC3339), sub.UpdatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetSubtask(taskID, id string) (models.Subtask, error) {
	row := s.db.QueryRow(`
		SELECT id, task_id, title, done, sort_order, created_at, updated_at
		FROM subtasks WHERE id = $1 AND task_id = $2`, id, taskID)
	return scanSubtask(row)
}

func (s *Store) UpdateSubtask(sub models.Subtask) error {
	result, err := s.db.Exec(`
		UPDATE subtasks SET title = $1, done = $2, sort_order = $3, updated_at = $4
		WHERE id = $5 AND task_id = $6`,
		sub.Title, sub.Done, sub.Order, time.Now().UTC().Format(time.RFC3339),
		sub.ID, sub.TaskID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *Store) DeleteSubtask(taskID, id string) error {
	result, err := s.db.Exec(`DELETE FROM subtasks WHERE id = $1 AND task_id = $2`, id, taskID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *Store) listSubtasks(taskID string) ([]models.Subtask, error) {
	rows, err := s.db.Query(`
		SELECT id, task_id, title, done, sort_order, created_at, updated_at
		FROM subtasks WHERE task_id = $1 ORDER BY sort_order ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subtask
	for rows.Next() {
		sub, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Store) attachSubtasks(userID string, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	rows, err := s.db.Query(`
		SELECT sub.id, sub.task_id, sub.title, sub.done, sub.sort_order, sub.created_at, sub.updated_at
		FROM subtasks sub
		JOIN tasks t ON t.id = sub.task_id
		WHERE t.user_id = $1
		ORDER BY sub.sort_order ASC`, userID)
	if err != nil {
		return err
	}
	defer rows.Close()

	byTask := make(map[string][]models.Subtask)
	for rows.Next() {
		sub, err := scanSubtask(rows)
		if err != nil {
			return err
		}
		byTask[sub.TaskID] = append(byTask[sub.TaskID], sub)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range tasks {
		tasks[i].Subtasks = byTask[tasks[i].ID]
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var category, status, timeBlock, priority, recurrence string
	var createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &category, &t.Date,
		&t.StartTime, &t.EndTime, &status, &timeBlock, &t.EffortMin, &priority,
		&recurrence, &t.RecurrenceEndDate, &t.ParentTaskID, &t.Notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, storage.ErrNotFound
		}
		return models.Task{}, err
	}

	t.Category = models.TaskCategory(category)
	t.Status = models.TaskStatus(status)
	t.TimeBlock = models.TimeBlock(timeBlock)
	t.Priority = models.TaskPriority(priority)
	t.Recurrence = models.RecurrencePattern(recurrence)

	t.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to parse created_at for task %s: %w", t.ID, err)
	}
	t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to parse updated_at for task %s: %w", t.ID, err)
	}

	return t, nil
}

func scanSubtask(row scanner) (models.Subtask, error) {
	var sub models.Subtask
	var createdAt, updatedAt string

	err := row.Scan(&sub.ID, &sub.TaskID, &sub.Title, &sub.Done, &sub.Order, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Subtask{}, storage.ErrNotFound
		}
		return models.Subtask{}, err
	}

	sub.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Subtask{}, fmt.Errorf("failed to parse created_at for subtask %s: %w", sub.ID, err)
	}
	sub.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.Subtask{}, fmt.Errorf("failed to parse updated_at for subtask %s: %w", sub.ID, err)
	}

	return sub, nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}
