package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
)

func (s *Store) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, user_id, name, description, target_type, target_value, category, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		habit.ID, habit.UserID, habit.Name, habit.Description,
		string(habit.TargetType), habit.TargetValue, string(habit.Category), habit.Active,
		habit.CreatedAt.Format(time.RFC3339), habit.UpdatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetHabit(userID, id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, name, description, target_type, target_value, category, active, created_at, updated_at
		FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	return scanHabit(row)
}

func (s *Store) ListHabits(userID string, activeOnly bool) ([]models.Habit, error) {
	query := `
		SELECT id, user_id, name, description, target_type, target_value, category, active, created_at, updated_at
		FROM habits WHERE user_id = $1`
	if activeOnly {
		query += " AND active = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	result, err := s.db.Exec(`
		UPDATE habits SET name = $1, description = $2, target_type = $3, target_value = $4,
			category = $5, active = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9`,
		habit.Name, habit.Description, string(habit.TargetType), habit.TargetValue,
		string(habit.Category), habit.Active, time.Now().UTC().Format(time.RFC3339),
		habit.ID, habit.UserID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *Store) DeleteHabit(userID, id string) error {
	// Check-ins go with the habit via the foreign key cascade.
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Checkins

func (s *Store) UpsertCheckin(checkin models.Checkin) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_checkins (id, habit_id, user_id, day, value, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (habit_id, day) DO UPDATE SET
			value = EXCLUDED.value,
			notes = EXCLUDED.notes`,
		checkin.ID, checkin.HabitID, checkin.UserID, checkin.Day,
		checkin.Value, checkin.Notes, checkin.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetCheckin(habitID, day string) (models.Checkin, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, user_id, day, value, notes, created_at
		FROM habit_checkins WHERE habit_id = $1 AND day = $2`, habitID, day)
	return scanCheckin(row)
}

func (s *Store) ListCheckins(userID, habitID, startDay, endDay string) ([]models.Checkin, error) {
	query := `
		SELECT id, habit_id, user_id, day, value, notes, created_at
		FROM habit_checkins WHERE habit_id = $1 AND user_id = $2`
	args := []any{habitID, userID}

	if startDay != "" && endDay != "" {
		args = append(args, startDay)
		query += fmt.Sprintf(" AND day >= $%d", len(args))
		args = append(args, endDay)
		query += fmt.Sprintf(" AND day <= $%d", len(args))
	}
	query += " ORDER BY day DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkins []models.Checkin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		checkins = append(checkins, c)
	}
	return checkins, rows.Err()
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var targetType, category string
	var createdAt, updatedAt string

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &targetType,
		&h.TargetValue, &category, &h.Active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, storage.ErrNotFound
		}
		return models.Habit{}, err
	}

	h.TargetType = models.TargetType(targetType)
	h.Category = models.TaskCategory(category)

	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	h.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse updated_at for habit %s: %w", h.ID, err)
	}

	return h, nil
}

func scanCheckin(row scanner) (models.Checkin, error) {
	var c models.Checkin
	var createdAt string

	err := row.Scan(&c.ID, &c.HabitID, &c.UserID, &c.Day, &c.Value, &c.Notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Checkin{}, storage.ErrNotFound
		}
		return models.Checkin{}, err
	}

	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Checkin{}, fmt.Errorf("failed to parse created_at for checkin %s: %w", c.ID, err)
	}

	return c, nil
}
