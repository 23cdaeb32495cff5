package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
)

func (s *Store) CreateUser(user models.User) error {
	_, err := s.db.Exec(`
		INSERT INTO users (id, email, password_hash, name, timezone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Timezone,
		user.CreatedAt.Format(time.RFC3339), user.UpdatedAt.Format(time.RFC3339))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
		return storage.ErrDuplicateEmail
	}
	return err
}

func (s *Store) GetUser(id string) (models.User, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, email, password_hash, name, timezone, created_at, updated_at
		FROM users WHERE id = ?`, id))
}

func (s *Store) GetUserByEmail(email string) (models.User, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, email, password_hash, name, timezone, created_at, updated_at
		FROM users WHERE email = ?`, email))
}

func (s *Store) scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	var createdAt, updatedAt string

	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Timezone, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}

	u.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	u.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return u, nil
}
