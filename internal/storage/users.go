// ABOUTME: User CRUD operations for SQLite storage.
// ABOUTME: Usernames are unique without regard to case.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/dailylog/internal/models"
)

const userColumns = `id, username, display_name, goal_calories, goal_protein, goal_carbs,
	goal_fat, goal_sugar, goal_workout_minutes, created_at`

// CreateUser stores a new user.
func (d *DB) CreateUser(u *models.User) (*models.User, error) {
	rec := newUserRecord(u)
	query := `
		INSERT INTO users (username, display_name, goal_calories, goal_protein, goal_carbs,
			goal_fat, goal_sugar, goal_workout_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	g := rec.Goals
	result, err := d.q.Exec(query,
		rec.Username,
		rec.DisplayName,
		g.Calories, g.Protein, g.Carbs, g.Fat, g.Sugar, g.WorkoutMinutes,
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	if rec.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return rec, nil
}

// GetUser retrieves a user by id.
func (d *DB) GetUser(id int64) (*models.User, error) {
	row := d.q.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUserRow(row)
}

// GetUserByUsername retrieves a user by case-insensitive username.
func (d *DB) GetUserByUsername(username string) (*models.User, error) {
	row := d.q.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUserRow(row)
}

// ListUsers returns every user ordered by id.
func (d *DB) ListUsers() ([]*models.User, error) {
	rows, err := d.q.Query(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserGoals replaces a user's goals.
func (d *DB) UpdateUserGoals(id int64, goals models.Goals) (*models.User, error) {
	query := `
		UPDATE users SET goal_calories = ?, goal_protein = ?, goal_carbs = ?,
			goal_fat = ?, goal_sugar = ?, goal_workout_minutes = ?
		WHERE id = ?
	`
	result, err := d.q.Exec(query,
		goals.Calories, goals.Protein, goals.Carbs, goals.Fat, goals.Sugar, goals.WorkoutMinutes, id)
	if err != nil {
		return nil, fmt.Errorf("update user goals: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update user goals: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return d.GetUser(id)
}

func scanUserRow(row *sql.Row) (*models.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	var displayName sql.NullString
	var createdAt string

	err := s.Scan(&u.ID, &u.Username, &displayName,
		&u.Goals.Calories, &u.Goals.Protein, &u.Goals.Carbs,
		&u.Goals.Fat, &u.Goals.Sugar, &u.Goals.WorkoutMinutes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.DisplayName = displayName.String
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}
