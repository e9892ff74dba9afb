// ABOUTME: Meal CRUD operations for SQLite storage.
// ABOUTME: Line items are stored as a JSON array alongside a derived day column.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/dailylog/internal/models"
)

const mealColumns = `id, user_id, date, title, items, total_calories, total_protein,
	ingredient_quality, notes, created_at`

// CreateMeal stores a new meal.
func (d *DB) CreateMeal(m *models.Meal) (*models.Meal, error) {
	rec := newMealRecord(m)
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return nil, fmt.Errorf("encode meal items: %w", err)
	}

	query := `
		INSERT INTO meals (user_id, date, day, title, items, total_calories, total_protein,
			ingredient_quality, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := d.q.Exec(query,
		rec.UserID,
		formatTime(rec.Date),
		models.DayKey(rec.Date),
		rec.Title,
		string(items),
		rec.TotalCalories,
		rec.TotalProtein,
		rec.IngredientQuality,
		rec.Notes,
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	if rec.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return rec, nil
}

// GetMeal retrieves a meal by id.
func (d *DB) GetMeal(id int64) (*models.Meal, error) {
	m, err := scanMeal(d.q.QueryRow(`SELECT `+mealColumns+` FROM meals WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// ListMeals retrieves meals ordered by id, optionally for one user.
func (d *DB) ListMeals(userID *int64) ([]*models.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals`
	var args []interface{}
	if userID != nil {
		query += ` WHERE user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY id`

	rows, err := d.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()
	return scanMeals(rows)
}

// ListMealsByDate retrieves one user's meals on the UTC day containing day.
func (d *DB) ListMealsByDate(userID int64, day time.Time) ([]*models.Meal, error) {
	rows, err := d.q.Query(`SELECT `+mealColumns+` FROM meals
		WHERE user_id = ? AND day = ?
		ORDER BY date, id`, userID, models.DayKey(day))
	if err != nil {
		return nil, fmt.Errorf("list meals by date: %w", err)
	}
	defer rows.Close()
	return scanMeals(rows)
}

// DeleteMeal removes a meal, reporting whether it existed.
func (d *DB) DeleteMeal(id int64) (bool, error) {
	ok, err := d.deleteByID("meals", id)
	if err != nil {
		return false, fmt.Errorf("delete meal: %w", err)
	}
	return ok, nil
}

func scanMeals(rows *sql.Rows) ([]*models.Meal, error) {
	var meals []*models.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func scanMeal(s scanner) (*models.Meal, error) {
	var m models.Meal
	var date, items, createdAt string
	var notes sql.NullString

	err := s.Scan(&m.ID, &m.UserID, &date, &m.Title, &items,
		&m.TotalCalories, &m.TotalProtein, &m.IngredientQuality, &notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan meal: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &m.Items); err != nil {
		return nil, fmt.Errorf("decode meal %d items: %w", m.ID, err)
	}
	if len(m.Items) == 0 {
		m.Items = nil
	}
	m.Notes = notes.String
	if m.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &m, nil
}
