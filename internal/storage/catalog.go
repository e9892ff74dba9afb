// ABOUTME: Catalog CRUD for SQLite storage: food items, exercises, and suggestions.
// ABOUTME: Catalog rows are insert-only; there is no update or delete.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/dailylog/internal/models"
)

// ===== Food items =====

const foodItemColumns = `id, name, brand, serving_size, calories, protein, carbs, fat, sugar, barcode, created_at`

// CreateFoodItem stores a new food item.
func (d *DB) CreateFoodItem(f *models.FoodItem) (*models.FoodItem, error) {
	rec := newFoodItemRecord(f)
	result, err := d.q.Exec(`
		INSERT INTO food_items (name, brand, serving_size, calories, protein, carbs, fat, sugar, barcode, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.Brand, rec.ServingSize,
		rec.Calories, rec.Protein, rec.Carbs, rec.Fat, rec.Sugar,
		rec.Barcode, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create food item: %w", err)
	}
	if rec.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("create food item: %w", err)
	}
	return rec, nil
}

// GetFoodItem retrieves a food item by id.
func (d *DB) GetFoodItem(id int64) (*models.FoodItem, error) {
	f, err := scanFoodItem(d.q.QueryRow(`SELECT `+foodItemColumns+` FROM food_items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

// ListFoodItems returns every food item ordered by id.
func (d *DB) ListFoodItems() ([]*models.FoodItem, error) {
	rows, err := d.q.Query(`SELECT ` + foodItemColumns + ` FROM food_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}
	defer rows.Close()

	var out []*models.FoodItem
	for rows.Next() {
		f, err := scanFoodItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFoodItem(s scanner) (*models.FoodItem, error) {
	var f models.FoodItem
	var brand, servingSize, barcode sql.NullString
	var createdAt string
	err := s.Scan(&f.ID, &f.Name, &brand, &servingSize,
		&f.Calories, &f.Protein, &f.Carbs, &f.Fat, &f.Sugar, &barcode, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan food item: %w", err)
	}
	f.Brand = brand.String
	f.ServingSize = servingSize.String
	f.Barcode = barcode.String
	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// ===== Exercises =====

const exerciseColumns = `id, name, workout_type, calories_per_minute, created_at`

// CreateExercise stores a new exercise.
func (d *DB) CreateExercise(e *models.Exercise) (*models.Exercise, error) {
	rec := newExerciseRecord(e)
	result, err := d.q.Exec(`
		INSERT INTO exercises (name, workout_type, calories_per_minute, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.Name, string(rec.Type), rec.CaloriesPerMinute, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	if rec.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return rec, nil
}

// GetExercise retrieves an exercise by id.
func (d *DB) GetExercise(id int64) (*models.Exercise, error) {
	e, err := scanExercise(d.q.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// ListExercises returns every exercise ordered by id.
func (d *DB) ListExercises() ([]*models.Exercise, error) {
	rows, err := d.q.Query(`SELECT ` + exerciseColumns + ` FROM exercises ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var out []*models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExercise(s scanner) (*models.Exercise, error) {
	var e models.Exercise
	var workoutType, createdAt string
	err := s.Scan(&e.ID, &e.Name, &workoutType, &e.CaloriesPerMinute, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan exercise: %w", err)
	}
	e.Type = models.WorkoutType(workoutType)
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// ===== Suggestions =====

const foodSuggestionColumns = `id, name, category, calories, protein, carbs, fat, sugar`

// CreateFoodSuggestion stores a new food suggestion.
func (d *DB) CreateFoodSuggestion(fs *models.FoodSuggestion) (*models.FoodSuggestion, error) {
	rec := *fs
	result, err := d.q.Exec(`
		INSERT INTO food_suggestions (name, category, calories, protein, carbs, fat, sugar)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.Category, rec.Calories, rec.Protein, rec.Carbs, rec.Fat, rec.Sugar,
	)
	if err != nil {
		return nil, fmt.Errorf("create food suggestion: %w", err)
	}
	if rec.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("create food suggestion: %w", err)
	}
	return &rec, nil
}

// GetFoodSuggestion retrieves a food suggestion by id.
func (d *DB) GetFoodSuggestion(id int64) (*models.FoodSuggestion, error) {
	fs, err := scanFoodSuggestion(d.q.QueryRow(`SELECT `+foodSuggestionColumns+` FROM food_suggestions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return fs, err
}

// ListFoodSuggestions returns every food suggestion ordered by id.
func (d *DB) ListFoodSuggestions() ([]*models.FoodSuggestion, error) {
	rows, err := d.q.Query(`SELECT ` + foodSuggestionColumns + ` FROM food_suggestions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list food suggestions: %w", err)
	}
	defer rows.Close()

	var out []*models.FoodSuggestion
	for rows.Next() {
		fs, err := scanFoodSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

func scanFoodSuggestion(s scanner) (*models.FoodSuggestion, error) {
	var fs models.FoodSuggestion
	var category sql.NullString
	err := s.Scan(&fs.ID, &fs.Name, &category, &fs.Calories, &fs.Protein, &fs.Carbs, &fs.Fat, &fs.Sugar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan food suggestion: %w", err)
	}
	fs.Category = category.String
	return &fs, nil
}

const workoutSuggestionColumns = `id, name, workout_type, duration_minutes, description`

// CreateWorkoutSuggestion stores a new workout suggestion.
func (d *DB) CreateWorkoutSuggestion(ws *models.WorkoutSuggestion) (*models.WorkoutSuggestion, error) {
	rec := *ws
	result, err := d.q.Exec(`
		INSERT INTO workout_suggestions (name, workout_type, duration_minutes, description)
		VALUES (?, ?, ?, ?)`,
		rec.Name, string(rec.Type), rec.DurationMinutes, rec.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("create workout suggestion: %w", err)
	}
	if rec.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("create workout suggestion: %w", err)
	}
	return &rec, nil
}

// GetWorkoutSuggestion retrieves a workout suggestion by id.
func (d *DB) GetWorkoutSuggestion(id int64) (*models.WorkoutSuggestion, error) {
	ws, err := scanWorkoutSuggestion(d.q.QueryRow(`SELECT `+workoutSuggestionColumns+` FROM workout_suggestions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ws, err
}

// ListWorkoutSuggestions returns every workout suggestion ordered by id.
func (d *DB) ListWorkoutSuggestions() ([]*models.WorkoutSuggestion, error) {
	rows, err := d.q.Query(`SELECT ` + workoutSuggestionColumns + ` FROM workout_suggestions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list workout suggestions: %w", err)
	}
	defer rows.Close()

	var out []*models.WorkoutSuggestion
	for rows.Next() {
		ws, err := scanWorkoutSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func scanWorkoutSuggestion(s scanner) (*models.WorkoutSuggestion, error) {
	var ws models.WorkoutSuggestion
	var workoutType string
	var description sql.NullString
	err := s.Scan(&ws.ID, &ws.Name, &workoutType, &ws.DurationMinutes, &description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan workout suggestion: %w", err)
	}
	ws.Type = models.WorkoutType(workoutType)
	ws.Description = description.String
	return &ws, nil
}
