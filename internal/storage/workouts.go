// ABOUTME: Workout CRUD operations for SQLite storage.
// ABOUTME: Type-specific details are stored as JSON and decoded by workout type.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/dailylog/internal/models"
)

const workoutColumns = `id, user_id, date, start_time, end_time, workout_type, duration_minutes,
	calories_burned, details, notes, created_at`

// CreateWorkout stores a new workout.
func (d *DB) CreateWorkout(w *models.Workout) (*models.Workout, error) {
	rec := newWorkoutRecord(w)
	details, err := models.EncodeDetails(rec.Details)
	if err != nil {
		return nil, fmt.Errorf("encode workout details: %w", err)
	}
	var detailsArg interface{}
	if details != nil {
		detailsArg = string(details)
	}

	query := `
		INSERT INTO workouts (user_id, date, day, start_time, end_time, workout_type,
			duration_minutes, calories_burned, details, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := d.q.Exec(query,
		rec.UserID,
		formatTime(rec.Date),
		models.DayKey(rec.Date),
		rec.StartTime,
		rec.EndTime,
		string(rec.Type),
		rec.DurationMinutes,
		rec.CaloriesBurned,
		detailsArg,
		rec.Notes,
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	if rec.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	return rec, nil
}

// GetWorkout retrieves a workout by id.
func (d *DB) GetWorkout(id int64) (*models.Workout, error) {
	w, err := scanWorkout(d.q.QueryRow(`SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return w, err
}

// ListWorkouts retrieves workouts ordered by id, optionally for one user.
func (d *DB) ListWorkouts(userID *int64) ([]*models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts`
	var args []interface{}
	if userID != nil {
		query += ` WHERE user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY id`

	rows, err := d.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

// ListWorkoutsByDate retrieves one user's workouts on the UTC day containing day.
func (d *DB) ListWorkoutsByDate(userID int64, day time.Time) ([]*models.Workout, error) {
	rows, err := d.q.Query(`SELECT `+workoutColumns+` FROM workouts
		WHERE user_id = ? AND day = ?
		ORDER BY date, id`, userID, models.DayKey(day))
	if err != nil {
		return nil, fmt.Errorf("list workouts by date: %w", err)
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

// DeleteWorkout removes a workout, reporting whether it existed.
func (d *DB) DeleteWorkout(id int64) (bool, error) {
	ok, err := d.deleteByID("workouts", id)
	if err != nil {
		return false, fmt.Errorf("delete workout: %w", err)
	}
	return ok, nil
}

func scanWorkouts(rows *sql.Rows) ([]*models.Workout, error) {
	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func scanWorkout(s scanner) (*models.Workout, error) {
	var w models.Workout
	var date, workoutType, createdAt string
	var startTime, endTime, details, notes sql.NullString

	err := s.Scan(&w.ID, &w.UserID, &date, &startTime, &endTime, &workoutType,
		&w.DurationMinutes, &w.CaloriesBurned, &details, &notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan workout: %w", err)
	}

	w.Type = models.WorkoutType(workoutType)
	w.StartTime = startTime.String
	w.EndTime = endTime.String
	w.Notes = notes.String
	if details.Valid {
		if w.Details, err = models.DecodeDetails(w.Type, []byte(details.String)); err != nil {
			return nil, fmt.Errorf("decode workout %d details: %w", w.ID, err)
		}
	}
	if w.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &w, nil
}
