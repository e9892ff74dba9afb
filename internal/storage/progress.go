// ABOUTME: Daily progress persistence for SQLite storage.
// ABOUTME: One row per (user, UTC day), written with an upsert.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/dailylog/internal/models"
)

const progressColumns = `id, user_id, day, calories_consumed, protein_consumed, carbs_consumed,
	fat_consumed, sugar_consumed, workout_minutes, calories_burned, rowing_meters, updated_at`

// GetDailyProgress retrieves the row for the user and the UTC day containing day.
func (d *DB) GetDailyProgress(userID int64, day time.Time) (*models.DailyProgress, error) {
	row := d.q.QueryRow(`SELECT `+progressColumns+` FROM daily_progress WHERE user_id = ? AND day = ?`,
		userID, models.DayKey(day))
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// PutDailyProgress inserts or replaces the row for p's user and day.
func (d *DB) PutDailyProgress(p *models.DailyProgress) (*models.DailyProgress, error) {
	rec := newProgressRecord(p)
	query := `
		INSERT INTO daily_progress (user_id, day, calories_consumed, protein_consumed, carbs_consumed,
			fat_consumed, sugar_consumed, workout_minutes, calories_burned, rowing_meters, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, day) DO UPDATE SET
			calories_consumed = excluded.calories_consumed,
			protein_consumed = excluded.protein_consumed,
			carbs_consumed = excluded.carbs_consumed,
			fat_consumed = excluded.fat_consumed,
			sugar_consumed = excluded.sugar_consumed,
			workout_minutes = excluded.workout_minutes,
			calories_burned = excluded.calories_burned,
			rowing_meters = excluded.rowing_meters,
			updated_at = excluded.updated_at
	`
	_, err := d.q.Exec(query,
		rec.UserID, rec.Key(),
		rec.CaloriesConsumed, rec.ProteinConsumed, rec.CarbsConsumed,
		rec.FatConsumed, rec.SugarConsumed,
		rec.WorkoutMinutes, rec.CaloriesBurned, rec.RowingMeters,
		formatTime(rec.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("put daily progress: %w", err)
	}
	// LastInsertId is unreliable on the update path; read the id back.
	if err := d.q.QueryRow(`SELECT id FROM daily_progress WHERE user_id = ? AND day = ?`,
		rec.UserID, rec.Key()).Scan(&rec.ID); err != nil {
		return nil, fmt.Errorf("put daily progress: %w", err)
	}
	return rec, nil
}

// ListDailyProgress returns a user's rows ordered by day.
func (d *DB) ListDailyProgress(userID int64) ([]*models.DailyProgress, error) {
	rows, err := d.q.Query(`SELECT `+progressColumns+` FROM daily_progress WHERE user_id = ? ORDER BY day`, userID)
	if err != nil {
		return nil, fmt.Errorf("list daily progress: %w", err)
	}
	defer rows.Close()

	var out []*models.DailyProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProgress(s scanner) (*models.DailyProgress, error) {
	var p models.DailyProgress
	var day, updatedAt string
	err := s.Scan(&p.ID, &p.UserID, &day,
		&p.CaloriesConsumed, &p.ProteinConsumed, &p.CarbsConsumed, &p.FatConsumed, &p.SugarConsumed,
		&p.WorkoutMinutes, &p.CaloriesBurned, &p.RowingMeters, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan daily progress: %w", err)
	}
	if p.Date, err = models.ParseDay(day); err != nil {
		return nil, fmt.Errorf("scan daily progress: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
