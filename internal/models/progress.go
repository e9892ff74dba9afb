// ABOUTME: DailyProgress aggregate and the canonical day-bucket functions.
// ABOUTME: A progress row is a pure sum over the meals and workouts of one (user, UTC day).
package models

import (
	"fmt"
	"time"
)

// DayLayout is the format of a day-bucket key.
const DayLayout = "2006-01-02"

// DayOf truncates t to midnight of its UTC calendar day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey returns the UTC calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD day key as UTC midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// ParseWhen parses a user-supplied timestamp. It accepts RFC 3339,
// "2006-01-02 15:04" and "2006-01-02"; zone-less forms are read as UTC.
// An empty string returns now.
func ParseWhen(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DayLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("parse time %q: want RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD", s)
}

// DailyProgress holds the running totals for one user and day.
type DailyProgress struct {
	ID               int64     `json:"id" yaml:"id"`
	UserID           int64     `json:"user_id" yaml:"user_id"`
	Date             time.Time `json:"date" yaml:"date"`
	CaloriesConsumed float64   `json:"calories_consumed" yaml:"calories_consumed"`
	ProteinConsumed  float64   `json:"protein_consumed" yaml:"protein_consumed"`
	CarbsConsumed    float64   `json:"carbs_consumed" yaml:"carbs_consumed"`
	FatConsumed      float64   `json:"fat_consumed" yaml:"fat_consumed"`
	SugarConsumed    float64   `json:"sugar_consumed" yaml:"sugar_consumed"`
	WorkoutMinutes   float64   `json:"workout_minutes" yaml:"workout_minutes"`
	CaloriesBurned   float64   `json:"calories_burned" yaml:"calories_burned"`
	RowingMeters     float64   `json:"rowing_meters" yaml:"rowing_meters"`
	UpdatedAt        time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewDailyProgress returns an all-zero row for the day containing t.
func NewDailyProgress(userID int64, t time.Time) *DailyProgress {
	return &DailyProgress{
		UserID: userID,
		Date:   DayOf(t),
	}
}

// Key returns the row's day-bucket key.
func (p *DailyProgress) Key() string {
	return DayKey(p.Date)
}

// AddMeal adds a meal's contribution.
// Carbs, fat and sugar come from the line items since the meal carries no totals for them.
func (p *DailyProgress) AddMeal(m *Meal) {
	items := m.ItemTotals()
	p.CaloriesConsumed += m.TotalCalories
	p.ProteinConsumed += m.TotalProtein
	p.CarbsConsumed += items.Carbs
	p.FatConsumed += items.Fat
	p.SugarConsumed += items.Sugar
}

// AddWorkout adds a workout's contribution.
func (p *DailyProgress) AddWorkout(w *Workout) {
	p.WorkoutMinutes += w.DurationMinutes
	p.CaloriesBurned += w.CaloriesBurned
	if meters, ok := w.RowingMeters(); ok {
		p.RowingMeters += meters
	}
}

// Validate checks every counter is finite and non-negative.
func (p *DailyProgress) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calories_consumed", p.CaloriesConsumed},
		{"protein_consumed", p.ProteinConsumed},
		{"carbs_consumed", p.CarbsConsumed},
		{"fat_consumed", p.FatConsumed},
		{"sugar_consumed", p.SugarConsumed},
		{"workout_minutes", p.WorkoutMinutes},
		{"calories_burned", p.CaloriesBurned},
		{"rowing_meters", p.RowingMeters},
	}
	for _, f := range fields {
		if err := CheckAmount(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// SameTotals reports whether two rows carry identical counters.
func (p *DailyProgress) SameTotals(o *DailyProgress) bool {
	return p.CaloriesConsumed == o.CaloriesConsumed &&
		p.ProteinConsumed == o.ProteinConsumed &&
		p.CarbsConsumed == o.CarbsConsumed &&
		p.FatConsumed == o.FatConsumed &&
		p.SugarConsumed == o.SugarConsumed &&
		p.WorkoutMinutes == o.WorkoutMinutes &&
		p.CaloriesBurned == o.CaloriesBurned &&
		p.RowingMeters == o.RowingMeters
}

// Clone returns a copy of the row.
func (p *DailyProgress) Clone() *DailyProgress {
	c := *p
	return &c
}
