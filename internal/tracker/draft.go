// ABOUTME: WorkoutDraft turns flat, as-entered workout fields into a Workout.
// ABOUTME: Durations arrive as min/sec/ms and catalog exercises supply type and calories.
package tracker

import (
	"fmt"
	"time"

	"github.com/harperreed/dailylog/internal/duration"
	"github.com/harperreed/dailylog/internal/models"
)

// WorkoutDraft is a workout as a person types it in.
// Details fields that do not apply to Type are ignored.
type WorkoutDraft struct {
	UserID       int64
	Type         models.WorkoutType
	Date         time.Time
	Minutes      int
	Seconds      int
	Milliseconds int

	// CaloriesBurned is estimated from ExerciseID when left at zero.
	CaloriesBurned float64
	ExerciseID     int64

	StartTime string
	EndTime   string
	Notes     string

	Distance     *float64
	Pace         string
	HeartRate    *int
	Sets         *int
	Reps         *int
	Weight       *float64
	RowingMeters *float64
	RowingSplit  string
}

// ComposeWorkout builds an unsaved workout from a draft.
func (t *Tracker) ComposeWorkout(d WorkoutDraft) (*models.Workout, error) {
	minutes, err := duration.Compose(d.Minutes, d.Seconds, d.Milliseconds)
	if err != nil {
		return nil, err
	}

	wt := d.Type
	calories := d.CaloriesBurned
	if d.ExerciseID != 0 {
		ex, kcal, err := t.ExerciseCalories(d.ExerciseID, minutes)
		if err != nil {
			return nil, err
		}
		if wt == "" {
			wt = ex.Type
		}
		if calories == 0 {
			calories = kcal
		}
	}
	if !models.IsValidWorkoutType(string(wt)) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownWorkoutType, wt)
	}

	date := d.Date
	if date.IsZero() {
		date = t.now()
	}
	w := models.NewWorkout(d.UserID, wt).
		WithDate(date).
		WithDuration(minutes).
		WithCalories(calories).
		WithTimes(d.StartTime, d.EndTime).
		WithNotes(d.Notes)
	if details := d.details(wt); details != nil {
		w.WithDetails(details)
	}
	return w, nil
}

func (d WorkoutDraft) details(wt models.WorkoutType) models.Details {
	switch wt {
	case models.WorkoutCardio, models.WorkoutHIIT:
		if d.Distance == nil && d.Pace == "" && d.HeartRate == nil {
			return nil
		}
		return &models.CardioDetails{Distance: d.Distance, Pace: d.Pace, HeartRate: d.HeartRate}
	case models.WorkoutStrength:
		if d.Sets == nil && d.Reps == nil && d.Weight == nil {
			return nil
		}
		return &models.StrengthDetails{Sets: d.Sets, Reps: d.Reps, Weight: d.Weight}
	case models.WorkoutFlexibility:
		if d.HeartRate == nil {
			return nil
		}
		return &models.FlexibilityDetails{HeartRate: d.HeartRate}
	case models.WorkoutRowing:
		if d.RowingMeters == nil && d.RowingSplit == "" && d.HeartRate == nil {
			return nil
		}
		return &models.RowingDetails{RowingMeters: d.RowingMeters, RowingSplit: d.RowingSplit, HeartRate: d.HeartRate}
	}
	return nil
}
