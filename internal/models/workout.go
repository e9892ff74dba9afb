// ABOUTME: Workout model with a type-tagged details union.
// ABOUTME: Each workout type accepts exactly one details variant; codecs decode by type.
package models

import (
	"time"
)

// WorkoutType tags a workout and selects its details variant.
type WorkoutType string

const (
	WorkoutCardio      WorkoutType = "cardio"
	WorkoutHIIT        WorkoutType = "hiit"
	WorkoutStrength    WorkoutType = "strength"
	WorkoutFlexibility WorkoutType = "flexibility"
	WorkoutRowing      WorkoutType = "rowing"
)

// AllWorkoutTypes returns all valid workout types.
var AllWorkoutTypes = []WorkoutType{
	WorkoutCardio, WorkoutHIIT, WorkoutStrength, WorkoutFlexibility, WorkoutRowing,
}

// IsValidWorkoutType checks if a string is a valid workout type.
func IsValidWorkoutType(s string) bool {
	for _, wt := range AllWorkoutTypes {
		if string(wt) == s {
			return true
		}
	}
	return false
}

// Workout is a logged exercise session owned by a user.
// DurationMinutes is fractional: whole minutes plus seconds and milliseconds.
type Workout struct {
	ID              int64       `json:"id" yaml:"id"`
	UserID          int64       `json:"user_id" yaml:"user_id"`
	Date            time.Time   `json:"date" yaml:"date"`
	StartTime       string      `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime         string      `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Type            WorkoutType `json:"type" yaml:"type"`
	DurationMinutes float64     `json:"duration_minutes" yaml:"duration_minutes"`
	CaloriesBurned  float64     `json:"calories_burned" yaml:"calories_burned"`
	Details         Details     `json:"details,omitempty" yaml:"-"`
	Notes           string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at" yaml:"created_at"`
}

// NewWorkout creates a Workout dated now.
func NewWorkout(userID int64, workoutType WorkoutType) *Workout {
	now := time.Now()
	return &Workout{
		UserID:    userID,
		Type:      workoutType,
		Date:      now,
		CreatedAt: now,
	}
}

// WithDuration sets the fractional-minute duration.
func (w *Workout) WithDuration(minutes float64) *Workout {
	w.DurationMinutes = minutes
	return w
}

// WithCalories sets calories burned.
func (w *Workout) WithCalories(kcal float64) *Workout {
	w.CaloriesBurned = kcal
	return w
}

// WithDate sets the workout timestamp used for day bucketing.
func (w *Workout) WithDate(t time.Time) *Workout {
	w.Date = t
	return w
}

// WithTimes sets the display start and end times.
func (w *Workout) WithTimes(start, end string) *Workout {
	w.StartTime = start
	w.EndTime = end
	return w
}

// WithDetails sets the type-specific details.
func (w *Workout) WithDetails(d Details) *Workout {
	if !hasDetails(d) {
		d = nil
	}
	w.Details = d
	return w
}

// WithNotes sets free-text notes.
func (w *Workout) WithNotes(notes string) *Workout {
	w.Notes = notes
	return w
}

// Rowing returns the rowing details when the workout is a rowing workout carrying them.
func (w *Workout) Rowing() (*RowingDetails, bool) {
	if w.Type != WorkoutRowing {
		return nil, false
	}
	d, ok := w.Details.(*RowingDetails)
	return d, ok && d != nil
}

// RowingMeters returns the distance a rowing workout contributes to daily progress.
func (w *Workout) RowingMeters() (float64, bool) {
	d, ok := w.Rowing()
	if !ok || d.RowingMeters == nil {
		return 0, false
	}
	return *d.RowingMeters, true
}

// Validate checks the type tag, the details variant, and every numeric field.
func (w *Workout) Validate() error {
	if !IsValidWorkoutType(string(w.Type)) {
		return fmtTypeError(w.Type)
	}
	if hasDetails(w.Details) && !w.Details.Accepts(w.Type) {
		return fmtDetailsError(w.Type, w.Details)
	}
	if err := CheckAmount("duration_minutes", w.DurationMinutes); err != nil {
		return err
	}
	if err := CheckAmount("calories_burned", w.CaloriesBurned); err != nil {
		return err
	}
	if hasDetails(w.Details) {
		return w.Details.validate()
	}
	return nil
}

// Clone returns a deep copy of the workout.
func (w *Workout) Clone() *Workout {
	c := *w
	c.Details = nil
	if hasDetails(w.Details) {
		c.Details = w.Details.clone()
	}
	return &c
}
