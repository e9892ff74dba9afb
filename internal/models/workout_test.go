// ABOUTME: Tests for Workout model and details union.
// ABOUTME: Validates type checks, JSON/YAML details decoding, and cloning.
package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestNewWorkout(t *testing.T) {
	w := NewWorkout(1, WorkoutRowing).WithDuration(25.5)

	if w.UserID != 1 {
		t.Errorf("UserID = %d, want 1", w.UserID)
	}
	if w.Type != WorkoutRowing {
		t.Errorf("Type = %s, want rowing", w.Type)
	}
	if w.Date.IsZero() {
		t.Error("expected Date to be set")
	}
	if w.DurationMinutes != 25.5 {
		t.Errorf("DurationMinutes = %v, want 25.5", w.DurationMinutes)
	}
}

func TestDetailsAccepts(t *testing.T) {
	tests := []struct {
		details Details
		wt      WorkoutType
		want    bool
	}{
		{&CardioDetails{}, WorkoutCardio, true},
		{&CardioDetails{}, WorkoutHIIT, true},
		{&CardioDetails{}, WorkoutRowing, false},
		{&StrengthDetails{}, WorkoutStrength, true},
		{&StrengthDetails{}, WorkoutCardio, false},
		{&FlexibilityDetails{}, WorkoutFlexibility, true},
		{&RowingDetails{}, WorkoutRowing, true},
		{&RowingDetails{}, WorkoutHIIT, false},
	}

	for _, tt := range tests {
		if got := tt.details.Accepts(tt.wt); got != tt.want {
			t.Errorf("%T.Accepts(%s) = %v, want %v", tt.details, tt.wt, got, tt.want)
		}
	}
}

func TestWorkoutValidate(t *testing.T) {
	meters := 5000.0
	nan := math.NaN()

	tests := []struct {
		name    string
		workout *Workout
		wantErr error
	}{
		{"valid rowing", NewWorkout(1, WorkoutRowing).WithDuration(20).WithDetails(&RowingDetails{RowingMeters: &meters}), nil},
		{"no details", NewWorkout(1, WorkoutCardio).WithDuration(30), nil},
		{"unknown type", NewWorkout(1, "swim"), ErrUnknownWorkoutType},
		{"mismatched details", NewWorkout(1, WorkoutStrength).WithDetails(&RowingDetails{}), ErrDetailsMismatch},
		{"nan duration", NewWorkout(1, WorkoutCardio).WithDuration(nan), ErrComputation},
		{"negative calories", NewWorkout(1, WorkoutCardio).WithCalories(-5), ErrComputation},
		{"nan meters", NewWorkout(1, WorkoutRowing).WithDetails(&RowingDetails{RowingMeters: &nan}), ErrComputation},
		{"typed nil details", NewWorkout(1, WorkoutRowing).WithDuration(20).WithDetails((*RowingDetails)(nil)), nil},
		{"typed nil set directly", &Workout{UserID: 1, Type: WorkoutStrength, Details: (*StrengthDetails)(nil)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.workout.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCloneDropsTypedNilDetails(t *testing.T) {
	w := &Workout{UserID: 1, Type: WorkoutRowing, DurationMinutes: 20, Details: (*RowingDetails)(nil)}
	c := w.Clone()
	if c.Details != nil {
		t.Errorf("Clone().Details = %#v, want nil", c.Details)
	}
	if _, ok := c.Rowing(); ok {
		t.Error("expected no rowing details")
	}
}

func TestWorkoutRowingMeters(t *testing.T) {
	meters := 2000.0

	w := NewWorkout(1, WorkoutRowing).WithDetails(&RowingDetails{RowingMeters: &meters})
	if got, ok := w.RowingMeters(); !ok || got != 2000 {
		t.Errorf("RowingMeters() = %v, %v; want 2000, true", got, ok)
	}

	noMeters := NewWorkout(1, WorkoutRowing).WithDetails(&RowingDetails{RowingSplit: "2:00.00"})
	if _, ok := noMeters.RowingMeters(); ok {
		t.Error("expected no rowing meters without a distance")
	}

	cardio := NewWorkout(1, WorkoutCardio)
	if _, ok := cardio.RowingMeters(); ok {
		t.Error("expected cardio workout to contribute no rowing meters")
	}
}

func TestWorkoutJSONDetails(t *testing.T) {
	sets, reps := 5, 5
	weight := 100.0
	w := NewWorkout(3, WorkoutStrength).
		WithDuration(45).
		WithDetails(&StrengthDetails{Sets: &sets, Reps: &reps, Weight: &weight})

	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got Workout
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	d, ok := got.Details.(*StrengthDetails)
	if !ok {
		t.Fatalf("Details = %T, want *StrengthDetails", got.Details)
	}
	if d.Sets == nil || *d.Sets != 5 || d.Weight == nil || *d.Weight != 100 {
		t.Errorf("unexpected details: %+v", d)
	}
}

func TestWorkoutJSONRejectsForeignDetails(t *testing.T) {
	data := []byte(`{"type":"flexibility","duration_minutes":10,"details":{"rowing_meters":500}}`)

	var w Workout
	err := json.Unmarshal(data, &w)
	if !errors.Is(err, ErrDetailsMismatch) {
		t.Fatalf("Unmarshal error = %v, want ErrDetailsMismatch", err)
	}
}

func TestWorkoutYAMLDetails(t *testing.T) {
	meters := 5000.0
	w := NewWorkout(1, WorkoutRowing).
		WithDuration(25.5).
		WithDate(time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)).
		WithDetails(&RowingDetails{RowingMeters: &meters, RowingSplit: "2:33.00"})

	data, err := yaml.Marshal(w)
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}

	var got Workout
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}

	d, ok := got.Details.(*RowingDetails)
	if !ok {
		t.Fatalf("Details = %T, want *RowingDetails", got.Details)
	}
	if d.RowingSplit != "2:33.00" || d.RowingMeters == nil || *d.RowingMeters != 5000 {
		t.Errorf("unexpected details: %+v", d)
	}
	if got.DurationMinutes != 25.5 {
		t.Errorf("DurationMinutes = %v, want 25.5", got.DurationMinutes)
	}
}

func TestWorkoutCloneIsDeep(t *testing.T) {
	meters := 1000.0
	w := NewWorkout(1, WorkoutRowing).WithDetails(&RowingDetails{RowingMeters: &meters})

	c := w.Clone()
	*c.Details.(*RowingDetails).RowingMeters = 9999

	if got, _ := w.RowingMeters(); got != 1000 {
		t.Errorf("original mutated through clone: %v", got)
	}
}
