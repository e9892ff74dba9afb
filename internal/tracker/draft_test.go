// ABOUTME: Tests for composing workouts from as-entered drafts.
// ABOUTME: Covers min/sec/ms composition, exercise calorie estimates, and details selection.
package tracker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/dailylog/internal/models"
	"github.com/harperreed/dailylog/internal/storage"
)

func TestComposeRowingDraft(t *testing.T) {
	tr := New(storage.NewMemoryStore(), nil)
	u := setupUser(t, tr)
	meters := 5000.0

	w, err := tr.ComposeWorkout(WorkoutDraft{
		UserID:       u.ID,
		Type:         models.WorkoutRowing,
		Date:         day,
		Minutes:      25,
		Seconds:      30,
		RowingMeters: &meters,
	})
	require.NoError(t, err)
	assert.Equal(t, 25.5, w.DurationMinutes)
	assert.Equal(t, day, w.Date)

	created, err := tr.CreateWorkout(w)
	require.NoError(t, err)
	d, ok := created.Rowing()
	require.True(t, ok)
	assert.Equal(t, "2:33.00", d.RowingSplit)
}

func TestComposeUsesExercise(t *testing.T) {
	tr := New(storage.NewMemoryStore(), nil)
	u := setupUser(t, tr)
	ex, err := tr.CreateExercise(&models.Exercise{Name: "Spin", Type: models.WorkoutCardio, CaloriesPerMinute: 10})
	require.NoError(t, err)

	w, err := tr.ComposeWorkout(WorkoutDraft{UserID: u.ID, ExerciseID: ex.ID, Minutes: 30})
	require.NoError(t, err)
	assert.Equal(t, models.WorkoutCardio, w.Type)
	assert.Equal(t, 300.0, w.CaloriesBurned)
	assert.Nil(t, w.Details)

	// Explicit calories win over the estimate.
	w, err = tr.ComposeWorkout(WorkoutDraft{UserID: u.ID, ExerciseID: ex.ID, Minutes: 30, CaloriesBurned: 250})
	require.NoError(t, err)
	assert.Equal(t, 250.0, w.CaloriesBurned)

	_, err = tr.ComposeWorkout(WorkoutDraft{UserID: u.ID, ExerciseID: 999, Minutes: 30})
	assert.Error(t, err)
}

func TestComposeDetailsFollowType(t *testing.T) {
	tr := New(storage.NewMemoryStore(), nil)
	hr := 140
	sets := 5

	w, err := tr.ComposeWorkout(WorkoutDraft{Type: models.WorkoutStrength, Minutes: 40, Sets: &sets, HeartRate: &hr})
	require.NoError(t, err)
	sd, ok := w.Details.(*models.StrengthDetails)
	require.True(t, ok)
	assert.Equal(t, 5, *sd.Sets)

	w, err = tr.ComposeWorkout(WorkoutDraft{Type: models.WorkoutFlexibility, Minutes: 20, HeartRate: &hr})
	require.NoError(t, err)
	_, ok = w.Details.(*models.FlexibilityDetails)
	assert.True(t, ok)
}

func TestComposeRejectsBadInput(t *testing.T) {
	tr := New(storage.NewMemoryStore(), nil)

	_, err := tr.ComposeWorkout(WorkoutDraft{Type: models.WorkoutCardio, Minutes: 10, Seconds: 60})
	assert.True(t, errors.Is(err, models.ErrComputation), "err = %v", err)

	_, err = tr.ComposeWorkout(WorkoutDraft{Type: "yoga", Minutes: 10})
	assert.True(t, errors.Is(err, models.ErrUnknownWorkoutType), "err = %v", err)

	_, err = tr.ComposeWorkout(WorkoutDraft{Minutes: 10})
	assert.True(t, errors.Is(err, models.ErrUnknownWorkoutType), "err = %v", err)
}
