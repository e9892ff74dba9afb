// ABOUTME: Tests for the Tracker's aggregate maintenance across all backends.
// ABOUTME: Covers the sum invariant, zero rows, rowing resolution, rejections, and concurrency.
package tracker

import (
	"errors"
	"math"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/dailylog/internal/models"
	"github.com/harperreed/dailylog/internal/storage"
)

var day = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

// forEachBackend runs fn against a fresh Tracker over every backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, tr *Tracker)) {
	t.Helper()
	backends := []struct {
		name string
		open func(t *testing.T) storage.Repository
	}{
		{"memory", func(t *testing.T) storage.Repository { return storage.NewMemoryStore() }},
		{"sqlite", func(t *testing.T) storage.Repository {
			db, err := storage.Open(filepath.Join(t.TempDir(), "dailylog.db"))
			require.NoError(t, err)
			return db
		}},
		{"local", func(t *testing.T) storage.Repository {
			s, err := storage.OpenLocalInMemory(nil)
			require.NoError(t, err)
			return s
		}},
	}
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			repo := b.open(t)
			t.Cleanup(func() { _ = repo.Close() })
			fn(t, New(repo, nil))
		})
	}
}

func setupUser(t *testing.T, tr *Tracker) *models.User {
	t.Helper()
	u, err := tr.CreateUser(models.NewUser("sam"))
	require.NoError(t, err)
	return u
}

func meal(userID int64, at time.Time, calories, protein float64) *models.Meal {
	return models.NewMeal(userID, "meal").
		WithDate(at).
		AddItem(models.MealItem{Name: "food", Calories: calories, Protein: protein})
}

func TestMealSequenceScenario(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		u := setupUser(t, tr)

		first, err := tr.CreateMeal(meal(u.ID, day.Add(8*time.Hour), 300, 20))
		require.NoError(t, err)
		p, err := tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Equal(t, 300.0, p.CaloriesConsumed)
		assert.Equal(t, 20.0, p.ProteinConsumed)

		_, err = tr.CreateMeal(meal(u.ID, day.Add(12*time.Hour), 200, 10))
		require.NoError(t, err)
		p, err = tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Equal(t, 500.0, p.CaloriesConsumed)
		assert.Equal(t, 30.0, p.ProteinConsumed)

		ok, err := tr.DeleteMeal(first.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		p, err = tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Equal(t, 200.0, p.CaloriesConsumed)
		assert.Equal(t, 10.0, p.ProteinConsumed)
	})
}

func TestSumInvariantUnderRandomSequence(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		u := setupUser(t, tr)
		rng := rand.New(rand.NewSource(7))

		live := map[int64][2]float64{}
		for i := 0; i < 40; i++ {
			if len(live) > 0 && rng.Intn(3) == 0 {
				for id := range live {
					ok, err := tr.DeleteMeal(id)
					require.NoError(t, err)
					require.True(t, ok)
					delete(live, id)
					break
				}
			} else {
				cal := float64(rng.Intn(900)) + 0.25
				pro := float64(rng.Intn(60))
				m, err := tr.CreateMeal(meal(u.ID, day.Add(time.Duration(rng.Intn(86400))*time.Second), cal, pro))
				require.NoError(t, err)
				live[m.ID] = [2]float64{cal, pro}
			}

			var wantCal, wantPro float64
			meals, err := tr.GetMealsByDate(u.ID, day)
			require.NoError(t, err)
			require.Len(t, meals, len(live))
			for _, m := range meals {
				wantCal += m.TotalCalories
				wantPro += m.TotalProtein
			}

			p, err := tr.GetDailyProgress(u.ID, day)
			require.NoError(t, err)
			assert.InDelta(t, wantCal, p.CaloriesConsumed, 1e-9, "step %d", i)
			assert.InDelta(t, wantPro, p.ProteinConsumed, 1e-9, "step %d", i)
			assert.GreaterOrEqual(t, p.CaloriesConsumed, 0.0)
		}
	})
}

func TestZeroRowSynthesis(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		u := setupUser(t, tr)
		p, err := tr.GetDailyProgress(u.ID, day.Add(15*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, u.ID, p.UserID)
		assert.True(t, p.Date.Equal(day))
		assert.True(t, p.SameTotals(models.NewDailyProgress(u.ID, day)))

		stored, err := tr.Repository().GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Nil(t, stored, "reads do not create rows")
	})
}

func TestDeleteMissingWorkoutLeavesProgress(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		u := setupUser(t, tr)
		_, err := tr.CreateWorkout(models.NewWorkout(u.ID, models.WorkoutCardio).WithDate(day).WithDuration(30).WithCalories(250))
		require.NoError(t, err)
		before, err := tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)

		ok, err := tr.DeleteWorkout(9999)
		require.NoError(t, err)
		assert.False(t, ok)

		after, err := tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.True(t, before.SameTotals(after))
		assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))

		ok, err = tr.DeleteMeal(9999)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestWorkoutAggregates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		u := setupUser(t, tr)

		meters := 5000.0
		row, err := tr.CreateWorkout(models.NewWorkout(u.ID, models.WorkoutRowing).
			WithDate(day.Add(7 * time.Hour)).
			WithDuration(25.5).
			WithCalories(320).
			WithDetails(&models.RowingDetails{RowingMeters: &meters}))
		require.NoError(t, err)
		d, ok := row.Rowing()
		require.True(t, ok)
		assert.Equal(t, "2:33.00", d.RowingSplit, "split derived from distance")

		split, err := tr.CreateWorkout(models.NewWorkout(u.ID, models.WorkoutRowing).
			WithDate(day.Add(18 * time.Hour)).
			WithDuration(10).
			WithDetails(&models.RowingDetails{RowingSplit: "2:00.00"}))
		require.NoError(t, err)
		got, ok := split.RowingMeters()
		require.True(t, ok)
		assert.Equal(t, 2500.0, got, "distance derived from split")

		// Cardio distance is not rowing distance.
		km := 5.0
		_, err = tr.CreateWorkout(models.NewWorkout(u.ID, models.WorkoutCardio).
			WithDate(day.Add(20 * time.Hour)).
			WithDuration(30).
			WithCalories(200).
			WithDetails(&models.CardioDetails{Distance: &km}))
		require.NoError(t, err)

		p, err := tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Equal(t, 65.5, p.WorkoutMinutes)
		assert.Equal(t, 520.0, p.CaloriesBurned)
		assert.Equal(t, 7500.0, p.RowingMeters)

		deleted, err := tr.DeleteWorkout(row.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
		p, err = tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Equal(t, 2500.0, p.RowingMeters)
		assert.Equal(t, 40.0, p.WorkoutMinutes)
	})
}

func TestMacroTotalsComeFromItems(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		u := setupUser(t, tr)
		carbs, fat, sugar := 40.0, 10.0, 5.0
		m := models.NewMeal(u.ID, "Bowl").WithDate(day).
			AddItem(models.MealItem{Name: "rice", Calories: 200, Protein: 4, Carbs: &carbs}).
			AddItem(models.MealItem{Name: "salmon", Calories: 250, Protein: 25, Fat: &fat, Sugar: &sugar})

		created, err := tr.CreateMeal(m)
		require.NoError(t, err)
		assert.Equal(t, 450.0, created.TotalCalories)
		assert.Equal(t, 29.0, created.TotalProtein)
		assert.Zero(t, m.TotalCalories, "argument not modified")

		p, err := tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Equal(t, 40.0, p.CarbsConsumed)
		assert.Equal(t, 10.0, p.FatConsumed)
		assert.Equal(t, 5.0, p.SugarConsumed)
	})
}

func TestRejectedWritesLeaveNoTrace(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		u := setupUser(t, tr)

		_, err := tr.CreateMeal(meal(u.ID, day, math.NaN(), 1))
		assert.ErrorIs(t, err, models.ErrComputation)
		var ce *models.ComputationError
		assert.True(t, errors.As(err, &ce))

		_, err = tr.CreateMeal(meal(u.ID, day, -5, 1))
		assert.ErrorIs(t, err, models.ErrComputation)

		bad := meal(u.ID, day, 100, 10)
		bad.TotalCalories = 999
		_, err = tr.CreateMeal(bad)
		assert.ErrorIs(t, err, models.ErrTotalsMismatch)

		_, err = tr.CreateWorkout(models.NewWorkout(u.ID, models.WorkoutCardio).WithDate(day).WithDuration(math.Inf(1)))
		assert.ErrorIs(t, err, models.ErrComputation)

		_, err = tr.CreateWorkout(models.NewWorkout(u.ID, models.WorkoutStrength).WithDate(day).
			WithDetails(&models.RowingDetails{}))
		assert.ErrorIs(t, err, models.ErrDetailsMismatch)

		_, err = tr.CreateWorkout(models.NewWorkout(u.ID, "yoga").WithDate(day))
		assert.ErrorIs(t, err, models.ErrUnknownWorkoutType)

		_, err = tr.CreateMeal(meal(u.ID+100, day, 100, 10))
		assert.ErrorIs(t, err, ErrUnknownUser)

		meals, err := tr.GetMealsByDate(u.ID, day)
		require.NoError(t, err)
		assert.Empty(t, meals)
		workouts, err := tr.GetWorkoutsByDate(u.ID, day)
		require.NoError(t, err)
		assert.Empty(t, workouts)
		stored, err := tr.Repository().GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}

func TestConcurrentCreatesLoseNothing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		u := setupUser(t, tr)

		const writers = 24
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				at := day.Add(time.Duration(i) * time.Minute)
				if i%2 == 0 {
					_, err := tr.CreateMeal(meal(u.ID, at, 100, 5))
					errs <- err
					return
				}
				_, err := tr.CreateWorkout(models.NewWorkout(u.ID, models.WorkoutHIIT).WithDate(at).WithDuration(10).WithCalories(50))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		p, err := tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Equal(t, 1200.0, p.CaloriesConsumed)
		assert.Equal(t, 60.0, p.ProteinConsumed)
		assert.Equal(t, 120.0, p.WorkoutMinutes)
		assert.Equal(t, 600.0, p.CaloriesBurned)
		assert.Zero(t, tr.locks.size(), "bucket locks released")
	})
}

func TestRebuildRepairsTamperedRows(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		u := setupUser(t, tr)
		_, err := tr.CreateMeal(meal(u.ID, day, 300, 20))
		require.NoError(t, err)
		_, err = tr.CreateMeal(meal(u.ID, day.AddDate(0, 0, 1), 150, 5))
		require.NoError(t, err)

		// Another tool wrote a wrong row, and a stale one for a day with no records.
		wrong := models.NewDailyProgress(u.ID, day)
		wrong.CaloriesConsumed = 12345
		_, err = tr.Repository().PutDailyProgress(wrong)
		require.NoError(t, err)
		stale := models.NewDailyProgress(u.ID, day.AddDate(0, 0, -3))
		stale.WorkoutMinutes = 90
		_, err = tr.Repository().PutDailyProgress(stale)
		require.NoError(t, err)

		rows, err := tr.RebuildDailyProgress(u.ID)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "2024-05-17", rows[0].Key())
		assert.Zero(t, rows[0].WorkoutMinutes)
		assert.Equal(t, 300.0, rows[1].CaloriesConsumed)
		assert.Equal(t, 150.0, rows[2].CaloriesConsumed)

		_, err = tr.RebuildDailyProgress(u.ID + 50)
		assert.ErrorIs(t, err, ErrUnknownUser)
	})
}

func TestUsers(t *testing.T) {
	tr := New(storage.NewMemoryStore(), nil)

	_, err := tr.CreateUser(models.NewUser("   "))
	assert.ErrorIs(t, err, ErrInvalidUsername)

	u, err := tr.CreateUser(&models.User{Username: " kim "})
	require.NoError(t, err)
	assert.Equal(t, "kim", u.Username)
	assert.Equal(t, models.DefaultGoals, u.Goals)

	_, err = tr.CreateUser(models.NewUser("kim"))
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)

	_, err = tr.CreateUser(models.NewUser("neg").WithGoals(models.Goals{Calories: -1}))
	assert.ErrorIs(t, err, models.ErrComputation)

	byName, err := tr.LookupUser("kim")
	require.NoError(t, err)
	byID, err := tr.LookupUser("1")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, byID.ID)
	_, err = tr.LookupUser("nobody")
	assert.ErrorIs(t, err, ErrUnknownUser)

	updated, err := tr.UpdateUserGoals(u.ID, models.Goals{Calories: 1800, WorkoutMinutes: 20})
	require.NoError(t, err)
	assert.Equal(t, 1800.0, updated.Goals.Calories)

	_, err = tr.UpdateUserGoals(u.ID, models.Goals{Protein: math.NaN()})
	assert.ErrorIs(t, err, models.ErrComputation)
	_, err = tr.UpdateUserGoals(77, models.DefaultGoals)
	assert.ErrorIs(t, err, ErrUnknownUser)

	users, err := tr.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGoalProgressClamps(t *testing.T) {
	tr := New(storage.NewMemoryStore(), nil)
	u, err := tr.CreateUser(models.NewUser("g").WithGoals(models.Goals{Calories: 2000, Protein: 10, WorkoutMinutes: 30}))
	require.NoError(t, err)

	_, err = tr.CreateMeal(meal(u.ID, day, 500, 40))
	require.NoError(t, err)

	gp, err := tr.GetGoalProgress(u.ID, day)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", gp.Day)
	require.Len(t, gp.Goals, 6)

	byName := map[string]GoalStatus{}
	for _, g := range gp.Goals {
		byName[g.Name] = g
	}
	assert.Equal(t, 0.25, byName["calories"].Percent)
	assert.Equal(t, 1.0, byName["protein"].Percent, "clamped")
	assert.Equal(t, 0.0, byName["carbs"].Percent, "zero goal")
	assert.Equal(t, 0.0, byName["workout_minutes"].Percent)

	_, err = tr.GetGoalProgress(999, day)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestCatalogAndSuggestions(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		n, err := tr.SeedSuggestions()
		require.NoError(t, err)
		assert.Equal(t, len(models.DefaultFoodSuggestions())+len(models.DefaultWorkoutSuggestions()), n)

		n, err = tr.SeedSuggestions()
		require.NoError(t, err)
		assert.Zero(t, n, "seeding twice adds nothing")

		s, err := tr.ListSuggestions()
		require.NoError(t, err)
		assert.Len(t, s.Foods, len(models.DefaultFoodSuggestions()))

		food, err := tr.CreateFoodItem(&models.FoodItem{Name: "Banana", Calories: 105, Protein: 1.3, Carbs: 27, Sugar: 14})
		require.NoError(t, err)
		item, err := tr.FoodItemLine(food.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 210.0, item.Calories)
		require.NotNil(t, item.Sugar)
		assert.Equal(t, 28.0, *item.Sugar)

		_, err = tr.CreateFoodItem(&models.FoodItem{Name: "Bad", Calories: -1})
		assert.ErrorIs(t, err, models.ErrComputation)
		_, err = tr.FoodItemLine(404, 1)
		assert.Error(t, err)

		ex, err := tr.CreateExercise(&models.Exercise{Name: "Erg", Type: models.WorkoutRowing, CaloriesPerMinute: 11})
		require.NoError(t, err)
		_, kcal, err := tr.ExerciseCalories(ex.ID, 20)
		require.NoError(t, err)
		assert.Equal(t, 220.0, kcal)

		_, err = tr.CreateExercise(&models.Exercise{Name: "Dance", Type: "disco"})
		assert.ErrorIs(t, err, models.ErrUnknownWorkoutType)

		foods, err := tr.ListFoodItems()
		require.NoError(t, err)
		assert.Len(t, foods, 1)
		exercises, err := tr.ListExercises()
		require.NoError(t, err)
		assert.Len(t, exercises, 1)
	})
}

func TestMigrationPreservesAggregates(t *testing.T) {
	src := New(storage.NewMemoryStore(), nil)
	u := setupUser(t, src)
	for i := 0; i < 5; i++ {
		_, err := src.CreateMeal(meal(u.ID, day.AddDate(0, 0, i%2), float64(100*(i+1)), 10))
		require.NoError(t, err)
	}

	dstRepo, err := storage.OpenLocalInMemory(nil)
	require.NoError(t, err)
	defer dstRepo.Close()
	_, err = storage.MigrateData(src.Repository(), dstRepo)
	require.NoError(t, err)

	dst := New(dstRepo, nil)
	moved, err := dst.LookupUser("sam")
	require.NoError(t, err)
	rebuilt, err := dst.RebuildDailyProgress(moved.ID)
	require.NoError(t, err)
	require.Len(t, rebuilt, 2)

	for _, p := range rebuilt {
		orig, err := src.GetDailyProgress(u.ID, p.Date)
		require.NoError(t, err)
		assert.True(t, orig.SameTotals(p), "day %s", p.Key())
	}
}

func TestTwoTrackersShareOneDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dailylog.db")
	first, err := storage.Open(path)
	require.NoError(t, err)
	defer first.Close()
	second, err := storage.Open(path)
	require.NoError(t, err)
	defer second.Close()

	// Each tracker has its own bucket locks, as two processes would.
	trackers := []*Tracker{New(first, nil), New(second, nil)}
	u := setupUser(t, trackers[0])

	const writers = 40
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			at := day.Add(time.Duration(i) * time.Minute)
			_, err := trackers[i%2].CreateMeal(meal(u.ID, at, float64(10+i), 1))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	meals, err := second.ListMealsByDate(u.ID, day)
	require.NoError(t, err)
	require.Len(t, meals, writers)
	var sum float64
	for _, m := range meals {
		sum += m.TotalCalories
	}

	for _, tr := range trackers {
		p, err := tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Equal(t, sum, p.CaloriesConsumed)
		assert.Equal(t, float64(writers), p.ProteinConsumed)
	}
}

// flakyProgress fails progress writes while failing is set.
type flakyProgress struct {
	storage.Repository
	failing bool
}

func (f *flakyProgress) PutDailyProgress(p *models.DailyProgress) (*models.DailyProgress, error) {
	if f.failing {
		return nil, errors.New("disk full")
	}
	return f.Repository.PutDailyProgress(p)
}

func TestDeleteWithFailedRecomputeIsRepairable(t *testing.T) {
	repo := &flakyProgress{Repository: storage.NewMemoryStore()}
	tr := New(repo, nil)
	u := setupUser(t, tr)

	kept, err := tr.CreateMeal(meal(u.ID, day, 300, 20))
	require.NoError(t, err)
	gone, err := tr.CreateMeal(meal(u.ID, day, 200, 10))
	require.NoError(t, err)

	repo.failing = true
	ok, err := tr.DeleteMeal(gone.ID)
	assert.True(t, ok, "the meal is deleted even though its day was not updated")
	assert.EqualError(t, err, "store progress: disk full")

	stale, err := tr.GetDailyProgress(u.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 500.0, stale.CaloriesConsumed)

	repo.failing = false
	_, err = tr.RebuildDailyProgress(u.ID)
	require.NoError(t, err)
	p, err := tr.GetDailyProgress(u.ID, day)
	require.NoError(t, err)
	assert.Equal(t, kept.TotalCalories, p.CaloriesConsumed)
}

func TestTypedNilDetailsAreIgnored(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tr *Tracker) {
		u := setupUser(t, tr)
		w := models.NewWorkout(u.ID, models.WorkoutRowing).WithDate(day).WithDuration(20)
		w.Details = (*models.RowingDetails)(nil)

		created, err := tr.CreateWorkout(w)
		require.NoError(t, err)
		assert.Nil(t, created.Details)

		p, err := tr.GetDailyProgress(u.ID, day)
		require.NoError(t, err)
		assert.Equal(t, 20.0, p.WorkoutMinutes)
		assert.Zero(t, p.RowingMeters)
	})
}
