// ABOUTME: Repository interface for dailylog record storage.
// ABOUTME: Defines the CRUD contract every backend (memory, SQLite, badger) satisfies.
package storage

import (
	"errors"
	"time"

	"github.com/harperreed/dailylog/internal/models"
)

// ErrUsernameTaken is returned when creating a user whose username already exists.
var ErrUsernameTaken = errors.New("username already taken")

// Repository defines the storage interface for dailylog data.
//
// Get methods return (nil, nil) when no record matches. Create methods assign
// a backend-unique, increasing id to a copy of their argument and return the
// stored copy; the argument itself is never modified. Delete methods report
// false when the id does not exist. Lists are ordered by id unless stated
// otherwise. Aggregate maintenance is not a storage concern: PutDailyProgress
// writes exactly the row it is given.
type Repository interface {
	// User operations
	CreateUser(u *models.User) (*models.User, error)
	GetUser(id int64) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	ListUsers() ([]*models.User, error)
	UpdateUserGoals(id int64, goals models.Goals) (*models.User, error)

	// Catalog operations
	CreateFoodItem(f *models.FoodItem) (*models.FoodItem, error)
	GetFoodItem(id int64) (*models.FoodItem, error)
	ListFoodItems() ([]*models.FoodItem, error)
	CreateExercise(e *models.Exercise) (*models.Exercise, error)
	GetExercise(id int64) (*models.Exercise, error)
	ListExercises() ([]*models.Exercise, error)
	CreateFoodSuggestion(s *models.FoodSuggestion) (*models.FoodSuggestion, error)
	GetFoodSuggestion(id int64) (*models.FoodSuggestion, error)
	ListFoodSuggestions() ([]*models.FoodSuggestion, error)
	CreateWorkoutSuggestion(s *models.WorkoutSuggestion) (*models.WorkoutSuggestion, error)
	GetWorkoutSuggestion(id int64) (*models.WorkoutSuggestion, error)
	ListWorkoutSuggestions() ([]*models.WorkoutSuggestion, error)

	// Meal operations. ListMealsByDate orders by date, then id.
	CreateMeal(m *models.Meal) (*models.Meal, error)
	GetMeal(id int64) (*models.Meal, error)
	ListMeals(userID *int64) ([]*models.Meal, error)
	ListMealsByDate(userID int64, day time.Time) ([]*models.Meal, error)
	DeleteMeal(id int64) (bool, error)

	// Workout operations. ListWorkoutsByDate orders by date, then id.
	CreateWorkout(w *models.Workout) (*models.Workout, error)
	GetWorkout(id int64) (*models.Workout, error)
	ListWorkouts(userID *int64) ([]*models.Workout, error)
	ListWorkoutsByDate(userID int64, day time.Time) ([]*models.Workout, error)
	DeleteWorkout(id int64) (bool, error)

	// Daily progress operations. Rows are keyed by (user, UTC day);
	// PutDailyProgress inserts or replaces the row for that key. ListDailyProgress
	// orders by day.
	GetDailyProgress(userID int64, day time.Time) (*models.DailyProgress, error)
	PutDailyProgress(p *models.DailyProgress) (*models.DailyProgress, error)
	ListDailyProgress(userID int64) ([]*models.DailyProgress, error)

	// Lifecycle
	Close() error
}

// Atomic is implemented by backends whose writers may live in other processes.
// Atomically runs fn against a Repository bound to one transaction; nothing fn
// wrote is kept unless it returns nil.
type Atomic interface {
	Atomically(fn func(Repository) error) error
}

// normalizeTime strips location and monotonic clock so every backend returns equal values.
func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC()
}

func createdAtOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// lessByDateThenID orders same-day records the way every backend reports them.
func lessByDateThenID(ad, bd time.Time, aid, bid int64) bool {
	if !ad.Equal(bd) {
		return ad.Before(bd)
	}
	return aid < bid
}
