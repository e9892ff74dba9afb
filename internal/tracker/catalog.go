// ABOUTME: Catalog operations: food items, exercises, and the suggestion lists.
// ABOUTME: Catalog entries feed meal line items and workout calorie estimates.
package tracker

import (
	"fmt"
	"strings"

	"github.com/harperreed/dailylog/internal/models"
)

// CreateFoodItem validates and stores a food item.
func (t *Tracker) CreateFoodItem(f *models.FoodItem) (*models.FoodItem, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, fmt.Errorf("create food item: name must not be blank")
	}
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"calories", f.Calories},
		{"protein", f.Protein},
		{"carbs", f.Carbs},
		{"fat", f.Fat},
		{"sugar", f.Sugar},
	} {
		if err := models.CheckAmount(v.name, v.value); err != nil {
			return nil, err
		}
	}
	created, err := t.repo.CreateFoodItem(f)
	if err != nil {
		return nil, fmt.Errorf("create food item: %w", err)
	}
	return created, nil
}

// ListFoodItems returns the food catalog.
func (t *Tracker) ListFoodItems() ([]*models.FoodItem, error) {
	return t.repo.ListFoodItems()
}

// CreateExercise validates and stores an exercise.
func (t *Tracker) CreateExercise(e *models.Exercise) (*models.Exercise, error) {
	if strings.TrimSpace(e.Name) == "" {
		return nil, fmt.Errorf("create exercise: name must not be blank")
	}
	if !models.IsValidWorkoutType(string(e.Type)) {
		return nil, fmt.Errorf("create exercise: %w: %q", models.ErrUnknownWorkoutType, e.Type)
	}
	if err := models.CheckAmount("calories_per_minute", e.CaloriesPerMinute); err != nil {
		return nil, err
	}
	created, err := t.repo.CreateExercise(e)
	if err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return created, nil
}

// ListExercises returns the exercise catalog.
func (t *Tracker) ListExercises() ([]*models.Exercise, error) {
	return t.repo.ListExercises()
}

// FoodItemLine builds a meal line item from a catalog food.
func (t *Tracker) FoodItemLine(foodID int64, servings float64) (models.MealItem, error) {
	if err := models.CheckAmount("servings", servings); err != nil {
		return models.MealItem{}, err
	}
	f, err := t.repo.GetFoodItem(foodID)
	if err != nil {
		return models.MealItem{}, fmt.Errorf("get food item: %w", err)
	}
	if f == nil {
		return models.MealItem{}, fmt.Errorf("food item %d not found", foodID)
	}
	return f.MealItem(servings), nil
}

// ExerciseCalories estimates calories burned doing a catalog exercise.
func (t *Tracker) ExerciseCalories(exerciseID int64, durationMinutes float64) (*models.Exercise, float64, error) {
	if err := models.CheckAmount("duration_minutes", durationMinutes); err != nil {
		return nil, 0, err
	}
	e, err := t.repo.GetExercise(exerciseID)
	if err != nil {
		return nil, 0, fmt.Errorf("get exercise: %w", err)
	}
	if e == nil {
		return nil, 0, fmt.Errorf("exercise %d not found", exerciseID)
	}
	return e, e.CaloriesFor(durationMinutes), nil
}

// Suggestions is the full suggestion catalog.
type Suggestions struct {
	Foods    []*models.FoodSuggestion    `json:"foods"`
	Workouts []*models.WorkoutSuggestion `json:"workouts"`
}

// ListSuggestions returns both suggestion catalogs.
func (t *Tracker) ListSuggestions() (*Suggestions, error) {
	foods, err := t.repo.ListFoodSuggestions()
	if err != nil {
		return nil, fmt.Errorf("list food suggestions: %w", err)
	}
	workouts, err := t.repo.ListWorkoutSuggestions()
	if err != nil {
		return nil, fmt.Errorf("list workout suggestions: %w", err)
	}
	return &Suggestions{Foods: foods, Workouts: workouts}, nil
}

// SeedSuggestions stores the built-in suggestion catalogs when both are empty.
// It reports how many entries were added.
func (t *Tracker) SeedSuggestions() (int, error) {
	existing, err := t.ListSuggestions()
	if err != nil {
		return 0, err
	}
	if len(existing.Foods) > 0 || len(existing.Workouts) > 0 {
		return 0, nil
	}

	n := 0
	for _, s := range models.DefaultFoodSuggestions() {
		s := s
		if _, err := t.repo.CreateFoodSuggestion(&s); err != nil {
			return n, fmt.Errorf("seed food suggestion %s: %w", s.Name, err)
		}
		n++
	}
	for _, s := range models.DefaultWorkoutSuggestions() {
		s := s
		if _, err := t.repo.CreateWorkoutSuggestion(&s); err != nil {
			return n, fmt.Errorf("seed workout suggestion %s: %w", s.Name, err)
		}
		n++
	}
	t.log.Info("seeded suggestions", "count", n)
	return n, nil
}
