// ABOUTME: Catalog entities: food items, exercises, and the static suggestion lists.
// ABOUTME: Catalog records are immutable once created and feed meal/workout composition.
package models

import "time"

// FoodItem is nutrition for one serving of a food.
type FoodItem struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Brand       string    `json:"brand,omitempty" yaml:"brand,omitempty"`
	ServingSize string    `json:"serving_size,omitempty" yaml:"serving_size,omitempty"`
	Calories    float64   `json:"calories" yaml:"calories"`
	Protein     float64   `json:"protein" yaml:"protein"`
	Carbs       float64   `json:"carbs" yaml:"carbs"`
	Fat         float64   `json:"fat" yaml:"fat"`
	Sugar       float64   `json:"sugar" yaml:"sugar"`
	Barcode     string    `json:"barcode,omitempty" yaml:"barcode,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// MealItem composes a line item for the given number of servings.
func (f *FoodItem) MealItem(servings float64) MealItem {
	carbs := f.Carbs * servings
	fat := f.Fat * servings
	sugar := f.Sugar * servings
	return MealItem{
		Name:     f.Name,
		Calories: f.Calories * servings,
		Protein:  f.Protein * servings,
		Carbs:    &carbs,
		Fat:      &fat,
		Sugar:    &sugar,
	}
}

// Exercise is a catalog activity with a fixed burn rate.
type Exercise struct {
	ID                int64       `json:"id" yaml:"id"`
	Name              string      `json:"name" yaml:"name"`
	Type              WorkoutType `json:"type" yaml:"type"`
	CaloriesPerMinute float64     `json:"calories_per_minute" yaml:"calories_per_minute"`
	CreatedAt         time.Time   `json:"created_at" yaml:"created_at"`
}

// CaloriesFor returns the calories burned over durationMinutes.
func (e *Exercise) CaloriesFor(durationMinutes float64) float64 {
	return e.CaloriesPerMinute * durationMinutes
}

// FoodSuggestion is a read-only catalog entry offered when composing meals.
type FoodSuggestion struct {
	ID       int64   `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
	Sugar    float64 `json:"sugar" yaml:"sugar"`
}

// WorkoutSuggestion is a read-only catalog entry offered when composing workouts.
type WorkoutSuggestion struct {
	ID              int64       `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	Type            WorkoutType `json:"type" yaml:"type"`
	DurationMinutes float64     `json:"duration_minutes" yaml:"duration_minutes"`
	Description     string      `json:"description,omitempty" yaml:"description,omitempty"`
}

// DefaultFoodSuggestions is the built-in food suggestion catalog.
func DefaultFoodSuggestions() []FoodSuggestion {
	return []FoodSuggestion{
		{Name: "Greek yogurt", Category: "breakfast", Calories: 100, Protein: 17, Carbs: 6, Fat: 0.7, Sugar: 4},
		{Name: "Oatmeal", Category: "breakfast", Calories: 150, Protein: 5, Carbs: 27, Fat: 3, Sugar: 1},
		{Name: "Grilled chicken breast", Category: "protein", Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, Sugar: 0},
		{Name: "Salmon fillet", Category: "protein", Calories: 208, Protein: 20, Carbs: 0, Fat: 13, Sugar: 0},
		{Name: "Brown rice", Category: "grains", Calories: 216, Protein: 5, Carbs: 45, Fat: 1.8, Sugar: 0.7},
		{Name: "Banana", Category: "fruit", Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4, Sugar: 14},
		{Name: "Almonds (28g)", Category: "snack", Calories: 164, Protein: 6, Carbs: 6, Fat: 14, Sugar: 1.2},
		{Name: "Broccoli", Category: "vegetable", Calories: 55, Protein: 3.7, Carbs: 11, Fat: 0.6, Sugar: 2.2},
	}
}

// DefaultWorkoutSuggestions is the built-in workout suggestion catalog.
func DefaultWorkoutSuggestions() []WorkoutSuggestion {
	return []WorkoutSuggestion{
		{Name: "Easy run", Type: WorkoutCardio, DurationMinutes: 30, Description: "Conversational pace"},
		{Name: "Tabata intervals", Type: WorkoutHIIT, DurationMinutes: 20, Description: "8 rounds of 20s on, 10s off"},
		{Name: "Full body strength", Type: WorkoutStrength, DurationMinutes: 45, Description: "Squat, bench, row"},
		{Name: "Mobility flow", Type: WorkoutFlexibility, DurationMinutes: 15},
		{Name: "Steady state row", Type: WorkoutRowing, DurationMinutes: 30, Description: "Split around 2:10"},
		{Name: "2k test", Type: WorkoutRowing, DurationMinutes: 8, Description: "All out 2000m"},
	}
}
