// ABOUTME: Export and import of a whole repository as one document.
// ABOUTME: Supports JSON, YAML, and a Markdown daily summary; imports remap user ids.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/dailylog/internal/models"
)

// ExportVersion is the document format version written by GetAllData.
const ExportVersion = "1.0"

// ExportData represents the full export format for dailylog data.
type ExportData struct {
	Version            string                      `json:"version" yaml:"version"`
	ExportedAt         time.Time                   `json:"exported_at" yaml:"exported_at"`
	Tool               string                      `json:"tool" yaml:"tool"`
	Users              []*models.User              `json:"users" yaml:"users"`
	FoodItems          []*models.FoodItem          `json:"food_items,omitempty" yaml:"food_items,omitempty"`
	Exercises          []*models.Exercise          `json:"exercises,omitempty" yaml:"exercises,omitempty"`
	FoodSuggestions    []*models.FoodSuggestion    `json:"food_suggestions,omitempty" yaml:"food_suggestions,omitempty"`
	WorkoutSuggestions []*models.WorkoutSuggestion `json:"workout_suggestions,omitempty" yaml:"workout_suggestions,omitempty"`
	Meals              []*models.Meal              `json:"meals" yaml:"meals"`
	Workouts           []*models.Workout           `json:"workouts" yaml:"workouts"`
	DailyProgress      []*models.DailyProgress     `json:"daily_progress" yaml:"daily_progress"`
}

// GetAllData reads every record from r.
func GetAllData(r Repository) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       "dailylog",
	}

	var err error
	if data.Users, err = r.ListUsers(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if data.FoodItems, err = r.ListFoodItems(); err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}
	if data.Exercises, err = r.ListExercises(); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if data.FoodSuggestions, err = r.ListFoodSuggestions(); err != nil {
		return nil, fmt.Errorf("list food suggestions: %w", err)
	}
	if data.WorkoutSuggestions, err = r.ListWorkoutSuggestions(); err != nil {
		return nil, fmt.Errorf("list workout suggestions: %w", err)
	}
	if data.Meals, err = r.ListMeals(nil); err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	if data.Workouts, err = r.ListWorkouts(nil); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	for _, u := range data.Users {
		rows, err := r.ListDailyProgress(u.ID)
		if err != nil {
			return nil, fmt.Errorf("list daily progress for user %d: %w", u.ID, err)
		}
		data.DailyProgress = append(data.DailyProgress, rows...)
	}
	return data, nil
}

// ExportJSON exports all data as indented JSON.
func ExportJSON(r Repository) ([]byte, error) {
	data, err := GetAllData(r)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func ExportYAML(r Repository) ([]byte, error) {
	data, err := GetAllData(r)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown renders one user's daily progress as a Markdown table, newest day last.
// Days before since are skipped when since is non-nil.
func ExportMarkdown(r Repository, userID int64, since *time.Time) (string, error) {
	u, err := r.GetUser(userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return "", fmt.Errorf("user %d not found", userID)
	}
	rows, err := r.ListDailyProgress(userID)
	if err != nil {
		return "", fmt.Errorf("list daily progress: %w", err)
	}

	var sb strings.Builder
	now := time.Now().UTC()
	sb.WriteString(fmt.Sprintf("# Daily Log - %s\n\n", u))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))
	sb.WriteString("| Day | Calories | Protein | Carbs | Fat | Sugar | Workout min | Burned | Rowed m |\n")
	sb.WriteString("|-----|----------|---------|-------|-----|-------|-------------|--------|---------|\n")
	for _, p := range rows {
		if since != nil && p.Date.Before(models.DayOf(*since)) {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %.0f | %.1f | %.1f | %.1f | %.1f | %.1f | %.0f | %.0f |\n",
			p.Key(),
			p.CaloriesConsumed, p.ProteinConsumed, p.CarbsConsumed, p.FatConsumed, p.SugarConsumed,
			p.WorkoutMinutes, p.CaloriesBurned, p.RowingMeters))
	}
	return sb.String(), nil
}

// ParseExport decodes an export document. format is "json" or "yaml".
func ParseExport(raw []byte, format string) (*ExportData, error) {
	var data ExportData
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	return &data, nil
}

// ImportData writes every record in data into r.
//
// Records get fresh ids from r. Meals, workouts and progress rows follow their
// owner to the new user id. A user whose username already exists in r is
// merged into that user instead of being created.
func ImportData(r Repository, data *ExportData) (*MigrateSummary, error) {
	summary := &MigrateSummary{}
	userIDs := make(map[int64]int64, len(data.Users))

	for _, u := range data.Users {
		existing, err := r.GetUserByUsername(u.Username)
		if err != nil {
			return nil, fmt.Errorf("import user %s: %w", u.Username, err)
		}
		if existing != nil {
			userIDs[u.ID] = existing.ID
			continue
		}
		created, err := r.CreateUser(u)
		if err != nil {
			return nil, fmt.Errorf("import user %s: %w", u.Username, err)
		}
		userIDs[u.ID] = created.ID
		summary.Users++
	}

	owner := func(kind string, id, userID int64) (int64, error) {
		newID, ok := userIDs[userID]
		if !ok {
			return 0, fmt.Errorf("import %s %d: %w", kind, id, errUnknownOwner(userID))
		}
		return newID, nil
	}

	for _, f := range data.FoodItems {
		if _, err := r.CreateFoodItem(f); err != nil {
			return nil, fmt.Errorf("import food item %d: %w", f.ID, err)
		}
		summary.FoodItems++
	}
	for _, e := range data.Exercises {
		if _, err := r.CreateExercise(e); err != nil {
			return nil, fmt.Errorf("import exercise %d: %w", e.ID, err)
		}
		summary.Exercises++
	}
	for _, s := range data.FoodSuggestions {
		if _, err := r.CreateFoodSuggestion(s); err != nil {
			return nil, fmt.Errorf("import food suggestion %d: %w", s.ID, err)
		}
		summary.Suggestions++
	}
	for _, s := range data.WorkoutSuggestions {
		if _, err := r.CreateWorkoutSuggestion(s); err != nil {
			return nil, fmt.Errorf("import workout suggestion %d: %w", s.ID, err)
		}
		summary.Suggestions++
	}

	for _, m := range data.Meals {
		uid, err := owner("meal", m.ID, m.UserID)
		if err != nil {
			return nil, err
		}
		c := m.Clone()
		c.UserID = uid
		if _, err := r.CreateMeal(c); err != nil {
			return nil, fmt.Errorf("import meal %d: %w", m.ID, err)
		}
		summary.Meals++
	}
	for _, w := range data.Workouts {
		uid, err := owner("workout", w.ID, w.UserID)
		if err != nil {
			return nil, err
		}
		c := w.Clone()
		c.UserID = uid
		if _, err := r.CreateWorkout(c); err != nil {
			return nil, fmt.Errorf("import workout %d: %w", w.ID, err)
		}
		summary.Workouts++
	}
	for _, p := range data.DailyProgress {
		uid, err := owner("daily progress", p.ID, p.UserID)
		if err != nil {
			return nil, err
		}
		c := p.Clone()
		c.UserID = uid
		if _, err := r.PutDailyProgress(c); err != nil {
			return nil, fmt.Errorf("import daily progress %s: %w", p.Key(), err)
		}
		summary.DailyProgress++
	}

	return summary, nil
}

// ErrUnknownOwner is returned by ImportData for records whose user is not in the document.
var ErrUnknownOwner = errors.New("record owner not in export")

func errUnknownOwner(userID int64) error {
	return fmt.Errorf("%w: user %d", ErrUnknownOwner, userID)
}
