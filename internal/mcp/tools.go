// ABOUTME: MCP tool implementations for dailylog.
// ABOUTME: Provides user onboarding, meal and workout logging, and daily progress queries.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/dailylog/internal/duration"
	"github.com/harperreed/dailylog/internal/models"
	"github.com/harperreed/dailylog/internal/tracker"
)

func (s *Server) registerTools() {
	// create_user
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_user",
		Description: "Create a user with optional daily goals (unset goals use the defaults)",
	}, s.handleCreateUser)

	// set_goals
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_goals",
		Description: "Change a user's daily goals; unset goals keep their current value",
	}, s.handleSetGoals)

	// add_meal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_meal",
		Description: "Log a meal made of line items or catalog foods and update the day's totals",
	}, s.handleAddMeal)

	// delete_meal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_meal",
		Description: "Delete a meal by ID and update the day's totals",
	}, s.handleDeleteMeal)

	// add_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_workout",
		Description: "Log a workout. Rowing workouts take meters or a 500m split and derive the other",
	}, s.handleAddWorkout)

	// delete_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout by ID and update the day's totals",
	}, s.handleDeleteWorkout)

	// get_daily_progress
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_daily_progress",
		Description: "Get a user's running totals for a day",
	}, s.handleGetDailyProgress)

	// list_meals
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_meals",
		Description: "List a user's meals for a day",
	}, s.handleListMeals)

	// list_workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List a user's workouts for a day",
	}, s.handleListWorkouts)

	// get_goal_progress
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_goal_progress",
		Description: "Compare a user's day against their goals",
	}, s.handleGetGoalProgress)
}

// Tool input/output types

type goalsInput struct {
	Calories       float64 `json:"calories,omitempty" jsonschema:"Daily calorie goal (kcal)"`
	Protein        float64 `json:"protein,omitempty" jsonschema:"Daily protein goal (g)"`
	Carbs          float64 `json:"carbs,omitempty" jsonschema:"Daily carbohydrate goal (g)"`
	Fat            float64 `json:"fat,omitempty" jsonschema:"Daily fat goal (g)"`
	Sugar          float64 `json:"sugar,omitempty" jsonschema:"Daily sugar goal (g)"`
	WorkoutMinutes float64 `json:"workout_minutes,omitempty" jsonschema:"Daily workout goal (minutes)"`
}

// over returns base with every non-zero input goal applied.
func (g goalsInput) over(base models.Goals) models.Goals {
	set := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	set(&base.Calories, g.Calories)
	set(&base.Protein, g.Protein)
	set(&base.Carbs, g.Carbs)
	set(&base.Fat, g.Fat)
	set(&base.Sugar, g.Sugar)
	set(&base.WorkoutMinutes, g.WorkoutMinutes)
	return base
}

type createUserInput struct {
	Username    string `json:"username" jsonschema:"Unique username"`
	DisplayName string     `json:"display_name,omitempty" jsonschema:"Name to show"`
	Goals       goalsInput `json:"goals,omitempty" jsonschema:"Daily goals; unset goals use the defaults"`
}

type setGoalsInput struct {
	User  string     `json:"user" jsonschema:"User ID or username"`
	Goals goalsInput `json:"goals" jsonschema:"Goals to change; unset goals keep their current value"`
}

type userOutput struct {
	ID       int64        `json:"id"`
	Username string       `json:"username"`
	Goals    models.Goals `json:"goals"`
	Message  string       `json:"message"`
}

type mealItemInput struct {
	Name     string   `json:"name,omitempty" jsonschema:"Item name (ignored when food_id is set)"`
	Calories float64  `json:"calories,omitempty" jsonschema:"Calories (kcal)"`
	Protein  float64  `json:"protein,omitempty" jsonschema:"Protein (g)"`
	Carbs    *float64 `json:"carbs,omitempty" jsonschema:"Carbohydrates (g)"`
	Fat      *float64 `json:"fat,omitempty" jsonschema:"Fat (g)"`
	Sugar    *float64 `json:"sugar,omitempty" jsonschema:"Sugar (g)"`
	FoodID   int64    `json:"food_id,omitempty" jsonschema:"Catalog food ID to take nutrition from"`
	Servings float64  `json:"servings,omitempty" jsonschema:"Servings of the catalog food (default 1)"`
}

type addMealInput struct {
	User              string          `json:"user" jsonschema:"User ID or username"`
	Title             string          `json:"title,omitempty" jsonschema:"Meal title (breakfast, lunch, etc.)"`
	Date              string          `json:"date,omitempty" jsonschema:"When it was eaten (RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD; UTC), defaults to now"`
	Items             []mealItemInput `json:"items" jsonschema:"Line items"`
	IngredientQuality int             `json:"ingredient_quality,omitempty" jsonschema:"Ingredient quality from 1 (processed) to 4 (whole foods)"`
	Notes             string          `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type progressOutput struct {
	UserID           int64   `json:"user_id"`
	Day              string  `json:"day"`
	CaloriesConsumed float64 `json:"calories_consumed"`
	ProteinConsumed  float64 `json:"protein_consumed"`
	CarbsConsumed    float64 `json:"carbs_consumed"`
	FatConsumed      float64 `json:"fat_consumed"`
	SugarConsumed    float64 `json:"sugar_consumed"`
	WorkoutMinutes   float64 `json:"workout_minutes"`
	CaloriesBurned   float64 `json:"calories_burned"`
	RowingMeters     float64 `json:"rowing_meters"`
}

func toProgressOutput(p *models.DailyProgress) progressOutput {
	return progressOutput{
		UserID:           p.UserID,
		Day:              p.Key(),
		CaloriesConsumed: p.CaloriesConsumed,
		ProteinConsumed:  p.ProteinConsumed,
		CarbsConsumed:    p.CarbsConsumed,
		FatConsumed:      p.FatConsumed,
		SugarConsumed:    p.SugarConsumed,
		WorkoutMinutes:   p.WorkoutMinutes,
		CaloriesBurned:   p.CaloriesBurned,
		RowingMeters:     p.RowingMeters,
	}
}

type mealOutput struct {
	ID            int64          `json:"id"`
	Day           string         `json:"day"`
	TotalCalories float64        `json:"total_calories"`
	TotalProtein  float64        `json:"total_protein"`
	Progress      progressOutput `json:"progress"`
	Message       string         `json:"message"`
}

type deleteInput struct {
	ID int64 `json:"id" jsonschema:"Record ID"`
}

type deleteOutput struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

type addWorkoutInput struct {
	User           string   `json:"user" jsonschema:"User ID or username"`
	Type           string   `json:"type,omitempty" jsonschema:"Workout type (cardio, hiit, strength, flexibility, rowing); defaults to the exercise's type"`
	Date           string   `json:"date,omitempty" jsonschema:"When it happened (RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD; UTC), defaults to now"`
	Minutes        int      `json:"minutes,omitempty" jsonschema:"Duration minutes"`
	Seconds        int      `json:"seconds,omitempty" jsonschema:"Duration seconds (0-59)"`
	Milliseconds   int      `json:"milliseconds,omitempty" jsonschema:"Duration milliseconds (0-999)"`
	CaloriesBurned float64  `json:"calories_burned,omitempty" jsonschema:"Calories burned; estimated from exercise_id when unset"`
	ExerciseID     int64    `json:"exercise_id,omitempty" jsonschema:"Catalog exercise ID"`
	StartTime      string   `json:"start_time,omitempty" jsonschema:"Display start time (HH:MM)"`
	EndTime        string   `json:"end_time,omitempty" jsonschema:"Display end time (HH:MM)"`
	Notes          string   `json:"notes,omitempty" jsonschema:"Optional notes"`
	Distance       *float64 `json:"distance,omitempty" jsonschema:"Cardio distance"`
	Pace           string   `json:"pace,omitempty" jsonschema:"Cardio pace"`
	HeartRate      *int     `json:"heart_rate,omitempty" jsonschema:"Average heart rate (bpm)"`
	Sets           *int     `json:"sets,omitempty" jsonschema:"Strength sets"`
	Reps           *int     `json:"reps,omitempty" jsonschema:"Strength reps"`
	Weight         *float64 `json:"weight,omitempty" jsonschema:"Strength weight"`
	RowingMeters   *float64 `json:"rowing_meters,omitempty" jsonschema:"Rowing distance in meters"`
	RowingSplit    string   `json:"rowing_split,omitempty" jsonschema:"Rowing split per 500m (M:SS or M:SS.ff)"`
}

type workoutOutput struct {
	ID              int64          `json:"id"`
	Type            string         `json:"type"`
	Day             string         `json:"day"`
	DurationMinutes float64        `json:"duration_minutes"`
	Duration        string         `json:"duration"`
	CaloriesBurned  float64        `json:"calories_burned"`
	RowingMeters    *float64       `json:"rowing_meters,omitempty"`
	RowingSplit     string         `json:"rowing_split,omitempty"`
	Progress        progressOutput `json:"progress"`
	Message         string         `json:"message"`
}

type dayInput struct {
	User string `json:"user" jsonschema:"User ID or username"`
	Date string `json:"date,omitempty" jsonschema:"Day (YYYY-MM-DD or RFC 3339), defaults to today (UTC)"`
}

// Tool handlers

func (s *Server) handleCreateUser(ctx context.Context, req *mcp.CallToolRequest, input createUserInput) (*mcp.CallToolResult, userOutput, error) {
	u := models.NewUser(input.Username).
		WithDisplayName(input.DisplayName).
		WithGoals(input.Goals.over(models.DefaultGoals))

	created, err := s.tracker.CreateUser(u)
	if err != nil {
		return nil, userOutput{}, fmt.Errorf("failed to create user: %w", err)
	}

	return nil, userOutput{
		ID:       created.ID,
		Username: created.Username,
		Goals:    created.Goals,
		Message:  fmt.Sprintf("Created user %s (ID: %d)", created.Username, created.ID),
	}, nil
}

func (s *Server) handleSetGoals(ctx context.Context, req *mcp.CallToolRequest, input setGoalsInput) (*mcp.CallToolResult, userOutput, error) {
	u, err := s.tracker.LookupUser(input.User)
	if err != nil {
		return nil, userOutput{}, err
	}

	updated, err := s.tracker.UpdateUserGoals(u.ID, input.Goals.over(u.Goals))
	if err != nil {
		return nil, userOutput{}, fmt.Errorf("failed to update goals: %w", err)
	}

	return nil, userOutput{
		ID:       updated.ID,
		Username: updated.Username,
		Goals:    updated.Goals,
		Message:  fmt.Sprintf("Updated goals for %s", updated.Username),
	}, nil
}

func (s *Server) handleAddMeal(ctx context.Context, req *mcp.CallToolRequest, input addMealInput) (*mcp.CallToolResult, mealOutput, error) {
	u, err := s.tracker.LookupUser(input.User)
	if err != nil {
		return nil, mealOutput{}, err
	}
	at, err := models.ParseWhen(input.Date, time.Now())
	if err != nil {
		return nil, mealOutput{}, err
	}

	title := input.Title
	if title == "" {
		title = "Meal"
	}
	m := models.NewMeal(u.ID, title).
		WithDate(at).
		WithNotes(input.Notes).
		WithQuality(input.IngredientQuality)

	for _, it := range input.Items {
		if it.FoodID != 0 {
			servings := it.Servings
			if servings == 0 {
				servings = 1
			}
			line, err := s.tracker.FoodItemLine(it.FoodID, servings)
			if err != nil {
				return nil, mealOutput{}, err
			}
			m.AddItem(line)
			continue
		}
		m.AddItem(models.MealItem{
			Name:     it.Name,
			Calories: it.Calories,
			Protein:  it.Protein,
			Carbs:    it.Carbs,
			Fat:      it.Fat,
			Sugar:    it.Sugar,
		})
	}

	created, err := s.tracker.CreateMeal(m)
	if err != nil {
		return nil, mealOutput{}, fmt.Errorf("failed to create meal: %w", err)
	}
	p, err := s.tracker.GetDailyProgress(u.ID, created.Date)
	if err != nil {
		return nil, mealOutput{}, err
	}

	return nil, mealOutput{
		ID:            created.ID,
		Day:           models.DayKey(created.Date),
		TotalCalories: created.TotalCalories,
		TotalProtein:  created.TotalProtein,
		Progress:      toProgressOutput(p),
		Message: fmt.Sprintf("Added %s: %.0f kcal, %.1fg protein (ID: %d)",
			created.Title, created.TotalCalories, created.TotalProtein, created.ID),
	}, nil
}

func (s *Server) handleDeleteMeal(ctx context.Context, req *mcp.CallToolRequest, input deleteInput) (*mcp.CallToolResult, deleteOutput, error) {
	ok, err := s.tracker.DeleteMeal(input.ID)
	if err != nil {
		return nil, deleteOutput{}, fmt.Errorf("failed to delete meal: %w", err)
	}
	if !ok {
		return nil, deleteOutput{Message: fmt.Sprintf("No meal with ID %d", input.ID)}, nil
	}
	return nil, deleteOutput{Deleted: true, Message: fmt.Sprintf("Deleted meal: %d", input.ID)}, nil
}

func (s *Server) handleAddWorkout(ctx context.Context, req *mcp.CallToolRequest, input addWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	u, err := s.tracker.LookupUser(input.User)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	at, err := models.ParseWhen(input.Date, time.Now())
	if err != nil {
		return nil, workoutOutput{}, err
	}

	w, err := s.tracker.ComposeWorkout(tracker.WorkoutDraft{
		UserID:         u.ID,
		Type:           models.WorkoutType(input.Type),
		Date:           at,
		Minutes:        input.Minutes,
		Seconds:        input.Seconds,
		Milliseconds:   input.Milliseconds,
		CaloriesBurned: input.CaloriesBurned,
		ExerciseID:     input.ExerciseID,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		Notes:          input.Notes,
		Distance:       input.Distance,
		Pace:           input.Pace,
		HeartRate:      input.HeartRate,
		Sets:           input.Sets,
		Reps:           input.Reps,
		Weight:         input.Weight,
		RowingMeters:   input.RowingMeters,
		RowingSplit:    input.RowingSplit,
	})
	if err != nil {
		return nil, workoutOutput{}, err
	}

	created, err := s.tracker.CreateWorkout(w)
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to create workout: %w", err)
	}
	p, err := s.tracker.GetDailyProgress(u.ID, created.Date)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	parts, err := duration.Decompose(created.DurationMinutes)
	if err != nil {
		return nil, workoutOutput{}, err
	}

	out := workoutOutput{
		ID:              created.ID,
		Type:            string(created.Type),
		Day:             models.DayKey(created.Date),
		DurationMinutes: created.DurationMinutes,
		Duration:        parts.String(),
		CaloriesBurned:  created.CaloriesBurned,
		Progress:        toProgressOutput(p),
		Message:         fmt.Sprintf("Added %s workout, %s (ID: %d)", created.Type, parts, created.ID),
	}
	if d, ok := created.Rowing(); ok {
		out.RowingMeters = d.RowingMeters
		out.RowingSplit = d.RowingSplit
	}
	return nil, out, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input deleteInput) (*mcp.CallToolResult, deleteOutput, error) {
	ok, err := s.tracker.DeleteWorkout(input.ID)
	if err != nil {
		return nil, deleteOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}
	if !ok {
		return nil, deleteOutput{Message: fmt.Sprintf("No workout with ID %d", input.ID)}, nil
	}
	return nil, deleteOutput{Deleted: true, Message: fmt.Sprintf("Deleted workout: %d", input.ID)}, nil
}

// resolveDay looks up the user and the day a query names.
func (s *Server) resolveDay(input dayInput) (*models.User, time.Time, error) {
	u, err := s.tracker.LookupUser(input.User)
	if err != nil {
		return nil, time.Time{}, err
	}
	at, err := models.ParseWhen(input.Date, time.Now())
	if err != nil {
		return nil, time.Time{}, err
	}
	return u, at, nil
}

func (s *Server) handleGetDailyProgress(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, progressOutput, error) {
	u, at, err := s.resolveDay(input)
	if err != nil {
		return nil, progressOutput{}, err
	}
	p, err := s.tracker.GetDailyProgress(u.ID, at)
	if err != nil {
		return nil, progressOutput{}, err
	}
	return nil, toProgressOutput(p), nil
}

func (s *Server) handleListMeals(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, any, error) {
	u, at, err := s.resolveDay(input)
	if err != nil {
		return nil, nil, err
	}
	meals, err := s.tracker.GetMealsByDate(u.ID, at)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list meals: %w", err)
	}

	if len(meals) == 0 {
		return nil, map[string]interface{}{"message": "No meals found."}, nil
	}

	return nil, map[string]interface{}{"meals": meals}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, any, error) {
	u, at, err := s.resolveDay(input)
	if err != nil {
		return nil, nil, err
	}
	workouts, err := s.tracker.GetWorkoutsByDate(u.ID, at)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	if len(workouts) == 0 {
		return nil, map[string]interface{}{"message": "No workouts found."}, nil
	}

	return nil, map[string]interface{}{"workouts": workouts}, nil
}

func (s *Server) handleGetGoalProgress(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, any, error) {
	u, at, err := s.resolveDay(input)
	if err != nil {
		return nil, nil, err
	}
	gp, err := s.tracker.GetGoalProgress(u.ID, at)
	if err != nil {
		return nil, nil, err
	}
	return nil, gp, nil
}
