// ABOUTME: In-memory Repository backed by mutex-guarded maps.
// ABOUTME: Used for tests and throwaway sessions; nothing survives Close.
package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/dailylog/internal/models"
)

type progressKey struct {
	userID int64
	day    string
}

// MemoryStore keeps every record in process memory.
type MemoryStore struct {
	mu sync.RWMutex

	nextID map[string]int64

	users              map[int64]*models.User
	foodItems          map[int64]*models.FoodItem
	exercises          map[int64]*models.Exercise
	foodSuggestions    map[int64]*models.FoodSuggestion
	workoutSuggestions map[int64]*models.WorkoutSuggestion
	meals              map[int64]*models.Meal
	workouts           map[int64]*models.Workout
	progress           map[progressKey]*models.DailyProgress
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:             make(map[string]int64),
		users:              make(map[int64]*models.User),
		foodItems:          make(map[int64]*models.FoodItem),
		exercises:          make(map[int64]*models.Exercise),
		foodSuggestions:    make(map[int64]*models.FoodSuggestion),
		workoutSuggestions: make(map[int64]*models.WorkoutSuggestion),
		meals:              make(map[int64]*models.Meal),
		workouts:           make(map[int64]*models.Workout),
		progress:           make(map[progressKey]*models.DailyProgress),
	}
}

// Close releases nothing; the store stays usable.
func (s *MemoryStore) Close() error {
	return nil
}

// allocID must be called with mu held for writing.
func (s *MemoryStore) allocID(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// sortedValues returns map values ordered by id.
func sortedValues[T any](m map[int64]*T, clone func(*T) *T) []*T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(m[id]))
	}
	return out
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

// ===== Users =====

func (s *MemoryStore) CreateUser(u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Username)
	for _, existing := range s.users {
		if strings.ToLower(existing.Username) == key {
			return nil, ErrUsernameTaken
		}
	}
	rec := newUserRecord(u)
	rec.ID = s.allocID("users")
	s.users[rec.ID] = rec
	return rec.Clone(), nil
}

func (s *MemoryStore) GetUser(id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return u.Clone(), nil
	}
	return nil, nil
}

func (s *MemoryStore) GetUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := strings.ToLower(username)
	for _, u := range s.users {
		if strings.ToLower(u.Username) == key {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListUsers() ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.users, (*models.User).Clone), nil
}

func (s *MemoryStore) UpdateUserGoals(id int64, goals models.Goals) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u.Goals = goals
	return u.Clone(), nil
}

// ===== Catalogs =====

func (s *MemoryStore) CreateFoodItem(f *models.FoodItem) (*models.FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := newFoodItemRecord(f)
	rec.ID = s.allocID("food_items")
	s.foodItems[rec.ID] = rec
	return copyOf(rec), nil
}

func (s *MemoryStore) GetFoodItem(id int64) (*models.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.foodItems[id]; ok {
		return copyOf(f), nil
	}
	return nil, nil
}

func (s *MemoryStore) ListFoodItems() ([]*models.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.foodItems, copyOf[models.FoodItem]), nil
}

func (s *MemoryStore) CreateExercise(e *models.Exercise) (*models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := newExerciseRecord(e)
	rec.ID = s.allocID("exercises")
	s.exercises[rec.ID] = rec
	return copyOf(rec), nil
}

func (s *MemoryStore) GetExercise(id int64) (*models.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.exercises[id]; ok {
		return copyOf(e), nil
	}
	return nil, nil
}

func (s *MemoryStore) ListExercises() ([]*models.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.exercises, copyOf[models.Exercise]), nil
}

func (s *MemoryStore) CreateFoodSuggestion(fs *models.FoodSuggestion) (*models.FoodSuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := copyOf(fs)
	rec.ID = s.allocID("food_suggestions")
	s.foodSuggestions[rec.ID] = rec
	return copyOf(rec), nil
}

func (s *MemoryStore) GetFoodSuggestion(id int64) (*models.FoodSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if fs, ok := s.foodSuggestions[id]; ok {
		return copyOf(fs), nil
	}
	return nil, nil
}

func (s *MemoryStore) ListFoodSuggestions() ([]*models.FoodSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.foodSuggestions, copyOf[models.FoodSuggestion]), nil
}

func (s *MemoryStore) CreateWorkoutSuggestion(ws *models.WorkoutSuggestion) (*models.WorkoutSuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := copyOf(ws)
	rec.ID = s.allocID("workout_suggestions")
	s.workoutSuggestions[rec.ID] = rec
	return copyOf(rec), nil
}

func (s *MemoryStore) GetWorkoutSuggestion(id int64) (*models.WorkoutSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ws, ok := s.workoutSuggestions[id]; ok {
		return copyOf(ws), nil
	}
	return nil, nil
}

func (s *MemoryStore) ListWorkoutSuggestions() ([]*models.WorkoutSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.workoutSuggestions, copyOf[models.WorkoutSuggestion]), nil
}

// ===== Meals =====

func (s *MemoryStore) CreateMeal(m *models.Meal) (*models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := newMealRecord(m)
	rec.ID = s.allocID("meals")
	s.meals[rec.ID] = rec
	return rec.Clone(), nil
}

func (s *MemoryStore) GetMeal(id int64) (*models.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.meals[id]; ok {
		return m.Clone(), nil
	}
	return nil, nil
}

func (s *MemoryStore) ListMeals(userID *int64) ([]*models.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := sortedValues(s.meals, (*models.Meal).Clone)
	if userID == nil {
		return all, nil
	}
	out := make([]*models.Meal, 0, len(all))
	for _, m := range all {
		if m.UserID == *userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListMealsByDate(userID int64, day time.Time) ([]*models.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := models.DayKey(day)
	var out []*models.Meal
	for _, m := range s.meals {
		if m.UserID == userID && models.DayKey(m.Date) == key {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return lessByDateThenID(out[i].Date, out[j].Date, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *MemoryStore) DeleteMeal(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meals[id]; !ok {
		return false, nil
	}
	delete(s.meals, id)
	return true, nil
}

// ===== Workouts =====

func (s *MemoryStore) CreateWorkout(w *models.Workout) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := newWorkoutRecord(w)
	rec.ID = s.allocID("workouts")
	s.workouts[rec.ID] = rec
	return rec.Clone(), nil
}

func (s *MemoryStore) GetWorkout(id int64) (*models.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.workouts[id]; ok {
		return w.Clone(), nil
	}
	return nil, nil
}

func (s *MemoryStore) ListWorkouts(userID *int64) ([]*models.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := sortedValues(s.workouts, (*models.Workout).Clone)
	if userID == nil {
		return all, nil
	}
	out := make([]*models.Workout, 0, len(all))
	for _, w := range all {
		if w.UserID == *userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListWorkoutsByDate(userID int64, day time.Time) ([]*models.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := models.DayKey(day)
	var out []*models.Workout
	for _, w := range s.workouts {
		if w.UserID == userID && models.DayKey(w.Date) == key {
			out = append(out, w.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return lessByDateThenID(out[i].Date, out[j].Date, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *MemoryStore) DeleteWorkout(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workouts[id]; !ok {
		return false, nil
	}
	delete(s.workouts, id)
	return true, nil
}

// ===== Daily progress =====

func (s *MemoryStore) GetDailyProgress(userID int64, day time.Time) (*models.DailyProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.progress[progressKey{userID, models.DayKey(day)}]; ok {
		return p.Clone(), nil
	}
	return nil, nil
}

func (s *MemoryStore) PutDailyProgress(p *models.DailyProgress) (*models.DailyProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := newProgressRecord(p)
	key := progressKey{rec.UserID, rec.Key()}
	if existing, ok := s.progress[key]; ok {
		rec.ID = existing.ID
	} else {
		rec.ID = s.allocID("daily_progress")
	}
	s.progress[key] = rec
	return rec.Clone(), nil
}

func (s *MemoryStore) ListDailyProgress(userID int64) ([]*models.DailyProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.DailyProgress
	for key, p := range s.progress {
		if key.userID == userID {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

var _ Repository = (*MemoryStore)(nil)
