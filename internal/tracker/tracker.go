// ABOUTME: Tracker keeps each user's DailyProgress consistent with their meals and workouts.
// ABOUTME: Every write locks its (user, day) bucket and re-derives the aggregate from source records.
package tracker

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/dailylog/internal/logging"
	"github.com/harperreed/dailylog/internal/models"
	"github.com/harperreed/dailylog/internal/rowing"
	"github.com/harperreed/dailylog/internal/storage"
)

var (
	// ErrUnknownUser is returned when a write names a user that does not exist.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidUsername is returned for blank usernames.
	ErrInvalidUsername = errors.New("username must not be blank")
)

// Tracker is the operation surface over a Repository.
type Tracker struct {
	repo  storage.Repository
	log   *log.Logger
	locks *bucketLocks
	now   func() time.Time
}

// New returns a Tracker over repo. A nil logger discards output.
func New(repo storage.Repository, logger *log.Logger) *Tracker {
	return &Tracker{
		repo:  repo,
		log:   logging.OrDiscard(logger),
		locks: newBucketLocks(),
		now:   time.Now,
	}
}

// Repository returns the underlying store.
func (t *Tracker) Repository() storage.Repository {
	return t.repo
}

// ===== Users =====

// CreateUser validates and stores a new user. Zero goals are replaced by the defaults.
func (t *Tracker) CreateUser(u *models.User) (*models.User, error) {
	c := u.Clone()
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		return nil, ErrInvalidUsername
	}
	if c.Goals == (models.Goals{}) {
		c.Goals = models.DefaultGoals
	}
	if err := c.Goals.Validate(); err != nil {
		t.log.Warn("rejected user", "username", c.Username, "err", err)
		return nil, err
	}
	created, err := t.repo.CreateUser(c)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	t.log.Info("created user", "user", created.ID, "username", created.Username)
	return created, nil
}

// GetUser returns the user with id, or ErrUnknownUser.
func (t *Tracker) GetUser(id int64) (*models.User, error) {
	u, err := t.repo.GetUser(id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUser, id)
	}
	return u, nil
}

// LookupUser resolves a numeric id or a username.
func (t *Tracker) LookupUser(ref string) (*models.User, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return t.GetUser(id)
	}
	u, err := t.repo.GetUserByUsername(ref)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, ref)
	}
	return u, nil
}

// ListUsers returns every user ordered by id.
func (t *Tracker) ListUsers() ([]*models.User, error) {
	return t.repo.ListUsers()
}

// UpdateUserGoals replaces a user's daily targets.
func (t *Tracker) UpdateUserGoals(userID int64, goals models.Goals) (*models.User, error) {
	if err := goals.Validate(); err != nil {
		t.log.Warn("rejected goals", "user", userID, "err", err)
		return nil, err
	}
	u, err := t.repo.UpdateUserGoals(userID, goals)
	if err != nil {
		return nil, fmt.Errorf("update user goals: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUser, userID)
	}
	return u, nil
}

func (t *Tracker) requireUser(id int64) error {
	_, err := t.GetUser(id)
	return err
}

// ===== Meals =====

// CreateMeal stores a meal and updates its day's progress.
//
// Totals left at zero are derived from the items; non-zero totals must match
// them. The stored meal is returned; the argument is not modified.
func (t *Tracker) CreateMeal(m *models.Meal) (*models.Meal, error) {
	if m == nil {
		return nil, errors.New("create meal: nil meal")
	}
	c := m.Clone()
	if c.Date.IsZero() {
		c.Date = t.now()
	}
	if err := c.Prepare(); err != nil {
		t.log.Warn("rejected meal", "user", c.UserID, "title", c.Title, "err", err)
		return nil, err
	}
	if err := t.requireUser(c.UserID); err != nil {
		return nil, err
	}

	var created *models.Meal
	err := t.inBucket(c.UserID, c.Date, func(repo storage.Repository) error {
		var err error
		if created, err = repo.CreateMeal(c); err != nil {
			return fmt.Errorf("create meal: %w", err)
		}
		if _, err := t.recompute(repo, c.UserID, c.Date); err != nil {
			if _, rbErr := repo.DeleteMeal(created.ID); rbErr != nil {
				t.log.Error("rollback meal", "meal", created.ID, "err", rbErr)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteMeal removes a meal and updates its day's progress. A missing id returns false.
//
// On a transactional backend a failed recompute keeps the meal. Elsewhere the
// meal stays deleted, DeleteMeal returns true with the error, and
// RebuildDailyProgress repairs the day.
func (t *Tracker) DeleteMeal(id int64) (bool, error) {
	m, err := t.repo.GetMeal(id)
	if err != nil {
		return false, fmt.Errorf("get meal: %w", err)
	}
	if m == nil {
		return false, nil
	}

	var deleted bool
	err = t.inBucket(m.UserID, m.Date, func(repo storage.Repository) error {
		ok, err := repo.DeleteMeal(id)
		if err != nil {
			return fmt.Errorf("delete meal: %w", err)
		}
		if !ok {
			// Lost a race with another delete; that caller recomputed.
			return nil
		}
		deleted = true
		_, err = t.recompute(repo, m.UserID, m.Date)
		return err
	})
	return t.deleteResult(deleted, err, "meal", id, m.UserID, m.Date)
}

// GetMealsByDate lists a user's meals on the UTC day containing date.
func (t *Tracker) GetMealsByDate(userID int64, date time.Time) ([]*models.Meal, error) {
	return t.repo.ListMealsByDate(userID, date)
}

// ===== Workouts =====

// CreateWorkout stores a workout and updates its day's progress.
// Rowing workouts get whichever of distance or split is missing filled in first.
func (t *Tracker) CreateWorkout(w *models.Workout) (*models.Workout, error) {
	if w == nil {
		return nil, errors.New("create workout: nil workout")
	}
	c := w.Clone()
	if c.Date.IsZero() {
		c.Date = t.now()
	}
	if err := c.Validate(); err != nil {
		t.log.Warn("rejected workout", "user", c.UserID, "type", c.Type, "err", err)
		return nil, err
	}
	if d, ok := c.Rowing(); ok {
		resolved, err := rowing.Resolve(c.DurationMinutes, d)
		if err != nil {
			t.log.Warn("rejected workout", "user", c.UserID, "type", c.Type, "err", err)
			return nil, err
		}
		c.Details = resolved
	}
	if err := t.requireUser(c.UserID); err != nil {
		return nil, err
	}

	var created *models.Workout
	err := t.inBucket(c.UserID, c.Date, func(repo storage.Repository) error {
		var err error
		if created, err = repo.CreateWorkout(c); err != nil {
			return fmt.Errorf("create workout: %w", err)
		}
		if _, err := t.recompute(repo, c.UserID, c.Date); err != nil {
			if _, rbErr := repo.DeleteWorkout(created.ID); rbErr != nil {
				t.log.Error("rollback workout", "workout", created.ID, "err", rbErr)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteWorkout removes a workout and updates its day's progress. A missing id
// returns false. A failed recompute is reported as for DeleteMeal.
func (t *Tracker) DeleteWorkout(id int64) (bool, error) {
	w, err := t.repo.GetWorkout(id)
	if err != nil {
		return false, fmt.Errorf("get workout: %w", err)
	}
	if w == nil {
		return false, nil
	}

	var deleted bool
	err = t.inBucket(w.UserID, w.Date, func(repo storage.Repository) error {
		ok, err := repo.DeleteWorkout(id)
		if err != nil {
			return fmt.Errorf("delete workout: %w", err)
		}
		if !ok {
			return nil
		}
		deleted = true
		_, err = t.recompute(repo, w.UserID, w.Date)
		return err
	})
	return t.deleteResult(deleted, err, "workout", id, w.UserID, w.Date)
}

// deleteResult reports whether a delete stuck. Without a transaction a record
// removed before a failed recompute stays removed and its day is left stale.
func (t *Tracker) deleteResult(deleted bool, err error, kind string, id, userID int64, day time.Time) (bool, error) {
	if err == nil {
		return deleted, nil
	}
	if deleted && !t.atomic() {
		t.log.Error("daily progress stale after delete; rebuild repairs it",
			kind, id, "user", userID, "day", models.DayKey(day), "err", err)
		return true, err
	}
	return false, err
}

// GetWorkoutsByDate lists a user's workouts on the UTC day containing date.
func (t *Tracker) GetWorkoutsByDate(userID int64, date time.Time) ([]*models.Workout, error) {
	return t.repo.ListWorkoutsByDate(userID, date)
}

// ===== Daily progress =====

// GetDailyProgress returns the stored row for the day, or an all-zero row when none exists.
func (t *Tracker) GetDailyProgress(userID int64, date time.Time) (*models.DailyProgress, error) {
	p, err := t.repo.GetDailyProgress(userID, date)
	if err != nil {
		return nil, fmt.Errorf("get daily progress: %w", err)
	}
	if p == nil {
		return models.NewDailyProgress(userID, date), nil
	}
	return p, nil
}

// RebuildDailyProgress recomputes every day the user has records or a progress row for.
// Rows are returned ordered by day.
func (t *Tracker) RebuildDailyProgress(userID int64) ([]*models.DailyProgress, error) {
	if err := t.requireUser(userID); err != nil {
		return nil, err
	}

	days := make(map[string]time.Time)
	meals, err := t.repo.ListMeals(&userID)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	for _, m := range meals {
		days[models.DayKey(m.Date)] = models.DayOf(m.Date)
	}
	workouts, err := t.repo.ListWorkouts(&userID)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	for _, w := range workouts {
		days[models.DayKey(w.Date)] = models.DayOf(w.Date)
	}
	rows, err := t.repo.ListDailyProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("list daily progress: %w", err)
	}
	for _, p := range rows {
		days[p.Key()] = p.Date
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*models.DailyProgress, 0, len(keys))
	for _, k := range keys {
		p, err := t.recomputeLocked(userID, days[k])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	t.log.Info("rebuilt daily progress", "user", userID, "days", len(out))
	return out, nil
}

func (t *Tracker) recomputeLocked(userID int64, day time.Time) (*models.DailyProgress, error) {
	var p *models.DailyProgress
	err := t.inBucket(userID, day, func(repo storage.Repository) error {
		var err error
		p, err = t.recompute(repo, userID, day)
		return err
	})
	return p, err
}

// inBucket runs fn holding the bucket lock. On an Atomic backend fn also runs
// in one transaction, which serializes writers in other processes.
func (t *Tracker) inBucket(userID int64, day time.Time, fn func(storage.Repository) error) error {
	unlock := t.locks.lock(userID, day)
	defer unlock()
	if a, ok := t.repo.(storage.Atomic); ok {
		return a.Atomically(fn)
	}
	return fn(t.repo)
}

func (t *Tracker) atomic() bool {
	_, ok := t.repo.(storage.Atomic)
	return ok
}

// recompute derives the bucket's row from its meals and workouts and stores it
// through repo. The caller must be inside inBucket.
func (t *Tracker) recompute(repo storage.Repository, userID int64, day time.Time) (*models.DailyProgress, error) {
	meals, err := repo.ListMealsByDate(userID, day)
	if err != nil {
		return nil, fmt.Errorf("recompute progress: %w", err)
	}
	workouts, err := repo.ListWorkoutsByDate(userID, day)
	if err != nil {
		return nil, fmt.Errorf("recompute progress: %w", err)
	}

	p := models.NewDailyProgress(userID, day)
	for _, m := range meals {
		p.AddMeal(m)
	}
	for _, w := range workouts {
		p.AddWorkout(w)
	}
	if err := p.Validate(); err != nil {
		t.log.Error("aggregate out of range", "user", userID, "day", p.Key(), "err", err)
		return nil, err
	}
	p.UpdatedAt = t.now()

	stored, err := repo.PutDailyProgress(p)
	if err != nil {
		return nil, fmt.Errorf("store progress: %w", err)
	}
	t.log.Debug("recomputed progress", "user", userID, "day", p.Key(),
		"meals", len(meals), "workouts", len(workouts), "calories", p.CaloriesConsumed)
	return stored, nil
}
