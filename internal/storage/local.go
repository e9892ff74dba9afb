// ABOUTME: Client-local Repository on an embedded badger key-value store.
// ABOUTME: Records are JSON values under typed key prefixes with secondary day indexes.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/dailylog/internal/logging"
	"github.com/harperreed/dailylog/internal/models"
)

const (
	userPrefix              = "user:"
	usernamePrefix          = "username:"
	foodItemPrefix          = "food_item:"
	exercisePrefix          = "exercise:"
	foodSuggestionPrefix    = "food_suggestion:"
	workoutSuggestionPrefix = "workout_suggestion:"
	mealPrefix              = "meal:"
	workoutPrefix           = "workout:"
	progressPrefix          = "progress:"
	mealDayIndexPrefix      = "idx:meal:"
	workoutDayIndexPrefix   = "idx:workout:"
	sequencePrefix          = "seq:"

	sequenceBandwidth = 100
)

// LocalStore keeps records in a badger database on the local filesystem.
type LocalStore struct {
	db  *badger.DB
	log *log.Logger

	// mu serializes writers so read-modify-write transactions never conflict.
	mu   sync.Mutex
	seqs map[string]*badger.Sequence
}

// OpenLocal opens or creates a badger store in dir.
func OpenLocal(dir string, logger *log.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	logger = logging.OrDiscard(logger)
	opts := badger.DefaultOptions(dir).WithLogger(logging.Badger{L: logger})
	return openLocal(opts, logger)
}

// OpenLocalInMemory opens a badger store that never touches disk.
func OpenLocalInMemory(logger *log.Logger) (*LocalStore, error) {
	logger = logging.OrDiscard(logger)
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(logging.Badger{L: logger})
	return openLocal(opts, logger)
}

func openLocal(opts badger.Options, logger *log.Logger) (*LocalStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return &LocalStore{
		db:   db,
		log:  logger,
		seqs: make(map[string]*badger.Sequence),
	}, nil
}

// Close releases leased id ranges and closes the database.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for name, seq := range s.seqs {
		if err := seq.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release %s sequence: %w", name, err))
		}
	}
	s.seqs = make(map[string]*badger.Sequence)
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close local store: %w", err))
	}
	return errors.Join(errs...)
}

// nextID must be called with mu held.
func (s *LocalStore) nextID(table string) (int64, error) {
	seq, ok := s.seqs[table]
	if !ok {
		var err error
		seq, err = s.db.GetSequence([]byte(sequencePrefix+table), sequenceBandwidth)
		if err != nil {
			return 0, fmt.Errorf("open %s sequence: %w", table, err)
		}
		s.seqs[table] = seq
	}
	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", table, err)
	}
	// Sequences start at zero; ids start at one.
	return int64(n) + 1, nil
}

func idKey(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

func dayIndexPrefix(prefix string, userID int64, day string) string {
	return fmt.Sprintf("%s%020d:%s:", prefix, userID, day)
}

func dayIndexKey(prefix string, userID int64, day string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", dayIndexPrefix(prefix, userID, day), id))
}

func progressKeyBytes(userID int64, day string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", progressPrefix, userID, day))
}

func usernameKey(username string) []byte {
	return []byte(usernamePrefix + strings.ToLower(username))
}

// getJSON decodes the value at key into a new T, returning nil when the key is absent.
func getJSON[T any](txn *badger.Txn, key []byte) (*T, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set(key, data)
}

// listJSON decodes every value under prefix in key order.
func listJSON[T any](txn *badger.Txn, prefix string) ([]*T, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var out []*T
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		data, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// indexedIDs returns the record ids stored under a day index prefix.
func indexedIDs(txn *badger.Txn, prefix string) ([]int64, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []int64
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		suffix := strings.TrimPrefix(string(it.Item().Key()), prefix)
		id, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse index key %q: %w", it.Item().Key(), err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// create stores v under a freshly allocated id for table.
func (s *LocalStore) create(table, prefix string, assign func(id int64) interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.nextID(table)
	if err != nil {
		return err
	}
	v := assign(id)
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, idKey(prefix, id), v)
	})
}

// ===== Users =====

func (s *LocalStore) CreateUser(u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := newUserRecord(u)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(usernameKey(rec.Username)); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		id, err := s.nextID("users")
		if err != nil {
			return err
		}
		rec.ID = id
		if err := txn.Set(usernameKey(rec.Username), []byte(strconv.FormatInt(id, 10))); err != nil {
			return err
		}
		return setJSON(txn, idKey(userPrefix, id), rec)
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return rec, nil
}

func (s *LocalStore) GetUser(id int64) (*models.User, error) {
	var u *models.User
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		u, err = getJSON[models.User](txn, idKey(userPrefix, id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *LocalStore) GetUserByUsername(username string) (*models.User, error) {
	var u *models.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("parse username index: %w", err)
		}
		u, err = getJSON[models.User](txn, idKey(userPrefix, id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (s *LocalStore) ListUsers() ([]*models.User, error) {
	return viewList[models.User](s, userPrefix, "list users")
}

func (s *LocalStore) UpdateUserGoals(id int64, goals models.Goals) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var u *models.User
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		u, err = getJSON[models.User](txn, idKey(userPrefix, id))
		if err != nil || u == nil {
			return err
		}
		u.Goals = goals
		return setJSON(txn, idKey(userPrefix, id), u)
	})
	if err != nil {
		return nil, fmt.Errorf("update user goals: %w", err)
	}
	return u, nil
}

// viewList is listJSON inside its own read transaction.
func viewList[T any](s *LocalStore, prefix, op string) ([]*T, error) {
	var out []*T
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = listJSON[T](txn, prefix)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// viewGet is getJSON inside its own read transaction.
func viewGet[T any](s *LocalStore, key []byte, op string) (*T, error) {
	var out *T
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = getJSON[T](txn, key)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// ===== Catalogs =====

func (s *LocalStore) CreateFoodItem(f *models.FoodItem) (*models.FoodItem, error) {
	rec := newFoodItemRecord(f)
	err := s.create("food_items", foodItemPrefix, func(id int64) interface{} {
		rec.ID = id
		return rec
	})
	if err != nil {
		return nil, fmt.Errorf("create food item: %w", err)
	}
	return rec, nil
}

func (s *LocalStore) GetFoodItem(id int64) (*models.FoodItem, error) {
	return viewGet[models.FoodItem](s, idKey(foodItemPrefix, id), "get food item")
}

func (s *LocalStore) ListFoodItems() ([]*models.FoodItem, error) {
	return viewList[models.FoodItem](s, foodItemPrefix, "list food items")
}

func (s *LocalStore) CreateExercise(e *models.Exercise) (*models.Exercise, error) {
	rec := newExerciseRecord(e)
	err := s.create("exercises", exercisePrefix, func(id int64) interface{} {
		rec.ID = id
		return rec
	})
	if err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return rec, nil
}

func (s *LocalStore) GetExercise(id int64) (*models.Exercise, error) {
	return viewGet[models.Exercise](s, idKey(exercisePrefix, id), "get exercise")
}

func (s *LocalStore) ListExercises() ([]*models.Exercise, error) {
	return viewList[models.Exercise](s, exercisePrefix, "list exercises")
}

func (s *LocalStore) CreateFoodSuggestion(fs *models.FoodSuggestion) (*models.FoodSuggestion, error) {
	rec := *fs
	err := s.create("food_suggestions", foodSuggestionPrefix, func(id int64) interface{} {
		rec.ID = id
		return &rec
	})
	if err != nil {
		return nil, fmt.Errorf("create food suggestion: %w", err)
	}
	return &rec, nil
}

func (s *LocalStore) GetFoodSuggestion(id int64) (*models.FoodSuggestion, error) {
	return viewGet[models.FoodSuggestion](s, idKey(foodSuggestionPrefix, id), "get food suggestion")
}

func (s *LocalStore) ListFoodSuggestions() ([]*models.FoodSuggestion, error) {
	return viewList[models.FoodSuggestion](s, foodSuggestionPrefix, "list food suggestions")
}

func (s *LocalStore) CreateWorkoutSuggestion(ws *models.WorkoutSuggestion) (*models.WorkoutSuggestion, error) {
	rec := *ws
	err := s.create("workout_suggestions", workoutSuggestionPrefix, func(id int64) interface{} {
		rec.ID = id
		return &rec
	})
	if err != nil {
		return nil, fmt.Errorf("create workout suggestion: %w", err)
	}
	return &rec, nil
}

func (s *LocalStore) GetWorkoutSuggestion(id int64) (*models.WorkoutSuggestion, error) {
	return viewGet[models.WorkoutSuggestion](s, idKey(workoutSuggestionPrefix, id), "get workout suggestion")
}

func (s *LocalStore) ListWorkoutSuggestions() ([]*models.WorkoutSuggestion, error) {
	return viewList[models.WorkoutSuggestion](s, workoutSuggestionPrefix, "list workout suggestions")
}

// ===== Meals =====

func (s *LocalStore) CreateMeal(m *models.Meal) (*models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := newMealRecord(m)
	id, err := s.nextID("meals")
	if err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	rec.ID = id
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, idKey(mealPrefix, id), rec); err != nil {
			return err
		}
		return txn.Set(dayIndexKey(mealDayIndexPrefix, rec.UserID, models.DayKey(rec.Date), id), nil)
	})
	if err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return rec, nil
}

func (s *LocalStore) GetMeal(id int64) (*models.Meal, error) {
	return viewGet[models.Meal](s, idKey(mealPrefix, id), "get meal")
}

func (s *LocalStore) ListMeals(userID *int64) ([]*models.Meal, error) {
	all, err := viewList[models.Meal](s, mealPrefix, "list meals")
	if err != nil || userID == nil {
		return all, err
	}
	var out []*models.Meal
	for _, m := range all {
		if m.UserID == *userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *LocalStore) ListMealsByDate(userID int64, day time.Time) ([]*models.Meal, error) {
	var out []*models.Meal
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := indexedIDs(txn, dayIndexPrefix(mealDayIndexPrefix, userID, models.DayKey(day)))
		if err != nil {
			return err
		}
		for _, id := range ids {
			m, err := getJSON[models.Meal](txn, idKey(mealPrefix, id))
			if err != nil {
				return err
			}
			if m != nil {
				out = append(out, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list meals by date: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessByDateThenID(out[i].Date, out[j].Date, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *LocalStore) DeleteMeal(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := s.db.Update(func(txn *badger.Txn) error {
		m, err := getJSON[models.Meal](txn, idKey(mealPrefix, id))
		if err != nil || m == nil {
			return err
		}
		found = true
		if err := txn.Delete(dayIndexKey(mealDayIndexPrefix, m.UserID, models.DayKey(m.Date), id)); err != nil {
			return err
		}
		return txn.Delete(idKey(mealPrefix, id))
	})
	if err != nil {
		return false, fmt.Errorf("delete meal: %w", err)
	}
	return found, nil
}

// ===== Workouts =====

func (s *LocalStore) CreateWorkout(w *models.Workout) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := newWorkoutRecord(w)
	id, err := s.nextID("workouts")
	if err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	rec.ID = id
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, idKey(workoutPrefix, id), rec); err != nil {
			return err
		}
		return txn.Set(dayIndexKey(workoutDayIndexPrefix, rec.UserID, models.DayKey(rec.Date), id), nil)
	})
	if err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	return rec, nil
}

func (s *LocalStore) GetWorkout(id int64) (*models.Workout, error) {
	return viewGet[models.Workout](s, idKey(workoutPrefix, id), "get workout")
}

func (s *LocalStore) ListWorkouts(userID *int64) ([]*models.Workout, error) {
	all, err := viewList[models.Workout](s, workoutPrefix, "list workouts")
	if err != nil || userID == nil {
		return all, err
	}
	var out []*models.Workout
	for _, w := range all {
		if w.UserID == *userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *LocalStore) ListWorkoutsByDate(userID int64, day time.Time) ([]*models.Workout, error) {
	var out []*models.Workout
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := indexedIDs(txn, dayIndexPrefix(workoutDayIndexPrefix, userID, models.DayKey(day)))
		if err != nil {
			return err
		}
		for _, id := range ids {
			w, err := getJSON[models.Workout](txn, idKey(workoutPrefix, id))
			if err != nil {
				return err
			}
			if w != nil {
				out = append(out, w)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list workouts by date: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessByDateThenID(out[i].Date, out[j].Date, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *LocalStore) DeleteWorkout(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := s.db.Update(func(txn *badger.Txn) error {
		w, err := getJSON[models.Workout](txn, idKey(workoutPrefix, id))
		if err != nil || w == nil {
			return err
		}
		found = true
		if err := txn.Delete(dayIndexKey(workoutDayIndexPrefix, w.UserID, models.DayKey(w.Date), id)); err != nil {
			return err
		}
		return txn.Delete(idKey(workoutPrefix, id))
	})
	if err != nil {
		return false, fmt.Errorf("delete workout: %w", err)
	}
	return found, nil
}

// ===== Daily progress =====

func (s *LocalStore) GetDailyProgress(userID int64, day time.Time) (*models.DailyProgress, error) {
	return viewGet[models.DailyProgress](s, progressKeyBytes(userID, models.DayKey(day)), "get daily progress")
}

func (s *LocalStore) PutDailyProgress(p *models.DailyProgress) (*models.DailyProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := newProgressRecord(p)
	key := progressKeyBytes(rec.UserID, rec.Key())
	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := getJSON[models.DailyProgress](txn, key)
		if err != nil {
			return err
		}
		if existing != nil {
			rec.ID = existing.ID
		} else if rec.ID, err = s.nextID("daily_progress"); err != nil {
			return err
		}
		return setJSON(txn, key, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("put daily progress: %w", err)
	}
	return rec, nil
}

func (s *LocalStore) ListDailyProgress(userID int64) ([]*models.DailyProgress, error) {
	// Day keys are ISO dates, so key order is day order.
	return viewList[models.DailyProgress](s, fmt.Sprintf("%s%020d:", progressPrefix, userID), "list daily progress")
}

var _ Repository = (*LocalStore)(nil)
