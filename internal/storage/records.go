// ABOUTME: Copy-and-normalize helpers applied by every backend before a write.
// ABOUTME: Keeps caller values untouched and timestamps identical across backends.
package storage

import (
	"time"

	"github.com/harperreed/dailylog/internal/models"
)

func newUserRecord(u *models.User) *models.User {
	c := u.Clone()
	c.CreatedAt = createdAtOrNow(c.CreatedAt)
	return c
}

func newFoodItemRecord(f *models.FoodItem) *models.FoodItem {
	c := *f
	c.CreatedAt = createdAtOrNow(c.CreatedAt)
	return &c
}

func newExerciseRecord(e *models.Exercise) *models.Exercise {
	c := *e
	c.CreatedAt = createdAtOrNow(c.CreatedAt)
	return &c
}

func newMealRecord(m *models.Meal) *models.Meal {
	c := m.Clone()
	if len(c.Items) == 0 {
		c.Items = nil
	}
	c.Date = normalizeTime(c.Date)
	c.CreatedAt = createdAtOrNow(c.CreatedAt)
	return c
}

func newWorkoutRecord(w *models.Workout) *models.Workout {
	c := w.Clone()
	c.Date = normalizeTime(c.Date)
	c.CreatedAt = createdAtOrNow(c.CreatedAt)
	return c
}

func newProgressRecord(p *models.DailyProgress) *models.DailyProgress {
	c := p.Clone()
	c.Date = models.DayOf(c.Date)
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c
}
