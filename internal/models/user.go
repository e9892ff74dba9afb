// ABOUTME: User model with the six daily goal targets.
// ABOUTME: Users are created at onboarding and only their goals change afterwards.
package models

import (
	"fmt"
	"time"
)

// Goals are a user's daily targets.
type Goals struct {
	Calories       float64 `json:"calories" yaml:"calories"`
	Protein        float64 `json:"protein" yaml:"protein"`
	Carbs          float64 `json:"carbs" yaml:"carbs"`
	Fat            float64 `json:"fat" yaml:"fat"`
	Sugar          float64 `json:"sugar" yaml:"sugar"`
	WorkoutMinutes float64 `json:"workout_minutes" yaml:"workout_minutes"`
}

// DefaultGoals are applied to users created without explicit targets.
var DefaultGoals = Goals{
	Calories:       2000,
	Protein:        150,
	Carbs:          250,
	Fat:            65,
	Sugar:          50,
	WorkoutMinutes: 30,
}

// Validate checks every goal is a finite, non-negative number.
func (g Goals) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"goals.calories", g.Calories},
		{"goals.protein", g.Protein},
		{"goals.carbs", g.Carbs},
		{"goals.fat", g.Fat},
		{"goals.sugar", g.Sugar},
		{"goals.workout_minutes", g.WorkoutMinutes},
	}
	for _, f := range fields {
		if err := CheckAmount(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// User is an account that owns meals, workouts and daily progress rows.
type User struct {
	ID          int64     `json:"id" yaml:"id"`
	Username    string    `json:"username" yaml:"username"`
	DisplayName string    `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Goals       Goals     `json:"goals" yaml:"goals"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewUser creates a User with default goals.
func NewUser(username string) *User {
	return &User{
		Username:  username,
		Goals:     DefaultGoals,
		CreatedAt: time.Now(),
	}
}

// WithDisplayName sets the display name.
func (u *User) WithDisplayName(name string) *User {
	u.DisplayName = name
	return u
}

// WithGoals replaces the goal targets.
func (u *User) WithGoals(g Goals) *User {
	u.Goals = g
	return u
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	c := *u
	return &c
}

func (u *User) String() string {
	return fmt.Sprintf("%s (#%d)", u.Username, u.ID)
}
