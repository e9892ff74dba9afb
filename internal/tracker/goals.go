// ABOUTME: Goal progress: a day's consumption measured against the user's targets.
// ABOUTME: Percentages are clamped to [0, 1]; a zero goal reports zero.
package tracker

import (
	"time"

	"github.com/harperreed/dailylog/internal/models"
)

// GoalStatus is one target and how much of it the day has used.
type GoalStatus struct {
	Name     string  `json:"name"`
	Consumed float64 `json:"consumed"`
	Goal     float64 `json:"goal"`
	Percent  float64 `json:"percent"`
}

// GoalProgress is a user's day measured against every goal.
type GoalProgress struct {
	UserID int64        `json:"user_id"`
	Day    string       `json:"day"`
	Goals  []GoalStatus `json:"goals"`
}

// GetGoalProgress compares the day's progress with the user's goals.
func (t *Tracker) GetGoalProgress(userID int64, date time.Time) (*GoalProgress, error) {
	u, err := t.GetUser(userID)
	if err != nil {
		return nil, err
	}
	p, err := t.GetDailyProgress(userID, date)
	if err != nil {
		return nil, err
	}

	g := u.Goals
	status := func(name string, consumed, goal float64) GoalStatus {
		return GoalStatus{Name: name, Consumed: consumed, Goal: goal, Percent: percent(consumed, goal)}
	}
	return &GoalProgress{
		UserID: userID,
		Day:    models.DayKey(date),
		Goals: []GoalStatus{
			status("calories", p.CaloriesConsumed, g.Calories),
			status("protein", p.ProteinConsumed, g.Protein),
			status("carbs", p.CarbsConsumed, g.Carbs),
			status("fat", p.FatConsumed, g.Fat),
			status("sugar", p.SugarConsumed, g.Sugar),
			status("workout_minutes", p.WorkoutMinutes, g.WorkoutMinutes),
		},
	}, nil
}

func percent(consumed, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	p := consumed / goal
	if p > 1 {
		return 1
	}
	return p
}
