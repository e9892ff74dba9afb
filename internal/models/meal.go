// ABOUTME: Meal and MealItem models for nutrition logging.
// ABOUTME: Meal totals are derived from line items; Prepare enforces that invariant.
package models

import (
	"fmt"
	"math"
	"time"
)

// totalsTolerance absorbs float noise when comparing supplied totals to item sums.
const totalsTolerance = 1e-6

// MealItem is one line of a meal.
type MealItem struct {
	Name     string   `json:"name" yaml:"name"`
	Calories float64  `json:"calories" yaml:"calories"`
	Protein  float64  `json:"protein,omitempty" yaml:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty" yaml:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty" yaml:"fat,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty" yaml:"sugar,omitempty"`
}

// Nutrients is a sum of nutrition values.
type Nutrients struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Sugar    float64
}

// Meal is a logged eating event owned by a user.
type Meal struct {
	ID                int64      `json:"id" yaml:"id"`
	UserID            int64      `json:"user_id" yaml:"user_id"`
	Date              time.Time  `json:"date" yaml:"date"`
	Title             string     `json:"title" yaml:"title"`
	Items             []MealItem `json:"items" yaml:"items"`
	TotalCalories     float64    `json:"total_calories" yaml:"total_calories"`
	TotalProtein      float64    `json:"total_protein" yaml:"total_protein"`
	IngredientQuality int        `json:"ingredient_quality,omitempty" yaml:"ingredient_quality,omitempty"`
	Notes             string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at" yaml:"created_at"`
}

// NewMeal creates a Meal dated now.
func NewMeal(userID int64, title string) *Meal {
	now := time.Now()
	return &Meal{
		UserID:    userID,
		Title:     title,
		Date:      now,
		CreatedAt: now,
	}
}

// WithDate sets the meal timestamp.
func (m *Meal) WithDate(t time.Time) *Meal {
	m.Date = t
	return m
}

// WithNotes sets free-text notes.
func (m *Meal) WithNotes(notes string) *Meal {
	m.Notes = notes
	return m
}

// MaxIngredientQuality is the best ingredient quality rating; 0 means unrated.
const MaxIngredientQuality = 4

// WithQuality sets the 1-4 ingredient quality rating. Zero leaves it unrated.
func (m *Meal) WithQuality(q int) *Meal {
	m.IngredientQuality = q
	return m
}

// AddItem appends a line item.
func (m *Meal) AddItem(item MealItem) *Meal {
	m.Items = append(m.Items, item)
	return m
}

// ItemTotals sums every line item. Optional fields count as zero when absent.
func (m *Meal) ItemTotals() Nutrients {
	var n Nutrients
	for _, it := range m.Items {
		n.Calories += it.Calories
		n.Protein += it.Protein
		if it.Carbs != nil {
			n.Carbs += *it.Carbs
		}
		if it.Fat != nil {
			n.Fat += *it.Fat
		}
		if it.Sugar != nil {
			n.Sugar += *it.Sugar
		}
	}
	return n
}

// Validate checks every numeric field is finite and non-negative and the quality rating is in range.
func (m *Meal) Validate() error {
	if m.IngredientQuality < 0 || m.IngredientQuality > MaxIngredientQuality {
		return fmt.Errorf("%w: got %d", ErrInvalidQuality, m.IngredientQuality)
	}
	for i, it := range m.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if err := CheckAmount(prefix+".calories", it.Calories); err != nil {
			return err
		}
		if err := CheckAmount(prefix+".protein", it.Protein); err != nil {
			return err
		}
		if err := checkOptionalAmount(prefix+".carbs", it.Carbs); err != nil {
			return err
		}
		if err := checkOptionalAmount(prefix+".fat", it.Fat); err != nil {
			return err
		}
		if err := checkOptionalAmount(prefix+".sugar", it.Sugar); err != nil {
			return err
		}
	}
	if err := CheckAmount("total_calories", m.TotalCalories); err != nil {
		return err
	}
	return CheckAmount("total_protein", m.TotalProtein)
}

// Prepare validates the meal and fills totals from its items.
// Totals left at zero are derived; non-zero totals must agree with the items.
func (m *Meal) Prepare() error {
	if err := m.Validate(); err != nil {
		return err
	}
	sum := m.ItemTotals()
	if m.TotalCalories != 0 && math.Abs(m.TotalCalories-sum.Calories) > totalsTolerance {
		return fmt.Errorf("%w: total_calories %v, items sum to %v", ErrTotalsMismatch, m.TotalCalories, sum.Calories)
	}
	if m.TotalProtein != 0 && math.Abs(m.TotalProtein-sum.Protein) > totalsTolerance {
		return fmt.Errorf("%w: total_protein %v, items sum to %v", ErrTotalsMismatch, m.TotalProtein, sum.Protein)
	}
	m.TotalCalories = sum.Calories
	m.TotalProtein = sum.Protein
	return nil
}

// Clone returns a deep copy of the meal.
func (m *Meal) Clone() *Meal {
	c := *m
	if m.Items != nil {
		c.Items = make([]MealItem, len(m.Items))
		for i, it := range m.Items {
			c.Items[i] = it.clone()
		}
	}
	return &c
}

func (it MealItem) clone() MealItem {
	it.Carbs = cloneFloat(it.Carbs)
	it.Fat = cloneFloat(it.Fat)
	it.Sugar = cloneFloat(it.Sugar)
	return it
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
