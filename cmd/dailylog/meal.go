// ABOUTME: CLI commands for logging meals.
// ABOUTME: Supports add, list, and rm; every change updates the day's running totals.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/dailylog/internal/models"
)

var (
	mealItems   []string
	mealFoods   []string
	mealAt      string
	mealNotes   string
	mealQuality int
	mealDate    string
)

var mealCmd = &cobra.Command{
	Use:     "meal",
	Aliases: []string{"m"},
	Short:   "Log meals",
	Long: `Log meals made of line items.

Items come from --item "name:calories:protein[:carbs:fat:sugar]" or from the
food catalog with --food <id>[:servings]. Both flags repeat. Meal totals are
the sum of the items.

COMMANDS:

  add    Log a meal
  list   List a day's meals
  rm     Delete a meal`,
}

var mealAddCmd = &cobra.Command{
	Use:   "add <user> [title]",
	Short: "Log a meal",
	Long: `Log a meal and update the day's totals.

Examples:
  dailylog meal add sam Breakfast --item "oats:300:20"
  dailylog meal add sam Lunch --item "salad:250:8:20:12:5" --item "bread:120:4"
  dailylog meal add sam Snack --food 3:2 --at "2024-03-10 16:00"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := trk.LookupUser(args[0])
		if err != nil {
			return err
		}
		at, err := parseAt(mealAt)
		if err != nil {
			return err
		}

		title := "Meal"
		if len(args) > 1 {
			title = args[1]
		}
		m := models.NewMeal(u.ID, title).
			WithDate(at).
			WithNotes(mealNotes).
			WithQuality(mealQuality)

		for _, raw := range mealItems {
			item, err := parseMealItem(raw)
			if err != nil {
				return err
			}
			m.AddItem(item)
		}
		for _, raw := range mealFoods {
			foodID, servings, err := parseFoodRef(raw)
			if err != nil {
				return err
			}
			item, err := trk.FoodItemLine(foodID, servings)
			if err != nil {
				return err
			}
			m.AddItem(item)
		}
		if len(m.Items) == 0 {
			return fmt.Errorf("a meal needs at least one --item or --food")
		}

		created, err := trk.CreateMeal(m)
		if err != nil {
			return fmt.Errorf("failed to create meal: %w", err)
		}

		printSuccess(cmd, "Added %s", created.Title)
		printf(cmd, "  %s %.0f kcal, %.1fg protein on %s\n",
			idLabel(created.ID), created.TotalCalories, created.TotalProtein, models.DayKey(created.Date))
		return nil
	},
}

var mealListCmd = &cobra.Command{
	Use:     "list <user>",
	Aliases: []string{"ls"},
	Short:   "List a day's meals",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := trk.LookupUser(args[0])
		if err != nil {
			return err
		}
		day, err := parseAt(mealDate)
		if err != nil {
			return err
		}

		meals, err := trk.GetMealsByDate(u.ID, day)
		if err != nil {
			return fmt.Errorf("failed to list meals: %w", err)
		}

		if len(meals) == 0 {
			printf(cmd, "No meals found.\n")
			return nil
		}

		for _, m := range meals {
			notes := ""
			if m.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(m.Notes, 30))
			}
			printf(cmd, "%s %s %s %6.0f kcal %6.1fg protein%s\n",
				idLabel(m.ID),
				faint.Sprint(m.Date.UTC().Format("15:04")),
				padRight(truncate(m.Title, 20), 20),
				m.TotalCalories, m.TotalProtein,
				notes)
		}
		return nil
	},
}

var mealRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a meal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid meal id: %s", args[0])
		}

		ok, err := trk.DeleteMeal(id)
		if err != nil {
			return fmt.Errorf("failed to delete meal: %w", err)
		}
		if !ok {
			return fmt.Errorf("meal not found: %d", id)
		}

		printRemoved(cmd, "Deleted meal %d", id)
		return nil
	},
}

// parseMealItem parses "name:calories:protein[:carbs:fat:sugar]".
func parseMealItem(raw string) (models.MealItem, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 6 || strings.TrimSpace(parts[0]) == "" {
		return models.MealItem{}, fmt.Errorf("invalid item %q: want name:calories:protein[:carbs:fat:sugar]", raw)
	}

	values := make([]float64, len(parts)-1)
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return models.MealItem{}, fmt.Errorf("invalid item %q: %q is not a number", raw, p)
		}
		values[i] = v
	}

	item := models.MealItem{
		Name:     strings.TrimSpace(parts[0]),
		Calories: values[0],
		Protein:  values[1],
	}
	optional := []**float64{&item.Carbs, &item.Fat, &item.Sugar}
	for i, v := range values[2:] {
		*optional[i] = &v
	}
	return item, nil
}

// parseFoodRef parses "<id>" or "<id>:<servings>".
func parseFoodRef(raw string) (int64, float64, error) {
	idPart, servingsPart, hasServings := strings.Cut(raw, ":")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid food %q: want <id>[:servings]", raw)
	}
	servings := 1.0
	if hasServings {
		servings, err = strconv.ParseFloat(servingsPart, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid food %q: servings %q is not a number", raw, servingsPart)
		}
	}
	return id, servings, nil
}

func init() {
	mealAddCmd.Flags().StringArrayVarP(&mealItems, "item", "i", nil, "line item name:calories:protein[:carbs:fat:sugar] (repeatable)")
	mealAddCmd.Flags().StringArrayVarP(&mealFoods, "food", "f", nil, "catalog food <id>[:servings] (repeatable)")
	mealAddCmd.Flags().StringVar(&mealAt, "at", "", "timestamp (YYYY-MM-DD HH:MM, UTC)")
	mealAddCmd.Flags().StringVarP(&mealNotes, "notes", "n", "", "notes for the meal")
	mealAddCmd.Flags().IntVarP(&mealQuality, "quality", "q", 0, "ingredient quality 1-4")

	mealListCmd.Flags().StringVarP(&mealDate, "date", "d", "", "day to list (YYYY-MM-DD, default today)")

	mealCmd.AddCommand(mealAddCmd)
	mealCmd.AddCommand(mealListCmd)
	mealCmd.AddCommand(mealRmCmd)
	rootCmd.AddCommand(mealCmd)
}
