// ABOUTME: CLI commands for the food and exercise catalogs.
// ABOUTME: Catalog foods become meal items; catalog exercises estimate calories burned.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/dailylog/internal/models"
)

var (
	foodBrand    string
	foodServing  string
	foodBarcode  string
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFat      float64
	foodSugar    float64

	exerciseType string
	exerciseRate float64
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage the food catalog",
	Long: `Manage the food catalog. Nutrition values are per serving.

Use a catalog food in a meal with 'dailylog meal add <user> --food <id>[:servings]'.`,
}

var foodAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a food to the catalog",
	Long: `Add a food to the catalog.

Examples:
  dailylog food add "Rolled oats" --serving "40g" --calories 150 --protein 5 --carbs 27 --fat 3
  dailylog food add Banana --calories 105 --carbs 27 --sugar 14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := trk.CreateFoodItem(&models.FoodItem{
			Name:        args[0],
			Brand:       foodBrand,
			ServingSize: foodServing,
			Barcode:     foodBarcode,
			Calories:    foodCalories,
			Protein:     foodProtein,
			Carbs:       foodCarbs,
			Fat:         foodFat,
			Sugar:       foodSugar,
		})
		if err != nil {
			return fmt.Errorf("failed to add food: %w", err)
		}

		printSuccess(cmd, "Added food %s", f.Name)
		printf(cmd, "  %s %.0f kcal, %.1fg protein per serving\n", idLabel(f.ID), f.Calories, f.Protein)
		return nil
	},
}

var foodListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		foods, err := trk.ListFoodItems()
		if err != nil {
			return fmt.Errorf("failed to list foods: %w", err)
		}

		if len(foods) == 0 {
			printf(cmd, "No foods found.\n")
			return nil
		}

		for _, f := range foods {
			printf(cmd, "%s %s %6.0f kcal %6.1fg protein %s\n",
				idLabel(f.ID),
				padRight(truncate(f.Name, 24), 24),
				f.Calories, f.Protein,
				faint.Sprint(f.ServingSize))
		}
		return nil
	},
}

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise catalog",
	Long: `Manage the exercise catalog. Each exercise has a workout type and a burn rate.

Log one with 'dailylog workout add <user> --exercise <id> --min 30'; calories
burned default to rate x duration.`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise to the catalog",
	Long: `Add an exercise to the catalog.

Examples:
  dailylog exercise add "Indoor rowing" --type rowing --rate 9
  dailylog exercise add Yoga --type flexibility --rate 3.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := trk.CreateExercise(&models.Exercise{
			Name:              args[0],
			Type:              models.WorkoutType(exerciseType),
			CaloriesPerMinute: exerciseRate,
		})
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		printSuccess(cmd, "Added exercise %s", e.Name)
		printf(cmd, "  %s %s, %.1f kcal/min\n", idLabel(e.ID), e.Type, e.CaloriesPerMinute)
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := trk.ListExercises()
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		if len(exercises) == 0 {
			printf(cmd, "No exercises found.\n")
			return nil
		}

		for _, e := range exercises {
			printf(cmd, "%s %s %s %.1f kcal/min\n",
				idLabel(e.ID),
				padRight(truncate(e.Name, 24), 24),
				padRight(string(e.Type), 12),
				e.CaloriesPerMinute)
		}
		return nil
	},
}

func init() {
	foodAddCmd.Flags().StringVar(&foodBrand, "brand", "", "brand name")
	foodAddCmd.Flags().StringVar(&foodServing, "serving", "", "serving size description")
	foodAddCmd.Flags().StringVar(&foodBarcode, "barcode", "", "barcode")
	foodAddCmd.Flags().Float64Var(&foodCalories, "calories", 0, "calories per serving (kcal)")
	foodAddCmd.Flags().Float64Var(&foodProtein, "protein", 0, "protein per serving (g)")
	foodAddCmd.Flags().Float64Var(&foodCarbs, "carbs", 0, "carbohydrates per serving (g)")
	foodAddCmd.Flags().Float64Var(&foodFat, "fat", 0, "fat per serving (g)")
	foodAddCmd.Flags().Float64Var(&foodSugar, "sugar", 0, "sugar per serving (g)")

	exerciseAddCmd.Flags().StringVarP(&exerciseType, "type", "t", "", "workout type: cardio, hiit, strength, flexibility, rowing")
	exerciseAddCmd.Flags().Float64Var(&exerciseRate, "rate", 0, "calories burned per minute")
	_ = exerciseAddCmd.MarkFlagRequired("type")

	foodCmd.AddCommand(foodAddCmd)
	foodCmd.AddCommand(foodListCmd)
	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	rootCmd.AddCommand(foodCmd)
	rootCmd.AddCommand(exerciseCmd)
}
