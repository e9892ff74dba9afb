// ABOUTME: CLI commands for managing users and their daily goals.
// ABOUTME: Supports add, goals, and list subcommands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/dailylog/internal/models"
)

var (
	userDisplayName string
	goalCalories    float64
	goalProtein     float64
	goalCarbs       float64
	goalFat         float64
	goalSugar       float64
	goalMinutes     float64
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"u"},
	Short:   "Manage users",
	Long: `Manage users and their daily goals.

Every meal and workout belongs to a user. Users start with default goals
(2000 kcal, 150g protein, 250g carbs, 65g fat, 50g sugar, 30 workout minutes)
unless goal flags are given.`,
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a user",
	Long: `Create a user. Usernames are unique regardless of case.

Examples:
  dailylog user add sam
  dailylog user add alex --name "Alex R" --calories 2400 --protein 180`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := models.NewUser(args[0]).
			WithDisplayName(userDisplayName).
			WithGoals(goalsFromFlags(cmd, models.DefaultGoals))

		created, err := trk.CreateUser(u)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		printSuccess(cmd, "Added user %s", created.Username)
		printf(cmd, "  %s\n", idLabel(created.ID))
		printGoals(cmd, created.Goals)
		return nil
	},
}

var userGoalsCmd = &cobra.Command{
	Use:   "goals <user>",
	Short: "Show or change a user's goals",
	Long: `Show a user's goals, or change the ones named by flags.

Examples:
  dailylog user goals sam
  dailylog user goals sam --calories 2200 --workout-minutes 45`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := trk.LookupUser(args[0])
		if err != nil {
			return err
		}

		goals := goalsFromFlags(cmd, u.Goals)
		if goals != u.Goals {
			u, err = trk.UpdateUserGoals(u.ID, goals)
			if err != nil {
				return fmt.Errorf("failed to update goals: %w", err)
			}
			printSuccess(cmd, "Updated goals for %s", u.Username)
		} else {
			printf(cmd, "Goals for %s\n", u.Username)
		}
		printGoals(cmd, u.Goals)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := trk.ListUsers()
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		if len(users) == 0 {
			printf(cmd, "No users found.\n")
			return nil
		}

		for _, u := range users {
			printf(cmd, "%s %s %s\n",
				idLabel(u.ID),
				padRight(u.Username, 16),
				faint.Sprint(u.DisplayName))
		}
		return nil
	},
}

// goalsFromFlags returns base with every goal flag the user set applied.
func goalsFromFlags(cmd *cobra.Command, base models.Goals) models.Goals {
	flags := []struct {
		name string
		dst  *float64
		val  float64
	}{
		{"calories", &base.Calories, goalCalories},
		{"protein", &base.Protein, goalProtein},
		{"carbs", &base.Carbs, goalCarbs},
		{"fat", &base.Fat, goalFat},
		{"sugar", &base.Sugar, goalSugar},
		{"workout-minutes", &base.WorkoutMinutes, goalMinutes},
	}
	for _, f := range flags {
		if cmd.Flags().Changed(f.name) {
			*f.dst = f.val
		}
	}
	return base
}

func printGoals(cmd *cobra.Command, g models.Goals) {
	printf(cmd, "  calories %.0f kcal, protein %.0fg, carbs %.0fg, fat %.0fg, sugar %.0fg, workout %.0f min\n",
		g.Calories, g.Protein, g.Carbs, g.Fat, g.Sugar, g.WorkoutMinutes)
}

func addGoalFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&goalCalories, "calories", 0, "daily calorie goal (kcal)")
	cmd.Flags().Float64Var(&goalProtein, "protein", 0, "daily protein goal (g)")
	cmd.Flags().Float64Var(&goalCarbs, "carbs", 0, "daily carbohydrate goal (g)")
	cmd.Flags().Float64Var(&goalFat, "fat", 0, "daily fat goal (g)")
	cmd.Flags().Float64Var(&goalSugar, "sugar", 0, "daily sugar goal (g)")
	cmd.Flags().Float64Var(&goalMinutes, "workout-minutes", 0, "daily workout goal (minutes)")
}

func init() {
	userAddCmd.Flags().StringVar(&userDisplayName, "name", "", "display name")
	addGoalFlags(userAddCmd)
	addGoalFlags(userGoalsCmd)

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userGoalsCmd)
	userCmd.AddCommand(userListCmd)
	rootCmd.AddCommand(userCmd)
}
