// ABOUTME: CLI commands for daily totals: progress, rebuild, and seed.
// ABOUTME: Progress compares a day's totals with the user's goals.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var progressDate string

var progressCmd = &cobra.Command{
	Use:     "progress <user>",
	Aliases: []string{"p", "today"},
	Short:   "Show a day's totals against goals",
	Long: `Show a user's running totals for a day and how far along each goal is.

Examples:
  dailylog progress sam
  dailylog progress sam --date 2024-03-10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := trk.LookupUser(args[0])
		if err != nil {
			return err
		}
		day, err := parseAt(progressDate)
		if err != nil {
			return err
		}

		gp, err := trk.GetGoalProgress(u.ID, day)
		if err != nil {
			return err
		}
		p, err := trk.GetDailyProgress(u.ID, day)
		if err != nil {
			return err
		}

		printf(cmd, "%s %s\n", color.New(color.Bold).Sprint(u.Username), faint.Sprint(gp.Day))
		for _, g := range gp.Goals {
			printf(cmd, "  %s %8.1f / %-8.1f %s %3.0f%%\n",
				padRight(strings.ReplaceAll(g.Name, "_", " "), 16),
				g.Consumed, g.Goal, bar(g.Percent, 20), g.Percent*100)
		}
		printf(cmd, "  %s %8.0f kcal\n", padRight("burned", 16), p.CaloriesBurned)
		if p.RowingMeters > 0 {
			printf(cmd, "  %s %8.0f m\n", padRight("rowed", 16), p.RowingMeters)
		}
		return nil
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild <user>",
	Short: "Recompute a user's daily totals from their meals and workouts",
	Long: `Recompute every daily total for a user from the stored meals and workouts.

Totals are kept current on every change, so this is only needed after data was
edited outside dailylog.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := trk.LookupUser(args[0])
		if err != nil {
			return err
		}

		rows, err := trk.RebuildDailyProgress(u.ID)
		if err != nil {
			return fmt.Errorf("failed to rebuild: %w", err)
		}

		printSuccess(cmd, "Rebuilt %d days for %s", len(rows), u.Username)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in food and workout suggestions",
	Long: `Load the built-in food and workout suggestions.

Nothing is added when suggestions already exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := trk.SeedSuggestions()
		if err != nil {
			return fmt.Errorf("failed to seed suggestions: %w", err)
		}
		if n == 0 {
			printf(cmd, "Suggestions already present.\n")
			return nil
		}
		printSuccess(cmd, "Added %d suggestions", n)
		return nil
	},
}

// bar draws a fixed-width progress bar for a fraction in [0, 1].
func bar(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + faint.Sprint(strings.Repeat(".", width-filled)) + "]"
}

func init() {
	progressCmd.Flags().StringVarP(&progressDate, "date", "d", "", "day to show (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(seedCmd)
}
