// ABOUTME: CLI commands for logging workouts.
// ABOUTME: Durations are entered as min/sec/ms; rowing takes meters or a split and derives the other.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harperreed/dailylog/internal/duration"
	"github.com/harperreed/dailylog/internal/models"
	"github.com/harperreed/dailylog/internal/tracker"
)

var (
	workoutMinutes   int
	workoutSeconds   int
	workoutMillis    int
	workoutCalories  float64
	workoutExercise  int64
	workoutAt        string
	workoutStart     string
	workoutEnd       string
	workoutNotes     string
	workoutDistance  float64
	workoutPace      string
	workoutHeartRate int
	workoutSets      int
	workoutReps      int
	workoutWeight    float64
	workoutMeters    float64
	workoutSplit     string
	workoutDate      string
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Log workouts",
	Long: `Log workouts and keep the day's exercise totals current.

Workout types: cardio, hiit, strength, flexibility, rowing.

Durations are given as --min, --sec and --ms. For rowing, give either the
distance (--meters) or the 500m split (--split M:SS.ff) and the other one is
worked out from the duration.

COMMANDS:

  add    Log a workout
  list   List a day's workouts
  rm     Delete a workout`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <user> [type]",
	Short: "Log a workout",
	Long: `Log a workout. The type may be omitted when --exercise names a catalog exercise.

Examples:
  dailylog workout add sam rowing --min 25 --sec 30 --meters 5000
  dailylog workout add sam rowing --min 20 --split 2:00
  dailylog workout add sam strength --min 45 --sets 5 --reps 5 --weight 100
  dailylog workout add sam --exercise 2 --min 30 --at "2024-03-10 07:00"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := trk.LookupUser(args[0])
		if err != nil {
			return err
		}
		at, err := parseAt(workoutAt)
		if err != nil {
			return err
		}

		draft := tracker.WorkoutDraft{
			UserID:         u.ID,
			Date:           at,
			Minutes:        workoutMinutes,
			Seconds:        workoutSeconds,
			Milliseconds:   workoutMillis,
			CaloriesBurned: workoutCalories,
			ExerciseID:     workoutExercise,
			StartTime:      workoutStart,
			EndTime:        workoutEnd,
			Notes:          workoutNotes,
			Pace:           workoutPace,
			RowingSplit:    workoutSplit,
		}
		if len(args) > 1 {
			draft.Type = models.WorkoutType(args[1])
		}
		flags := cmd.Flags()
		if flags.Changed("distance") {
			draft.Distance = &workoutDistance
		}
		if flags.Changed("hr") {
			draft.HeartRate = &workoutHeartRate
		}
		if flags.Changed("sets") {
			draft.Sets = &workoutSets
		}
		if flags.Changed("reps") {
			draft.Reps = &workoutReps
		}
		if flags.Changed("weight") {
			draft.Weight = &workoutWeight
		}
		if flags.Changed("meters") {
			draft.RowingMeters = &workoutMeters
		}

		w, err := trk.ComposeWorkout(draft)
		if err != nil {
			return err
		}
		created, err := trk.CreateWorkout(w)
		if err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		printSuccess(cmd, "Added %s workout", created.Type)
		printf(cmd, "  %s %s on %s\n", idLabel(created.ID), formatDuration(created.DurationMinutes), models.DayKey(created.Date))
		if created.CaloriesBurned > 0 {
			printf(cmd, "  Burned: %.0f kcal\n", created.CaloriesBurned)
		}
		if d, ok := created.Rowing(); ok {
			if d.RowingMeters != nil {
				printf(cmd, "  Distance: %.0f m\n", *d.RowingMeters)
			}
			if d.RowingSplit != "" {
				printf(cmd, "  Split: %s /500m\n", d.RowingSplit)
			}
		}
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list <user>",
	Aliases: []string{"ls"},
	Short:   "List a day's workouts",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := trk.LookupUser(args[0])
		if err != nil {
			return err
		}
		day, err := parseAt(workoutDate)
		if err != nil {
			return err
		}

		workouts, err := trk.GetWorkoutsByDate(u.ID, day)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		if len(workouts) == 0 {
			printf(cmd, "No workouts found.\n")
			return nil
		}

		for _, w := range workouts {
			extra := ""
			if d, ok := w.Rowing(); ok && d.RowingMeters != nil {
				extra = faint.Sprintf(" %.0fm @ %s", *d.RowingMeters, d.RowingSplit)
			}
			printf(cmd, "%s %s %s %s %5.0f kcal%s\n",
				idLabel(w.ID),
				faint.Sprint(w.Date.UTC().Format("15:04")),
				padRight(string(w.Type), 12),
				padRight(formatDuration(w.DurationMinutes), 10),
				w.CaloriesBurned,
				extra)
		}
		return nil
	},
}

var workoutRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a workout",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid workout id: %s", args[0])
		}

		ok, err := trk.DeleteWorkout(id)
		if err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}
		if !ok {
			return fmt.Errorf("workout not found: %d", id)
		}

		printRemoved(cmd, "Deleted workout %d", id)
		return nil
	},
}

// formatDuration renders fractional minutes as M:SS or M:SS.mmm.
func formatDuration(minutes float64) string {
	c, err := duration.Decompose(minutes)
	if err != nil {
		return fmt.Sprintf("%.2f min", minutes)
	}
	return c.String()
}

func init() {
	f := workoutAddCmd.Flags()
	f.IntVar(&workoutMinutes, "min", 0, "duration minutes")
	f.IntVar(&workoutSeconds, "sec", 0, "duration seconds (0-59)")
	f.IntVar(&workoutMillis, "ms", 0, "duration milliseconds (0-999)")
	f.Float64VarP(&workoutCalories, "calories", "c", 0, "calories burned (default: estimated from --exercise)")
	f.Int64VarP(&workoutExercise, "exercise", "e", 0, "catalog exercise id")
	f.StringVar(&workoutAt, "at", "", "timestamp (YYYY-MM-DD HH:MM, UTC)")
	f.StringVar(&workoutStart, "start", "", "display start time (HH:MM)")
	f.StringVar(&workoutEnd, "end", "", "display end time (HH:MM)")
	f.StringVarP(&workoutNotes, "notes", "n", "", "workout notes")
	f.Float64Var(&workoutDistance, "distance", 0, "cardio distance")
	f.StringVar(&workoutPace, "pace", "", "cardio pace")
	f.IntVar(&workoutHeartRate, "hr", 0, "average heart rate (bpm)")
	f.IntVar(&workoutSets, "sets", 0, "strength sets")
	f.IntVar(&workoutReps, "reps", 0, "strength reps")
	f.Float64Var(&workoutWeight, "weight", 0, "strength weight")
	f.Float64Var(&workoutMeters, "meters", 0, "rowing distance in meters")
	f.StringVar(&workoutSplit, "split", "", "rowing split per 500m (M:SS or M:SS.ff)")

	workoutListCmd.Flags().StringVarP(&workoutDate, "date", "d", "", "day to list (YYYY-MM-DD, default today)")

	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutRmCmd)
	rootCmd.AddCommand(workoutCmd)
}
