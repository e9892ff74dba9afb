// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server so AI assistants can log meals and workouts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/dailylog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Add it to an MCP client config:

  {
    "mcpServers": {
      "dailylog": {
        "command": "dailylog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  create_user         Create a user with daily goals
  set_goals           Change a user's goals
  add_meal            Log a meal from items or catalog foods
  delete_meal         Delete a meal
  add_workout         Log a workout (rowing derives meters or split)
  delete_workout      Delete a workout
  get_daily_progress  A user's totals for a day
  list_meals          A user's meals for a day
  list_workouts       A user's workouts for a day
  get_goal_progress   A day's totals against goals

AVAILABLE RESOURCES:

  dailylog://suggestions   Food and workout suggestions
  dailylog://users         Users and their goals
  dailylog://today         Every user's totals for today`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(trk, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
