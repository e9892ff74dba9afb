// ABOUTME: Root Cobra command for the dailylog CLI.
// ABOUTME: Loads config, builds the logger, and opens the storage backend before each command.
package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/dailylog/internal/config"
	"github.com/harperreed/dailylog/internal/logging"
	"github.com/harperreed/dailylog/internal/storage"
	"github.com/harperreed/dailylog/internal/tracker"
)

// noStore marks commands that manage storage themselves or need none.
const noStore = "dailylog/no-store"

var (
	flagBackend  string
	flagDataDir  string
	flagLogLevel string
	flagEnvFile  string

	cfg    *config.Config
	logger *log.Logger
	repo   storage.Repository
	trk    *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "dailylog",
	Short: "Nutrition and exercise log with daily running totals",
	Long: `Dailylog records meals and workouts and keeps a running total for every day.

Each day's totals (calories, protein, carbs, fat, sugar, workout minutes,
calories burned, meters rowed) always equal the sum of that day's meals and
workouts. Days are UTC calendar days.

QUICK START:

  $ dailylog user add sam                                 # Create a user with default goals
  $ dailylog meal add sam Breakfast --item "oats:300:20"  # name:calories:protein
  $ dailylog workout add sam rowing --min 25 --sec 30 --meters 5000
  $ dailylog progress sam                                 # Today's totals vs goals

CATALOG:

  $ dailylog food add "Greek yogurt" --calories 100 --protein 17
  $ dailylog meal add sam Snack --food 1:2                # two servings of food #1
  $ dailylog exercise add Spin --type cardio --rate 10
  $ dailylog workout add sam --exercise 1 --min 45        # calories from the rate

STORAGE:

  Backends: sqlite (default), local (embedded key-value store), memory.
  Choose with --backend, DAILYLOG_BACKEND, or "backend" in
  ~/.config/dailylog/config.json. Data lives in ~/.local/share/dailylog
  unless --data-dir or DAILYLOG_DATA_DIR says otherwise.

MCP INTEGRATION:

  Run 'dailylog mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "dailylog": { "command": "dailylog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if err := loadRuntime(); err != nil {
			return err
		}
		if cmd.Annotations[noStore] != "" {
			return nil
		}
		return openStore()
	},
}

// Execute runs the root command and closes any storage it opened.
func Execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, closeStore())
}

// loadRuntime resolves configuration and the logger from .env, config file, env and flags.
func loadRuntime() error {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return err
	}
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		c.LogLevel = flagLogLevel
	}

	l, err := logging.New(c.GetLogLevel())
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}

func openStore() error {
	r, err := cfg.OpenStorage(logger)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.GetBackend(), err)
	}
	logger.Debug("opened storage", "backend", cfg.GetBackend(), "path", cfg.StoragePath())
	repo = r
	trk = tracker.New(r, logger)
	return nil
}

func closeStore() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo, trk = nil, nil
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, local, or memory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/dailylog)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "environment file to load")
}
