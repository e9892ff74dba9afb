// ABOUTME: CLI commands for exporting and importing dailylog data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/dailylog/internal/models"
	"github.com/harperreed/dailylog/internal/storage"
)

var (
	exportOutput string
	exportUser   string
	exportSince  string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export dailylog data",
	Long: `Export dailylog data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Daily totals table for one user (requires --user)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --user, -u     User to export (markdown only)
  --since        Only include days since this date (YYYY-MM-DD, markdown only)

EXAMPLES:

  dailylog export json                          # Export all data as JSON
  dailylog export json -o backup.json           # Save to file
  dailylog export yaml                          # Export as YAML
  dailylog export markdown -u sam --since 2024-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(repo)
		case "yaml":
			data, err = storage.ExportYAML(repo)
		case "markdown":
			if exportUser == "" {
				return fmt.Errorf("markdown export needs --user")
			}
			u, err := trk.LookupUser(exportUser)
			if err != nil {
				return err
			}
			var since *time.Time
			if exportSince != "" {
				t, err := models.ParseDay(exportSince)
				if err != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			md, err := storage.ExportMarkdown(repo, u.ID, since)
			if err != nil {
				return err
			}
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			printSuccess(cmd, "Exported to %s", exportOutput)
		} else {
			printf(cmd, "%s\n", data)
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import dailylog data from JSON or YAML",
	Long: `Import dailylog data from a JSON or YAML export.

Records get new IDs. A user whose username already exists is merged into the
existing user. The format follows the file extension unless --format is set.

EXAMPLES:

  dailylog import backup.json
  dailylog import backup.yaml
  dailylog import dump.txt --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		format := importFormat
		if format == "" {
			format = formatFromExt(filename)
		}
		data, err := storage.ParseExport(raw, format)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		summary, err := storage.ImportData(repo, data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		printSuccess(cmd, "Imported from %s", filename)
		printSummary(cmd, summary)
		return nil
	},
}

func formatFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func printSummary(cmd *cobra.Command, s *storage.MigrateSummary) {
	printf(cmd, "  Users:          %d\n", s.Users)
	printf(cmd, "  Foods:          %d\n", s.FoodItems)
	printf(cmd, "  Exercises:      %d\n", s.Exercises)
	printf(cmd, "  Suggestions:    %d\n", s.Suggestions)
	printf(cmd, "  Meals:          %d\n", s.Meals)
	printf(cmd, "  Workouts:       %d\n", s.Workouts)
	printf(cmd, "  Daily progress: %d\n", s.DailyProgress)
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportUser, "user", "u", "", "user to export (markdown only)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include days since date (YYYY-MM-DD)")

	importCmd.Flags().StringVar(&importFormat, "format", "", "input format: json or yaml (default: from extension)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
