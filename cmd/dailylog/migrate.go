// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Refuses to write into a destination that already holds data unless forced.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harperreed/dailylog/internal/config"
	"github.com/harperreed/dailylog/internal/storage"
)

var (
	migrateFrom  string
	migrateTo    string
	migrateForce bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all data to another storage backend",
	Long: `Copy every user, catalog entry, meal, workout and daily total from one
storage backend to another. Both backends live in the same data directory.

IMPORTANT:

  - The source defaults to the configured backend
  - Records get new IDs in the destination
  - A destination that already holds data is refused unless --force is given
  - Switch to the new backend afterwards with --backend, DAILYLOG_BACKEND, or
    "backend" in ~/.config/dailylog/config.json

USAGE:

  dailylog migrate --to local                # sqlite -> local
  dailylog migrate --from local --to sqlite  # local -> sqlite`,
	Annotations: map[string]string{noStore: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srcCfg := *cfg
		if migrateFrom != "" {
			srcCfg.Backend = migrateFrom
		}
		dstCfg := *cfg
		dstCfg.Backend = migrateTo

		if srcCfg.GetBackend() == dstCfg.GetBackend() {
			return fmt.Errorf("source and destination are both %s", srcCfg.GetBackend())
		}
		if dstCfg.GetBackend() == config.BackendMemory {
			return fmt.Errorf("refusing to migrate into the memory backend; nothing would be kept")
		}
		if !migrateForce {
			used, err := holdsData(dstCfg.StoragePath())
			if err != nil {
				return err
			}
			if used {
				return fmt.Errorf("destination %s already has data (use --force to merge into it)", dstCfg.StoragePath())
			}
		}

		src, err := srcCfg.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer src.Close()

		dst, err := dstCfg.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("open destination: %w", err)
		}

		summary, err := storage.MigrateData(src, dst)
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		printSuccess(cmd, "Migrated %s -> %s", srcCfg.GetBackend(), dstCfg.GetBackend())
		printSummary(cmd, summary)
		return nil
	},
}

// holdsData reports whether a backend path already exists with content.
func holdsData(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return storage.IsDirNonEmpty(path)
	}
	return info.Size() > 0, nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend (default: configured backend)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite or local")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "write into a destination that already has data")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
