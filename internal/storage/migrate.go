// ABOUTME: Data migration between dailylog storage backends.
// ABOUTME: Copies every record from source to destination through the export document.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of copied entities.
type MigrateSummary struct {
	Users         int
	FoodItems     int
	Exercises     int
	Suggestions   int
	Meals         int
	Workouts      int
	DailyProgress int
}

// MigrateData copies all data from src to dst storage.
// The destination should be empty; ids are reassigned by dst.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	data, err := GetAllData(src)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	summary, err := ImportData(dst, data)
	if err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}
	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
