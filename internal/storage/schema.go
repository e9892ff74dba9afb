// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines users, catalogs, meals, workouts, and the daily_progress aggregate table.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		display_name TEXT,
		goal_calories REAL NOT NULL DEFAULT 0,
		goal_protein REAL NOT NULL DEFAULT 0,
		goal_carbs REAL NOT NULL DEFAULT 0,
		goal_fat REAL NOT NULL DEFAULT 0,
		goal_sugar REAL NOT NULL DEFAULT 0,
		goal_workout_minutes REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS food_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		brand TEXT,
		serving_size TEXT,
		calories REAL NOT NULL DEFAULT 0,
		protein REAL NOT NULL DEFAULT 0,
		carbs REAL NOT NULL DEFAULT 0,
		fat REAL NOT NULL DEFAULT 0,
		sugar REAL NOT NULL DEFAULT 0,
		barcode TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		workout_type TEXT NOT NULL,
		calories_per_minute REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS food_suggestions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT,
		calories REAL NOT NULL DEFAULT 0,
		protein REAL NOT NULL DEFAULT 0,
		carbs REAL NOT NULL DEFAULT 0,
		fat REAL NOT NULL DEFAULT 0,
		sugar REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS workout_suggestions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		workout_type TEXT NOT NULL,
		duration_minutes REAL NOT NULL DEFAULT 0,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS meals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		day TEXT NOT NULL,
		title TEXT NOT NULL,
		items TEXT NOT NULL DEFAULT '[]',
		total_calories REAL NOT NULL DEFAULT 0,
		total_protein REAL NOT NULL DEFAULT 0,
		ingredient_quality INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		day TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		workout_type TEXT NOT NULL,
		duration_minutes REAL NOT NULL DEFAULT 0,
		calories_burned REAL NOT NULL DEFAULT 0,
		details TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_progress (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		day TEXT NOT NULL,
		calories_consumed REAL NOT NULL DEFAULT 0,
		protein_consumed REAL NOT NULL DEFAULT 0,
		carbs_consumed REAL NOT NULL DEFAULT 0,
		fat_consumed REAL NOT NULL DEFAULT 0,
		sugar_consumed REAL NOT NULL DEFAULT 0,
		workout_minutes REAL NOT NULL DEFAULT 0,
		calories_burned REAL NOT NULL DEFAULT 0,
		rowing_meters REAL NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL,
		UNIQUE (user_id, day)
	);

	CREATE INDEX IF NOT EXISTS idx_meals_user_day ON meals(user_id, day);
	CREATE INDEX IF NOT EXISTS idx_workouts_user_day ON workouts(user_id, day);
	CREATE INDEX IF NOT EXISTS idx_daily_progress_user ON daily_progress(user_id, day);
	`

	_, err := d.q.Exec(schema)
	return err
}
