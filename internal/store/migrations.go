package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Completed runs (imported training history)
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			date TEXT NOT NULL,
			distance_m REAL NOT NULL,
			duration_sec INTEGER NOT NULL,
			avg_pace_sec_km REAL NOT NULL,
			avg_heartrate REAL,
			elevation_gain_m REAL DEFAULT 0,
			effort INTEGER DEFAULT 0,
			is_race INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(date, distance_m, duration_sec)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_runs_date ON runs(date)`,

		// Training plans (header row per generated plan)
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			methodology TEXT NOT NULL,
			goal_race TEXT NOT NULL,
			race_date TEXT NOT NULL,
			start_date TEXT NOT NULL,
			total_weeks INTEGER NOT NULL,
			config_json TEXT NOT NULL,
			warnings_json TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Periodization blocks within a plan
		`CREATE TABLE IF NOT EXISTS plan_blocks (
			plan_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			phase TEXT NOT NULL,
			start_week INTEGER NOT NULL,
			weeks INTEGER NOT NULL,
			volume_km REAL NOT NULL,
			focus TEXT,
			PRIMARY KEY (plan_id, seq),
			FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
		)`,

		// Scheduled workouts within a plan
		`CREATE TABLE IF NOT EXISTS plan_workouts (
			id TEXT PRIMARY KEY,
			plan_id TEXT NOT NULL,
			week INTEGER NOT NULL,
			day INTEGER NOT NULL,
			date TEXT NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			distance_km REAL NOT NULL,
			duration_min REAL NOT NULL,
			intensity INTEGER NOT NULL,
			segments_json TEXT,
			status TEXT NOT NULL DEFAULT 'scheduled',
			modified_by TEXT DEFAULT '',
			FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_plan_workouts_plan_date ON plan_workouts(plan_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_plan_workouts_plan_week ON plan_workouts(plan_id, week)`,

		// Reports on how scheduled workouts actually went
		`CREATE TABLE IF NOT EXISTS workout_reports (
			id INTEGER PRIMARY KEY,
			workout_id TEXT NOT NULL,
			plan_id TEXT NOT NULL,
			date TEXT NOT NULL,
			completed INTEGER NOT NULL,
			actual_distance_km REAL DEFAULT 0,
			actual_duration_min REAL DEFAULT 0,
			perceived_effort INTEGER DEFAULT 0,
			avg_heartrate REAL,
			feeling TEXT,
			notes TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workout_reports_plan_date ON workout_reports(plan_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_workout_reports_workout ON workout_reports(workout_id)`,

		// Daily recovery snapshots (one row per day)
		`CREATE TABLE IF NOT EXISTS recovery_metrics (
			date TEXT PRIMARY KEY,
			resting_hr REAL,
			hrv_ms REAL,
			sleep_hours REAL,
			sleep_quality INTEGER DEFAULT 0,
			soreness INTEGER DEFAULT 0,
			stress_level INTEGER DEFAULT 0,
			energy_level INTEGER DEFAULT 0,
			motivation INTEGER DEFAULT 0,
			injury_flag INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// App state (key-value store for active plan, import cursors)
		`CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
