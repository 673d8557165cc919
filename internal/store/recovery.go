package store

import (
	"database/sql"
	"time"
)

// UpsertRecoveryMetric stores a daily recovery snapshot, replacing any
// existing row for the same date.
func (db *DB) UpsertRecoveryMetric(m *RecoveryMetric) error {
	_, err := db.Exec(`
		INSERT INTO recovery_metrics (
			date, resting_hr, hrv_ms, sleep_hours, sleep_quality,
			soreness, stress_level, energy_level, motivation, injury_flag, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			resting_hr = excluded.resting_hr,
			hrv_ms = excluded.hrv_ms,
			sleep_hours = excluded.sleep_hours,
			sleep_quality = excluded.sleep_quality,
			soreness = excluded.soreness,
			stress_level = excluded.stress_level,
			energy_level = excluded.energy_level,
			motivation = excluded.motivation,
			injury_flag = excluded.injury_flag,
			updated_at = CURRENT_TIMESTAMP
	`,
		m.Date.Format(time.DateOnly), m.RestingHR, m.HRVMs,
		m.SleepHours, m.SleepQuality, m.Soreness, m.StressLevel,
		m.EnergyLevel, m.Motivation, boolToInt(m.InjuryFlag),
	)
	return err
}

// GetRecoveryMetric retrieves the snapshot for a date.
// Returns nil when no snapshot exists for that day.
func (db *DB) GetRecoveryMetric(date time.Time) (*RecoveryMetric, error) {
	rows, err := db.Query(`
		SELECT date, resting_hr, hrv_ms, sleep_hours, sleep_quality,
			soreness, stress_level, energy_level, motivation, injury_flag
		FROM recovery_metrics
		WHERE date = ?
	`, date.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics, err := scanRecoveryMetrics(rows)
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, nil
	}
	return &metrics[0], nil
}

// LatestRecoveryMetric returns the most recent snapshot, nil when none exist
func (db *DB) LatestRecoveryMetric() (*RecoveryMetric, error) {
	rows, err := db.Query(`
		SELECT date, resting_hr, hrv_ms, sleep_hours, sleep_quality,
			soreness, stress_level, energy_level, motivation, injury_flag
		FROM recovery_metrics
		ORDER BY date DESC
		LIMIT 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics, err := scanRecoveryMetrics(rows)
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, nil
	}
	return &metrics[0], nil
}

// ListRecoverySince returns snapshots on or after the given date, oldest first
func (db *DB) ListRecoverySince(since time.Time) ([]RecoveryMetric, error) {
	rows, err := db.Query(`
		SELECT date, resting_hr, hrv_ms, sleep_hours, sleep_quality,
			soreness, stress_level, energy_level, motivation, injury_flag
		FROM recovery_metrics
		WHERE date >= ?
		ORDER BY date ASC
	`, since.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecoveryMetrics(rows)
}

func scanRecoveryMetrics(rows *sql.Rows) ([]RecoveryMetric, error) {
	var metrics []RecoveryMetric

	for rows.Next() {
		var m RecoveryMetric
		var date string
		var injury int

		err := rows.Scan(&date, &m.RestingHR, &m.HRVMs, &m.SleepHours, &m.SleepQuality,
			&m.Soreness, &m.StressLevel, &m.EnergyLevel, &m.Motivation, &injury)
		if err != nil {
			return nil, err
		}

		m.Date, err = time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, err
		}
		m.InjuryFlag = injury == 1

		metrics = append(metrics, m)
	}

	return metrics, rows.Err()
}
