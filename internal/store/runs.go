package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertRun inserts a run, or updates it when a run with the same
// date, distance and duration already exists. Returns the run's ID.
func (db *DB) UpsertRun(r *Run) (int64, error) {
	_, err := db.Exec(`
		INSERT INTO runs (
			date, distance_m, duration_sec, avg_pace_sec_km, avg_heartrate,
			elevation_gain_m, effort, is_race, notes, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date, distance_m, duration_sec) DO UPDATE SET
			avg_pace_sec_km = excluded.avg_pace_sec_km,
			avg_heartrate = excluded.avg_heartrate,
			elevation_gain_m = excluded.elevation_gain_m,
			effort = excluded.effort,
			is_race = excluded.is_race,
			notes = excluded.notes,
			updated_at = CURRENT_TIMESTAMP
	`,
		r.Date.Format(time.RFC3339), r.DistanceM, r.DurationSec, r.AvgPaceSecKm, r.AvgHeartrate,
		r.ElevationGainM, r.Effort, boolToInt(r.IsRace), r.Notes,
	)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.QueryRow(`
		SELECT id FROM runs WHERE date = ? AND distance_m = ? AND duration_sec = ?
	`, r.Date.Format(time.RFC3339), r.DistanceM, r.DurationSec).Scan(&id)
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// GetRun retrieves a run by ID
func (db *DB) GetRun(id int64) (*Run, error) {
	row := db.QueryRow(`
		SELECT id, date, distance_m, duration_sec, avg_pace_sec_km, avg_heartrate,
			elevation_gain_m, effort, is_race, notes
		FROM runs
		WHERE id = ?
	`, id)

	return scanRun(row)
}

// ListRuns returns all runs ordered by date ascending
func (db *DB) ListRuns() ([]Run, error) {
	rows, err := db.Query(`
		SELECT id, date, distance_m, duration_sec, avg_pace_sec_km, avg_heartrate,
			elevation_gain_m, effort, is_race, notes
		FROM runs
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ListRunsSince returns runs on or after the given date, ordered by date ascending
func (db *DB) ListRunsSince(since time.Time) ([]Run, error) {
	rows, err := db.Query(`
		SELECT id, date, distance_m, duration_sec, avg_pace_sec_km, avg_heartrate,
			elevation_gain_m, effort, is_race, notes
		FROM runs
		WHERE date >= ?
		ORDER BY date ASC
	`, since.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ListRecentRuns returns the most recent runs, newest first
func (db *DB) ListRecentRuns(limit int) ([]Run, error) {
	rows, err := db.Query(`
		SELECT id, date, distance_m, duration_sec, avg_pace_sec_km, avg_heartrate,
			elevation_gain_m, effort, is_race, notes
		FROM runs
		ORDER BY date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRuns(rows)
}

// DeleteRun removes a run by ID
func (db *DB) DeleteRun(id int64) error {
	result, err := db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRunNotFound
	}
	return nil
}

// CountRuns returns the total number of runs
func (db *DB) CountRuns() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// scanRun scans a single run from a row
func scanRun(row *sql.Row) (*Run, error) {
	var r Run
	var date string
	var isRace int
	var notes sql.NullString

	err := row.Scan(
		&r.ID, &date, &r.DistanceM, &r.DurationSec, &r.AvgPaceSecKm, &r.AvgHeartrate,
		&r.ElevationGainM, &r.Effort, &isRace, &notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	r.Date, err = time.Parse(time.RFC3339, date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", date, err)
	}
	r.IsRace = isRace == 1
	r.Notes = notes.String

	return &r, nil
}

// scanRuns scans multiple runs from rows
func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run

	for rows.Next() {
		var r Run
		var date string
		var isRace int
		var notes sql.NullString

		err := rows.Scan(
			&r.ID, &date, &r.DistanceM, &r.DurationSec, &r.AvgPaceSecKm, &r.AvgHeartrate,
			&r.ElevationGainM, &r.Effort, &isRace, &notes,
		)
		if err != nil {
			return nil, err
		}

		r.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", date, err)
		}
		r.IsRace = isRace == 1
		r.Notes = notes.String

		runs = append(runs, r)
	}

	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
