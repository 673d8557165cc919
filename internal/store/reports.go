package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertReport stores a workout report and returns its ID
func (db *DB) InsertReport(r *WorkoutReport) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO workout_reports (
			workout_id, plan_id, date, completed, actual_distance_km,
			actual_duration_min, perceived_effort, avg_heartrate, feeling, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.WorkoutID, r.PlanID, r.Date.Format(time.DateOnly), boolToInt(r.Completed),
		r.ActualDistanceKm, r.ActualDurationMin, r.PerceivedEffort,
		r.AvgHeartrate, r.Feeling, r.Notes,
	)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// GetReportForWorkout retrieves the most recent report for a workout
func (db *DB) GetReportForWorkout(workoutID string) (*WorkoutReport, error) {
	row := db.QueryRow(reportSelect+`
		WHERE workout_id = ?
		ORDER BY id DESC
		LIMIT 1
	`, workoutID)

	r, err := scanReportInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	return r, err
}

// ListReports returns all reports for a plan ordered by date ascending
func (db *DB) ListReports(planID string) ([]WorkoutReport, error) {
	rows, err := db.Query(reportSelect+`
		WHERE plan_id = ?
		ORDER BY date ASC, id ASC
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReports(rows)
}

// ListReportsSince returns a plan's reports on or after the given date
func (db *DB) ListReportsSince(planID string, since time.Time) ([]WorkoutReport, error) {
	rows, err := db.Query(reportSelect+`
		WHERE plan_id = ? AND date >= ?
		ORDER BY date ASC, id ASC
	`, planID, since.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReports(rows)
}

// CountReports returns the number of reports stored for a plan
func (db *DB) CountReports(planID string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM workout_reports WHERE plan_id = ?`, planID).Scan(&count)
	return count, err
}

const reportSelect = `
	SELECT id, workout_id, plan_id, date, completed, actual_distance_km,
		actual_duration_min, perceived_effort, avg_heartrate, feeling, notes
	FROM workout_reports`

func scanReportInto(s rowScanner) (*WorkoutReport, error) {
	var r WorkoutReport
	var date string
	var completed int
	var feeling, notes sql.NullString

	err := s.Scan(
		&r.ID, &r.WorkoutID, &r.PlanID, &date, &completed, &r.ActualDistanceKm,
		&r.ActualDurationMin, &r.PerceivedEffort, &r.AvgHeartrate, &feeling, &notes,
	)
	if err != nil {
		return nil, err
	}

	r.Date, err = time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", date, err)
	}
	r.Completed = completed == 1
	r.Feeling = feeling.String
	r.Notes = notes.String

	return &r, nil
}

func scanReports(rows *sql.Rows) ([]WorkoutReport, error) {
	var reports []WorkoutReport

	for rows.Next() {
		r, err := scanReportInto(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}

	return reports, rows.Err()
}
