package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SavePlan stores a plan together with its blocks and workouts in a single
// transaction, replacing any previous rows for the same plan ID.
func (db *DB) SavePlan(p *Plan, blocks []PlanBlock, workouts []PlanWorkout) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO plans (
			id, name, methodology, goal_race, race_date, start_date,
			total_weeks, config_json, warnings_json, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			methodology = excluded.methodology,
			goal_race = excluded.goal_race,
			race_date = excluded.race_date,
			start_date = excluded.start_date,
			total_weeks = excluded.total_weeks,
			config_json = excluded.config_json,
			warnings_json = excluded.warnings_json,
			updated_at = excluded.updated_at
	`,
		p.ID, p.Name, p.Methodology, p.GoalRace,
		p.RaceDate.Format(time.DateOnly), p.StartDate.Format(time.DateOnly),
		p.TotalWeeks, p.ConfigJSON, p.WarningsJSON,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM plan_blocks WHERE plan_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing blocks: %w", err)
	}
	for _, b := range blocks {
		_, err := tx.Exec(`
			INSERT INTO plan_blocks (plan_id, seq, phase, start_week, weeks, volume_km, focus)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, p.ID, b.Seq, b.Phase, b.StartWeek, b.Weeks, b.VolumeKm, b.Focus)
		if err != nil {
			return fmt.Errorf("saving block %d: %w", b.Seq, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM plan_workouts WHERE plan_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing workouts: %w", err)
	}
	for i := range workouts {
		if err := insertWorkout(tx, &workouts[i]); err != nil {
			return fmt.Errorf("saving workout %s: %w", workouts[i].ID, err)
		}
	}

	return tx.Commit()
}

func insertWorkout(tx *sql.Tx, w *PlanWorkout) error {
	_, err := tx.Exec(`
		INSERT INTO plan_workouts (
			id, plan_id, week, day, date, type, name, description,
			distance_km, duration_min, intensity, segments_json, status, modified_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		w.ID, w.PlanID, w.Week, w.Day, w.Date.Format(time.DateOnly),
		w.Type, w.Name, w.Description, w.DistanceKm, w.DurationMin,
		w.Intensity, w.SegmentsJSON, w.Status, w.ModifiedBy,
	)
	return err
}

// GetPlan retrieves a plan header by ID
func (db *DB) GetPlan(id string) (*Plan, error) {
	row := db.QueryRow(`
		SELECT id, name, methodology, goal_race, race_date, start_date,
			total_weeks, config_json, warnings_json, created_at
		FROM plans
		WHERE id = ?
	`, id)

	return scanPlan(row)
}

// ListPlans returns all plan headers, newest first
func (db *DB) ListPlans() ([]Plan, error) {
	rows, err := db.Query(`
		SELECT id, name, methodology, goal_race, race_date, start_date,
			total_weeks, config_json, warnings_json, created_at
		FROM plans
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var p Plan
		var raceDate, startDate, createdAt string
		var warnings sql.NullString
		err := rows.Scan(&p.ID, &p.Name, &p.Methodology, &p.GoalRace,
			&raceDate, &startDate, &p.TotalWeeks, &p.ConfigJSON, &warnings, &createdAt)
		if err != nil {
			return nil, err
		}
		p.WarningsJSON = warnings.String
		if err := parsePlanDates(&p, raceDate, startDate, createdAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// PlanRevision returns an opaque token that changes whenever the plan's
// rows are rewritten. Useful as a cache key component.
func (db *DB) PlanRevision(id string) (string, error) {
	var rev string
	var workouts int
	err := db.QueryRow(`
		SELECT p.updated_at, COUNT(w.id)
		FROM plans p
		LEFT JOIN plan_workouts w ON w.plan_id = p.id
		WHERE p.id = ?
		GROUP BY p.id
	`, id).Scan(&rev, &workouts)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPlanNotFound
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d", rev, workouts), nil
}

// DeletePlan removes a plan and its blocks, workouts and reports
func (db *DB) DeletePlan(id string) error {
	result, err := db.Exec(`DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// GetBlocks returns a plan's periodization blocks in order
func (db *DB) GetBlocks(planID string) ([]PlanBlock, error) {
	rows, err := db.Query(`
		SELECT plan_id, seq, phase, start_week, weeks, volume_km, focus
		FROM plan_blocks
		WHERE plan_id = ?
		ORDER BY seq ASC
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []PlanBlock
	for rows.Next() {
		var b PlanBlock
		var focus sql.NullString
		err := rows.Scan(&b.PlanID, &b.Seq, &b.Phase, &b.StartWeek, &b.Weeks, &b.VolumeKm, &focus)
		if err != nil {
			return nil, err
		}
		b.Focus = focus.String
		blocks = append(blocks, b)
	}

	return blocks, rows.Err()
}

// GetWorkouts returns all of a plan's workouts ordered by date
func (db *DB) GetWorkouts(planID string) ([]PlanWorkout, error) {
	rows, err := db.Query(workoutSelect+`
		WHERE plan_id = ?
		ORDER BY date ASC, id ASC
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// GetWorkoutsForWeek returns a plan's workouts for a single week, ordered by day
func (db *DB) GetWorkoutsForWeek(planID string, week int) ([]PlanWorkout, error) {
	rows, err := db.Query(workoutSelect+`
		WHERE plan_id = ? AND week = ?
		ORDER BY day ASC, id ASC
	`, planID, week)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// GetWorkoutsBetween returns a plan's workouts with from <= date < to
func (db *DB) GetWorkoutsBetween(planID string, from, to time.Time) ([]PlanWorkout, error) {
	rows, err := db.Query(workoutSelect+`
		WHERE plan_id = ? AND date >= ? AND date < ?
		ORDER BY date ASC, id ASC
	`, planID, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// GetWorkout retrieves a single workout by ID
func (db *DB) GetWorkout(id string) (*PlanWorkout, error) {
	row := db.QueryRow(workoutSelect+`
		WHERE id = ?
	`, id)

	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	return w, err
}

// UpdateWorkout overwrites a workout's mutable fields
func (db *DB) UpdateWorkout(w *PlanWorkout) error {
	result, err := db.Exec(`
		UPDATE plan_workouts
		SET name = ?, description = ?, distance_km = ?, duration_min = ?,
			intensity = ?, segments_json = ?, status = ?, modified_by = ?
		WHERE id = ?
	`,
		w.Name, w.Description, w.DistanceKm, w.DurationMin,
		w.Intensity, w.SegmentsJSON, w.Status, w.ModifiedBy, w.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// MarkWorkoutStatus sets a workout's status ("scheduled", "completed", "skipped")
func (db *DB) MarkWorkoutStatus(id, status string) error {
	result, err := db.Exec(`
		UPDATE plan_workouts SET status = ? WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// DeleteWorkoutsBetween removes a plan's workouts with from <= date < to.
// Returns the number of workouts removed.
func (db *DB) DeleteWorkoutsBetween(planID string, from, to time.Time) (int, error) {
	result, err := db.Exec(`
		DELETE FROM plan_workouts
		WHERE plan_id = ? AND date >= ? AND date < ?
	`, planID, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

const workoutSelect = `
	SELECT id, plan_id, week, day, date, type, name, description,
		distance_km, duration_min, intensity, segments_json, status, modified_by
	FROM plan_workouts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkoutInto(s rowScanner) (*PlanWorkout, error) {
	var w PlanWorkout
	var date string
	var description, segments, modifiedBy sql.NullString

	err := s.Scan(
		&w.ID, &w.PlanID, &w.Week, &w.Day, &date, &w.Type, &w.Name, &description,
		&w.DistanceKm, &w.DurationMin, &w.Intensity, &segments, &w.Status, &modifiedBy,
	)
	if err != nil {
		return nil, err
	}

	w.Date, err = time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", date, err)
	}
	w.Description = description.String
	w.SegmentsJSON = segments.String
	w.ModifiedBy = modifiedBy.String

	return &w, nil
}

func scanWorkout(row *sql.Row) (*PlanWorkout, error) {
	return scanWorkoutInto(row)
}

func scanWorkouts(rows *sql.Rows) ([]PlanWorkout, error) {
	var workouts []PlanWorkout

	for rows.Next() {
		w, err := scanWorkoutInto(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}

	return workouts, rows.Err()
}

func scanPlan(row *sql.Row) (*Plan, error) {
	var p Plan
	var raceDate, startDate, createdAt string
	var warnings sql.NullString

	err := row.Scan(&p.ID, &p.Name, &p.Methodology, &p.GoalRace,
		&raceDate, &startDate, &p.TotalWeeks, &p.ConfigJSON, &warnings, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	p.WarningsJSON = warnings.String
	if err := parsePlanDates(&p, raceDate, startDate, createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func parsePlanDates(p *Plan, raceDate, startDate, createdAt string) error {
	var err error
	p.RaceDate, err = time.Parse(time.DateOnly, raceDate)
	if err != nil {
		return fmt.Errorf("parsing race_date %q: %w", raceDate, err)
	}
	p.StartDate, err = time.Parse(time.DateOnly, startDate)
	if err != nil {
		return fmt.Errorf("parsing start_date %q: %w", startDate, err)
	}
	// SQLite CURRENT_TIMESTAMP is "YYYY-MM-DD HH:MM:SS"
	p.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAt)
	if err != nil {
		return fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	return nil
}
