package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"pacemaker/internal/store"
)

// ImportService loads run history, workout reports and recovery
// check-ins from CSV files. Malformed rows are skipped and collected,
// never fatal. Runs and recovery rows upsert by date, so reimporting
// the same file is idempotent.
type ImportService struct {
	store    *store.DB
	feedback *FeedbackService
}

// NewImportService creates an import service. The feedback service
// handles report rows so imported reports also mark workout statuses.
func NewImportService(db *store.DB, feedback *FeedbackService) *ImportService {
	return &ImportService{store: db, feedback: feedback}
}

// ImportResult summarizes one file import
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []error // one per skipped row
}

func (r *ImportResult) skip(row int, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Errorf("row %d: %w", row, err))
}

// ImportRuns reads runs from a CSV file with the header
// date,distance_km,duration_min[,avg_hr,elevation_m,effort,race,notes].
func (s *ImportService) ImportRuns(path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return s.importRuns(f)
}

func (s *ImportService) importRuns(r io.Reader) (*ImportResult, error) {
	rows, err := newCSVRows(r, "date", "distance_km", "duration_min")
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	for {
		rec, row, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.skip(row, err)
			continue
		}
		run, err := runFromRow(rows, rec)
		if err != nil {
			res.skip(row, err)
			continue
		}
		if _, err := s.store.UpsertRun(run); err != nil {
			res.skip(row, err)
			continue
		}
		res.Imported++
	}
	return res, nil
}

// ImportReports reads workout reports from a CSV file with the header
// workout_id,completed[,date,distance_km,duration_min,effort,avg_hr,feeling,notes].
// Rows referencing unknown workouts are skipped.
func (s *ImportService) ImportReports(path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return s.importReports(f)
}

func (s *ImportService) importReports(r io.Reader) (*ImportResult, error) {
	rows, err := newCSVRows(r, "workout_id", "completed")
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	for {
		rec, row, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.skip(row, err)
			continue
		}
		rep, err := reportFromRow(rows, rec)
		if err != nil {
			res.skip(row, err)
			continue
		}
		if err := s.feedback.RecordReport(rep); err != nil {
			res.skip(row, err)
			continue
		}
		res.Imported++
	}
	return res, nil
}

// ImportRecovery reads daily recovery check-ins from a CSV file with the header
// date[,resting_hr,hrv_ms,sleep_hours,sleep_quality,soreness,stress,energy,motivation,injury].
func (s *ImportService) ImportRecovery(path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return s.importRecovery(f)
}

func (s *ImportService) importRecovery(r io.Reader) (*ImportResult, error) {
	rows, err := newCSVRows(r, "date")
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	for {
		rec, row, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.skip(row, err)
			continue
		}
		m, err := recoveryFromRow(rows, rec)
		if err != nil {
			res.skip(row, err)
			continue
		}
		if err := s.store.UpsertRecoveryMetric(m); err != nil {
			res.skip(row, err)
			continue
		}
		res.Imported++
	}
	return res, nil
}

// csvRows wraps a csv.Reader with a lowercased header-index map.
type csvRows struct {
	r    *csv.Reader
	cols map[string]int
	row  int // 1-based data row, header excluded
}

func newCSVRows(r io.Reader, required ...string) (*csvRows, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return &csvRows{r: cr, cols: cols}, nil
}

func (c *csvRows) next() ([]string, int, error) {
	c.row++
	rec, err := c.r.Read()
	return rec, c.row, err
}

// field returns the named column's trimmed value, "" when absent.
func (c *csvRows) field(rec []string, name string) string {
	i, ok := c.cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func runFromRow(rows *csvRows, rec []string) (*store.Run, error) {
	date, err := parseDate(rows.field(rec, "date"))
	if err != nil {
		return nil, err
	}
	km, err := strconv.ParseFloat(rows.field(rec, "distance_km"), 64)
	if err != nil {
		return nil, fmt.Errorf("distance_km: %w", err)
	}
	min, err := strconv.ParseFloat(rows.field(rec, "duration_min"), 64)
	if err != nil {
		return nil, fmt.Errorf("duration_min: %w", err)
	}
	if km <= 0 || min <= 0 {
		return nil, errors.New("non-positive distance or duration")
	}

	run := &store.Run{
		Date:        date,
		DistanceM:   km * 1000,
		DurationSec: int(math.Round(min * 60)),
		Notes:       rows.field(rec, "notes"),
	}
	run.AvgPaceSecKm = float64(run.DurationSec) / km

	if run.AvgHeartrate, err = optionalFloat(rows.field(rec, "avg_hr")); err != nil {
		return nil, fmt.Errorf("avg_hr: %w", err)
	}
	if v := rows.field(rec, "elevation_m"); v != "" {
		if run.ElevationGainM, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("elevation_m: %w", err)
		}
	}
	if run.Effort, err = optionalInt(rows.field(rec, "effort")); err != nil {
		return nil, fmt.Errorf("effort: %w", err)
	}
	if run.IsRace, err = optionalBool(rows.field(rec, "race")); err != nil {
		return nil, fmt.Errorf("race: %w", err)
	}
	return run, nil
}

func reportFromRow(rows *csvRows, rec []string) (*store.WorkoutReport, error) {
	rep := &store.WorkoutReport{
		WorkoutID: rows.field(rec, "workout_id"),
		Feeling:   rows.field(rec, "feeling"),
		Notes:     rows.field(rec, "notes"),
	}
	if rep.WorkoutID == "" {
		return nil, errors.New("empty workout_id")
	}

	var err error
	if rep.Completed, err = strconv.ParseBool(rows.field(rec, "completed")); err != nil {
		return nil, fmt.Errorf("completed: %w", err)
	}
	if v := rows.field(rec, "date"); v != "" {
		if rep.Date, err = parseDate(v); err != nil {
			return nil, err
		}
	}
	if v := rows.field(rec, "distance_km"); v != "" {
		if rep.ActualDistanceKm, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("distance_km: %w", err)
		}
	}
	if v := rows.field(rec, "duration_min"); v != "" {
		if rep.ActualDurationMin, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("duration_min: %w", err)
		}
	}
	if rep.PerceivedEffort, err = optionalInt(rows.field(rec, "effort")); err != nil {
		return nil, fmt.Errorf("effort: %w", err)
	}
	if rep.AvgHeartrate, err = optionalFloat(rows.field(rec, "avg_hr")); err != nil {
		return nil, fmt.Errorf("avg_hr: %w", err)
	}
	return rep, nil
}

func recoveryFromRow(rows *csvRows, rec []string) (*store.RecoveryMetric, error) {
	date, err := parseDate(rows.field(rec, "date"))
	if err != nil {
		return nil, err
	}

	m := &store.RecoveryMetric{Date: date}
	if m.RestingHR, err = optionalFloat(rows.field(rec, "resting_hr")); err != nil {
		return nil, fmt.Errorf("resting_hr: %w", err)
	}
	if m.HRVMs, err = optionalFloat(rows.field(rec, "hrv_ms")); err != nil {
		return nil, fmt.Errorf("hrv_ms: %w", err)
	}
	if m.SleepHours, err = optionalFloat(rows.field(rec, "sleep_hours")); err != nil {
		return nil, fmt.Errorf("sleep_hours: %w", err)
	}
	if m.SleepQuality, err = optionalInt(rows.field(rec, "sleep_quality")); err != nil {
		return nil, fmt.Errorf("sleep_quality: %w", err)
	}
	if m.Soreness, err = optionalInt(rows.field(rec, "soreness")); err != nil {
		return nil, fmt.Errorf("soreness: %w", err)
	}
	if m.StressLevel, err = optionalInt(rows.field(rec, "stress")); err != nil {
		return nil, fmt.Errorf("stress: %w", err)
	}
	if m.EnergyLevel, err = optionalInt(rows.field(rec, "energy")); err != nil {
		return nil, fmt.Errorf("energy: %w", err)
	}
	if m.Motivation, err = optionalInt(rows.field(rec, "motivation")); err != nil {
		return nil, fmt.Errorf("motivation: %w", err)
	}
	if m.InjuryFlag, err = optionalBool(rows.field(rec, "injury")); err != nil {
		return nil, fmt.Errorf("injury: %w", err)
	}
	return m, nil
}

// parseDate accepts bare dates and RFC3339 timestamps.
func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q", v)
	}
	return t, nil
}

func optionalFloat(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func optionalInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func optionalBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
