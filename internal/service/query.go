package service

import (
	"errors"
	"fmt"
	"time"

	"pacemaker/internal/adapt"
	"pacemaker/internal/analysis"
	"pacemaker/internal/cache"
	"pacemaker/internal/config"
	"pacemaker/internal/plan"
	"pacemaker/internal/store"
)

// QueryService assembles the read models behind the TUI screens.
// Results are memoized in the injected cache under keys derived from
// the rows that produced them, so a plan rewrite or a fresh import
// shows up on the next query without explicit invalidation. A nil
// cache disables memoization; results are identical either way.
type QueryService struct {
	store *store.DB
	cfg   *config.Config
	cache *cache.Cache

	now func() time.Time // fixed in tests
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB, cfg *config.Config, c *cache.Cache) *QueryService {
	return &QueryService{store: db, cfg: cfg, cache: c, now: time.Now}
}

// DashboardData contains all data needed for the dashboard
type DashboardData struct {
	// Current fitness
	Assessment    analysis.FitnessAssessment
	Level         string // "beginner", "intermediate", "advanced"
	Load          analysis.LoadState
	Recovery      float64
	RecoveryState adapt.RecoveryStatus
	Predictions   []analysis.RacePrediction

	// Active plan; PlanID is empty when no plan has been built
	PlanID      string
	PlanName    string
	Phase       string
	CurrentWeek int // 0 before the plan starts
	TotalWeeks  int
	Upcoming    []plan.Workout // next days, chronological

	// For charts
	LoadHistory    []float64 // acute:chronic ratio, oldest first
	WeeklyVolumeKm []float64 // last 12 weeks of volume
	WeeklyLabels   []string  // week labels (e.g., "Jan 06")

	RecentRuns []store.Run
}

// Dashboard fetches all data needed for the dashboard
func (q *QueryService) Dashboard() (*DashboardData, error) {
	key, err := q.cacheKey("dashboard")
	if err != nil {
		return nil, err
	}
	v, err := q.cache.GetOrCompute(key, func() (any, error) {
		return q.buildDashboard(q.now())
	})
	if err != nil {
		return nil, err
	}
	return v.(*DashboardData), nil
}

func (q *QueryService) buildDashboard(now time.Time) (*DashboardData, error) {
	runs, err := q.store.ListRuns()
	if err != nil {
		return nil, fmt.Errorf("loading runs: %w", err)
	}
	latest, err := q.store.LatestRecoveryMetric()
	if err != nil {
		return nil, fmt.Errorf("loading recovery snapshot: %w", err)
	}

	a := analysis.Assess(runs, latest, now)
	if q.cfg != nil && q.cfg.Athlete.ThresholdPace > 0 {
		a.ThresholdPace = q.cfg.Athlete.ThresholdPace
	}

	data := &DashboardData{
		Assessment:  a,
		Level:       analysis.ExperienceLevel(a),
		Predictions: analysis.PredictAll(a.VDOT),
	}

	states := analysis.CalculateLoadSeries(runs, a.ThresholdPace)
	if len(states) > 0 {
		data.Load = states[len(states)-1]
	} else {
		data.Load = analysis.LoadState{Ratio: 1, Trend: analysis.TrendStable}
	}
	cutoff := now.AddDate(0, 0, -LoadHistoryDays)
	for _, st := range states {
		if !st.Date.Before(cutoff) {
			data.LoadHistory = append(data.LoadHistory, st.Ratio)
		}
	}

	data.Recovery = adapt.WeightedRecoveryScore(latest, analysis.RecoveryScore(runs, latest, now))
	data.RecoveryState = adapt.ClassifyRecovery(data.Recovery)
	data.WeeklyVolumeKm, data.WeeklyLabels = weeklyVolume(runs, now)

	recent, err := q.store.ListRecentRuns(RecentRunsLimit)
	if err != nil {
		return nil, fmt.Errorf("loading recent runs: %w", err)
	}
	data.RecentRuns = recent

	// The dashboard renders without an active plan
	p, err := q.activePlan()
	if errors.Is(err, store.ErrPlanNotFound) {
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	data.PlanID = p.ID
	data.PlanName = p.Config.Name
	data.TotalWeeks = p.Config.TotalWeeks
	data.CurrentWeek = currentWeek(p, now)
	data.Phase = phaseOfWeek(p, data.CurrentWeek)
	data.Upcoming = upcoming(p, now, UpcomingWindowDays)
	return data, nil
}

// PlanOverview is the plan screen's read model
type PlanOverview struct {
	Plan        *plan.Plan
	CurrentWeek int // 0 before the start date
}

// Plan loads the active plan with its position in time.
// Returns store.ErrPlanNotFound when no plan has been built yet.
func (q *QueryService) Plan() (*PlanOverview, error) {
	key, err := q.cacheKey("plan")
	if err != nil {
		return nil, err
	}
	v, err := q.cache.GetOrCompute(key, func() (any, error) {
		p, err := q.activePlan()
		if err != nil {
			return nil, err
		}
		return &PlanOverview{Plan: p, CurrentWeek: currentWeek(p, q.now())}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*PlanOverview), nil
}

// WeekDetail is one microcycle of the active plan with its block context
type WeekDetail struct {
	Week          int
	Phase         string
	StartDate     time.Time
	EndDate       time.Time
	Workouts      []plan.Workout
	TotalKm       float64
	TotalLoad     float64
	RecoveryRatio float64
}

// Week loads one plan week by 1-based number.
func (q *QueryService) Week(week int) (*WeekDetail, error) {
	key, err := q.cacheKey("week", week)
	if err != nil {
		return nil, err
	}
	v, err := q.cache.GetOrCompute(key, func() (any, error) {
		return q.buildWeek(week)
	})
	if err != nil {
		return nil, err
	}
	return v.(*WeekDetail), nil
}

func (q *QueryService) buildWeek(week int) (*WeekDetail, error) {
	p, err := q.activePlan()
	if err != nil {
		return nil, err
	}
	for _, b := range p.Blocks {
		for _, c := range b.Cycles {
			if c.Week != week {
				continue
			}
			d := &WeekDetail{
				Week:          week,
				Phase:         b.Phase,
				StartDate:     p.Config.StartDate.AddDate(0, 0, 7*(week-1)),
				TotalKm:       c.TotalKm,
				TotalLoad:     c.TotalLoad,
				RecoveryRatio: c.RecoveryRatio,
			}
			// A goal race folded into the final cycle can fall past
			// the week's Sunday; stretch the range to cover it.
			d.EndDate = d.StartDate.AddDate(0, 0, 6)
			for _, w := range c.Workouts {
				d.Workouts = append(d.Workouts, *w)
				if w.Date.After(d.EndDate) {
					d.EndDate = w.Date
				}
			}
			return d, nil
		}
	}
	return nil, fmt.Errorf("plan has no week %d", week)
}

// activePlan loads the currently active plan.
func (q *QueryService) activePlan() (*plan.Plan, error) {
	id, err := q.store.GetState(store.StateActivePlan)
	if err != nil {
		return nil, fmt.Errorf("reading active plan id: %w", err)
	}
	if id == "" {
		return nil, store.ErrPlanNotFound
	}
	return loadPlan(q.store, id)
}

// cacheKey derives a key that changes whenever the rows behind a read
// model do: the active plan's revision, the run and report counts, the
// latest recovery check-in and the current day (so date-relative models
// roll over at midnight). Staleness not covered by these components is
// bounded by the cache's max age.
func (q *QueryService) cacheKey(parts ...any) (string, error) {
	id, err := q.store.GetState(store.StateActivePlan)
	if err != nil {
		return "", fmt.Errorf("reading active plan id: %w", err)
	}
	var rev string
	if id != "" {
		rev, err = q.store.PlanRevision(id)
		if err != nil && !errors.Is(err, store.ErrPlanNotFound) {
			return "", fmt.Errorf("reading plan revision: %w", err)
		}
	}
	runs, err := q.store.CountRuns()
	if err != nil {
		return "", fmt.Errorf("counting runs: %w", err)
	}
	reports, err := q.store.CountReports(id)
	if err != nil {
		return "", fmt.Errorf("counting reports: %w", err)
	}
	latest, err := q.store.LatestRecoveryMetric()
	if err != nil {
		return "", fmt.Errorf("loading recovery snapshot: %w", err)
	}
	parts = append(parts, id, rev, runs, reports, latest, q.now().Format(time.DateOnly))
	return cache.Key(parts...), nil
}

// currentWeek is the 1-based plan week containing now, 0 before the
// start date and capped at the final week after the plan ends.
func currentWeek(p *plan.Plan, now time.Time) int {
	start := p.Config.StartDate
	if now.Before(start) {
		return 0
	}
	week := int(now.Sub(start).Hours()/(24*7)) + 1
	if week > p.Config.TotalWeeks {
		week = p.Config.TotalWeeks
	}
	return week
}

// phaseOfWeek returns the phase of the block containing the plan week.
// Weeks past the generated blocks (a race date beyond the final cycle)
// read as the last block's phase.
func phaseOfWeek(p *plan.Plan, week int) string {
	if week < 1 || len(p.Blocks) == 0 {
		return ""
	}
	for _, b := range p.Blocks {
		if week >= b.StartWeek && week < b.StartWeek+b.Weeks {
			return b.Phase
		}
	}
	last := p.Blocks[len(p.Blocks)-1]
	if week >= last.StartWeek+last.Weeks {
		return last.Phase
	}
	return ""
}

// upcoming lists the scheduled workouts in the next windowDays days.
func upcoming(p *plan.Plan, now time.Time, windowDays int) []plan.Workout {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, windowDays)

	var out []plan.Workout
	for _, w := range p.Workouts {
		if w.Date.Before(from) || !w.Date.Before(to) {
			continue
		}
		out = append(out, *w)
	}
	return out
}

// weeklyVolume buckets run distance into the last ChartWeeks
// Monday-start weeks, oldest first.
func weeklyVolume(runs []store.Run, now time.Time) (volume []float64, labels []string) {
	volume = make([]float64, ChartWeeks)
	labels = make([]string, ChartWeeks)

	currentWeekStart := weekStart(now)
	for i := 0; i < ChartWeeks; i++ {
		labels[i] = currentWeekStart.AddDate(0, 0, -7*(ChartWeeks-1-i)).Format("Jan 02")
	}

	for _, r := range runs {
		days := int(currentWeekStart.Sub(weekStart(r.Date)).Hours() / 24)
		idx := ChartWeeks - 1 - days/7
		if idx < 0 || idx >= ChartWeeks {
			continue
		}
		volume[idx] += r.DistanceM / 1000.0
	}
	return volume, labels
}

// weekStart returns the Monday midnight beginning t's week.
func weekStart(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
}
