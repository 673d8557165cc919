package service

import (
	"context"
	"fmt"
	"time"

	"pacemaker/internal/analysis"
	"pacemaker/internal/config"
	"pacemaker/internal/methodology"
	"pacemaker/internal/plan"
	"pacemaker/internal/store"
)

// PlanService builds, persists and activates training plans.
type PlanService struct {
	store *store.DB
	cfg   *config.Config
}

// NewPlanService creates a plan service using the configured plan defaults
func NewPlanService(db *store.DB, cfg *config.Config) *PlanService {
	return &PlanService{store: db, cfg: cfg}
}

// Progress reports progress during a rebuild
type Progress struct {
	Phase     string // "assess", "generate", "customize", "persist"
	Total     int
	Completed int
	Detail    string
}

// RebuildOptions override the configured plan defaults for one rebuild.
// Zero values fall back to the config file, then to built-in defaults.
type RebuildOptions struct {
	Name        string
	Goal        string
	GoalKm      float64
	Methodology string
	TotalWeeks  int
	StartDate   time.Time // zero means the next Monday
	RaceDate    time.Time // zero means the plan's final Sunday
	Days        []time.Weekday
	Now         time.Time // zero means time.Now, fixed in tests
}

// RebuildResult contains the results of a rebuild
type RebuildResult struct {
	PlanID     string
	Workouts   int
	Weeks      int
	Assessment analysis.FitnessAssessment
	Violations []methodology.Violation // unresolved after enforcement
	Warnings   []string
}

// Rebuild generates a fresh plan from the current run history and makes
// it the active plan: assessment -> generation -> methodology
// customization -> distribution enforcement -> persistence. Progress is
// reported over the optional channel, which is closed on return.
func (s *PlanService) Rebuild(ctx context.Context, opts RebuildOptions, progress chan<- Progress) (*RebuildResult, error) {
	if progress != nil {
		defer close(progress)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Phase 1: assess fitness from the run history
	runs, err := s.store.ListRuns()
	if err != nil {
		return nil, fmt.Errorf("loading runs: %w", err)
	}
	latest, err := s.store.LatestRecoveryMetric()
	if err != nil {
		return nil, fmt.Errorf("loading recovery snapshot: %w", err)
	}

	emit(progress, Progress{Phase: "assess", Total: len(runs)})
	assessment := analysis.Assess(runs, latest, now)
	if s.cfg != nil && s.cfg.Athlete.ThresholdPace > 0 {
		assessment.ThresholdPace = s.cfg.Athlete.ThresholdPace
	}
	emit(progress, Progress{Phase: "assess", Total: len(runs), Completed: len(runs)})

	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	pcfg := s.planConfig(opts, assessment, now)
	m, err := methodology.New(pcfg.Methodology)
	if err != nil {
		return nil, err
	}

	// Phase 2: generate the periodized skeleton
	emit(progress, Progress{Phase: "generate", Total: pcfg.TotalWeeks, Detail: pcfg.Methodology})
	p, err := plan.Generate(pcfg, m)
	if err != nil {
		return nil, err
	}
	emit(progress, Progress{Phase: "generate", Total: pcfg.TotalWeeks, Completed: pcfg.TotalWeeks})

	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	// Phase 3: methodology customization and distribution enforcement
	emit(progress, Progress{Phase: "customize", Total: len(p.Workouts), Detail: m.Name})
	m.Customize(p)
	violations := m.EnforceDistribution(p)
	emit(progress, Progress{Phase: "customize", Total: len(p.Workouts), Completed: len(p.Workouts)})

	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	// Phase 4: persist and activate
	emit(progress, Progress{Phase: "persist", Total: len(p.Workouts)})
	if err := savePlan(s.store, p); err != nil {
		return nil, err
	}
	if err := s.store.SetState(store.StateActivePlan, p.ID); err != nil {
		return nil, fmt.Errorf("activating plan: %w", err)
	}
	emit(progress, Progress{Phase: "persist", Total: len(p.Workouts), Completed: len(p.Workouts)})

	return &RebuildResult{
		PlanID:     p.ID,
		Workouts:   len(p.Workouts),
		Weeks:      pcfg.TotalWeeks,
		Assessment: assessment,
		Violations: violations,
		Warnings:   p.Warnings,
	}, nil
}

// planConfig resolves rebuild options against the config-file defaults.
func (s *PlanService) planConfig(opts RebuildOptions, a analysis.FitnessAssessment, now time.Time) plan.Config {
	pcfg := plan.Config{
		Name:        opts.Name,
		Goal:        opts.Goal,
		GoalKm:      opts.GoalKm,
		Methodology: opts.Methodology,
		TotalWeeks:  opts.TotalWeeks,
		StartDate:   opts.StartDate,
		RaceDate:    opts.RaceDate,
		Days:        opts.Days,
		Assessment:  a,
	}

	if s.cfg != nil {
		if pcfg.Methodology == "" {
			pcfg.Methodology = s.cfg.Plan.Methodology
		}
		if pcfg.Goal == "" {
			pcfg.Goal = s.cfg.Plan.GoalRace
		}
		if pcfg.TotalWeeks == 0 {
			pcfg.TotalWeeks = s.cfg.Plan.TotalWeeks
		}
		if len(pcfg.Days) == 0 {
			if days, err := s.cfg.AvailableWeekdays(); err == nil {
				pcfg.Days = days
			}
		}
	}
	if pcfg.Methodology == "" {
		pcfg.Methodology = "daniels"
	}
	if pcfg.StartDate.IsZero() {
		pcfg.StartDate = nextMonday(now)
	}
	if pcfg.RaceDate.IsZero() && pcfg.TotalWeeks > 0 {
		// The plan's final Sunday
		pcfg.RaceDate = pcfg.StartDate.AddDate(0, 0, 7*pcfg.TotalWeeks-1)
	}
	if pcfg.Name == "" {
		goal := pcfg.Goal
		if goal == "" {
			goal = "training"
		}
		pcfg.Name = fmt.Sprintf("%d-week %s plan", pcfg.TotalWeeks, goal)
	}
	return pcfg
}

// Active loads the currently active plan.
// Returns store.ErrPlanNotFound when no plan has been built yet.
func (s *PlanService) Active() (*plan.Plan, error) {
	id, err := s.store.GetState(store.StateActivePlan)
	if err != nil {
		return nil, fmt.Errorf("reading active plan id: %w", err)
	}
	if id == "" {
		return nil, store.ErrPlanNotFound
	}
	return loadPlan(s.store, id)
}

// Load loads a stored plan by ID.
func (s *PlanService) Load(id string) (*plan.Plan, error) {
	return loadPlan(s.store, id)
}

func emit(progress chan<- Progress, p Progress) {
	if progress != nil {
		progress <- p
	}
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// nextMonday returns the date of the first Monday on or after t.
func nextMonday(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, (8-int(d.Weekday()))%7)
}
