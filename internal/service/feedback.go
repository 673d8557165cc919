package service

import (
	"fmt"
	"time"

	"pacemaker/internal/adapt"
	"pacemaker/internal/analysis"
	"pacemaker/internal/config"
	"pacemaker/internal/plan"
	"pacemaker/internal/store"
)

// FeedbackService records workout reports and recovery check-ins and
// runs the adaptation loop over the active plan.
type FeedbackService struct {
	store *store.DB
	cfg   *config.Config
}

// NewFeedbackService creates a feedback service
func NewFeedbackService(db *store.DB, cfg *config.Config) *FeedbackService {
	return &FeedbackService{store: db, cfg: cfg}
}

// RecordReport stores a workout report and marks the workout completed
// or skipped. PlanID and Date default from the workout itself.
func (s *FeedbackService) RecordReport(r *store.WorkoutReport) error {
	w, err := s.store.GetWorkout(r.WorkoutID)
	if err != nil {
		return fmt.Errorf("looking up workout: %w", err)
	}
	if r.PlanID == "" {
		r.PlanID = w.PlanID
	}
	if r.Date.IsZero() {
		r.Date = w.Date
	}

	if _, err := s.store.InsertReport(r); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	status := plan.StatusSkipped
	if r.Completed {
		status = plan.StatusCompleted
	}
	if err := s.store.MarkWorkoutStatus(w.ID, status); err != nil {
		return fmt.Errorf("marking workout %s: %w", status, err)
	}
	return nil
}

// RecordRecovery stores a daily recovery check-in, one row per day.
func (s *FeedbackService) RecordRecovery(m *store.RecoveryMetric) error {
	if m.Date.IsZero() {
		m.Date = time.Now()
	}
	if err := s.store.UpsertRecoveryMetric(m); err != nil {
		return fmt.Errorf("saving recovery check-in: %w", err)
	}
	return nil
}

// AdaptResult contains the results of one adaptation pass
type AdaptResult struct {
	PlanID        string
	Signals       adapt.Signals
	Modifications []adapt.Modification
	Diff          adapt.PlanDiff
}

// Adapt gathers the current training signals, runs the modification
// rules against the active plan and applies whatever they suggest.
// The plan is only rewritten when at least one rule fired.
func (s *FeedbackService) Adapt(now time.Time) (*AdaptResult, error) {
	if now.IsZero() {
		now = time.Now()
	}

	id, err := s.store.GetState(store.StateActivePlan)
	if err != nil {
		return nil, fmt.Errorf("reading active plan id: %w", err)
	}
	if id == "" {
		return nil, store.ErrPlanNotFound
	}
	p, err := loadPlan(s.store, id)
	if err != nil {
		return nil, err
	}

	reports, err := s.store.ListReports(id)
	if err != nil {
		return nil, fmt.Errorf("loading reports: %w", err)
	}
	runs, err := s.store.ListRuns()
	if err != nil {
		return nil, fmt.Errorf("loading runs: %w", err)
	}
	latest, err := s.store.LatestRecoveryMetric()
	if err != nil {
		return nil, fmt.Errorf("loading recovery snapshot: %w", err)
	}

	threshold := s.thresholdPace(p.Config.Assessment.ThresholdPace)
	outcomes := adapt.BuildOutcomes(p, reports)

	signals := adapt.Signals{
		Load:     analysis.CurrentLoad(runs, threshold),
		Fatigue:  adapt.DetectFatigue(outcomes, now),
		Progress: adapt.AnalyzeProgress(p, outcomes, now),
	}
	signals.RecoveryScore = adapt.WeightedRecoveryScore(latest, analysis.RecoveryScore(runs, latest, now))
	signals.Recovery = adapt.ClassifyRecovery(signals.RecoveryScore)
	if latest != nil {
		signals.InjuryReported = latest.InjuryFlag
		signals.Soreness = latest.Soreness
	}

	mods := adapt.SuggestModifications(signals)
	result := &AdaptResult{PlanID: p.ID, Signals: signals, Modifications: mods}
	if len(mods) == 0 {
		return result, nil
	}

	result.Diff = adapt.ApplyModifications(p, mods, now)
	if err := savePlan(s.store, p); err != nil {
		return nil, err
	}
	return result, nil
}

// thresholdPace resolves the threshold pace used for load math: the
// configured override, then the plan's assessment, then the default.
func (s *FeedbackService) thresholdPace(assessed float64) float64 {
	if s.cfg != nil && s.cfg.Athlete.ThresholdPace > 0 {
		return s.cfg.Athlete.ThresholdPace
	}
	if assessed > 0 {
		return assessed
	}
	return analysis.DefaultThresholdPace
}
