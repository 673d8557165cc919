package analysis

import (
	"math"
	"time"

	"pacemaker/internal/store"
)

// FitnessAssessment is the derived fitness snapshot a plan is built from.
// Recomputed whenever the run history changes.
type FitnessAssessment struct {
	VDOT             float64
	CriticalSpeed    float64 // m/s
	RunningEconomy   float64 // m/min per heartbeat, 0 without HR data
	ThresholdPace    float64 // lactate threshold, sec/km
	WeeklyVolumeKm   float64 // trailing 28-day average
	LongestRunKm     float64 // trailing 90 days
	TrainingAgeYears float64
	RecoveryScore    float64
	OverallScore     float64
}

// Assess computes a full fitness assessment from the run history and the
// latest recovery snapshot. Total over any input: sparse histories
// produce the documented defaults instead of errors.
func Assess(runs []store.Run, latest *store.RecoveryMetric, now time.Time) FitnessAssessment {
	a := FitnessAssessment{
		VDOT:           EstimateVDOT(runs),
		CriticalSpeed:  CriticalSpeed(runs),
		RunningEconomy: RunningEconomy(runs),
		RecoveryScore:  RecoveryScore(runs, latest, now),
	}
	a.ThresholdPace = ThresholdPaceForVDOT(a.VDOT)

	monthAgo := now.AddDate(0, 0, -28)
	quarterAgo := now.AddDate(0, 0, -90)
	var monthMeters float64
	var monthRuns int
	var firstRun time.Time

	for _, r := range runs {
		if r.Date.After(now) {
			continue
		}
		if firstRun.IsZero() || r.Date.Before(firstRun) {
			firstRun = r.Date
		}
		if r.Date.After(monthAgo) {
			monthMeters += r.DistanceM
			monthRuns++
		}
		if r.Date.After(quarterAgo) {
			if km := r.DistanceM / 1000.0; km > a.LongestRunKm {
				a.LongestRunKm = km
			}
		}
	}

	a.WeeklyVolumeKm = monthMeters / 1000.0 / 4.0
	if !firstRun.IsZero() {
		a.TrainingAgeYears = now.Sub(firstRun).Hours() / 24 / 365.25
	}

	a.OverallScore = overallScore(a, monthRuns)
	return a
}

// ThresholdPaceForVDOT derives lactate-threshold pace (sec/km) from VDOT,
// taking threshold velocity as 88% of the velocity at VO2max.
func ThresholdPaceForVDOT(vdot float64) float64 {
	v := VelocityAtVO2Max(vdot)
	if v <= 0 {
		return DefaultThresholdPace
	}
	thresholdVelocity := 0.88 * v // m/min
	return 60000.0 / thresholdVelocity
}

// overallScore blends fitness, volume and consistency into one 0-100 number
func overallScore(a FitnessAssessment, monthRuns int) float64 {
	fitness := clampScore((a.VDOT - 30) / 30 * 100)
	volume := math.Min(100, a.WeeklyVolumeKm/80*100)
	consistency := math.Min(100, float64(monthRuns)/28.0*7/5*100)

	return math.Round(0.4*fitness + 0.3*volume + 0.3*consistency)
}

// ExperienceLevel buckets an assessment into the experience tiers that
// seed weekly volume progression.
func ExperienceLevel(a FitnessAssessment) string {
	switch {
	case a.TrainingAgeYears < 2 || a.WeeklyVolumeKm < 30:
		return "beginner"
	case a.TrainingAgeYears >= 5 && a.WeeklyVolumeKm >= 60:
		return "advanced"
	default:
		return "intermediate"
	}
}
