// Package adapt turns workout reports and recovery check-ins into
// fatigue state, progress analysis, and prioritized plan modifications.
package adapt

import (
	"sort"
	"time"

	"pacemaker/internal/plan"
	"pacemaker/internal/store"
)

// Outcome pairs a scheduled workout with what the athlete actually did.
// Reports that reference no known workout still count, with zero
// planned metrics.
type Outcome struct {
	Date       time.Time
	WorkoutID  string
	Type       string
	PlannedMin float64
	PlannedKm  float64
	ActualMin  float64
	ActualKm   float64
	Effort     int // RPE 1-10
	Completed  bool
	Feeling    string
}

// CompletionRate is actual over planned duration. A completed outcome
// with no planned duration counts as fully done.
func (o Outcome) CompletionRate() float64 {
	if o.PlannedMin <= 0 {
		if o.Completed {
			return 1
		}
		return 0
	}
	rate := o.ActualMin / o.PlannedMin
	if rate > 1 {
		return 1
	}
	return rate
}

// BuildOutcomes joins reports against the plan's workouts by workout id
// and returns them ordered by date.
func BuildOutcomes(p *plan.Plan, reports []store.WorkoutReport) []Outcome {
	byID := make(map[string]*plan.Workout)
	if p != nil {
		for _, w := range p.Workouts {
			byID[w.ID] = w
		}
	}

	outcomes := make([]Outcome, 0, len(reports))
	for _, r := range reports {
		o := Outcome{
			Date:      r.Date,
			WorkoutID: r.WorkoutID,
			ActualMin: r.ActualDurationMin,
			ActualKm:  r.ActualDistanceKm,
			Effort:    r.PerceivedEffort,
			Completed: r.Completed,
			Feeling:   r.Feeling,
		}
		if w, ok := byID[r.WorkoutID]; ok {
			o.Type = w.Type
			o.PlannedMin = float64(w.DurationMin)
			o.PlannedKm = w.DistanceKm
		}
		outcomes = append(outcomes, o)
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].Date.Before(outcomes[j].Date)
	})
	return outcomes
}

// day collapses a timestamp to its calendar date.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
