package adapt

import (
	"time"

	"pacemaker/internal/plan"
)

// Performance trend labels
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

const (
	minTrendSamples = 5
	trendBandPct    = 0.02
)

// Progress summarizes how training is going against the plan.
type Progress struct {
	AdherenceRate float64 // completed over workouts due so far
	Trend         string
	Completed     int
	Planned       int // workouts whose date is not in the future
}

// AnalyzeProgress computes adherence against the plan's due workouts
// and a performance trend from effort-normalized pace. Fewer than five
// usable completions read as a stable trend.
func AnalyzeProgress(p *plan.Plan, outcomes []Outcome, now time.Time) Progress {
	prog := Progress{AdherenceRate: 1, Trend: TrendStable}

	if p != nil {
		for _, w := range p.Workouts {
			if !w.Date.After(now) {
				prog.Planned++
			}
		}
	}

	seen := make(map[string]bool)
	for _, o := range outcomes {
		if !o.Completed {
			continue
		}
		if o.WorkoutID != "" {
			if seen[o.WorkoutID] {
				continue
			}
			seen[o.WorkoutID] = true
		}
		prog.Completed++
	}

	if prog.Planned > 0 {
		prog.AdherenceRate = float64(prog.Completed) / float64(prog.Planned)
		if prog.AdherenceRate > 1 {
			prog.AdherenceRate = 1
		}
	}

	prog.Trend = performanceTrend(outcomes)
	return prog
}

// performanceTrend compares effort-normalized pace between the earlier
// and later halves of the completed outcomes. Lower is better, so a
// later-half drop beyond the band means improvement.
func performanceTrend(outcomes []Outcome) string {
	var metrics []float64
	for _, o := range outcomes {
		if !o.Completed || o.ActualKm <= 0 || o.ActualMin <= 0 || o.Effort <= 0 {
			continue
		}
		pace := o.ActualMin / o.ActualKm
		metrics = append(metrics, pace*float64(o.Effort)/10)
	}
	if len(metrics) < minTrendSamples {
		return TrendStable
	}

	half := len(metrics) / 2
	earlier := mean(metrics[:half])
	later := mean(metrics[half:])
	if earlier <= 0 {
		return TrendStable
	}

	switch {
	case later < earlier*(1-trendBandPct):
		return TrendImproving
	case later > earlier*(1+trendBandPct):
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
