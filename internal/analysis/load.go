package analysis

import (
	"sort"
	"time"

	"pacemaker/internal/store"
)

// DefaultThresholdPace is assumed when no assessment is available (sec/km)
const DefaultThresholdPace = 300.0

// Load trend classifications
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// LoadState represents acute/chronic training load after a run
type LoadState struct {
	Date    time.Time
	Stress  float64 // this run's stress score
	Acute   float64 // ~7-day EMA
	Chronic float64 // ~28-day EMA
	Ratio   float64 // acute/chronic, 1 when chronic is zero
	Trend   string
}

// StressScore computes a run's training stress: duration in minutes times
// the squared intensity factor, normalized so an hour at threshold pace
// scores 100.
func StressScore(r store.Run, thresholdPaceSecKm float64) float64 {
	pace := runPace(r)
	if pace <= 0 || thresholdPaceSecKm <= 0 || r.DurationSec <= 0 {
		return 0
	}

	minutes := float64(r.DurationSec) / 60.0
	intensityFactor := thresholdPaceSecKm / pace

	return minutes * intensityFactor * intensityFactor * (100.0 / 60.0)
}

// CalculateLoadSeries computes the per-run load states in chronological
// order. Acute and chronic loads are exponential moving averages with
// 7-run and 28-run time constants.
func CalculateLoadSeries(runs []store.Run, thresholdPaceSecKm float64) []LoadState {
	if len(runs) == 0 {
		return nil
	}

	ordered := make([]store.Run, len(runs))
	copy(ordered, runs)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	acuteDecay := 2.0 / (7.0 + 1.0)
	chronicDecay := 2.0 / (28.0 + 1.0)

	states := make([]LoadState, 0, len(ordered))
	var acute, chronic float64

	for i, r := range ordered {
		stress := StressScore(r, thresholdPaceSecKm)

		// Exponential moving average
		acute = acute + acuteDecay*(stress-acute)
		chronic = chronic + chronicDecay*(stress-chronic)

		ratio := 1.0
		if chronic > 0 {
			ratio = acute / chronic
		}

		trend := TrendStable
		if i >= 7 {
			prior := states[i-7].Acute
			switch {
			case prior > 0 && acute > prior*1.10:
				trend = TrendIncreasing
			case prior > 0 && acute < prior*0.90:
				trend = TrendDecreasing
			}
		}

		states = append(states, LoadState{
			Date:    r.Date,
			Stress:  stress,
			Acute:   acute,
			Chronic: chronic,
			Ratio:   ratio,
			Trend:   trend,
		})
	}

	return states
}

// CurrentLoad returns the most recent load state. An empty history yields
// a neutral state (ratio 1, stable).
func CurrentLoad(runs []store.Run, thresholdPaceSecKm float64) LoadState {
	states := CalculateLoadSeries(runs, thresholdPaceSecKm)
	if len(states) == 0 {
		return LoadState{Ratio: 1, Trend: TrendStable}
	}
	return states[len(states)-1]
}

// RatioDescription returns a human-readable classification of an
// acute:chronic ratio
func RatioDescription(ratio float64) string {
	switch {
	case ratio < 0.8:
		return "Very low - detraining risk"
	case ratio < 1.0:
		return "Low - room to build"
	case ratio <= 1.3:
		return "Optimal - productive training"
	case ratio <= 1.5:
		return "High - monitor fatigue"
	default:
		return "Very high - overtraining risk"
	}
}
