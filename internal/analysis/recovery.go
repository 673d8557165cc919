package analysis

import (
	"time"

	"pacemaker/internal/store"
)

// Recovery score bands
const (
	hardEffortMin    = 7
	hrvHighBandMs    = 65.0
	hrvLowBandMs     = 45.0
	restingHRHighBpm = 60.0
	restingHRLowBpm  = 50.0
)

// RecoveryScore estimates how recovered the athlete is on a 0-100 scale.
// Base 70, minus 5 per hard run in the trailing 7 days, adjusted by HRV
// and resting heart rate when a recovery snapshot is available.
func RecoveryScore(runs []store.Run, latest *store.RecoveryMetric, now time.Time) float64 {
	score := 70.0

	weekAgo := now.AddDate(0, 0, -7)
	for _, r := range runs {
		if r.Effort >= hardEffortMin && !r.Date.Before(weekAgo) && !r.Date.After(now) {
			score -= 5
		}
	}

	if latest != nil {
		if latest.HRVMs != nil {
			switch {
			case *latest.HRVMs > hrvHighBandMs:
				score += 10
			case *latest.HRVMs < hrvLowBandMs:
				score -= 10
			}
		}
		if latest.RestingHR != nil {
			switch {
			case *latest.RestingHR > restingHRHighBpm:
				score -= 10
			case *latest.RestingHR < restingHRLowBpm:
				score += 10
			}
		}
	}

	return clampScore(score)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
