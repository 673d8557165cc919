package analysis

import (
	"time"

	"pacemaker/internal/store"
)

// InjuryRisk scores injury likelihood on a 0-100 scale from the load
// ratio, the week-over-week mileage increase, and the recovery deficit.
func InjuryRisk(ratio, weeklyIncrease, recoveryScore float64) float64 {
	var score float64

	// Load ratio bucket
	switch {
	case ratio > 1.5:
		score += 40
	case ratio > 1.3:
		score += 25
	case ratio >= 1.0:
		score += 10
	default:
		score += 20 // undertraining carries its own risk
	}

	// Weekly mileage increase bucket
	switch {
	case weeklyIncrease > 0.20:
		score += 30
	case weeklyIncrease > 0.10:
		score += 20
	case weeklyIncrease >= 0.05:
		score += 10
	}

	score += 0.3 * (100 - recoveryScore)

	return clampScore(score)
}

// WeeklyMileageIncrease compares the trailing 7 days of distance against
// the 7 days before that. Returns the fractional increase, 0 when the
// prior week is empty.
func WeeklyMileageIncrease(runs []store.Run, now time.Time) float64 {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	var current, prior float64
	for _, r := range runs {
		switch {
		case r.Date.After(now):
			continue
		case r.Date.After(weekAgo):
			current += r.DistanceM
		case r.Date.After(twoWeeksAgo):
			prior += r.DistanceM
		}
	}

	if prior == 0 {
		return 0
	}
	return (current - prior) / prior
}

// RiskDescription returns a human-readable injury risk classification
func RiskDescription(risk float64) string {
	switch {
	case risk < 25:
		return "Low"
	case risk < 50:
		return "Moderate"
	case risk < 75:
		return "High"
	default:
		return "Critical"
	}
}
