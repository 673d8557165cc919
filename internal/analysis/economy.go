package analysis

import "pacemaker/internal/store"

// RunningEconomy calculates a pace:HR efficiency index over runs with
// heart-rate data: (speed in m/min) / (average HR).
// Higher is better - you're running faster for the same HR.
// Typical values range from 1.0 to 2.0. Returns 0 without HR data.
func RunningEconomy(runs []store.Run) float64 {
	var total float64
	var count int

	for _, r := range runs {
		if r.AvgHeartrate == nil || r.DurationSec <= 0 || r.DistanceM <= 0 {
			continue
		}
		hr := *r.AvgHeartrate
		// Filter noise: reasonable HR and an actual run
		if hr <= 80 || hr >= 220 {
			continue
		}

		velocityMPM := r.DistanceM / (float64(r.DurationSec) / 60.0)
		total += velocityMPM / hr
		count++
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}
