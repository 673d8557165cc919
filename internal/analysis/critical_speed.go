package analysis

import "pacemaker/internal/store"

// DefaultCriticalSpeed is used when the history has fewer than two
// qualifying time trials (m/s).
const DefaultCriticalSpeed = 3.0

// csEffortMin is the minimum effort for a run to count as a time trial
const csEffortMin = 8

// CriticalSpeed estimates critical speed (m/s) with a two-point model:
// the slope of distance over time between the two most widely separated
// high-effort trials of at least 3km.
func CriticalSpeed(runs []store.Run) float64 {
	var shortest, longest *store.Run
	for i := range runs {
		r := &runs[i]
		if r.Effort < csEffortMin || r.DistanceM < minVDOTDistanceM || r.DurationSec <= 0 {
			continue
		}
		if shortest == nil || r.DistanceM < shortest.DistanceM {
			shortest = r
		}
		if longest == nil || r.DistanceM > longest.DistanceM {
			longest = r
		}
	}

	if shortest == nil || longest == nil || shortest == longest {
		return DefaultCriticalSpeed
	}

	deltaD := longest.DistanceM - shortest.DistanceM
	deltaT := float64(longest.DurationSec - shortest.DurationSec)
	if deltaD <= 0 || deltaT <= 0 {
		return DefaultCriticalSpeed
	}

	return deltaD / deltaT
}
