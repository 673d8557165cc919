package analysis

import (
	"math"
	"sort"

	"pacemaker/internal/store"
)

// DefaultVDOT is the conservative baseline used when the run history
// contains no qualifying race or hard effort.
const DefaultVDOT = 35.0

// Qualifying rules for VDOT estimation
const (
	minVDOTDistanceM = 3000.0 // fallback efforts must cover at least 3km
	raceEffortMin    = 9      // effort treated as near-maximal
	qualityEffortMin = 7      // effort allowed into the fallback pool
)

// CalculateVDOT derives a VDOT score from a single performance using the
// Daniels/Gilbert regression: a velocity→VO2 curve corrected by the
// fraction of VO2max sustainable for the effort's duration.
// distanceMeters: distance covered, durationSeconds: elapsed time.
func CalculateVDOT(distanceMeters float64, durationSeconds int) float64 {
	if distanceMeters <= 0 || durationSeconds <= 0 {
		return 0
	}

	minutes := float64(durationSeconds) / 60.0
	velocity := distanceMeters / minutes // m/min

	vo2 := vo2ForVelocity(velocity)
	pct := percentVO2Max(minutes)
	if pct <= 0 {
		return 0
	}

	vdot := vo2 / pct
	return math.Round(vdot*10) / 10 // Round to 1 decimal place
}

// vo2ForVelocity returns oxygen cost (ml/kg/min) for a running velocity in m/min
func vo2ForVelocity(v float64) float64 {
	return -4.60 + 0.182258*v + 0.000104*v*v
}

// percentVO2Max returns the fraction of VO2max sustainable for a duration in minutes
func percentVO2Max(minutes float64) float64 {
	return 0.8 +
		0.1894393*math.Exp(-0.012778*minutes) +
		0.2989558*math.Exp(-0.1932605*minutes)
}

// VelocityAtVO2Max inverts the oxygen-cost curve: the velocity (m/min) a
// runner with the given VDOT could hold at 100% of VO2max.
func VelocityAtVO2Max(vdot float64) float64 {
	if vdot <= 0 {
		return 0
	}
	// Solve 0.000104 v^2 + 0.182258 v - (4.60 + vdot) = 0 for v > 0
	a, b := 0.000104, 0.182258
	c := -(4.60 + vdot)
	return (-b + math.Sqrt(b*b-4*a*c)) / (2 * a)
}

// EstimateVDOT estimates an athlete's VDOT from their run history.
// Races and near-maximal efforts are preferred; otherwise the three
// fastest quality runs of at least 3km are averaged. Histories with no
// qualifying effort fall back to DefaultVDOT.
func EstimateVDOT(runs []store.Run) float64 {
	best := 0.0
	for _, r := range runs {
		if !r.IsRace && r.Effort < raceEffortMin {
			continue
		}
		if v := CalculateVDOT(r.DistanceM, r.DurationSec); v > best {
			best = v
		}
	}
	if best > 0 {
		return best
	}

	var pool []store.Run
	for _, r := range runs {
		if r.Effort >= qualityEffortMin && r.DistanceM >= minVDOTDistanceM && runPace(r) > 0 {
			pool = append(pool, r)
		}
	}
	if len(pool) == 0 {
		return DefaultVDOT
	}

	sort.Slice(pool, func(i, j int) bool {
		return runPace(pool[i]) < runPace(pool[j])
	})
	if len(pool) > 3 {
		pool = pool[:3]
	}

	var sum float64
	for _, r := range pool {
		sum += CalculateVDOT(r.DistanceM, r.DurationSec)
	}
	return math.Round(sum/float64(len(pool))*10) / 10
}

// runPace returns a run's pace in seconds per km, deriving it from
// distance and duration when the stored average is missing.
func runPace(r store.Run) float64 {
	if r.AvgPaceSecKm > 0 {
		return r.AvgPaceSecKm
	}
	if r.DistanceM <= 0 || r.DurationSec <= 0 {
		return 0
	}
	return float64(r.DurationSec) / (r.DistanceM / 1000.0)
}
