package analysis

import "math"

// Standard race distances in meters
const (
	Distance5K       = 5000.0
	Distance10K      = 10000.0
	DistanceHalfMara = 21097.0
	DistanceMarathon = 42195.0
)

// PredictionTarget represents a target distance for predictions
type PredictionTarget struct {
	Name           string // "5k", "10k", "half", "marathon"
	DistanceMeters float64
}

// PredictionTargets defines the standard prediction distances
var PredictionTargets = []PredictionTarget{
	{"5k", Distance5K},
	{"10k", Distance10K},
	{"half", DistanceHalfMara},
	{"marathon", DistanceMarathon},
}

// RacePrediction represents a predicted race time
type RacePrediction struct {
	TargetName       string
	TargetMeters     float64
	PredictedSeconds int
	PredictedPace    float64 // seconds per km
	VDOT             float64
}

// PredictTime predicts the race time in seconds for a target distance
// given a VDOT, by searching for the duration whose computed VDOT matches.
func PredictTime(vdot float64, targetDistanceMeters float64) int {
	if vdot <= 0 || targetDistanceMeters <= 0 {
		return 0
	}

	// VDOT is strictly decreasing in duration for a fixed distance, so
	// bisect between an 8 m/s sprint and a 1 m/s walk.
	low := targetDistanceMeters / 8.0
	high := targetDistanceMeters / 1.0

	for i := 0; i < 60; i++ {
		mid := (low + high) / 2
		got := CalculateVDOT(targetDistanceMeters, int(math.Round(mid)))
		if got > vdot {
			low = mid
		} else {
			high = mid
		}
	}

	return int(math.Round((low + high) / 2))
}

// PredictAll returns predictions for every standard distance
func PredictAll(vdot float64) []RacePrediction {
	predictions := make([]RacePrediction, 0, len(PredictionTargets))
	for _, target := range PredictionTargets {
		seconds := PredictTime(vdot, target.DistanceMeters)
		if seconds == 0 {
			continue
		}
		predictions = append(predictions, RacePrediction{
			TargetName:       target.Name,
			TargetMeters:     target.DistanceMeters,
			PredictedSeconds: seconds,
			PredictedPace:    float64(seconds) / (target.DistanceMeters / 1000.0),
			VDOT:             vdot,
		})
	}
	return predictions
}

// FitnessLabel returns a human-readable fitness level for a VDOT value
func FitnessLabel(vdot float64) string {
	switch {
	case vdot >= 75:
		return "Elite"
	case vdot >= 65:
		return "Highly Competitive"
	case vdot >= 55:
		return "Competitive"
	case vdot >= 45:
		return "Advanced Recreational"
	case vdot >= 38:
		return "Intermediate"
	case vdot >= 30:
		return "Beginner"
	default:
		return "Novice"
	}
}
