package adapt

import "pacemaker/internal/store"

// RecoveryStatus classifies how ready the athlete is for the next
// quality session.
type RecoveryStatus string

const (
	StatusRecovered   RecoveryStatus = "recovered"
	StatusAdequate    RecoveryStatus = "adequate"
	StatusFatigued    RecoveryStatus = "fatigued"
	StatusOverreached RecoveryStatus = "overreached"
)

// Classification thresholds on the 0-100 recovery scale
const (
	recoveredMin = 80.0
	adequateMin  = 60.0
	fatiguedMin  = 40.0
)

// Component weights for the check-in score. HRV and resting HR carry
// less weight than the subjective ratings because wearable readings
// swing day to day.
const (
	weightSleep    = 0.25
	weightSoreness = 0.25
	weightEnergy   = 0.20
	weightHRV      = 0.15
	weightRHR      = 0.15
)

// WeightedRecoveryScore scores a daily check-in on a 0-100 scale.
// Each component contributes proportionally to its weight; missing
// components renormalize over the rest. Zero-valued subjective ratings
// are treated as unreported. With no usable component the fitness
// model's score is returned unchanged.
func WeightedRecoveryScore(m *store.RecoveryMetric, fallback float64) float64 {
	if m == nil {
		return fallback
	}

	var sum, weights float64
	add := func(score, weight float64) {
		sum += score * weight
		weights += weight
	}

	if m.SleepQuality > 0 {
		add(float64(m.SleepQuality)*10, weightSleep)
	}
	if m.Soreness > 0 {
		add(float64(10-m.Soreness)*10, weightSoreness)
	}
	if m.EnergyLevel > 0 {
		add(float64(m.EnergyLevel)*10, weightEnergy)
	}
	if m.HRVMs != nil {
		add(bandScore(*m.HRVMs, 45, 65, false), weightHRV)
	}
	if m.RestingHR != nil {
		add(bandScore(*m.RestingHR, 50, 60, true), weightRHR)
	}

	if weights == 0 {
		return fallback
	}
	return clamp100(sum / weights)
}

// bandScore maps a wearable reading onto 40/70/90 depending on which
// side of its healthy band it falls. lowerIsBetter flips which side
// scores high, as for resting heart rate.
func bandScore(v, low, high float64, lowerIsBetter bool) float64 {
	below, above := 40.0, 90.0
	if lowerIsBetter {
		below, above = 90.0, 40.0
	}
	switch {
	case v < low:
		return below
	case v > high:
		return above
	default:
		return 70
	}
}

// ClassifyRecovery buckets a recovery score into a status.
func ClassifyRecovery(score float64) RecoveryStatus {
	switch {
	case score >= recoveredMin:
		return StatusRecovered
	case score >= adequateMin:
		return StatusAdequate
	case score >= fatiguedMin:
		return StatusFatigued
	default:
		return StatusOverreached
	}
}

// Description returns short guidance text for a status.
func (s RecoveryStatus) Description() string {
	switch s {
	case StatusRecovered:
		return "Fully recovered, ready for quality work"
	case StatusAdequate:
		return "Recovered enough to train as planned"
	case StatusFatigued:
		return "Carrying fatigue, favor easy running"
	case StatusOverreached:
		return "Overreached, back off until recovery improves"
	default:
		return "Unknown recovery status"
	}
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
