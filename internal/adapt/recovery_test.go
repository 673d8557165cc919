package adapt

import (
	"math"
	"testing"

	"pacemaker/internal/store"
)

func TestWeightedRecoveryScore(t *testing.T) {
	hrvGood := 70.0
	hrvBad := 40.0
	rhrGood := 48.0
	rhrBad := 62.0
	hrvMid := 55.0
	rhrMid := 55.0

	tests := []struct {
		name     string
		metric   *store.RecoveryMetric
		fallback float64
		expected float64
	}{
		{
			name:     "nil snapshot uses fallback",
			metric:   nil,
			fallback: 70,
			expected: 70,
		},
		{
			name:     "empty snapshot uses fallback",
			metric:   &store.RecoveryMetric{},
			fallback: 55,
			expected: 55,
		},
		{
			name: "full good check-in",
			metric: &store.RecoveryMetric{
				SleepQuality: 8,
				Soreness:     2,
				EnergyLevel:  7,
				HRVMs:        &hrvGood,
				RestingHR:    &rhrGood,
			},
			fallback: 70,
			expected: 81,
		},
		{
			name: "full bad check-in",
			metric: &store.RecoveryMetric{
				SleepQuality: 3,
				Soreness:     8,
				EnergyLevel:  2,
				HRVMs:        &hrvBad,
				RestingHR:    &rhrBad,
			},
			fallback: 70,
			expected: 28.5,
		},
		{
			name:     "sleep only renormalizes",
			metric:   &store.RecoveryMetric{SleepQuality: 6},
			fallback: 70,
			expected: 60,
		},
		{
			name: "wearable mid-band",
			metric: &store.RecoveryMetric{
				HRVMs:     &hrvMid,
				RestingHR: &rhrMid,
			},
			fallback: 70,
			expected: 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedRecoveryScore(tt.metric, tt.fallback)
			if math.Abs(got-tt.expected) > 0.01 {
				t.Errorf("WeightedRecoveryScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassifyRecovery(t *testing.T) {
	tests := []struct {
		score    float64
		expected RecoveryStatus
	}{
		{90, StatusRecovered},
		{80, StatusRecovered},
		{79.9, StatusAdequate},
		{60, StatusAdequate},
		{59, StatusFatigued},
		{40, StatusFatigued},
		{39.9, StatusOverreached},
		{0, StatusOverreached},
	}
	for _, tt := range tests {
		if got := ClassifyRecovery(tt.score); got != tt.expected {
			t.Errorf("ClassifyRecovery(%v) = %v, want %v", tt.score, got, tt.expected)
		}
	}
}

func TestRecoveryStatusDescription(t *testing.T) {
	statuses := []RecoveryStatus{StatusRecovered, StatusAdequate, StatusFatigued, StatusOverreached}
	for _, s := range statuses {
		if s.Description() == "" {
			t.Errorf("no description for %v", s)
		}
	}
	if RecoveryStatus("bogus").Description() == "" {
		t.Error("no description for unknown status")
	}
}
