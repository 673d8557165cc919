package analysis

import (
	"testing"
	"time"

	"pacemaker/internal/store"
)

func TestRecoveryScore(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	hardRuns := func(n int) []store.Run {
		var runs []store.Run
		for i := 0; i < n; i++ {
			runs = append(runs, makeRun(now.AddDate(0, 0, -(i%3)-1), 8000, 2100, 8, false))
		}
		return runs
	}

	tests := []struct {
		name     string
		runs     []store.Run
		metric   *store.RecoveryMetric
		expected float64
	}{
		{
			name:     "no data baseline",
			expected: 70,
		},
		{
			name: "easy week keeps baseline",
			runs: []store.Run{
				makeRun(now.AddDate(0, 0, -1), 8000, 2880, 3, false),
				makeRun(now.AddDate(0, 0, -3), 8000, 2880, 3, false),
			},
			expected: 70,
		},
		{
			name:     "three hard runs",
			runs:     hardRuns(3),
			expected: 55,
		},
		{
			name: "hard run outside window ignored",
			runs: []store.Run{
				makeRun(now.AddDate(0, 0, -10), 8000, 2100, 9, false),
			},
			expected: 70,
		},
		{
			name:     "high HRV bonus",
			metric:   &store.RecoveryMetric{Date: now, HRVMs: floatPtr(70)},
			expected: 80,
		},
		{
			name:     "low HRV penalty",
			metric:   &store.RecoveryMetric{Date: now, HRVMs: floatPtr(40)},
			expected: 60,
		},
		{
			name:     "elevated resting HR penalty",
			metric:   &store.RecoveryMetric{Date: now, RestingHR: floatPtr(65)},
			expected: 60,
		},
		{
			name:     "low resting HR bonus",
			metric:   &store.RecoveryMetric{Date: now, RestingHR: floatPtr(45)},
			expected: 80,
		},
		{
			name:     "both signals stack",
			metric:   &store.RecoveryMetric{Date: now, HRVMs: floatPtr(70), RestingHR: floatPtr(45)},
			expected: 90,
		},
		{
			name:     "mid-band signals are neutral",
			metric:   &store.RecoveryMetric{Date: now, HRVMs: floatPtr(55), RestingHR: floatPtr(55)},
			expected: 70,
		},
		{
			name:     "floor at zero",
			runs:     hardRuns(20),
			metric:   &store.RecoveryMetric{Date: now, HRVMs: floatPtr(40), RestingHR: floatPtr(65)},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecoveryScore(tt.runs, tt.metric, now)
			if got != tt.expected {
				t.Errorf("RecoveryScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}
