package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUpsertRecoveryMetricReplacesSameDay(t *testing.T) {
	db := NewTestDB(t)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rhr := 52.0
	require.NoError(t, db.UpsertRecoveryMetric(&RecoveryMetric{
		Date:      day,
		RestingHR: &rhr,
		Soreness:  3,
	}))

	// Morning wearable sync overwrites the manual entry.
	rhr2 := 55.0
	hrv := 48.0
	require.NoError(t, db.UpsertRecoveryMetric(&RecoveryMetric{
		Date:         day,
		RestingHR:    &rhr2,
		HRVMs:        &hrv,
		SleepQuality: 6,
		Soreness:     4,
		StressLevel:  7,
		EnergyLevel:  5,
		Motivation:   8,
		InjuryFlag:   true,
	}))

	m, err := db.GetRecoveryMetric(day)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Equal(t, 55.0, *m.RestingHR)
	require.Equal(t, 48.0, *m.HRVMs)
	require.Equal(t, 6, m.SleepQuality)
	require.Equal(t, 4, m.Soreness)
	require.Equal(t, 7, m.StressLevel)
	require.Equal(t, 5, m.EnergyLevel)
	require.Equal(t, 8, m.Motivation)
	require.True(t, m.InjuryFlag)

	all, err := db.ListRecoverySince(day.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestGetRecoveryMetricMissingDay(t *testing.T) {
	db := NewTestDB(t)

	m, err := db.GetRecoveryMetric(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestListRecoverySinceOrdersAscending(t *testing.T) {
	db := NewTestDB(t)

	for i := 0; i < 4; i++ {
		require.NoError(t, db.UpsertRecoveryMetric(&RecoveryMetric{
			Date:     time.Date(2025, 3, 10+i, 0, 0, 0, 0, time.UTC),
			Soreness: i,
		}))
	}

	metrics, err := db.ListRecoverySince(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, metrics, 3)
	require.Equal(t, 11, metrics[0].Date.Day())
	require.Equal(t, 13, metrics[2].Date.Day())
}
