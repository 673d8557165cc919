package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInsertAndListReports(t *testing.T) {
	db := NewTestDB(t)
	seedPlan(t, db, "plan-1")

	hr := 152.0
	reports := []*WorkoutReport{
		{
			WorkoutID: "plan-1-w1", PlanID: "plan-1",
			Date:      time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC),
			Completed: true, ActualDistanceKm: 8, ActualDurationMin: 47,
			PerceivedEffort: 4, AvgHeartrate: &hr, Feeling: "normal",
		},
		{
			WorkoutID: "plan-1-w2", PlanID: "plan-1",
			Date:      time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC),
			Completed: false, PerceivedEffort: 0, Feeling: "tired",
			Notes: "cut short, calf tightness",
		},
	}
	for _, r := range reports {
		id, err := db.InsertReport(r)
		require.NoError(t, err)
		require.NotZero(t, id)
	}

	all, err := db.ListReports("plan-1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.True(t, all[0].Completed)
	require.False(t, all[1].Completed)
	require.Equal(t, "cut short, calf tightness", all[1].Notes)
	require.NotNil(t, all[0].AvgHeartrate)
	require.Equal(t, 152.0, *all[0].AvgHeartrate)

	since, err := db.ListReportsSince("plan-1", time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, since, 1)
	require.Equal(t, "plan-1-w2", since[0].WorkoutID)
}

func TestGetReportForWorkoutReturnsLatest(t *testing.T) {
	db := NewTestDB(t)
	seedPlan(t, db, "plan-1")

	_, err := db.InsertReport(&WorkoutReport{
		WorkoutID: "plan-1-w1", PlanID: "plan-1",
		Date:      time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC),
		Completed: false,
	})
	require.NoError(t, err)

	_, err = db.InsertReport(&WorkoutReport{
		WorkoutID: "plan-1-w1", PlanID: "plan-1",
		Date:      time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC),
		Completed: true, ActualDistanceKm: 8,
	})
	require.NoError(t, err)

	r, err := db.GetReportForWorkout("plan-1-w1")
	require.NoError(t, err)
	require.True(t, r.Completed)
	require.Equal(t, 8.0, r.ActualDistanceKm)
}

func TestGetReportForWorkoutNotFound(t *testing.T) {
	db := NewTestDB(t)
	seedPlan(t, db, "plan-1")

	_, err := db.GetReportForWorkout("plan-1-w1")
	require.ErrorIs(t, err, ErrReportNotFound)
}
