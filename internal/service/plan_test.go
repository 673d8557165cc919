package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pacemaker/internal/catalog"
	"pacemaker/internal/config"
	"pacemaker/internal/store"
)

// rebuildNow is a Wednesday, so generated plans start the following
// Monday (April 7th).
var rebuildNow = time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	return &cfg
}

// seedRunHistory inserts twelve weeks of four steady 8 km runs per
// week, ending just before rebuildNow. The identical stress per run
// keeps the acute:chronic ratio close to 1.
func seedRunHistory(t *testing.T, db *store.DB) {
	t.Helper()
	for wk := 0; wk < 12; wk++ {
		for _, off := range []int{0, 2, 4, 5} {
			date := rebuildNow.AddDate(0, 0, -7*(12-wk)+off)
			_, err := db.UpsertRun(&store.Run{
				Date:         date,
				DistanceM:    8000,
				DurationSec:  2640,
				AvgPaceSecKm: 330,
				Effort:       4,
			})
			require.NoError(t, err)
		}
	}
}

func buildActivePlan(t *testing.T, db *store.DB, cfg *config.Config) *RebuildResult {
	t.Helper()
	svc := NewPlanService(db, cfg)
	res, err := svc.Rebuild(context.Background(), RebuildOptions{Now: rebuildNow}, nil)
	require.NoError(t, err)
	return res
}

func TestRebuildBuildsAndActivatesPlan(t *testing.T) {
	db := store.NewTestDB(t)
	seedRunHistory(t, db)
	svc := NewPlanService(db, testConfig())

	progress := make(chan Progress, 16)
	res, err := svc.Rebuild(context.Background(), RebuildOptions{Now: rebuildNow}, progress)
	require.NoError(t, err)
	require.NotEmpty(t, res.PlanID)
	require.Equal(t, 12, res.Weeks)
	require.Greater(t, res.Workouts, 40)
	require.Greater(t, res.Assessment.WeeklyVolumeKm, 25.0)

	var phases []string
	for p := range progress {
		phases = append(phases, p.Phase)
	}
	require.Contains(t, phases, "assess")
	require.Contains(t, phases, "generate")
	require.Contains(t, phases, "customize")
	require.Contains(t, phases, "persist")

	active, err := db.GetState(store.StateActivePlan)
	require.NoError(t, err)
	require.Equal(t, res.PlanID, active)
}

func TestRebuildRoundTrip(t *testing.T) {
	db := store.NewTestDB(t)
	seedRunHistory(t, db)
	svc := NewPlanService(db, testConfig())
	res := buildActivePlan(t, db, testConfig())

	p, err := svc.Load(res.PlanID)
	require.NoError(t, err)
	require.Equal(t, res.PlanID, p.ID)
	require.Len(t, p.Workouts, res.Workouts)
	require.Equal(t, res.Warnings, p.Warnings)

	start := time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, start, p.Config.StartDate)
	require.Equal(t, "daniels", p.Config.Methodology)
	require.Equal(t, "10k", p.Config.Goal)
	require.Equal(t, 12, p.Config.TotalWeeks)

	// chronological, all dated within the plan, every one with segments
	for i, w := range p.Workouts {
		require.NotEmpty(t, w.Segments, "workout %s has no segments", w.ID)
		require.False(t, w.Date.Before(start))
		if i > 0 {
			require.False(t, w.Date.Before(p.Workouts[i-1].Date))
		}
	}

	// blocks cover the generated weeks contiguously
	week := 1
	for _, b := range p.Blocks {
		require.Equal(t, week, b.StartWeek)
		require.Len(t, b.Cycles, b.Weeks)
		week += b.Weeks
	}

	// the goal race lands on the final Sunday even though phase-share
	// truncation generates one week fewer than configured
	race := p.Workouts[len(p.Workouts)-1]
	require.Equal(t, catalog.TypeRace, race.Type)
	require.Equal(t, start.AddDate(0, 0, 12*7-1), race.Date)
}

func TestRebuildOptionOverrides(t *testing.T) {
	db := store.NewTestDB(t)
	seedRunHistory(t, db)
	svc := NewPlanService(db, testConfig())

	res, err := svc.Rebuild(context.Background(), RebuildOptions{
		Goal:        "5k",
		Methodology: "lydiard",
		TotalWeeks:  8,
		Days:        []time.Weekday{time.Tuesday, time.Thursday, time.Saturday},
		Now:         rebuildNow,
	}, nil)
	require.NoError(t, err)

	p, err := svc.Active()
	require.NoError(t, err)
	require.Equal(t, res.PlanID, p.ID)
	require.Equal(t, "lydiard", p.Config.Methodology)
	require.Equal(t, "5k", p.Config.Goal)
	require.Equal(t, "8-week 5k plan", p.Config.Name)

	// the goal race stays on the race date even off an available day
	allowed := map[time.Weekday]bool{time.Tuesday: true, time.Thursday: true, time.Saturday: true}
	for _, w := range p.Workouts {
		if w.Type == catalog.TypeRace {
			continue
		}
		require.True(t, allowed[w.Date.Weekday()], "workout on %s", w.Date.Weekday())
	}
}

func TestRebuildUnknownMethodology(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewPlanService(db, testConfig())

	_, err := svc.Rebuild(context.Background(), RebuildOptions{Methodology: "galloway", Now: rebuildNow}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown methodology")
}

func TestRebuildCancelled(t *testing.T) {
	db := store.NewTestDB(t)
	seedRunHistory(t, db)
	svc := NewPlanService(db, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Rebuild(ctx, RebuildOptions{Now: rebuildNow}, nil)
	require.ErrorIs(t, err, context.Canceled)

	active, err := db.GetState(store.StateActivePlan)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestActiveWithoutPlan(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewPlanService(db, testConfig())

	_, err := svc.Active()
	require.ErrorIs(t, err, store.ErrPlanNotFound)
}

func TestNextMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midweek rolls forward",
			in:   time.Date(2025, 4, 2, 13, 30, 0, 0, time.UTC), // Wednesday
			want: time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday stays",
			in:   time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC),
			want: time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday is one day out",
			in:   time.Date(2025, 4, 6, 23, 0, 0, 0, time.UTC),
			want: time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, nextMonday(tt.in))
		})
	}
}
