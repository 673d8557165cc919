package plan

import (
	"errors"
	"math"
	"testing"
	"time"

	"pacemaker/internal/analysis"
	"pacemaker/internal/catalog"
)

// testConfig is a 16-week half-marathon plan for a beginner-fitness
// athlete training five days a week.
func testConfig(weeks int) Config {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // a Monday
	return Config{
		Name:        "Spring Half",
		Goal:        "half",
		StartDate:   start,
		RaceDate:    start.AddDate(0, 0, weeks*7-1),
		TotalWeeks:  weeks,
		Methodology: "daniels",
		Days: []time.Weekday{
			time.Monday, time.Tuesday, time.Thursday, time.Saturday, time.Sunday,
		},
		Assessment: analysis.FitnessAssessment{
			VDOT:             40,
			WeeklyVolumeKm:   30,
			ThresholdPace:    320,
			CriticalSpeed:    3.2,
			TrainingAgeYears: 1,
		},
	}
}

func TestGenerateConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no available days", func(c *Config) { c.Days = nil }, "days"},
		{"zero weeks", func(c *Config) { c.TotalWeeks = 0 }, "total_weeks"},
		{"negative weeks", func(c *Config) { c.TotalWeeks = -3 }, "total_weeks"},
		{"missing start date", func(c *Config) { c.StartDate = time.Time{} }, "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(16)
			tt.mutate(&cfg)

			p, err := Generate(cfg, nil)
			if p != nil {
				t.Error("got a partial plan alongside a config error")
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("error = %v, want ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestGenerateSixteenWeekHalf(t *testing.T) {
	p, err := Generate(testConfig(16), nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(p.Blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(p.Blocks))
	}
	phases := []string{PhaseBase, PhaseBuild, PhasePeak, PhaseTaper}
	for i, b := range p.Blocks {
		if b.Phase != phases[i] {
			t.Errorf("block %d phase = %q, want %q", i, b.Phase, phases[i])
		}
		if len(b.Cycles) != b.Weeks {
			t.Errorf("block %d has %d cycles for %d weeks", i, len(b.Cycles), b.Weeks)
		}
	}

	// base+build must dominate the plan
	baseBuild := p.Blocks[0].Weeks + p.Blocks[1].Weeks
	var total int
	for _, b := range p.Blocks {
		total += b.Weeks
	}
	if float64(baseBuild) < 0.7*float64(total) {
		t.Errorf("base+build = %d of %d weeks", baseBuild, total)
	}

	// blocks are date-contiguous with no overlap
	for i := 1; i < len(p.Blocks); i++ {
		gap := p.Blocks[i].StartDate.Sub(p.Blocks[i-1].EndDate)
		if gap != 24*time.Hour {
			t.Errorf("block %d starts %v after block %d ends", i, gap, i-1)
		}
	}
}

func TestGenerateRespectsAvailableDays(t *testing.T) {
	cfg := testConfig(12)
	p, err := Generate(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	allowed := map[time.Weekday]bool{}
	for _, d := range cfg.Days {
		allowed[d] = true
	}

	for _, w := range p.Workouts {
		if !allowed[w.Date.Weekday()] {
			t.Errorf("workout %s placed on %s", w.Name, w.Date.Weekday())
		}
	}

	for _, b := range p.Blocks {
		for _, c := range b.Cycles {
			var sessions int
			for _, w := range c.Workouts {
				if w.Type != catalog.TypeRace {
					sessions++
				}
			}
			if sessions > len(cfg.Days) {
				t.Errorf("week %d has %d sessions for %d available days",
					c.Week, sessions, len(cfg.Days))
			}
			seen := map[string]bool{}
			for _, w := range c.Workouts {
				key := w.Date.Format(time.DateOnly)
				if seen[key] {
					t.Errorf("week %d has two workouts on %s", c.Week, key)
				}
				seen[key] = true
			}
		}
	}
}

func TestGenerateWeeklyVolumeCapped(t *testing.T) {
	cfg := testConfig(16)
	p, err := Generate(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	rate := IncreaseRate(analysis.ExperienceLevel(cfg.Assessment))
	volume := cfg.Assessment.WeeklyVolumeKm
	for _, b := range p.Blocks {
		for wk, c := range b.Cycles {
			expected := volume * progressionFactor(b.Phase, wk, rate)
			if c.Week%recoveryWeekInterval == 0 {
				expected *= recoveryWeekFactor
			}
			// the goal race lands in the final cycle on top of the
			// generated sessions
			if c.Week == cfg.TotalWeeks-1 {
				expected += cfg.GoalDistanceKm()
			}
			if c.TotalKm > expected+0.6 {
				t.Errorf("week %d: %.1f km exceeds budget %.1f", c.Week, c.TotalKm, expected)
			}
		}
		volume *= progressionFactor(b.Phase, b.Weeks-1, rate)
	}
}

func TestGenerateCutbackWeek(t *testing.T) {
	p, err := Generate(testConfig(16), nil)
	if err != nil {
		t.Fatal(err)
	}

	var week3, week4 float64
	for _, b := range p.Blocks {
		for _, c := range b.Cycles {
			switch c.Week {
			case 3:
				week3 = c.TotalKm
			case 4:
				week4 = c.TotalKm
			}
		}
	}
	if week4 >= week3 {
		t.Errorf("cutback week 4 (%.1f km) not below week 3 (%.1f km)", week4, week3)
	}
}

func TestGeneratePlacesGoalRace(t *testing.T) {
	cfg := testConfig(16)
	p, err := Generate(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	var races []*Workout
	for _, w := range p.Workouts {
		if w.Type == catalog.TypeRace {
			races = append(races, w)
		}
	}
	if len(races) != 1 {
		t.Fatalf("got %d race workouts, want 1", len(races))
	}

	race := races[0]
	if !sameDate(race.Date, cfg.RaceDate) {
		t.Errorf("race on %s, want %s", race.Date.Format(time.DateOnly), cfg.RaceDate.Format(time.DateOnly))
	}
	if math.Abs(race.DistanceKm-21.1) > 0.05 {
		t.Errorf("race distance = %v, want ~21.1", race.DistanceKm)
	}

	var onRaceDay int
	for _, w := range p.Workouts {
		if sameDate(w.Date, cfg.RaceDate) {
			onRaceDay++
		}
	}
	if onRaceDay != 1 {
		t.Errorf("%d workouts on race day, want 1", onRaceDay)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := testConfig(12)
	p1, err := Generate(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := Generate(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(p1.Workouts) != len(p2.Workouts) {
		t.Fatalf("workout counts differ: %d vs %d", len(p1.Workouts), len(p2.Workouts))
	}
	for i := range p1.Workouts {
		a, b := p1.Workouts[i], p2.Workouts[i]
		if !a.Date.Equal(b.Date) || a.Name != b.Name || a.DistanceKm != b.DistanceKm {
			t.Errorf("workout %d differs: %s/%s %v vs %s/%s %v",
				i, a.Date.Format(time.DateOnly), a.Name, a.DistanceKm,
				b.Date.Format(time.DateOnly), b.Name, b.DistanceKm)
		}
	}
}

func TestGenerateSummary(t *testing.T) {
	p, err := Generate(testConfig(16), nil)
	if err != nil {
		t.Fatal(err)
	}

	s := p.Summary
	if s.TotalWorkouts != len(p.Workouts) {
		t.Errorf("TotalWorkouts = %d, want %d", s.TotalWorkouts, len(p.Workouts))
	}
	if s.TotalKm <= 0 || s.TotalHours <= 0 {
		t.Errorf("empty totals: %+v", s)
	}
	if s.AvgWeekKm > s.PeakWeekKm {
		t.Errorf("average week %.1f above peak week %.1f", s.AvgWeekKm, s.PeakWeekKm)
	}

	sum := s.Overall.EasyPct + s.Overall.ModeratePct + s.Overall.HardPct
	if math.Abs(sum-100) > 0.1 {
		t.Errorf("distribution sums to %v", sum)
	}
	for _, phase := range []string{PhaseBase, PhaseBuild, PhasePeak, PhaseTaper} {
		if _, ok := s.Phases[phase]; !ok {
			t.Errorf("no phase distribution for %s", phase)
		}
	}
}

func TestRefreshIsStable(t *testing.T) {
	p, err := Generate(testConfig(12), nil)
	if err != nil {
		t.Fatal(err)
	}

	before := p.Summary
	count := len(p.Workouts)
	p.Refresh()

	if len(p.Workouts) != count {
		t.Errorf("workout count changed from %d to %d", count, len(p.Workouts))
	}
	if p.Summary.TotalKm != before.TotalKm || p.Summary.TotalWorkouts != before.TotalWorkouts {
		t.Errorf("summary changed: %+v vs %+v", p.Summary, before)
	}
}
