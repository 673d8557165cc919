package adapt

import (
	"testing"
	"time"
)

var fatigueNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func oc(daysAgo, effort int, plannedMin, actualMin float64) Outcome {
	return Outcome{
		Date:       fatigueNow.AddDate(0, 0, -daysAgo),
		Effort:     effort,
		PlannedMin: plannedMin,
		ActualMin:  actualMin,
		Completed:  actualMin > 0,
	}
}

func hasPattern(state FatigueState, pattern string) bool {
	for _, p := range state.Patterns {
		if p == pattern {
			return true
		}
	}
	return false
}

func TestDetectFatigueQuietHistory(t *testing.T) {
	t.Run("no outcomes", func(t *testing.T) {
		state := DetectFatigue(nil, fatigueNow)
		if state.Level != FatigueLow || len(state.Patterns) != 0 || state.StreakDays != 0 {
			t.Errorf("state = %+v, want low with no patterns", state)
		}
	})

	t.Run("normal training week", func(t *testing.T) {
		var outcomes []Outcome
		for i := 1; i <= 5; i++ {
			outcomes = append(outcomes, oc(i, 5, 60, 60))
		}
		state := DetectFatigue(outcomes, fatigueNow)
		if state.Level != FatigueLow {
			t.Errorf("Level = %v, want low", state.Level)
		}
		if state.StreakDays != 0 {
			t.Errorf("StreakDays = %d, want 0", state.StreakDays)
		}
	})
}

func TestDetectFatigueStreaks(t *testing.T) {
	depleted := func(days ...int) []Outcome {
		var outcomes []Outcome
		for _, d := range days {
			outcomes = append(outcomes, oc(d, 9, 60, 40))
		}
		return outcomes
	}

	t.Run("three day streak is emerging fatigue", func(t *testing.T) {
		state := DetectFatigue(depleted(3, 2, 1), fatigueNow)
		if !hasPattern(state, PatternEmergingFatigue) {
			t.Errorf("patterns = %v, want emerging_fatigue", state.Patterns)
		}
		if state.Level != FatigueModerate {
			t.Errorf("Level = %v, want moderate", state.Level)
		}
		if state.StreakDays != 3 {
			t.Errorf("StreakDays = %d, want 3", state.StreakDays)
		}
	})

	t.Run("five day streak is persistent underperformance", func(t *testing.T) {
		state := DetectFatigue(depleted(5, 4, 3, 2, 1), fatigueNow)
		if !hasPattern(state, PatternPersistentUnderperformance) {
			t.Errorf("patterns = %v, want persistent_underperformance", state.Patterns)
		}
		if state.Level != FatigueHigh {
			t.Errorf("Level = %v, want high", state.Level)
		}
	})

	t.Run("week long streak is severe", func(t *testing.T) {
		state := DetectFatigue(depleted(7, 6, 5, 4, 3, 2, 1), fatigueNow)
		if state.Level != FatigueSevere {
			t.Errorf("Level = %v, want severe", state.Level)
		}
		if state.StreakDays != 7 {
			t.Errorf("StreakDays = %d, want 7", state.StreakDays)
		}
	})

	t.Run("gap day breaks the streak", func(t *testing.T) {
		state := DetectFatigue(depleted(5, 4, 3, 1), fatigueNow)
		if state.StreakDays != 3 {
			t.Errorf("StreakDays = %d, want 3", state.StreakDays)
		}
		if hasPattern(state, PatternPersistentUnderperformance) {
			t.Errorf("patterns = %v, want no persistent pattern across a gap", state.Patterns)
		}
	})

	t.Run("completed hard days do not count", func(t *testing.T) {
		var outcomes []Outcome
		for i := 1; i <= 5; i++ {
			outcomes = append(outcomes, oc(i, 9, 60, 60))
		}
		state := DetectFatigue(outcomes, fatigueNow)
		if state.StreakDays != 0 {
			t.Errorf("StreakDays = %d, want 0 when completion is full", state.StreakDays)
		}
	})
}

func TestDetectFatigueStressOverload(t *testing.T) {
	// 120 hard minutes a day clears the daily stress limit even at
	// full completion
	bigDay := func(daysAgo int) Outcome { return oc(daysAgo, 9, 120, 120) }

	t.Run("three consecutive overload days", func(t *testing.T) {
		state := DetectFatigue([]Outcome{bigDay(3), bigDay(2), bigDay(1)}, fatigueNow)
		if !hasPattern(state, PatternStressOverload) {
			t.Errorf("patterns = %v, want stress_overload", state.Patterns)
		}
		if state.Level != FatigueHigh {
			t.Errorf("Level = %v, want high", state.Level)
		}
	})

	t.Run("two overload days are not enough", func(t *testing.T) {
		state := DetectFatigue([]Outcome{bigDay(2), bigDay(1)}, fatigueNow)
		if hasPattern(state, PatternStressOverload) {
			t.Errorf("patterns = %v, want no overload pattern", state.Patterns)
		}
	})

	t.Run("overload on top of a persistent streak is severe", func(t *testing.T) {
		outcomes := []Outcome{bigDay(8), bigDay(7), bigDay(6)}
		for i := 1; i <= 5; i++ {
			outcomes = append(outcomes, oc(i, 9, 60, 40))
		}
		state := DetectFatigue(outcomes, fatigueNow)
		if state.Level != FatigueSevere {
			t.Errorf("Level = %v, want severe", state.Level)
		}
	})
}

func TestDetectFatigueAcuteShortfall(t *testing.T) {
	// two hard incomplete days, too short for a streak pattern
	outcomes := []Outcome{oc(2, 9, 60, 45), oc(1, 9, 60, 45)}
	state := DetectFatigue(outcomes, fatigueNow)
	if state.Level != FatigueModerate {
		t.Errorf("Level = %v, want moderate", state.Level)
	}
	if len(state.Patterns) != 0 {
		t.Errorf("patterns = %v, want none", state.Patterns)
	}
}

func TestDetectFatigueFoldsSameDay(t *testing.T) {
	// two sessions on one day fold into a single depleted day
	double := []Outcome{
		oc(1, 6, 30, 20),
		oc(1, 9, 30, 20),
	}
	state := DetectFatigue(double, fatigueNow)
	if state.StreakDays != 1 {
		t.Errorf("StreakDays = %d, want 1", state.StreakDays)
	}
}

func TestDetectFatigueIgnoresFuture(t *testing.T) {
	outcomes := []Outcome{
		oc(-1, 9, 60, 40),
		oc(-2, 9, 60, 40),
		oc(-3, 9, 60, 40),
	}
	state := DetectFatigue(outcomes, fatigueNow)
	if state.Level != FatigueLow || state.StreakDays != 0 {
		t.Errorf("state = %+v, want future outcomes ignored", state)
	}
}
