package adapt

import (
	"sort"
	"time"
)

// FatigueLevel grades accumulated fatigue for forward-looking plan
// adjustment.
type FatigueLevel string

const (
	FatigueLow      FatigueLevel = "low"
	FatigueModerate FatigueLevel = "moderate"
	FatigueHigh     FatigueLevel = "high"
	FatigueSevere   FatigueLevel = "severe"
)

// Detected fatigue patterns
const (
	PatternEmergingFatigue            = "emerging_fatigue"
	PatternPersistentUnderperformance = "persistent_underperformance"
	PatternStressOverload             = "stress_overload"
)

const (
	depletedEffortMin    = 8
	lowCompletionRate    = 0.85
	acuteWindowDays      = 3
	emergingStreakDays   = 3
	persistentStreakDays = 5
	severeStreakDays     = 7
	overloadRunDays      = 3
	dailyStressLimit     = 150.0
)

// FatigueState is the engine's read on accumulated fatigue.
type FatigueState struct {
	Level      FatigueLevel
	Patterns   []string
	StreakDays int // longest consecutive run of depleted days
}

type dayStat struct {
	date       time.Time
	effort     int // max reported effort that day
	plannedMin float64
	actualMin  float64
	stress     float64
}

func (d dayStat) completion() float64 {
	if d.plannedMin <= 0 {
		return 1
	}
	rate := d.actualMin / d.plannedMin
	if rate > 1 {
		return 1
	}
	return rate
}

// depleted marks a day of hard effort that still fell short of plan.
func (d dayStat) depleted() bool {
	return d.effort >= depletedEffortMin && d.completion() < lowCompletionRate
}

// DetectFatigue classifies fatigue from recent outcomes. Three
// detectors feed it: an acute trailing-3-day shortfall, a run-length
// detector over consecutive depleted days, and a daily stress overload
// detector. The level takes the highest severity any detector reports.
func DetectFatigue(outcomes []Outcome, now time.Time) FatigueState {
	days := collectDays(outcomes, now)
	state := FatigueState{Level: FatigueLow}
	if len(days) == 0 {
		return state
	}

	streak := longestRun(days, dayStat.depleted)
	overload := longestRun(days, func(d dayStat) bool { return d.stress > dailyStressLimit })
	state.StreakDays = streak

	switch {
	case streak >= persistentStreakDays:
		state.Patterns = append(state.Patterns, PatternPersistentUnderperformance)
	case streak >= emergingStreakDays:
		state.Patterns = append(state.Patterns, PatternEmergingFatigue)
	}
	if overload >= overloadRunDays {
		state.Patterns = append(state.Patterns, PatternStressOverload)
	}

	acute := acuteShortfall(days, now)
	persistent := streak >= persistentStreakDays
	overloaded := overload >= overloadRunDays

	switch {
	case streak >= severeStreakDays, persistent && overloaded:
		state.Level = FatigueSevere
	case persistent, overloaded:
		state.Level = FatigueHigh
	case acute, streak >= emergingStreakDays:
		state.Level = FatigueModerate
	}
	return state
}

// collectDays folds outcomes into per-day stats, oldest first. Future
// outcomes are ignored.
func collectDays(outcomes []Outcome, now time.Time) []dayStat {
	byDay := make(map[time.Time]*dayStat)
	for _, o := range outcomes {
		if o.Date.After(now) {
			continue
		}
		d := day(o.Date)
		st, ok := byDay[d]
		if !ok {
			st = &dayStat{date: d}
			byDay[d] = st
		}
		if o.Effort > st.effort {
			st.effort = o.Effort
		}
		st.plannedMin += o.PlannedMin
		st.actualMin += o.ActualMin
		st.stress += outcomeStress(o)
	}

	days := make([]dayStat, 0, len(byDay))
	for _, st := range byDay {
		days = append(days, *st)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })
	return days
}

// outcomeStress scores one outcome on the same scale as planned TSS,
// reading the 1-10 effort as a percent intensity.
func outcomeStress(o Outcome) float64 {
	if o.Effort <= 0 || o.ActualMin <= 0 {
		return 0
	}
	rel := float64(o.Effort*10) / 88.0
	return o.ActualMin * rel * rel * (100.0 / 60.0)
}

// longestRun returns the longest streak of calendar-consecutive days
// matching pred. A day without outcomes breaks the streak.
func longestRun(days []dayStat, pred func(dayStat) bool) int {
	var longest, current int
	var prev time.Time
	for _, d := range days {
		if !pred(d) {
			current = 0
			prev = time.Time{}
			continue
		}
		if !prev.IsZero() && d.date.Equal(prev.AddDate(0, 0, 1)) {
			current++
		} else {
			current = 1
		}
		prev = d.date
		if current > longest {
			longest = current
		}
	}
	return longest
}

// acuteShortfall reports hard effort with low completion averaged over
// the trailing window.
func acuteShortfall(days []dayStat, now time.Time) bool {
	cutoff := day(now).AddDate(0, 0, -acuteWindowDays)
	var effortSum, completionSum float64
	var n int
	for _, d := range days {
		if !d.date.After(cutoff) {
			continue
		}
		effortSum += float64(d.effort)
		completionSum += d.completion()
		n++
	}
	if n == 0 {
		return false
	}
	return effortSum/float64(n) >= depletedEffortMin && completionSum/float64(n) < lowCompletionRate
}
