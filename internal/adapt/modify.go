package adapt

import (
	"fmt"
	"math"
	"sort"
	"time"

	"pacemaker/internal/analysis"
	"pacemaker/internal/catalog"
	"pacemaker/internal/plan"
	"pacemaker/internal/zones"
)

// Modification types
const (
	ModReduceVolume      = "reduce_volume"
	ModReduceIntensity   = "reduce_intensity"
	ModAddRecovery       = "add_recovery"
	ModSubstituteWorkout = "substitute_workout"
	ModDelayProgression  = "delay_progression"
	ModInjuryProtocol    = "injury_protocol"
)

// Modification priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var priorityRank = map[string]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Rule thresholds
const (
	highRiskRatio      = 1.5
	cautionRatio       = 1.3
	minRecoveryScore   = 40.0
	minAdherence       = 0.7
	fullInjurySoreness = 7
)

// Application windows, in days ahead of now
const (
	volumeWindowDays   = 14
	recoveryWindowDays = 7
	injuryPurgeDays    = 7
)

// Modification is one instruction for mutating the remaining plan.
// It is applied and discarded, never persisted.
type Modification struct {
	Type           string
	Reason         string
	Priority       string
	VolumeFactor   float64 // scale applied by volume-type modifications
	IntensityDelta int     // signed shift in intensity points
	Full           bool    // injury_protocol: purge instead of down-scale
}

// Signals is everything the rule set looks at.
type Signals struct {
	Load           analysis.LoadState
	RecoveryScore  float64
	Recovery       RecoveryStatus
	Fatigue        FatigueState
	Progress       Progress
	InjuryReported bool
	Soreness       int // 0-10 from the latest check-in
}

// PlanDiff records what modification application did to the plan.
type PlanDiff struct {
	Applied  []Modification
	Removed  int // workouts deleted outright
	Changed  int // workouts mutated in place
	Warnings []string
}

// SuggestModifications runs the rule set over the signals. Each rule
// compares one signal to a fixed threshold and emits at most one
// modification; rules fire independently. When two rules emit the same
// type, the earlier (higher-priority) one wins.
func SuggestModifications(s Signals) []Modification {
	var mods []Modification
	seen := make(map[string]bool)
	emit := func(m Modification) {
		if seen[m.Type] {
			return
		}
		seen[m.Type] = true
		mods = append(mods, m)
	}

	if s.Load.Ratio > highRiskRatio {
		emit(Modification{
			Type:         ModReduceVolume,
			Reason:       fmt.Sprintf("acute:chronic load ratio %.2f is above %.1f", s.Load.Ratio, highRiskRatio),
			Priority:     PriorityHigh,
			VolumeFactor: 0.7,
		})
	}
	if s.Load.Ratio > cautionRatio {
		emit(Modification{
			Type:           ModReduceIntensity,
			Reason:         fmt.Sprintf("load ratio %.2f is building too fast", s.Load.Ratio),
			Priority:       PriorityMedium,
			IntensityDelta: -10,
		})
	}
	if s.RecoveryScore < minRecoveryScore {
		emit(Modification{
			Type:     ModAddRecovery,
			Reason:   fmt.Sprintf("recovery score %.0f is below %.0f", s.RecoveryScore, minRecoveryScore),
			Priority: PriorityHigh,
		})
	}
	if s.InjuryReported {
		full := s.Soreness >= fullInjurySoreness || s.Recovery == StatusOverreached
		m := Modification{
			Type:         ModInjuryProtocol,
			Reason:       "injury reported, protecting the coming week",
			Priority:     PriorityHigh,
			VolumeFactor: 0.5,
			Full:         full,
		}
		if full {
			m.Reason = "injury reported, clearing the next 7 days"
			m.VolumeFactor = 0
		}
		emit(m)
	}
	if s.Progress.AdherenceRate < minAdherence {
		emit(Modification{
			Type:         ModReduceVolume,
			Reason:       fmt.Sprintf("adherence %.0f%% is below %.0f%%", s.Progress.AdherenceRate*100, minAdherence*100),
			Priority:     PriorityMedium,
			VolumeFactor: 0.85,
		})
		emit(Modification{
			Type:     ModDelayProgression,
			Reason:   "low adherence, holding volume at the current week",
			Priority: PriorityMedium,
		})
	}
	if s.Progress.Trend == TrendDeclining {
		emit(Modification{
			Type:     ModDelayProgression,
			Reason:   "performance is trending down",
			Priority: PriorityMedium,
		})
	}
	if s.Fatigue.Level == FatigueHigh || s.Fatigue.Level == FatigueSevere {
		emit(Modification{
			Type:     ModSubstituteWorkout,
			Reason:   fmt.Sprintf("fatigue level %s, swapping quality for easy running", s.Fatigue.Level),
			Priority: PriorityMedium,
		})
	}

	return mods
}

// ApplyModifications mutates the future portion of the plan, highest
// priority first. Past workouts are never touched. A modification with
// no eligible workout is a no-op recorded as a warning in the diff.
func ApplyModifications(p *plan.Plan, mods []Modification, now time.Time) PlanDiff {
	var diff PlanDiff
	if p == nil || len(mods) == 0 {
		return diff
	}

	ordered := make([]Modification, len(mods))
	copy(ordered, mods)
	sort.SliceStable(ordered, func(i, j int) bool {
		return priorityRank[ordered[i].Priority] < priorityRank[ordered[j].Priority]
	})

	threshold := p.Config.Assessment.ThresholdPace
	if threshold <= 0 {
		threshold = analysis.DefaultThresholdPace
	}

	for _, m := range ordered {
		var changed, removed int
		switch m.Type {
		case ModReduceVolume:
			changed = scaleWindow(p, now, volumeWindowDays, m.VolumeFactor, m.Type)
		case ModReduceIntensity:
			changed = reduceIntensity(p, now, m.IntensityDelta, threshold)
		case ModAddRecovery:
			changed = insertRecovery(p, now, threshold)
		case ModSubstituteWorkout:
			changed = substituteQuality(p, now, threshold)
		case ModDelayProgression:
			changed = delayProgression(p, now)
		case ModInjuryProtocol:
			if m.Full {
				removed = purgeWindow(p, now, injuryPurgeDays)
			} else {
				changed = scaleWindow(p, now, injuryPurgeDays, m.VolumeFactor, m.Type)
			}
		default:
			diff.Warnings = append(diff.Warnings, fmt.Sprintf("unknown modification type %q skipped", m.Type))
			continue
		}

		if changed == 0 && removed == 0 {
			diff.Warnings = append(diff.Warnings, fmt.Sprintf("%s: no eligible workouts", m.Type))
			continue
		}
		diff.Applied = append(diff.Applied, m)
		diff.Changed += changed
		diff.Removed += removed
	}

	p.Refresh()
	return diff
}

// futureInWindow collects workouts scheduled after now and within the
// next days, in date order.
func futureInWindow(p *plan.Plan, now time.Time, days int) []*plan.Workout {
	end := now.AddDate(0, 0, days)
	var out []*plan.Workout
	for bi := range p.Blocks {
		for ci := range p.Blocks[bi].Cycles {
			for _, w := range p.Blocks[bi].Cycles[ci].Workouts {
				if w.Date.After(now) && !w.Date.After(end) {
					out = append(out, w)
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// scaleWindow shrinks every non-race workout in the window by factor.
func scaleWindow(p *plan.Plan, now time.Time, days int, factor float64, modType string) int {
	if factor <= 0 || factor >= 1 {
		return 0
	}
	var changed int
	for _, w := range futureInWindow(p, now, days) {
		if w.Type == catalog.TypeRace {
			continue
		}
		scaleWorkout(w, factor, modType)
		changed++
	}
	return changed
}

func scaleWorkout(w *plan.Workout, factor float64, modType string) {
	for i := range w.Segments {
		m := int(math.Round(float64(w.Segments[i].Minutes) * factor))
		if m < 1 {
			m = 1
		}
		w.Segments[i].Minutes = m
	}
	w.DistanceKm = math.Round(w.DistanceKm*factor*10) / 10
	w.ModifiedBy = modType
	w.RecalcMetrics()
}

// reduceIntensity backs off every above-easy segment in the window.
func reduceIntensity(p *plan.Plan, now time.Time, delta int, threshold float64) int {
	if delta >= 0 {
		return 0
	}
	var changed int
	for _, w := range futureInWindow(p, now, volumeWindowDays) {
		if w.Type == catalog.TypeRace {
			continue
		}
		touched := false
		for i := range w.Segments {
			s := &w.Segments[i]
			if s.Intensity <= plan.EasyMaxIntensity {
				continue
			}
			next := s.Intensity + delta
			if next < 40 {
				next = 40
			}
			if next == s.Intensity {
				continue
			}
			s.Intensity = next
			s.Zone = zones.ForIntensity(next).Number
			if pace := zones.PaceForIntensity(threshold, next); pace > 0 {
				s.TargetPaceSecKm = math.Round(pace)
			}
			touched = true
		}
		if touched {
			w.ModifiedBy = ModReduceIntensity
			w.RecalcMetrics()
			changed++
		}
	}
	return changed
}

// insertRecovery converts the next hard session into a recovery jog.
func insertRecovery(p *plan.Plan, now time.Time, threshold float64) int {
	for _, w := range futureInWindow(p, now, recoveryWindowDays) {
		if w.Type == catalog.TypeRace || w.Intensity <= plan.EasyMaxIntensity {
			continue
		}
		remakeWorkout(w, catalog.TypeRecovery, "Recovery Jog",
			"Inserted to absorb accumulated fatigue", 30, 50, threshold, ModAddRecovery)
		return 1
	}
	return 0
}

// substituteQuality swaps the next tempo or interval session for an
// easy run of the same duration.
func substituteQuality(p *plan.Plan, now time.Time, threshold float64) int {
	for _, w := range futureInWindow(p, now, recoveryWindowDays) {
		if w.Type != catalog.TypeTempo && w.Type != catalog.TypeInterval {
			continue
		}
		minutes := w.DurationMin
		if minutes < 20 {
			minutes = 20
		}
		remakeWorkout(w, catalog.TypeEasy, "Easy Run",
			"Substituted for planned quality while fatigue clears", minutes, 65, threshold, ModSubstituteWorkout)
		return 1
	}
	return 0
}

// remakeWorkout rebuilds a workout as a single-segment session.
func remakeWorkout(w *plan.Workout, typ, name, desc string, minutes, intensity int, threshold float64, modType string) {
	seg := catalog.Segment{
		Minutes:     minutes,
		Intensity:   intensity,
		Zone:        zones.ForIntensity(intensity).Number,
		Description: desc,
	}
	if pace := zones.PaceForIntensity(threshold, intensity); pace > 0 {
		seg.TargetPaceSecKm = math.Round(pace)
		w.DistanceKm = math.Round(float64(minutes)*60/pace*10) / 10
	}
	w.Type = typ
	w.Name = name
	w.Description = desc
	w.Segments = []catalog.Segment{seg}
	w.ModifiedBy = modType
	w.RecalcMetrics()
}

// delayProgression holds next week's volume at the current week's
// total instead of letting it ramp.
func delayProgression(p *plan.Plan, now time.Time) int {
	start := p.Config.StartDate
	if start.IsZero() {
		return 0
	}
	week := planWeek(start, now)
	if week < 1 {
		return 0
	}

	current := weekTotalKm(p, week)
	next := weekTotalKm(p, week+1)
	if current <= 0 || next <= current {
		return 0
	}

	factor := current / next
	var changed int
	for bi := range p.Blocks {
		for ci := range p.Blocks[bi].Cycles {
			for _, w := range p.Blocks[bi].Cycles[ci].Workouts {
				if w.Week != week+1 || !w.Date.After(now) || w.Type == catalog.TypeRace {
					continue
				}
				scaleWorkout(w, factor, ModDelayProgression)
				changed++
			}
		}
	}
	return changed
}

// purgeWindow deletes every workout in the window outright.
func purgeWindow(p *plan.Plan, now time.Time, days int) int {
	end := now.AddDate(0, 0, days)
	var removed int
	for bi := range p.Blocks {
		for ci := range p.Blocks[bi].Cycles {
			c := &p.Blocks[bi].Cycles[ci]
			kept := c.Workouts[:0]
			for _, w := range c.Workouts {
				if w.Date.After(now) && !w.Date.After(end) {
					removed++
					continue
				}
				kept = append(kept, w)
			}
			c.Workouts = kept
		}
	}
	return removed
}

// weekTotalKm reads from the cycles rather than the flattened list,
// which is only rebuilt after the whole batch is applied.
func weekTotalKm(p *plan.Plan, week int) float64 {
	var km float64
	for bi := range p.Blocks {
		for ci := range p.Blocks[bi].Cycles {
			for _, w := range p.Blocks[bi].Cycles[ci].Workouts {
				if w.Week == week {
					km += w.DistanceKm
				}
			}
		}
	}
	return km
}

// planWeek is the 1-based plan week containing t, 0 before the start.
func planWeek(start, t time.Time) int {
	if t.Before(start) {
		return 0
	}
	return int(t.Sub(start).Hours()/(24*7)) + 1
}
