package adapt

import (
	"math"
	"testing"
	"time"

	"pacemaker/internal/analysis"
	"pacemaker/internal/catalog"
	"pacemaker/internal/plan"
)

var modStart = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // a Monday

func modTestPlan(t *testing.T) *plan.Plan {
	t.Helper()
	cfg := plan.Config{
		Name:       "12 week half",
		Goal:       "half",
		StartDate:  modStart,
		RaceDate:   modStart.AddDate(0, 0, 12*7-1),
		TotalWeeks: 12,
		Days: []time.Weekday{
			time.Monday, time.Tuesday, time.Thursday, time.Saturday, time.Sunday,
		},
		Assessment: analysis.FitnessAssessment{
			VDOT:             40,
			WeeklyVolumeKm:   30,
			ThresholdPace:    320,
			TrainingAgeYears: 1,
		},
	}
	p, err := plan.Generate(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func findMod(mods []Modification, typ string) *Modification {
	for i := range mods {
		if mods[i].Type == typ {
			return &mods[i]
		}
	}
	return nil
}

func healthySignals() Signals {
	return Signals{
		Load:          analysis.LoadState{Ratio: 1.0, Trend: analysis.TrendStable},
		RecoveryScore: 70,
		Recovery:      StatusAdequate,
		Fatigue:       FatigueState{Level: FatigueLow},
		Progress:      Progress{AdherenceRate: 1, Trend: TrendStable},
	}
}

func TestSuggestModifications(t *testing.T) {
	t.Run("healthy athlete gets nothing", func(t *testing.T) {
		if mods := SuggestModifications(healthySignals()); len(mods) != 0 {
			t.Errorf("mods = %+v, want none", mods)
		}
	})

	t.Run("spiking load ratio", func(t *testing.T) {
		s := healthySignals()
		s.Load.Ratio = 1.6
		mods := SuggestModifications(s)

		rv := findMod(mods, ModReduceVolume)
		if rv == nil || rv.Priority != PriorityHigh || rv.VolumeFactor != 0.7 {
			t.Errorf("reduce_volume = %+v, want high priority at 0.7", rv)
		}
		ri := findMod(mods, ModReduceIntensity)
		if ri == nil || ri.IntensityDelta != -10 {
			t.Errorf("reduce_intensity = %+v, want delta -10", ri)
		}
	})

	t.Run("elevated but not spiking ratio", func(t *testing.T) {
		s := healthySignals()
		s.Load.Ratio = 1.35
		mods := SuggestModifications(s)
		if findMod(mods, ModReduceVolume) != nil {
			t.Error("reduce_volume should not fire at 1.35")
		}
		if findMod(mods, ModReduceIntensity) == nil {
			t.Error("reduce_intensity should fire at 1.35")
		}
	})

	t.Run("poor recovery", func(t *testing.T) {
		s := healthySignals()
		s.RecoveryScore = 35
		mods := SuggestModifications(s)
		ar := findMod(mods, ModAddRecovery)
		if ar == nil || ar.Priority != PriorityHigh {
			t.Errorf("add_recovery = %+v, want high priority", ar)
		}
	})

	t.Run("injury with high soreness purges", func(t *testing.T) {
		s := healthySignals()
		s.InjuryReported = true
		s.Soreness = 8
		ip := findMod(SuggestModifications(s), ModInjuryProtocol)
		if ip == nil || !ip.Full {
			t.Errorf("injury_protocol = %+v, want full severity", ip)
		}
	})

	t.Run("injury while overreached purges", func(t *testing.T) {
		s := healthySignals()
		s.InjuryReported = true
		s.Soreness = 2
		s.Recovery = StatusOverreached
		ip := findMod(SuggestModifications(s), ModInjuryProtocol)
		if ip == nil || !ip.Full {
			t.Errorf("injury_protocol = %+v, want full severity", ip)
		}
	})

	t.Run("mild injury down-scales", func(t *testing.T) {
		s := healthySignals()
		s.InjuryReported = true
		s.Soreness = 3
		ip := findMod(SuggestModifications(s), ModInjuryProtocol)
		if ip == nil || ip.Full || ip.VolumeFactor != 0.5 {
			t.Errorf("injury_protocol = %+v, want partial at 0.5", ip)
		}
	})

	t.Run("low adherence", func(t *testing.T) {
		s := healthySignals()
		s.Progress.AdherenceRate = 0.5
		mods := SuggestModifications(s)
		rv := findMod(mods, ModReduceVolume)
		if rv == nil || rv.Priority != PriorityMedium || rv.VolumeFactor != 0.85 {
			t.Errorf("reduce_volume = %+v, want medium at 0.85", rv)
		}
		if findMod(mods, ModDelayProgression) == nil {
			t.Error("delay_progression should fire with low adherence")
		}
	})

	t.Run("declining trend", func(t *testing.T) {
		s := healthySignals()
		s.Progress.Trend = TrendDeclining
		if findMod(SuggestModifications(s), ModDelayProgression) == nil {
			t.Error("delay_progression should fire on decline")
		}
	})

	t.Run("high fatigue substitutes quality", func(t *testing.T) {
		s := healthySignals()
		s.Fatigue.Level = FatigueHigh
		if findMod(SuggestModifications(s), ModSubstituteWorkout) == nil {
			t.Error("substitute_workout should fire at high fatigue")
		}
	})

	t.Run("duplicate types keep the first rule", func(t *testing.T) {
		s := healthySignals()
		s.Load.Ratio = 1.6
		s.Progress.AdherenceRate = 0.5
		mods := SuggestModifications(s)

		var reduceCount int
		for _, m := range mods {
			if m.Type == ModReduceVolume {
				reduceCount++
			}
		}
		if reduceCount != 1 {
			t.Fatalf("reduce_volume emitted %d times, want 1", reduceCount)
		}
		rv := findMod(mods, ModReduceVolume)
		if rv.Priority != PriorityHigh || rv.VolumeFactor != 0.7 {
			t.Errorf("kept %+v, want the high-priority load rule", rv)
		}
	})
}

func TestApplyReduceVolume(t *testing.T) {
	p := modTestPlan(t)
	now := modStart.AddDate(0, 0, 7) // Monday of week 2

	end := now.AddDate(0, 0, volumeWindowDays)
	type snap struct {
		km      float64
		minutes []int
	}
	before := make(map[string]snap)
	for _, w := range p.Workouts {
		s := snap{km: w.DistanceKm}
		for _, seg := range w.Segments {
			s.minutes = append(s.minutes, seg.Minutes)
		}
		before[w.ID] = s
	}

	diff := ApplyModifications(p, []Modification{
		{Type: ModReduceVolume, Priority: PriorityHigh, VolumeFactor: 0.7},
	}, now)

	if len(diff.Applied) != 1 || diff.Changed == 0 {
		t.Fatalf("diff = %+v, want one applied modification", diff)
	}

	for _, w := range p.Workouts {
		prev := before[w.ID]
		inWindow := w.Date.After(now) && !w.Date.After(end)
		if inWindow && w.Type != catalog.TypeRace {
			want := math.Round(prev.km*0.7*10) / 10
			if math.Abs(w.DistanceKm-want) > 0.001 {
				t.Errorf("%s on %s: km = %v, want %v", w.Type, w.Date.Format("2006-01-02"), w.DistanceKm, want)
			}
			if w.ModifiedBy != ModReduceVolume {
				t.Errorf("%s: ModifiedBy = %q", w.ID, w.ModifiedBy)
			}
			for i, seg := range w.Segments {
				want := int(math.Round(float64(prev.minutes[i]) * 0.7))
				if want < 1 {
					want = 1
				}
				if seg.Minutes != want {
					t.Errorf("%s segment %d: minutes = %d, want %d", w.ID, i, seg.Minutes, want)
				}
			}
		} else {
			if w.DistanceKm != prev.km {
				t.Errorf("workout outside window changed: %s", w.ID)
			}
		}
	}
}

func TestApplyReduceIntensity(t *testing.T) {
	p := modTestPlan(t)

	var quality *plan.Workout
	for _, w := range p.Workouts {
		if w.Type == catalog.TypeTempo || w.Type == catalog.TypeInterval {
			quality = w
			break
		}
	}
	if quality == nil {
		t.Fatal("plan has no quality workout")
	}
	now := quality.Date.AddDate(0, 0, -1)
	end := now.AddDate(0, 0, volumeWindowDays)

	before := make(map[string][]int)
	for _, w := range p.Workouts {
		for _, seg := range w.Segments {
			before[w.ID] = append(before[w.ID], seg.Intensity)
		}
	}

	diff := ApplyModifications(p, []Modification{
		{Type: ModReduceIntensity, Priority: PriorityMedium, IntensityDelta: -10},
	}, now)
	if len(diff.Applied) != 1 {
		t.Fatalf("diff = %+v, want the modification applied", diff)
	}

	for _, w := range p.Workouts {
		inWindow := w.Date.After(now) && !w.Date.After(end) && w.Type != catalog.TypeRace
		for i, seg := range w.Segments {
			prev := before[w.ID][i]
			want := prev
			if inWindow && prev > plan.EasyMaxIntensity {
				want = prev - 10
				if want < 40 {
					want = 40
				}
			}
			if seg.Intensity != want {
				t.Errorf("%s segment %d: intensity = %d, want %d", w.ID, i, seg.Intensity, want)
			}
			if inWindow && prev > plan.EasyMaxIntensity {
				wantPace := math.Round(320 * 88 / float64(want))
				if seg.TargetPaceSecKm != wantPace {
					t.Errorf("%s segment %d: pace = %v, want %v", w.ID, i, seg.TargetPaceSecKm, wantPace)
				}
			}
		}
	}
}

func TestApplyAddRecovery(t *testing.T) {
	p := modTestPlan(t)
	now := modStart.AddDate(0, 0, -1)

	// the first above-easy session in the window is the one converted
	var target *plan.Workout
	end := now.AddDate(0, 0, recoveryWindowDays)
	for _, w := range p.Workouts {
		if w.Date.After(now) && !w.Date.After(end) && w.Intensity > plan.EasyMaxIntensity {
			target = w
			break
		}
	}
	if target == nil {
		t.Fatal("no hard session in the first week")
	}

	diff := ApplyModifications(p, []Modification{
		{Type: ModAddRecovery, Priority: PriorityHigh},
	}, now)
	if diff.Changed != 1 {
		t.Fatalf("diff = %+v, want exactly one change", diff)
	}

	if target.Type != catalog.TypeRecovery || target.Name != "Recovery Jog" {
		t.Errorf("converted workout = %s %q", target.Type, target.Name)
	}
	if len(target.Segments) != 1 || target.Segments[0].Minutes != 30 || target.Segments[0].Intensity != 50 {
		t.Errorf("segments = %+v, want one 30min segment at 50", target.Segments)
	}
	if target.ModifiedBy != ModAddRecovery {
		t.Errorf("ModifiedBy = %q", target.ModifiedBy)
	}
}

func TestApplySubstituteQuality(t *testing.T) {
	p := modTestPlan(t)

	var quality *plan.Workout
	for _, w := range p.Workouts {
		if w.Type == catalog.TypeTempo || w.Type == catalog.TypeInterval {
			quality = w
			break
		}
	}
	if quality == nil {
		t.Fatal("plan has no quality workout")
	}
	minutes := quality.DurationMin
	now := quality.Date.AddDate(0, 0, -1)

	diff := ApplyModifications(p, []Modification{
		{Type: ModSubstituteWorkout, Priority: PriorityMedium},
	}, now)
	if diff.Changed != 1 {
		t.Fatalf("diff = %+v, want one substitution", diff)
	}

	if quality.Type != catalog.TypeEasy {
		t.Errorf("Type = %s, want easy", quality.Type)
	}
	wantMin := minutes
	if wantMin < 20 {
		wantMin = 20
	}
	if len(quality.Segments) != 1 || quality.Segments[0].Minutes != wantMin || quality.Segments[0].Intensity != 65 {
		t.Errorf("segments = %+v, want one %dmin segment at 65", quality.Segments, wantMin)
	}
}

func TestApplyDelayProgression(t *testing.T) {
	p := modTestPlan(t)
	now := modStart.AddDate(0, 0, 7) // Monday of week 2

	weekKm := func(week int) float64 {
		var km float64
		for _, w := range p.Workouts {
			if w.Week == week {
				km += w.DistanceKm
			}
		}
		return km
	}

	current := weekKm(2)
	next := weekKm(3)
	if next <= current {
		t.Fatalf("ramp missing: week2 %.1f, week3 %.1f", current, next)
	}

	diff := ApplyModifications(p, []Modification{
		{Type: ModDelayProgression, Priority: PriorityMedium},
	}, now)
	if len(diff.Applied) != 1 {
		t.Fatalf("diff = %+v, want delay applied", diff)
	}

	after := weekKm(3)
	if math.Abs(after-current) > 0.6 {
		t.Errorf("week3 = %.1f after delay, want about %.1f", after, current)
	}
}

func TestInjuryProtocolPurge(t *testing.T) {
	p := modTestPlan(t)
	now := modStart.AddDate(0, 0, 25) // Friday of week 4
	end := now.AddDate(0, 0, injuryPurgeDays)

	type snap struct {
		date      time.Time
		km        float64
		minutes   int
		intensity int
		name      string
		segments  []catalog.Segment
	}
	before := make(map[string]snap)
	var purged int
	for _, w := range p.Workouts {
		segs := make([]catalog.Segment, len(w.Segments))
		copy(segs, w.Segments)
		before[w.ID] = snap{w.Date, w.DistanceKm, w.DurationMin, w.Intensity, w.Name, segs}
		if w.Date.After(now) && !w.Date.After(end) {
			purged++
		}
	}
	if purged == 0 {
		t.Fatal("window covers no workouts")
	}

	diff := ApplyModifications(p, []Modification{
		{Type: ModInjuryProtocol, Priority: PriorityHigh, Full: true},
	}, now)
	if diff.Removed != purged {
		t.Errorf("Removed = %d, want %d", diff.Removed, purged)
	}

	remaining := make(map[string]bool)
	for _, w := range p.Workouts {
		remaining[w.ID] = true
		prev := before[w.ID]

		if w.Date.After(now) && !w.Date.After(end) {
			t.Errorf("workout %s on %s survived the purge", w.ID, w.Date.Format("2006-01-02"))
		}

		// everything kept is untouched
		if w.DistanceKm != prev.km || w.DurationMin != prev.minutes ||
			w.Intensity != prev.intensity || w.Name != prev.name {
			t.Errorf("kept workout %s was mutated", w.ID)
		}
		for i, seg := range w.Segments {
			if seg != prev.segments[i] {
				t.Errorf("kept workout %s segment %d was mutated", w.ID, i)
			}
		}
	}
	if len(p.Workouts) != len(before)-purged {
		t.Errorf("len = %d, want %d", len(p.Workouts), len(before)-purged)
	}
	if p.Summary.TotalWorkouts != len(p.Workouts) {
		t.Errorf("summary not refreshed: %d vs %d", p.Summary.TotalWorkouts, len(p.Workouts))
	}
	for id := range before {
		s := before[id]
		inWindow := s.date.After(now) && !s.date.After(end)
		if !inWindow && !remaining[id] {
			t.Errorf("workout %s outside the window was removed", id)
		}
	}
}

func TestApplyPriorityOrder(t *testing.T) {
	p := modTestPlan(t)

	var quality *plan.Workout
	for _, w := range p.Workouts {
		if w.Type == catalog.TypeTempo || w.Type == catalog.TypeInterval {
			quality = w
			break
		}
	}
	if quality == nil {
		t.Fatal("plan has no quality workout")
	}
	now := quality.Date.AddDate(0, 0, -1)

	// given lowest priority first, application must reorder
	diff := ApplyModifications(p, []Modification{
		{Type: ModSubstituteWorkout, Priority: PriorityMedium},
		{Type: ModReduceVolume, Priority: PriorityHigh, VolumeFactor: 0.7},
	}, now)

	if len(diff.Applied) < 2 {
		t.Fatalf("diff = %+v, want both applied", diff)
	}
	if diff.Applied[0].Type != ModReduceVolume {
		t.Errorf("Applied[0] = %s, want the high-priority modification first", diff.Applied[0].Type)
	}
}

func TestApplyWithNoEligibleWorkouts(t *testing.T) {
	p := modTestPlan(t)
	now := modStart.AddDate(0, 0, 12*7+30) // a month after the plan ends

	diff := ApplyModifications(p, []Modification{
		{Type: ModReduceVolume, Priority: PriorityHigh, VolumeFactor: 0.7},
	}, now)

	if len(diff.Applied) != 0 || diff.Changed != 0 || diff.Removed != 0 {
		t.Errorf("diff = %+v, want a no-op", diff)
	}
	if len(diff.Warnings) != 1 {
		t.Errorf("warnings = %v, want the no-op recorded", diff.Warnings)
	}
}

func TestApplyNeverTouchesPastWorkouts(t *testing.T) {
	p := modTestPlan(t)
	now := modStart.AddDate(0, 0, 35) // Monday of week 6

	pastKm := make(map[string]float64)
	for _, w := range p.Workouts {
		if !w.Date.After(now) {
			pastKm[w.ID] = w.DistanceKm
		}
	}

	ApplyModifications(p, []Modification{
		{Type: ModReduceVolume, Priority: PriorityHigh, VolumeFactor: 0.7},
		{Type: ModReduceIntensity, Priority: PriorityMedium, IntensityDelta: -10},
		{Type: ModInjuryProtocol, Priority: PriorityHigh, Full: true},
	}, now)

	found := 0
	for _, w := range p.Workouts {
		if km, ok := pastKm[w.ID]; ok {
			found++
			if w.DistanceKm != km {
				t.Errorf("past workout %s changed", w.ID)
			}
		}
	}
	if found != len(pastKm) {
		t.Errorf("past workouts missing: %d of %d", found, len(pastKm))
	}
}
