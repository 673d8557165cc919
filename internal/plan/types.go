// Package plan builds dated training blocks and weekly microcycles of
// planned workouts from a plan configuration and a fitness assessment.
package plan

import (
	"sort"
	"time"

	"pacemaker/internal/catalog"
)

// Training phases, in the order they may appear in a plan.
const (
	PhaseBase     = "base"
	PhaseBuild    = "build"
	PhasePeak     = "peak"
	PhaseTaper    = "taper"
	PhaseRecovery = "recovery"
)

// Intensity bands used for distribution accounting.
const (
	EasyMaxIntensity     = 70
	ModerateMaxIntensity = 85
)

// Workout statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
)

// Workout is a single planned session. Workouts are mutated in place by
// methodology customization and by adaptation, so microcycles and the
// flattened plan list share pointers.
type Workout struct {
	ID            string
	Date          time.Time
	Week          int // 1-based plan week
	Type          string
	Name          string
	Description   string
	Segments      []catalog.Segment
	DistanceKm    float64
	DurationMin   int
	Intensity     int // intensity of the stress-dominant segment
	TSS           float64
	RecoveryHours float64
	Status        string
	ModifiedBy    string
}

// RecalcMetrics refreshes the derived fields from the current segments.
func (w *Workout) RecalcMetrics() {
	w.DurationMin = catalog.TotalMinutes(w.Segments)
	w.TSS = catalog.EstimateTSS(w.Segments)
	w.RecoveryHours = catalog.RecoveryHours(w.TSS)
	w.Intensity = dominantIntensity(w.Segments)
}

// dominantIntensity returns the intensity of the segment carrying the
// most stress (minutes weighted by intensity squared).
func dominantIntensity(segments []catalog.Segment) int {
	best := 0
	var bestStress float64
	for _, s := range segments {
		stress := float64(s.Minutes) * float64(s.Intensity) * float64(s.Intensity)
		if stress > bestStress {
			bestStress = stress
			best = s.Intensity
		}
	}
	return best
}

// Microcycle is one week of training within a block.
type Microcycle struct {
	Week          int // 1-based plan week
	Pattern       string
	Workouts      []*Workout
	TotalKm       float64
	TotalLoad     float64 // summed TSS
	RecoveryRatio float64 // share of minutes in the easy band
}

// Recompute refreshes the cycle totals from its workouts.
func (c *Microcycle) Recompute() {
	c.TotalKm, c.TotalLoad, c.RecoveryRatio = 0, 0, 0
	var easyMin, totalMin float64
	for _, w := range c.Workouts {
		c.TotalKm += w.DistanceKm
		c.TotalLoad += w.TSS
		for _, s := range w.Segments {
			totalMin += float64(s.Minutes)
			if s.Intensity <= EasyMaxIntensity {
				easyMin += float64(s.Minutes)
			}
		}
	}
	if totalMin > 0 {
		c.RecoveryRatio = easyMin / totalMin
	}
}

// Block is a contiguous multi-week phase of a plan.
type Block struct {
	ID        string
	Seq       int
	Phase     string
	StartDate time.Time
	EndDate   time.Time
	StartWeek int // 1-based plan week of the first cycle
	Weeks     int
	VolumeKm  float64 // base weekly volume the block progresses from
	Focus     []string
	Cycles    []Microcycle
}

// Plan is the full generated training plan.
type Plan struct {
	ID       string
	Config   Config
	Blocks   []Block
	Workouts []*Workout // flattened, chronological, sharing pointers with the cycles
	Summary  Summary
	Warnings []string
}

// Refresh rebuilds the flattened workout list, the cycle totals and the
// summary after any mutation of the plan's workouts.
func (p *Plan) Refresh() {
	p.Workouts = p.Workouts[:0]
	for bi := range p.Blocks {
		for ci := range p.Blocks[bi].Cycles {
			cycle := &p.Blocks[bi].Cycles[ci]
			cycle.Recompute()
			p.Workouts = append(p.Workouts, cycle.Workouts...)
		}
	}
	sort.SliceStable(p.Workouts, func(i, j int) bool {
		return p.Workouts[i].Date.Before(p.Workouts[j].Date)
	})
	p.Summary = Summarize(p)
}

// Distribution is the easy/moderate/hard split of training minutes, in
// percentage points.
type Distribution struct {
	EasyPct     float64
	ModeratePct float64
	HardPct     float64
}

// DistributionOf computes the intensity distribution over a workout set.
func DistributionOf(workouts []*Workout) Distribution {
	var easy, moderate, hard float64
	for _, w := range workouts {
		for _, s := range w.Segments {
			min := float64(s.Minutes)
			switch {
			case s.Intensity <= EasyMaxIntensity:
				easy += min
			case s.Intensity <= ModerateMaxIntensity:
				moderate += min
			default:
				hard += min
			}
		}
	}

	total := easy + moderate + hard
	if total == 0 {
		return Distribution{}
	}
	return Distribution{
		EasyPct:     easy / total * 100,
		ModeratePct: moderate / total * 100,
		HardPct:     hard / total * 100,
	}
}

// Summary is the plan-level statistics block.
type Summary struct {
	TotalWorkouts int
	TotalKm       float64
	TotalHours    float64
	PeakWeekKm    float64
	AvgWeekKm     float64
	Overall       Distribution
	Phases        map[string]Distribution
}

// Summarize computes the plan summary from its blocks.
func Summarize(p *Plan) Summary {
	s := Summary{Phases: map[string]Distribution{}}

	var weeks int
	byPhase := map[string][]*Workout{}
	for _, b := range p.Blocks {
		for _, c := range b.Cycles {
			weeks++
			s.TotalKm += c.TotalKm
			if c.TotalKm > s.PeakWeekKm {
				s.PeakWeekKm = c.TotalKm
			}
			for _, w := range c.Workouts {
				s.TotalWorkouts++
				s.TotalHours += float64(w.DurationMin) / 60.0
				byPhase[b.Phase] = append(byPhase[b.Phase], w)
			}
		}
	}

	if weeks > 0 {
		s.AvgWeekKm = s.TotalKm / float64(weeks)
	}
	s.Overall = DistributionOf(p.Workouts)
	for phase, ws := range byPhase {
		s.Phases[phase] = DistributionOf(ws)
	}
	return s
}
