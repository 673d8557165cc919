package plan

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pacemaker/internal/analysis"
	"pacemaker/internal/catalog"
	"pacemaker/internal/zones"
)

// Selector chooses a workout template for a slot. Methodology variants
// implement it to apply their selection overrides; a nil selector
// rotates through the catalog.
type Selector interface {
	SelectTemplate(typ, phase string, week int, candidates []catalog.Template) catalog.Template
}

const (
	recoveryWeekInterval = 4    // every 4th plan week is a cutback week
	recoveryWeekFactor   = 0.70 // at 70% of the computed volume
	defaultBaseWeeklyKm  = 20.0
	raceIntensity        = 95
)

// Generate builds a dated plan from the configuration. The only errors
// are configuration errors; sparse fitness data falls back to defaults.
func Generate(cfg Config, sel Selector) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &generator{
		cfg:       cfg,
		sel:       sel,
		days:      normalizeDays(cfg.Days),
		threshold: cfg.Assessment.ThresholdPace,
	}
	if g.threshold <= 0 {
		g.threshold = analysis.DefaultThresholdPace
	}

	p := &Plan{ID: uuid.NewString(), Config: cfg}

	volume := cfg.Assessment.WeeklyVolumeKm
	if volume <= 0 {
		volume = defaultBaseWeeklyKm
	}
	rate := IncreaseRate(analysis.ExperienceLevel(cfg.Assessment))

	startWeek := 1
	blockStart := cfg.StartDate
	for seq, ph := range SplitWeeks(cfg.TotalWeeks) {
		b := Block{
			ID:        uuid.NewString(),
			Seq:       seq + 1,
			Phase:     ph.Phase,
			StartDate: blockStart,
			EndDate:   blockStart.AddDate(0, 0, 7*ph.Weeks-1),
			StartWeek: startWeek,
			Weeks:     ph.Weeks,
			VolumeKm:  math.Round(volume*10) / 10,
			Focus:     focusFor(ph.Phase),
		}

		for wk := 0; wk < ph.Weeks; wk++ {
			planWeek := startWeek + wk
			weekVol := volume * progressionFactor(ph.Phase, wk, rate)
			if planWeek%recoveryWeekInterval == 0 {
				weekVol *= recoveryWeekFactor
			}
			weekStart := blockStart.AddDate(0, 0, 7*wk)
			b.Cycles = append(b.Cycles, g.buildWeek(ph.Phase, planWeek, weekStart, weekVol))
		}

		// the next block ramps from where this one ended
		volume *= progressionFactor(ph.Phase, ph.Weeks-1, rate)

		p.Blocks = append(p.Blocks, b)
		startWeek += ph.Weeks
		blockStart = blockStart.AddDate(0, 0, 7*ph.Weeks)
	}

	g.placeGoalRace(p)
	p.Refresh()
	return p, nil
}

// progressionFactor scales a block's base volume for a week within it:
// a linear ramp in base/build/peak, a linear decay in taper, and a flat
// reduction in recovery.
func progressionFactor(phase string, weekIdx int, rate float64) float64 {
	switch phase {
	case PhaseTaper:
		f := 1 - 0.3*float64(weekIdx+1)
		if f < 0.3 {
			f = 0.3
		}
		return f
	case PhaseRecovery:
		return 0.6
	default:
		return 1 + rate*float64(weekIdx)
	}
}

type generator struct {
	cfg       Config
	sel       Selector
	days      []time.Weekday
	threshold float64
}

func (g *generator) buildWeek(phase string, planWeek int, weekStart time.Time, volumeKm float64) Microcycle {
	pattern := patternFor(phase, planWeek)
	tokens := fitTokens(pattern, len(g.days))

	cycle := Microcycle{Week: planWeek, Pattern: strings.Join(pattern, "-")}

	remaining := volumeKm
	for i, tok := range tokens {
		day := g.days[i%len(g.days)]
		date := weekStart.AddDate(0, 0, mondayOffset(day))

		tpl := g.selectTemplate(tokenTypes[tok], phase, planWeek)
		w := g.place(tpl, date, planWeek, remaining, len(tokens)-i)
		remaining -= w.DistanceKm
		if remaining < 0 {
			remaining = 0
		}
		cycle.Workouts = append(cycle.Workouts, w)
	}

	cycle.Recompute()
	return cycle
}

func (g *generator) selectTemplate(typ, phase string, week int) catalog.Template {
	candidates := catalog.ForType(typ)
	if g.sel != nil {
		return g.sel.SelectTemplate(typ, phase, week, candidates)
	}
	if len(candidates) == 0 {
		return catalog.Fallback(typ, catalog.DefaultIntensity(typ), 40)
	}
	return candidates[week%len(candidates)]
}

// place instantiates a template on a date. The target distance comes
// from segment durations at intensity-normalized paces, capped by an
// even share of the week's remaining volume so the weekly total is
// never exceeded by more than rounding.
func (g *generator) place(tpl catalog.Template, date time.Time, week int, remainingKm float64, remainingCount int) *Workout {
	segments := make([]catalog.Segment, len(tpl.Segments))
	copy(segments, tpl.Segments)

	var estKm float64
	for i := range segments {
		pace := zones.PaceForIntensity(g.threshold, segments[i].Intensity)
		segments[i].TargetPaceSecKm = math.Round(pace)
		if pace > 0 {
			estKm += float64(segments[i].Minutes) * 60.0 / pace
		}
	}

	target := estKm
	if remainingCount > 0 {
		if share := remainingKm / float64(remainingCount); target > share {
			target = share
		}
	}
	if target < 0 {
		target = 0
	}

	w := &Workout{
		ID:          uuid.NewString(),
		Date:        date,
		Week:        week,
		Type:        tpl.Type,
		Name:        tpl.Name,
		Description: tpl.Adaptation,
		Segments:    segments,
		DistanceKm:  math.Round(target*10) / 10,
		Status:      StatusScheduled,
	}
	w.RecalcMetrics()
	return w
}

// placeGoalRace schedules the goal race on the configured race date,
// replacing whatever the generator put on that day.
func (g *generator) placeGoalRace(p *Plan) {
	cfg := g.cfg
	distKm := cfg.GoalDistanceKm()
	if cfg.RaceDate.IsZero() || distKm <= 0 || len(p.Blocks) == 0 {
		return
	}

	seconds := analysis.PredictTime(cfg.Assessment.VDOT, distKm*1000)
	minutes := int(math.Round(float64(seconds) / 60.0))
	if minutes <= 0 {
		minutes = 40
	}

	seg := catalog.Segment{
		Minutes:     minutes,
		Intensity:   raceIntensity,
		Zone:        zones.ForIntensity(raceIntensity).Number,
		Description: "Race at goal effort",
	}
	if seconds > 0 {
		seg.TargetPaceSecKm = math.Round(float64(seconds) / distKm)
	}

	name := "Goal Race"
	if cfg.Goal != "" {
		name = fmt.Sprintf("Goal Race (%s)", cfg.Goal)
	}
	w := &Workout{
		ID:          uuid.NewString(),
		Date:        cfg.RaceDate,
		Week:        weekOf(cfg.StartDate, cfg.RaceDate),
		Type:        catalog.TypeRace,
		Name:        name,
		Description: "The race this plan builds toward",
		Segments:    []catalog.Segment{seg},
		Status:      StatusScheduled,
	}
	w.RecalcMetrics()
	w.DistanceKm = math.Round(distKm*10) / 10

	cycle := cycleFor(p, cfg.RaceDate)
	kept := cycle.Workouts[:0]
	for _, existing := range cycle.Workouts {
		if !sameDate(existing.Date, cfg.RaceDate) {
			kept = append(kept, existing)
		}
	}
	cycle.Workouts = append(kept, w)
}

// cycleFor returns the microcycle containing the date, or the plan's
// last cycle when the date falls past the generated weeks.
func cycleFor(p *Plan, date time.Time) *Microcycle {
	for bi := range p.Blocks {
		b := &p.Blocks[bi]
		if date.Before(b.StartDate) || date.After(b.EndDate) {
			continue
		}
		ci := int(date.Sub(b.StartDate).Hours() / 24 / 7)
		if ci >= len(b.Cycles) {
			ci = len(b.Cycles) - 1
		}
		return &b.Cycles[ci]
	}
	last := &p.Blocks[len(p.Blocks)-1]
	return &last.Cycles[len(last.Cycles)-1]
}

func weekOf(start, date time.Time) int {
	return int(date.Sub(start).Hours()/24/7) + 1
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// mondayOffset is the day's offset within a Monday-start week.
func mondayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func normalizeDays(days []time.Weekday) []time.Weekday {
	seen := map[time.Weekday]bool{}
	var out []time.Weekday
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return mondayOffset(out[i]) < mondayOffset(out[j])
	})
	return out
}
