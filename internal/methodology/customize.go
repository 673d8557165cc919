package methodology

import (
	"math"

	"pacemaker/internal/analysis"
	"pacemaker/internal/catalog"
	"pacemaker/internal/plan"
	"pacemaker/internal/zones"
)

// Segment intensity clamp applied after customization.
const (
	minIntensity = 40
	maxIntensity = 100
)

// SelectTemplate implements plan.Selector. Banned types are substituted
// with steady aerobic work, and template choice rotates by week so
// regeneration is reproducible.
func (m *Methodology) SelectTemplate(typ, phase string, week int, candidates []catalog.Template) catalog.Template {
	if !m.Allowed(phase, typ) {
		sub := catalog.TypeSteady
		if typ == catalog.TypeSteady {
			sub = catalog.TypeEasy
		}
		typ = sub
		candidates = catalog.ForType(sub)
	}
	if len(candidates) == 0 {
		return catalog.Fallback(typ, catalog.DefaultIntensity(typ), 40)
	}
	return candidates[week%len(candidates)]
}

// CustomizeWorkout rescales a workout's segment intensities by the
// phase adjustment and the type emphasis, clamped to [40,100], then
// recomputes stress and recovery with the methodology's recovery
// emphasis.
func (m *Methodology) CustomizeWorkout(w *plan.Workout, phase string, thresholdPace float64) {
	adj := m.Adjust(phase) * m.Emphasis(w.Type)
	for i := range w.Segments {
		s := &w.Segments[i]
		s.Intensity = clampIntensity(int(math.Round(float64(s.Intensity) * adj)))
		s.Zone = zones.ForIntensity(s.Intensity).Number
		if pace := zones.PaceForIntensity(thresholdPace, s.Intensity); pace > 0 {
			s.TargetPaceSecKm = math.Round(pace)
		}
	}
	w.RecalcMetrics()
	w.RecoveryHours = math.Round(w.RecoveryHours*m.RecoveryEmphasis*10) / 10
}

// Customize applies the methodology to every workout in the plan.
// Races are left as generated.
func (m *Methodology) Customize(p *plan.Plan) {
	threshold := p.Config.Assessment.ThresholdPace
	if threshold <= 0 {
		threshold = analysis.DefaultThresholdPace
	}

	for bi := range p.Blocks {
		b := &p.Blocks[bi]
		for ci := range b.Cycles {
			for _, w := range b.Cycles[ci].Workouts {
				if w.Type == catalog.TypeRace {
					continue
				}
				m.CustomizeWorkout(w, b.Phase, threshold)
			}
		}
	}
	p.Refresh()
}

func clampIntensity(v int) int {
	if v < minIntensity {
		return minIntensity
	}
	if v > maxIntensity {
		return maxIntensity
	}
	return v
}
