package methodology

import (
	"fmt"
	"math"
	"sort"

	"pacemaker/internal/analysis"
	"pacemaker/internal/catalog"
	"pacemaker/internal/plan"
	"pacemaker/internal/zones"
)

// Distribution bands and enforcement constants.
const (
	tolerancePts = 5.0 // allowed deviation in percentage points

	bandEasy     = "easy"
	bandModerate = "moderate"
	bandHard     = "hard"

	easedIntensity = 65 // moderate segments convert down to this
	surgeMinutes   = 8
	surgeIntensity = 90
)

// Violation is one out-of-tolerance band in one scope ("plan" or a
// phase name).
type Violation struct {
	Scope     string
	Band      string
	ActualPct float64
	TargetPct float64
	Severity  string
}

// Deviation is the magnitude of the miss in percentage points.
func (v Violation) Deviation() float64 {
	return math.Abs(v.ActualPct - v.TargetPct)
}

func severityFor(deviation float64) string {
	switch {
	case deviation < 8:
		return "low"
	case deviation < 12:
		return "medium"
	case deviation < 20:
		return "high"
	default:
		return "critical"
	}
}

var severityRank = map[string]int{
	"critical": 0,
	"high":     1,
	"medium":   2,
	"low":      3,
}

func sortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		if severityRank[vs[i].Severity] != severityRank[vs[j].Severity] {
			return severityRank[vs[i].Severity] < severityRank[vs[j].Severity]
		}
		if vs[i].Deviation() != vs[j].Deviation() {
			return vs[i].Deviation() > vs[j].Deviation()
		}
		if vs[i].Scope != vs[j].Scope {
			return vs[i].Scope < vs[j].Scope
		}
		return vs[i].Band < vs[j].Band
	})
}

// Violations compares the plan-wide and per-phase intensity
// distributions against the methodology targets.
func (m *Methodology) Violations(p *plan.Plan) []Violation {
	out := m.check("plan", plan.DistributionOf(p.Workouts), m.planTarget(p))

	byPhase := map[string][]*plan.Workout{}
	var order []string
	for _, b := range p.Blocks {
		if _, seen := byPhase[b.Phase]; !seen {
			order = append(order, b.Phase)
		}
		for _, c := range b.Cycles {
			byPhase[b.Phase] = append(byPhase[b.Phase], c.Workouts...)
		}
	}
	for _, phase := range order {
		out = append(out, m.check(phase, plan.DistributionOf(byPhase[phase]), m.Targets(phase))...)
	}
	return out
}

// planTarget is the whole-plan target: phase targets weighted by weeks.
func (m *Methodology) planTarget(p *plan.Plan) plan.Distribution {
	var out plan.Distribution
	var total float64
	for _, b := range p.Blocks {
		t := m.Targets(b.Phase)
		w := float64(b.Weeks)
		out.EasyPct += t.EasyPct * w
		out.ModeratePct += t.ModeratePct * w
		out.HardPct += t.HardPct * w
		total += w
	}
	if total == 0 {
		return m.Targets(plan.PhaseBase)
	}
	out.EasyPct /= total
	out.ModeratePct /= total
	out.HardPct /= total
	return out
}

func (m *Methodology) check(scope string, actual, target plan.Distribution) []Violation {
	var out []Violation
	bands := []struct {
		name           string
		actual, target float64
	}{
		{bandEasy, actual.EasyPct, target.EasyPct},
		{bandModerate, actual.ModeratePct, target.ModeratePct},
		{bandHard, actual.HardPct, target.HardPct},
	}
	for _, b := range bands {
		dev := math.Abs(b.actual - b.target)
		if dev <= tolerancePts {
			continue
		}
		out = append(out, Violation{
			Scope:     scope,
			Band:      b.name,
			ActualPct: b.actual,
			TargetPct: b.target,
			Severity:  severityFor(dev),
		})
	}
	return out
}

// EnforceDistribution runs the bounded corrective loop: find
// violations, apply one corrective edit per violation in severity
// order, re-validate. It stops at zero violations, when the count
// stops strictly decreasing, or at the iteration cap (the initial
// violation count). A stop short of convergence appends a structured
// warning to the plan.
func (m *Methodology) EnforceDistribution(p *plan.Plan) []Violation {
	violations := m.Violations(p)
	if len(violations) == 0 {
		return nil
	}

	threshold := p.Config.Assessment.ThresholdPace
	if threshold <= 0 {
		threshold = analysis.DefaultThresholdPace
	}

	maxIters := len(violations)
	prev := len(violations)
	for iter := 0; iter < maxIters; iter++ {
		sortViolations(violations)

		var edits int
		for _, v := range violations {
			if m.correct(p, v, threshold) {
				edits++
			}
		}
		if edits == 0 {
			break
		}

		p.Refresh()
		violations = m.Violations(p)
		if len(violations) == 0 {
			return nil
		}
		if len(violations) >= prev {
			break
		}
		prev = len(violations)
	}

	sortViolations(violations)
	p.Warnings = append(p.Warnings, fmt.Sprintf(
		"intensity distribution enforcement stopped with %d violation(s) remaining", len(violations)))
	return violations
}

// correct applies at most one edit for a violation. Only two
// correctives exist: easing a moderate segment in a flexible workout,
// and injecting a quality surge into a long easy workout when hard
// minutes are deficient. Anything else is a no-op.
func (m *Methodology) correct(p *plan.Plan, v Violation, threshold float64) bool {
	ws := scopeWorkouts(p, v.Scope)
	switch v.Band {
	case bandEasy:
		if v.ActualPct < v.TargetPct {
			return easeModerateSegment(ws, threshold)
		}
	case bandModerate:
		if v.ActualPct > v.TargetPct {
			return easeModerateSegment(ws, threshold)
		}
	case bandHard:
		if v.ActualPct < v.TargetPct {
			return injectQualitySegment(ws, threshold)
		}
	}
	return false
}

func scopeWorkouts(p *plan.Plan, scope string) []*plan.Workout {
	if scope == "plan" {
		return p.Workouts
	}
	var out []*plan.Workout
	for _, b := range p.Blocks {
		if b.Phase != scope {
			continue
		}
		for _, c := range b.Cycles {
			out = append(out, c.Workouts...)
		}
	}
	return out
}

var flexibleTypes = map[string]bool{
	catalog.TypeEasy:   true,
	catalog.TypeSteady: true,
	catalog.TypeLong:   true,
}

// easeModerateSegment converts the longest moderate segment in a
// flexible workout down to easy intensity.
func easeModerateSegment(ws []*plan.Workout, threshold float64) bool {
	var bestW *plan.Workout
	bestSeg := -1
	for _, w := range ws {
		if !flexibleTypes[w.Type] {
			continue
		}
		for i, s := range w.Segments {
			if s.Intensity <= plan.EasyMaxIntensity || s.Intensity > plan.ModerateMaxIntensity {
				continue
			}
			if bestSeg == -1 || s.Minutes > bestW.Segments[bestSeg].Minutes {
				bestW, bestSeg = w, i
			}
		}
	}
	if bestSeg == -1 {
		return false
	}

	s := &bestW.Segments[bestSeg]
	s.Intensity = easedIntensity
	s.Zone = zones.ForIntensity(easedIntensity).Number
	if pace := zones.PaceForIntensity(threshold, easedIntensity); pace > 0 {
		s.TargetPaceSecKm = math.Round(pace)
	}
	bestW.ModifiedBy = "distribution"
	bestW.RecalcMetrics()
	return true
}

// injectQualitySegment appends a short surge to the longest easy-paced
// long or easy run.
func injectQualitySegment(ws []*plan.Workout, threshold float64) bool {
	var target *plan.Workout
	for _, w := range ws {
		if w.Type != catalog.TypeLong && w.Type != catalog.TypeEasy {
			continue
		}
		if w.Intensity > plan.EasyMaxIntensity {
			continue
		}
		if target == nil || w.DurationMin > target.DurationMin {
			target = w
		}
	}
	if target == nil {
		return false
	}

	seg := catalog.Segment{
		Minutes:     surgeMinutes,
		Intensity:   surgeIntensity,
		Zone:        zones.ForIntensity(surgeIntensity).Number,
		Description: "Quality surge",
	}
	if pace := zones.PaceForIntensity(threshold, surgeIntensity); pace > 0 {
		seg.TargetPaceSecKm = math.Round(pace)
	}
	target.Segments = append(target.Segments, seg)
	target.ModifiedBy = "distribution"
	target.RecalcMetrics()
	return true
}
