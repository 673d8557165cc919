package plan

// phaseShare is one row of a phase distribution table.
type phaseShare struct {
	phase string
	share float64
}

// Distribution tables keyed by plan length. Week counts are truncated,
// never redistributed, so short remainders simply shorten the plan.
var (
	shortPlanShares = []phaseShare{
		{PhaseBase, 0.40},
		{PhaseBuild, 0.30},
		{PhasePeak, 0.15},
		{PhaseTaper, 0.15},
	}
	mediumPlanShares = []phaseShare{
		{PhaseBase, 0.50},
		{PhaseBuild, 0.25},
		{PhasePeak, 0.15},
		{PhaseTaper, 0.10},
	}
	longPlanShares = []phaseShare{
		{PhaseBase, 0.40},
		{PhaseBuild, 0.25},
		{PhasePeak, 0.15},
		{PhaseTaper, 0.10},
		{PhaseRecovery, 0.10},
	}
)

// PhaseWeeks is the allocated week count for one phase.
type PhaseWeeks struct {
	Phase string
	Weeks int
}

// SplitWeeks allocates a total week count across phases using the table
// for the plan's length bucket. Phases that truncate to zero weeks are
// dropped.
func SplitWeeks(totalWeeks int) []PhaseWeeks {
	var table []phaseShare
	switch {
	case totalWeeks <= 8:
		table = shortPlanShares
	case totalWeeks <= 16:
		table = mediumPlanShares
	default:
		table = longPlanShares
	}

	var out []PhaseWeeks
	for _, row := range table {
		weeks := int(float64(totalWeeks) * row.share)
		if weeks == 0 {
			continue
		}
		out = append(out, PhaseWeeks{Phase: row.phase, Weeks: weeks})
	}
	return out
}

// focusFor labels what a phase is for.
func focusFor(phase string) []string {
	switch phase {
	case PhaseBase:
		return []string{"aerobic endurance", "running economy"}
	case PhaseBuild:
		return []string{"lactate threshold", "aerobic power"}
	case PhasePeak:
		return []string{"race-specific fitness", "speed"}
	case PhaseTaper:
		return []string{"freshness", "race readiness"}
	case PhaseRecovery:
		return []string{"regeneration"}
	}
	return nil
}
