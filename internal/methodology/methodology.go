// Package methodology applies coaching-system rules to a generated
// plan: per-variant intensity targets, workout emphasis, selection
// overrides, and the intensity-distribution enforcement loop.
package methodology

import (
	"fmt"
	"strings"

	"pacemaker/internal/plan"
)

// Methodology is one closed variant of the customization rules. All
// behavior differences between variants live in these tables.
type Methodology struct {
	Key              string
	Name             string
	Description      string
	RecoveryEmphasis float64

	targets     map[string]plan.Distribution // phase -> target intensity split
	emphasis    map[string]float64           // workout type -> intensity multiplier
	phaseAdjust map[string]float64           // phase -> intensity multiplier
	banned      map[string]map[string]bool   // phase -> workout types not allowed
}

var variants = map[string]*Methodology{
	"daniels": {
		Key:              "daniels",
		Name:             "Daniels",
		Description:      "VDOT-paced training with controlled, precise quality sessions",
		RecoveryEmphasis: 1.0,
		targets: map[string]plan.Distribution{
			plan.PhaseBase:     {EasyPct: 85, ModeratePct: 10, HardPct: 5},
			plan.PhaseBuild:    {EasyPct: 75, ModeratePct: 15, HardPct: 10},
			plan.PhasePeak:     {EasyPct: 70, ModeratePct: 15, HardPct: 15},
			plan.PhaseTaper:    {EasyPct: 80, ModeratePct: 10, HardPct: 10},
			plan.PhaseRecovery: {EasyPct: 95, ModeratePct: 5, HardPct: 0},
		},
		emphasis: map[string]float64{
			"interval": 1.05,
			"recovery": 0.95,
		},
		phaseAdjust: map[string]float64{
			plan.PhaseBase:     0.95,
			plan.PhasePeak:     1.02,
			plan.PhaseTaper:    0.95,
			plan.PhaseRecovery: 0.85,
		},
		banned: map[string]map[string]bool{
			plan.PhaseBase: {"interval": true},
		},
	},
	"lydiard": {
		Key:              "lydiard",
		Name:             "Lydiard",
		Description:      "High-volume aerobic base before any sharpening work",
		RecoveryEmphasis: 1.1,
		targets: map[string]plan.Distribution{
			plan.PhaseBase:     {EasyPct: 90, ModeratePct: 8, HardPct: 2},
			plan.PhaseBuild:    {EasyPct: 80, ModeratePct: 12, HardPct: 8},
			plan.PhasePeak:     {EasyPct: 70, ModeratePct: 15, HardPct: 15},
			plan.PhaseTaper:    {EasyPct: 85, ModeratePct: 10, HardPct: 5},
			plan.PhaseRecovery: {EasyPct: 95, ModeratePct: 5, HardPct: 0},
		},
		emphasis: map[string]float64{
			"long":     1.05,
			"easy":     1.02,
			"steady":   1.02,
			"tempo":    0.95,
			"interval": 0.90,
		},
		phaseAdjust: map[string]float64{
			plan.PhaseBase:     0.90,
			plan.PhaseBuild:    0.98,
			plan.PhasePeak:     1.02,
			plan.PhaseTaper:    0.90,
			plan.PhaseRecovery: 0.85,
		},
		banned: map[string]map[string]bool{
			plan.PhaseBase: {"interval": true, "tempo": true},
		},
	},
	"pfitzinger": {
		Key:              "pfitzinger",
		Name:             "Pfitzinger",
		Description:      "Threshold-led preparation with medium-long midweek runs",
		RecoveryEmphasis: 1.0,
		targets: map[string]plan.Distribution{
			plan.PhaseBase:     {EasyPct: 80, ModeratePct: 15, HardPct: 5},
			plan.PhaseBuild:    {EasyPct: 70, ModeratePct: 20, HardPct: 10},
			plan.PhasePeak:     {EasyPct: 65, ModeratePct: 20, HardPct: 15},
			plan.PhaseTaper:    {EasyPct: 75, ModeratePct: 15, HardPct: 10},
			plan.PhaseRecovery: {EasyPct: 90, ModeratePct: 10, HardPct: 0},
		},
		emphasis: map[string]float64{
			"tempo":  1.05,
			"long":   1.05,
			"steady": 1.02,
		},
		phaseAdjust: map[string]float64{
			plan.PhaseBase:     0.95,
			plan.PhaseBuild:    1.02,
			plan.PhasePeak:     1.05,
			plan.PhaseTaper:    0.95,
			plan.PhaseRecovery: 0.85,
		},
		banned: map[string]map[string]bool{
			plan.PhaseBase: {"interval": true},
		},
	},
	"custom": {
		Key:              "custom",
		Name:             "Custom",
		Description:      "Balanced defaults with no selection overrides",
		RecoveryEmphasis: 1.0,
		targets: map[string]plan.Distribution{
			plan.PhaseBase:     {EasyPct: 80, ModeratePct: 15, HardPct: 5},
			plan.PhaseBuild:    {EasyPct: 75, ModeratePct: 15, HardPct: 10},
			plan.PhasePeak:     {EasyPct: 70, ModeratePct: 15, HardPct: 15},
			plan.PhaseTaper:    {EasyPct: 80, ModeratePct: 10, HardPct: 10},
			plan.PhaseRecovery: {EasyPct: 95, ModeratePct: 5, HardPct: 0},
		},
	},
}

// keyOrder fixes the display order of the variant list.
var keyOrder = []string{"daniels", "lydiard", "pfitzinger", "custom"}

// New resolves a methodology key. An unknown key is a configuration
// error, never a silent default.
func New(key string) (*Methodology, error) {
	m, ok := variants[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return nil, &plan.ConfigError{
			Field:  "methodology",
			Reason: fmt.Sprintf("unknown methodology %q (have %s)", key, strings.Join(keyOrder, ", ")),
		}
	}
	return m, nil
}

// Keys lists the known methodology keys.
func Keys() []string {
	out := make([]string, len(keyOrder))
	copy(out, keyOrder)
	return out
}

// Targets returns the phase's target intensity distribution.
func (m *Methodology) Targets(phase string) plan.Distribution {
	if t, ok := m.targets[phase]; ok {
		return t
	}
	return plan.Distribution{EasyPct: 80, ModeratePct: 15, HardPct: 5}
}

// Emphasis returns the intensity multiplier for a workout type.
func (m *Methodology) Emphasis(typ string) float64 {
	if v, ok := m.emphasis[typ]; ok {
		return v
	}
	return 1.0
}

// Adjust returns the phase's intensity multiplier.
func (m *Methodology) Adjust(phase string) float64 {
	if v, ok := m.phaseAdjust[phase]; ok {
		return v
	}
	return 1.0
}

// Allowed reports whether a workout type may be scheduled in a phase.
func (m *Methodology) Allowed(phase, typ string) bool {
	return !m.banned[phase][typ]
}
