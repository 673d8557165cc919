// Package catalog holds the library of reusable workout templates the
// plan generator draws from. Each template is an ordered list of
// segments with duration, intensity and zone, plus an estimated
// training-stress score and recovery time.
package catalog

import (
	"fmt"
	"math"

	"pacemaker/internal/zones"
)

// Workout types. Rest is a scheduling token only and has no templates.
const (
	TypeEasy     = "easy"
	TypeSteady   = "steady"
	TypeLong     = "long"
	TypeTempo    = "tempo"
	TypeInterval = "interval"
	TypeRecovery = "recovery"
	TypeRace     = "race"
	TypeRest     = "rest"
)

// Segment is one continuous piece of a workout. Intensity uses the
// 0-100 scale anchored at 88 = threshold.
type Segment struct {
	Minutes         int
	Intensity       int
	Zone            int
	Description     string
	TargetPaceSecKm float64 // filled in when the workout is placed in a plan
}

// Template is a reusable workout blueprint.
type Template struct {
	Type          string
	Name          string
	PrimaryZone   int
	Adaptation    string
	Segments      []Segment
	TSS           float64
	RecoveryHours float64
}

// EstimateTSS scores a segment list: minutes at threshold intensity
// accumulate 100 points per hour, easier work quadratically less.
func EstimateTSS(segments []Segment) float64 {
	var tss float64
	for _, s := range segments {
		intensityFactor := float64(s.Intensity) / 88.0
		tss += float64(s.Minutes) * intensityFactor * intensityFactor * (100.0 / 60.0)
	}
	return math.Round(tss*10) / 10
}

// RecoveryHours maps a training-stress score to the hours an athlete
// needs before the next quality session.
func RecoveryHours(tss float64) float64 {
	switch {
	case tss <= 35:
		return 8
	case tss <= 60:
		return 12
	case tss <= 90:
		return 24
	case tss <= 120:
		return 36
	default:
		return 48
	}
}

// TotalMinutes sums segment durations.
func TotalMinutes(segments []Segment) int {
	var total int
	for _, s := range segments {
		total += s.Minutes
	}
	return total
}

// ForType returns the templates for a workout type, nil when the type
// has none.
func ForType(typ string) []Template {
	return library[typ]
}

// DefaultIntensity is the fallback segment intensity for a workout type.
func DefaultIntensity(typ string) int {
	switch typ {
	case TypeRecovery:
		return 50
	case TypeSteady:
		return 76
	case TypeTempo:
		return 85
	case TypeInterval, TypeRace:
		return 92
	default:
		return 65
	}
}

// Fallback constructs a single-segment workout for a type with no
// catalog entry, at the given intensity and duration.
func Fallback(typ string, intensity, minutes int) Template {
	s := seg(minutes, intensity, "Continuous effort")
	return build(typ, fmt.Sprintf("Custom %s", typ), "General endurance", s)
}

func seg(minutes, intensity int, description string) Segment {
	return Segment{
		Minutes:     minutes,
		Intensity:   intensity,
		Zone:        zones.ForIntensity(intensity).Number,
		Description: description,
	}
}

// reps interleaves n work/rest pairs.
func reps(n int, work, rest Segment) []Segment {
	out := make([]Segment, 0, 2*n)
	for i := 0; i < n; i++ {
		out = append(out, work, rest)
	}
	return out
}

func join(groups ...[]Segment) []Segment {
	var out []Segment
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func one(s Segment) []Segment { return []Segment{s} }

// build fills the derived template fields. The primary zone is the one
// accumulating the most stress (minutes weighted by intensity squared).
func build(typ, name, adaptation string, segments ...Segment) Template {
	stressByZone := map[int]float64{}
	for _, s := range segments {
		stressByZone[s.Zone] += float64(s.Minutes) * float64(s.Intensity) * float64(s.Intensity)
	}
	primary := 0
	var best float64
	for z, stress := range stressByZone {
		if stress > best || (stress == best && z > primary) {
			primary = z
			best = stress
		}
	}

	tss := EstimateTSS(segments)
	return Template{
		Type:          typ,
		Name:          name,
		PrimaryZone:   primary,
		Adaptation:    adaptation,
		Segments:      segments,
		TSS:           tss,
		RecoveryHours: RecoveryHours(tss),
	}
}

var library = map[string][]Template{
	TypeEasy: {
		build(TypeEasy, "Easy Run", "Aerobic base and running economy",
			seg(40, 65, "Relaxed aerobic running")),
		build(TypeEasy, "Easy Run with Strides", "Aerobic base plus leg speed",
			seg(35, 65, "Relaxed aerobic running"),
			seg(5, 97, "6 x 20s strides with full recovery")),
	},
	TypeSteady: {
		build(TypeSteady, "Steady State", "Aerobic capacity",
			seg(10, 62, "Warm up"),
			seg(30, 76, "Steady effort"),
			seg(5, 55, "Cool down")),
		build(TypeSteady, "Progression Run", "Fatigue resistance",
			seg(15, 65, "Easy start"),
			seg(15, 72, "Lift to steady"),
			seg(10, 78, "Strong finish")),
	},
	TypeLong: {
		build(TypeLong, "Long Run", "Aerobic endurance",
			seg(90, 65, "Relaxed long effort")),
		build(TypeLong, "Progressive Long Run", "Endurance with race rhythm",
			seg(60, 65, "Settled rhythm"),
			seg(25, 77, "Marathon-effort finish")),
		build(TypeLong, "Long Run with Surges", "Endurance under fatigue",
			seg(70, 65, "Relaxed rhythm"),
			seg(15, 83, "Surge blocks"),
			seg(10, 60, "Wind down")),
	},
	TypeTempo: {
		build(TypeTempo, "Tempo Run", "Lactate threshold",
			seg(15, 62, "Warm up"),
			seg(20, 85, "Threshold effort"),
			seg(10, 55, "Cool down")),
		build(TypeTempo, "Cruise Intervals", "Threshold with recovery floats",
			join(
				one(seg(15, 62, "Warm up")),
				reps(3, seg(8, 86, "Cruise rep"), seg(2, 50, "Float")),
				one(seg(10, 55, "Cool down")),
			)...),
	},
	TypeInterval: {
		build(TypeInterval, "VO2max Intervals", "Maximal aerobic power",
			join(
				one(seg(15, 62, "Warm up")),
				reps(5, seg(3, 93, "Hard rep"), seg(2, 50, "Jog recovery")),
				one(seg(10, 55, "Cool down")),
			)...),
		build(TypeInterval, "Hill Repeats", "Strength and power",
			join(
				one(seg(15, 62, "Warm up")),
				reps(6, seg(2, 95, "Hill climb"), seg(3, 45, "Walk-jog descent")),
				one(seg(10, 55, "Cool down")),
			)...),
	},
	TypeRecovery: {
		build(TypeRecovery, "Recovery Jog", "Active recovery",
			seg(30, 50, "Very easy shuffle")),
	},
	TypeRace: {
		build(TypeRace, "Tune-up Race", "Race sharpness",
			seg(12, 62, "Warm up"),
			seg(20, 92, "Race effort"),
			seg(10, 55, "Cool down")),
	},
}
