// Package zones maps workout intensity to the seven training zones and
// derives per-athlete pace and heart-rate ranges from threshold pace and
// max heart rate.
package zones

// Zone is one of the seven training zones. Intensity is expressed as a
// percentage of the velocity at VO2max, so threshold sits at 88.
type Zone struct {
	Number       int
	Name         string
	RPE          string
	MinIntensity int
	MaxIntensity int
	HRLowPct     float64 // fraction of max heart rate
	HRHighPct    float64
	Description  string
	Purpose      string
}

// All is the fixed zone catalog, ordered from easiest to hardest.
var All = []Zone{
	{
		Number:       1,
		Name:         "Recovery",
		RPE:          "1-2",
		MinIntensity: 40,
		MaxIntensity: 55,
		HRLowPct:     0.50,
		HRHighPct:    0.60,
		Description:  "Very easy jogging",
		Purpose:      "Promotes blood flow and recovery between hard sessions",
	},
	{
		Number:       2,
		Name:         "Easy",
		RPE:          "3-4",
		MinIntensity: 56,
		MaxIntensity: 70,
		HRLowPct:     0.60,
		HRHighPct:    0.70,
		Description:  "Conversational aerobic running",
		Purpose:      "Builds the aerobic base and running economy",
	},
	{
		Number:       3,
		Name:         "Steady",
		RPE:          "5-6",
		MinIntensity: 71,
		MaxIntensity: 80,
		HRLowPct:     0.70,
		HRHighPct:    0.80,
		Description:  "Comfortably brisk, marathon-effort running",
		Purpose:      "Develops aerobic capacity and fatigue resistance",
	},
	{
		Number:       4,
		Name:         "Threshold",
		RPE:          "7",
		MinIntensity: 81,
		MaxIntensity: 88,
		HRLowPct:     0.80,
		HRHighPct:    0.88,
		Description:  "Comfortably hard tempo effort",
		Purpose:      "Raises the lactate threshold",
	},
	{
		Number:       5,
		Name:         "VO2max",
		RPE:          "8-9",
		MinIntensity: 89,
		MaxIntensity: 95,
		HRLowPct:     0.88,
		HRHighPct:    0.95,
		Description:  "Hard interval effort",
		Purpose:      "Develops maximal aerobic power",
	},
	{
		Number:       6,
		Name:         "Anaerobic",
		RPE:          "9",
		MinIntensity: 96,
		MaxIntensity: 98,
		HRLowPct:     0.95,
		HRHighPct:    1.00,
		Description:  "Very hard repetitions",
		Purpose:      "Improves speed and lactate tolerance",
	},
	{
		Number:       7,
		Name:         "Neuromuscular",
		RPE:          "10",
		MinIntensity: 99,
		MaxIntensity: 100,
		HRLowPct:     0.95,
		HRHighPct:    1.00,
		Description:  "Sprints and strides",
		Purpose:      "Sharpens form, power and leg turnover",
	},
}

// ForIntensity returns the zone containing the given intensity.
// Out-of-range values clamp to the first or last zone.
func ForIntensity(intensity int) Zone {
	if intensity <= All[0].MaxIntensity {
		return All[0]
	}
	for _, z := range All[1:] {
		if intensity <= z.MaxIntensity {
			return z
		}
	}
	return All[len(All)-1]
}

// PaceForIntensity converts an intensity to a target pace in sec/km.
// Intensity is anchored so that 88 equals threshold pace.
func PaceForIntensity(thresholdPaceSecKm float64, intensity int) float64 {
	if thresholdPaceSecKm <= 0 || intensity <= 0 {
		return 0
	}
	return thresholdPaceSecKm * 88.0 / float64(intensity)
}

// PaceRange returns the fast and slow pace bounds (sec/km) for this zone
// given an athlete's threshold pace.
func (z Zone) PaceRange(thresholdPaceSecKm float64) (fast, slow float64) {
	fast = PaceForIntensity(thresholdPaceSecKm, z.MaxIntensity)
	slow = PaceForIntensity(thresholdPaceSecKm, z.MinIntensity)
	return fast, slow
}

// HRRange returns the heart-rate bounds in bpm for this zone given an
// athlete's max heart rate. Returns zeros when max HR is unknown.
func (z Zone) HRRange(maxHR int) (low, high int) {
	if maxHR <= 0 {
		return 0, 0
	}
	low = int(z.HRLowPct*float64(maxHR) + 0.5)
	high = int(z.HRHighPct*float64(maxHR) + 0.5)
	return low, high
}
