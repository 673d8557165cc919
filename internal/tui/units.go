package tui

import (
	"fmt"
	"math"

	"pacemaker/internal/config"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
	kmPerMile     = metersPerMile / metersPerKm
)

// Units provides unit conversion and formatting based on user preferences.
// Plan and analysis values are kilometer-native; runs store meters.
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in meters to the user's preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.1f mi", meters/metersPerMile)
	}
	return fmt.Sprintf("%.1f km", meters/metersPerKm)
}

// FormatKm formats a kilometer distance to the user's preferred unit
func (u Units) FormatKm(km float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.1f mi", km/kmPerMile)
	}
	return fmt.Sprintf("%.1f km", km)
}

// FormatPaceSecKm formats a seconds-per-kilometer pace in the user's
// preferred unit, without the unit label
func (u Units) FormatPaceSecKm(secPerKm float64) string {
	if secPerKm <= 0 {
		return "-"
	}
	pace := secPerKm
	if u.cfg.PaceUnit == "min/mi" {
		pace = secPerKm * kmPerMile
	}
	total := int(math.Round(pace))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatPaceWithUnit formats a seconds-per-kilometer pace with its label
func (u Units) FormatPaceWithUnit(secPerKm float64) string {
	pace := u.FormatPaceSecKm(secPerKm)
	if pace == "-" {
		return pace
	}
	return pace + "/" + u.DistanceLabel()
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.IsMiles() {
		return "mi"
	}
	return "km"
}

// PaceLabel returns the pace unit label ("min/mi" or "min/km")
func (u Units) PaceLabel() string {
	if u.cfg.PaceUnit == "min/mi" {
		return "min/mi"
	}
	return "min/km"
}

// ChartVolumes converts a kilometer series for charting when the user
// prefers miles
func (u Units) ChartVolumes(kms []float64) []float64 {
	if !u.IsMiles() {
		return kms
	}
	converted := make([]float64, len(kms))
	for i, km := range kms {
		converted[i] = km / kmPerMile
	}
	return converted
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.cfg.DistanceUnit == "mi"
}
