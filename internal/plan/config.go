package plan

import (
	"fmt"
	"time"

	"pacemaker/internal/analysis"
)

// Config is the root input to plan generation. It is treated as
// immutable for a single generation pass.
type Config struct {
	Name        string
	Goal        string  // "5k", "10k", "half", "marathon" or "custom"
	GoalKm      float64 // overrides the goal label's distance when set
	StartDate   time.Time
	RaceDate    time.Time
	TotalWeeks  int
	Methodology string
	Days        []time.Weekday // available training days
	Assessment  analysis.FitnessAssessment
	Races       []Race // optional tune-up races
}

// Race is an optional intermediate target race.
type Race struct {
	Name       string
	Date       time.Time
	DistanceKm float64
}

// ConfigError is a fatal plan configuration problem. No partial plan is
// returned when one occurs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("plan config: %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration invariants that generation depends
// on. The methodology key is validated where methodologies are resolved.
func (c *Config) Validate() error {
	if c.TotalWeeks <= 0 {
		return &ConfigError{Field: "total_weeks", Reason: "plan duration must be positive"}
	}
	if len(c.Days) == 0 {
		return &ConfigError{Field: "days", Reason: "no available training days"}
	}
	if c.StartDate.IsZero() {
		return &ConfigError{Field: "start_date", Reason: "start date is required"}
	}
	return nil
}

// GoalDistanceKm resolves the goal race distance in kilometers.
func (c *Config) GoalDistanceKm() float64 {
	if c.GoalKm > 0 {
		return c.GoalKm
	}
	switch c.Goal {
	case "5k":
		return analysis.Distance5K / 1000
	case "10k":
		return analysis.Distance10K / 1000
	case "half":
		return analysis.DistanceHalfMara / 1000
	case "marathon":
		return analysis.DistanceMarathon / 1000
	}
	return 0
}

// IncreaseRate returns the weekly volume ramp for an experience level.
func IncreaseRate(level string) float64 {
	switch level {
	case "beginner":
		return 0.05
	case "advanced":
		return 0.10
	default:
		return 0.08
	}
}
