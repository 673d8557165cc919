package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Athlete AthleteConfig `json:"athlete"`
	Plan    PlanConfig    `json:"plan"`
	Display DisplayConfig `json:"display"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	Name      string  `json:"name"`
	RestingHR float64 `json:"resting_hr"`
	MaxHR     float64 `json:"max_hr"`
	// ThresholdPace is seconds per kilometer at lactate threshold.
	// Zero means derive it from the run history instead.
	ThresholdPace float64 `json:"threshold_pace"`
}

// PlanConfig holds defaults applied when building a new training plan
type PlanConfig struct {
	Methodology   string   `json:"methodology"`
	GoalRace      string   `json:"goal_race"`
	TotalWeeks    int      `json:"total_weeks"`
	AvailableDays []string `json:"available_days"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
	PaceUnit     string `json:"pace_unit"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			RestingHR: 50,
			MaxHR:     185,
		},
		Plan: PlanConfig{
			Methodology:   "daniels",
			GoalRace:      "10k",
			TotalWeeks:    12,
			AvailableDays: []string{"monday", "wednesday", "thursday", "saturday", "sunday"},
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
			PaceUnit:     "min/km",
		},
	}
}

// Load reads the configuration from ~/.pacemaker/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Athlete.RestingHR == 0 {
		cfg.Athlete.RestingHR = defaults.Athlete.RestingHR
	}
	if cfg.Athlete.MaxHR == 0 {
		cfg.Athlete.MaxHR = defaults.Athlete.MaxHR
	}
	if cfg.Plan.Methodology == "" {
		cfg.Plan.Methodology = defaults.Plan.Methodology
	}
	if cfg.Plan.GoalRace == "" {
		cfg.Plan.GoalRace = defaults.Plan.GoalRace
	}
	if cfg.Plan.TotalWeeks == 0 {
		cfg.Plan.TotalWeeks = defaults.Plan.TotalWeeks
	}
	if len(cfg.Plan.AvailableDays) == 0 {
		cfg.Plan.AvailableDays = defaults.Plan.AvailableDays
	}
	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if cfg.Display.PaceUnit == "" {
		cfg.Display.PaceUnit = defaults.Display.PaceUnit
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.pacemaker/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	return Save(&example)
}

// Validate checks that the config values are usable
func (c *Config) Validate() error {
	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}

	// Validate resting_hr < max_hr when both are set
	if c.Athlete.RestingHR > 0 && c.Athlete.MaxHR > 0 && c.Athlete.RestingHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.resting_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.RestingHR, c.Athlete.MaxHR)
	}

	// A threshold pace outside this range is almost certainly a typo
	if c.Athlete.ThresholdPace != 0 && (c.Athlete.ThresholdPace < 120 || c.Athlete.ThresholdPace > 900) {
		return fmt.Errorf("athlete.threshold_pace (%v) must be between 120 and 900 seconds per kilometer", c.Athlete.ThresholdPace)
	}

	if c.Plan.Methodology != "" && !validMethodology(c.Plan.Methodology) {
		return fmt.Errorf("plan.methodology must be one of \"daniels\", \"lydiard\", \"pfitzinger\" or \"custom\", got %q", c.Plan.Methodology)
	}
	if c.Plan.GoalRace != "" && !validGoalRace(c.Plan.GoalRace) {
		return fmt.Errorf("plan.goal_race must be one of \"5k\", \"10k\", \"half\", \"marathon\" or \"custom\", got %q", c.Plan.GoalRace)
	}
	if c.Plan.TotalWeeks < 0 {
		return fmt.Errorf("plan.total_weeks must not be negative, got %d", c.Plan.TotalWeeks)
	}
	for _, day := range c.Plan.AvailableDays {
		if _, err := parseWeekday(day); err != nil {
			return fmt.Errorf("plan.available_days: %w", err)
		}
	}

	return nil
}

// AvailableWeekdays converts the configured day names into weekdays,
// preserving order.
func (c *Config) AvailableWeekdays() ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(c.Plan.AvailableDays))
	for _, name := range c.Plan.AvailableDays {
		day, err := parseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

func validMethodology(key string) bool {
	switch key {
	case "daniels", "lydiard", "pfitzinger", "custom":
		return true
	}
	return false
}

func validGoalRace(goal string) bool {
	switch goal {
	case "5k", "10k", "half", "marathon", "custom":
		return true
	}
	return false
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	case "sunday", "sun":
		return time.Sunday, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".pacemaker", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".pacemaker"), nil
}
