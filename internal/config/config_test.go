package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test athlete defaults
	if cfg.Athlete.RestingHR != 50 {
		t.Errorf("Athlete.RestingHR = %v, want 50", cfg.Athlete.RestingHR)
	}
	if cfg.Athlete.MaxHR != 185 {
		t.Errorf("Athlete.MaxHR = %v, want 185", cfg.Athlete.MaxHR)
	}
	if cfg.Athlete.ThresholdPace != 0 {
		t.Errorf("Athlete.ThresholdPace should be 0 (derived), got %v", cfg.Athlete.ThresholdPace)
	}

	// Test plan defaults
	if cfg.Plan.Methodology != "daniels" {
		t.Errorf("Plan.Methodology = %q, want %q", cfg.Plan.Methodology, "daniels")
	}
	if cfg.Plan.GoalRace != "10k" {
		t.Errorf("Plan.GoalRace = %q, want %q", cfg.Plan.GoalRace, "10k")
	}
	if cfg.Plan.TotalWeeks != 12 {
		t.Errorf("Plan.TotalWeeks = %d, want 12", cfg.Plan.TotalWeeks)
	}
	if len(cfg.Plan.AvailableDays) != 5 {
		t.Errorf("Plan.AvailableDays has %d entries, want 5", len(cfg.Plan.AvailableDays))
	}

	// Test display defaults
	if cfg.Display.DistanceUnit != "km" {
		t.Errorf("Display.DistanceUnit = %q, want %q", cfg.Display.DistanceUnit, "km")
	}
	if cfg.Display.PaceUnit != "min/km" {
		t.Errorf("Display.PaceUnit = %q, want %q", cfg.Display.PaceUnit, "min/km")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errContains string
	}{
		{
			name:        "zero config is valid",
			config:      Config{},
			expectError: false,
		},
		{
			name: "bad distance unit",
			config: Config{
				Display: DisplayConfig{DistanceUnit: "furlongs"},
			},
			expectError: true,
			errContains: "distance_unit",
		},
		{
			name: "bad pace unit",
			config: Config{
				Display: DisplayConfig{PaceUnit: "kph"},
			},
			expectError: true,
			errContains: "pace_unit",
		},
		{
			name: "resting above max",
			config: Config{
				Athlete: AthleteConfig{RestingHR: 190, MaxHR: 185},
			},
			expectError: true,
			errContains: "resting_hr",
		},
		{
			name: "implausible threshold pace",
			config: Config{
				Athlete: AthleteConfig{ThresholdPace: 30},
			},
			expectError: true,
			errContains: "threshold_pace",
		},
		{
			name: "plausible threshold pace",
			config: Config{
				Athlete: AthleteConfig{ThresholdPace: 280},
			},
			expectError: false,
		},
		{
			name: "unknown methodology",
			config: Config{
				Plan: PlanConfig{Methodology: "galloway"},
			},
			expectError: true,
			errContains: "methodology",
		},
		{
			name: "unknown goal race",
			config: Config{
				Plan: PlanConfig{GoalRace: "ultra"},
			},
			expectError: true,
			errContains: "goal_race",
		},
		{
			name: "negative weeks",
			config: Config{
				Plan: PlanConfig{TotalWeeks: -4},
			},
			expectError: true,
			errContains: "total_weeks",
		},
		{
			name: "unknown weekday",
			config: Config{
				Plan: PlanConfig{AvailableDays: []string{"monday", "someday"}},
			},
			expectError: true,
			errContains: "someday",
		},
		{
			name: "abbreviated weekdays",
			config: Config{
				Plan: PlanConfig{AvailableDays: []string{"mon", "wed", "sat"}},
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestAvailableWeekdays(t *testing.T) {
	cfg := DefaultConfig()
	days, err := cfg.AvailableWeekdays()
	if err != nil {
		t.Fatalf("AvailableWeekdays: %v", err)
	}
	want := []time.Weekday{time.Monday, time.Wednesday, time.Thursday, time.Saturday, time.Sunday}
	if len(days) != len(want) {
		t.Fatalf("got %d days, want %d", len(days), len(want))
	}
	for i, day := range days {
		if day != want[i] {
			t.Errorf("days[%d] = %v, want %v", i, day, want[i])
		}
	}

	cfg.Plan.AvailableDays = []string{"SATURDAY", " sunday "}
	days, err = cfg.AvailableWeekdays()
	if err != nil {
		t.Fatalf("AvailableWeekdays with mixed case: %v", err)
	}
	if days[0] != time.Saturday || days[1] != time.Sunday {
		t.Errorf("mixed case days = %v, want [Saturday Sunday]", days)
	}

	cfg.Plan.AvailableDays = []string{"blursday"}
	if _, err := cfg.AvailableWeekdays(); err == nil {
		t.Error("expected error for unknown weekday, got nil")
	}
}

func TestConfigTypes(t *testing.T) {
	// Test that config structs can be properly instantiated
	cfg := Config{
		Athlete: AthleteConfig{
			Name:          "Test Runner",
			RestingHR:     55,
			MaxHR:         190,
			ThresholdPace: 290,
		},
		Plan: PlanConfig{
			Methodology:   "lydiard",
			GoalRace:      "marathon",
			TotalWeeks:    16,
			AvailableDays: []string{"tuesday", "thursday", "saturday", "sunday"},
		},
		Display: DisplayConfig{
			DistanceUnit: "mi",
			PaceUnit:     "min/mi",
		},
	}

	if cfg.Athlete.Name != "Test Runner" {
		t.Error("AthleteConfig.Name not set correctly")
	}
	if cfg.Plan.Methodology != "lydiard" {
		t.Error("PlanConfig.Methodology not set correctly")
	}
	if cfg.Display.DistanceUnit != "mi" {
		t.Error("DisplayConfig.DistanceUnit not set correctly")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("fully populated config should validate, got %v", err)
	}
}
