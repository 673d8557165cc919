package store

import "time"

// Run represents a completed run imported from a training log
type Run struct {
	ID             int64     `db:"id"`
	Date           time.Time `db:"date"`
	DistanceM      float64   `db:"distance_m"`       // meters
	DurationSec    int       `db:"duration_sec"`     // seconds
	AvgPaceSecKm   float64   `db:"avg_pace_sec_km"`  // seconds per km
	AvgHeartrate   *float64  `db:"avg_heartrate"`    // nullable
	ElevationGainM float64   `db:"elevation_gain_m"`
	Effort         int       `db:"effort"` // RPE 1-10, 0 when unreported
	IsRace         bool      `db:"is_race"`
	Notes          string    `db:"notes"`
}

// Plan is the stored header for a generated training plan
type Plan struct {
	ID           string    `db:"id"` // uuid
	Name         string    `db:"name"`
	Methodology  string    `db:"methodology"` // "daniels", "lydiard", "pfitzinger", "custom"
	GoalRace     string    `db:"goal_race"`   // "5k", "10k", "half", "marathon"
	RaceDate     time.Time `db:"race_date"`   // date only
	StartDate    time.Time `db:"start_date"`  // date only, first Monday of the plan
	TotalWeeks   int       `db:"total_weeks"`
	ConfigJSON   string    `db:"config_json"`   // serialized plan.Config used to build it
	WarningsJSON string    `db:"warnings_json"` // serialized []string of build warnings
	CreatedAt    time.Time `db:"created_at"`
}

// PlanBlock is a stored periodization block within a plan
type PlanBlock struct {
	PlanID    string  `db:"plan_id"`
	Seq       int     `db:"seq"`        // 0-based order within the plan
	Phase     string  `db:"phase"`      // "base", "build", "peak", "taper", "recovery"
	StartWeek int     `db:"start_week"` // 1-based week index within the plan
	Weeks     int     `db:"weeks"`
	VolumeKm  float64 `db:"volume_km"` // total planned volume across the block
	Focus     string  `db:"focus"`
}

// PlanWorkout is a stored scheduled workout
type PlanWorkout struct {
	ID           string    `db:"id"` // uuid
	PlanID       string    `db:"plan_id"`
	Week         int       `db:"week"` // 1-based
	Day          int       `db:"day"`  // 0=Monday .. 6=Sunday
	Date         time.Time `db:"date"` // date only
	Type         string    `db:"type"` // "easy", "steady", "long", "tempo", "interval", "recovery", "rest", "race"
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	DistanceKm   float64   `db:"distance_km"`
	DurationMin  float64   `db:"duration_min"`
	Intensity    int       `db:"intensity"` // percent of max effort, 0-100
	SegmentsJSON string    `db:"segments_json"`
	Status       string    `db:"status"`      // "scheduled", "completed", "skipped"
	ModifiedBy   string    `db:"modified_by"` // modification type that last touched it, "" if untouched
}

// WorkoutReport records how a scheduled workout actually went
type WorkoutReport struct {
	ID                int64     `db:"id"`
	WorkoutID         string    `db:"workout_id"`
	PlanID            string    `db:"plan_id"`
	Date              time.Time `db:"date"` // date only
	Completed         bool      `db:"completed"`
	ActualDistanceKm  float64   `db:"actual_distance_km"`
	ActualDurationMin float64   `db:"actual_duration_min"`
	PerceivedEffort   int       `db:"perceived_effort"` // RPE 1-10
	AvgHeartrate      *float64  `db:"avg_heartrate"`    // nullable
	Feeling           string    `db:"feeling"`          // "strong", "normal", "tired", "exhausted"
	Notes             string    `db:"notes"`
}

// RecoveryMetric is a daily recovery snapshot from a wearable or manual check-in
type RecoveryMetric struct {
	Date         time.Time `db:"date"` // date only, one row per day
	RestingHR    *float64  `db:"resting_hr"`
	HRVMs        *float64  `db:"hrv_ms"` // rMSSD in milliseconds
	SleepHours   *float64  `db:"sleep_hours"`
	SleepQuality int       `db:"sleep_quality"` // 0-10, 0 when unreported
	Soreness     int       `db:"soreness"`      // 0-10
	StressLevel  int       `db:"stress_level"`  // 0-10
	EnergyLevel  int       `db:"energy_level"`  // 0-10
	Motivation   int       `db:"motivation"`    // 0-10
	InjuryFlag   bool      `db:"injury_flag"`
}
