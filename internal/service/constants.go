package service

const (
	// Chart windows
	ChartWeeks      = 12 // weekly volume buckets, current week last
	LoadHistoryDays = 90 // load-ratio history span

	// Dashboard windows
	UpcomingWindowDays = 7 // days ahead scanned for scheduled workouts
	RecentRunsLimit    = 5
)
