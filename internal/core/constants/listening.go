package constants

import "time"

const (
	// StreakThreshold is the number of seconds a day needs to count as a streak day.
	StreakThreshold = 600

	// ListeningTickInterval is the cadence of listening time accrual while playing.
	ListeningTickInterval = time.Second
	ListeningTickSeconds  = 1

	// Skip step for the player controls
	SkipStep = 10 * time.Second

	// Playback history retention
	HistoryLimit = 50
)

// Durable store keys
const (
	StreakDaysKey      = "bdd_streak_dates"
	DailyListenTimeKey = "bdd_daily_listen_time"
	PlaybackHistoryKey = "bdd_playback_history"
)

// Chart bucket counts per view
const (
	WeekBuckets     = 7
	MonthBuckets    = 30
	YearBuckets     = 12
	MonthLabelEvery = 5
)

// PlaybackSpeeds are the speeds the player cycles through.
var PlaybackSpeeds = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// DefaultSpeedIndex points at 1.0x in PlaybackSpeeds.
const DefaultSpeedIndex = 2

// UntimedLineInterval is how long each line of an untimed transcript stays
// highlighted during playback.
const UntimedLineInterval = 5 * time.Second
