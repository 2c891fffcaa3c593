package util

import (
	"fmt"
	"math"
	"time"
)

// FormatListenTime renders listening seconds as "45s" or "12m 5s".
func FormatListenTime(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// FormatClock renders a playback position as m:ss. Minutes are not wrapped
// into hours; negative or non-finite positions render as 0:00.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatPosition is FormatClock for a duration.
func FormatPosition(d time.Duration) string {
	return FormatClock(d.Seconds())
}

// FormatDuration renders long totals as "3h 20m" or "20m".
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatMillis renders a caption timestamp as hh:mm:ss,mmm. Untimed (negative)
// values render as "--".
func FormatMillis(ms int64) string {
	if ms < 0 {
		return "--"
	}
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}
