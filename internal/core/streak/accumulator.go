package streak

import (
	"errors"
	"fmt"

	"github.com/penwyp/go-lecture-monitor/internal/core/calendar"
	"github.com/penwyp/go-lecture-monitor/internal/core/constants"
)

// ErrNegativeSeconds means the playback source reported negative listening time.
var ErrNegativeSeconds = errors.New("streak: listening seconds must be non-negative")

// DailyRecord maps a day key (YYYY-MM-DD) to the seconds listened that day.
type DailyRecord map[string]int

// Clone returns an independent copy of r.
func (r DailyRecord) Clone() DailyRecord {
	out := make(DailyRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Total returns the sum over all days.
func (r DailyRecord) Total() int {
	total := 0
	for _, v := range r {
		total += v
	}
	return total
}

// AddResult is the outcome of one Add call.
type AddResult struct {
	Day              calendar.Day
	Previous         int
	Total            int
	CrossedThreshold bool
}

// CrossedThreshold reports whether moving from oldTotal to newTotal reached
// threshold for the first time.
func CrossedThreshold(oldTotal, newTotal, threshold int) bool {
	return oldTotal < threshold && threshold <= newTotal
}

// Accumulator adds listening seconds to the current calendar day.
type Accumulator struct {
	clock     calendar.Clock
	threshold int
	daily     DailyRecord
}

// NewAccumulator creates an Accumulator starting from initial, which is copied.
// A threshold <= 0 selects constants.StreakThreshold.
func NewAccumulator(clock calendar.Clock, threshold int, initial DailyRecord) *Accumulator {
	if threshold <= 0 {
		threshold = constants.StreakThreshold
	}
	daily := initial.Clone()
	return &Accumulator{
		clock:     clock,
		threshold: threshold,
		daily:     daily,
	}
}

// Threshold returns the streak threshold in seconds.
func (a *Accumulator) Threshold() int {
	return a.threshold
}

// Add credits seconds to today. Zero seconds is a no-op.
func (a *Accumulator) Add(seconds int) (AddResult, error) {
	today := calendar.Today(a.clock)
	if seconds < 0 {
		return AddResult{Day: today}, fmt.Errorf("%w: got %d", ErrNegativeSeconds, seconds)
	}

	key := today.Key()
	previous := a.daily[key]
	total := previous + seconds
	if seconds > 0 {
		a.daily[key] = total
	}

	return AddResult{
		Day:              today,
		Previous:         previous,
		Total:            total,
		CrossedThreshold: CrossedThreshold(previous, total, a.threshold),
	}, nil
}

// TotalFor returns the seconds recorded for day.
func (a *Accumulator) TotalFor(day calendar.Day) int {
	return a.daily[day.Key()]
}

// Daily returns a copy of the per-day totals.
func (a *Accumulator) Daily() DailyRecord {
	return a.daily.Clone()
}

// Reset forgets every recorded day.
func (a *Accumulator) Reset() {
	a.daily = make(DailyRecord)
}
