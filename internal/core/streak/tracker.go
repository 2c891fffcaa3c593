package streak

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-lecture-monitor/internal/core/calendar"
	"github.com/penwyp/go-lecture-monitor/internal/core/constants"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// Store is the durable key-value capability the tracker persists through.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Recorder observes listening activity. Implementations must be cheap.
type Recorder interface {
	ListeningAdded(seconds int)
	StreakDayAdded(day string)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithThreshold overrides the streak threshold in seconds.
func WithThreshold(seconds int) Option {
	return func(t *Tracker) { t.threshold = seconds }
}

// WithRecorder attaches a Recorder.
func WithRecorder(r Recorder) Option {
	return func(t *Tracker) { t.recorder = r }
}

// Tracker owns the daily record and the streak day list. It is the only
// writer of both; the day list is append-only until Clear.
type Tracker struct {
	mu        sync.Mutex
	store     Store
	clock     calendar.Clock
	threshold int
	recorder  Recorder

	acc  *Accumulator
	days []string
}

// NewTracker loads persisted state from store. Unreadable or missing data
// starts empty; store failures are logged and never returned.
func NewTracker(ctx context.Context, store Store, clock calendar.Clock, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		clock:     clock,
		threshold: constants.StreakThreshold,
	}
	for _, opt := range opts {
		opt(t)
	}

	daily := make(DailyRecord)
	if raw, ok := t.load(ctx, constants.DailyListenTimeKey); ok {
		if err := sonic.UnmarshalString(raw, &daily); err != nil {
			util.LogWarnf("Discarding unreadable daily listen record: %v", err)
			daily = make(DailyRecord)
		}
	}
	t.acc = NewAccumulator(clock, t.threshold, daily)

	if raw, ok := t.load(ctx, constants.StreakDaysKey); ok {
		var days []string
		if err := sonic.UnmarshalString(raw, &days); err != nil {
			util.LogWarnf("Discarding unreadable streak days: %v", err)
		} else {
			t.days = dedupe(days)
		}
	}

	util.LogDebugf("Streak tracker loaded: %d days recorded, %d streak days", len(daily), len(t.days))
	return t
}

// AddListeningTime credits seconds to today and reports whether this call
// made today a streak day.
func (t *Tracker) AddListeningTime(ctx context.Context, seconds int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	res, err := t.acc.Add(seconds)
	if err != nil {
		return false, err
	}
	if seconds == 0 {
		return false, nil
	}
	t.persist(ctx, constants.DailyListenTimeKey, t.acc.daily)
	if t.recorder != nil {
		t.recorder.ListeningAdded(seconds)
	}

	if res.CrossedThreshold {
		key := res.Day.Key()
		if t.addDay(key) {
			t.persist(ctx, constants.StreakDaysKey, t.days)
			if t.recorder != nil {
				t.recorder.StreakDayAdded(key)
			}
			util.LogInfof("Streak day reached: %s (%ds listened)", key, res.Total)
		}
	}
	return res.CrossedThreshold, nil
}

// Summary computes the streak summary for the current day.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ComputeSummary(t.days, t.acc.daily, calendar.Today(t.clock))
}

// DailyTimes returns a copy of the per-day totals.
func (t *Tracker) DailyTimes() DailyRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.acc.Daily()
}

// StreakDays returns the streak days sorted ascending.
func (t *Tracker) StreakDays() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.days))
	copy(out, t.days)
	sort.Strings(out)
	return out
}

// Threshold returns the streak threshold in seconds.
func (t *Tracker) Threshold() int {
	return t.acc.Threshold()
}

// Clear removes all listening data, in memory and in the store.
func (t *Tracker) Clear(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.acc.Reset()
	t.days = nil
	for _, key := range []string{constants.DailyListenTimeKey, constants.StreakDaysKey} {
		if err := t.store.Remove(ctx, key); err != nil {
			util.LogWarnf("Failed to remove %s: %v", key, err)
		}
	}
	util.LogInfo("Listening data cleared")
}

func (t *Tracker) addDay(key string) bool {
	for _, d := range t.days {
		if d == key {
			return false
		}
	}
	t.days = append(t.days, key)
	return true
}

func (t *Tracker) load(ctx context.Context, key string) (string, bool) {
	raw, ok, err := t.store.Get(ctx, key)
	if err != nil {
		util.LogWarnf("Failed to read %s, continuing in memory: %v", key, err)
		return "", false
	}
	return raw, ok
}

func (t *Tracker) persist(ctx context.Context, key string, v any) {
	data, err := sonic.MarshalString(v)
	if err != nil {
		util.LogWarn(fmt.Sprintf("Failed to encode %s: %v", key, err))
		return
	}
	if err := t.store.Set(ctx, key, data); err != nil {
		util.LogWarnf("Failed to persist %s, continuing in memory: %v", key, err)
	}
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
