package streak

import (
	"sort"

	"github.com/penwyp/go-lecture-monitor/internal/core/calendar"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// Summary is derived from the streak days, the daily record and today.
type Summary struct {
	CurrentStreak int  `json:"currentStreak"`
	LongestStreak int  `json:"longestStreak"`
	TotalDays     int  `json:"totalDays"`
	ListenedToday bool `json:"listenedToday"`
	TodaySeconds  int  `json:"todaySeconds"`
}

// ComputeSummary derives streak statistics. Day keys that do not parse are
// ignored; duplicates count once.
func ComputeSummary(days []string, daily DailyRecord, today calendar.Day) Summary {
	unique := uniqueDays(days)

	summary := Summary{
		TotalDays:    len(unique),
		TodaySeconds: daily[today.Key()],
	}
	if len(unique) == 0 {
		return summary
	}

	summary.CurrentStreak = currentStreak(unique, today)
	summary.LongestStreak = longestStreak(unique)
	for _, d := range unique {
		if d == today {
			summary.ListenedToday = true
			break
		}
	}
	return summary
}

// uniqueDays parses, deduplicates and sorts ascending.
func uniqueDays(keys []string) []calendar.Day {
	seen := make(map[calendar.Day]struct{}, len(keys))
	out := make([]calendar.Day, 0, len(keys))
	for _, key := range keys {
		d, err := calendar.ParseDay(key)
		if err != nil {
			util.LogDebugf("Ignoring streak day %q: %v", key, err)
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})
	return out
}

// currentStreak walks back from the most recent day. The streak is alive only
// if that day is today or yesterday.
func currentStreak(asc []calendar.Day, today calendar.Day) int {
	latest := asc[len(asc)-1]
	if gap := calendar.DaysBetween(latest, today); gap != 0 && gap != 1 {
		return 0
	}

	count := 1
	for i := len(asc) - 1; i > 0; i-- {
		if calendar.DaysBetween(asc[i-1], asc[i]) != 1 {
			break
		}
		count++
	}
	return count
}

func longestStreak(asc []calendar.Day) int {
	longest, run := 1, 1
	for i := 1; i < len(asc); i++ {
		if calendar.DaysBetween(asc[i-1], asc[i]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}
