package streak

import (
	"testing"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/core/calendar"
	"github.com/stretchr/testify/assert"
)

func day(t *testing.T, key string) calendar.Day {
	t.Helper()
	d, err := calendar.ParseDay(key)
	if err != nil {
		t.Fatalf("bad day %q: %v", key, err)
	}
	return d
}

func TestComputeSummaryScenarios(t *testing.T) {
	tests := []struct {
		name  string
		days  []string
		daily DailyRecord
		today string
		want  Summary
	}{
		{
			name:  "empty",
			today: "2024-01-03",
			want:  Summary{},
		},
		{
			name:  "three consecutive ending today",
			days:  []string{"2024-01-01", "2024-01-02", "2024-01-03"},
			daily: DailyRecord{"2024-01-03": 700},
			today: "2024-01-03",
			want:  Summary{CurrentStreak: 3, LongestStreak: 3, TotalDays: 3, ListenedToday: true, TodaySeconds: 700},
		},
		{
			name:  "gap broke the current streak",
			days:  []string{"2024-01-01", "2024-01-05"},
			today: "2024-01-07",
			want:  Summary{CurrentStreak: 0, LongestStreak: 1, TotalDays: 2},
		},
		{
			name:  "streak alive through yesterday",
			days:  []string{"2024-01-05", "2024-01-06"},
			daily: DailyRecord{"2024-01-07": 120},
			today: "2024-01-07",
			want:  Summary{CurrentStreak: 2, LongestStreak: 2, TotalDays: 2, TodaySeconds: 120},
		},
		{
			name:  "longest is older than current",
			days:  []string{"2023-12-01", "2023-12-02", "2023-12-03", "2023-12-04", "2024-01-06", "2024-01-07"},
			today: "2024-01-07",
			want:  Summary{CurrentStreak: 2, LongestStreak: 4, TotalDays: 6, ListenedToday: true},
		},
		{
			name:  "duplicates and unsorted input",
			days:  []string{"2024-01-03", "2024-01-01", "2024-01-03", "2024-01-02"},
			today: "2024-01-04",
			want:  Summary{CurrentStreak: 3, LongestStreak: 3, TotalDays: 3},
		},
		{
			name:  "invalid keys ignored",
			days:  []string{"nonsense", "2024-01-03"},
			today: "2024-01-03",
			want:  Summary{CurrentStreak: 1, LongestStreak: 1, TotalDays: 1, ListenedToday: true},
		},
		{
			name:  "month and year boundaries",
			days:  []string{"2023-12-30", "2023-12-31", "2024-01-01"},
			today: "2024-01-02",
			want:  Summary{CurrentStreak: 3, LongestStreak: 3, TotalDays: 3},
		},
		{
			name:  "today seconds without qualifying",
			daily: DailyRecord{"2024-01-03": 599},
			today: "2024-01-03",
			want:  Summary{TodaySeconds: 599},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSummary(tt.days, tt.daily, day(t, tt.today))
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.LongestStreak, got.CurrentStreak)
		})
	}
}

func TestComputeSummaryDSTSafe(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone data unavailable")
	}
	// Spans the spring-forward night of 2024-03-10.
	days := []string{"2024-03-09", "2024-03-10", "2024-03-11"}
	today := calendar.DayOf(time.Date(2024, 3, 11, 0, 30, 0, 0, ny))

	got := ComputeSummary(days, nil, today)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
}

func TestComputeSummaryZeroIffEmpty(t *testing.T) {
	today := day(t, "2024-06-01")
	for _, days := range [][]string{{"2020-01-01"}, {"2024-05-31"}, {"2024-06-01", "2019-01-01"}} {
		got := ComputeSummary(days, nil, today)
		assert.Positive(t, got.LongestStreak)
	}
	got := ComputeSummary(nil, nil, today)
	assert.Zero(t, got.LongestStreak)
	assert.Zero(t, got.CurrentStreak)
	assert.False(t, got.ListenedToday)
}
