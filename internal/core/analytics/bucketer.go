package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/core/calendar"
	"github.com/penwyp/go-lecture-monitor/internal/core/constants"
)

// View selects the chart granularity.
type View string

const (
	ViewWeek  View = "week"
	ViewMonth View = "month"
	ViewYear  View = "year"
)

// Views lists every supported view in display order.
var Views = []View{ViewWeek, ViewMonth, ViewYear}

// ParseView accepts week, month or year in any case.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewWeek, ViewMonth, ViewYear:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q (want week, month or year)", s)
	}
}

// Buckets returns the fixed bucket count of the view.
func (v View) Buckets() int {
	switch v {
	case ViewWeek:
		return constants.WeekBuckets
	case ViewMonth:
		return constants.MonthBuckets
	case ViewYear:
		return constants.YearBuckets
	}
	return 0
}

// Point is one chart bucket. Key is the day or month key it covers.
type Point struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	SubLabel string `json:"subLabel,omitempty"`
	Seconds  int    `json:"seconds"`
}

var dayAbbr = [...]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// BuildSeries buckets daily totals for view, oldest first. The calendar day
// of now, in now's location, is the last bucket. Missing days count as zero.
func BuildSeries(view View, daily map[string]int, now time.Time) ([]Point, error) {
	today := calendar.DayOf(now)
	switch view {
	case ViewWeek:
		return weekSeries(daily, today), nil
	case ViewMonth:
		return monthSeries(daily, today), nil
	case ViewYear:
		return yearSeries(daily, today), nil
	default:
		return nil, fmt.Errorf("unknown view %q", view)
	}
}

func weekSeries(daily map[string]int, today calendar.Day) []Point {
	points := make([]Point, 0, constants.WeekBuckets)
	for i := constants.WeekBuckets - 1; i >= 0; i-- {
		d := today.AddDays(-i)
		key := d.Key()
		points = append(points, Point{
			Key:      key,
			Label:    dayAbbr[d.Weekday()],
			SubLabel: strconv.Itoa(d.Day),
			Seconds:  daily[key],
		})
	}
	return points
}

func monthSeries(daily map[string]int, today calendar.Day) []Point {
	points := make([]Point, 0, constants.MonthBuckets)
	for i := 0; i < constants.MonthBuckets; i++ {
		d := today.AddDays(i - (constants.MonthBuckets - 1))
		key := d.Key()
		p := Point{Key: key, Seconds: daily[key]}
		if i%constants.MonthLabelEvery == 0 {
			p.Label = strconv.Itoa(d.Day)
		}
		points = append(points, p)
	}
	return points
}

func yearSeries(daily map[string]int, today calendar.Day) []Point {
	current := calendar.MonthOf(today)
	first := current.AddMonths(-(constants.YearBuckets - 1))

	points := make([]Point, constants.YearBuckets)
	index := make(map[string]int, constants.YearBuckets)
	for i := range points {
		m := first.AddMonths(i)
		points[i] = Point{Key: m.Key(), Label: m.Month.String()[:3]}
		index[m.Key()] = i
	}

	for key, seconds := range daily {
		d, err := calendar.ParseDay(key)
		if err != nil {
			continue
		}
		if i, ok := index[calendar.MonthOf(d).Key()]; ok {
			points[i].Seconds += seconds
		}
	}
	return points
}

// TotalSeconds sums every recorded day.
func TotalSeconds(daily map[string]int) int {
	total := 0
	for _, s := range daily {
		total += s
	}
	return total
}

// TodayPercent is progress towards threshold, rounded and capped at 100.
func TodayPercent(todaySeconds, threshold int) int {
	if threshold <= 0 {
		threshold = constants.StreakThreshold
	}
	pct := int(math.Round(float64(todaySeconds) / float64(threshold) * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// MaxSeconds is the largest bucket value, never below 1 so it can scale a chart.
func MaxSeconds(points []Point) int {
	max := 1
	for _, p := range points {
		if p.Seconds > max {
			max = p.Seconds
		}
	}
	return max
}

// YTicks returns ascending minute marks for the chart axis, without duplicates.
func YTicks(points []Point) []int {
	maxMins := int(math.Ceil(float64(MaxSeconds(points)) / 60))
	raw := []int{
		0,
		int(math.Round(float64(maxMins) * 0.33)),
		int(math.Round(float64(maxMins) * 0.66)),
		maxMins,
	}

	ticks := make([]int, 0, len(raw))
	for _, v := range raw {
		if len(ticks) > 0 && ticks[len(ticks)-1] == v {
			continue
		}
		ticks = append(ticks, v)
	}
	return ticks
}
