package calendar

import (
	"fmt"
	"time"
)

// KeyLayout is the layout of a day key (YYYY-MM-DD).
const KeyLayout = "2006-01-02"

// MonthKeyLayout is the layout of a month key (YYYY-MM).
const MonthKeyLayout = "2006-01"

// Clock supplies the current instant. The location of the returned time
// decides which calendar day "today" is.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// FixedClock always reports the same instant.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Day is a date without a time of day or a location.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Today returns the current calendar day according to clock.
func Today(clock Clock) Day {
	return DayOf(clock.Now())
}

// ParseDay parses a YYYY-MM-DD key.
func ParseDay(key string) (Day, error) {
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return DayOf(t), nil
}

// Key renders the day as YYYY-MM-DD.
func (d Day) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Day) String() string {
	return d.Key()
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// utc anchors the day at midnight UTC, where every day is exactly 24h long.
func (d Day) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Number returns the count of days since the Unix epoch.
func (d Day) Number() int64 {
	return d.utc().Unix() / 86400
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.utc().AddDate(0, 0, n))
}

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday {
	return d.utc().Weekday()
}

// In returns midnight of d in loc.
func (d Day) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Day) Before(o Day) bool { return d.Number() < o.Number() }
func (d Day) After(o Day) bool  { return d.Number() > o.Number() }

// DaysBetween returns b minus a in whole calendar days.
func DaysBetween(a, b Day) int {
	return int(b.Number() - a.Number())
}

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d Day) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Key renders the month as YYYY-MM.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// AddMonths returns the month n months after m.
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether d falls within m.
func (m Month) Contains(d Day) bool {
	return d.Year == m.Year && d.Month == m.Month
}
