package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-lecture-monitor/internal/core/analytics"
	"github.com/penwyp/go-lecture-monitor/internal/core/streak"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// StreakPanel is the listening overview: streak summary plus a chart.
type StreakPanel struct {
	Summary      streak.Summary
	Threshold    int
	TotalSeconds int
	View         analytics.View
	Points       []analytics.Point
}

// RenderStreakPanel writes the panel as text. Chart bars are horizontal,
// scaled to the top y-axis tick.
func RenderStreakPanel(w io.Writer, panel StreakPanel, width int) error {
	pct := analytics.TodayPercent(panel.Summary.TodaySeconds, panel.Threshold)

	lines := []string{
		util.FormatOverviewTitle("Listening streak"),
		fmt.Sprintf("  Current streak   %d day(s)", panel.Summary.CurrentStreak),
		fmt.Sprintf("  Longest streak   %d day(s)", panel.Summary.LongestStreak),
		fmt.Sprintf("  Streak days      %d", panel.Summary.TotalDays),
		fmt.Sprintf("  Total listened   %s", util.FormatListenTime(panel.TotalSeconds)),
		fmt.Sprintf("  Today            %s / %s %s%s%s %d%%",
			util.FormatListenTime(panel.Summary.TodaySeconds),
			util.FormatListenTime(panel.Threshold),
			util.ProgressColor(float64(pct)),
			util.CreateProgressBar(float64(pct), 20),
			util.ColorReset,
			pct),
	}
	if len(panel.Points) > 0 {
		lines = append(lines, "")
		lines = append(lines, RenderChart(panel.View, panel.Points, width)...)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderChart draws one row per bucket and a minute axis from
// analytics.YTicks underneath.
func RenderChart(view analytics.View, points []analytics.Point, width int) []string {
	ticks := analytics.YTicks(points)
	scaleMins := ticks[len(ticks)-1]
	if scaleMins < 1 {
		scaleMins = 1
	}
	scaleSecs := float64(scaleMins * 60)

	const labelWidth = 8
	const valueWidth = 9
	barWidth := width - labelWidth - valueWidth - 2
	if barWidth < 10 {
		barWidth = 10
	}

	lines := []string{util.FormatDataTitle(fmt.Sprintf("Listening by %s", chartUnit(view)))}
	for _, p := range points {
		label := p.Label
		if p.SubLabel != "" {
			label = fmt.Sprintf("%s %s", p.Label, p.SubLabel)
		}
		filled := int(float64(p.Seconds) / scaleSecs * float64(barWidth))
		if p.Seconds > 0 && filled == 0 {
			filled = 1
		}
		if filled > barWidth {
			filled = barWidth
		}
		lines = append(lines, fmt.Sprintf("%s %s%s %s",
			util.PadRight(label, labelWidth),
			strings.Repeat("█", filled),
			strings.Repeat(" ", barWidth-filled),
			util.FormatListenTime(p.Seconds)))
	}
	lines = append(lines, strings.Repeat(" ", labelWidth+1)+axis(ticks, scaleMins, barWidth))
	return lines
}

// axis places each tick label at its proportional column.
func axis(ticks []int, scaleMins, barWidth int) string {
	cells := []rune(strings.Repeat(" ", barWidth+8))
	for _, t := range ticks {
		col := int(float64(t) / float64(scaleMins) * float64(barWidth-1))
		label := fmt.Sprintf("%dm", t)
		if col+len(label) > len(cells) {
			col = len(cells) - len(label)
		}
		for i, r := range label {
			cells[col+i] = r
		}
	}
	return strings.TrimRight(string(cells), " ")
}

func chartUnit(view analytics.View) string {
	if view == analytics.ViewYear {
		return "month"
	}
	return "day"
}
