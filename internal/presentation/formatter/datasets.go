package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/core/analytics"
	"github.com/penwyp/go-lecture-monitor/internal/core/caption"
	"github.com/penwyp/go-lecture-monitor/internal/core/model"
	"github.com/penwyp/go-lecture-monitor/internal/core/streak"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// CaptionsDataset lists entries with the active one marked by "*".
func CaptionsDataset(title string, entries []caption.Entry, active int) Dataset {
	ds := Dataset{
		Title:   title,
		Headers: []string{"", "#", "Start", "End", "Text"},
		Align:   []Align{AlignLeft, AlignRight, AlignLeft, AlignLeft, AlignLeft},
		Raw: struct {
			Active  int             `json:"active"`
			Entries []caption.Entry `json:"entries"`
		}{Active: active, Entries: entries},
	}
	for i, e := range entries {
		mark := ""
		if i == active {
			mark = "*"
		}
		ds.Rows = append(ds.Rows, []string{
			mark,
			strconv.Itoa(e.Ordinal),
			util.FormatMillis(e.StartMs),
			util.FormatMillis(e.EndMs),
			strings.ReplaceAll(e.Text, "\n", " "),
		})
	}
	ds.Footer = []string{"", formatNumber(len(entries)), "", "", "entries"}
	return ds
}

// SeriesDataset lists chart buckets with minutes and a total footer.
func SeriesDataset(view analytics.View, points []analytics.Point) Dataset {
	ds := Dataset{
		Title:   fmt.Sprintf("Listening by %s", view),
		Headers: []string{"Bucket", "Label", "Seconds", "Time"},
		Align:   []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
		Raw: struct {
			View   analytics.View    `json:"view"`
			Points []analytics.Point `json:"points"`
		}{View: view, Points: points},
	}
	total := 0
	for _, p := range points {
		label := strings.TrimSpace(p.Label + " " + p.SubLabel)
		ds.Rows = append(ds.Rows, []string{p.Key, label, formatNumber(p.Seconds), util.FormatListenTime(p.Seconds)})
		total += p.Seconds
	}
	ds.Footer = []string{"Total", "", formatNumber(total), util.FormatListenTime(total)}
	return ds
}

// LecturesDataset lists a lecture library.
func LecturesDataset(lectures []*model.Lecture) Dataset {
	ds := Dataset{
		Title:   "Lectures",
		Headers: []string{"ID", "Title", "Speaker", "Date", "Place", "Captions"},
		Align:   []Align{AlignRight},
		Raw:     lectures,
	}
	for _, l := range lectures {
		kind := "none"
		switch {
		case l.HasTimedCaptions():
			kind = "timed"
		case strings.TrimSpace(l.Transcript) != "":
			kind = "text"
		}
		ds.Rows = append(ds.Rows, []string{
			strconv.FormatInt(l.ID, 10), l.Title, l.Speaker, l.Date, l.Place.String(), kind,
		})
	}
	ds.Footer = []string{formatNumber(len(lectures)), "lectures", "", "", "", ""}
	return ds
}

// HistoryDataset lists playback history, newest first, with play times in
// the location of loc.
func HistoryDataset(items []model.HistoryItem, loc *time.Location) Dataset {
	if loc == nil {
		loc = time.Local
	}
	ds := Dataset{
		Title:   "History",
		Headers: []string{"Played", "ID", "Title", "Speaker"},
		Align:   []Align{AlignLeft, AlignRight},
		Raw:     items,
	}
	for _, it := range items {
		played := time.UnixMilli(it.PlayedAt).In(loc).Format("2006-01-02 15:04")
		ds.Rows = append(ds.Rows, []string{played, strconv.FormatInt(it.ID, 10), it.Title, it.Speaker})
	}
	return ds
}

// StreakDataset is a single-row streak report.
func StreakDataset(summary streak.Summary, threshold, totalSeconds int) Dataset {
	pct := analytics.TodayPercent(summary.TodaySeconds, threshold)
	return Dataset{
		Title:   "Listening Streak",
		Headers: []string{"Current streak", "Longest streak", "Streak days", "Today", "Goal", "Total"},
		Align:   []Align{AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
		Rows: [][]string{{
			strconv.Itoa(summary.CurrentStreak),
			strconv.Itoa(summary.LongestStreak),
			strconv.Itoa(summary.TotalDays),
			fmt.Sprintf("%s (%d%%)", util.FormatListenTime(summary.TodaySeconds), pct),
			util.FormatListenTime(threshold),
			util.FormatDuration(time.Duration(totalSeconds) * time.Second),
		}},
		Raw: struct {
			streak.Summary
			Threshold    int `json:"threshold"`
			TodayPercent int `json:"todayPercent"`
			TotalSeconds int `json:"totalSeconds"`
		}{summary, threshold, pct, totalSeconds},
	}
}
