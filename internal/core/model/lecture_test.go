package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlaceString(t *testing.T) {
	tests := []struct {
		name  string
		place *Place
		want  string
	}{
		{"nil", nil, ""},
		{"city and country", &Place{City: "Kyoto", Country: "Japan"}, "Kyoto, Japan"},
		{"city only", &Place{City: "Kyoto"}, "Kyoto"},
		{"country only", &Place{Country: "Japan"}, "Japan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.place.String())
		})
	}
}

func TestLectureCaptionsPreferTimed(t *testing.T) {
	l := &Lecture{
		Transcript:    "plain line",
		TranscriptSRT: "1\n00:00:01,000 --> 00:00:02,000\nTimed line\n",
	}
	assert.True(t, l.HasTimedCaptions())

	set, stats := l.CaptionsWithStats()
	assert.True(t, set.Timed)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 1, stats.Entries)

	l.TranscriptSRT = "   "
	set, stats = l.CaptionsWithStats()
	assert.False(t, set.Timed)
	assert.Equal(t, "plain line", set.Entries[0].Text)
	assert.Zero(t, stats.Blocks)
}

func TestLectureStartPosition(t *testing.T) {
	assert.Equal(t, time.Duration(0), (&Lecture{StartTime: -3}).StartPosition())
	assert.Equal(t, 90*time.Second+500*time.Millisecond, (&Lecture{StartTime: 90.5}).StartPosition())
}

func TestHistoryItemOf(t *testing.T) {
	played := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	l := &Lecture{ID: 4, Title: "Mind", Speaker: "A", Transcript: "ignored", Category: []string{"talk"}}

	item := HistoryItemOf(l, played)
	assert.Equal(t, HistoryItem{
		ID:       4,
		Title:    "Mind",
		Speaker:  "A",
		Category: []string{"talk"},
		PlayedAt: played.UnixMilli(),
	}, item)
}
