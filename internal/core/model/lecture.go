package model

import (
	"strings"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/core/caption"
)

// Place is where a lecture was given.
type Place struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

func (p *Place) String() string {
	if p == nil {
		return ""
	}
	switch {
	case p.City != "" && p.Country != "":
		return p.City + ", " + p.Country
	case p.City != "":
		return p.City
	default:
		return p.Country
	}
}

// Lecture is one playable recording with its transcript.
type Lecture struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	ThumbnailURL  string   `json:"thumbnailUrl"`
	VideoURL      string   `json:"videoUrl"`
	AudioURL      string   `json:"audioUrl,omitempty"`
	Transcript    string   `json:"transcript"`
	TranscriptSRT string   `json:"transcriptSrt,omitempty"`
	Key           string   `json:"key,omitempty"`
	Date          string   `json:"date,omitempty"`
	Speaker       string   `json:"speaker,omitempty"`
	Place         *Place   `json:"place,omitempty"`
	Category      []string `json:"category,omitempty"`
	// StartTime is the initial playback position in seconds.
	StartTime float64 `json:"startTime,omitempty"`

	// Source is the file the lecture was loaded from.
	Source string `json:"-"`
}

// HasTimedCaptions reports whether a timed subtitle text is attached.
func (l *Lecture) HasTimedCaptions() bool {
	return strings.TrimSpace(l.TranscriptSRT) != ""
}

// Captions parses the attached transcript, preferring timed captions.
func (l *Lecture) Captions() caption.Set {
	return caption.Load(l.TranscriptSRT, l.Transcript)
}

// CaptionsWithStats is Captions plus parse statistics. Stats are zero for
// plain transcripts.
func (l *Lecture) CaptionsWithStats() (caption.Set, caption.ParseStats) {
	if l.HasTimedCaptions() {
		return caption.ParseWithStats(l.TranscriptSRT)
	}
	return caption.ParseTranscript(l.Transcript), caption.ParseStats{}
}

// StartPosition returns StartTime as a duration, never negative.
func (l *Lecture) StartPosition() time.Duration {
	if l.StartTime <= 0 {
		return 0
	}
	return time.Duration(l.StartTime * float64(time.Second))
}

// HistoryItem is the subset of a lecture kept in playback history.
type HistoryItem struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Category     []string `json:"category,omitempty"`
	Date         string   `json:"date,omitempty"`
	Place        *Place   `json:"place,omitempty"`
	Speaker      string   `json:"speaker,omitempty"`
	// PlayedAt is milliseconds since the Unix epoch.
	PlayedAt int64 `json:"playedAt"`
}

// HistoryItemOf copies the history fields of l.
func HistoryItemOf(l *Lecture, playedAt time.Time) HistoryItem {
	return HistoryItem{
		ID:           l.ID,
		Title:        l.Title,
		ThumbnailURL: l.ThumbnailURL,
		Category:     l.Category,
		Date:         l.Date,
		Place:        l.Place,
		Speaker:      l.Speaker,
		PlayedAt:     playedAt.UnixMilli(),
	}
}
