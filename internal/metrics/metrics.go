package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/penwyp/go-lecture-monitor/internal/core/caption"
	"github.com/penwyp/go-lecture-monitor/internal/core/streak"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lecture_monitor"

// Metrics holds the process counters on a private registry. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	ListeningSeconds prometheus.Counter
	StreakDays       prometheus.Counter
	CaptionEntries   prometheus.Counter
	CaptionDropped   *prometheus.CounterVec
	CaptionReloads   prometheus.Counter
	PlaybackSessions prometheus.Counter
	CurrentStreak    prometheus.Gauge
	LongestStreak    prometheus.Gauge
	TodaySeconds     prometheus.Gauge
}

// New registers every metric on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		ListeningSeconds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listening_seconds_total",
			Help:      "Listening seconds credited to the daily record",
		}),
		StreakDays: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_days_added_total",
			Help:      "Days that crossed the streak threshold",
		}),
		CaptionEntries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "caption_entries_parsed_total",
			Help:      "Caption entries produced by the parser",
		}),
		CaptionDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "caption_blocks_dropped_total",
			Help:      "Caption blocks skipped by the parser, by reason",
		}, []string{"reason"}),
		CaptionReloads: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "caption_reloads_total",
			Help:      "Caption sets republished after a file change",
		}),
		PlaybackSessions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_sessions_total",
			Help:      "Lectures loaded into the player",
		}),
		CurrentStreak: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_streak_days",
			Help:      "Consecutive streak days ending today or yesterday",
		}),
		LongestStreak: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "longest_streak_days",
			Help:      "Longest run of consecutive streak days",
		}),
		TodaySeconds: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "today_listening_seconds",
			Help:      "Seconds listened on the current local day",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// ListeningAdded implements streak.Recorder.
func (m *Metrics) ListeningAdded(seconds int) {
	if m == nil || seconds <= 0 {
		return
	}
	m.ListeningSeconds.Add(float64(seconds))
}

// StreakDayAdded implements streak.Recorder.
func (m *Metrics) StreakDayAdded(string) {
	if m == nil {
		return
	}
	m.StreakDays.Inc()
}

// CaptionsParsed records one parse.
func (m *Metrics) CaptionsParsed(stats caption.ParseStats) {
	if m == nil {
		return
	}
	m.CaptionEntries.Add(float64(stats.Entries))
	for reason, n := range map[string]int{
		"short_block": stats.ShortBlocks,
		"bad_timing":  stats.BadTimings,
		"empty_text":  stats.EmptyTexts,
	} {
		if n > 0 {
			m.CaptionDropped.WithLabelValues(reason).Add(float64(n))
		}
	}
}

// CaptionsReloaded records a hot reload.
func (m *Metrics) CaptionsReloaded() {
	if m == nil {
		return
	}
	m.CaptionReloads.Inc()
}

// SessionStarted records a lecture loaded into the player.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.PlaybackSessions.Inc()
}

// ObserveSummary sets the streak gauges.
func (m *Metrics) ObserveSummary(s streak.Summary) {
	if m == nil {
		return
	}
	m.CurrentStreak.Set(float64(s.CurrentStreak))
	m.LongestStreak.Set(float64(s.LongestStreak))
	m.TodaySeconds.Set(float64(s.TodaySeconds))
}

// WatchStoreFailures exports a gauge read from fn at collection time.
func (m *Metrics) WatchStoreFailures(fn func() int64) {
	if m == nil || fn == nil {
		return
	}
	promauto.With(m.reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_failures",
		Help:      "Durable store operations that failed and fell back to memory",
	}, func() float64 { return float64(fn()) })
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

var _ streak.Recorder = (*Metrics)(nil)
