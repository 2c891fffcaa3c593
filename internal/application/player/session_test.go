package player

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/core/caption"
	"github.com/penwyp/go-lecture-monitor/internal/core/model"
	"github.com/penwyp/go-lecture-monitor/internal/metrics"
	"github.com/penwyp/go-lecture-monitor/internal/util"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testSRT = "1\n00:00:00,000 --> 00:00:02,000\nFirst\n\n2\n00:00:02,000 --> 00:00:04,000\nSecond\n\n3\n00:00:04,000 --> 00:00:06,000\nThird\n"

type fakeSink struct {
	mu      sync.Mutex
	seconds int
	crossAt int
}

func (f *fakeSink) AddListeningTime(_ context.Context, seconds int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := f.seconds
	f.seconds += seconds
	return f.crossAt > 0 && before < f.crossAt && f.seconds >= f.crossAt, nil
}

func (f *fakeSink) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seconds
}

type fakeHistory struct {
	mu  sync.Mutex
	ids []int64
}

func (f *fakeHistory) Add(_ context.Context, l *model.Lecture) model.HistoryItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, l.ID)
	return model.HistoryItem{ID: l.ID}
}

func testPlayer(t *testing.T, cfg *PlayerConfig, sink ListeningSink, h HistoryRecorder, m *metrics.Metrics) *Player {
	t.Helper()
	if cfg.LecturePath == "" {
		cfg.LecturePath = "test.srt"
	}
	require.NoError(t, cfg.Validate())
	return NewPlayer(context.Background(), cfg, sink, h, m)
}

func TestPlayerLoadDerivesDurationAndStart(t *testing.T) {
	m := metrics.New()
	hist := &fakeHistory{}
	p := testPlayer(t, &PlayerConfig{}, nil, hist, m)

	s := p.Load(&model.Lecture{ID: 9, TranscriptSRT: testSRT, StartTime: 2.5}, []string{"a.srt"})
	require.NotNil(t, s)
	assert.Len(t, s.ID, 36)
	assert.Equal(t, 6*time.Second, s.Playback.Duration())
	assert.Equal(t, 2500*time.Millisecond, s.Playback.Position())
	assert.Equal(t, 1, s.ActiveIndex())
	assert.Equal(t, []int64{9}, hist.ids)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlaybackSessions))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CaptionEntries))
	assert.False(t, p.TimerRunning())
}

func TestPlayerTimerFollowsPlayState(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sink := &fakeSink{}
	p := testPlayer(t, &PlayerConfig{TickInterval: 2 * time.Millisecond}, sink, nil, nil)
	p.Load(&model.Lecture{ID: 1, TranscriptSRT: testSRT}, nil)

	assert.Equal(t, StatePlaying, p.Toggle())
	assert.True(t, p.TimerRunning())
	assert.Eventually(t, func() bool { return sink.total() >= 2 }, time.Second, time.Millisecond)

	assert.Equal(t, StatePaused, p.Pause())
	assert.False(t, p.TimerRunning())
	paused := sink.total()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, paused, sink.total(), "no accrual while paused")
	assert.Equal(t, int64(paused), p.ListenedSeconds())

	p.Play()
	assert.True(t, p.TimerRunning())
	p.Load(&model.Lecture{ID: 2, Transcript: "one\ntwo"}, nil)
	assert.False(t, p.TimerRunning(), "lecture change tears the timer down")

	p.Play()
	p.Stop()
	assert.False(t, p.TimerRunning())
}

func TestPlayerAdvanceToEndStopsTimer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	p := testPlayer(t, &PlayerConfig{TickInterval: time.Hour, Autoplay: true}, &fakeSink{}, nil, nil)
	p.Load(&model.Lecture{ID: 1, TranscriptSRT: testSRT}, nil)
	assert.True(t, p.TimerRunning())

	assert.True(t, p.Advance(10*time.Second))
	assert.False(t, p.TimerRunning())
	assert.Equal(t, StateEnded, p.Current().Playback.State())
}

func TestPlayerOnStreak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sink := &fakeSink{crossAt: 3}
	p := testPlayer(t, &PlayerConfig{TickInterval: time.Millisecond}, sink, nil, nil)

	fired := make(chan struct{}, 4)
	p.OnStreak = func() { fired <- struct{}{} }
	p.Load(&model.Lecture{ID: 1, Transcript: "x"}, nil)
	p.Play()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("streak callback not called")
	}
	p.Stop()
	assert.Len(t, fired, 0, "crossing reported once")
}

func TestPlayerControlsWithoutSession(t *testing.T) {
	p := testPlayer(t, &PlayerConfig{}, nil, nil, nil)
	assert.Nil(t, p.Current())
	assert.Equal(t, StatePaused, p.Toggle())
	assert.False(t, p.Advance(time.Second))
	assert.False(t, p.ReloadCaptions("missing", &model.Lecture{}))
	assert.False(t, p.TimerRunning())
}

func TestPlayerReloadCaptions(t *testing.T) {
	m := metrics.New()
	p := testPlayer(t, &PlayerConfig{}, nil, nil, m)
	s := p.Load(&model.Lecture{ID: 1, TranscriptSRT: testSRT}, nil)

	assert.False(t, p.ReloadCaptions("other-session", &model.Lecture{Transcript: "x"}))
	assert.True(t, p.ReloadCaptions(s.ID, &model.Lecture{TranscriptSRT: "1\n00:00:00,000 --> 00:00:01,000\nChanged\n"}))

	set := s.Captions.Load()
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "Changed", set.Entries[0].Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CaptionReloads))
}

func TestSessionActiveIndexUntimed(t *testing.T) {
	p := testPlayer(t, &PlayerConfig{}, nil, nil, nil)
	s := p.Load(&model.Lecture{ID: 1, Transcript: "a\nb\nc"}, nil)

	assert.Equal(t, 0, s.ActiveIndex())
	s.Playback.Seek(6 * time.Second)
	assert.Equal(t, 1, s.ActiveIndex())
	s.Playback.Seek(16 * time.Second)
	assert.Equal(t, 0, s.ActiveIndex(), "untimed lines wrap around")

	empty := p.Load(&model.Lecture{ID: 2}, nil)
	assert.Equal(t, caption.None, empty.ActiveIndex())
}

func TestResolveActiveRejectsNegativePosition(t *testing.T) {
	var buf bytes.Buffer
	logger, err := util.NewLogger(util.LoggerOptions{Level: "warn"})
	require.NoError(t, err)
	logger.AddOutput(util.NewConsoleOutput(&buf, util.FormatText))
	util.SetLogger(logger)
	t.Cleanup(func() { util.SetLogger(nil) })

	set := caption.Parse(testSRT)
	assert.Equal(t, caption.None, resolveActive(set, -time.Second))
	assert.Contains(t, buf.String(), "Caption lookup rejected position")

	assert.Equal(t, 1, resolveActive(set, 3*time.Second))
}
