package player

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-lecture-monitor/internal/core/caption"
	"github.com/penwyp/go-lecture-monitor/internal/core/constants"
	"github.com/penwyp/go-lecture-monitor/internal/core/model"
	"github.com/penwyp/go-lecture-monitor/internal/metrics"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// ListeningSink receives listening time while a lecture plays.
type ListeningSink interface {
	AddListeningTime(ctx context.Context, seconds int) (bool, error)
}

// HistoryRecorder remembers played lectures.
type HistoryRecorder interface {
	Add(ctx context.Context, lecture *model.Lecture) model.HistoryItem
}

// Session is one lecture loaded into the player.
type Session struct {
	ID        string
	Lecture   *model.Lecture
	Files     []string
	Playback  *Playback
	Captions  *caption.Snapshot
	StartedAt time.Time
}

// ActiveIndex is the caption line to highlight. Timed captions resolve
// against the position; untimed transcripts advance one line per
// UntimedLineInterval.
func (s *Session) ActiveIndex() int {
	set := s.Captions.Load()
	pos := s.Playback.Position()
	if set.Timed {
		return resolveActive(set, pos)
	}
	return caption.CycleIndex(set, int(pos/constants.UntimedLineInterval))
}

// resolveActive resolves a timed position. A negative position is logged
// and highlights nothing.
func resolveActive(set caption.Set, pos time.Duration) int {
	idx, err := caption.Resolve(set, pos.Milliseconds())
	if err != nil {
		util.LogWarn("Caption lookup rejected position", util.F("position", pos.String()), util.F("error", err.Error()))
		return caption.None
	}
	return idx
}

// Player owns the current session and the listening timer. The timer runs
// exactly while the current session is playing.
type Player struct {
	ctx     context.Context
	cfg     *PlayerConfig
	sink    ListeningSink
	history HistoryRecorder
	metrics *metrics.Metrics

	// OnStreak is called from the timer goroutine when a tick makes today
	// a streak day.
	OnStreak func()

	mu       sync.Mutex
	session  *Session
	timer    *ListeningTimer
	listened atomic.Int64
}

// NewPlayer builds a player crediting listening time to sink. history and
// m may be nil.
func NewPlayer(ctx context.Context, cfg *PlayerConfig, sink ListeningSink, history HistoryRecorder, m *metrics.Metrics) *Player {
	p := &Player{
		ctx:     ctx,
		cfg:     cfg,
		sink:    sink,
		history: history,
		metrics: m,
	}
	p.timer = NewListeningTimer(cfg.TickInterval, constants.ListeningTickSeconds, p.credit)
	return p
}

func (p *Player) credit(seconds int) {
	p.listened.Add(int64(seconds))
	if p.sink == nil {
		return
	}
	crossed, err := p.sink.AddListeningTime(p.ctx, seconds)
	if err != nil {
		util.LogWarnf("Failed to credit listening time: %v", err)
		return
	}
	if crossed && p.OnStreak != nil {
		p.OnStreak()
	}
}

// Load replaces the current session with lecture. The timer of the previous
// session is torn down first.
func (p *Player) Load(lecture *model.Lecture, files []string) *Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.timer.Stop()

	set, stats := lecture.CaptionsWithStats()
	duration := p.cfg.Duration
	if duration == 0 {
		duration = time.Duration(set.DurationMs()) * time.Millisecond
	}

	s := &Session{
		ID:        uuid.NewString(),
		Lecture:   lecture,
		Files:     files,
		Playback:  NewPlayback(duration, lecture.StartPosition(), p.cfg.Speed, p.cfg.SkipStep),
		Captions:  caption.NewSnapshot(set),
		StartedAt: util.GetTimeProvider().Now(),
	}
	p.session = s

	if p.history != nil {
		p.history.Add(p.ctx, lecture)
	}
	p.metrics.SessionStarted()
	p.metrics.CaptionsParsed(stats)
	util.LogInfo("Lecture loaded",
		util.F("session", s.ID),
		util.F("lecture", lecture.ID),
		util.F("entries", set.Len()),
		util.F("timed", set.Timed),
		util.F("duration", duration.String()))

	if p.cfg.Autoplay {
		s.Playback.Play()
	}
	p.syncTimer()
	return s
}

// Current returns the loaded session, or nil.
func (p *Player) Current() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// Toggle flips play and pause.
func (p *Player) Toggle() PlaybackState {
	return p.control(func(pb *Playback) { pb.Toggle() })
}

// Play starts playback.
func (p *Player) Play() PlaybackState {
	return p.control(func(pb *Playback) { pb.Play() })
}

// Pause pauses playback.
func (p *Player) Pause() PlaybackState {
	return p.control(func(pb *Playback) { pb.Pause() })
}

// Skip moves by steps skip intervals.
func (p *Player) Skip(steps int) PlaybackState {
	return p.control(func(pb *Playback) { pb.Skip(steps) })
}

// Seek moves to pos.
func (p *Player) Seek(pos time.Duration) PlaybackState {
	return p.control(func(pb *Playback) { pb.Seek(pos) })
}

// CycleSpeed switches to the next playback speed.
func (p *Player) CycleSpeed() float64 {
	var speed float64
	p.control(func(pb *Playback) { speed = pb.CycleSpeed() })
	return speed
}

// Advance moves the playback position by elapsed wall time. When the end
// is reached the timer stops.
func (p *Player) Advance(elapsed time.Duration) bool {
	var ended bool
	p.control(func(pb *Playback) { ended = pb.Advance(elapsed) })
	return ended
}

// ReloadCaptions publishes a fresh caption set if sessionID is still the
// current session.
func (p *Player) ReloadCaptions(sessionID string, lecture *model.Lecture) bool {
	s := p.Current()
	if s == nil || s.ID != sessionID {
		return false
	}
	set, stats := lecture.CaptionsWithStats()
	s.Captions.Store(set)
	p.metrics.CaptionsParsed(stats)
	p.metrics.CaptionsReloaded()
	util.LogInfo("Captions reloaded", util.F("session", s.ID), util.F("entries", set.Len()))
	return true
}

// Stop pauses and tears down the timer. The session stays loaded.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != nil {
		p.session.Playback.Pause()
	}
	p.timer.Stop()
}

// TimerRunning reports whether listening time is being accrued.
func (p *Player) TimerRunning() bool {
	return p.timer.Running()
}

// ListenedSeconds is the listening time credited by this player.
func (p *Player) ListenedSeconds() int64 {
	return p.listened.Load()
}

func (p *Player) control(fn func(*Playback)) PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return StatePaused
	}
	fn(p.session.Playback)
	p.syncTimer()
	return p.session.Playback.State()
}

// syncTimer must be called with p.mu held.
func (p *Player) syncTimer() {
	if p.session != nil && p.session.Playback.State() == StatePlaying {
		p.timer.Start()
	} else {
		p.timer.Stop()
	}
}
