package player

import (
	"sync"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/core/constants"
)

// PlaybackState is the transport state of the simulated media element.
type PlaybackState int

const (
	StatePaused PlaybackState = iota
	StatePlaying
	StateEnded
)

func (s PlaybackState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "paused"
	}
}

// Playback simulates a media element: a position that advances with wall
// time scaled by the playback speed. A zero duration means unknown length.
type Playback struct {
	mu       sync.RWMutex
	position time.Duration
	duration time.Duration
	state    PlaybackState
	speedIdx int
	skip     time.Duration
}

// NewPlayback starts paused at start, clamped to the duration.
func NewPlayback(duration, start time.Duration, speed float64, skip time.Duration) *Playback {
	idx := speedIndex(speed)
	if idx < 0 {
		idx = constants.DefaultSpeedIndex
	}
	if skip <= 0 {
		skip = constants.SkipStep
	}
	p := &Playback{
		duration: duration,
		speedIdx: idx,
		skip:     skip,
	}
	p.position = p.clamp(start)
	return p
}

func (p *Playback) clamp(pos time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if p.duration > 0 && pos > p.duration {
		return p.duration
	}
	return pos
}

// Play starts playback. Playing from the end restarts at zero.
func (p *Playback) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateEnded || (p.duration > 0 && p.position >= p.duration) {
		p.position = 0
	}
	p.state = StatePlaying
}

// Pause stops playback, keeping the position.
func (p *Playback) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StatePlaying {
		p.state = StatePaused
	}
}

// Toggle flips between playing and paused and returns the new state.
func (p *Playback) Toggle() PlaybackState {
	if p.State() == StatePlaying {
		p.Pause()
	} else {
		p.Play()
	}
	return p.State()
}

// Seek moves to pos, clamped to [0, duration].
func (p *Playback) Seek(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = p.clamp(pos)
	if p.state == StateEnded && (p.duration == 0 || p.position < p.duration) {
		p.state = StatePaused
	}
}

// Skip moves by steps skip intervals; negative steps go back.
func (p *Playback) Skip(steps int) {
	p.mu.RLock()
	target := p.position + time.Duration(steps)*p.skip
	p.mu.RUnlock()
	p.Seek(target)
}

// CycleSpeed moves to the next speed, wrapping, and returns it.
func (p *Playback) CycleSpeed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speedIdx = (p.speedIdx + 1) % len(constants.PlaybackSpeeds)
	return constants.PlaybackSpeeds[p.speedIdx]
}

// Advance moves the position by elapsed wall time at the current speed.
// It reports true when this call reached the end.
func (p *Playback) Advance(elapsed time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePlaying || elapsed <= 0 {
		return false
	}
	speed := constants.PlaybackSpeeds[p.speedIdx]
	p.position += time.Duration(float64(elapsed) * speed)
	if p.duration > 0 && p.position >= p.duration {
		p.position = p.duration
		p.state = StateEnded
		return true
	}
	return false
}

// Position returns the current position.
func (p *Playback) Position() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

// Duration returns the media length, zero when unknown.
func (p *Playback) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.duration
}

// Speed returns the current playback speed.
func (p *Playback) Speed() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return constants.PlaybackSpeeds[p.speedIdx]
}

// State returns the transport state.
func (p *Playback) State() PlaybackState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Progress returns the position as a percentage of the duration.
func (p *Playback) Progress() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.duration <= 0 {
		return 0
	}
	return float64(p.position) / float64(p.duration) * 100
}
