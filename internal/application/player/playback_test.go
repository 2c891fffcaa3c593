package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPlaybackClampsStart(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		start    time.Duration
		want     time.Duration
	}{
		{name: "inside", duration: time.Minute, start: 10 * time.Second, want: 10 * time.Second},
		{name: "negative", duration: time.Minute, start: -time.Second, want: 0},
		{name: "past end", duration: time.Minute, start: 2 * time.Minute, want: time.Minute},
		{name: "unknown duration", duration: 0, start: 2 * time.Minute, want: 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewPlayback(tt.duration, tt.start, 1, 0)
			assert.Equal(t, tt.want, pb.Position())
			assert.Equal(t, StatePaused, pb.State())
		})
	}
}

func TestPlaybackSkipClamps(t *testing.T) {
	pb := NewPlayback(25*time.Second, 5*time.Second, 1, 10*time.Second)

	pb.Skip(-1)
	assert.Equal(t, time.Duration(0), pb.Position())

	pb.Skip(1)
	pb.Skip(1)
	assert.Equal(t, 20*time.Second, pb.Position())

	pb.Skip(1)
	assert.Equal(t, 25*time.Second, pb.Position())
}

func TestPlaybackAdvanceScalesBySpeed(t *testing.T) {
	pb := NewPlayback(time.Minute, 0, 2, 0)
	assert.False(t, pb.Advance(time.Second), "paused playback does not move")
	assert.Equal(t, time.Duration(0), pb.Position())

	pb.Play()
	assert.False(t, pb.Advance(time.Second))
	assert.Equal(t, 2*time.Second, pb.Position())

	assert.True(t, pb.Advance(time.Minute))
	assert.Equal(t, time.Minute, pb.Position())
	assert.Equal(t, StateEnded, pb.State())
	assert.False(t, pb.Advance(time.Second), "ended playback does not report again")

	pb.Play()
	assert.Equal(t, time.Duration(0), pb.Position(), "play after end restarts")
	assert.Equal(t, StatePlaying, pb.State())
}

func TestPlaybackToggleAndSpeedCycle(t *testing.T) {
	pb := NewPlayback(0, 0, 1, 0)
	assert.Equal(t, StatePlaying, pb.Toggle())
	assert.Equal(t, StatePaused, pb.Toggle())

	var seen []float64
	for i := 0; i < 6; i++ {
		seen = append(seen, pb.CycleSpeed())
	}
	assert.Equal(t, []float64{1.25, 1.5, 2, 0.5, 0.75, 1}, seen)
}

func TestPlaybackSeekAfterEnd(t *testing.T) {
	pb := NewPlayback(10*time.Second, 0, 1, 0)
	pb.Play()
	pb.Advance(20 * time.Second)
	assert.Equal(t, StateEnded, pb.State())

	pb.Seek(3 * time.Second)
	assert.Equal(t, StatePaused, pb.State())
	assert.Equal(t, 3*time.Second, pb.Position())
	assert.InDelta(t, 30.0, pb.Progress(), 0.001)
}

func TestPlaybackStateString(t *testing.T) {
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "ended", StateEnded.String())
}
