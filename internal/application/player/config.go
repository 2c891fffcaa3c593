package player

import (
	"fmt"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/core/constants"
)

// PlayerConfig contains configuration for the play command
type PlayerConfig struct {
	// LecturePath is the lecture file to play.
	LecturePath string

	// Duration is the simulated media length. Zero uses the end of the last
	// timed caption; untimed lectures then play without an end.
	Duration time.Duration

	// Playback settings
	Speed    float64
	SkipStep time.Duration
	Autoplay bool

	// Refresh settings
	TickInterval  time.Duration
	UIRefreshRate time.Duration

	// Watch reloads captions when the lecture files change.
	Watch bool

	// Headless prints caption changes instead of drawing the player.
	Headless bool

	// PlayFor stops a headless run after this much wall time. Zero runs
	// until the lecture ends or the context is cancelled.
	PlayFor time.Duration
}

// Validate fills defaults and checks the configuration.
func (c *PlayerConfig) Validate() error {
	if c.LecturePath == "" {
		return fmt.Errorf("lecture path is required")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	if c.Speed == 0 {
		c.Speed = constants.PlaybackSpeeds[constants.DefaultSpeedIndex]
	}
	if speedIndex(c.Speed) < 0 {
		return fmt.Errorf("unsupported speed %.2f (want one of %v)", c.Speed, constants.PlaybackSpeeds)
	}
	if c.SkipStep <= 0 {
		c.SkipStep = constants.SkipStep
	}
	if c.TickInterval <= 0 {
		c.TickInterval = constants.ListeningTickInterval
	}
	if c.UIRefreshRate <= 0 {
		c.UIRefreshRate = 250 * time.Millisecond
	}
	return nil
}

func speedIndex(speed float64) int {
	for i, s := range constants.PlaybackSpeeds {
		if s == speed {
			return i
		}
	}
	return -1
}
