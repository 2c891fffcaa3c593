package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/penwyp/go-lecture-monitor/internal/core/caption"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSRT = `1
00:00:00,000 --> 00:00:02,000
Welcome to the lecture.

2
00:00:02,000 --> 00:00:04,000
Today we discuss attention.

3
00:00:04,000 --> 00:00:06,000
Thank you for listening.
`

// env runs commands against an isolated data directory.
type env struct {
	t       *testing.T
	dataDir string
	config  string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	return &env{
		t:       t,
		dataDir: filepath.Join(dir, "data"),
		config:  filepath.Join(dir, "missing.yaml"),
	}
}

func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	full := append([]string{"--config", e.config, "--data-dir", e.dataDir, "--timezone", "UTC"}, args...)
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "args: %v", args)
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestListenCreditsAndReachesStreak(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("listen", "--seconds", "300")
	assert.Contains(t, out, "Added 5m 0s. Today: 5m 0s / 10m 0s (50%)")
	assert.NotContains(t, out, "Streak day reached")

	out = e.mustRun("listen", "--seconds", "300")
	assert.Contains(t, out, "Streak day reached! Current streak: 1 day(s)")

	// Crossing is reported once per day.
	out = e.mustRun("listen", "--seconds", "60")
	assert.NotContains(t, out, "Streak day reached")

	var summary struct {
		CurrentStreak int  `json:"currentStreak"`
		TotalDays     int  `json:"totalDays"`
		ListenedToday bool `json:"listenedToday"`
		TodaySeconds  int  `json:"todaySeconds"`
		TotalSeconds  int  `json:"totalSeconds"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("streak", "-o", "json")), &summary))
	assert.Equal(t, 1, summary.CurrentStreak)
	assert.Equal(t, 1, summary.TotalDays)
	assert.True(t, summary.ListenedToday)
	assert.Equal(t, 660, summary.TodaySeconds)
	assert.Equal(t, 660, summary.TotalSeconds)
}

func TestListenValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("listen", "--seconds", "-5")
	assert.Error(t, err)

	_, err = e.run("listen")
	assert.Error(t, err)
}

func TestThresholdFlag(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("--threshold", "60", "listen", "--seconds", "60")
	assert.Contains(t, out, "Streak day reached!")
}

func TestResetClearsListeningData(t *testing.T) {
	e := newEnv(t)
	e.mustRun("listen", "--seconds", "900")

	assert.Contains(t, e.mustRun("reset"), "Listening data cleared")

	out := e.mustRun("streak", "-o", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "0,0,0,"), lines[1])
}

func TestStreakPanel(t *testing.T) {
	e := newEnv(t)
	e.mustRun("listen", "--seconds", "120")

	out := e.mustRun("streak")
	assert.Contains(t, out, "Current streak   0 day(s)")
	assert.Contains(t, out, "Listening by day")
}

func TestStatsSeries(t *testing.T) {
	e := newEnv(t)
	e.mustRun("listen", "--seconds", "90")

	out := e.mustRun("stats", "--view", "week", "-o", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Bucket,Label,Seconds,Time", lines[0])
	assert.True(t, strings.HasSuffix(lines[7], ",90,1m 30s"), lines[7])

	out = e.mustRun("stats", "--view", "year", "-o", "csv")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 13)

	_, err := e.run("stats", "--view", "decade")
	assert.Error(t, err)
}

func TestCaptionsResolve(t *testing.T) {
	e := newEnv(t)
	path := writeFile(t, t.TempDir(), "attention.srt", testSRT)

	var result struct {
		Active  int `json:"active"`
		Entries []struct {
			Ordinal int    `json:"ordinal"`
			Text    string `json:"text"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("captions", path, "--at", "2.5s", "-o", "json")), &result))
	assert.Equal(t, 1, result.Active)
	assert.Len(t, result.Entries, 3)

	// The last entry stays active past its end.
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("captions", path, "--at", "10s", "-o", "json")), &result))
	assert.Equal(t, 2, result.Active)

	require.NoError(t, json.Unmarshal([]byte(e.mustRun("captions", path, "-o", "json")), &result))
	assert.Equal(t, -1, result.Active)

	require.NoError(t, json.Unmarshal([]byte(e.mustRun("captions", path, "--search", "ATTENTION", "--at", "3s", "-o", "json")), &result))
	require.Len(t, result.Entries, 1)
	assert.Equal(t, 2, result.Entries[0].Ordinal)
	assert.Equal(t, 0, result.Active)
}

func TestCaptionsUntimedCycle(t *testing.T) {
	e := newEnv(t)
	path := writeFile(t, t.TempDir(), "notes.txt", "first\nsecond\nthird\n")

	var result struct {
		Active int `json:"active"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("captions", path, "--at", "16s", "-o", "json")), &result))
	assert.Equal(t, 0, result.Active)
}

func TestCaptionsErrors(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("captions", filepath.Join(t.TempDir(), "missing.srt"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "a.srt", testSRT)
	_, err = e.run("captions", path, "-o", "xml")
	assert.Error(t, err)

	_, err = e.run("captions", path, "--at=-1s")
	assert.ErrorIs(t, err, caption.ErrInvalidPosition)
}

func TestHistoryEmptyAndClear(t *testing.T) {
	e := newEnv(t)

	assert.Contains(t, e.mustRun("history"), "No lectures played yet")
	assert.Contains(t, e.mustRun("history", "--clear"), "Playback history cleared")
}

func TestPlayHeadless(t *testing.T) {
	e := newEnv(t)
	path := writeFile(t, t.TempDir(), "attention.srt", testSRT)

	out := e.mustRun("play", path, "--headless", "--no-watch", "--for", "1500ms")
	assert.Contains(t, out, "[0:00] Welcome to the lecture.")
	assert.Contains(t, out, "Listened ")

	var items []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("history", "-o", "json")), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "attention", items[0].Title)
}

func TestLecturesLibrary(t *testing.T) {
	e := newEnv(t)
	lib := t.TempDir()
	writeFile(t, lib, "b-talk.srt", testSRT)
	writeFile(t, lib, "a-talk.txt", "hello")
	writeFile(t, lib, "a-talk.json", `{"id": 9, "title": "Alpha", "speaker": "Ada"}`)

	out := e.mustRun("lectures", "--dir", lib, "-o", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "9,Alpha,Ada,,,text", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], ",b-talk,,,,timed"), lines[2])

	_, err := e.run("lectures")
	assert.Error(t, err)
}

func TestMetricsFile(t *testing.T) {
	e := newEnv(t)
	metricsPath := filepath.Join(t.TempDir(), "textfile", "lecture.prom")

	e.mustRun("--metrics-file", metricsPath, "listen", "--seconds", "30")

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lecture_monitor_listening_seconds_total 30")
	assert.Contains(t, string(data), "lecture_monitor_today_listening_seconds 30")
}

func TestConfigCommand(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("--store", "memory", "config")
	assert.Contains(t, out, "backend: memory")
	assert.Contains(t, out, "timezone: UTC")
}

func TestConfigFileIsApplied(t *testing.T) {
	dir := t.TempDir()
	e := newEnv(t)
	e.config = writeFile(t, dir, "config.yaml", "threshold: 30\nstore:\n  backend: sqlite\n")

	out := e.mustRun("listen", "--seconds", "30")
	assert.Contains(t, out, "Streak day reached!")
	assert.FileExists(t, filepath.Join(e.dataDir, "listening.sqlite"))
}

func TestInvalidStoreBackend(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("--store", "floppy", "streak")
	assert.Error(t, err)
}
