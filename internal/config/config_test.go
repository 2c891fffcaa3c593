package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/data/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 600, cfg.Threshold)
	assert.Equal(t, kv.BackendFile, cfg.Store.Backend)
	assert.Equal(t, 1.0, cfg.Player.Speed)
	assert.Equal(t, 10*time.Second, cfg.Player.SkipStep)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, `
data_dir: `+dataDir+`
timezone: Asia/Tokyo
threshold: 900
log:
  level: debug
  format: json
store:
  backend: SQLite
player:
  speed: 1.5
  skip_step: 15s
  watch: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, 900, cfg.Threshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, kv.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, 1.5, cfg.Player.Speed)
	assert.Equal(t, 15*time.Second, cfg.Player.SkipStep)
	assert.False(t, cfg.Player.Watch)
	assert.Equal(t, time.Second, cfg.Player.RefreshRate)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "threshold: [1"},
		{name: "negative threshold", body: "threshold: -5"},
		{name: "unknown backend", body: "store:\n  backend: etcd"},
		{name: "redis without address", body: "store:\n  backend: redis"},
		{name: "unsupported speed", body: "player:\n  speed: 3"},
		{name: "unknown log format", body: "log:\n  format: xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestKV(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"
	cfg.Store.Backend = kv.BackendRedis
	cfg.Store.Redis.Addr = "localhost:6379"
	cfg.Store.Redis.DB = 2

	got := cfg.KV()
	assert.Equal(t, kv.Config{
		Backend: kv.BackendRedis,
		Dir:     "/data",
		Redis:   kv.RedisConfig{Addr: "localhost:6379", DB: 2, Prefix: "lecture:"},
	}, got)
	assert.Equal(t, filepath.Join("/data", "logs", "app.log"), cfg.LogFile())
}

func TestMarshalMasksPassword(t *testing.T) {
	cfg := Default()
	cfg.Store.Redis.Password = "secret"

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Equal(t, "secret", cfg.Store.Redis.Password)

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, cfg.Threshold, back.Threshold)
	assert.Equal(t, cfg.Player.SkipStep, back.Player.SkipStep)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, "lectures"), expandHome("~/lectures"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
}
