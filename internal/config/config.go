package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/core/constants"
	"github.com/penwyp/go-lecture-monitor/internal/data/kv"
	"github.com/penwyp/go-lecture-monitor/internal/util"
	"gopkg.in/yaml.v3"
)

const (
	// AppDirName is created under the user's home directory.
	AppDirName = ".go-lecture-monitor"
	// FileName is the config file looked up in the data directory.
	FileName = "config.yaml"
)

// Config is the on-disk configuration. Command-line flags override it.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	Timezone    string `yaml:"timezone"`
	Threshold   int    `yaml:"threshold"`
	MetricsFile string `yaml:"metrics_file,omitempty"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Store struct {
		Backend string `yaml:"backend"`
		Redis   struct {
			Addr     string `yaml:"addr,omitempty"`
			Password string `yaml:"password,omitempty"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"store"`

	Player struct {
		Speed       float64       `yaml:"speed"`
		SkipStep    time.Duration `yaml:"skip_step"`
		RefreshRate time.Duration `yaml:"refresh_rate"`
		LibraryDir  string        `yaml:"library_dir,omitempty"`
		Watch       bool          `yaml:"watch"`
	} `yaml:"player"`
}

// DefaultDataDir returns ~/.go-lecture-monitor, or a relative directory when
// the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return AppDirName
	}
	return filepath.Join(home, AppDirName)
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.DataDir = DefaultDataDir()
	c.Timezone = "Local"
	c.Threshold = constants.StreakThreshold

	c.Log.Level = "info"
	c.Log.Format = string(util.FormatText)

	c.Store.Backend = kv.BackendFile
	c.Store.Redis.Prefix = "lecture:"

	c.Player.Speed = constants.PlaybackSpeeds[constants.DefaultSpeedIndex]
	c.Player.SkipStep = constants.SkipStep
	c.Player.RefreshRate = time.Second
	c.Player.Watch = true
	return c
}

// DefaultPath is the config file inside the default data directory.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), FileName)
}

// Load reads path over the defaults. A missing file yields the defaults;
// an empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		util.LogDebugf("No config file at %s, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	util.LogDebugf("Loaded config from %s", path)
	return cfg, nil
}

// Validate fills zero values with defaults and rejects values that cannot
// work.
func (c *Config) Validate() error {
	def := Default()

	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = def.DataDir
	}
	c.DataDir = expandHome(c.DataDir)
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.Threshold == 0 {
		c.Threshold = def.Threshold
	}
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be positive, got %d", c.Threshold)
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	switch util.LogFormat(c.Log.Format) {
	case "":
		c.Log.Format = def.Log.Format
	case util.FormatText, util.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q (text, json)", c.Log.Format)
	}

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if !isBackend(c.Store.Backend) {
		return fmt.Errorf("%w: %q", kv.ErrUnknownBackend, c.Store.Backend)
	}
	if c.Store.Backend == kv.BackendRedis && c.Store.Redis.Addr == "" {
		return fmt.Errorf("store.redis.addr is required for the redis backend")
	}

	if c.Player.Speed == 0 {
		c.Player.Speed = def.Player.Speed
	}
	if !isSpeed(c.Player.Speed) {
		return fmt.Errorf("unsupported speed %.2f (want one of %v)", c.Player.Speed, constants.PlaybackSpeeds)
	}
	if c.Player.SkipStep <= 0 {
		c.Player.SkipStep = def.Player.SkipStep
	}
	if c.Player.RefreshRate <= 0 {
		c.Player.RefreshRate = def.Player.RefreshRate
	}
	if c.Player.LibraryDir != "" {
		c.Player.LibraryDir = expandHome(c.Player.LibraryDir)
	}
	return nil
}

// KV returns the store settings in the form kv.Open expects.
func (c *Config) KV() kv.Config {
	return kv.Config{
		Backend: c.Store.Backend,
		Dir:     c.DataDir,
		Redis: kv.RedisConfig{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
			Prefix:   c.Store.Redis.Prefix,
		},
	}
}

// LogFile is where the file logger writes.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "logs", "app.log")
}

// Marshal renders the configuration as YAML. The redis password is masked.
func (c *Config) Marshal() ([]byte, error) {
	out := *c
	if out.Store.Redis.Password != "" {
		out.Store.Redis.Password = "********"
	}
	return yaml.Marshal(&out)
}

func isBackend(name string) bool {
	for _, b := range kv.Backends {
		if b == name {
			return true
		}
	}
	return false
}

func isSpeed(speed float64) bool {
	for _, s := range constants.PlaybackSpeeds {
		if s == speed {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
