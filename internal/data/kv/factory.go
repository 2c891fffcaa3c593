package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Dir holds the file store, badger directory and sqlite database.
	Dir   string
	Redis RedisConfig
}

// Open builds the configured backend. An empty backend selects the file store.
func Open(cfg Config) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}

	util.LogDebugf("Opening %s store (dir=%s)", backend, cfg.Dir)

	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		fs, err := NewFileStore(filepath.Join(cfg.Dir, "store"))
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		if err := fs.Preload(); err != nil {
			util.LogWarnf("Store preload failed: %v", err)
		}
		return fs, nil
	case BackendBadger:
		dir := filepath.Join(cfg.Dir, "badger")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		bs, err := OpenBadgerStore(dir)
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		return bs, nil
	case BackendSQLite:
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		ss, err := OpenSQLiteStore(filepath.Join(cfg.Dir, "listening.sqlite"))
		if err != nil {
			return nil, err
		}
		return ss, nil
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("redis backend requires an address")
		}
		return NewRedisStore(cfg.Redis)
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownBackend, cfg.Backend, strings.Join(Backends, ", "))
	}
}

// OpenResilient opens the configured backend behind a Resilient wrapper.
// When the backend cannot be opened at all the wrapper runs memory-only.
func OpenResilient(cfg Config) *Resilient {
	store, err := Open(cfg)
	if err != nil {
		util.LogWarnf("Persistent store unavailable, keeping data in memory only: %v", err)
		return NewResilient(nil)
	}
	return NewResilient(store)
}
