// Package kv provides the durable key-value stores listening data and
// playback history are persisted through.
package kv

import (
	"context"
	"errors"
	"strings"
)

// Store is a string-valued key-value store. Get reports a missing key with
// ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Backends lists every backend name.
var Backends = []string{BackendMemory, BackendFile, BackendBadger, BackendSQLite, BackendRedis}

var (
	ErrUnknownBackend = errors.New("kv: unknown backend")
	ErrInvalidKey     = errors.New("kv: invalid key")
	ErrClosed         = errors.New("kv: store closed")
)

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}
