package kv

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// Resilient never surfaces backend failures. Every write also lands in an
// in-memory shadow, which answers reads whenever the backend fails. A key
// whose backend removal failed stays tombstoned, so reads keep reporting it
// missing until a removal succeeds or the key is set again.
type Resilient struct {
	inner      Store
	mu         sync.RWMutex
	shadow     map[string]string
	tombstones map[string]struct{}
	failures   atomic.Int64
}

// NewResilient wraps inner. A nil inner store means memory only.
func NewResilient(inner Store) *Resilient {
	return &Resilient{
		inner:      inner,
		shadow:     make(map[string]string),
		tombstones: make(map[string]struct{}),
	}
}

// Degraded reports whether there is no backend or it has failed at least once.
func (r *Resilient) Degraded() bool {
	return r.inner == nil || r.failures.Load() > 0
}

// Failures returns how many backend operations have failed.
func (r *Resilient) Failures() int64 {
	return r.failures.Load()
}

func (r *Resilient) fail(op, key string, err error) {
	r.failures.Add(1)
	util.LogWarnf("Store %s %s failed, using memory: %v", op, key, err)
}

func (r *Resilient) Get(ctx context.Context, key string) (string, bool, error) {
	if r.retryRemove(ctx, key) {
		return "", false, nil
	}

	if r.inner != nil {
		v, ok, err := r.inner.Get(ctx, key)
		if err == nil && ok {
			r.mu.Lock()
			r.shadow[key] = v
			r.mu.Unlock()
			return v, true, nil
		}
		// A miss may be a write the backend dropped earlier.
		if err != nil {
			r.fail("get", key, err)
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.shadow[key]
	return v, ok, nil
}

func (r *Resilient) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.shadow[key] = value
	delete(r.tombstones, key)
	r.mu.Unlock()

	if r.inner != nil {
		if err := r.inner.Set(ctx, key, value); err != nil {
			r.fail("set", key, err)
		}
	}
	return nil
}

func (r *Resilient) Remove(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.shadow, key)
	if r.inner != nil {
		r.tombstones[key] = struct{}{}
	}
	r.mu.Unlock()

	r.retryRemove(ctx, key)
	return nil
}

// retryRemove pushes a pending removal of key to the backend. It reports
// whether key is still tombstoned afterwards.
func (r *Resilient) retryRemove(ctx context.Context, key string) bool {
	r.mu.RLock()
	_, pending := r.tombstones[key]
	r.mu.RUnlock()
	if !pending {
		return false
	}

	if err := r.inner.Remove(ctx, key); err != nil {
		r.fail("remove", key, err)
		return true
	}
	r.mu.Lock()
	delete(r.tombstones, key)
	r.mu.Unlock()
	return false
}

// Pending returns how many removals have not reached the backend yet.
func (r *Resilient) Pending() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tombstones)
}

// Close retries pending removals once, then closes the backend.
func (r *Resilient) Close() error {
	if r.inner == nil {
		return nil
	}

	r.mu.RLock()
	keys := make([]string, 0, len(r.tombstones))
	for k := range r.tombstones {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	for _, k := range keys {
		r.retryRemove(context.Background(), k)
	}
	if n := r.Pending(); n > 0 {
		util.LogWarnf("%d key removals never reached the store", n)
	}

	if err := r.inner.Close(); err != nil {
		util.LogWarnf("Failed to close store: %v", err)
	}
	return nil
}
