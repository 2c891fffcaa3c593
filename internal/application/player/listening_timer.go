package player

import (
	"sync"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// ListeningTimer emits one listening unit per interval while running. It
// owns at most one goroutine, and Stop waits for it to exit.
type ListeningTimer struct {
	interval time.Duration
	seconds  int
	onTick   func(seconds int)

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewListeningTimer calls onTick(seconds) every interval while started.
func NewListeningTimer(interval time.Duration, seconds int, onTick func(seconds int)) *ListeningTimer {
	return &ListeningTimer{
		interval: interval,
		seconds:  seconds,
		onTick:   onTick,
	}
}

// Start launches the ticker goroutine. It reports false when already running.
func (t *ListeningTimer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		return false
	}
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.stop, t.done)
	util.LogDebugf("Listening timer started (interval=%v)", t.interval)
	return true
}

// Stop tears the ticker down and waits for its goroutine. It reports false
// when the timer was not running.
func (t *ListeningTimer) Stop() bool {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return false
	}
	close(stop)
	<-done
	util.LogDebug("Listening timer stopped")
	return true
}

// Running reports whether the ticker goroutine is live.
func (t *ListeningTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *ListeningTimer) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			if t.onTick != nil {
				t.onTick(t.seconds)
			}
		}
	}
}
