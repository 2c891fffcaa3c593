package history

import (
	"context"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-lecture-monitor/internal/core/calendar"
	"github.com/penwyp/go-lecture-monitor/internal/core/constants"
	"github.com/penwyp/go-lecture-monitor/internal/core/model"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// Store is the persistence the history is kept in.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// History is the list of recently played lectures, most recent first, with
// at most one entry per lecture.
type History struct {
	mu    sync.Mutex
	store Store
	clock calendar.Clock
	limit int
	items []model.HistoryItem
}

// Load reads the saved history. Missing or unreadable data starts empty.
func Load(ctx context.Context, store Store, clock calendar.Clock) *History {
	h := &History{store: store, clock: clock, limit: constants.HistoryLimit}

	raw, ok, err := store.Get(ctx, constants.PlaybackHistoryKey)
	switch {
	case err != nil:
		util.LogWarnf("Failed to read playback history: %v", err)
	case ok:
		if err := sonic.UnmarshalString(raw, &h.items); err != nil {
			util.LogWarnf("Discarding unreadable playback history: %v", err)
			h.items = nil
		}
	}
	if len(h.items) > h.limit {
		h.items = h.items[:h.limit]
	}
	return h
}

// Add moves lecture to the front of the history.
func (h *History) Add(ctx context.Context, lecture *model.Lecture) model.HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()

	item := model.HistoryItemOf(lecture, h.clock.Now())
	updated := make([]model.HistoryItem, 0, len(h.items)+1)
	updated = append(updated, item)
	for _, existing := range h.items {
		if existing.ID != lecture.ID {
			updated = append(updated, existing)
		}
	}
	if len(updated) > h.limit {
		updated = updated[:h.limit]
	}
	h.items = updated

	data, err := sonic.MarshalString(h.items)
	if err != nil {
		util.LogWarnf("Failed to encode playback history: %v", err)
		return item
	}
	if err := h.store.Set(ctx, constants.PlaybackHistoryKey, data); err != nil {
		util.LogWarnf("Failed to save playback history: %v", err)
	}
	return item
}

// Items returns a copy of the history, most recent first.
func (h *History) Items() []model.HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.HistoryItem, len(h.items))
	copy(out, h.items)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

// Clear forgets every entry.
func (h *History) Clear(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = nil
	if err := h.store.Remove(ctx, constants.PlaybackHistoryKey); err != nil {
		util.LogWarnf("Failed to clear playback history: %v", err)
	}
}
