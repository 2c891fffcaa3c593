package player

import (
	"sync"
	"time"
)

// statusTTL is how long a status message stays on screen.
const statusTTL = 3 * time.Second

// InteractionState is the UI state driven by the keyboard.
type InteractionState struct {
	ShowHelp    bool
	Status      string
	StatusSetAt time.Time
}

// StateManager manages UI state in a thread-safe manner
type StateManager struct {
	mu          sync.RWMutex
	interaction InteractionState
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{}
}

// GetInteractionState returns a copy of the interaction state.
func (sm *StateManager) GetInteractionState() InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.interaction
}

// UpdateInteractionState updates specific fields of interaction state
func (sm *StateManager) UpdateInteractionState(updateFunc func(*InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	updateFunc(&sm.interaction)
}

// SetStatus shows msg until statusTTL has passed.
func (sm *StateManager) SetStatus(msg string, now time.Time) {
	sm.UpdateInteractionState(func(s *InteractionState) {
		s.Status = msg
		s.StatusSetAt = now
	})
}

// StatusAt returns the status message still visible at now.
func (sm *StateManager) StatusAt(now time.Time) string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.interaction.Status == "" || now.Sub(sm.interaction.StatusSetAt) > statusTTL {
		return ""
	}
	return sm.interaction.Status
}
