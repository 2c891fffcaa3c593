package caption

import (
	"errors"
	"strings"
	"sync/atomic"
)

// ErrInvalidPosition is returned for a negative playback position, which
// means the playback source broke its contract.
var ErrInvalidPosition = errors.New("caption: playback position must be non-negative")

// ActiveIndex returns the index of the last entry whose start is at or
// before positionMs. An entry stays active until the next one starts, even
// past its own end. Returns None for untimed or empty sets, negative
// positions, and positions before the first entry.
func ActiveIndex(set Set, positionMs int64) int {
	if !set.Timed || positionMs < 0 {
		return None
	}
	for i := len(set.Entries) - 1; i >= 0; i-- {
		if set.Entries[i].StartMs <= positionMs {
			return i
		}
	}
	return None
}

// Resolve is ActiveIndex with the position contract checked.
func Resolve(set Set, positionMs int64) (int, error) {
	if positionMs < 0 {
		return None, ErrInvalidPosition
	}
	return ActiveIndex(set, positionMs), nil
}

// CycleIndex is the presentation index for untimed sets: the view advances
// one line per tick and wraps around.
func CycleIndex(set Set, tick int) int {
	if set.IsEmpty() || tick < 0 {
		return None
	}
	return tick % set.Len()
}

// Filter returns the entries whose text contains query, ignoring case. An
// empty query returns every entry.
func Filter(set Set, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return set.Entries
	}
	var out []Entry
	for _, e := range set.Entries {
		if strings.Contains(strings.ToLower(e.Text), query) {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot holds the current Set. A new parse replaces it wholesale, so
// readers never see a half-built set.
type Snapshot struct {
	current atomic.Pointer[Set]
}

// NewSnapshot returns a Snapshot holding set.
func NewSnapshot(set Set) *Snapshot {
	s := &Snapshot{}
	s.Store(set)
	return s
}

// Store publishes set.
func (s *Snapshot) Store(set Set) {
	s.current.Store(&set)
}

// Load returns the published set, or an empty untimed set.
func (s *Snapshot) Load() Set {
	if p := s.current.Load(); p != nil {
		return *p
	}
	return Set{}
}

// ActiveIndex resolves positionMs against the published set.
func (s *Snapshot) ActiveIndex(positionMs int64) int {
	return ActiveIndex(s.Load(), positionMs)
}
