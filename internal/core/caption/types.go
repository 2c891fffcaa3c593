package caption

// Untimed marks the start and end of an entry that has no timing.
const Untimed int64 = -1

// None is returned by the resolver when no entry is active.
const None = -1

// Entry is one timed or untimed unit of transcript text.
type Entry struct {
	Ordinal int    `json:"ordinal"` // 1-based position in the source
	StartMs int64  `json:"startMs"`
	EndMs   int64  `json:"endMs"`
	Text    string `json:"text"`
}

// IsTimed reports whether the entry carries real timing.
func (e Entry) IsTimed() bool {
	return e.StartMs >= 0
}

// Set is an ordered, immutable sequence of entries produced by a single parse.
type Set struct {
	Entries []Entry `json:"entries"`
	Timed   bool    `json:"timed"`
}

// Len returns the number of entries.
func (s Set) Len() int {
	return len(s.Entries)
}

// IsEmpty reports whether the set has no entries.
func (s Set) IsEmpty() bool {
	return len(s.Entries) == 0
}

// At returns the entry at index i and whether i is in range.
func (s Set) At(i int) (Entry, bool) {
	if i < 0 || i >= len(s.Entries) {
		return Entry{}, false
	}
	return s.Entries[i], true
}

// DurationMs returns the end of the last timed entry, or 0 for untimed sets.
func (s Set) DurationMs() int64 {
	if !s.Timed {
		return 0
	}
	var max int64
	for _, e := range s.Entries {
		if e.EndMs > max {
			max = e.EndMs
		}
	}
	return max
}

// ParseStats describes what a parse kept and dropped.
type ParseStats struct {
	Blocks  int `json:"blocks"`
	Entries int `json:"entries"`
	Dropped int `json:"dropped"`

	ShortBlocks int `json:"shortBlocks"`
	BadTimings  int `json:"badTimings"`
	EmptyTexts  int `json:"emptyTexts"`
	BadOrdinals int `json:"badOrdinals"`
	ClampedEnds int `json:"clampedEnds"`
}
