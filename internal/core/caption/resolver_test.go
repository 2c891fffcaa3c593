package caption

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveIndexScenario(t *testing.T) {
	set := Parse("1\n00:00:01,000 --> 00:00:04,000\nHello world")

	assert.Equal(t, None, ActiveIndex(set, 500))
	assert.Equal(t, 0, ActiveIndex(set, 2000))
}

func TestActiveIndexLastQualifyingStart(t *testing.T) {
	set := Parse(sampleSRT) // starts: 1000, 5500, 9000

	tests := []struct {
		name       string
		positionMs int64
		want       int
	}{
		{name: "before first", positionMs: 999, want: None},
		{name: "exactly first start", positionMs: 1000, want: 0},
		{name: "inside first", positionMs: 3999, want: 0},
		{name: "gap after first end stays on first", positionMs: 5000, want: 0},
		{name: "exactly second start", positionMs: 5500, want: 1},
		{name: "last entry", positionMs: 9000, want: 2},
		{name: "far past the end", positionMs: 3_600_000, want: 2},
		{name: "negative", positionMs: -1, want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActiveIndex(set, tt.positionMs))
		})
	}
}

func TestActiveIndexUntimedAndEmpty(t *testing.T) {
	assert.Equal(t, None, ActiveIndex(ParseTranscript("a\nb"), 10_000))
	assert.Equal(t, None, ActiveIndex(Set{Timed: true}, 10_000))
	assert.Equal(t, None, ActiveIndex(Set{}, 0))
}

func TestResolveRejectsNegativePosition(t *testing.T) {
	set := Parse(sampleSRT)

	_, err := Resolve(set, -5)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	idx, err := Resolve(set, 6000)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestCycleIndex(t *testing.T) {
	set := ParseTranscript("a\nb\nc")
	assert.Equal(t, 0, CycleIndex(set, 0))
	assert.Equal(t, 2, CycleIndex(set, 5))
	assert.Equal(t, None, CycleIndex(Set{}, 3))
	assert.Equal(t, None, CycleIndex(set, -1))
}

func TestFilter(t *testing.T) {
	set := ParseTranscript("The Self is eternal\nmatter changes\nthe SELF remains")

	assert.Len(t, Filter(set, ""), 3)
	got := Filter(set, "self")
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Ordinal)
	assert.Equal(t, 3, got[1].Ordinal)
	assert.Empty(t, Filter(set, "absent"))
}

func TestSnapshotSwapsWholeSets(t *testing.T) {
	var empty Snapshot
	assert.True(t, empty.Load().IsEmpty())
	assert.Equal(t, None, empty.ActiveIndex(1000))

	first := Parse(sampleSRT)
	second := Parse("1\n00:00:00,000 --> 00:00:01,000\nonly")
	snap := NewSnapshot(first)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				set := snap.Load()
				// Either complete set, never a mix.
				if set.Len() != 3 && set.Len() != 1 {
					t.Errorf("unexpected set length %d", set.Len())
					return
				}
			}
		}
	}()

	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			snap.Store(second)
		} else {
			snap.Store(first)
		}
	}
	close(stop)
	wg.Wait()

	snap.Store(second)
	assert.Equal(t, 0, snap.ActiveIndex(30_000))
}
