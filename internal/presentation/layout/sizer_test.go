package layout

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestFixedSizer(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{name: "standard terminal", width: 80, height: 24, wantWidth: 80, wantHeight: 24},
		{name: "wide terminal is capped", width: 200, height: 60, wantWidth: 120, wantHeight: 60},
		{name: "narrow terminal keeps width", width: 30, height: 10, wantWidth: 30, wantHeight: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := NewFixedSizer(tt.width, tt.height).Size()
			assert.Equal(t, tt.wantWidth, w)
			assert.Equal(t, tt.wantHeight, h)
		})
	}
}

func TestSizerFallsBackWithoutTerminal(t *testing.T) {
	s := &Sizer{fd: -1}
	w, h := s.Size()
	assert.Equal(t, fallbackWidth, w)
	assert.Equal(t, fallbackHeight, h)
}

func TestPadString(t *testing.T) {
	s := NewFixedSizer(80, 24)
	assert.Equal(t, "ab  ", s.PadString("ab", 4, true))
	assert.Equal(t, "  ab", s.PadString("ab", 4, false))
	assert.Equal(t, "禅 ", s.PadString("禅", 3, true))
	assert.Equal(t, "toolong", s.PadString("toolong", 3, true))
}

func TestWrap(t *testing.T) {
	s := NewFixedSizer(80, 24)

	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{name: "fits", text: "hello world", width: 20, want: []string{"hello world"}},
		{name: "breaks on spaces", text: "the quick brown fox", width: 10, want: []string{"the quick", "brown fox"}},
		{name: "long word is split", text: "abcdefghij", width: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "empty", text: "   ", width: 10, want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Wrap(tt.text, tt.width))
		})
	}
}

func TestWrapRespectsDisplayWidth(t *testing.T) {
	s := NewFixedSizer(80, 24)
	for _, line := range s.Wrap(strings.Repeat("坐禅 ", 10), 9) {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 9)
	}
}
