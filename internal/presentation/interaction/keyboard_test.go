package interaction

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected *KeyEvent
	}{
		{name: "regular char", input: []byte{'p'}, expected: &KeyEvent{Key: 'p', Type: KeyChar}},
		{name: "space", input: []byte{' '}, expected: &KeyEvent{Key: ' ', Type: KeyChar}},
		{name: "escape", input: []byte{27}, expected: &KeyEvent{Key: 27, Type: KeyEscape}},
		{name: "ctrl c", input: []byte{3}, expected: &KeyEvent{Key: 3, Type: KeyInterrupt}},
		{name: "left arrow", input: []byte{27, '[', 'D'}, expected: &KeyEvent{Type: KeyLeft}},
		{name: "right arrow", input: []byte{27, '[', 'C'}, expected: &KeyEvent{Type: KeyRight}},
		{name: "up arrow", input: []byte{27, '[', 'A'}, expected: &KeyEvent{Type: KeyUp}},
		{name: "down arrow", input: []byte{27, '[', 'B'}, expected: &KeyEvent{Type: KeyDown}},
		{name: "unknown sequence", input: []byte{27, 'O', 'P'}},
		{name: "empty", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := parseInput(tt.input)
			if tt.expected == nil {
				assert.Nil(t, event)
				return
			}
			require.NotNil(t, event)
			assert.Equal(t, *tt.expected, *event)
		})
	}
}

func TestReaderKeyboardDeliversEvents(t *testing.T) {
	r, w := io.Pipe()
	kr := NewReaderKeyboard(r)
	defer kr.Close()

	go func() {
		_, _ = w.Write([]byte{' '})
		_, _ = w.Write([]byte{27, '[', 'C'})
		_ = w.Close()
	}()

	want := []KeyEvent{{Key: ' ', Type: KeyChar}, {Type: KeyRight}}
	for _, expected := range want {
		select {
		case ev := <-kr.Events():
			assert.Equal(t, expected, ev)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for key event")
		}
	}
}

func TestReaderKeyboardCloseIsIdempotent(t *testing.T) {
	r, w := io.Pipe()
	kr := NewReaderKeyboard(r)
	assert.NoError(t, kr.Close())
	assert.NoError(t, kr.Close())
	_ = w.Close()
}
