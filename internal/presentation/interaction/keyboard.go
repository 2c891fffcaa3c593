package interaction

import (
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// KeyboardReader delivers key presses from a terminal in raw mode.
type KeyboardReader struct {
	oldState *unix.Termios
	fd       int
	in       io.Reader
	input    chan KeyEvent
	stop     chan struct{}
	once     sync.Once
}

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyInterrupt
)

const (
	ctrlC byte = 3
	esc   byte = 27
)

// NewKeyboardReader puts stdin in raw mode and starts reading it.
func NewKeyboardReader() (*KeyboardReader, error) {
	kr := newKeyboardReader(os.Stdin)
	kr.fd = int(os.Stdin.Fd())
	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}
	go kr.readInput()
	return kr, nil
}

// NewReaderKeyboard reads key presses from r without touching terminal
// state. Used for piped input.
func NewReaderKeyboard(r io.Reader) *KeyboardReader {
	kr := newKeyboardReader(r)
	go kr.readInput()
	return kr
}

func newKeyboardReader(r io.Reader) *KeyboardReader {
	return &KeyboardReader{
		fd:    -1,
		in:    r,
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}
}

func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 3)
	for {
		n, err := kr.in.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}

		event := parseInput(buf[:n])
		if event == nil {
			continue
		}
		select {
		case kr.input <- *event:
		case <-kr.stop:
			return
		}
	}
}

// parseInput decodes one read from the terminal. Arrow keys arrive as
// ESC [ A..D.
func parseInput(buf []byte) *KeyEvent {
	if len(buf) == 0 {
		return nil
	}

	if buf[0] == ctrlC {
		return &KeyEvent{Key: rune(ctrlC), Type: KeyInterrupt}
	}

	if buf[0] == esc {
		if len(buf) == 1 {
			return &KeyEvent{Key: rune(esc), Type: KeyEscape}
		}
		if len(buf) >= 3 && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				return &KeyEvent{Type: KeyUp}
			case 'B':
				return &KeyEvent{Type: KeyDown}
			case 'C':
				return &KeyEvent{Type: KeyRight}
			case 'D':
				return &KeyEvent{Type: KeyLeft}
			}
		}
		return nil
	}

	return &KeyEvent{Key: rune(buf[0]), Type: KeyChar}
}

// Events returns the keyboard event channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops delivering events and restores the terminal.
func (kr *KeyboardReader) Close() error {
	kr.once.Do(func() { close(kr.stop) })
	if kr.fd < 0 {
		return nil
	}
	return kr.disableRawMode()
}

// makeRaw derives the raw-mode termios from the current state. ISIG stays
// on so Ctrl+C still raises SIGINT.
func makeRaw(old *unix.Termios) unix.Termios {
	raw := *old
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	return raw
}
