//go:build darwin

package interaction

import "golang.org/x/sys/unix"

// enableRawMode sets the terminal to raw mode on Darwin/macOS
func (kr *KeyboardReader) enableRawMode() error {
	oldState, err := unix.IoctlGetTermios(kr.fd, unix.TIOCGETA)
	if err != nil {
		return err
	}
	kr.oldState = oldState

	raw := makeRaw(oldState)
	return unix.IoctlSetTermios(kr.fd, unix.TIOCSETA, &raw)
}

// disableRawMode restores the terminal to normal mode on Darwin/macOS
func (kr *KeyboardReader) disableRawMode() error {
	if kr.oldState == nil {
		return nil
	}
	return unix.IoctlSetTermios(kr.fd, unix.TIOCSETA, kr.oldState)
}
