//go:build linux

package interaction

import "golang.org/x/sys/unix"

func (kr *KeyboardReader) enableRawMode() error {
	oldState, err := unix.IoctlGetTermios(kr.fd, unix.TCGETS)
	if err != nil {
		return err
	}
	kr.oldState = oldState

	raw := makeRaw(oldState)
	return unix.IoctlSetTermios(kr.fd, unix.TCSETS, &raw)
}

func (kr *KeyboardReader) disableRawMode() error {
	if kr.oldState == nil {
		return nil
	}
	return unix.IoctlSetTermios(kr.fd, unix.TCSETS, kr.oldState)
}
