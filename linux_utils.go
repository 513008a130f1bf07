//go:build linux

package gamepads

import (
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// linuxEventType is an enumeration of the device node kinds found in /dev/input.
type linuxEventType uint8

const (
	irrelevantEventType linuxEventType = iota
	gamepadEventType
)

func extractFromBytes(src []byte) (t linuxEventType, name string, ok bool) {
	name = escapeString(src)
	if !strings.HasPrefix(name, "js") || len(name) == 2 {
		return irrelevantEventType, "", false
	}
	for _, c := range name[2:] {
		if c < '0' || c > '9' {
			return irrelevantEventType, "", false
		}
	}
	return gamepadEventType, name, true
}

func parseButtonsMap(mp [768]uint16, count int) (dest []int) {
	if count > len(mp) {
		count = len(mp)
	}
	for _, m := range mp[:count] {
		dest = append(dest, int(m))
	}
	return
}

func parseAxesMap(mp [64]uint8, count int) (dest []int) {
	if count > len(mp) {
		count = len(mp)
	}
	for _, m := range mp[:count] {
		dest = append(dest, int(m))
	}
	return
}

// waitReadable blocks until fd is readable or timeout expires. A negative
// timeout waits forever.
func waitReadable(fd int, timeout time.Duration) (bool, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
		if ms == 0 && timeout > 0 {
			ms = 1
		}
	}
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
}
