package gamepads

import "github.com/pkg/errors"

const (
	errOsNotSupported = "os is not supported (yet)"
	errShortFrame     = "short joystick frame"
	errNotJoystick    = "'%s' is not a joystick device"
	errClosed         = "joystick is closed"
)

var (
	ErrOsNotSupported = errors.New(errOsNotSupported)
	ErrShortFrame     = errors.New(errShortFrame)
	ErrClosed         = errors.New(errClosed)
)
