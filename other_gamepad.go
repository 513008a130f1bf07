//go:build !linux

package gamepads

import (
	"context"
	"time"
)

// Device is an open joystick node. Only Linux joystick nodes are
// supported.
type Device struct{}

func Open(path string) (*Device, error) {
	return nil, ErrOsNotSupported
}

func (d *Device) Info() Gamepad {
	return Gamepad{}
}

func (d *Device) Next(timeout time.Duration) (ControlEvent, bool, error) {
	return ControlEvent{}, false, ErrOsNotSupported
}

func (d *Device) Close() error {
	return ErrOsNotSupported
}

func Scan(dir string) ([]Gamepad, error) {
	return nil, ErrOsNotSupported
}

func WaitForDevice(ctx context.Context, path string) error {
	return ErrOsNotSupported
}
