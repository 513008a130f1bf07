// Package gpio drives LEDs and a buzzer from the gamepad buttons.
package gpio

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Level uint8

const (
	Low Level = iota
	High
)

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

func levelOf(pressed bool) Level {
	if pressed {
		return High
	}
	return Low
}

// Driver is the pin capability the sink needs. Pins are BCM numbers.
type Driver interface {
	// Setup configures pin as an output, driven low.
	Setup(pin int) error
	// Set drives pin to level. Setting the current level again is harmless.
	Set(pin int, level Level) error
	Close() error
}

// Driver names accepted by NewDriver.
const (
	DriverPeriph = "periph"
	DriverRpio   = "rpio"
	DriverLog    = "log"
)

// NewDriver opens the named driver.
func NewDriver(name string, log logrus.FieldLogger) (Driver, error) {
	switch name {
	case DriverPeriph:
		d, err := newPeriphDriver()
		if err != nil {
			return nil, err
		}
		return d, nil
	case DriverRpio:
		d, err := newRpioDriver()
		if err != nil {
			return nil, err
		}
		return d, nil
	case DriverLog:
		return NewLogDriver(log), nil
	default:
		return nil, errors.Errorf(errUnknownDriver, name)
	}
}
