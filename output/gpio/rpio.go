package gpio

import (
	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

// rpioDriver writes the BCM2835 registers through /dev/gpiomem.
type rpioDriver struct {
	pins map[int]rpio.Pin
}

func newRpioDriver() (*rpioDriver, error) {
	if err := rpio.Open(); err != nil {
		return nil, errors.Wrap(err, "rpio open failed")
	}
	return &rpioDriver{pins: make(map[int]rpio.Pin)}, nil
}

func (d *rpioDriver) Setup(pin int) error {
	if pin < 0 || pin > 53 {
		return errors.Errorf(errUnknownPin, pin)
	}
	p := rpio.Pin(pin)
	p.Output()
	p.Low()
	d.pins[pin] = p
	return nil
}

func (d *rpioDriver) Set(pin int, level Level) error {
	p, ok := d.pins[pin]
	if !ok {
		return errors.Errorf(errPinNotSetup, pin)
	}
	if level == High {
		p.Write(rpio.High)
	} else {
		p.Write(rpio.Low)
	}
	return nil
}

func (d *rpioDriver) Close() error {
	return rpio.Close()
}
