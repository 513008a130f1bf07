package gpio

import (
	"fmt"

	"github.com/pkg/errors"
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// periphDriver addresses pins through the periph.io registry.
type periphDriver struct {
	pins map[int]pgpio.PinIO
}

func newPeriphDriver() (*periphDriver, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init failed")
	}
	return &periphDriver{pins: make(map[int]pgpio.PinIO)}, nil
}

func (d *periphDriver) Setup(pin int) error {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		return errors.Errorf(errUnknownPin, pin)
	}
	if err := p.Out(pgpio.Low); err != nil {
		return errors.Wrapf(err, "set up GPIO%d", pin)
	}
	d.pins[pin] = p
	return nil
}

func (d *periphDriver) Set(pin int, level Level) error {
	p, ok := d.pins[pin]
	if !ok {
		return errors.Errorf(errPinNotSetup, pin)
	}
	return p.Out(pgpio.Level(level == High))
}

func (d *periphDriver) Close() (err error) {
	for pin, p := range d.pins {
		if haltErr := p.Halt(); haltErr != nil && err == nil {
			err = errors.Wrapf(haltErr, "halt GPIO%d", pin)
		}
	}
	d.pins = make(map[int]pgpio.PinIO)
	return
}
