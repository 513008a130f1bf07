package gpio

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LogDriver drives no hardware. It remembers pin levels and logs every
// change, which is enough to run the relay on a desktop.
type LogDriver struct {
	mu     sync.Mutex
	log    logrus.FieldLogger
	levels map[int]Level
}

func NewLogDriver(log logrus.FieldLogger) *LogDriver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogDriver{log: log, levels: make(map[int]Level)}
}

func (d *LogDriver) Setup(pin int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.levels[pin] = Low
	return nil
}

func (d *LogDriver) Set(pin int, level Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev, ok := d.levels[pin]
	if !ok {
		return errors.Errorf(errPinNotSetup, pin)
	}
	if prev != level {
		d.log.WithFields(logrus.Fields{"pin": pin, "level": level}).Info("gpio")
	}
	d.levels[pin] = level
	return nil
}

// Level returns the last level written to pin.
func (d *LogDriver) Level(pin int) Level {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.levels[pin]
}

func (d *LogDriver) Close() error {
	return nil
}
