package gpio

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/doingharm/gamepad-relay/controller"
)

// Output ties one pin to one button.
type Output struct {
	Name   string
	Button controller.ButtonIndex
	Pin    int
}

// BCM pins of the demo board.
const (
	PinLED1   = 4
	PinLED2   = 17
	PinLED3   = 22
	PinLED4   = 10
	PinLED5   = 9
	PinLED6   = 11
	PinBuzzer = 8
)

// DefaultLEDs lights one LED per face button and bumper.
func DefaultLEDs() []Output {
	return []Output{
		{Name: "led1", Button: controller.A, Pin: PinLED1},
		{Name: "led2", Button: controller.B, Pin: PinLED2},
		{Name: "led3", Button: controller.X, Pin: PinLED3},
		{Name: "led4", Button: controller.Y, Pin: PinLED4},
		{Name: "led5", Button: controller.RightBumper, Pin: PinLED5},
		{Name: "led6", Button: controller.LeftBumper, Pin: PinLED6},
	}
}

// DefaultBuzzer sounds the buzzer while Back is held.
func DefaultBuzzer() Output {
	return Output{Name: "buzzer", Button: controller.Back, Pin: PinBuzzer}
}

// Sink mirrors button state onto output pins.
type Sink struct {
	driver  Driver
	outputs []Output
	log     logrus.FieldLogger
}

// NewSink sets up every output pin on d.
func NewSink(d Driver, outputs []Output, log logrus.FieldLogger) (*Sink, error) {

	if log == nil {
		log = logrus.StandardLogger()
	}

	for _, o := range outputs {
		if err := d.Setup(o.Pin); err != nil {
			return nil, errors.Wrapf(err, "output %s", o.Name)
		}
	}

	return &Sink{
		driver:  d,
		outputs: append([]Output(nil), outputs...),
		log:     log,
	}, nil
}

// Dispatch writes every output once. A failing pin does not stop the
// others; the first failure is returned.
func (s *Sink) Dispatch(ctx context.Context, snap controller.Snapshot) error {
	var (
		first  error
		failed int
	)
	for _, o := range s.outputs {
		if err := s.driver.Set(o.Pin, levelOf(snap.Pressed(o.Button))); err != nil {
			failed++
			if first == nil {
				first = errors.Wrapf(err, "output %s", o.Name)
			}
		}
	}
	if first != nil {
		return errors.Wrapf(first, errOutputsFailed, failed, len(s.outputs))
	}
	return nil
}

// Close drives every output low and closes the driver.
func (s *Sink) Close() error {
	for _, o := range s.outputs {
		if err := s.driver.Set(o.Pin, Low); err != nil {
			s.log.WithError(err).WithField("output", o.Name).Warn("could not clear output")
		}
	}
	return s.driver.Close()
}
