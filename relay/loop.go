// Package relay runs the read, decode and dispatch loop that connects a
// gamepad to an output sink.
package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	gamepads "github.com/doingharm/gamepad-relay"
	"github.com/doingharm/gamepad-relay/controller"
)

// Cadence decides when the sink sees the state.
type Cadence uint8

const (
	// Immediate dispatches after every applied event.
	Immediate Cadence = iota
	// Interval dispatches the latest state once per period.
	Interval
)

func (c Cadence) String() string {
	switch c {
	case Immediate:
		return "immediate"
	case Interval:
		return "interval"
	default:
		return fmt.Sprintf("Cadence(%d)", uint8(c))
	}
}

func ParseCadence(s string) (Cadence, error) {
	switch s {
	case "immediate":
		return Immediate, nil
	case "interval":
		return Interval, nil
	default:
		return 0, errors.Errorf(errUnknownCadence, s)
	}
}

func (c Cadence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cadence) UnmarshalText(b []byte) (err error) {
	*c, err = ParseCadence(string(b))
	return
}

// Sink consumes snapshots. It must not keep the snapshot past the call.
type Sink interface {
	Dispatch(ctx context.Context, s controller.Snapshot) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, s controller.Snapshot) error

func (f SinkFunc) Dispatch(ctx context.Context, s controller.Snapshot) error {
	return f(ctx, s)
}

// defaultWait bounds each wait on the source so cancellation is noticed.
const defaultWait = 250 * time.Millisecond

// Options configure a Loop.
type Options struct {
	Cadence  Cadence
	Interval time.Duration
	Decoder  controller.Decoder
	Logger   logrus.FieldLogger

	// Wait bounds a single wait on the source. Zero means 250ms.
	Wait time.Duration
	// Now replaces time.Now in tests.
	Now func() time.Time
}

// Loop owns the controller state. Everything happens on the goroutine
// calling Run: reading, decoding, periodic ticks and dispatch.
type Loop struct {
	source  gamepads.Source
	sink    Sink
	state   *controller.State
	decoder controller.Decoder
	cadence Cadence
	period  time.Duration
	wait    time.Duration
	log     logrus.FieldLogger
	now     func() time.Time
}

// New builds a loop over a state with room for axes axes.
func New(source gamepads.Source, sink Sink, axes int, opts Options) (*Loop, error) {

	if opts.Cadence != Immediate && opts.Cadence != Interval {
		return nil, errors.Errorf(errUnknownCadence, opts.Cadence)
	}
	if opts.Cadence == Interval && opts.Interval <= 0 {
		return nil, errors.Errorf(errNoInterval, opts.Interval)
	}

	l := &Loop{
		source:  source,
		sink:    sink,
		state:   controller.NewState(axes),
		decoder: opts.Decoder,
		cadence: opts.Cadence,
		period:  opts.Interval,
		wait:    opts.Wait,
		log:     opts.Logger,
		now:     opts.Now,
	}
	if l.wait <= 0 {
		l.wait = defaultWait
	}
	if l.log == nil {
		l.log = logrus.StandardLogger()
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l, nil
}

// Snapshot returns a copy of the current state.
func (l *Loop) Snapshot() controller.Snapshot {
	return l.state.Snapshot()
}

// Run processes events until the context ends or the source fails.
// Cancellation returns nil; a source failure returns *InputReadError and
// nothing more is dispatched.
func (l *Loop) Run(ctx context.Context) error {

	next := l.now().Add(l.period)

	for {

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		wait := l.wait
		if l.cadence == Interval {
			now := l.now()
			if !now.Before(next) {
				l.dispatch(ctx)
				next = next.Add(l.period)
				if !now.Before(next) {
					// fell behind, skip the missed ticks
					next = now.Add(l.period)
				}
				continue
			}
			if until := next.Sub(now); until < wait {
				wait = until
			}
		}

		e, ok, err := l.source.Next(wait)
		if err != nil {
			return &InputReadError{Err: err}
		}
		if !ok {
			continue
		}

		if !l.decoder.Apply(l.state, e) {
			l.log.WithField("event", e).Debug("ignored event")
			continue
		}

		if l.cadence == Immediate {
			l.dispatch(ctx)
		}
	}
}

func (l *Loop) dispatch(ctx context.Context) {
	snap := l.state.Snapshot()
	if err := l.sink.Dispatch(ctx, snap); err != nil {
		l.log.WithError(&OutputError{Err: err}).WithField("state", snap).Error("dispatch failed")
	}
}
