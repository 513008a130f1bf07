package gamepads

import (
	"fmt"
	"time"
)

type ControlType uint8

const (
	Button       ControlType = 0x01
	Axes         ControlType = 0x02
	InitialState ControlType = 0x80
)

func (t ControlType) String() string {
	switch t {
	case Button:
		return "button"
	case Axes:
		return "axis"
	default:
		return fmt.Sprintf("unknown(%#x)", uint8(t))
	}
}

// ControlEvent is one change reported by the device: an axis moved or a
// button was pressed or released.
type ControlEvent struct {
	Timestamp uint32
	Type      ControlType
	Index     int
	Value     int16
	// Initial is set for the synthetic events the kernel emits right after
	// the device is opened to report its current state.
	Initial bool
}

func (e ControlEvent) String() string {
	if e.Initial {
		return fmt.Sprintf("%v(%d)=%d init", e.Type, e.Index, e.Value)
	}
	return fmt.Sprintf("%v(%d)=%d", e.Type, e.Index, e.Value)
}

// Source produces control events one at a time.
//
// Next waits up to timeout for the next event; a negative timeout waits
// forever. ok is false when the timeout expired without an event. Any
// error is fatal for the source.
type Source interface {
	Next(timeout time.Duration) (e ControlEvent, ok bool, err error)
}
