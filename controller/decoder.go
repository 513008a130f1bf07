package controller

import (
	"fmt"

	"github.com/pkg/errors"

	gamepads "github.com/doingharm/gamepad-relay"
)

// Policy decides how a button event changes the button's flag.
type Policy uint8

const (
	// Level mirrors the reported value: pressed while value != 0.
	// Applying the same event twice is the same as applying it once.
	Level Policy = iota
	// Toggle flips the flag on every event whatever its value. A dropped
	// event leaves the flag inverted until the next one.
	Toggle
)

func (p Policy) String() string {
	switch p {
	case Level:
		return "level"
	case Toggle:
		return "toggle"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "level":
		return Level, nil
	case "toggle":
		return Toggle, nil
	default:
		return 0, errors.Errorf("unknown button policy '%s'", s)
	}
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(b []byte) (err error) {
	*p, err = ParsePolicy(string(b))
	return
}

// Decoder applies device events to a State.
type Decoder struct {
	Policy Policy
}

// Apply mutates s according to e and reports whether e was used.
// Indexes come from the device and are bounds checked; events for
// unknown buttons, missing axes or unknown types are ignored.
func (d Decoder) Apply(s *State, e gamepads.ControlEvent) bool {
	if e.Index < 0 {
		return false
	}

	switch e.Type {
	case gamepads.Button:
		if e.Index >= NumButtons {
			return false
		}
		switch d.Policy {
		case Toggle:
			// initial events report the state at open time, they are not presses
			if e.Initial {
				return false
			}
			s.buttons[e.Index] = !s.buttons[e.Index]
		default:
			s.buttons[e.Index] = e.Value != 0
		}
		return true

	case gamepads.Axes:
		if e.Index >= len(s.axes) {
			return false
		}
		s.axes[e.Index] = e.Value
		return true
	}

	return false
}
