// Package controller holds the accumulated state of a gamepad and the
// decoder that turns device events into state changes.
package controller

import (
	"fmt"
	"strings"
)

// ButtonIndex addresses one of the eight named buttons.
type ButtonIndex int

const (
	A ButtonIndex = iota
	B
	X
	Y
	RightBumper
	LeftBumper
	Start
	Back

	NumButtons = 8
)

var buttonNames = [NumButtons]string{
	"A", "B", "X", "Y", "RightBumper", "LeftBumper", "Start", "Back",
}

func (b ButtonIndex) String() string {
	if b < 0 || int(b) >= NumButtons {
		return fmt.Sprintf("Button(%d)", int(b))
	}
	return buttonNames[b]
}

// ParseButton accepts a button name (case insensitive).
func ParseButton(name string) (ButtonIndex, bool) {
	for i, n := range buttonNames {
		if strings.EqualFold(n, name) {
			return ButtonIndex(i), true
		}
	}
	return 0, false
}

const (
	RightAnalog = 0
	LeftAnalog  = 1

	minAxes = 2
)

// State is the accumulated value of every button and axis. It has a
// single owner; consumers get a Snapshot.
type State struct {
	buttons [NumButtons]bool
	axes    []int16
}

// NewState returns a zeroed state with room for axes axes. Fewer than two
// are rounded up so RightAnalog and LeftAnalog always exist.
func NewState(axes int) *State {
	if axes < minAxes {
		axes = minAxes
	}
	return &State{axes: make([]int16, axes)}
}

func (s *State) Button(b ButtonIndex) bool {
	if b < 0 || int(b) >= NumButtons {
		return false
	}
	return s.buttons[b]
}

func (s *State) Axis(i int) int16 {
	if i < 0 || i >= len(s.axes) {
		return 0
	}
	return s.axes[i]
}

func (s *State) NumAxes() int {
	return len(s.axes)
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	axes := make([]int16, len(s.axes))
	copy(axes, s.axes)
	return Snapshot{Buttons: s.buttons, Axes: axes}
}

// Snapshot is a read-only copy of State handed to output sinks.
type Snapshot struct {
	Buttons [NumButtons]bool
	Axes    []int16
}

// Bitmask packs the buttons into one byte, bit i for button i.
func (s Snapshot) Bitmask() uint8 {
	var m uint8
	for i, pressed := range s.Buttons {
		if pressed {
			m |= 1 << uint(i)
		}
	}
	return m
}

func (s Snapshot) Pressed(b ButtonIndex) bool {
	if b < 0 || int(b) >= NumButtons {
		return false
	}
	return s.Buttons[b]
}

func (s Snapshot) RightAnalog() int16 {
	if len(s.Axes) <= RightAnalog {
		return 0
	}
	return s.Axes[RightAnalog]
}

func (s Snapshot) LeftAnalog() int16 {
	if len(s.Axes) <= LeftAnalog {
		return 0
	}
	return s.Axes[LeftAnalog]
}

// Equal reports whether both snapshots hold the same values.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Buttons != o.Buttons || len(s.Axes) != len(o.Axes) {
		return false
	}
	for i := range s.Axes {
		if s.Axes[i] != o.Axes[i] {
			return false
		}
	}
	return true
}

func (s Snapshot) String() string {
	var sb strings.Builder
	sb.WriteString("buttons[")
	for i, pressed := range s.Buttons {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if pressed {
			sb.WriteString(buttonNames[i])
		} else {
			sb.WriteByte('-')
		}
	}
	fmt.Fprintf(&sb, "] axes%v", s.Axes)
	return sb.String()
}
