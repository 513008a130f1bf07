package controller

import "testing"

func TestNewStateKeepsTwoAxes(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 2} {
		if got := NewState(n).NumAxes(); got != 2 {
			t.Errorf("NewState(%d) has %d axes, expected 2", n, got)
		}
	}
	if got := NewState(8).NumAxes(); got != 8 {
		t.Errorf("expected 8 axes, got %d", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewState(2)
	snap := s.Snapshot()

	s.buttons[A] = true
	s.axes[0] = 9

	if snap.Buttons[A] || snap.Axes[0] != 0 {
		t.Errorf("snapshot follows the state: %v", snap)
	}

	snap.Axes[1] = 5
	if s.axes[1] != 0 {
		t.Error("writing the snapshot changed the state")
	}
}

func TestBitmask(t *testing.T) {
	tests := []struct {
		pressed []ButtonIndex
		mask    uint8
	}{
		{nil, 0x00},
		{[]ButtonIndex{A}, 0x01},
		{[]ButtonIndex{B}, 0x02},
		{[]ButtonIndex{X, Y}, 0x0c},
		{[]ButtonIndex{RightBumper}, 0x10},
		{[]ButtonIndex{LeftBumper}, 0x20},
		{[]ButtonIndex{Start}, 0x40},
		{[]ButtonIndex{Back}, 0x80},
		{[]ButtonIndex{A, B, X, Y, RightBumper, LeftBumper, Start, Back}, 0xff},
	}

	for _, tt := range tests {
		var snap Snapshot
		for _, b := range tt.pressed {
			snap.Buttons[b] = true
		}
		if got := snap.Bitmask(); got != tt.mask {
			t.Errorf("%v: expected %#02x, got %#02x", tt.pressed, tt.mask, got)
		}
	}
}

func TestParseButton(t *testing.T) {
	for i := 0; i < NumButtons; i++ {
		b := ButtonIndex(i)
		got, ok := ParseButton(b.String())
		if !ok || got != b {
			t.Errorf("ParseButton(%q) = %v, %v", b.String(), got, ok)
		}
	}
	if b, ok := ParseButton("rightbumper"); !ok || b != RightBumper {
		t.Errorf("names should be case insensitive, got %v %v", b, ok)
	}
	if _, ok := ParseButton("Select"); ok {
		t.Error("Select is not a known button")
	}
}

func TestOutOfRangeReadsAreZero(t *testing.T) {
	s := NewState(2)
	if s.Button(-1) || s.Button(NumButtons) {
		t.Error("out of range button reads as pressed")
	}
	if s.Axis(-1) != 0 || s.Axis(2) != 0 {
		t.Error("out of range axis reads non-zero")
	}
	var empty Snapshot
	if empty.RightAnalog() != 0 || empty.LeftAnalog() != 0 || empty.Pressed(Back+1) {
		t.Error("empty snapshot reads non-zero")
	}
}
