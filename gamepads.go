package gamepads

import "fmt"

// Gamepad holds information of a gamepad
type Gamepad struct {
	ID        string
	Path      string
	Model     string
	Version   int32
	Buttons   int
	ButtonMap []int
	Axes      int
	AxesMap   []int
}

func (g Gamepad) String() string {
	return fmt.Sprintf("%s (%s) driver %d.%d.%d, %d buttons, %d axes",
		g.Model, g.Path, g.Version>>16, (g.Version>>8)&0xff, g.Version&0xff, g.Buttons, g.Axes)
}
