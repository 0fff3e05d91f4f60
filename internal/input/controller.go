// Package input implements the standard NES controller shift register.
package input

import "strings"

// Buttons is the state of one controller, one bit per button in the order
// the shift register reports them.
type Buttons uint8

const (
	ButtonA Buttons = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

var buttonNames = [8]string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}

func (b Buttons) String() string {
	var pressed []string
	for i, name := range buttonNames {
		if b&(1<<i) != 0 {
			pressed = append(pressed, name)
		}
	}
	if len(pressed) == 0 {
		return "none"
	}
	return strings.Join(pressed, "+")
}

// Controller is a standard joypad. While strobe is high the shift register
// keeps reloading, so reads return the A button. After the strobe falls
// reads return A, B, Select, Start, Up, Down, Left, Right and then 1s.
type Controller struct {
	buttons Buttons
	shift   uint8
	index   uint8
	strobe  bool
}

func NewController() *Controller {
	return &Controller{}
}

// Set replaces the button state. It is latched on the next strobe.
func (c *Controller) Set(b Buttons) {
	c.buttons = b
	if c.strobe {
		c.latch()
	}
}

func (c *Controller) Buttons() Buttons {
	return c.buttons
}

func (c *Controller) latch() {
	c.shift = uint8(c.buttons)
	c.index = 0
}

// Read returns the next button in bit 0.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.shift & 1
	}
	if c.index >= 8 {
		return 1
	}
	value := (c.shift >> c.index) & 1
	c.index++
	return value
}

// Write sets the strobe from bit 0.
func (c *Controller) Write(data uint8) {
	c.strobe = data&1 == 1
	if c.strobe {
		c.latch()
	}
}
