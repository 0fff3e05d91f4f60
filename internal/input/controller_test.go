package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func readAll(c *Controller, n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = c.Read()
	}
	return out
}

func TestController_ShiftOrder(t *testing.T) {
	c := NewController()
	c.Set(ButtonA | ButtonStart | ButtonLeft)

	c.Write(1)
	c.Write(0)

	assert.Equal(t, []uint8{1, 0, 0, 1, 0, 0, 1, 0, 1, 1}, readAll(c, 10))
}

func TestController_StrobeHighReturnsA(t *testing.T) {
	c := NewController()
	c.Set(ButtonA)
	c.Write(1)
	assert.Equal(t, []uint8{1, 1, 1}, readAll(c, 3))

	c.Set(ButtonB)
	assert.Equal(t, uint8(0), c.Read(), "state is reloaded while strobe is high")
}

func TestController_LatchedUntilNextStrobe(t *testing.T) {
	c := NewController()
	c.Set(ButtonRight)
	c.Write(1)
	c.Write(0)
	c.Set(ButtonA)

	assert.Equal(t, []uint8{0, 0, 0, 0, 0, 0, 0, 1}, readAll(c, 8))

	c.Write(1)
	c.Write(0)
	assert.Equal(t, uint8(1), c.Read())
}

func TestButtons_String(t *testing.T) {
	assert.Equal(t, "none", Buttons(0).String())
	assert.Equal(t, "A+Start+Right", (ButtonA | ButtonStart | ButtonRight).String())
}
