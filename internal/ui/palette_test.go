package ui

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaint(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	paint(img, []uint8{0x0f, 0x30, 0x16, 0x70})

	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0xfc, 0xfc, 0xfc, 0xff}, img.RGBAAt(1, 0))
	assert.Equal(t, Palette[0x16], img.RGBAAt(0, 1))
	assert.Equal(t, Palette[0x30], img.RGBAAt(1, 1), "upper bits are ignored")
}
