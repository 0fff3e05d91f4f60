package ppu

import (
	"fmt"

	"github.com/nevisdale/nescore/internal/bus"
)

const PatternTableSize = 128

// PatternTable draws the 256 tiles of pattern table 0 or 1 as a 16x16 grid
// using palette pal (0-7). Values are palette entries, like a Framebuffer.
func (p *PPU) PatternTable(table int, pal uint8) (img [PatternTableSize * PatternTableSize]uint8, err error) {
	defer bus.Recover(&err)

	base := uint16(table&1) * 0x1000
	for tile := uint16(0); tile < 256; tile++ {
		tx, ty := int(tile%16)*8, int(tile/16)*8
		for row := uint16(0); row < 8; row++ {
			lo := p.mem.ReadByte(base + tile*16 + row)
			hi := p.mem.ReadByte(base + tile*16 + row + 8)
			for col := 0; col < 8; col++ {
				pixel := (lo>>7)&1 | (hi>>6)&2
				lo <<= 1
				hi <<= 1
				img[(ty+int(row))*PatternTableSize+tx+col] = p.palette.color((pal&7)<<2 | pixel)
			}
		}
	}
	return img, nil
}

// State is a snapshot of the PPU for debug views.
type State struct {
	Scanline int
	Dot      int
	Frame    uint64
	Ctrl     uint8
	Mask     uint8
	Status   uint8
	V        uint16
	T        uint16
	X        uint8
	W        bool
}

func (s State) String() string {
	return fmt.Sprintf("LINE:%d DOT:%d FRAME:%d CTRL:%02X MASK:%02X STATUS:%02X V:%04X T:%04X X:%d W:%v",
		s.Scanline, s.Dot, s.Frame, s.Ctrl, s.Mask, s.Status, s.V, s.T, s.X, s.W)
}

func (p *PPU) State() State {
	return State{
		Scanline: p.scanline,
		Dot:      p.dot,
		Frame:    p.frame,
		Ctrl:     p.regs[PPUCTRL].Value,
		Mask:     p.regs[PPUMASK].Value,
		Status:   p.status,
		V:        p.v.Value,
		T:        p.t.Value,
		X:        p.x,
		W:        p.w,
	}
}
