package ppu

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/nevisdale/nescore/internal/bus"
	"github.com/nevisdale/nescore/internal/register"
)

const (
	Width  = 256
	Height = 240

	DotsPerLine   = 341
	LinesPerFrame = 262

	preRenderLine = -1
	vblankLine    = 241
	lastLine      = 260
)

// Framebuffer holds one palette value (0-63) per pixel, row by row.
type Framebuffer [Width * Height]uint8

type PPU struct {
	mem     *bus.Bus
	nt      *nametables
	palette *palette

	regs    [8]*register.Reg8
	status  uint8
	openBus uint8
	buffer  uint8
	oam     [0x100]uint8

	// internal registers
	v loopy
	t loopy
	x uint8 // fine X scroll
	w bool  // write toggle

	scanline int
	dot      int
	frame    uint64

	nmiPrevious bool
	nmiPending  bool

	// background pipeline
	nameTableByte uint8
	attrTableByte uint8
	lowTileByte   uint8
	highTileByte  uint8
	tileData      uint64

	// sprites of the current line
	spriteCount      int
	spritePatterns   [8]uint32
	spritePositions  [8]uint8
	spritePriorities [8]uint8
	spriteIndexes    [8]uint8

	front *Framebuffer
	back  *Framebuffer
}

// New builds the PPU and its memory map. The pattern table windows are
// attached to chr.
func New(c Cartridge, chr Attacher) (*PPU, error) {
	mem, nt, pal, err := newMemory(c, chr)
	if err != nil {
		return nil, fmt.Errorf("ppu memory map: %w", err)
	}
	p := &PPU{
		mem:     mem,
		nt:      nt,
		palette: pal,
		v:       newLoopy("v"),
		t:       newLoopy("t"),
		front:   &Framebuffer{},
		back:    &Framebuffer{},
	}
	p.initRegisters()
	p.PowerOn()
	return p, nil
}

// PowerOn clears all state and positions the PPU on the pre-render line.
func (p *PPU) PowerOn() {
	for _, r := range p.regs {
		r.Value = 0
	}
	p.status = 0
	p.openBus = 0
	p.buffer = 0
	clear(p.oam[:])
	p.nt.clear()
	clear(p.palette.data[:])
	p.v.Value, p.t.Value = 0, 0
	p.x, p.w = 0, false
	p.scanline, p.dot = preRenderLine, 0
	p.frame = 0
	p.nmiPrevious, p.nmiPending = false, false
	p.tileData = 0
	p.spriteCount = 0
	clear(p.front[:])
	clear(p.back[:])
	glog.V(1).Info("ppu: power on")
}

// Reset clears the control registers and the write toggle. Memory and the
// frame counter are kept.
func (p *PPU) Reset() {
	p.regs[PPUCTRL].Value = 0
	p.regs[PPUMASK].Value = 0
	p.buffer = 0
	p.w = false
	p.scanline, p.dot = preRenderLine, 0
	p.nmiPrevious, p.nmiPending = false, false
}

// Bus returns the PPU memory map.
func (p *PPU) Bus() *bus.Bus {
	return p.mem
}

func (p *PPU) Scanline() int {
	return p.scanline
}

func (p *PPU) Dot() int {
	return p.dot
}

func (p *PPU) FrameNumber() uint64 {
	return p.frame
}

// Frame returns the last completed frame. It is overwritten when the next
// frame completes.
func (p *PPU) Frame() *Framebuffer {
	return p.front
}

// OAM returns the sprite memory.
func (p *PPU) OAM() []uint8 {
	return p.oam[:]
}

func (p *PPU) VBlank() bool {
	return p.status&statusVBlank != 0
}

// PollNMI reports and consumes a pending NMI edge.
func (p *PPU) PollNMI() bool {
	pending := p.nmiPending
	p.nmiPending = false
	return pending
}

// nmiChange raises an NMI on the rising edge of vblank && PPUCTRL.7.
func (p *PPU) nmiChange() {
	nmi := p.ctrl(ctrlNMI) && p.VBlank()
	if nmi && !p.nmiPrevious {
		p.nmiPending = true
	}
	p.nmiPrevious = nmi
}

func (p *PPU) setVBlank() {
	p.status |= statusVBlank
	p.nmiChange()
}

func (p *PPU) clearVBlank() {
	p.status &^= statusVBlank | statusSpriteZero | statusOverflow
	p.nmiChange()
}

// advance moves to the next dot. The pre-render line of odd frames is one
// dot shorter while rendering is enabled.
func (p *PPU) advance() {
	if p.scanline == preRenderLine && p.dot == 339 && p.frame&1 == 1 && p.Rendering() {
		p.scanline, p.dot = 0, 0
		return
	}

	p.dot++
	if p.dot < DotsPerLine {
		return
	}
	p.dot = 0
	p.scanline++
	if p.scanline > lastLine {
		p.scanline = preRenderLine
		p.frame++
		*p.front = *p.back
	}
}

// Step runs one PPU dot.
func (p *PPU) Step() {
	rendering := p.Rendering()
	preLine := p.scanline == preRenderLine
	visibleLine := p.scanline >= 0 && p.scanline < Height
	renderLine := preLine || visibleLine

	visibleDot := p.dot >= 1 && p.dot <= 256
	prefetchDot := p.dot >= 321 && p.dot <= 336
	fetchDot := visibleDot || prefetchDot

	if visibleLine && visibleDot {
		if rendering {
			p.renderPixel()
		} else {
			p.back[p.scanline*Width+p.dot-1] = p.greyscale(p.palette.color(0))
		}
	}

	if rendering && renderLine {
		if fetchDot {
			p.tileData <<= 4
			switch p.dot % 8 {
			case 1:
				p.fetchNameTableByte()
			case 3:
				p.fetchAttrTableByte()
			case 5:
				p.fetchLowTileByte()
			case 7:
				p.fetchHighTileByte()
			case 0:
				p.storeTileData()
				p.v.incrementX()
			}
		}
		if p.dot == 256 {
			p.v.incrementY()
		}
		if p.dot == 257 {
			p.v.copyX(&p.t)
		}
		if preLine && p.dot >= 280 && p.dot <= 304 {
			p.v.copyY(&p.t)
		}
	}

	if rendering && p.dot == 257 {
		if visibleLine {
			p.evaluateSprites()
		} else {
			p.spriteCount = 0
		}
	}

	if p.scanline == vblankLine && p.dot == 1 {
		p.setVBlank()
	}
	if preLine && p.dot == 1 {
		p.clearVBlank()
	}

	p.advance()
}
