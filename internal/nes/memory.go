package nes

import (
	"github.com/nevisdale/nescore/internal/bus"
	"github.com/nevisdale/nescore/internal/register"
)

const (
	ramSizeBytes = 0x800

	oamDMAAddr   = 0x4014
	oamDataAddr  = 0x2004
	oamDMACycles = 513

	// bits 1-7 of a controller read float; most boards return the high byte of $4016
	padOpenBus = 0x40
)

// newCPUMemory builds the CPU address space.
//
// $0000-$07FF: 2 KB of internal RAM
// $0800-$1FFF: Mirrors of $0000-$07FF
// $2000-$2007: PPU (Picture Processing Unit) registers
// $2008-$3FFF: Mirrors of $2000-$2007 (every 8 bytes)
// $4000-$4017: APU (Audio Processing Unit) and I/O registers
// $4018-$401F: APU and I/O functionality that is normally disabled
// $4020-$FFFF: Cartridge space, including PRG-ROM, PRG-RAM, and mapper registers
func (c *Console) newCPUMemory() (*bus.Bus, error) {
	mem := bus.New("cpu")
	c.ram = bus.NewRAM("RAM", 0x0000, ramSizeBytes-1)

	segs := []bus.Segment{
		c.ram,
		bus.NewMirror("RAM mirror", ramSizeBytes, 0x1fff, 0x0000, ramSizeBytes),
	}
	for i, reg := range c.ppu.Registers() {
		segs = append(segs, bus.NewRegister(reg.Name, 0x2000+uint16(i), reg))
	}

	dma := bus.NewRegister("OAMDMA", oamDMAAddr, register.NewReg8("OAMDMA"))
	dma.AfterWrite = c.oamDMA

	joy1 := register.NewReg8("JOY1")
	joy1.ReadFunc = func() uint8 { return padOpenBus | c.pads[0].Read() }
	joy1.AfterWrite = c.strobe
	// writes to $4017 belong to the APU frame counter
	joy2 := register.NewReg8("JOY2")
	joy2.ReadFunc = func() uint8 { return padOpenBus | c.pads[1].Read() }

	cartridge := []*bus.External{
		bus.NewExternal("Expansion", 0x4020, 0x5fff, bus.WindowExpansion),
		bus.NewExternal("PRG RAM", 0x6000, 0x7fff, bus.WindowPRGRAM),
		bus.NewExternal("PRG ROM low", 0x8000, 0xbfff, bus.WindowPRGLow),
		bus.NewExternal("PRG ROM high", 0xc000, 0xffff, bus.WindowPRGHigh),
	}

	segs = append(segs,
		bus.NewMirror("PPU mirror", 0x2008, 0x3fff, 0x2000, 8),
		bus.NewOpen("APU", 0x4000, 0x4013),
		dma,
		bus.NewOpen("APU status", 0x4015, 0x4015),
		bus.NewRegister("JOY1", 0x4016, joy1),
		bus.NewRegister("JOY2", 0x4017, joy2),
		bus.NewOpen("Test mode", 0x4018, 0x401f),
	)
	for _, ext := range cartridge {
		segs = append(segs, ext)
	}

	for _, seg := range segs {
		if err := mem.Add(seg); err != nil {
			return nil, err
		}
	}
	for _, ext := range cartridge {
		if err := c.mapper.Attach(ext); err != nil {
			return nil, err
		}
	}
	return mem, nil
}

// strobe latches both controllers.
func (c *Console) strobe(_ uint16, data uint8) {
	for _, pad := range c.pads {
		pad.Write(data)
	}
}

// oamDMA copies page data*$100 into OAM through OAMDATA and suspends the
// CPU for 513 cycles, plus one when the writing instruction ends on an odd
// cycle.
func (c *Console) oamDMA(_ uint16, data uint8) {
	page := uint16(data) << 8
	for i := uint16(0); i < 0x100; i++ {
		c.cpuBus.WriteByte(oamDataAddr, c.cpuBus.ReadByte(page+i))
	}
	stall := oamDMACycles
	if c.cpu.EndCycle()%2 == 1 {
		stall++
	}
	c.cpu.Stall(stall)
}
