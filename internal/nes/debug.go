package nes

import (
	"fmt"

	"github.com/nevisdale/nescore/internal/cpu"
	"github.com/nevisdale/nescore/internal/ppu"
)

// DebugInfo is a snapshot of the machine for debug views.
type DebugInfo struct {
	cpu.Registers
	Cycles uint64
	PPU    ppu.State
	Mapper string
}

// StatusString renders P as NVUBDIZC with unset flags in lower case.
func (d DebugInfo) StatusString() string {
	const names = "NVUBDIZC"
	out := []byte("nvubdizc")
	for i := range out {
		if d.P&(0x80>>i) != 0 {
			out[i] = names[i]
		}
	}
	return string(out)
}

func (d DebugInfo) String() string {
	return fmt.Sprintf("%s CYC:%d %s mapper=%s", d.Registers, d.Cycles, d.PPU, d.Mapper)
}

func (c *Console) DebugInfo() DebugInfo {
	return DebugInfo{
		Registers: c.cpu.Registers(),
		Cycles:    c.cpu.Cycles(),
		PPU:       c.ppu.State(),
		Mapper:    c.mapper.Name(),
	}
}

// Disassemble decodes the program between from and to without side
// effects on the PPU registers.
func (c *Console) Disassemble(from, to uint16) (map[uint16]string, error) {
	return cpu.Disassemble(sideEffectFree{c}, from, to)
}

// PatternTable renders pattern table 0 or 1 with palette pal.
func (c *Console) PatternTable(table int, pal uint8) ([ppu.PatternTableSize * ppu.PatternTableSize]uint8, error) {
	return c.ppu.PatternTable(table, pal)
}

// PaletteEntry returns one of the 32 palette RAM entries.
func (c *Console) PaletteEntry(i uint8) uint8 {
	return c.ppu.Bus().ReadByte(0x3f00 + uint16(i&0x1f))
}

// sideEffectFree reads CPU memory for debugging. Register addresses read
// as 0 so a disassembly never clears flags or advances the PPU address.
type sideEffectFree struct {
	c *Console
}

func (s sideEffectFree) Read8(addr uint16) uint8 {
	if addr >= 0x2000 && addr < 0x4020 {
		return 0
	}
	return s.c.cpuBus.ReadByte(addr)
}
