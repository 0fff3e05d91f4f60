package ppu

import "github.com/nevisdale/nescore/internal/register"

// CPU-visible registers, in address order from $2000.
const (
	PPUCTRL = iota
	PPUMASK
	PPUSTATUS
	OAMADDR
	OAMDATA
	PPUSCROLL
	PPUADDR
	PPUDATA
)

var registerNames = [8]string{
	"PPUCTRL", "PPUMASK", "PPUSTATUS", "OAMADDR",
	"OAMDATA", "PPUSCROLL", "PPUADDR", "PPUDATA",
}

// PPUCTRL bits
const (
	ctrlIncrement32  = 2
	ctrlSpriteTable  = 3
	ctrlBgTable      = 4
	ctrlSpriteSize16 = 5
	ctrlNMI          = 7
)

// PPUMASK bits
const (
	maskGreyscale      = 0
	maskShowLeftBg     = 1
	maskShowLeftSprite = 2
	maskShowBg         = 3
	maskShowSprites    = 4
)

// PPUSTATUS bits
const (
	statusOverflow   = uint8(1 << 5)
	statusSpriteZero = uint8(1 << 6)
	statusVBlank     = uint8(1 << 7)
)

func (p *PPU) initRegisters() {
	for i := range p.regs {
		p.regs[i] = register.NewReg8(registerNames[i])
		p.regs[i].AfterWrite = p.latch
	}

	p.regs[PPUCTRL].AfterWrite = p.writeCtrl
	p.regs[PPUSTATUS].ReadFunc = p.readStatus
	p.regs[PPUSTATUS].AfterRead = p.afterStatusRead
	p.regs[OAMDATA].ReadFunc = p.readOAMData
	p.regs[OAMDATA].AfterWrite = p.writeOAMData
	p.regs[PPUSCROLL].AfterWrite = p.writeScroll
	p.regs[PPUADDR].AfterWrite = p.writeAddr
	p.regs[PPUDATA].ReadFunc = p.readData
	p.regs[PPUDATA].AfterRead = p.afterDataAccess
	p.regs[PPUDATA].AfterWrite = p.writeData
}

// Registers returns the eight CPU-visible registers for bridging onto the CPU bus.
func (p *PPU) Registers() [8]*register.Reg8 {
	return p.regs
}

// latch keeps the last value written to any register. It shows up in the
// unused low bits of PPUSTATUS.
func (p *PPU) latch(_ uint16, data uint8) {
	p.openBus = data
}

// $2000: PPUCTRL
func (p *PPU) writeCtrl(addr uint16, data uint8) {
	p.latch(addr, data)
	// t: ...GH.. ........ <- d: ......GH
	p.t.setNametable(data)
	p.nmiChange()
}

func (p *PPU) ctrl(bit uint) bool {
	return p.regs[PPUCTRL].Bit(bit)
}

func (p *PPU) mask(bit uint) bool {
	return p.regs[PPUMASK].Bit(bit)
}

func (p *PPU) increment() uint16 {
	if p.ctrl(ctrlIncrement32) {
		return 32
	}
	return 1
}

// Rendering reports whether background or sprite rendering is enabled.
func (p *PPU) Rendering() bool {
	return p.mask(maskShowBg) || p.mask(maskShowSprites)
}

// $2002: PPUSTATUS
func (p *PPU) readStatus() uint8 {
	return p.status&0xe0 | p.openBus&0x1f
}

// Reading PPUSTATUS clears vblank and the write toggle.
func (p *PPU) afterStatusRead(uint16, uint8) {
	p.status &^= statusVBlank
	p.w = false
	p.nmiChange()
}

// $2004: OAMDATA
func (p *PPU) readOAMData() uint8 {
	addr := p.regs[OAMADDR].Value
	data := p.oam[addr]
	if addr&0x03 == 0x02 {
		// unimplemented attribute bits read back as 0
		data &= 0xe3
	}
	return data
}

func (p *PPU) writeOAMData(addr uint16, data uint8) {
	p.latch(addr, data)
	oamAddr := p.regs[OAMADDR]
	p.oam[oamAddr.Value] = data
	oamAddr.Value++
}

// $2005: PPUSCROLL, two writes
func (p *PPU) writeScroll(addr uint16, data uint8) {
	p.latch(addr, data)
	if !p.w {
		// t: ....... ...ABCDE <- d: ABCDE...
		// x:              FGH <- d: .....FGH
		p.t.setCoarseX(data >> 3)
		p.x = data & 0x07
	} else {
		// t: FGH..AB CDE..... <- d: ABCDEFGH
		p.t.setFineY(data & 0x07)
		p.t.setCoarseY(data >> 3)
	}
	p.w = !p.w
}

// $2006: PPUADDR, two writes, high byte first
func (p *PPU) writeAddr(addr uint16, data uint8) {
	p.latch(addr, data)
	if !p.w {
		p.t.setHi(data)
	} else {
		p.t.setLo(data)
		p.v.Value = p.t.Value
	}
	p.w = !p.w
}

// $2007: PPUDATA. Reads below the palette return the previous read and
// refill the buffer. Palette reads are immediate and refill the buffer
// with the nametable byte underneath.
func (p *PPU) readData() uint8 {
	addr := p.v.Value & 0x3fff
	if addr < 0x3f00 {
		data := p.buffer
		p.buffer = p.mem.ReadByte(addr)
		return data
	}
	p.buffer = p.mem.ReadByte(addr - 0x1000)
	return p.mem.ReadByte(addr)
}

func (p *PPU) afterDataAccess(uint16, uint8) {
	p.v.Value = (p.v.Value + p.increment()) & 0x7fff
}

func (p *PPU) writeData(addr uint16, data uint8) {
	p.latch(addr, data)
	p.mem.WriteByte(p.v.Value&0x3fff, data)
	p.afterDataAccess(addr, data)
}
