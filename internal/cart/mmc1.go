package cart

import (
	"github.com/golang/glog"
	"github.com/nevisdale/nescore/internal/bus"
)

// MMC1 (mapper 1, SxROM) loads its registers through a 5-bit serial port at
// $8000-$FFFF. Bit 0 of each write is shifted in, LSB first; the fifth
// write commits the value to the register selected by the address.
type MMC1 struct {
	board

	load  uint8
	count uint8

	control  uint8
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8
}

func newMMC1(c *Cartridge) *MMC1 {
	m := &MMC1{board: newBoard("MMC1", c)}
	m.control = 0x0C
	m.updateBanks()
	return m
}

func (m *MMC1) Attach(seg *bus.External) error {
	return m.attach(seg, m, allWindows...)
}

func (m *MMC1) Read(addr uint16) uint8 {
	return m.read(addr)
}

func (m *MMC1) Write(addr uint16, data uint8) {
	if m.write(addr, data) {
		return
	}

	if data&0x80 != 0 {
		m.load = 0
		m.count = 0
		m.writeControl(m.control | 0x0C)
		return
	}

	m.load |= (data & 0x1) << m.count
	m.count++
	if m.count < 5 {
		return
	}

	value := m.load
	m.load = 0
	m.count = 0
	switch {
	case addr <= 0x9FFF:
		m.writeControl(value)
	case addr <= 0xBFFF:
		m.chrBank0 = value
		m.updateBanks()
	case addr <= 0xDFFF:
		m.chrBank1 = value
		m.updateBanks()
	default:
		m.prgBank = value & 0x0F
		m.updateBanks()
	}
}

// LoadRegister returns the bits shifted in so far.
func (m *MMC1) LoadRegister() uint8 {
	return m.load
}

// WriteCount returns how many bits the load register holds.
func (m *MMC1) WriteCount() uint8 {
	return m.count
}

func (m *MMC1) writeControl(value uint8) {
	m.control = value
	switch value & 0x3 {
	case 0:
		m.cart.SetMirroring(MirrorSingleLower)
	case 1:
		m.cart.SetMirroring(MirrorSingleUpper)
	case 2:
		m.cart.SetMirroring(MirrorVertical)
	case 3:
		m.cart.SetMirroring(MirrorHorizontal)
	}
	m.updateBanks()
	glog.V(1).Infof("MMC1: control %05b, %s mirroring", value, m.cart.Mirroring())
}

// PRG ROM bank mode (0, 1: switch 32 KB at $8000, ignoring low bit of bank number;
//
//	2: fix first bank at $8000 and switch 16 KB bank at $C000;
//	3: fix last bank at $C000 and switch 16 KB bank at $8000)
//
// CHR ROM bank mode (0: switch 8 KB at a time; 1: switch two separate 4 KB banks)
func (m *MMC1) updateBanks() {
	bank := int(m.prgBank)
	switch (m.control >> 2) & 0x3 {
	case 0, 1:
		m.prg[0] = m.cart.prgBank(bank & 0xFE)
		m.prg[1] = m.cart.prgBank(bank | 0x01)
	case 2:
		m.prg[0] = m.cart.prgBank(0)
		m.prg[1] = m.cart.prgBank(bank)
	case 3:
		m.prg[0] = m.cart.prgBank(bank)
		m.prg[1] = m.cart.prgBank(-1)
	}

	if m.control&0x10 == 0 {
		m.chr[0] = m.cart.chrBank4K(int(m.chrBank0 & 0xFE))
		m.chr[1] = m.cart.chrBank4K(int(m.chrBank0 | 0x01))
	} else {
		m.chr[0] = m.cart.chrBank4K(int(m.chrBank0))
		m.chr[1] = m.cart.chrBank4K(int(m.chrBank1))
	}
}
