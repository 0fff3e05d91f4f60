package cart

import (
	"github.com/golang/glog"
	"github.com/nevisdale/nescore/internal/bus"
)

// UxROM (mapper 2) switches 16KB at $8000 and fixes the last bank at $C000.
type UxROM struct {
	board
	bank uint8
}

func newUxROM(c *Cartridge) *UxROM {
	return &UxROM{board: newBoard("UxROM", c)}
}

func (m *UxROM) Attach(seg *bus.External) error {
	return m.attach(seg, m, allWindows...)
}

func (m *UxROM) Read(addr uint16) uint8 {
	return m.read(addr)
}

func (m *UxROM) Write(addr uint16, data uint8) {
	if m.write(addr, data) {
		return
	}
	m.bank = data
	m.prg[0] = m.cart.prgBank(int(data))
	glog.V(1).Infof("UxROM: PRG bank %d at $8000", int(data)%len(m.cart.PRG))
}
