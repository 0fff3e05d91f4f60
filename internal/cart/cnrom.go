package cart

import (
	"github.com/golang/glog"
	"github.com/nevisdale/nescore/internal/bus"
)

// CNROM (mapper 3) switches the whole 8KB of pattern memory.
type CNROM struct {
	board
	bank uint8
}

func newCNROM(c *Cartridge) *CNROM {
	return &CNROM{board: newBoard("CNROM", c)}
}

func (m *CNROM) Attach(seg *bus.External) error {
	return m.attach(seg, m, allWindows...)
}

func (m *CNROM) Read(addr uint16) uint8 {
	return m.read(addr)
}

func (m *CNROM) Write(addr uint16, data uint8) {
	if m.write(addr, data) {
		return
	}
	m.bank = data
	m.chr[0] = m.cart.chrBank4K(int(data) * 2)
	m.chr[1] = m.cart.chrBank4K(int(data)*2 + 1)
	glog.V(1).Infof("CNROM: CHR bank %d", int(data)%len(m.cart.CHR))
}
