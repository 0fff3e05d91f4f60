package cart

import (
	"github.com/golang/glog"
	"github.com/nevisdale/nescore/internal/bus"
)

// NROM (mapper 0) has no bank switching. A single 16KB PRG bank appears in
// both CPU windows.
type NROM struct {
	board
}

func newNROM(c *Cartridge) *NROM {
	return &NROM{board: newBoard("NROM", c)}
}

func (m *NROM) Attach(seg *bus.External) error {
	return m.attach(seg, m, allWindows...)
}

func (m *NROM) Read(addr uint16) uint8 {
	return m.read(addr)
}

func (m *NROM) Write(addr uint16, data uint8) {
	if !m.write(addr, data) {
		glog.V(2).Infof("NROM: ignored PRG ROM write $%04X=%02X", addr, data)
	}
}
