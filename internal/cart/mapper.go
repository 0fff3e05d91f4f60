package cart

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/nevisdale/nescore/internal/bus"
)

var (
	ErrMapperNotImplemented = errors.New("mapper not implemented")
	ErrUnsupportedWindow    = errors.New("window not supported by mapper")
)

// Mapper decodes CPU addresses ($4020-$FFFF) and PPU pattern addresses
// ($0000-$1FFF) into cartridge banks. The two ranges never overlap, so one
// Read/Write pair serves both buses.
type Mapper interface {
	bus.Device
	// Attach binds an external segment to the mapper. It is called once for
	// every cartridge window on the CPU and PPU buses.
	Attach(seg *bus.External) error
	Name() string
}

// NewMapper builds the mapper named by the cartridge header.
func NewMapper(c *Cartridge) (Mapper, error) {
	switch c.MapperID {
	case 0:
		return newNROM(c), nil
	case 1:
		return newMMC1(c), nil
	case 2:
		return newUxROM(c), nil
	case 3:
		return newCNROM(c), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrMapperNotImplemented, c.MapperID)
}

// windows tracks which segments a mapper has been attached to.
type windows struct {
	name     string
	attached map[bus.Window]string
}

func newWindows(name string) windows {
	return windows{name: name, attached: make(map[bus.Window]string)}
}

func (w *windows) attach(seg *bus.External, dev bus.Device, supported ...bus.Window) error {
	for _, s := range supported {
		if s != seg.Window {
			continue
		}
		w.attached[seg.Window] = seg.Name()
		seg.Device = dev
		glog.V(1).Infof("%s: attached %s to %s window", w.name, seg.Name(), seg.Window)
		return nil
	}
	return fmt.Errorf("%s: %w: %s (%s)", w.name, ErrUnsupportedWindow, seg.Name(), seg.Window)
}

// Attached reports the segment name bound to a window.
func (w *windows) Attached(window bus.Window) (string, bool) {
	name, ok := w.attached[window]
	return name, ok
}

func (w *windows) Name() string {
	return w.name
}

var allWindows = []bus.Window{
	bus.WindowExpansion,
	bus.WindowPRGRAM,
	bus.WindowPRGLow,
	bus.WindowPRGHigh,
	bus.WindowCHR0,
	bus.WindowCHR1,
}

// board is the state shared by the simple discrete-logic boards: two PRG
// windows and two 4KB CHR windows pointing into the cartridge banks.
type board struct {
	windows
	cart *Cartridge

	prg [2][]uint8
	chr [2][]uint8
}

func newBoard(name string, c *Cartridge) board {
	return board{
		windows: newWindows(name),
		cart:    c,
		prg:     [2][]uint8{c.prgBank(0), c.prgBank(-1)},
		chr:     [2][]uint8{c.chrBank4K(0), c.chrBank4K(1)},
	}
}

func (b *board) read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.chr[addr>>12][addr&0x0FFF]
	case addr >= 0xC000:
		return b.prg[1][addr-0xC000]
	case addr >= 0x8000:
		return b.prg[0][addr-0x8000]
	case addr >= 0x6000:
		return b.cart.SRAM[addr-0x6000]
	}
	// expansion area
	return 0
}

// write handles the parts of the address space that are memory. It reports
// false for PRG ROM so the caller can treat the write as a register write.
func (b *board) write(addr uint16, data uint8) bool {
	switch {
	case addr < 0x2000:
		if b.cart.chrRAM {
			b.chr[addr>>12][addr&0x0FFF] = data
		} else {
			glog.V(2).Infof("%s: ignored CHR ROM write $%04X=%02X", b.name, addr, data)
		}
		return true
	case addr >= 0x8000:
		return false
	case addr >= 0x6000:
		b.cart.SRAM[addr-0x6000] = data
		return true
	}
	return true
}
