package ppu

import (
	"github.com/nevisdale/nescore/internal/bus"
	"github.com/nevisdale/nescore/internal/cart"
)

// Cartridge supplies the nametable layout, which mappers can change at run time.
type Cartridge interface {
	Mirroring() cart.Mirroring
}

// Attacher binds the pattern table windows to a device, typically a mapper.
type Attacher interface {
	Attach(seg *bus.External) error
}

// nametables is the 2KB of console VRAM (4KB for four-screen boards) seen
// through the cartridge mirroring.
type nametables struct {
	bus.Base
	vram [0x1000]uint8
	cart Cartridge
}

func newNametables(c Cartridge) *nametables {
	return &nametables{Base: bus.NewBase("Nametables", 0x2000, 0x2FFF), cart: c}
}

func (n *nametables) Read(addr uint16) uint8 {
	return n.vram[n.cart.Mirroring().Nametable(addr)]
}

func (n *nametables) Write(addr uint16, data uint8) {
	n.vram[n.cart.Mirroring().Nametable(addr)] = data
}

func (n *nametables) clear() {
	clear(n.vram[:])
}

// palette holds 32 entries of 6-bit colors. The first entry of each sprite
// palette is the same cell as the matching background entry.
type palette struct {
	bus.Base
	data [0x20]uint8
}

func newPalette() *palette {
	return &palette{Base: bus.NewBase("Palette", 0x3F00, 0x3F1F)}
}

func paletteIndex(addr uint16) uint16 {
	i := addr & 0x1f
	if i >= 0x10 && i&0x3 == 0 {
		i -= 0x10
	}
	return i
}

func (p *palette) Read(addr uint16) uint8 {
	return p.data[paletteIndex(addr)] & 0x3f
}

func (p *palette) Write(addr uint16, data uint8) {
	p.data[paletteIndex(addr)] = data & 0x3f
}

// color is the palette lookup used by the renderer.
func (p *palette) color(i uint8) uint8 {
	return p.data[paletteIndex(uint16(i))]
}

// $0000-$0FFF: Pattern table 0
// $1000-$1FFF: Pattern table 1
// $2000-$2FFF: Nametables 0-3
// $3000-$3EFF: Mirrors of $2000-$2EFF
// $3F00-$3F1F: Palette RAM indexes
// $3F20-$3FFF: Mirrors of $3F00-$3F1F
func newMemory(c Cartridge, chr Attacher) (*bus.Bus, *nametables, *palette, error) {
	mem := bus.New("ppu")
	nt := newNametables(c)
	pal := newPalette()

	chr0 := bus.NewExternal("CHR0", 0x0000, 0x0FFF, bus.WindowCHR0)
	chr1 := bus.NewExternal("CHR1", 0x1000, 0x1FFF, bus.WindowCHR1)

	segs := []bus.Segment{
		chr0,
		chr1,
		nt,
		bus.NewMirror("Nametables mirror", 0x3000, 0x3EFF, 0x2000, 0x1000),
		pal,
		bus.NewMirror("Palette mirror", 0x3F20, 0x3FFF, 0x3F00, 0x0020),
	}
	for _, seg := range segs {
		if err := mem.Add(seg); err != nil {
			return nil, nil, nil, err
		}
	}
	for _, seg := range []*bus.External{chr0, chr1} {
		if err := chr.Attach(seg); err != nil {
			return nil, nil, nil, err
		}
	}
	return mem, nt, pal, nil
}
