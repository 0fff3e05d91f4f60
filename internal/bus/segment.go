package bus

import (
	"fmt"

	"github.com/nevisdale/nescore/internal/register"
)

// Segment owns an inclusive address range on a bus. Read and Write
// receive absolute addresses inside that range.
type Segment interface {
	Name() string
	Range() (min, max uint16)
	Read(addr uint16) uint8
	Write(addr uint16, data uint8)
	SegmentHooks() *Hooks
}

// Hooks are optional side effects the bus runs after a segment access.
type Hooks struct {
	AfterRead  register.Hook
	AfterWrite register.Hook
}

func (h *Hooks) SegmentHooks() *Hooks {
	return h
}

// Base carries the name, range and hooks of a segment. Segment
// implementations outside this package embed it.
type Base struct {
	Hooks

	name     string
	min, max uint16
}

func NewBase(name string, min, max uint16) Base {
	return Base{name: name, min: min, max: max}
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) Range() (uint16, uint16) {
	return b.min, b.max
}

func (b *Base) Contains(addr uint16) bool {
	return addr >= b.min && addr <= b.max
}

func (b *Base) Size() int {
	return int(b.max) - int(b.min) + 1
}

func (b *Base) String() string {
	return fmt.Sprintf("%s [$%04X-$%04X]", b.name, b.min, b.max)
}

// RAM is a writable byte array.
type RAM struct {
	Base
	data []uint8
}

func NewRAM(name string, min, max uint16) *RAM {
	r := &RAM{Base: NewBase(name, min, max)}
	// an inverted range is left empty for Add to reject
	if size := r.Size(); size > 0 {
		r.data = make([]uint8, size)
	}
	return r
}

func (r *RAM) Read(addr uint16) uint8 {
	return r.data[addr-r.min]
}

func (r *RAM) Write(addr uint16, data uint8) {
	r.data[addr-r.min] = data
}

// Bytes exposes the backing storage.
func (r *RAM) Bytes() []uint8 {
	return r.data
}

// Clear zeroes the backing storage.
func (r *RAM) Clear() {
	clear(r.data)
}

// ROM is a read-only byte array. Writes are ignored.
type ROM struct {
	Base
	data []uint8
}

// NewROM wraps data, which must be exactly as long as the range.
func NewROM(name string, min, max uint16, data []uint8) (*ROM, error) {
	r := &ROM{Base: NewBase(name, min, max), data: data}
	if len(data) != r.Size() {
		return nil, fmt.Errorf("%w: rom %s holds %d bytes for a range of %d", ErrInvalidRange, name, len(data), r.Size())
	}
	return r, nil
}

func (r *ROM) Read(addr uint16) uint8 {
	return r.data[addr-r.min]
}

func (r *ROM) Write(uint16, uint8) {}

// Open answers every read with a fixed value and drops writes. It stands in
// for hardware that is not emulated.
type Open struct {
	Base
	Value uint8
}

func NewOpen(name string, min, max uint16) *Open {
	return &Open{Base: NewBase(name, min, max)}
}

func (o *Open) Read(uint16) uint8 {
	return o.Value
}

func (o *Open) Write(uint16, uint8) {}

// Mirror aliases its range onto size bytes starting at target. The bus
// resolves mirrored addresses to the canonical segment and caches the result,
// so Read and Write are only reached when a mirror is accessed directly.
type Mirror struct {
	Base
	target uint16
	size   uint16
}

func NewMirror(name string, min, max, target, size uint16) *Mirror {
	return &Mirror{Base: NewBase(name, min, max), target: target, size: size}
}

// Translate maps a mirrored address to its canonical address.
func (m *Mirror) Translate(addr uint16) uint16 {
	return m.target + (addr-m.min)%m.size
}

func (m *Mirror) Read(uint16) uint8 {
	panic(fmt.Sprintf("bus: mirror %s accessed without resolution", m.name))
}

func (m *Mirror) Write(uint16, uint8) {
	panic(fmt.Sprintf("bus: mirror %s accessed without resolution", m.name))
}

// Register bridges a single bus address to an 8-bit register.
type Register struct {
	Base
	Reg *register.Reg8
}

func NewRegister(name string, addr uint16, reg *register.Reg8) *Register {
	return &Register{Base: NewBase(name, addr, addr), Reg: reg}
}

func (r *Register) Read(addr uint16) uint8 {
	return r.Reg.ReadAt(addr)
}

func (r *Register) Write(addr uint16, data uint8) {
	r.Reg.WriteAt(addr, data)
}

// Register16 bridges two consecutive bus addresses to a 16-bit register,
// low byte first.
type Register16 struct {
	Base
	Reg *register.Reg16
}

func NewRegister16(name string, addr uint16, reg *register.Reg16) *Register16 {
	return &Register16{Base: NewBase(name, addr, addr+1), Reg: reg}
}

func (r *Register16) Read(addr uint16) uint8 {
	return r.Reg.ReadAt(addr - r.min)
}

func (r *Register16) Write(addr uint16, data uint8) {
	r.Reg.WriteAt(addr-r.min, data)
}

// Device is the backing of an External segment, typically a cartridge mapper.
type Device interface {
	Read(addr uint16) uint8
	Write(addr uint16, data uint8)
}

// Window tells a device which logical region an External segment covers.
type Window uint8

const (
	WindowNone Window = iota
	WindowExpansion
	WindowPRGRAM
	WindowPRGLow
	WindowPRGHigh
	WindowCHR0
	WindowCHR1
)

func (w Window) String() string {
	switch w {
	case WindowExpansion:
		return "expansion"
	case WindowPRGRAM:
		return "prg-ram"
	case WindowPRGLow:
		return "prg-low"
	case WindowPRGHigh:
		return "prg-high"
	case WindowCHR0:
		return "chr-0"
	case WindowCHR1:
		return "chr-1"
	}
	return "none"
}

// External delegates accesses to a Device attached after construction.
type External struct {
	Base
	Window Window
	Device Device

	bus string // set by Bus.Add
}

func NewExternal(name string, min, max uint16, window Window) *External {
	return &External{Base: NewBase(name, min, max), Window: window}
}

func (e *External) Read(addr uint16) uint8 {
	if e.Device == nil {
		panic(&Fault{Bus: e.bus, Segment: e.name, Addr: addr, Err: ErrDetached})
	}
	return e.Device.Read(addr)
}

func (e *External) Write(addr uint16, data uint8) {
	if e.Device == nil {
		panic(&Fault{Bus: e.bus, Segment: e.name, Addr: addr, Write: true, Err: ErrDetached})
	}
	e.Device.Write(addr, data)
}
