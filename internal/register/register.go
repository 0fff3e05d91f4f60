package register

import "fmt"

// Hook is a side effect attached to a register access.
// addr is the bus address the access came through.
type Hook func(addr uint16, value uint8)

// Addressable is implemented by registers that can be bridged onto a bus.
type Addressable interface {
	ReadAt(addr uint16) uint8
	WriteAt(addr uint16, value uint8)
}

var (
	_ Addressable = (*Reg8)(nil)
	_ Addressable = (*Reg16)(nil)
)

// Reg8 is an 8-bit register.
//
// ReadFunc, if set, supplies the value returned by a read instead of Value.
// AfterRead runs once the returned value has been captured, so it can clear
// bits without affecting what the reader sees. AfterWrite runs after Value
// has been stored.
type Reg8 struct {
	Name  string
	Value uint8

	ReadFunc   func() uint8
	AfterRead  Hook
	AfterWrite Hook
}

func NewReg8(name string) *Reg8 {
	return &Reg8{Name: name}
}

func (r *Reg8) Read() uint8 {
	return r.ReadAt(0)
}

func (r *Reg8) Write(value uint8) {
	r.WriteAt(0, value)
}

func (r *Reg8) ReadAt(addr uint16) uint8 {
	value := r.Value
	if r.ReadFunc != nil {
		value = r.ReadFunc()
	}
	if r.AfterRead != nil {
		r.AfterRead(addr, value)
	}
	return value
}

func (r *Reg8) WriteAt(addr uint16, value uint8) {
	r.Value = value
	if r.AfterWrite != nil {
		r.AfterWrite(addr, value)
	}
}

func (r *Reg8) Bit(n uint) bool {
	return r.Value&(1<<n) != 0
}

func (r *Reg8) SetBit(n uint, on bool) {
	if on {
		r.Value |= 1 << n
		return
	}
	r.Value &^= 1 << n
}

func (r Reg8) String() string {
	return fmt.Sprintf("%s: $%02X", r.Name, r.Value)
}

// Reg16 is a 16-bit register. When bridged onto a bus it occupies two
// consecutive addresses, low byte first.
type Reg16 struct {
	Name  string
	Value uint16

	AfterWrite Hook
}

func NewReg16(name string) *Reg16 {
	return &Reg16{Name: name}
}

func (r *Reg16) Read() uint16 {
	return r.Value
}

func (r *Reg16) Write(value uint16) {
	r.Value = value
}

func (r *Reg16) Lo() uint8 {
	return uint8(r.Value)
}

func (r *Reg16) Hi() uint8 {
	return uint8(r.Value >> 8)
}

// ReadAt reads the low byte for even offsets and the high byte for odd ones.
func (r *Reg16) ReadAt(addr uint16) uint8 {
	if addr&1 == 0 {
		return r.Lo()
	}
	return r.Hi()
}

func (r *Reg16) WriteAt(addr uint16, value uint8) {
	if addr&1 == 0 {
		r.Value = r.Value&0xFF00 | uint16(value)
	} else {
		r.Value = r.Value&0x00FF | uint16(value)<<8
	}
	if r.AfterWrite != nil {
		r.AfterWrite(addr, value)
	}
}

func (r *Reg16) Bit(n uint) bool {
	return r.Value&(1<<n) != 0
}

func (r *Reg16) SetBit(n uint, on bool) {
	if on {
		r.Value |= 1 << n
		return
	}
	r.Value &^= 1 << n
}

func (r Reg16) String() string {
	return fmt.Sprintf("%s: $%04X", r.Name, r.Value)
}
