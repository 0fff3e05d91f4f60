package cpu

import "fmt"

type AddrMode uint8

const (
	// Implied
	// The instruction names its operand itself.
	// Example: CLC (Clear Carry Flag)
	ModeIMP AddrMode = iota + 1

	// Accumulator
	// The operand is the accumulator.
	// Example: ASL A
	ModeACC

	// Immediate
	// Operand is a constant value.
	// Example: LDA #$10 (Load Accumulator with 10)
	ModeIMM

	// Zero Page
	// Operand is located in the first 256 bytes of memory.
	// Example: LDA $10 (Load Accumulator from address $0010)
	ModeZP

	// Zero Page, X
	// Operand address is in zero page plus the X register, wrapping within page 0.
	// Example: LDA $10,X (Load Accumulator from address $0010 + X)
	ModeZPX

	// Zero Page, Y
	// Operand address is in zero page plus the Y register, wrapping within page 0.
	// Example: LDX $10,Y (Load X Register from address $0010 + Y)
	ModeZPY

	// Absolute
	// Full 16-bit address.
	// Example: LDA $1234 (Load Accumulator from address $1234)
	ModeABS

	// Absolute, X
	// Full 16-bit address plus the X register.
	// Example: LDA $1234,X (Load Accumulator from address $1234 + X)
	ModeABSX

	// Absolute, Y
	// Full 16-bit address plus the Y register.
	// Example: LDA $1234,Y (Load Accumulator from address $1234 + Y)
	ModeABSY

	// Indirect
	// Address is fetched from a pointer. JMP only.
	// Example: JMP ($1234) (Jump to address stored at $1234)
	ModeIND

	// Indexed Indirect (X)
	// Address is in zero page, indexed by X.
	// Example: LDA ($10,X) (Load Accumulator from address stored at $0010 + X)
	ModeINDX

	// Indirect Indexed (Y)
	// Address is fetched from zero page pointer plus Y.
	// Example: LDA ($10),Y (Load Accumulator from address stored at $0010 + Y)
	ModeINDY

	// Relative
	// Signed 8-bit offset from the address of the next instruction.
	// Example: BEQ $10
	ModeREL
)

func (mode AddrMode) String() string {
	switch mode {
	case ModeIMP:
		return "IMP"
	case ModeACC:
		return "ACC"
	case ModeIMM:
		return "IMM"
	case ModeZP:
		return "ZP"
	case ModeZPX:
		return "ZPX"
	case ModeZPY:
		return "ZPY"
	case ModeABS:
		return "ABS"
	case ModeABSX:
		return "ABSX"
	case ModeABSY:
		return "ABSY"
	case ModeIND:
		return "IND"
	case ModeINDX:
		return "INDX"
	case ModeINDY:
		return "INDY"
	case ModeREL:
		return "REL"
	}
	return "???"
}

// Size is the instruction length in bytes for the mode, opcode included.
func (mode AddrMode) Size() uint8 {
	switch mode {
	case ModeIMP, ModeACC:
		return 1
	case ModeABS, ModeABSX, ModeABSY, ModeIND:
		return 3
	}
	return 2
}

// operand is the result of resolving an addressing mode.
type operand struct {
	value uint8
	addr  uint16

	// pointer read by the indirect modes
	ptr    uint16
	hasPtr bool

	// set by the indexed modes that can cross a page
	pageChecked bool
	samePage    bool
}

func (o operand) pageCrossed() bool {
	return o.pageChecked && !o.samePage
}

func isSamePage(a, b uint16) bool {
	return a&0xff00 == b&0xff00
}

// resolve computes the operand of op, advancing PC past the operand bytes.
// Memory at the effective address is only read for instructions that read
// it, so stores never touch read-sensitive registers.
func (c *CPU) resolve(op *Opcode) {
	c.op = operand{}

	switch op.Mode {
	case ModeIMP:
		return

	case ModeACC:
		c.op.value = c.a
		return

	case ModeIMM:
		c.op.addr = c.pc
		c.op.value = c.fetch8()
		return

	case ModeZP:
		c.op.addr = uint16(c.fetch8())

	case ModeZPX:
		c.op.addr = uint16(c.fetch8() + c.x)

	case ModeZPY:
		c.op.addr = uint16(c.fetch8() + c.y)

	case ModeABS:
		c.op.addr = c.fetch16()

	case ModeABSX:
		base := c.fetch16()
		c.op.addr = base + uint16(c.x)
		c.op.pageChecked = true
		c.op.samePage = isSamePage(base, c.op.addr)

	case ModeABSY:
		base := c.fetch16()
		c.op.addr = base + uint16(c.y)
		c.op.pageChecked = true
		c.op.samePage = isSamePage(base, c.op.addr)

	case ModeIND:
		ptr := c.fetch16()
		// the high byte is fetched without carrying into the next page
		hi := ptr&0xff00 | (ptr+1)&0x00ff
		c.op.ptr = ptr
		c.op.hasPtr = true
		c.op.addr = uint16(c.read8(ptr)) | uint16(c.read8(hi))<<8
		return

	case ModeINDX:
		zp := c.fetch8() + c.x
		c.op.ptr = uint16(zp)
		c.op.hasPtr = true
		c.op.addr = uint16(c.read8(uint16(zp))) | uint16(c.read8(uint16(zp+1)))<<8

	case ModeINDY:
		zp := c.fetch8()
		base := uint16(c.read8(uint16(zp))) | uint16(c.read8(uint16(zp+1)))<<8
		c.op.ptr = base
		c.op.hasPtr = true
		c.op.addr = base + uint16(c.y)
		c.op.pageChecked = true
		c.op.samePage = isSamePage(base, c.op.addr)

	case ModeREL:
		offset := int8(c.fetch8())
		c.op.addr = c.pc + uint16(offset)
		return

	default:
		panic(fmt.Sprintf("cpu: opcode %02X has unknown addressing mode %d", op.Code, op.Mode))
	}

	if op.access == accessRead || op.access == accessRMW {
		c.op.value = c.read8(c.op.addr)
	}
}
