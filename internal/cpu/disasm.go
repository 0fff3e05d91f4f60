package cpu

import (
	"fmt"

	"github.com/nevisdale/nescore/internal/bus"
)

type Reader interface {
	Read8(addr uint16) uint8
}

// formatOperand renders the operand bytes of an instruction at pc.
// raw holds the opcode byte followed by the operand bytes.
func formatOperand(mode AddrMode, raw []uint8, pc uint16) string {
	var b8 uint8
	var b16 uint16
	if len(raw) > 1 {
		b8 = raw[1]
		b16 = uint16(raw[1])
	}
	if len(raw) > 2 {
		b16 |= uint16(raw[2]) << 8
	}

	switch mode {
	case ModeACC:
		return "A"
	case ModeIMM:
		return fmt.Sprintf("#$%02X", b8)
	case ModeZP:
		return fmt.Sprintf("$%02X", b8)
	case ModeZPX:
		return fmt.Sprintf("$%02X,X", b8)
	case ModeZPY:
		return fmt.Sprintf("$%02X,Y", b8)
	case ModeABS:
		return fmt.Sprintf("$%04X", b16)
	case ModeABSX:
		return fmt.Sprintf("$%04X,X", b16)
	case ModeABSY:
		return fmt.Sprintf("$%04X,Y", b16)
	case ModeIND:
		return fmt.Sprintf("($%04X)", b16)
	case ModeINDX:
		return fmt.Sprintf("($%02X,X)", b8)
	case ModeINDY:
		return fmt.Sprintf("($%02X),Y", b8)
	case ModeREL:
		return fmt.Sprintf("$%04X", pc+2+uint16(int8(b8)))
	}
	return ""
}

// DisassembleAt decodes the instruction at addr and returns its text and size.
func DisassembleAt(mem Reader, addr uint16) (string, uint8) {
	code := mem.Read8(addr)
	op := opcodeTable[code]
	if op == nil {
		return fmt.Sprintf("$%04X: ??? $%02X", addr, code), 1
	}

	raw := make([]uint8, op.Size)
	raw[0] = code
	for i := uint16(1); i < uint16(op.Size); i++ {
		raw[i] = mem.Read8(addr + i)
	}

	text := fmt.Sprintf("$%04X: %s", addr, op.Name)
	if operand := formatOperand(op.Mode, raw, addr); operand != "" {
		text += " " + operand
	}
	return fmt.Sprintf("%s {%s}", text, op.Mode), op.Size
}

// Disassemble returns a map of addresses and their corresponding instructions
// from `from` to `to` inclusive. Reading mem must not have side effects.
func Disassemble(mem Reader, from, to uint16) (disasm map[uint16]string, err error) {
	defer bus.Recover(&err)

	disasm = make(map[uint16]string)
	addr := uint32(from)
	for addr <= uint32(to) {
		text, size := DisassembleAt(mem, uint16(addr))
		disasm[uint16(addr)] = text
		addr += uint32(size)
	}
	return disasm, nil
}
