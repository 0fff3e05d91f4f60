package cpu

import (
	"errors"
	"fmt"
)

var ErrUnknownOpcode = errors.New("unknown opcode")

// access describes what an instruction does with its memory operand.
type access uint8

const (
	accessNone access = iota
	accessRead
	accessWrite
	accessRMW
)

// Opcode describes one of the 256 opcode bytes.
type Opcode struct {
	Code       uint8
	Name       string
	Mode       AddrMode
	Cycles     uint8
	Size       uint8
	Unofficial bool
	// VerifyPC is false for instructions that load PC themselves.
	VerifyPC bool

	access access
	exec   func(c *CPU)
}

func (op *Opcode) String() string {
	return fmt.Sprintf("%02X %s {%s}", op.Code, op.Name, op.Mode)
}

// Lookup returns the descriptor of an opcode byte.
func Lookup(code uint8) (*Opcode, error) {
	op := opcodeTable[code]
	if op == nil {
		return nil, fmt.Errorf("%w: $%02X", ErrUnknownOpcode, code)
	}
	return op, nil
}

type instruction struct {
	exec   func(c *CPU)
	access access
	flow   bool
}

var instructions = map[string]instruction{
	"ADC": {exec: (*CPU).adc, access: accessRead},
	"AND": {exec: (*CPU).and, access: accessRead},
	"ASL": {exec: (*CPU).asl, access: accessRMW},
	"BCC": {exec: (*CPU).bcc, flow: true},
	"BCS": {exec: (*CPU).bcs, flow: true},
	"BEQ": {exec: (*CPU).beq, flow: true},
	"BIT": {exec: (*CPU).bit, access: accessRead},
	"BMI": {exec: (*CPU).bmi, flow: true},
	"BNE": {exec: (*CPU).bne, flow: true},
	"BPL": {exec: (*CPU).bpl, flow: true},
	"BRK": {exec: (*CPU).brk, flow: true},
	"BVC": {exec: (*CPU).bvc, flow: true},
	"BVS": {exec: (*CPU).bvs, flow: true},
	"CLC": {exec: (*CPU).clc},
	"CLD": {exec: (*CPU).cld},
	"CLI": {exec: (*CPU).cli},
	"CLV": {exec: (*CPU).clv},
	"CMP": {exec: (*CPU).cmp, access: accessRead},
	"CPX": {exec: (*CPU).cpx, access: accessRead},
	"CPY": {exec: (*CPU).cpy, access: accessRead},
	"DEC": {exec: (*CPU).dec, access: accessRMW},
	"DEX": {exec: (*CPU).dex},
	"DEY": {exec: (*CPU).dey},
	"EOR": {exec: (*CPU).eor, access: accessRead},
	"INC": {exec: (*CPU).inc, access: accessRMW},
	"INX": {exec: (*CPU).inx},
	"INY": {exec: (*CPU).iny},
	"JMP": {exec: (*CPU).jmp, flow: true},
	"JSR": {exec: (*CPU).jsr, flow: true},
	"LDA": {exec: (*CPU).lda, access: accessRead},
	"LDX": {exec: (*CPU).ldx, access: accessRead},
	"LDY": {exec: (*CPU).ldy, access: accessRead},
	"LSR": {exec: (*CPU).lsr, access: accessRMW},
	"NOP": {exec: (*CPU).nop, access: accessRead},
	"ORA": {exec: (*CPU).ora, access: accessRead},
	"PHA": {exec: (*CPU).pha},
	"PHP": {exec: (*CPU).php},
	"PLA": {exec: (*CPU).pla},
	"PLP": {exec: (*CPU).plp},
	"ROL": {exec: (*CPU).rol, access: accessRMW},
	"ROR": {exec: (*CPU).ror, access: accessRMW},
	"RTI": {exec: (*CPU).rti, flow: true},
	"RTS": {exec: (*CPU).rts, flow: true},
	"SBC": {exec: (*CPU).sbc, access: accessRead},
	"SEC": {exec: (*CPU).sec},
	"SED": {exec: (*CPU).sed},
	"SEI": {exec: (*CPU).sei},
	"STA": {exec: (*CPU).sta, access: accessWrite},
	"STX": {exec: (*CPU).stx, access: accessWrite},
	"STY": {exec: (*CPU).sty, access: accessWrite},
	"TAX": {exec: (*CPU).tax},
	"TAY": {exec: (*CPU).tay},
	"TSX": {exec: (*CPU).tsx},
	"TXA": {exec: (*CPU).txa},
	"TXS": {exec: (*CPU).txs},
	"TYA": {exec: (*CPU).tya},

	// unofficial
	"LAX": {exec: (*CPU).lax, access: accessRead},
	"SAX": {exec: (*CPU).sax, access: accessWrite},
	"DCP": {exec: (*CPU).dcp, access: accessRMW},
	"ISC": {exec: (*CPU).isc, access: accessRMW},
	"SLO": {exec: (*CPU).slo, access: accessRMW},
	"RLA": {exec: (*CPU).rla, access: accessRMW},
	"SRE": {exec: (*CPU).sre, access: accessRMW},
	"RRA": {exec: (*CPU).rra, access: accessRMW},
	"ANC": {exec: (*CPU).anc, access: accessRead},
	"ALR": {exec: (*CPU).alr, access: accessRead},
	"ARR": {exec: (*CPU).arr, access: accessRead},
	"AXS": {exec: (*CPU).axs, access: accessRead},
	"LAS": {exec: (*CPU).las, access: accessRead},
}

type opcodeDef struct {
	code       uint8
	name       string
	mode       AddrMode
	cycles     uint8
	unofficial bool
}

// opcodeDefs lists every supported opcode with its base cycle cost.
// Page-crossing and branch penalties are added at execution time.
// JAM opcodes and the unstable XAA, AHX, TAS, SHX, SHY and LXA are absent.
var opcodeDefs = []opcodeDef{
	{0x69, "ADC", ModeIMM, 2, false},
	{0x65, "ADC", ModeZP, 3, false},
	{0x75, "ADC", ModeZPX, 4, false},
	{0x6D, "ADC", ModeABS, 4, false},
	{0x7D, "ADC", ModeABSX, 4, false},
	{0x79, "ADC", ModeABSY, 4, false},
	{0x61, "ADC", ModeINDX, 6, false},
	{0x71, "ADC", ModeINDY, 5, false},

	{0x29, "AND", ModeIMM, 2, false},
	{0x25, "AND", ModeZP, 3, false},
	{0x35, "AND", ModeZPX, 4, false},
	{0x2D, "AND", ModeABS, 4, false},
	{0x3D, "AND", ModeABSX, 4, false},
	{0x39, "AND", ModeABSY, 4, false},
	{0x21, "AND", ModeINDX, 6, false},
	{0x31, "AND", ModeINDY, 5, false},

	{0x0A, "ASL", ModeACC, 2, false},
	{0x06, "ASL", ModeZP, 5, false},
	{0x16, "ASL", ModeZPX, 6, false},
	{0x0E, "ASL", ModeABS, 6, false},
	{0x1E, "ASL", ModeABSX, 7, false},

	{0x90, "BCC", ModeREL, 2, false},
	{0xB0, "BCS", ModeREL, 2, false},
	{0xF0, "BEQ", ModeREL, 2, false},
	{0x30, "BMI", ModeREL, 2, false},
	{0xD0, "BNE", ModeREL, 2, false},
	{0x10, "BPL", ModeREL, 2, false},
	{0x50, "BVC", ModeREL, 2, false},
	{0x70, "BVS", ModeREL, 2, false},

	{0x24, "BIT", ModeZP, 3, false},
	{0x2C, "BIT", ModeABS, 4, false},

	{0x00, "BRK", ModeIMP, 7, false},

	{0x18, "CLC", ModeIMP, 2, false},
	{0xD8, "CLD", ModeIMP, 2, false},
	{0x58, "CLI", ModeIMP, 2, false},
	{0xB8, "CLV", ModeIMP, 2, false},

	{0xC9, "CMP", ModeIMM, 2, false},
	{0xC5, "CMP", ModeZP, 3, false},
	{0xD5, "CMP", ModeZPX, 4, false},
	{0xCD, "CMP", ModeABS, 4, false},
	{0xDD, "CMP", ModeABSX, 4, false},
	{0xD9, "CMP", ModeABSY, 4, false},
	{0xC1, "CMP", ModeINDX, 6, false},
	{0xD1, "CMP", ModeINDY, 5, false},

	{0xE0, "CPX", ModeIMM, 2, false},
	{0xE4, "CPX", ModeZP, 3, false},
	{0xEC, "CPX", ModeABS, 4, false},

	{0xC0, "CPY", ModeIMM, 2, false},
	{0xC4, "CPY", ModeZP, 3, false},
	{0xCC, "CPY", ModeABS, 4, false},

	{0xC6, "DEC", ModeZP, 5, false},
	{0xD6, "DEC", ModeZPX, 6, false},
	{0xCE, "DEC", ModeABS, 6, false},
	{0xDE, "DEC", ModeABSX, 7, false},

	{0xCA, "DEX", ModeIMP, 2, false},
	{0x88, "DEY", ModeIMP, 2, false},

	{0x49, "EOR", ModeIMM, 2, false},
	{0x45, "EOR", ModeZP, 3, false},
	{0x55, "EOR", ModeZPX, 4, false},
	{0x4D, "EOR", ModeABS, 4, false},
	{0x5D, "EOR", ModeABSX, 4, false},
	{0x59, "EOR", ModeABSY, 4, false},
	{0x41, "EOR", ModeINDX, 6, false},
	{0x51, "EOR", ModeINDY, 5, false},

	{0xE6, "INC", ModeZP, 5, false},
	{0xF6, "INC", ModeZPX, 6, false},
	{0xEE, "INC", ModeABS, 6, false},
	{0xFE, "INC", ModeABSX, 7, false},

	{0xE8, "INX", ModeIMP, 2, false},
	{0xC8, "INY", ModeIMP, 2, false},

	{0x4C, "JMP", ModeABS, 3, false},
	{0x6C, "JMP", ModeIND, 5, false},
	{0x20, "JSR", ModeABS, 6, false},

	{0xA9, "LDA", ModeIMM, 2, false},
	{0xA5, "LDA", ModeZP, 3, false},
	{0xB5, "LDA", ModeZPX, 4, false},
	{0xAD, "LDA", ModeABS, 4, false},
	{0xBD, "LDA", ModeABSX, 4, false},
	{0xB9, "LDA", ModeABSY, 4, false},
	{0xA1, "LDA", ModeINDX, 6, false},
	{0xB1, "LDA", ModeINDY, 5, false},

	{0xA2, "LDX", ModeIMM, 2, false},
	{0xA6, "LDX", ModeZP, 3, false},
	{0xB6, "LDX", ModeZPY, 4, false},
	{0xAE, "LDX", ModeABS, 4, false},
	{0xBE, "LDX", ModeABSY, 4, false},

	{0xA0, "LDY", ModeIMM, 2, false},
	{0xA4, "LDY", ModeZP, 3, false},
	{0xB4, "LDY", ModeZPX, 4, false},
	{0xAC, "LDY", ModeABS, 4, false},
	{0xBC, "LDY", ModeABSX, 4, false},

	{0x4A, "LSR", ModeACC, 2, false},
	{0x46, "LSR", ModeZP, 5, false},
	{0x56, "LSR", ModeZPX, 6, false},
	{0x4E, "LSR", ModeABS, 6, false},
	{0x5E, "LSR", ModeABSX, 7, false},

	{0xEA, "NOP", ModeIMP, 2, false},

	{0x09, "ORA", ModeIMM, 2, false},
	{0x05, "ORA", ModeZP, 3, false},
	{0x15, "ORA", ModeZPX, 4, false},
	{0x0D, "ORA", ModeABS, 4, false},
	{0x1D, "ORA", ModeABSX, 4, false},
	{0x19, "ORA", ModeABSY, 4, false},
	{0x01, "ORA", ModeINDX, 6, false},
	{0x11, "ORA", ModeINDY, 5, false},

	{0x48, "PHA", ModeIMP, 3, false},
	{0x08, "PHP", ModeIMP, 3, false},
	{0x68, "PLA", ModeIMP, 4, false},
	{0x28, "PLP", ModeIMP, 4, false},

	{0x2A, "ROL", ModeACC, 2, false},
	{0x26, "ROL", ModeZP, 5, false},
	{0x36, "ROL", ModeZPX, 6, false},
	{0x2E, "ROL", ModeABS, 6, false},
	{0x3E, "ROL", ModeABSX, 7, false},

	{0x6A, "ROR", ModeACC, 2, false},
	{0x66, "ROR", ModeZP, 5, false},
	{0x76, "ROR", ModeZPX, 6, false},
	{0x6E, "ROR", ModeABS, 6, false},
	{0x7E, "ROR", ModeABSX, 7, false},

	{0x40, "RTI", ModeIMP, 6, false},
	{0x60, "RTS", ModeIMP, 6, false},

	{0xE9, "SBC", ModeIMM, 2, false},
	{0xE5, "SBC", ModeZP, 3, false},
	{0xF5, "SBC", ModeZPX, 4, false},
	{0xED, "SBC", ModeABS, 4, false},
	{0xFD, "SBC", ModeABSX, 4, false},
	{0xF9, "SBC", ModeABSY, 4, false},
	{0xE1, "SBC", ModeINDX, 6, false},
	{0xF1, "SBC", ModeINDY, 5, false},

	{0x38, "SEC", ModeIMP, 2, false},
	{0xF8, "SED", ModeIMP, 2, false},
	{0x78, "SEI", ModeIMP, 2, false},

	{0x85, "STA", ModeZP, 3, false},
	{0x95, "STA", ModeZPX, 4, false},
	{0x8D, "STA", ModeABS, 4, false},
	{0x9D, "STA", ModeABSX, 5, false},
	{0x99, "STA", ModeABSY, 5, false},
	{0x81, "STA", ModeINDX, 6, false},
	{0x91, "STA", ModeINDY, 6, false},

	{0x86, "STX", ModeZP, 3, false},
	{0x96, "STX", ModeZPY, 4, false},
	{0x8E, "STX", ModeABS, 4, false},

	{0x84, "STY", ModeZP, 3, false},
	{0x94, "STY", ModeZPX, 4, false},
	{0x8C, "STY", ModeABS, 4, false},

	{0xAA, "TAX", ModeIMP, 2, false},
	{0xA8, "TAY", ModeIMP, 2, false},
	{0xBA, "TSX", ModeIMP, 2, false},
	{0x8A, "TXA", ModeIMP, 2, false},
	{0x9A, "TXS", ModeIMP, 2, false},
	{0x98, "TYA", ModeIMP, 2, false},

	// unofficial

	{0x1A, "NOP", ModeIMP, 2, true},
	{0x3A, "NOP", ModeIMP, 2, true},
	{0x5A, "NOP", ModeIMP, 2, true},
	{0x7A, "NOP", ModeIMP, 2, true},
	{0xDA, "NOP", ModeIMP, 2, true},
	{0xFA, "NOP", ModeIMP, 2, true},
	{0x80, "NOP", ModeIMM, 2, true},
	{0x82, "NOP", ModeIMM, 2, true},
	{0x89, "NOP", ModeIMM, 2, true},
	{0xC2, "NOP", ModeIMM, 2, true},
	{0xE2, "NOP", ModeIMM, 2, true},
	{0x04, "NOP", ModeZP, 3, true},
	{0x44, "NOP", ModeZP, 3, true},
	{0x64, "NOP", ModeZP, 3, true},
	{0x14, "NOP", ModeZPX, 4, true},
	{0x34, "NOP", ModeZPX, 4, true},
	{0x54, "NOP", ModeZPX, 4, true},
	{0x74, "NOP", ModeZPX, 4, true},
	{0xD4, "NOP", ModeZPX, 4, true},
	{0xF4, "NOP", ModeZPX, 4, true},
	{0x0C, "NOP", ModeABS, 4, true},
	{0x1C, "NOP", ModeABSX, 4, true},
	{0x3C, "NOP", ModeABSX, 4, true},
	{0x5C, "NOP", ModeABSX, 4, true},
	{0x7C, "NOP", ModeABSX, 4, true},
	{0xDC, "NOP", ModeABSX, 4, true},
	{0xFC, "NOP", ModeABSX, 4, true},

	{0xA7, "LAX", ModeZP, 3, true},
	{0xB7, "LAX", ModeZPY, 4, true},
	{0xAF, "LAX", ModeABS, 4, true},
	{0xBF, "LAX", ModeABSY, 4, true},
	{0xA3, "LAX", ModeINDX, 6, true},
	{0xB3, "LAX", ModeINDY, 5, true},

	{0x87, "SAX", ModeZP, 3, true},
	{0x97, "SAX", ModeZPY, 4, true},
	{0x8F, "SAX", ModeABS, 4, true},
	{0x83, "SAX", ModeINDX, 6, true},

	{0xEB, "SBC", ModeIMM, 2, true},

	{0xC7, "DCP", ModeZP, 5, true},
	{0xD7, "DCP", ModeZPX, 6, true},
	{0xCF, "DCP", ModeABS, 6, true},
	{0xDF, "DCP", ModeABSX, 7, true},
	{0xDB, "DCP", ModeABSY, 7, true},
	{0xC3, "DCP", ModeINDX, 8, true},
	{0xD3, "DCP", ModeINDY, 8, true},

	{0xE7, "ISC", ModeZP, 5, true},
	{0xF7, "ISC", ModeZPX, 6, true},
	{0xEF, "ISC", ModeABS, 6, true},
	{0xFF, "ISC", ModeABSX, 7, true},
	{0xFB, "ISC", ModeABSY, 7, true},
	{0xE3, "ISC", ModeINDX, 8, true},
	{0xF3, "ISC", ModeINDY, 8, true},

	{0x07, "SLO", ModeZP, 5, true},
	{0x17, "SLO", ModeZPX, 6, true},
	{0x0F, "SLO", ModeABS, 6, true},
	{0x1F, "SLO", ModeABSX, 7, true},
	{0x1B, "SLO", ModeABSY, 7, true},
	{0x03, "SLO", ModeINDX, 8, true},
	{0x13, "SLO", ModeINDY, 8, true},

	{0x27, "RLA", ModeZP, 5, true},
	{0x37, "RLA", ModeZPX, 6, true},
	{0x2F, "RLA", ModeABS, 6, true},
	{0x3F, "RLA", ModeABSX, 7, true},
	{0x3B, "RLA", ModeABSY, 7, true},
	{0x23, "RLA", ModeINDX, 8, true},
	{0x33, "RLA", ModeINDY, 8, true},

	{0x47, "SRE", ModeZP, 5, true},
	{0x57, "SRE", ModeZPX, 6, true},
	{0x4F, "SRE", ModeABS, 6, true},
	{0x5F, "SRE", ModeABSX, 7, true},
	{0x5B, "SRE", ModeABSY, 7, true},
	{0x43, "SRE", ModeINDX, 8, true},
	{0x53, "SRE", ModeINDY, 8, true},

	{0x67, "RRA", ModeZP, 5, true},
	{0x77, "RRA", ModeZPX, 6, true},
	{0x6F, "RRA", ModeABS, 6, true},
	{0x7F, "RRA", ModeABSX, 7, true},
	{0x7B, "RRA", ModeABSY, 7, true},
	{0x63, "RRA", ModeINDX, 8, true},
	{0x73, "RRA", ModeINDY, 8, true},

	{0x0B, "ANC", ModeIMM, 2, true},
	{0x2B, "ANC", ModeIMM, 2, true},
	{0x4B, "ALR", ModeIMM, 2, true},
	{0x6B, "ARR", ModeIMM, 2, true},
	{0xCB, "AXS", ModeIMM, 2, true},
	{0xBB, "LAS", ModeABSY, 4, true},
}
