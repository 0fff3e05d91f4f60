package cpu

import "fmt"

var opcodeTable = buildOpcodeTable()

// buildOpcodeTable turns opcodeDefs into the 256-entry dispatch table.
// Unsupported opcode bytes stay nil.
func buildOpcodeTable() [0x100]*Opcode {
	var table [0x100]*Opcode
	for _, def := range opcodeDefs {
		in, ok := instructions[def.name]
		if !ok {
			panic(fmt.Sprintf("cpu: no handler for %s", def.name))
		}
		if table[def.code] != nil {
			panic(fmt.Sprintf("cpu: opcode %02X defined twice", def.code))
		}
		table[def.code] = &Opcode{
			Code:       def.code,
			Name:       def.name,
			Mode:       def.mode,
			Cycles:     def.cycles,
			Size:       def.mode.Size(),
			Unofficial: def.unofficial,
			VerifyPC:   !in.flow,
			access:     accessFor(in, def.mode),
			exec:       in.exec,
		}
	}
	return table
}

// accessFor narrows the memory access of an instruction to what its mode
// allows: implied, accumulator and relative forms never touch memory.
func accessFor(in instruction, mode AddrMode) access {
	switch mode {
	case ModeIMP, ModeACC, ModeREL:
		return accessNone
	}
	return in.access
}

// Supported reports whether code has a handler.
func Supported(code uint8) bool {
	return opcodeTable[code] != nil
}
