package nes

import (
	"context"
	"testing"

	"github.com/nevisdale/nescore/internal/bus"
	"github.com/nevisdale/nescore/internal/cart"
	"github.com/nevisdale/nescore/internal/cpu"
	"github.com/nevisdale/nescore/internal/input"
	"github.com/nevisdale/nescore/internal/ppu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCart returns an NROM cartridge with program at $8000 and the
// reset vector pointing to it. nmi, if not zero, is the NMI handler address.
func newTestCart(t *testing.T, program []uint8, nmi uint16) *cart.Cartridge {
	t.Helper()
	prg := make([]uint8, cart.PRGBankSize)
	copy(prg, program)
	prg[0x3ffa], prg[0x3ffb] = uint8(nmi), uint8(nmi>>8)
	prg[0x3ffc], prg[0x3ffd] = 0x00, 0x80
	c, err := cart.New(prg, nil, 0, cart.MirrorHorizontal, false)
	require.NoError(t, err)
	return c
}

func newTestConsole(t *testing.T, program []uint8, opts ...Option) *Console {
	t.Helper()
	con, err := New(newTestCart(t, program, 0), opts...)
	require.NoError(t, err)
	return con
}

func TestNew_PowerOn(t *testing.T) {
	con := newTestConsole(t, nil)

	info := con.DebugInfo()
	assert.Equal(t, uint16(0x8000), info.PC)
	assert.Equal(t, uint8(0xfd), info.SP)
	assert.Equal(t, uint64(7), info.Cycles)
	assert.Equal(t, "NROM", info.Mapper)
	assert.Equal(t, -1, info.PPU.Scanline)
}

func TestNew_UnsupportedMapper(t *testing.T) {
	c, err := cart.New(make([]uint8, cart.PRGBankSize), nil, 4, cart.MirrorHorizontal, false)
	require.NoError(t, err)

	_, err = New(c)
	assert.ErrorIs(t, err, cart.ErrMapperNotImplemented)
}

func TestConsole_LoadStoreProgram(t *testing.T) {
	// LDA #$42; STA $0010; BRK
	con := newTestConsole(t, []uint8{0xa9, 0x42, 0x85, 0x10, 0x00})

	for i := 0; i < 2; i++ {
		_, err := con.Step()
		require.NoError(t, err)
	}

	assert.Equal(t, uint8(0x42), con.DebugInfo().A)
	assert.Equal(t, uint8(0x42), con.CPUBus().ReadByte(0x0010))
}

func TestConsole_PPURunsThreeDotsPerCycle(t *testing.T) {
	// LDA #$01; NOP
	con := newTestConsole(t, []uint8{0xa9, 0x01, 0xea})

	n, err := con.Step()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	n, err = con.Step()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	stats := con.Stats()
	assert.Equal(t, uint64(12), stats.PPUDots)
	assert.Equal(t, uint64(2), stats.CPUSteps)
	assert.Equal(t, uint64(7+4), stats.CPUCycles)
	assert.Equal(t, 12, con.DebugInfo().PPU.Dot)
}

func TestConsole_MirrorConsistency(t *testing.T) {
	con := newTestConsole(t, nil)
	mem := con.CPUBus()

	for addr := uint16(0x0800); addr < 0x2000; addr++ {
		value := uint8(addr>>3) ^ uint8(addr)
		mem.WriteByte(addr, value)
		require.Equal(t, value, mem.ReadByte(addr&0x07ff), "$%04X", addr)
	}

	for addr := uint16(0x2008); addr < 0x4000; addr += 8 {
		seg, canonical := mem.Lookup(addr + 3)
		require.Equal(t, "OAMADDR", seg.Name(), "$%04X", addr+3)
		require.Equal(t, uint16(0x2003), canonical)
	}

	mem.WriteByte(0x3ffb, 0x20) // OAMADDR
	mem.WriteByte(0x200c, 0x99) // OAMDATA
	assert.Equal(t, uint8(0x99), con.ppu.OAM()[0x20])
}

func TestConsole_PPURegistersThroughCPUBus(t *testing.T) {
	con := newTestConsole(t, nil)
	mem := con.CPUBus()

	mem.WriteByte(0x2006, 0x21)
	mem.WriteByte(0x2006, 0x08)
	mem.WriteByte(0x2007, 0x5a)

	assert.Equal(t, uint8(0x5a), con.PPUBus().ReadByte(0x2108))
}

func TestConsole_OAMDMA(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		steps   int
		stall   int
	}{
		{
			// LDA #$02; STA $4014; NOP
			// STA starts on cycle 9 and ends on odd cycle 13
			name:    "absolute",
			program: []uint8{0xa9, 0x02, 0x8d, 0x14, 0x40, 0xea},
			steps:   2,
			stall:   514,
		},
		{
			// LDA #$02; LDX #$00; STA $4014,X; NOP
			// STA starts on odd cycle 11 and ends on even cycle 16
			name:    "absolute x",
			program: []uint8{0xa9, 0x02, 0xa2, 0x00, 0x9d, 0x14, 0x40, 0xea},
			steps:   3,
			stall:   513,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			con := newTestConsole(t, tt.program)
			ram := con.CPUBus()
			for i := uint16(0); i < 0x100; i++ {
				ram.WriteByte(0x0200+i, uint8(i))
			}

			for i := 0; i < tt.steps; i++ {
				_, err := con.Step()
				require.NoError(t, err)
			}

			assert.Equal(t, uint8(0x00), con.ppu.OAM()[0])
			assert.Equal(t, uint8(0xff), con.ppu.OAM()[0xff])

			cycles := con.Stats().CPUCycles
			n, err := con.Step()
			require.NoError(t, err)
			assert.Equal(t, tt.stall, n)
			assert.Equal(t, cycles+uint64(tt.stall), con.Stats().CPUCycles)

			n, err = con.Step()
			require.NoError(t, err)
			assert.Equal(t, 2, n, "NOP after the stall")
		})
	}
}

func TestConsole_NMI(t *testing.T) {
	program := make([]uint8, 0x200)
	// LDA #$80; STA $2000; loop: JMP loop
	copy(program, []uint8{0xa9, 0x80, 0x8d, 0x00, 0x20, 0x4c, 0x05, 0x80})
	// $8100: INX; RTI
	copy(program[0x100:], []uint8{0xe8, 0x40})

	con, err := New(newTestCart(t, program, 0x8100))
	require.NoError(t, err)

	require.NoError(t, con.StepFrame())
	assert.Equal(t, uint64(1), con.FrameNumber())
	assert.Equal(t, uint8(1), con.DebugInfo().X, "one NMI per frame")

	require.NoError(t, con.StepFrame())
	assert.Equal(t, uint8(2), con.DebugInfo().X)
}

func TestConsole_Run(t *testing.T) {
	// loop: JMP loop
	con := newTestConsole(t, []uint8{0x4c, 0x00, 0x80})

	var frames []uint64
	con.onFrame = func(frame uint64, fb *ppu.Framebuffer) {
		require.NotNil(t, fb)
		frames = append(frames, frame)
	}

	require.NoError(t, con.Run(context.Background(), 3))
	assert.Equal(t, []uint64{1, 2, 3}, frames)
	assert.Equal(t, uint64(3), con.Stats().Frames)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, con.Run(ctx, 0), context.Canceled)
}

func TestConsole_Controllers(t *testing.T) {
	con := newTestConsole(t, nil)
	mem := con.CPUBus()

	require.NoError(t, con.SetButtons(0, input.ButtonA|input.ButtonRight))
	require.NoError(t, con.SetButtons(1, input.ButtonB))
	assert.ErrorIs(t, con.SetButtons(2, input.ButtonA), ErrInvalidPlayer)

	mem.WriteByte(0x4016, 1)
	mem.WriteByte(0x4016, 0)

	var p1, p2 []uint8
	for i := 0; i < 8; i++ {
		p1 = append(p1, mem.ReadByte(0x4016)&1)
		p2 = append(p2, mem.ReadByte(0x4017)&1)
	}
	assert.Equal(t, []uint8{1, 0, 0, 0, 0, 0, 0, 1}, p1)
	assert.Equal(t, []uint8{0, 1, 0, 0, 0, 0, 0, 0}, p2)
	assert.Equal(t, uint8(0x41), mem.ReadByte(0x4016))
}

func TestConsole_Reset(t *testing.T) {
	// LDX #$05
	con := newTestConsole(t, []uint8{0xa2, 0x05})
	con.CPUBus().WriteByte(0x0300, 0x77)

	_, err := con.Step()
	require.NoError(t, err)
	require.NoError(t, con.Reset())

	info := con.DebugInfo()
	assert.Equal(t, uint16(0x8000), info.PC)
	assert.Equal(t, uint8(0x05), info.X)
	assert.Equal(t, uint8(0xfa), info.SP)
	assert.Equal(t, uint8(0x77), con.CPUBus().ReadByte(0x0300), "RAM survives reset")

	require.NoError(t, con.PowerOn())
	assert.Equal(t, uint8(0x00), con.CPUBus().ReadByte(0x0300))
}

func TestConsole_UnknownOpcode(t *testing.T) {
	con := newTestConsole(t, []uint8{0x02})

	_, err := con.Step()
	assert.ErrorIs(t, err, cpu.ErrUnknownOpcode)
}

func TestConsole_Tracer(t *testing.T) {
	var entries []cpu.TraceEntry
	con := newTestConsole(t, []uint8{0xa9, 0x01}, WithTracer(cpu.TracerFunc(func(e cpu.TraceEntry) {
		entries = append(entries, e)
	})))

	_, err := con.Step()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "LDA", entries[0].Opcode.Name)
}

func TestConsole_Disassemble(t *testing.T) {
	con := newTestConsole(t, []uint8{0xa9, 0x01, 0x8d, 0x02, 0x20})
	con.ppu.Bus().WriteByte(0x3f00, 0x21)
	info := con.ppu.State()

	disasm, err := con.Disassemble(0x8000, 0x8004)
	require.NoError(t, err)
	assert.Equal(t, "$8000: LDA #$01 {IMM}", disasm[0x8000])
	assert.Equal(t, "$8002: STA $2002 {ABS}", disasm[0x8002])

	_, err = con.Disassemble(0x2000, 0x2007)
	require.NoError(t, err)
	assert.Equal(t, info, con.ppu.State(), "no register side effects")
	assert.Equal(t, uint8(0x21), con.PaletteEntry(0x10))
}

func TestConsole_Segments(t *testing.T) {
	con := newTestConsole(t, nil)

	ext, err := bus.GetSegment[*bus.External](con.CPUBus(), "PRG ROM high")
	require.NoError(t, err)
	assert.Equal(t, bus.WindowPRGHigh, ext.Window)
	assert.NotNil(t, ext.Device)

	_, err = bus.GetSegment[*bus.RAM](con.CPUBus(), "APU")
	assert.ErrorIs(t, err, bus.ErrSegmentType)
}
