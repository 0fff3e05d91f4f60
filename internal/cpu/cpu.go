package cpu

import (
	"errors"
	"fmt"

	"github.com/nevisdale/nescore/internal/bus"
)

var ErrPCMismatch = errors.New("unexpected program counter after instruction")

type ReadWriter interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, data uint8)
}

const (
	stackStartAddr = uint16(0x100)

	vectorNMI   = uint16(0xfffa)
	vectorReset = uint16(0xfffc)
	vectorIRQ   = uint16(0xfffe)

	interruptCycles = 7
)

const (
	flagC = uint8(1 << iota) // Carry
	flagZ                    // Zero
	flagI                    // Interrupt Disable
	flagD                    // Decimal Mode
	flagB                    // Break Command
	flagU                    // Unused
	flagV                    // Overflow
	flagN                    // Negative
)

// Registers is a snapshot of the register file.
type Registers struct {
	A  uint8
	X  uint8
	Y  uint8
	P  uint8
	SP uint8
	PC uint16
}

func (r Registers) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X PC:%04X", r.A, r.X, r.Y, r.P, r.SP, r.PC)
}

type Option func(*CPU)

// WithTracer reports every executed instruction to t.
func WithTracer(t Tracer) Option {
	return func(c *CPU) {
		c.tracer = t
	}
}

// WithVerifyPC makes Step check that straight-line instructions advance PC
// by their size.
func WithVerifyPC(on bool) Option {
	return func(c *CPU) {
		c.verifyPC = on
	}
}

type CPU struct {
	a   uint8
	x   uint8
	y   uint8
	p   uint8
	sp  uint8
	pc  uint16
	mem ReadWriter

	cycles uint64
	steps  uint64

	// state of the instruction being executed
	cur   *Opcode
	op    operand
	extra int
	raw   [3]uint8
	nraw  int

	nmiPending bool
	irqLine    bool
	stall      int

	tracer   Tracer
	verifyPC bool
}

func isSameSign(a, b uint8) bool {
	return (a^b)&0x80 == 0
}

func NewCPU(mem ReadWriter, opts ...Option) *CPU {
	c := &CPU{
		mem: mem,
		p:   flagU | flagI,
		sp:  0xfd,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CPU) read8(addr uint16) uint8 {
	return c.mem.Read8(addr)
}

func (c *CPU) read16(addr uint16) uint16 {
	return uint16(c.read8(addr)) | uint16(c.read8(addr+1))<<8
}

func (c *CPU) write8(addr uint16, data uint8) {
	c.mem.Write8(addr, data)
}

func (c *CPU) fetch8() uint8 {
	data := c.read8(c.pc)
	c.pc++
	if c.nraw < len(c.raw) {
		c.raw[c.nraw] = data
		c.nraw++
	}
	return data
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) getFlag(flag uint8) bool {
	return c.p&flag > 0
}

func (c *CPU) setFlag(flag uint8, v bool) {
	if v {
		c.p |= flag
		return
	}
	c.p &= ^flag
}

func (c *CPU) setFlagsZN(value uint8) {
	c.setFlag(flagZ, value == 0)
	c.setFlag(flagN, value&flagN > 0)
}

func (c *CPU) stackPop8() uint8 {
	c.sp++
	return c.read8(stackStartAddr | uint16(c.sp))
}

func (c *CPU) stackPop16() uint16 {
	lo := uint16(c.stackPop8())
	hi := uint16(c.stackPop8())
	return lo | hi<<8
}

func (c *CPU) stackPush8(data uint8) {
	c.write8(stackStartAddr|uint16(c.sp), data)
	c.sp--
}

func (c *CPU) stackPush16(data uint16) {
	c.stackPush8(uint8(data >> 8))
	c.stackPush8(uint8(data & 0xff))
}

// PowerOn puts the CPU in its power-up state and loads PC from the reset vector.
func (c *CPU) PowerOn() (err error) {
	defer bus.Recover(&err)

	c.a = 0
	c.x = 0
	c.y = 0
	c.p = flagU | flagI
	c.sp = 0xfd
	c.pc = c.read16(vectorReset)
	c.cycles = 7
	c.steps = 0
	c.nmiPending = false
	c.irqLine = false
	c.stall = 0
	return nil
}

// Reset behaves like the reset line: registers are kept, SP drops by 3,
// I is set and PC is reloaded from the reset vector.
func (c *CPU) Reset() (err error) {
	defer bus.Recover(&err)

	c.sp -= 3
	c.setFlag(flagI, true)
	c.p |= flagU
	c.pc = c.read16(vectorReset)
	c.cycles += 7
	c.nmiPending = false
	c.stall = 0
	return nil
}

// TriggerNMI latches a non-maskable interrupt, serviced before the next instruction.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// SetIRQ drives the level-triggered IRQ line.
func (c *CPU) SetIRQ(active bool) {
	c.irqLine = active
}

// Stall adds n idle cycles, consumed by the next Step.
func (c *CPU) Stall(n int) {
	c.stall += n
}

func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// EndCycle returns the cycle count at the end of the executing instruction,
// without page cross or branch penalties. Outside an instruction it is Cycles.
func (c *CPU) EndCycle() uint64 {
	if c.cur == nil {
		return c.cycles
	}
	return c.cycles + uint64(c.cur.Cycles)
}

func (c *CPU) Steps() uint64 {
	return c.steps
}

func (c *CPU) Registers() Registers {
	return Registers{A: c.a, X: c.x, Y: c.y, P: c.p, SP: c.sp, PC: c.pc}
}

func (c *CPU) SetRegisters(r Registers) {
	c.a = r.A
	c.x = r.X
	c.y = r.Y
	c.p = r.P | flagU
	c.sp = r.SP
	c.pc = r.PC
}

func (c *CPU) SetTracer(t Tracer) {
	c.tracer = t
}

func (c *CPU) interrupt(vector uint16) {
	c.stackPush16(c.pc)
	c.stackPush8((c.p | flagU) &^ flagB)
	c.setFlag(flagI, true)
	c.pc = c.read16(vector)
}

// Step executes one instruction, one interrupt sequence or one pending
// stall, and returns the number of cycles it took.
func (c *CPU) Step() (n int, err error) {
	defer bus.Recover(&err)

	if c.stall > 0 {
		n, c.stall = c.stall, 0
		c.cycles += uint64(n)
		return n, nil
	}

	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(vectorNMI)
		c.cycles += interruptCycles
		return interruptCycles, nil
	}

	if c.irqLine && !c.getFlag(flagI) {
		c.interrupt(vectorIRQ)
		c.cycles += interruptCycles
		return interruptCycles, nil
	}

	before := c.Registers()
	cyclesBefore := c.cycles

	c.nraw = 0
	code := c.fetch8()
	op := opcodeTable[code]
	if op == nil {
		c.pc = before.PC
		return 0, fmt.Errorf("%w: $%02X at $%04X", ErrUnknownOpcode, code, before.PC)
	}

	c.cur = op
	c.extra = 0
	c.resolve(op)
	op.exec(c)
	c.cur = nil

	if op.access == accessRead && c.op.pageCrossed() {
		c.extra++
	}
	n = int(op.Cycles) + c.extra

	if c.verifyPC && op.VerifyPC && c.pc != before.PC+uint16(op.Size) {
		return n, fmt.Errorf("%w: %s at $%04X left PC at $%04X", ErrPCMismatch, op.Name, before.PC, c.pc)
	}

	c.cycles += uint64(n)
	c.steps++

	if c.tracer != nil {
		c.tracer.Trace(TraceEntry{
			Opcode:    op,
			Raw:       append([]uint8(nil), c.raw[:c.nraw]...),
			Addr:      c.op.addr,
			Registers: before,
			Cycles:    cyclesBefore,
		})
	}
	return n, nil
}
