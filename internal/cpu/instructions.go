package cpu

// store writes the result of a shift or rotate back to A or to memory.
func (c *CPU) store(r uint8) {
	if c.cur != nil && c.cur.Mode == ModeACC {
		c.a = r
		return
	}
	c.write8(c.op.addr, r)
}

// Add with Carry
// A = A + M + C
//
// Flags Affected: C, Z, N, V
func (c *CPU) adc() {
	v := c.op.value
	r16 := uint16(c.a) + uint16(v)
	if c.getFlag(flagC) {
		r16++
	}
	r8 := uint8(r16)
	c.setFlag(flagC, r16 > 0xff)
	c.setFlagsZN(r8)
	c.setFlag(flagV, isSameSign(c.a, v) && !isSameSign(c.a, r8))
	c.a = r8
}

// Logical AND
// A = A & M
//
// Flags affected: Z, N
func (c *CPU) and() {
	c.a &= c.op.value
	c.setFlagsZN(c.a)
}

// Arithmetic Shift Left
// C <- (A or M)7, (A or M) << 1
//
// Flags affected: C, Z, N
func (c *CPU) asl() {
	c.setFlag(flagC, c.op.value&0x80 > 0)
	r := c.op.value << 1
	c.setFlagsZN(r)
	c.store(r)
}

// branch takes the jump computed by the relative mode when cond holds.
// A taken branch costs one cycle, two if it lands on another page.
func (c *CPU) branch(cond bool) {
	if !cond {
		return
	}
	c.extra++
	if !isSamePage(c.pc, c.op.addr) {
		c.extra++
	}
	c.pc = c.op.addr
}

func (c *CPU) bcc() {
	c.branch(!c.getFlag(flagC))
}

func (c *CPU) bcs() {
	c.branch(c.getFlag(flagC))
}

func (c *CPU) beq() {
	c.branch(c.getFlag(flagZ))
}

func (c *CPU) bmi() {
	c.branch(c.getFlag(flagN))
}

func (c *CPU) bne() {
	c.branch(!c.getFlag(flagZ))
}

func (c *CPU) bpl() {
	c.branch(!c.getFlag(flagN))
}

func (c *CPU) bvc() {
	c.branch(!c.getFlag(flagV))
}

func (c *CPU) bvs() {
	c.branch(c.getFlag(flagV))
}

// Bit Test
// A & M, N <- M7, V <- M6
//
// Flags affected: Z, N, V
func (c *CPU) bit() {
	c.setFlag(flagZ, c.a&c.op.value == 0)
	c.setFlag(flagN, c.op.value&flagN > 0)
	c.setFlag(flagV, c.op.value&flagV > 0)
}

// Force Interrupt
// The byte after BRK is skipped, so the pushed address is PC + 2.
func (c *CPU) brk() {
	c.pc++
	c.stackPush16(c.pc)
	c.stackPush8(c.p | flagB | flagU)
	c.setFlag(flagI, true)
	c.pc = c.read16(vectorIRQ)
}

func (c *CPU) clc() {
	c.setFlag(flagC, false)
}

func (c *CPU) cld() {
	c.setFlag(flagD, false)
}

func (c *CPU) cli() {
	c.setFlag(flagI, false)
}

func (c *CPU) clv() {
	c.setFlag(flagV, false)
}

func (c *CPU) compare(reg uint8) {
	c.setFlag(flagC, reg >= c.op.value)
	c.setFlagsZN(reg - c.op.value)
}

func (c *CPU) cmp() {
	c.compare(c.a)
}

func (c *CPU) cpx() {
	c.compare(c.x)
}

func (c *CPU) cpy() {
	c.compare(c.y)
}

func (c *CPU) dec() {
	r := c.op.value - 1
	c.setFlagsZN(r)
	c.write8(c.op.addr, r)
}

func (c *CPU) dex() {
	c.x--
	c.setFlagsZN(c.x)
}

func (c *CPU) dey() {
	c.y--
	c.setFlagsZN(c.y)
}

func (c *CPU) eor() {
	c.a ^= c.op.value
	c.setFlagsZN(c.a)
}

func (c *CPU) inc() {
	r := c.op.value + 1
	c.setFlagsZN(r)
	c.write8(c.op.addr, r)
}

func (c *CPU) inx() {
	c.x++
	c.setFlagsZN(c.x)
}

func (c *CPU) iny() {
	c.y++
	c.setFlagsZN(c.y)
}

func (c *CPU) jmp() {
	c.pc = c.op.addr
}

// Jump to Subroutine
// The address of the last byte of the instruction is pushed.
func (c *CPU) jsr() {
	c.stackPush16(c.pc - 1)
	c.pc = c.op.addr
}

func (c *CPU) lda() {
	c.a = c.op.value
	c.setFlagsZN(c.a)
}

func (c *CPU) ldx() {
	c.x = c.op.value
	c.setFlagsZN(c.x)
}

func (c *CPU) ldy() {
	c.y = c.op.value
	c.setFlagsZN(c.y)
}

// Logical Shift Right
// C <- (A or M)0, (A or M) >> 1
//
// Flags affected: C, Z, N
func (c *CPU) lsr() {
	c.setFlag(flagC, c.op.value&0x1 > 0)
	r := c.op.value >> 1
	c.setFlagsZN(r)
	c.store(r)
}

func (c *CPU) nop() {}

func (c *CPU) ora() {
	c.a |= c.op.value
	c.setFlagsZN(c.a)
}

func (c *CPU) pha() {
	c.stackPush8(c.a)
}

// Push Processor Status
// B and U are set in the pushed copy only.
func (c *CPU) php() {
	c.stackPush8(c.p | flagB | flagU)
}

func (c *CPU) pla() {
	c.a = c.stackPop8()
	c.setFlagsZN(c.a)
}

// Pull Processor Status
// B does not exist in the register, U always reads 1.
func (c *CPU) plp() {
	c.p = (c.stackPop8() &^ flagB) | flagU
}

// Rotate Left
// C <- (A or M)7, (A or M) << 1 | C
//
// Flags affected: C, Z, N
func (c *CPU) rol() {
	r := c.op.value << 1
	if c.getFlag(flagC) {
		r |= 0x1
	}
	c.setFlag(flagC, c.op.value&0x80 > 0)
	c.setFlagsZN(r)
	c.store(r)
}

// Rotate Right
// C -> (A or M)0, C << 7 | (A or M) >> 1
//
// Flags affected: C, Z, N
func (c *CPU) ror() {
	r := c.op.value >> 1
	if c.getFlag(flagC) {
		r |= 0x80
	}
	c.setFlag(flagC, c.op.value&0x1 > 0)
	c.setFlagsZN(r)
	c.store(r)
}

func (c *CPU) rti() {
	c.p = (c.stackPop8() &^ flagB) | flagU
	c.pc = c.stackPop16()
}

func (c *CPU) rts() {
	c.pc = c.stackPop16() + 1
}

// Subtract with Carry
// A = A - M - (1 - C), computed as A + ^M + C
//
// Flags affected: C, Z, N, V
func (c *CPU) sbc() {
	c.op.value = ^c.op.value
	c.adc()
}

func (c *CPU) sec() {
	c.setFlag(flagC, true)
}

func (c *CPU) sed() {
	c.setFlag(flagD, true)
}

func (c *CPU) sei() {
	c.setFlag(flagI, true)
}

func (c *CPU) sta() {
	c.write8(c.op.addr, c.a)
}

func (c *CPU) stx() {
	c.write8(c.op.addr, c.x)
}

func (c *CPU) sty() {
	c.write8(c.op.addr, c.y)
}

func (c *CPU) tax() {
	c.x = c.a
	c.setFlagsZN(c.x)
}

func (c *CPU) tay() {
	c.y = c.a
	c.setFlagsZN(c.y)
}

func (c *CPU) tsx() {
	c.x = c.sp
	c.setFlagsZN(c.x)
}

func (c *CPU) txa() {
	c.a = c.x
	c.setFlagsZN(c.a)
}

func (c *CPU) txs() {
	c.sp = c.x
}

func (c *CPU) tya() {
	c.a = c.y
	c.setFlagsZN(c.a)
}

// unofficial

func (c *CPU) lax() {
	c.a = c.op.value
	c.x = c.op.value
	c.setFlagsZN(c.a)
}

func (c *CPU) sax() {
	c.write8(c.op.addr, c.a&c.x)
}

// DEC then CMP
func (c *CPU) dcp() {
	c.op.value--
	c.write8(c.op.addr, c.op.value)
	c.cmp()
}

// INC then SBC
func (c *CPU) isc() {
	c.op.value++
	c.write8(c.op.addr, c.op.value)
	c.sbc()
}

// ASL then ORA
func (c *CPU) slo() {
	c.setFlag(flagC, c.op.value&0x80 > 0)
	r := c.op.value << 1
	c.write8(c.op.addr, r)
	c.a |= r
	c.setFlagsZN(c.a)
}

// ROL then AND
func (c *CPU) rla() {
	r := c.op.value << 1
	if c.getFlag(flagC) {
		r |= 0x1
	}
	c.setFlag(flagC, c.op.value&0x80 > 0)
	c.write8(c.op.addr, r)
	c.a &= r
	c.setFlagsZN(c.a)
}

// LSR then EOR
func (c *CPU) sre() {
	c.setFlag(flagC, c.op.value&0x1 > 0)
	r := c.op.value >> 1
	c.write8(c.op.addr, r)
	c.a ^= r
	c.setFlagsZN(c.a)
}

// ROR then ADC
func (c *CPU) rra() {
	r := c.op.value >> 1
	if c.getFlag(flagC) {
		r |= 0x80
	}
	c.setFlag(flagC, c.op.value&0x1 > 0)
	c.write8(c.op.addr, r)
	c.op.value = r
	c.adc()
}

func (c *CPU) anc() {
	c.a &= c.op.value
	c.setFlagsZN(c.a)
	c.setFlag(flagC, c.a&0x80 > 0)
}

func (c *CPU) alr() {
	c.a &= c.op.value
	c.setFlag(flagC, c.a&0x1 > 0)
	c.a >>= 1
	c.setFlagsZN(c.a)
}

// AND then ROR, with C from bit 6 and V from bit 6 xor bit 5 of the result.
func (c *CPU) arr() {
	r := (c.a & c.op.value) >> 1
	if c.getFlag(flagC) {
		r |= 0x80
	}
	c.a = r
	c.setFlagsZN(r)
	c.setFlag(flagC, r&0x40 > 0)
	c.setFlag(flagV, (r>>6^r>>5)&0x1 > 0)
}

// X = (A & X) - M, without borrow
func (c *CPU) axs() {
	ax := c.a & c.x
	c.setFlag(flagC, ax >= c.op.value)
	c.x = ax - c.op.value
	c.setFlagsZN(c.x)
}

func (c *CPU) las() {
	r := c.op.value & c.sp
	c.a = r
	c.x = r
	c.sp = r
	c.setFlagsZN(r)
}
