package ppu

import "github.com/nevisdale/nescore/internal/register"

// loopy is the layout of the internal v and t registers.
//
//	0yyy NN YYYYY XXXXX
//	 |   |  |     +++++-- coarse X scroll
//	 |   |  +++++-------- coarse Y scroll
//	 |   ++-------------- nametable select
//	 +++----------------- fine Y scroll
type loopy struct {
	register.Reg16
}

func newLoopy(name string) loopy {
	return loopy{Reg16: *register.NewReg16(name)}
}

func (l *loopy) coarseX() uint16 {
	return l.Value & 0x001f
}

func (l *loopy) coarseY() uint16 {
	return (l.Value >> 5) & 0x001f
}

func (l *loopy) fineY() uint16 {
	return (l.Value >> 12) & 0x7
}

func (l *loopy) setNametable(n uint8) {
	l.Value = (l.Value & 0xf3ff) | (uint16(n&0x3) << 10)
}

func (l *loopy) setCoarseX(x uint8) {
	l.Value = (l.Value & 0xffe0) | uint16(x&0x1f)
}

func (l *loopy) setCoarseY(y uint8) {
	l.Value = (l.Value & 0xfc1f) | (uint16(y&0x1f) << 5)
}

func (l *loopy) setFineY(y uint8) {
	l.Value = (l.Value & 0x8fff) | (uint16(y&0x7) << 12)
}

// setHi is the first PPUADDR write. Bit 14 is cleared.
func (l *loopy) setHi(data uint8) {
	l.Value = (l.Value & 0x80ff) | (uint16(data&0x3f) << 8)
}

func (l *loopy) setLo(data uint8) {
	l.Value = (l.Value & 0xff00) | uint16(data)
}

// copyX copies the horizontal position from t.
// v: ....A.. ...BCDEF <- t: ....A.. ...BCDEF
func (l *loopy) copyX(t *loopy) {
	l.Value = (l.Value & 0xfbe0) | (t.Value & 0x041f)
}

// copyY copies the vertical position from t.
// v: GHIA.BC DEF..... <- t: GHIA.BC DEF.....
func (l *loopy) copyY(t *loopy) {
	l.Value = (l.Value & 0x841f) | (t.Value & 0x7be0)
}

// incrementX moves to the next tile, wrapping into the horizontal nametable.
func (l *loopy) incrementX() {
	if l.coarseX() == 31 {
		l.Value &= 0xffe0
		l.Value ^= 0x0400
		return
	}
	l.Value++
}

// incrementY moves to the next pixel row. Row 29 wraps into the vertical
// nametable, rows 30 and 31 (attribute memory) wrap without switching.
func (l *loopy) incrementY() {
	if l.fineY() < 7 {
		l.Value += 0x1000
		return
	}
	l.Value &= 0x8fff
	y := l.coarseY()
	switch y {
	case 29:
		y = 0
		l.Value ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	l.setCoarseY(uint8(y))
}

// tileAddr is the nametable byte for the current tile.
func (l *loopy) tileAddr() uint16 {
	return 0x2000 | (l.Value & 0x0fff)
}

// attrAddr is the attribute byte covering the current tile.
func (l *loopy) attrAddr() uint16 {
	v := l.Value
	return 0x23c0 | (v & 0x0c00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07)
}

// attrShift selects the 2-bit palette of the current tile inside its
// attribute byte.
func (l *loopy) attrShift() uint16 {
	v := l.Value
	return ((v >> 4) & 4) | (v & 2)
}
