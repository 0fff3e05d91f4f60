package cart

import (
	"errors"
	"fmt"
)

const (
	PRGBankSize  = 0x4000
	CHRBankSize  = 0x2000
	PRGRAMSize   = 0x2000
	nametableLen = 0x400
)

var ErrInvalidImage = errors.New("invalid cartridge image")

// Mirroring selects how the four logical nametables map onto VRAM.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorSingleLower
	MirrorSingleUpper
	MirrorFourScreen
)

func (m Mirroring) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorSingleLower:
		return "single-lower"
	case MirrorSingleUpper:
		return "single-upper"
	case MirrorFourScreen:
		return "four-screen"
	}
	return "unknown"
}

// Nametable maps a nametable address ($2000-$2FFF) to an offset in VRAM.
// Only four-screen mirroring uses more than the first 2KB.
func (m Mirroring) Nametable(addr uint16) uint16 {
	table := (addr - 0x2000) / nametableLen & 0x3
	offset := addr & (nametableLen - 1)

	var physical uint16
	switch m {
	case MirrorHorizontal:
		physical = table >> 1
	case MirrorVertical:
		physical = table & 0x1
	case MirrorSingleLower:
		physical = 0
	case MirrorSingleUpper:
		physical = 1
	case MirrorFourScreen:
		physical = table
	}
	return physical*nametableLen + offset
}

// Cartridge holds the banks of a loaded game. Banks are immutable except
// for CHR RAM and SRAM.
type Cartridge struct {
	MapperID uint8
	PRG      [][]uint8 // 16KB banks
	CHR      [][]uint8 // 8KB banks
	SRAM     []uint8
	Battery  bool

	chrRAM    bool
	mirroring Mirroring
}

// New slices raw PRG and CHR images into banks. An empty CHR image gives
// the cartridge a single bank of CHR RAM.
func New(prg, chr []uint8, mapperID uint8, mirroring Mirroring, battery bool) (*Cartridge, error) {
	if len(prg) == 0 || len(prg)%PRGBankSize != 0 {
		return nil, fmt.Errorf("%w: PRG size %d is not a multiple of %d", ErrInvalidImage, len(prg), PRGBankSize)
	}
	if len(chr)%CHRBankSize != 0 {
		return nil, fmt.Errorf("%w: CHR size %d is not a multiple of %d", ErrInvalidImage, len(chr), CHRBankSize)
	}

	c := &Cartridge{
		MapperID:  mapperID,
		SRAM:      make([]uint8, PRGRAMSize),
		Battery:   battery,
		mirroring: mirroring,
	}
	for i := 0; i < len(prg); i += PRGBankSize {
		c.PRG = append(c.PRG, prg[i:i+PRGBankSize])
	}
	if len(chr) == 0 {
		c.chrRAM = true
		chr = make([]uint8, CHRBankSize)
	}
	for i := 0; i < len(chr); i += CHRBankSize {
		c.CHR = append(c.CHR, chr[i:i+CHRBankSize])
	}
	return c, nil
}

func (c *Cartridge) Mirroring() Mirroring {
	return c.mirroring
}

func (c *Cartridge) SetMirroring(m Mirroring) {
	c.mirroring = m
}

// HasCHRRAM reports whether pattern memory is writable.
func (c *Cartridge) HasCHRRAM() bool {
	return c.chrRAM
}

func (c *Cartridge) prgBank(n int) []uint8 {
	n %= len(c.PRG)
	if n < 0 {
		n += len(c.PRG)
	}
	return c.PRG[n]
}

// chrBank4K returns the n-th 4KB half bank of CHR memory.
func (c *Cartridge) chrBank4K(n int) []uint8 {
	count := len(c.CHR) * 2
	n %= count
	if n < 0 {
		n += count
	}
	half := (n & 1) * 0x1000
	return c.CHR[n/2][half : half+0x1000]
}

func (c *Cartridge) String() string {
	return fmt.Sprintf("mapper %d, %d PRG x 16KB, %d CHR x 8KB, %s mirroring", c.MapperID, len(c.PRG), len(c.CHR), c.mirroring)
}
