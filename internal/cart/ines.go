package cart

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
)

const (
	inesMagic      = 0x1a53454e
	inesTrainerLen = 512
)

var (
	ErrInvalidHeader = errors.New("invalid iNES header")
	ErrTruncated     = errors.New("truncated iNES image")
)

type inesHeader struct {
	Magic      uint32
	PrgRomSize uint8
	ChrRomSize uint8
	Flags6     uint8
	Flags7     uint8
	Flags8     uint8
	Flags9     uint8
	Flags10    uint8
	_          [5]uint8 // unused
}

// LoadFile reads a .nes file.
// Supported NES format: iNES
func LoadFile(path string) (*Cartridge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open the file: %w", err)
	}
	defer file.Close()

	c, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	glog.Infof("loaded %s: %s", path, c)
	return c, nil
}

// Load reads an iNES image from r.
func Load(r io.Reader) (*Cartridge, error) {
	var header inesHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: couldn't read the header: %w", ErrInvalidHeader, err)
	}
	if header.Magic != inesMagic {
		return nil, fmt.Errorf("%w: bad magic %08X", ErrInvalidHeader, header.Magic)
	}
	if header.PrgRomSize == 0 {
		return nil, fmt.Errorf("%w: no PRG ROM", ErrInvalidHeader)
	}
	// bit 2 of flags6 is the trainer flag
	if header.Flags6&0x4 != 0 {
		if _, err := io.CopyN(io.Discard, r, inesTrainerLen); err != nil {
			return nil, fmt.Errorf("%w: couldn't skip the trainer: %w", ErrTruncated, err)
		}
	}

	// flag6 and flag7 contain part of the mapper ID in 4 high bits
	// flag6: lower 4 bits of mapper ID
	// flag7: upper 4 bits of mapper ID
	mapperID := (header.Flags7 & 0xf0) | (header.Flags6 >> 4)

	mirroring := MirrorHorizontal
	if header.Flags6&0x1 != 0 {
		mirroring = MirrorVertical
	}
	if header.Flags6&0x8 != 0 {
		mirroring = MirrorFourScreen
	}
	battery := header.Flags6&0x2 != 0

	prg := make([]uint8, int(header.PrgRomSize)*PRGBankSize)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("%w: couldn't read PRG ROM: %w", ErrTruncated, err)
	}
	chr := make([]uint8, int(header.ChrRomSize)*CHRBankSize)
	if _, err := io.ReadFull(r, chr); err != nil {
		return nil, fmt.Errorf("%w: couldn't read CHR ROM: %w", ErrTruncated, err)
	}

	return New(prg, chr, mapperID, mirroring, battery)
}
