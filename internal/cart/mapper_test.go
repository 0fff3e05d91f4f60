package cart

import (
	"testing"

	"github.com/nevisdale/nescore/internal/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCart(t *testing.T, mapperID uint8, prgBanks, chrBanks int) *Cartridge {
	t.Helper()
	c, err := New(image(prgBanks, PRGBankSize), image(chrBanks, CHRBankSize), mapperID, MirrorHorizontal, false)
	require.NoError(t, err)
	return c
}

func TestNewMapper_NotImplemented(t *testing.T) {
	c := newCart(t, 0, 1, 1)
	c.MapperID = 99
	_, err := NewMapper(c)
	assert.ErrorIs(t, err, ErrMapperNotImplemented)
}

func TestNewMapper_Names(t *testing.T) {
	for id, name := range map[uint8]string{0: "NROM", 1: "MMC1", 2: "UxROM", 3: "CNROM"} {
		m, err := NewMapper(newCart(t, id, 2, 2))
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}
}

func TestMapper_Attach(t *testing.T) {
	m, err := NewMapper(newCart(t, 0, 1, 1))
	require.NoError(t, err)

	seg := bus.NewExternal("PRG-LO", 0x8000, 0xBFFF, bus.WindowPRGLow)
	require.NoError(t, m.Attach(seg))
	assert.Equal(t, m, seg.Device)

	nrom := m.(*NROM)
	name, ok := nrom.Attached(bus.WindowPRGLow)
	assert.True(t, ok)
	assert.Equal(t, "PRG-LO", name)

	err = m.Attach(bus.NewExternal("?", 0x5000, 0x5FFF, bus.WindowNone))
	assert.ErrorIs(t, err, ErrUnsupportedWindow)
}

func TestNROM(t *testing.T) {
	t.Run("one bank is mirrored", func(t *testing.T) {
		m := newNROM(newCart(t, 0, 1, 1))
		m.cart.PRG[0][0x0123] = 0xAB
		assert.Equal(t, uint8(0xAB), m.Read(0x8123))
		assert.Equal(t, uint8(0xAB), m.Read(0xC123))
	})

	t.Run("two banks", func(t *testing.T) {
		m := newNROM(newCart(t, 0, 2, 1))
		assert.Equal(t, uint8(0), m.Read(0x8000))
		assert.Equal(t, uint8(1), m.Read(0xC000))
		assert.Equal(t, uint8(1), m.Read(0xFFFF))
	})

	t.Run("PRG writes are ignored", func(t *testing.T) {
		m := newNROM(newCart(t, 0, 1, 1))
		m.Write(0x8000, 0xFF)
		assert.Equal(t, uint8(0), m.Read(0x8000))
	})

	t.Run("PRG RAM", func(t *testing.T) {
		m := newNROM(newCart(t, 0, 1, 1))
		m.Write(0x6010, 0x55)
		assert.Equal(t, uint8(0x55), m.Read(0x6010))
		assert.Equal(t, uint8(0x55), m.cart.SRAM[0x10])
	})

	t.Run("CHR ROM is read only", func(t *testing.T) {
		m := newNROM(newCart(t, 0, 1, 1))
		m.cart.CHR[0][0x1FFF] = 7
		m.Write(0x1FFF, 9)
		assert.Equal(t, uint8(7), m.Read(0x1FFF))
	})

	t.Run("CHR RAM is writable", func(t *testing.T) {
		c, err := New(image(1, PRGBankSize), nil, 0, MirrorHorizontal, false)
		require.NoError(t, err)
		m := newNROM(c)
		m.Write(0x1234, 9)
		assert.Equal(t, uint8(9), m.Read(0x1234))
	})

	t.Run("expansion reads zero", func(t *testing.T) {
		m := newNROM(newCart(t, 0, 1, 1))
		assert.Equal(t, uint8(0), m.Read(0x4020))
	})
}

func mmc1Write(m *MMC1, addr uint16, value uint8) {
	for i := 0; i < 5; i++ {
		m.Write(addr, (value>>i)&0x1)
	}
}

func TestMMC1_SerialMirroring(t *testing.T) {
	c := newCart(t, 1, 2, 2)
	m := newMMC1(c)

	// 0b00010 shifted in LSB first
	for i, v := range []uint8{0x00, 0x3F, 0x00, 0x00, 0x00} {
		m.Write(0x8000, v)
		if i < 4 {
			assert.Equal(t, uint8(i+1), m.WriteCount())
		}
	}

	assert.Equal(t, MirrorVertical, c.Mirroring())
	assert.Equal(t, uint8(0), m.LoadRegister())
	assert.Equal(t, uint8(0), m.WriteCount())
}

func TestMMC1_Reset(t *testing.T) {
	m := newMMC1(newCart(t, 1, 4, 2))
	m.Write(0x8000, 1)
	m.Write(0x8000, 1)
	require.Equal(t, uint8(3), m.LoadRegister())

	m.Write(0x8000, 0x80)
	assert.Equal(t, uint8(0), m.LoadRegister())
	assert.Equal(t, uint8(0), m.WriteCount())
	assert.Equal(t, uint8(0x0C), m.control&0x0C)
}

func TestMMC1_PRGModes(t *testing.T) {
	t.Run("power on fixes last bank high", func(t *testing.T) {
		m := newMMC1(newCart(t, 1, 4, 1))
		assert.Equal(t, uint8(0), m.Read(0x8000))
		assert.Equal(t, uint8(3), m.Read(0xC000))
	})

	t.Run("mode 3 switches low", func(t *testing.T) {
		m := newMMC1(newCart(t, 1, 4, 1))
		mmc1Write(m, 0xE000, 2)
		assert.Equal(t, uint8(2), m.Read(0x8000))
		assert.Equal(t, uint8(3), m.Read(0xC000))
	})

	t.Run("mode 2 switches high", func(t *testing.T) {
		m := newMMC1(newCart(t, 1, 4, 1))
		mmc1Write(m, 0x8000, 0x08)
		mmc1Write(m, 0xE000, 2)
		assert.Equal(t, uint8(0), m.Read(0x8000))
		assert.Equal(t, uint8(2), m.Read(0xC000))
	})

	t.Run("mode 0 switches 32KB", func(t *testing.T) {
		m := newMMC1(newCart(t, 1, 4, 1))
		mmc1Write(m, 0x8000, 0x00)
		mmc1Write(m, 0xE000, 3)
		assert.Equal(t, uint8(2), m.Read(0x8000))
		assert.Equal(t, uint8(3), m.Read(0xC000))
	})
}

func TestMMC1_CHRModes(t *testing.T) {
	c := newCart(t, 1, 2, 4)
	m := newMMC1(c)

	// 4KB mode
	mmc1Write(m, 0x8000, 0x1C)
	mmc1Write(m, 0xA000, 3)
	mmc1Write(m, 0xC000, 6)
	// 4KB bank 3 is the upper half of 8KB bank 1
	assert.Equal(t, uint8(1), m.Read(0x0000))
	assert.Equal(t, uint8(3), m.Read(0x1000))

	// 8KB mode ignores the low bit
	mmc1Write(m, 0x8000, 0x0C)
	mmc1Write(m, 0xA000, 5)
	assert.Equal(t, uint8(2), m.Read(0x0000))
	assert.Equal(t, uint8(2), m.Read(0x1000))
}

func TestUxROM(t *testing.T) {
	m := newUxROM(newCart(t, 2, 8, 1))
	assert.Equal(t, uint8(0), m.Read(0x8000))
	assert.Equal(t, uint8(7), m.Read(0xC000))

	m.Write(0x8000, 5)
	assert.Equal(t, uint8(5), m.Read(0x8000))
	assert.Equal(t, uint8(7), m.Read(0xFFFF))
}

func TestCNROM(t *testing.T) {
	m := newCNROM(newCart(t, 3, 2, 4))
	assert.Equal(t, uint8(0), m.Read(0x0000))

	m.Write(0x8000, 2)
	assert.Equal(t, uint8(2), m.Read(0x0000))
	assert.Equal(t, uint8(2), m.Read(0x1FFF))
	assert.Equal(t, uint8(1), m.Read(0xC000))
}
