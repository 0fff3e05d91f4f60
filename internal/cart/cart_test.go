package cart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// image builds PRG/CHR data where every bank is filled with its index.
func image(banks, size int) []uint8 {
	data := make([]uint8, banks*size)
	for i := range data {
		data[i] = uint8(i / size)
	}
	return data
}

func inesImage(prgBanks, chrBanks int, flags6, flags7 uint8, trainer bool) []uint8 {
	var buf bytes.Buffer
	if trainer {
		flags6 |= 0x4
	}
	buf.Write([]uint8{'N', 'E', 'S', 0x1A, uint8(prgBanks), uint8(chrBanks), flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0})
	if trainer {
		buf.Write(make([]uint8, inesTrainerLen))
	}
	buf.Write(image(prgBanks, PRGBankSize))
	buf.Write(image(chrBanks, CHRBankSize))
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	c, err := New(image(2, PRGBankSize), image(1, CHRBankSize), 0, MirrorVertical, true)
	require.NoError(t, err)

	assert.Len(t, c.PRG, 2)
	assert.Len(t, c.CHR, 1)
	assert.Len(t, c.SRAM, PRGRAMSize)
	assert.Equal(t, uint8(1), c.PRG[1][0])
	assert.Equal(t, MirrorVertical, c.Mirroring())
	assert.True(t, c.Battery)
	assert.False(t, c.HasCHRRAM())
}

func TestNew_CHRRAM(t *testing.T) {
	c, err := New(image(1, PRGBankSize), nil, 2, MirrorHorizontal, false)
	require.NoError(t, err)
	assert.True(t, c.HasCHRRAM())
	assert.Len(t, c.CHR, 1)
	assert.Len(t, c.CHR[0], CHRBankSize)
}

func TestNew_InvalidImage(t *testing.T) {
	_, err := New(nil, nil, 0, MirrorHorizontal, false)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = New(make([]uint8, 100), nil, 0, MirrorHorizontal, false)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = New(image(1, PRGBankSize), make([]uint8, 100), 0, MirrorHorizontal, false)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestMirroring_Nametable(t *testing.T) {
	tests := []struct {
		mirroring Mirroring
		// physical table for logical tables 0..3
		tables [4]uint16
	}{
		{MirrorHorizontal, [4]uint16{0, 0, 1, 1}},
		{MirrorVertical, [4]uint16{0, 1, 0, 1}},
		{MirrorSingleLower, [4]uint16{0, 0, 0, 0}},
		{MirrorSingleUpper, [4]uint16{1, 1, 1, 1}},
		{MirrorFourScreen, [4]uint16{0, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.mirroring.String(), func(t *testing.T) {
			for table, physical := range tt.tables {
				addr := 0x2000 + uint16(table)*0x400 + 0x123
				assert.Equal(t, physical*0x400+0x123, tt.mirroring.Nametable(addr), "table %d", table)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("vertical mapper 1 with battery", func(t *testing.T) {
		c, err := Load(bytes.NewReader(inesImage(2, 1, 0x13, 0x00, false)))
		require.NoError(t, err)
		assert.Equal(t, uint8(1), c.MapperID)
		assert.Equal(t, MirrorVertical, c.Mirroring())
		assert.True(t, c.Battery)
		assert.Len(t, c.PRG, 2)
		assert.Equal(t, uint8(1), c.PRG[1][0x3FFF])
	})

	t.Run("mapper id high nibble", func(t *testing.T) {
		c, err := Load(bytes.NewReader(inesImage(1, 1, 0x20, 0x40, false)))
		require.NoError(t, err)
		assert.Equal(t, uint8(0x42), c.MapperID)
		assert.Equal(t, MirrorHorizontal, c.Mirroring())
	})

	t.Run("four screen", func(t *testing.T) {
		c, err := Load(bytes.NewReader(inesImage(1, 0, 0x08, 0, false)))
		require.NoError(t, err)
		assert.Equal(t, MirrorFourScreen, c.Mirroring())
		assert.True(t, c.HasCHRRAM())
	})

	t.Run("trainer is skipped", func(t *testing.T) {
		c, err := Load(bytes.NewReader(inesImage(2, 1, 0, 0, true)))
		require.NoError(t, err)
		assert.Equal(t, uint8(1), c.PRG[1][0])
	})

	t.Run("battery bit is not the trainer bit", func(t *testing.T) {
		c, err := Load(bytes.NewReader(inesImage(2, 1, 0x02, 0, false)))
		require.NoError(t, err)
		assert.Equal(t, uint8(0), c.PRG[0][0])
		assert.Equal(t, uint8(1), c.PRG[1][0])
	})

	t.Run("bad magic", func(t *testing.T) {
		data := inesImage(1, 1, 0, 0, false)
		data[3] = 0
		_, err := Load(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("short header", func(t *testing.T) {
		_, err := Load(bytes.NewReader([]uint8{'N', 'E', 'S'}))
		assert.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("truncated PRG", func(t *testing.T) {
		data := inesImage(2, 1, 0, 0, false)
		_, err := Load(bytes.NewReader(data[:16+PRGBankSize]))
		assert.ErrorIs(t, err, ErrTruncated)
	})
}
