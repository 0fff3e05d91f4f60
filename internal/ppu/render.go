package ppu

func (p *PPU) greyscale(color uint8) uint8 {
	if p.mask(maskGreyscale) {
		return color & 0x30
	}
	return color & 0x3f
}

func (p *PPU) renderPixel() {
	x := p.dot - 1
	y := p.scanline

	background := p.backgroundPixel()
	i, sprite := p.spritePixel()

	if x < 8 && !p.mask(maskShowLeftBg) {
		background = 0
	}
	if x < 8 && !p.mask(maskShowLeftSprite) {
		sprite = 0
	}

	b := background%4 != 0
	s := sprite%4 != 0

	var color uint8
	switch {
	case !b && !s:
		color = 0
	case !b && s:
		color = sprite | 0x10
	case b && !s:
		color = background
	default:
		if p.spriteIndexes[i] == 0 && x < 255 {
			p.status |= statusSpriteZero
		}
		if p.spritePriorities[i] == 0 {
			color = sprite | 0x10
		} else {
			color = background
		}
	}

	p.back[y*Width+x] = p.greyscale(p.palette.color(color))
}

func (p *PPU) backgroundPixel() uint8 {
	if !p.mask(maskShowBg) {
		return 0
	}
	// the upper 32 bits hold the tile being drawn, 4 bits per pixel
	data := uint32(p.tileData>>32) >> ((7 - p.x) * 4)
	return uint8(data & 0x0f)
}

// spritePixel returns the slot and color of the first opaque sprite pixel
// at the current dot.
func (p *PPU) spritePixel() (uint8, uint8) {
	if !p.mask(maskShowSprites) {
		return 0, 0
	}
	for i := 0; i < p.spriteCount; i++ {
		offset := p.dot - 1 - int(p.spritePositions[i])
		if offset < 0 || offset > 7 {
			continue
		}
		offset = 7 - offset
		color := uint8((p.spritePatterns[i] >> uint(offset*4)) & 0x0f)
		if color%4 == 0 {
			continue
		}
		return uint8(i), color
	}
	return 0, 0
}

func (p *PPU) spriteHeight() int {
	if p.ctrl(ctrlSpriteSize16) {
		return 16
	}
	return 8
}

// evaluateSprites selects up to 8 sprites for the next line. Sprite Y is
// one less than the first line the sprite appears on.
func (p *PPU) evaluateSprites() {
	h := p.spriteHeight()
	count := 0
	for i := 0; i < 64; i++ {
		y := p.oam[i*4+0]
		a := p.oam[i*4+2]
		x := p.oam[i*4+3]
		row := p.scanline - int(y)
		if row < 0 || row >= h {
			continue
		}
		if count < 8 {
			p.spritePatterns[count] = p.fetchSpritePattern(i, row)
			p.spritePositions[count] = x
			p.spritePriorities[count] = (a >> 5) & 1
			p.spriteIndexes[count] = uint8(i)
		}
		count++
	}
	if count > 8 {
		count = 8
		p.status |= statusOverflow
	}
	p.spriteCount = count
}

// fetchSpritePattern returns the 8 pixels of one sprite row, 4 bits each,
// with the palette in the upper two bits and flips applied.
func (p *PPU) fetchSpritePattern(i, row int) uint32 {
	tile := p.oam[i*4+1]
	attributes := p.oam[i*4+2]

	var addr uint16
	if p.spriteHeight() == 8 {
		if attributes&0x80 == 0x80 {
			row = 7 - row
		}
		var table uint16
		if p.ctrl(ctrlSpriteTable) {
			table = 1
		}
		addr = 0x1000*table + uint16(tile)*16 + uint16(row)
	} else {
		if attributes&0x80 == 0x80 {
			row = 15 - row
		}
		table := uint16(tile & 1)
		tile &= 0xfe
		if row > 7 {
			tile++
			row -= 8
		}
		addr = 0x1000*table + uint16(tile)*16 + uint16(row)
	}

	lo := p.mem.ReadByte(addr)
	hi := p.mem.ReadByte(addr + 8)
	pal := (attributes & 3) << 2

	var data uint32
	for i := 0; i < 8; i++ {
		var p1, p2 uint8
		if attributes&0x40 == 0x40 {
			p1 = lo & 1
			p2 = (hi & 1) << 1
			lo >>= 1
			hi >>= 1
		} else {
			p1 = (lo & 0x80) >> 7
			p2 = (hi & 0x80) >> 6
			lo <<= 1
			hi <<= 1
		}
		data <<= 4
		data |= uint32(pal | p1 | p2)
	}
	return data
}

func (p *PPU) backgroundTable() uint16 {
	if p.ctrl(ctrlBgTable) {
		return 0x1000
	}
	return 0
}

func (p *PPU) fetchNameTableByte() {
	p.nameTableByte = p.mem.ReadByte(p.v.tileAddr())
}

func (p *PPU) fetchAttrTableByte() {
	p.attrTableByte = ((p.mem.ReadByte(p.v.attrAddr()) >> p.v.attrShift()) & 3) << 2
}

func (p *PPU) fetchLowTileByte() {
	addr := p.backgroundTable() + uint16(p.nameTableByte)*16 + p.v.fineY()
	p.lowTileByte = p.mem.ReadByte(addr)
}

func (p *PPU) fetchHighTileByte() {
	addr := p.backgroundTable() + uint16(p.nameTableByte)*16 + p.v.fineY()
	p.highTileByte = p.mem.ReadByte(addr + 8)
}

// storeTileData shifts the fetched tile row into the low half of tileData.
func (p *PPU) storeTileData() {
	var data uint32
	for i := 0; i < 8; i++ {
		p1 := (p.lowTileByte & 0x80) >> 7
		p2 := (p.highTileByte & 0x80) >> 6
		p.lowTileByte <<= 1
		p.highTileByte <<= 1
		data <<= 4
		data |= uint32(p.attrTableByte | p1 | p2)
	}
	p.tileData |= uint64(data)
}
