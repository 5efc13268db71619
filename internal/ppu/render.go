package ppu

import "sort"

// expandPalette turns a palette register's four 2-bit color indices into
// grayscale shades, color index 0 first.
func expandPalette(reg byte) [4]byte {
	var out [4]byte
	for i := 0; i < 4; i++ {
		out[i] = shadeTable[(reg>>(uint(i)*2))&0x03]
	}
	return out
}

// tileRow returns the 8 two-bit color indices (left to right) of one row of
// an 8x8 or 8x16 tile, reading straight from VRAM without the CPU access
// gate: rendering happens on the PPU's own schedule, not the CPU's.
func (p *PPU) tileRow(tileDataAddr uint16, row int) [8]byte {
	lo := p.vram[tileDataAddr+uint16(row)*2]
	hi := p.vram[tileDataAddr+uint16(row)*2+1]
	var out [8]byte
	for bit := 0; bit < 8; bit++ {
		shift := uint(7 - bit)
		out[bit] = (hi>>shift&1)<<1 | (lo >> shift & 1)
	}
	return out
}

// bgTileDataAddr resolves a background/window tile index to its data
// address per LCDC bit 4's addressing mode (spec.md §4.3).
func (p *PPU) bgTileDataAddr(tileIdx byte) uint16 {
	if p.lcdc&0x10 != 0 {
		return uint16(tileIdx) * 16 // unsigned, base 0x8000
	}
	return uint16(0x1000 + int16(int8(tileIdx))*16) // signed, base 0x9000
}

func (p *PPU) renderScanline() {
	ly := int(p.ly)
	bgShades := expandPalette(p.bgp)
	objShades := [2][4]byte{expandPalette(p.obp0), expandPalette(p.obp1)}

	var bgLine [Width]byte   // raw 2-bit color indices, for sprite-priority comparisons
	var outLine [Width]byte

	bgWinEnabled := p.lcdc&0x01 != 0
	windowEnabled := p.lcdc&0x20 != 0 && p.wy <= p.ly

	bgMapBase := uint16(0x1800) // 0x9800 - 0x8000
	if p.lcdc&0x08 != 0 {
		bgMapBase = 0x1C00
	}
	winMapBase := uint16(0x1800)
	if p.lcdc&0x40 != 0 {
		winMapBase = 0x1C00
	}

	wxPos := int(p.wx) - 7
	drewWindow := false

	for x := 0; x < Width; x++ {
		var colorIdx byte
		if !bgWinEnabled {
			colorIdx = 0
		} else if windowEnabled && x >= wxPos {
			winX := x - wxPos
			row := int(p.winLine)
			tileCol := winX / 8
			tileRowIdx := row / 8
			tileIdx := p.vram[winMapBase+uint16(tileRowIdx)*32+uint16(tileCol)%32]
			pixels := p.tileRow(p.bgTileDataAddr(tileIdx), row%8)
			colorIdx = pixels[winX%8]
			drewWindow = true
		} else {
			bgY := (ly + int(p.scy)) % 256
			bgX := (x + int(p.scx)) % 256
			tileCol := bgX / 8
			tileRowIdx := bgY / 8
			tileIdx := p.vram[bgMapBase+uint16(tileRowIdx)*32+uint16(tileCol)]
			pixels := p.tileRow(p.bgTileDataAddr(tileIdx), bgY%8)
			colorIdx = pixels[bgX%8]
		}
		bgLine[x] = colorIdx
		outLine[x] = bgShades[colorIdx]
	}

	if drewWindow {
		p.winLine++
		p.winDrewAny = true
	}

	if p.lcdc&0x02 != 0 {
		p.renderSprites(ly, &bgLine, &outLine, bgShades[0], objShades)
	}

	copy(p.canvas[ly*Width:(ly+1)*Width], outLine[:])
}

// renderSprites composites up to 10 scanned sprites onto outLine, lowest-X
// (ties broken by OAM index) drawn on top, per spec.md §9's recommended
// sprite-priority ordering.
func (p *PPU) renderSprites(ly int, bgLine, outLine *[Width]byte, bgColor0 byte, objShades [2][4]byte) {
	tall := p.lcdc&0x04 != 0
	height := 8
	if tall {
		height = 16
	}

	ordered := make([]spriteEntry, len(p.scanBuf))
	copy(ordered, p.scanBuf)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].x != ordered[j].x {
			return ordered[i].x < ordered[j].x // lowest X first; drawn[] keeps the first sprite at each pixel
		}
		return ordered[i].index < ordered[j].index
	})

	drawn := make([]bool, Width)

	for _, s := range ordered {
		spriteY := int(s.y) - 16
		row := ly - spriteY
		if row < 0 || row >= height {
			continue
		}
		if s.attr&0x40 != 0 { // Y flip
			row = height - 1 - row
		}
		tile := s.tile
		if tall {
			tile &^= 0x01
			if row >= 8 {
				tile |= 0x01
				row -= 8
			}
		}
		pixels := p.tileRow(uint16(tile)*16, row)
		if s.attr&0x20 != 0 { // X flip
			pixels[0], pixels[1], pixels[2], pixels[3], pixels[4], pixels[5], pixels[6], pixels[7] =
				pixels[7], pixels[6], pixels[5], pixels[4], pixels[3], pixels[2], pixels[1], pixels[0]
		}

		palette := objShades[0]
		if s.attr&0x10 != 0 {
			palette = objShades[1]
		}
		behindBG := s.attr&0x80 != 0

		spriteX := int(s.x) - 8
		for col := 0; col < 8; col++ {
			x := spriteX + col
			if x < 0 || x >= Width {
				continue
			}
			colorIdx := pixels[col]
			if colorIdx == 0 {
				continue // transparent
			}
			if drawn[x] {
				continue
			}
			if behindBG && bgLine[x] != 0 {
				continue
			}
			outLine[x] = palette[colorIdx]
			drawn[x] = true
		}
	}
}

// scanOAM selects up to 10 sprites intersecting the current scanline
// (spec.md §4.3), in OAM order.
func (p *PPU) scanOAM() {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}
	ly := int(p.ly)

	p.scanBuf = p.scanBuf[:0]
	for i := 0; i < 40 && len(p.scanBuf) < 10; i++ {
		base := i * 4
		y := p.oam[base]
		x := p.oam[base+1]
		if x == 0 {
			continue
		}
		top := int(y) - 16
		if ly < top || ly >= top+height {
			continue
		}
		p.scanBuf = append(p.scanBuf, spriteEntry{
			index: byte(i),
			y:     y,
			x:     x,
			tile:  p.oam[base+2],
			attr:  p.oam[base+3],
		})
	}
}
