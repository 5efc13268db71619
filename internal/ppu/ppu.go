// Package ppu implements the scanline-based picture processing unit:
// LCDC/STAT/scroll/palette registers, the four-mode scanline state machine,
// OAM DMA's destination memory, and background/window/sprite compositing
// into a 160x144 grayscale canvas (spec.md §4.3).
package ppu

// InterruptRequester raises one of the five CPU interrupt flag bits
// (0 VBlank, 1 STAT, 2 timer, 3 serial, 4 joypad). The PPU only ever raises
// bits 0 and 1.
type InterruptRequester func(bit int)

const (
	ModeHBlank = 0
	ModeVBlank = 1
	ModeOAM    = 2
	ModeDraw   = 3

	Width  = 160
	Height = 144

	dotsPerLine    = 456
	oamScanDots    = 80
	drawDots       = 172
	linesPerFrame  = 154
	firstVBlankLn  = 144
)

// shadeTable maps a 2-bit color index to the grayscale byte the host
// displays (spec.md §6): 0=lightest, 3=darkest.
var shadeTable = [4]byte{0xFF, 0xC0, 0x60, 0x00}

type spriteEntry struct {
	index byte
	y, x  byte
	tile  byte
	attr  byte
}

// PPU owns VRAM, OAM, and every LCD-facing register.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat       byte
	scy, scx         byte
	ly, lyc          byte
	bgp, obp0, obp1  byte
	wy, wx           byte

	dot int // 0..455 within the current scanline

	scanBuf    []spriteEntry // up to 10 sprites for the current line
	winLine    byte          // internal window-line counter
	winDrewAny bool          // did the window draw any pixel on the current line?

	statLine bool // previous value of the STAT interrupt OR-line, for edge detection

	canvas [Width * Height]byte

	req InterruptRequester
}

func New(req InterruptRequester) *PPU {
	return &PPU{req: req}
}

// Framebuffer returns the 160x144 grayscale canvas, row-major.
func (p *PPU) Framebuffer() []byte { return p.canvas[:] }

func (p *PPU) LY() byte  { return p.ly }
func (p *PPU) Mode() byte { return p.stat & 0x03 }

// CPURead serves VRAM/OAM and the PPU's IO register block. VRAM and OAM are
// inaccessible to the CPU during the mode that owns them on real hardware;
// spec.md §9 allows permitting unrestricted access, but the restriction is
// cheap and several test ROMs rely on it, so it is enforced here.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.Mode() == ModeDraw {
			return 0xFF
		}
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.Mode(); m == ModeOAM || m == ModeDraw {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | p.stat&0x7F
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

func (p *PPU) CPUWrite(addr uint16, v byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.Mode() != ModeDraw {
			p.vram[addr-0x8000] = v
		}
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.Mode(); m != ModeOAM && m != ModeDraw {
			p.oam[addr-0xFE00] = v
		}
	case addr == 0xFF40:
		p.writeLCDC(v)
	case addr == 0xFF41:
		p.stat = p.stat&0x07 | v&0x78
		p.updateStatLine()
	case addr == 0xFF42:
		p.scy = v
	case addr == 0xFF43:
		p.scx = v
	case addr == 0xFF44:
		// LY is read-only; writes reset it, matching real hardware's latch.
		p.ly = 0
		p.dot = 0
		p.updateLYCFlag()
	case addr == 0xFF45:
		p.lyc = v
		p.updateLYCFlag()
	case addr == 0xFF47:
		p.bgp = v
	case addr == 0xFF48:
		p.obp0 = v
	case addr == 0xFF49:
		p.obp1 = v
	case addr == 0xFF4A:
		p.wy = v
	case addr == 0xFF4B:
		p.wx = v
	}
}

// OAMByte/SetOAMByte give the bus's DMA routine direct, mode-unrestricted
// access to OAM (real OAM DMA bypasses the CPU access gating, which only
// applies to CPU bus reads/writes).
func (p *PPU) OAMByte(i int) byte     { return p.oam[i] }
func (p *PPU) SetOAMByte(i int, v byte) { p.oam[i] = v }

func (p *PPU) writeLCDC(v byte) {
	prev := p.lcdc
	p.lcdc = v
	wasOn := prev&0x80 != 0
	isOn := v&0x80 != 0
	if wasOn && !isOn {
		for i := range p.canvas {
			p.canvas[i] = shadeTable[0]
		}
		p.ly = 0
		p.dot = dotsPerLine
		p.stat &^= 0x03
		p.updateStatLine()
	} else if !wasOn && isOn {
		p.ly = 0
		p.dot = 0
		p.winLine = 0
		p.setMode(ModeOAM)
		p.scanOAM()
		p.updateLYCFlag()
	}
}

// Tick advances the PPU by the given number of dot-clocks (1 dot = 1 CPU
// cycle at this emulator's master clock), running the per-step algorithm of
// spec.md §4.3 once per dot.
func (p *PPU) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		p.tickOne()
	}
}

func (p *PPU) tickOne() {
	if p.lcdc&0x80 == 0 {
		return // LCD disabled: state was already forced off in writeLCDC
	}

	p.dot++
	if p.dot < dotsPerLine {
		p.applyModeForDot()
		return
	}

	p.dot = 0
	p.ly++
	if p.ly == firstVBlankLn {
		p.enterVBlank()
	} else if p.ly >= linesPerFrame {
		p.ly = 0
		p.winLine = 0
	}
	p.updateLYCFlag()
	p.applyModeForDot()
}

func (p *PPU) applyModeForDot() {
	var mode byte
	switch {
	case p.ly >= firstVBlankLn:
		mode = ModeVBlank
	case p.dot < oamScanDots:
		mode = ModeOAM
	case p.dot < oamScanDots+drawDots:
		mode = ModeDraw
	default:
		mode = ModeHBlank
	}
	p.setMode(mode)
}

func (p *PPU) setMode(mode byte) {
	prev := p.stat & 0x03
	p.stat = p.stat&^0x03 | mode&0x03
	if prev == mode {
		p.updateStatLine()
		return
	}
	switch mode {
	case ModeOAM:
		p.winDrewAny = false
		p.scanOAM()
	case ModeDraw:
		p.renderScanline()
	}
	p.updateStatLine()
}

func (p *PPU) enterVBlank() {
	if p.req != nil {
		p.req(0) // VBlank IRQ always fires, independent of STAT
	}
}

func (p *PPU) updateLYCFlag() {
	if p.ly == p.lyc {
		p.stat |= 1 << 2
	} else {
		p.stat &^= 1 << 2
	}
	p.updateStatLine()
}

// updateStatLine implements the edge-triggered single STAT interrupt line
// spec.md §9 recommends in place of the source's "raise on every condition"
// behavior: IRQ 1 fires only when the OR of the enabled STAT sources
// transitions from false to true.
func (p *PPU) updateStatLine() {
	mode := p.stat & 0x03
	line := p.stat&(1<<2) != 0 && p.stat&(1<<6) != 0 // LYC=LY, enabled
	line = line || (mode == ModeHBlank && p.stat&(1<<3) != 0)
	line = line || (mode == ModeOAM && p.stat&(1<<5) != 0)
	line = line || (mode == ModeVBlank && p.stat&(1<<4) != 0)

	if line && !p.statLine {
		if p.req != nil {
			p.req(1)
		}
	}
	p.statLine = line
}
