package ppu

import "strings"

// CompatPalette names a curated DMG shade ramp a host display can offer in
// place of the flat grayscale shadeTable, the way GBC consoles auto-select a
// color palette for original DMG carts by title. This is a cosmetic,
// host-side hint: the PPU itself still composites in grayscale index space.
type CompatPalette int

const (
	PaletteGreen CompatPalette = iota
	PaletteSepia
	PaletteBlue
	PaletteRed
	PalettePastel
)

var compatTitleExact = map[string]CompatPalette{
	"TETRIS":              PaletteBlue,
	"TETRIS DX":           PaletteBlue,
	"SUPER MARIO LAND":    PaletteRed,
	"SUPER MARIO LAND 2":  PaletteRed,
	"DR. MARIO":           PalettePastel,
	"DONKEY KONG":         PaletteSepia,
	"THE LEGEND OF ZELDA": PaletteGreen,
	"ZELDA":               PaletteGreen,
	"KIRBY'S DREAM LAND":  PalettePastel,
	"MEGA MAN":            PaletteBlue,
	"MEGAMAN":             PaletteBlue,
	"WARIO LAND":          PaletteSepia,
	"POKEMON YELLOW":      PalettePastel,
	"POKEMON RED":         PalettePastel,
	"POKEMON BLUE":        PalettePastel,
}

var compatTitleContains = []struct {
	substr string
	id     CompatPalette
}{
	{"TETRIS", PaletteBlue},
	{"MARIO", PaletteRed},
	{"ZELDA", PaletteGreen},
	{"KIRBY", PalettePastel},
	{"DONKEY KONG", PaletteSepia},
	{"WARIO", PaletteSepia},
	{"POKEMON", PalettePastel},
}

// CompatPaletteForTitle picks a display palette from a cartridge title using
// the same exact-then-substring heuristic as the title's family of games,
// falling back to green (the original DMG's own tint).
func CompatPaletteForTitle(title string) CompatPalette {
	t := strings.ToUpper(strings.TrimSpace(title))
	if id, ok := compatTitleExact[t]; ok {
		return id
	}
	for _, r := range compatTitleContains {
		if strings.Contains(t, r.substr) {
			return r.id
		}
	}
	return PaletteGreen
}

// Shades returns four RGB tuples (lightest to darkest) a host can map the
// PPU's grayscale canvas output through.
func (c CompatPalette) Shades() [4][3]byte {
	switch c {
	case PaletteSepia:
		return [4][3]byte{{0xE8, 0xD8, 0xB8}, {0xB8, 0x98, 0x68}, {0x80, 0x60, 0x38}, {0x40, 0x28, 0x10}}
	case PaletteBlue:
		return [4][3]byte{{0xE0, 0xF0, 0xFF}, {0x90, 0xC0, 0xF0}, {0x40, 0x70, 0xC0}, {0x10, 0x20, 0x50}}
	case PaletteRed:
		return [4][3]byte{{0xFF, 0xE8, 0xE0}, {0xF0, 0x90, 0x80}, {0xC0, 0x40, 0x30}, {0x50, 0x10, 0x10}}
	case PalettePastel:
		return [4][3]byte{{0xF8, 0xF0, 0xFF}, {0xD0, 0xC0, 0xF0}, {0x90, 0x80, 0xC0}, {0x40, 0x38, 0x60}}
	default: // PaletteGreen
		return [4][3]byte{{0xE0, 0xF8, 0xD0}, {0x88, 0xC0, 0x70}, {0x34, 0x68, 0x56}, {0x08, 0x18, 0x20}}
	}
}

// GrayscaleToIndex maps a shadeTable byte back to its 0-3 color index, for
// hosts that want to re-palette the canvas after the fact instead of during
// compositing.
func GrayscaleToIndex(v byte) int {
	for i, s := range shadeTable {
		if s == v {
			return i
		}
	}
	return 0
}
