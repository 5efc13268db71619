// Package cartridge models the Game Boy cartridge slot: the ROM image, the
// memory bank controller (MBC) that multiplexes it onto CPU address space,
// and any external cartridge RAM.
package cartridge

// Cartridge is the interface the bus dispatches ROM-space (0x0000-0x7FFF)
// and external-RAM-space (0xA000-0xBFFF) accesses to. Every mapper variant
// implements it; writes into ROM space configure banking rather than
// mutating the image.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// New picks a mapper implementation from the cartridge-type byte at header
// offset 0x0147. Unknown types fall back to ROM-only so homebrew and test
// ROMs with unusual headers still run (spec.md §7: never partially
// initialize, degrade gracefully instead).
func New(rom []byte) Cartridge {
	h, err := ParseHeader(rom)
	if err != nil {
		return NewROMOnly(rom)
	}
	switch h.CartType {
	case 0x00:
		return NewROMOnly(rom)
	case 0x01, 0x02, 0x03:
		return NewMBC1(rom, h.RAMSizeBytes)
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return NewMBC3(rom, h.RAMSizeBytes)
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return NewMBC5(rom, h.RAMSizeBytes)
	default:
		return NewROMOnly(rom)
	}
}
