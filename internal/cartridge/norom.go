package cartridge

// ROMOnly is mapper type 0x00: a bare ROM image with no banking and no
// external RAM beyond what fits at 0xA000-0xBFFF on carts that wire any up.
type ROMOnly struct {
	rom []byte
	ram [0x2000]byte
}

func NewROMOnly(rom []byte) *ROMOnly { return &ROMOnly{rom: rom} }

func (c *ROMOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		return c.ram[addr-0xA000]
	default:
		return 0xFF
	}
}

func (c *ROMOnly) Write(addr uint16, value byte) {
	if addr >= 0xA000 && addr <= 0xBFFF {
		c.ram[addr-0xA000] = value
	}
	// Writes into ROM space configure banking on real mappers; ROM-only
	// carts have none, so they're simply ignored.
}
