package cartridge

// MBC3 implements mapper types 0x0F-0x13: up to 2 MiB ROM and 32 KiB RAM
// via a full 7-bit ROM bank register. The real chip also multiplexes a
// battery-backed real-time clock onto the RAM-bank register (values
// 0x08-0x0C); this core has no wall clock to drive it (spec.md's Non-goals
// exclude cartridge persistence entirely) so those selections read back 0xFF
// and ignore writes instead of exposing a live clock register.
type MBC3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    byte
	ramBank    byte
}

func NewMBC3(rom []byte, ramSize int) *MBC3 {
	m := &MBC3{rom: rom, romBank: 1}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	return m
}

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank & 0x7F)
		if bank == 0 {
			bank = 1
		}
		off := bank*0x4000 + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 || m.ramBank > 0x03 {
			return 0xFF
		}
		off := int(m.ramBank)*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.ramBank = value // 0x00-0x03 select RAM; 0x08-0x0C would select an RTC register
	case addr < 0x8000:
		// Latch-clock-data write; no RTC to latch.
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 || m.ramBank > 0x03 {
			return
		}
		off := int(m.ramBank)*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}
