package cartridge

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F
)

// Header is the subset of the 0x0100-0x014F cartridge header spec.md §6
// requires the core to read, plus a few decoded convenience fields used for
// logging and mapper selection.
type Header struct {
	Title          string
	CartType       byte // 0x0147
	ROMSizeCode    byte // 0x0148
	RAMSizeCode    byte // 0x0149
	HeaderChecksum byte // 0x014D
	GlobalChecksum uint16

	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	CartTypeName string
}

// ParseHeader reads the cartridge header out of a flat ROM image. It never
// rejects a ROM for a bad Nintendo logo or checksum — those are cosmetic on
// real hardware and test ROMs routinely omit them.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, fmt.Errorf("cartridge: image too small (%d bytes) to contain a header", len(rom))
	}

	title := strings.TrimRight(string(rom[0x0134:0x0144]), "\x00")

	h := &Header{
		Title:          title,
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
	}
	h.ROMSizeBytes, h.ROMBanks = decodeROMSize(h.ROMSizeCode)
	h.RAMSizeBytes = decodeRAMSize(h.RAMSizeCode)
	h.CartTypeName = cartTypeName(h.CartType)
	return h, nil
}

func decodeROMSize(code byte) (size, banks int) {
	switch code {
	case 0x00:
		return 32 * 1024, 2
	case 0x01:
		return 64 * 1024, 4
	case 0x02:
		return 128 * 1024, 8
	case 0x03:
		return 256 * 1024, 16
	case 0x04:
		return 512 * 1024, 32
	case 0x05:
		return 1024 * 1024, 64
	case 0x06:
		return 2 * 1024 * 1024, 128
	case 0x07:
		return 4 * 1024 * 1024, 256
	case 0x08:
		return 8 * 1024 * 1024, 512
	default:
		return 0, 0
	}
}

func decodeRAMSize(code byte) int {
	switch code {
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	default:
		return 0
	}
}

func cartTypeName(code byte) string {
	switch code {
	case 0x00:
		return "ROM ONLY"
	case 0x01, 0x02, 0x03:
		return "MBC1"
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return "MBC3"
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return "MBC5"
	default:
		return "unsupported/unknown"
	}
}
