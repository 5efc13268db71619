package cartridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeROM(size int, cartType, romSizeCode, ramSizeCode byte) []byte {
	rom := make([]byte, size)
	copy(rom[0x0134:], []byte("TESTROM"))
	rom[0x0147] = cartType
	rom[0x0148] = romSizeCode
	rom[0x0149] = ramSizeCode
	return rom
}

func TestParseHeader(t *testing.T) {
	rom := makeROM(0x8000, 0x01, 0x00, 0x02)
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	require.Equal(t, "TESTROM", h.Title)
	require.Equal(t, byte(0x01), h.CartType)
	require.Equal(t, "MBC1", h.CartTypeName)
	require.Equal(t, 8*1024, h.RAMSizeBytes)
}

func TestParseHeaderTooSmall(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x10))
	require.Error(t, err)
}

func TestNewSelectsMapperByCartType(t *testing.T) {
	require.IsType(t, &ROMOnly{}, New(makeROM(0x8000, 0x00, 0x00, 0x00)))
	require.IsType(t, &MBC1{}, New(makeROM(0x8000, 0x01, 0x00, 0x00)))
	require.IsType(t, &MBC3{}, New(makeROM(0x8000, 0x11, 0x00, 0x00)))
	require.IsType(t, &MBC5{}, New(makeROM(0x8000, 0x19, 0x00, 0x00)))
	require.IsType(t, &ROMOnly{}, New(makeROM(0x8000, 0x42, 0x00, 0x00)))
}
