package bus

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeROM(size int) []byte {
	rom := make([]byte, size)
	rom[0x0147] = 0x00 // ROM only
	rom[0x0148] = 0x00 // 32 KiB
	rom[0x0149] = 0x00
	return rom
}

func TestWRAMEchoMirrors(t *testing.T) {
	b := New(makeROM(0x8000))
	b.Write(0xC010, 0x42)
	require.Equal(t, byte(0x42), b.Read(0xE010))
	b.Write(0xE020, 0x99)
	require.Equal(t, byte(0x99), b.Read(0xC020))
}

func TestHRAMAndInterruptRegisters(t *testing.T) {
	b := New(makeROM(0x8000))
	b.Write(0xFF85, 0x55)
	require.Equal(t, byte(0x55), b.Read(0xFF85))

	b.Write(0xFFFF, 0x1F)
	require.Equal(t, byte(0x1F), b.Read(0xFFFF))

	b.Write(0xFF0F, 0x03)
	require.Equal(t, byte(0xE3), b.Read(0xFF0F))
}

func TestBootROMOverlayAndDisable(t *testing.T) {
	b := New(makeROM(0x8000))
	boot := make([]byte, 0x100)
	boot[0] = 0xAA
	b.SetBootROM(boot)
	require.Equal(t, byte(0xAA), b.Read(0x0000))

	b.Write(0xFF50, 0x01)
	require.NotEqual(t, byte(0xAA), b.Read(0x0000), "cartridge ROM must be visible again once the boot ROM is disabled")
}

func TestSerialWriteInvokesSinkAndRaisesIRQ(t *testing.T) {
	b := New(makeROM(0x8000))
	var out bytes.Buffer
	b.SetSerialWriter(&out)

	b.Write(0xFF01, 'A')
	b.Write(0xFF02, 0x81)

	require.Equal(t, "A", out.String())
	require.NotZero(t, b.Read(0xFF0F)&(1<<3))
}

func TestOAMDMACopiesWRAMIntoOAM(t *testing.T) {
	b := New(makeROM(0x8000))
	for i := 0; i < 0xA0; i++ {
		b.Write(0xC000+uint16(i), byte(i))
	}
	b.Write(0xFF46, 0xC0) // source 0xC000
	for !b.dmaDone() {
		b.Tick(1)
	}
	for i := 0; i < 0xA0; i++ {
		require.Equal(t, byte(i), b.ppu.OAMByte(i))
	}
}

func (b *Bus) dmaDone() bool { return !b.dmaActive }
