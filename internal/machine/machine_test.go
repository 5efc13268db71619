package machine

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func romWithHeader(size int, cartType, romSizeCode byte) []byte {
	rom := make([]byte, size)
	rom[0x0134] = 'T'
	rom[0x0135] = 'E'
	rom[0x0136] = 'S'
	rom[0x0137] = 'T'
	rom[0x0147] = cartType
	rom[0x0148] = romSizeCode
	rom[0x0149] = 0x00
	return rom
}

func TestNewWithoutBootROMUsesPostBootState(t *testing.T) {
	m, err := New(romWithHeader(0x8000, 0x00, 0x00), nil, Defaults())
	require.NoError(t, err)
	require.Equal(t, uint16(0x0100), m.cpu.PC)
	require.Equal(t, "TEST", m.ROMTitle())
}

func TestBootROMRunsFirstThenHandsOffAtDisable(t *testing.T) {
	rom := romWithHeader(0x8000, 0x00, 0x00)
	rom[0x0100] = 0x00 // NOP at the cartridge entry point; this test stops at PC 0x0004, before reaching it

	boot := make([]byte, 0x100)
	boot[0x00] = 0x3E // LD A,d8
	boot[0x01] = 0x42
	boot[0x02] = 0xE0 // LDH (0xFF50),A -> disables boot ROM, handing off to cartridge
	boot[0x03] = 0x50

	m, err := New(rom, boot, Defaults())
	require.NoError(t, err)
	require.Equal(t, uint16(0x0000), m.cpu.PC)

	m.StepInstruction() // LD A,0x42
	m.StepInstruction() // LDH (0x50),A: disable boot ROM
	require.Equal(t, byte(0x42), m.cpu.A)
	require.Equal(t, uint16(0x0004), m.cpu.PC)
	require.Equal(t, byte(0x00), m.bus.Read(0x0000), "cartridge ROM, not the boot ROM, must now be visible at 0x0000")
}

// TestMBC1BankSwitchEndToEnd exercises spec.md §8 scenario (e): selecting
// ROM bank N makes bank N's bytes visible at 0x4000-0x7FFF.
func TestMBC1BankSwitchEndToEnd(t *testing.T) {
	const banks = 4
	rom := romWithHeader(banks*0x4000, 0x01, 0x02) // MBC1; header declares 128 KiB, image is 64 KiB
	for bank := 0; bank < banks; bank++ {
		rom[bank*0x4000] = byte(bank)
	}

	m, err := New(rom, nil, Defaults())
	require.NoError(t, err)

	m.bus.Write(0x2000, 0x03) // select ROM bank 3
	require.Equal(t, byte(3), m.bus.Read(0x4000))

	m.bus.Write(0x2000, 0x02)
	require.Equal(t, byte(2), m.bus.Read(0x4000))
}

func TestStepFrameAdvancesLY(t *testing.T) {
	m, err := New(romWithHeader(0x8000, 0x00, 0x00), nil, Defaults())
	require.NoError(t, err)
	m.bus.Write(0xFF40, 0x80) // LCD on
	m.StepFrame()
	require.NotZero(t, m.bus.Read(0xFF0F)&0x01, "a full frame must carry LY through 144 and raise the VBlank IRQ")
}

// runSerialROM steps a loaded ROM until it prints "Passed"/"Failed" over the
// serial port (the blargg test-ROM convention) or exhausts maxFrames.
func runSerialROM(t *testing.T, romPath string, maxFrames int) {
	t.Helper()
	data, err := os.ReadFile(romPath)
	if err != nil {
		t.Fatalf("read ROM: %v", err)
	}
	m, err := New(data, nil, Defaults())
	if err != nil {
		t.Fatalf("load ROM: %v", err)
	}
	var buf bytes.Buffer
	m.SetSerialWriter(&buf)

	for i := 0; i < maxFrames; i++ {
		m.StepFrame()
		out := buf.String()
		if strings.Contains(out, "Passed") {
			return
		}
		if strings.Contains(out, "Failed") {
			t.Fatalf("%s reported failure via serial:\n%s", filepath.Base(romPath), out)
		}
	}
	t.Fatalf("timeout waiting for serial 'Passed' in %s; last output:\n%s", filepath.Base(romPath), buf.String())
}

// TestSerialTestROMs is opt-in: point SERIAL_ROMS_DIR at a directory of
// blargg-style .gb test ROMs to run them against this core.
func TestSerialTestROMs(t *testing.T) {
	dir := os.Getenv("SERIAL_ROMS_DIR")
	if dir == "" {
		t.Skip("set SERIAL_ROMS_DIR to a directory of serial-output test ROMs to run this")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	maxFrames := 1800
	if v := os.Getenv("SERIAL_ROMS_MAX_FRAMES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxFrames = n
		}
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".gb") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		t.Run(e.Name(), func(t *testing.T) { runSerialROM(t, path, maxFrames) })
	}
}
