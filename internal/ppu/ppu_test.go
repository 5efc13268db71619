package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newEnabled() (*PPU, *[]int) {
	var fired []int
	p := New(func(bit int) { fired = append(fired, bit) })
	p.CPUWrite(0xFF40, 0x80) // LCD on, everything else off
	return p, &fired
}

// TestOneVBlankPerFrame exercises spec.md §8 invariant 5: exactly one
// VBlank IRQ per 70224-cycle frame, and LY visits 0..153 exactly once.
func TestOneVBlankPerFrame(t *testing.T) {
	p, fired := newEnabled()

	seen := map[byte]int{}
	for i := 0; i < 70224; i++ {
		seen[p.LY()]++
		p.Tick(1)
	}

	vblanks := 0
	for _, b := range *fired {
		if b == 0 {
			vblanks++
		}
	}
	require.Equal(t, 1, vblanks)
	require.Len(t, seen, 154)
	for ly := byte(0); ly < 154; ly++ {
		require.NotZero(t, seen[ly], "LY=%d was never observed", ly)
	}
}

func TestModeSequenceWithinLine(t *testing.T) {
	p, _ := newEnabled()
	require.Equal(t, byte(ModeOAM), p.Mode())
	p.Tick(80)
	require.Equal(t, byte(ModeDraw), p.Mode())
	p.Tick(172)
	require.Equal(t, byte(ModeHBlank), p.Mode())
	p.Tick(456 - 80 - 172)
	require.Equal(t, byte(ModeOAM), p.Mode())
}

func TestLYCStatIRQFiresOnce(t *testing.T) {
	p, fired := newEnabled()
	p.CPUWrite(0xFF45, 5) // LYC=5
	p.CPUWrite(0xFF41, 0x40) // enable LYC=LY STAT source

	for i := 0; i < 456*6; i++ {
		p.Tick(1)
	}

	count := 0
	for _, b := range *fired {
		if b == 1 {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestLCDOffForcesLYZero(t *testing.T) {
	p, _ := newEnabled()
	p.Tick(1000)
	p.CPUWrite(0xFF40, 0x00)
	require.Equal(t, byte(0), p.LY())
	p.Tick(10000)
	require.Equal(t, byte(0), p.LY(), "LY must not advance while the LCD is disabled")
}

func TestVRAMBlockedDuringDraw(t *testing.T) {
	p, _ := newEnabled()
	p.Tick(80) // enter mode 3
	require.Equal(t, byte(ModeDraw), p.Mode())
	require.Equal(t, byte(0xFF), p.CPURead(0x8000))
}
