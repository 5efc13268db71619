package timer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestOverflowAt262144Hz exercises spec.md §8 invariant 6: TAC=0x05 selects
// 262144 Hz (every 16 CPU cycles); with TIMA=0xFF and TMA=0x42, 16 cycles
// must overflow TIMA to 0x42 and raise IRQ 2 exactly once.
func TestOverflowAt262144Hz(t *testing.T) {
	tm := New()
	tm.WriteTAC(0x05)
	tm.WriteTMA(0x42)
	tm.WriteTIMA(0xFF)

	overflowed := false
	for i := 0; i < 16; i++ {
		if tm.Tick(1) {
			require.False(t, overflowed, "IRQ 2 must fire exactly once")
			overflowed = true
		}
	}
	require.True(t, overflowed)
	require.Equal(t, byte(0x42), tm.TIMA())
}

// TestOverflowAt16384Hz exercises spec.md §8 scenario (d).
func TestOverflowAt16384Hz(t *testing.T) {
	tm := New()
	tm.WriteTAC(0x07) // enabled, 16384 Hz
	tm.WriteTMA(0x00)
	tm.WriteTIMA(0xFE)

	fires := 0
	if tm.Tick(512) {
		fires++
	}
	require.Equal(t, 1, fires)
	require.Equal(t, byte(0x00), tm.TIMA())
}

func TestDisabledTimerDoesNotTick(t *testing.T) {
	tm := New()
	tm.WriteTAC(0x00) // bit 2 clear: disabled
	tm.WriteTIMA(0x10)
	for i := 0; i < 100000; i++ {
		tm.Tick(1)
	}
	require.Equal(t, byte(0x10), tm.TIMA())
}

func TestWriteTIMAAfterOverflowOverridesReload(t *testing.T) {
	tm := New()
	tm.WriteTAC(0x05)
	tm.WriteTMA(0x42)
	tm.WriteTIMA(0xFF)
	for i := 0; i < 16; i++ {
		tm.Tick(1)
	}
	require.Equal(t, byte(0x42), tm.TIMA())
	// A write after the reload has already landed simply overrides it.
	tm.WriteTIMA(0x07)
	require.Equal(t, byte(0x07), tm.TIMA())
}
