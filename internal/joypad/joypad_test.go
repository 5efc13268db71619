package joypad

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultReadIsAllOnes(t *testing.T) {
	j := New()
	require.Equal(t, byte(0x0F), j.Read()&0x0F)
}

func TestDPadSelection(t *testing.T) {
	j := New()
	j.Write(0x20) // P15=1 (buttons unselected), P14=0 (D-Pad selected)
	j.SetButton(Right, true)
	j.SetButton(Up, true)
	require.Equal(t, byte(0x0A), j.Read()&0x0F) // bits 0 (Right) and 2 (Up) clear
}

func TestButtonSelection(t *testing.T) {
	j := New()
	j.Write(0x10) // P14=1 (D-Pad unselected), P15=0 (buttons selected)
	j.SetButton(A, true)
	require.Equal(t, byte(0x0E), j.Read()&0x0F)
}

func TestIRQOnNewlyPressedSelectedButton(t *testing.T) {
	j := New()
	j.Write(0x20) // select D-Pad
	require.False(t, j.SetButton(Up, false))
	require.True(t, j.SetButton(Up, true), "pressing a selected button must raise the joypad IRQ")
	require.False(t, j.SetButton(Up, true), "no edge on a held button")
}

func TestNoIRQForUnselectedGroup(t *testing.T) {
	j := New()
	j.Write(0x10) // select buttons only; D-Pad unselected
	require.False(t, j.SetButton(Up, true), "D-Pad press while D-Pad unselected raises no IRQ")
}
