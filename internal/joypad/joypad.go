// Package joypad models the 8-button input state and the P1/JOYP selector
// register (spec.md §4.6). It has no notion of physical keys; the host maps
// its own key events onto the Button constants.
package joypad

// Button indexes the eight Game Boy buttons.
type Button int

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Joypad owns pressed/released state for all eight buttons and the P1
// selector bits last written by the CPU.
type Joypad struct {
	pressed  [8]bool
	selector byte // bits 5-4 of P1 (the two select lines) as last written

	prevLowNibble byte // last computed active-low nibble, for edge detection
}

func New() *Joypad {
	return &Joypad{prevLowNibble: 0x0F}
}

// SetButton updates one button's pressed state. It returns true if this
// transition should raise IRQ 4 (joypad): any button, in a currently
// selected group, going from released to pressed.
func (j *Joypad) SetButton(b Button, pressed bool) bool {
	j.pressed[b] = pressed
	return j.recomputeEdge()
}

// Read returns the P1 register: bits 7-6 read high, bits 5-4 echo the
// selector, and the low nibble reports the OR of "not pressed" across every
// currently selected group.
func (j *Joypad) Read() byte {
	return 0xC0 | j.selector&0x30 | j.lowNibble()
}

// Write updates only the two selector bits; the low nibble is derived, not
// stored.
func (j *Joypad) Write(v byte) bool {
	j.selector = v & 0x30
	return j.recomputeEdge()
}

func (j *Joypad) lowNibble() byte {
	n := byte(0x0F)
	if j.selector&0x10 == 0 { // P14 low selects the D-Pad
		if j.pressed[Right] {
			n &^= 0x01
		}
		if j.pressed[Left] {
			n &^= 0x02
		}
		if j.pressed[Up] {
			n &^= 0x04
		}
		if j.pressed[Down] {
			n &^= 0x08
		}
	}
	if j.selector&0x20 == 0 { // P15 low selects the buttons
		if j.pressed[A] {
			n &^= 0x01
		}
		if j.pressed[B] {
			n &^= 0x02
		}
		if j.pressed[Select] {
			n &^= 0x04
		}
		if j.pressed[Start] {
			n &^= 0x08
		}
	}
	return n
}

// recomputeEdge raises the joypad IRQ on any bit of the active-low nibble
// falling from 1 to 0, i.e. a newly pressed, currently-selected button.
func (j *Joypad) recomputeEdge() bool {
	n := j.lowNibble()
	falling := j.prevLowNibble &^ n
	j.prevLowNibble = n
	return falling != 0
}
