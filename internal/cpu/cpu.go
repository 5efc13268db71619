// Package cpu implements the Sharp LR35902 core: the full 8-bit/16-bit
// register file, flag semantics, the primary and CB-prefixed opcode tables,
// and interrupt servicing (spec.md §4.2).
package cpu

import (
	"log"

	"github.com/fgssfgss/smallconsole/internal/bus"
)

// CPU holds the SM83 register file and drives instruction fetch/decode/
// execute against a Bus.
type CPU struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16

	IME       bool
	halted    bool
	stopped   bool
	eiPending bool
	haltBug   bool // PC fails to advance on the fetch right after a buggy HALT

	bus *bus.Bus
}

// New creates a CPU wired to b, with SP/PC at their boot-ROM entry values.
func New(b *bus.Bus) *CPU {
	return &CPU{bus: b, SP: 0xFFFE, PC: 0x0000}
}

func (c *CPU) SetPC(pc uint16) { c.PC = pc }
func (c *CPU) Bus() *bus.Bus   { return c.bus }
func (c *CPU) Halted() bool    { return c.halted }

// ResetNoBoot sets registers to the documented post-boot-ROM DMG state, for
// running cartridges without a boot ROM image.
func (c *CPU) ResetNoBoot() {
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.IME = false
	c.halted = false
	c.eiPending = false
}

const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

func (c *CPU) setZNHC(z, n, h, cy bool) {
	var f byte
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if cy {
		f |= flagC
	}
	c.F = f
}

func (c *CPU) add8(a, b byte) (res byte, z, n, h, cy bool) {
	r := uint16(a) + uint16(b)
	res = byte(r)
	z = res == 0
	h = (a&0x0F)+(b&0x0F) > 0x0F
	cy = r > 0xFF
	return
}

func (c *CPU) adc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	h = (a&0x0F)+(b&0x0F)+ci > 0x0F
	cy = r > 0xFF
	return
}

func (c *CPU) sub8(a, b byte) (res byte, z, n, h, cy bool) {
	r := int16(a) - int16(b)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < (b & 0x0F)
	cy = int16(a) < int16(b)
	return
}

func (c *CPU) sbc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := int16(a) - int16(b) - int16(ci)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < (b&0x0F)+ci
	cy = int16(a) < int16(b)+int16(ci)
	return
}

func (c *CPU) and8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a & b
	z = res == 0
	h = true
	return
}

func (c *CPU) xor8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a ^ b
	z = res == 0
	return
}

func (c *CPU) or8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a | b
	z = res == 0
	return
}

func (c *CPU) cp8(a, b byte) (z, n, h, cy bool) {
	_, z, n, h, cy = c.sub8(a, b)
	return
}

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write(addr, v) }

// fetch8 reads the byte at PC, then advances PC — except on the one fetch
// immediately following a HALT that hit the HALT bug, where PC does not
// advance and the same byte is read again by the next instruction.
func (c *CPU) fetch8() byte {
	b := c.read8(c.PC)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.PC++
	}
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | hi<<8
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v))
	c.write8(addr+1, byte(v>>8))
}

func (c *CPU) getAF() uint16  { return uint16(c.A)<<8 | uint16(c.F&0xF0) }
func (c *CPU) setAF(v uint16) { c.A = byte(v >> 8); c.F = byte(v) & 0xF0 }
func (c *CPU) getBC() uint16  { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) setBC(v uint16) { c.B = byte(v >> 8); c.C = byte(v) }
func (c *CPU) getDE() uint16  { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) setDE(v uint16) { c.D = byte(v >> 8); c.E = byte(v) }
func (c *CPU) getHL() uint16  { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) setHL(v uint16) { c.H = byte(v >> 8); c.L = byte(v) }

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// reg8 maps the 3-bit register-index encoding shared by the main opcode
// table and the CB table: 0..5=B,C,D,E,H,L, 6=(HL), 7=A.
func (c *CPU) reg8(idx byte) byte {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.getHL())
	default:
		return c.A
	}
}

func (c *CPU) setReg8(idx byte, v byte) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.getHL(), v)
	default:
		c.A = v
	}
}

// Step executes exactly one instruction (or services one pending interrupt,
// or idles one tick while halted) and returns the number of cycles
// consumed. It drives every cycle-clocked sub-component through the bus
// before returning, so CPU and PPU/timer/DMA state always advance in
// lockstep (spec.md §2).
func (c *CPU) Step() (cycles int) {
	defer func() {
		if cycles > 0 {
			c.bus.Tick(cycles)
		}
		if c.eiPending {
			c.IME = true
			c.eiPending = false
		}
	}()

	serviceInterrupt := func() int {
		ie := c.bus.InterruptEnable()
		ifReg := c.bus.InterruptFlag() & 0x1F
		pending := ie & ifReg
		if pending == 0 {
			return 0
		}
		var bit uint
		for bit = 0; bit < 5; bit++ {
			if pending&(1<<bit) != 0 {
				break
			}
		}
		c.bus.SetInterruptFlag(ifReg &^ (1 << bit))
		c.halted = false
		c.IME = false
		c.push16(c.PC)
		c.PC = 0x40 + uint16(bit)*8
		return 20
	}

	if c.halted {
		if c.IME {
			if cyc := serviceInterrupt(); cyc != 0 {
				return cyc
			}
			return 4
		} else {
			ifReg := c.bus.InterruptFlag() & 0x1F
			ie := c.bus.InterruptEnable()
			if ifReg&ie != 0 {
				c.halted = false
			} else {
				return 4
			}
		}
	}

	if c.IME {
		if cyc := serviceInterrupt(); cyc != 0 {
			return cyc
		}
	}

	op := c.fetch8()
	switch op {
	case 0x00: // NOP
		return 4
	case 0x10: // STOP
		c.fetch8() // the second, always-0x00 byte of the encoding
		c.stopped = true
		return 4

	case 0x06:
		c.B = c.fetch8()
		return 8
	case 0x0E:
		c.C = c.fetch8()
		return 8
	case 0x16:
		c.D = c.fetch8()
		return 8
	case 0x1E:
		c.E = c.fetch8()
		return 8
	case 0x26:
		c.H = c.fetch8()
		return 8
	case 0x2E:
		c.L = c.fetch8()
		return 8
	case 0x3E:
		c.A = c.fetch8()
		return 8

	case 0x76: // HALT
		ie := c.bus.InterruptEnable()
		ifReg := c.bus.InterruptFlag() & 0x1F
		if !c.IME && ie&ifReg&0x1F != 0 {
			c.haltBug = true
		} else {
			c.halted = true
		}
		return 4

	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47,
		0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F,
		0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57,
		0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F,
		0x60, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67,
		0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F,
		0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F:
		d := (op >> 3) & 7
		s := op & 7
		c.setReg8(d, c.reg8(s))
		if d == 6 || s == 6 {
			return 8
		}
		return 4

	case 0x01:
		c.setBC(c.fetch16())
		return 12
	case 0x11:
		c.setDE(c.fetch16())
		return 12
	case 0x21:
		c.setHL(c.fetch16())
		return 12
	case 0x31:
		c.SP = c.fetch16()
		return 12
	case 0x08: // LD (a16),SP
		addr := c.fetch16()
		c.write16(addr, c.SP)
		return 20

	case 0x36: // LD (HL),d8
		c.write8(c.getHL(), c.fetch8())
		return 12

	case 0x02:
		c.write8(c.getBC(), c.A)
		return 8
	case 0x12:
		c.write8(c.getDE(), c.A)
		return 8
	case 0x0A:
		c.A = c.read8(c.getBC())
		return 8
	case 0x1A:
		c.A = c.read8(c.getDE())
		return 8

	case 0x22: // LD (HL+),A
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl + 1)
		return 8
	case 0x2A: // LD A,(HL+)
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl + 1)
		return 8
	case 0x32: // LD (HL-),A
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl - 1)
		return 8
	case 0x3A: // LD A,(HL-)
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl - 1)
		return 8

	case 0xE0: // LDH (a8),A
		n := uint16(c.fetch8())
		c.write8(0xFF00+n, c.A)
		return 12
	case 0xF0: // LDH A,(a8)
		n := uint16(c.fetch8())
		c.A = c.read8(0xFF00 + n)
		return 12
	case 0xE2: // LD (C),A
		c.write8(0xFF00+uint16(c.C), c.A)
		return 8
	case 0xF2: // LD A,(C)
		c.A = c.read8(0xFF00 + uint16(c.C))
		return 8

	case 0x07: // RLCA
		cv := c.A >> 7 & 1
		c.A = c.A<<1 | cv
		c.setZNHC(false, false, false, cv == 1)
		return 4
	case 0x0F: // RRCA
		cv := c.A & 1
		c.A = c.A>>1 | cv<<7
		c.setZNHC(false, false, false, cv == 1)
		return 4
	case 0x17: // RLA
		cv := c.A >> 7 & 1
		cin := byte(0)
		if c.F&flagC != 0 {
			cin = 1
		}
		c.A = c.A<<1 | cin
		c.setZNHC(false, false, false, cv == 1)
		return 4
	case 0x1F: // RRA
		cv := c.A & 1
		cin := byte(0)
		if c.F&flagC != 0 {
			cin = 1
		}
		c.A = c.A>>1 | cin<<7
		c.setZNHC(false, false, false, cv == 1)
		return 4
	case 0x27: // DAA
		a := c.A
		cf := c.F&flagC != 0
		if c.F&flagN == 0 {
			if cf || a > 0x99 {
				a += 0x60
				cf = true
			}
			if c.F&flagH != 0 || a&0x0F > 9 {
				a += 0x06
			}
		} else {
			if cf {
				a -= 0x60
			}
			if c.F&flagH != 0 {
				a -= 0x06
			}
		}
		c.A = a
		c.setZNHC(c.A == 0, c.F&flagN != 0, false, cf)
		return 4
	case 0x2F: // CPL
		c.A = ^c.A
		c.F = c.F&(flagZ|flagC) | flagN | flagH
		return 4
	case 0x37: // SCF
		c.F = c.F&flagZ | flagC
		return 4
	case 0x3F: // CCF
		cf := c.F&flagC == 0
		c.F = c.F & flagZ
		if cf {
			c.F |= flagC
		}
		return 4

	case 0x04:
		old := c.B
		c.B++
		c.setZNHC(c.B == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x0C:
		old := c.C
		c.C++
		c.setZNHC(c.C == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x14:
		old := c.D
		c.D++
		c.setZNHC(c.D == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x1C:
		old := c.E
		c.E++
		c.setZNHC(c.E == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x24:
		old := c.H
		c.H++
		c.setZNHC(c.H == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x2C:
		old := c.L
		c.L++
		c.setZNHC(c.L == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x3C:
		old := c.A
		c.A++
		c.setZNHC(c.A == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 4
	case 0x34: // INC (HL)
		addr := c.getHL()
		old := c.read8(addr)
		v := old + 1
		c.write8(addr, v)
		c.setZNHC(v == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 12

	case 0x05:
		old := c.B
		c.B--
		c.setZNHC(c.B == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x0D:
		old := c.C
		c.C--
		c.setZNHC(c.C == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x15:
		old := c.D
		c.D--
		c.setZNHC(c.D == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x1D:
		old := c.E
		c.E--
		c.setZNHC(c.E == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x25:
		old := c.H
		c.H--
		c.setZNHC(c.H == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x2D:
		old := c.L
		c.L--
		c.setZNHC(c.L == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x3D:
		old := c.A
		c.A--
		c.setZNHC(c.A == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 4
	case 0x35: // DEC (HL)
		addr := c.getHL()
		old := c.read8(addr)
		v := old - 1
		c.write8(addr, v)
		c.setZNHC(v == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 12

	case 0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x87:
		r, z, n, h, cy := c.add8(c.A, c.reg8(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8F:
		r, z, n, h, cy := c.adc8(c.A, c.reg8(op&7), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x97:
		r, z, n, h, cy := c.sub8(c.A, c.reg8(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0x98, 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9F:
		r, z, n, h, cy := c.sbc8(c.A, c.reg8(op&7), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA7:
		r, z, n, h, cy := c.and8(c.A, c.reg8(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAF:
		r, z, n, h, cy := c.xor8(c.A, c.reg8(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB7:
		r, z, n, h, cy := c.or8(c.A, c.reg8(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBF:
		z, n, h, cy := c.cp8(c.A, c.reg8(op&7))
		c.setZNHC(z, n, h, cy)
		return 4

	case 0x86:
		r, z, n, h, cy := c.add8(c.A, c.read8(c.getHL()))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0x8E:
		r, z, n, h, cy := c.adc8(c.A, c.read8(c.getHL()), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0x96:
		r, z, n, h, cy := c.sub8(c.A, c.read8(c.getHL()))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0x9E:
		r, z, n, h, cy := c.sbc8(c.A, c.read8(c.getHL()), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xA6:
		r, z, n, h, cy := c.and8(c.A, c.read8(c.getHL()))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xAE:
		r, z, n, h, cy := c.xor8(c.A, c.read8(c.getHL()))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xB6:
		r, z, n, h, cy := c.or8(c.A, c.read8(c.getHL()))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xBE:
		z, n, h, cy := c.cp8(c.A, c.read8(c.getHL()))
		c.setZNHC(z, n, h, cy)
		return 8

	case 0xC6:
		r, z, n, h, cy := c.add8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xCE:
		r, z, n, h, cy := c.adc8(c.A, c.fetch8(), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xD6:
		r, z, n, h, cy := c.sub8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xDE:
		r, z, n, h, cy := c.sbc8(c.A, c.fetch8(), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xE6:
		r, z, n, h, cy := c.and8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xEE:
		r, z, n, h, cy := c.xor8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xF6:
		r, z, n, h, cy := c.or8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xFE:
		z, n, h, cy := c.cp8(c.A, c.fetch8())
		c.setZNHC(z, n, h, cy)
		return 8

	case 0xEA:
		c.write8(c.fetch16(), c.A)
		return 16
	case 0xFA:
		c.A = c.read8(c.fetch16())
		return 16

	case 0xC3:
		c.PC = c.fetch16()
		return 16
	case 0xE9:
		c.PC = c.getHL()
		return 4
	case 0x18:
		off := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(off))
		return 12

	case 0x20:
		off := int8(c.fetch8())
		if c.F&flagZ == 0 {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 12
		}
		return 8
	case 0x28:
		off := int8(c.fetch8())
		if c.F&flagZ != 0 {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 12
		}
		return 8
	case 0x30:
		off := int8(c.fetch8())
		if c.F&flagC == 0 {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 12
		}
		return 8
	case 0x38:
		off := int8(c.fetch8())
		if c.F&flagC != 0 {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 12
		}
		return 8

	case 0xCD:
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 24
	case 0xC9:
		c.PC = c.pop16()
		return 16
	case 0xD9:
		c.PC = c.pop16()
		c.IME = true
		return 16

	case 0xC7:
		c.push16(c.PC)
		c.PC = 0x00
		return 16
	case 0xCF:
		c.push16(c.PC)
		c.PC = 0x08
		return 16
	case 0xD7:
		c.push16(c.PC)
		c.PC = 0x10
		return 16
	case 0xDF:
		c.push16(c.PC)
		c.PC = 0x18
		return 16
	case 0xE7:
		c.push16(c.PC)
		c.PC = 0x20
		return 16
	case 0xEF:
		c.push16(c.PC)
		c.PC = 0x28
		return 16
	case 0xF7:
		c.push16(c.PC)
		c.PC = 0x30
		return 16
	case 0xFF:
		c.push16(c.PC)
		c.PC = 0x38
		return 16

	case 0xC4:
		addr := c.fetch16()
		if c.F&flagZ == 0 {
			c.push16(c.PC)
			c.PC = addr
			return 24
		}
		return 12
	case 0xCC:
		addr := c.fetch16()
		if c.F&flagZ != 0 {
			c.push16(c.PC)
			c.PC = addr
			return 24
		}
		return 12
	case 0xD4:
		addr := c.fetch16()
		if c.F&flagC == 0 {
			c.push16(c.PC)
			c.PC = addr
			return 24
		}
		return 12
	case 0xDC:
		addr := c.fetch16()
		if c.F&flagC != 0 {
			c.push16(c.PC)
			c.PC = addr
			return 24
		}
		return 12

	case 0xC0:
		if c.F&flagZ == 0 {
			c.PC = c.pop16()
			return 20
		}
		return 8
	case 0xC8:
		if c.F&flagZ != 0 {
			c.PC = c.pop16()
			return 20
		}
		return 8
	case 0xD0:
		if c.F&flagC == 0 {
			c.PC = c.pop16()
			return 20
		}
		return 8
	case 0xD8:
		if c.F&flagC != 0 {
			c.PC = c.pop16()
			return 20
		}
		return 8

	case 0xC2:
		addr := c.fetch16()
		if c.F&flagZ == 0 {
			c.PC = addr
			return 16
		}
		return 12
	case 0xCA:
		addr := c.fetch16()
		if c.F&flagZ != 0 {
			c.PC = addr
			return 16
		}
		return 12
	case 0xD2:
		addr := c.fetch16()
		if c.F&flagC == 0 {
			c.PC = addr
			return 16
		}
		return 12
	case 0xDA:
		addr := c.fetch16()
		if c.F&flagC != 0 {
			c.PC = addr
			return 16
		}
		return 12

	case 0x03:
		c.setBC(c.getBC() + 1)
		return 8
	case 0x13:
		c.setDE(c.getDE() + 1)
		return 8
	case 0x23:
		c.setHL(c.getHL() + 1)
		return 8
	case 0x33:
		c.SP++
		return 8
	case 0x0B:
		c.setBC(c.getBC() - 1)
		return 8
	case 0x1B:
		c.setDE(c.getDE() - 1)
		return 8
	case 0x2B:
		c.setHL(c.getHL() - 1)
		return 8
	case 0x3B:
		c.SP--
		return 8

	case 0x09:
		c.addHL(c.getBC())
		return 8
	case 0x19:
		c.addHL(c.getDE())
		return 8
	case 0x29:
		c.addHL(c.getHL())
		return 8
	case 0x39:
		c.addHL(c.SP)
		return 8

	case 0xF8: // LD HL,SP+r8
		off := int8(c.fetch8())
		low := byte(c.SP)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.setHL(uint16(int32(int16(c.SP)) + int32(off)))
		c.setZNHC(false, false, h, cy)
		return 12
	case 0xF9:
		c.SP = c.getHL()
		return 8
	case 0xE8: // ADD SP,r8
		off := int8(c.fetch8())
		low := byte(c.SP)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.SP = uint16(int32(int16(c.SP)) + int32(off))
		c.setZNHC(false, false, h, cy)
		return 16

	case 0xF3: // DI
		c.IME = false
		c.eiPending = false
		return 4
	case 0xFB: // EI
		c.eiPending = true
		return 4

	case 0xF5:
		c.push16(c.getAF())
		return 16
	case 0xC5:
		c.push16(c.getBC())
		return 16
	case 0xD5:
		c.push16(c.getDE())
		return 16
	case 0xE5:
		c.push16(c.getHL())
		return 16
	case 0xF1:
		c.setAF(c.pop16())
		return 12
	case 0xC1:
		c.setBC(c.pop16())
		return 12
	case 0xD1:
		c.setDE(c.pop16())
		return 12
	case 0xE1:
		c.setHL(c.pop16())
		return 12

	case 0xCB:
		return c.stepCB()

	case 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD:
		log.Printf("cpu: illegal opcode 0x%02X at PC=0x%04X", op, c.PC-1)
		return 4

	default:
		return 4
	}
}

func (c *CPU) addHL(operand uint16) {
	hl := c.getHL()
	r := uint32(hl) + uint32(operand)
	h := (hl&0x0FFF)+(operand&0x0FFF) > 0x0FFF
	c.setHL(uint16(r))
	c.setZNHC(c.F&flagZ != 0, false, h, r > 0xFFFF)
}
