// Package bus implements the 16-bit memory-mapped address space that wires
// the CPU to the cartridge, work/high RAM, the PPU, timer, joypad, sound
// unit, OAM DMA, serial link, and interrupt registers (spec.md §4.1).
package bus

import (
	"io"

	"github.com/fgssfgss/smallconsole/internal/apu"
	"github.com/fgssfgss/smallconsole/internal/cartridge"
	"github.com/fgssfgss/smallconsole/internal/joypad"
	"github.com/fgssfgss/smallconsole/internal/ppu"
	"github.com/fgssfgss/smallconsole/internal/timer"
)

const dmaLengthBytes = 0xA0

// Bus owns every memory-mapped region and sub-component the CPU can reach.
type Bus struct {
	cart cartridge.Cartridge

	wram [0x2000]byte // 0xC000-0xDFFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	ppu   *ppu.PPU
	timer *timer.Timer
	joyp  *joypad.Joypad
	sound *apu.APU

	ie    byte // 0xFFFF
	ifReg byte // 0xFF0F, low 5 bits

	sb byte      // 0xFF01
	sc byte      // 0xFF02
	sw io.Writer // serial output sink, optional

	dma       byte
	dmaActive bool
	dmaSrc    uint16
	dmaIndex  int

	bootROM     []byte
	bootEnabled bool
}

// New builds a Bus around a cartridge selected from the ROM image's header.
func New(rom []byte) *Bus {
	return NewWithCartridge(cartridge.New(rom))
}

// NewWithCartridge wires a caller-supplied cartridge, e.g. for tests that
// need a specific mapper.
func NewWithCartridge(c cartridge.Cartridge) *Bus {
	b := &Bus{cart: c, joyp: joypad.New(), timer: timer.New(), sound: apu.New()}
	b.ppu = ppu.New(func(bit int) { b.RequestInterrupt(bit) })
	return b
}

func (b *Bus) PPU() *ppu.PPU       { return b.ppu }
func (b *Bus) Cart() cartridge.Cartridge { return b.cart }

// SetSerialWriter installs a sink that receives every byte the guest sends
// over the serial port. Real hardware needs a peer on the other end; absent
// one, each transfer is treated as reading 0xFF back (spec.md §4.1, §6).
func (b *Bus) SetSerialWriter(w io.Writer) { b.sw = w }

// SetBootROM maps a 256-byte DMG boot ROM over 0x0000-0x00FF until a
// non-zero write to 0xFF50 disables it. The boot ROM image itself is never
// embedded in this module (spec.md §6 leaves it an external asset); callers
// load it from a file.
func (b *Bus) SetBootROM(data []byte) {
	b.bootROM = nil
	b.bootEnabled = false
	if len(data) >= 0x100 {
		b.bootROM = make([]byte, 0x100)
		copy(b.bootROM, data[:0x100])
		b.bootEnabled = true
	}
}

// SetButton forwards a host input event to the joypad, raising IRQ 4 on the
// bus's IF register when appropriate.
func (b *Bus) SetButton(button joypad.Button, pressed bool) {
	if b.joyp.SetButton(button, pressed) {
		b.RequestInterrupt(4)
	}
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if b.bootEnabled && addr < 0x0100 {
			return b.bootROM[addr]
		}
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if b.dmaActive {
			return 0xFF
		}
		return b.ppu.CPURead(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0xFF // unusable region
	case addr == 0xFF00:
		return b.joyp.Read()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | b.sc&0x81
	case addr == 0xFF04:
		return b.timer.DIV()
	case addr == 0xFF05:
		return b.timer.TIMA()
	case addr == 0xFF06:
		return b.timer.TMA()
	case addr == 0xFF07:
		return b.timer.TAC()
	case addr == 0xFF0F:
		return 0xE0 | b.ifReg&0x1F
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return b.sound.Read(addr)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		return b.ppu.CPURead(addr)
	case addr == 0xFF46:
		return b.dma
	case addr == 0xFF50:
		return 0xFF
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ie
	default:
		return 0xFF
	}
}

func (b *Bus) Write(addr uint16, v byte) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, v)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, v)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, v)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = v
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0x2000-0xC000] = v
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if !b.dmaActive {
			b.ppu.CPUWrite(addr, v)
		}
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// unusable, writes discarded
	case addr == 0xFF00:
		if b.joyp.Write(v) {
			b.RequestInterrupt(4)
		}
	case addr == 0xFF01:
		b.sb = v
	case addr == 0xFF02:
		b.sc = v & 0x81
		if b.sc&0x80 != 0 {
			if b.sw != nil {
				_, _ = b.sw.Write([]byte{b.sb})
			}
			b.sb = 0xFF // no peer: the byte shifted in is all ones
			b.RequestInterrupt(3)
			b.sc &^= 0x80
		}
	case addr == 0xFF04:
		b.timer.WriteDIV()
	case addr == 0xFF05:
		b.timer.WriteTIMA(v)
	case addr == 0xFF06:
		b.timer.WriteTMA(v)
	case addr == 0xFF07:
		b.timer.WriteTAC(v)
	case addr == 0xFF0F:
		b.ifReg = v & 0x1F
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.sound.Write(addr, v)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		b.ppu.CPUWrite(addr, v)
	case addr == 0xFF46:
		b.dma = v
		b.dmaActive = true
		b.dmaSrc = uint16(v) << 8
		b.dmaIndex = 0
	case addr == 0xFF50:
		if v != 0 {
			b.bootEnabled = false
		}
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = v
	case addr == 0xFFFF:
		b.ie = v
	default:
		// Unmapped IO: ignored, matching spec.md §4.1's "writes discarded" rule
		// for addresses with no assigned register.
	}
}

// InterruptEnable/InterruptFlag expose IE/IF directly for the CPU's interrupt
// dispatch, which needs to read and clear individual bits without going
// through the 0xE0-masked bus read. RequestInterrupt is how every IRQ source
// on the bus (PPU, timer, joypad, serial) sets its IF bit.
func (b *Bus) InterruptEnable() byte    { return b.ie }
func (b *Bus) InterruptFlag() byte      { return b.ifReg }
func (b *Bus) SetInterruptFlag(v byte)  { b.ifReg = v & 0x1F }
func (b *Bus) RequestInterrupt(bit int) { b.ifReg |= 1 << uint(bit) }

// Tick advances every cycle-driven sub-component by the given number of CPU
// cycles, in the order spec.md §4.1 requires: timer, then PPU, then DMA,
// each cycle, so that a single CPU instruction's side effects land in
// lockstep with the components it depends on.
func (b *Bus) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		if b.timer.Tick(1) {
			b.RequestInterrupt(2)
		}
		b.ppu.Tick(1)
		b.sound.Tick(1)
		b.stepDMA()
	}
}

func (b *Bus) stepDMA() {
	if !b.dmaActive {
		return
	}
	if b.dmaIndex < dmaLengthBytes {
		v := b.Read(b.dmaSrc + uint16(b.dmaIndex))
		b.ppu.SetOAMByte(b.dmaIndex, v)
		b.dmaIndex++
	}
	if b.dmaIndex >= dmaLengthBytes {
		b.dmaActive = false
	}
}
