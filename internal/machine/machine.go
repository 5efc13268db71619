// Package machine wires the CPU, bus, and every memory-mapped
// sub-component into the single owning struct a host (or a headless test
// harness) drives one frame at a time (spec.md §2, §3).
package machine

import (
	"io"
	"log"

	"github.com/fgssfgss/smallconsole/internal/bus"
	"github.com/fgssfgss/smallconsole/internal/cartridge"
	"github.com/fgssfgss/smallconsole/internal/cpu"
	"github.com/fgssfgss/smallconsole/internal/joypad"
)

// CyclesPerFrame is the master-clock cycle count of one 160x144 frame:
// 456 dots/line x 154 lines (spec.md §4.3).
const CyclesPerFrame = 456 * 154

// Config holds the handful of run-time knobs the core exposes. Anything
// that changes emulated behavior lives here rather than as a package-level
// flag, so multiple Machines can run with different settings in the same
// process (e.g. a test harness running several ROMs concurrently).
type Config struct {
	Trace bool // log every instruction boundary; expensive, debugging only
}

func Defaults() Config { return Config{} }

// Machine owns the CPU, the bus (and everything the bus wires together),
// and the ROM header it booted.
type Machine struct {
	cfg    Config
	cpu    *cpu.CPU
	bus    *bus.Bus
	header *cartridge.Header
}

// New loads rom, selects a mapper from its header, and returns a Machine
// reset to the documented post-boot-ROM state. If bootROM is non-nil and at
// least 256 bytes, the boot ROM runs first instead.
func New(rom []byte, bootROM []byte, cfg Config) (*Machine, error) {
	header, err := cartridge.ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	b := bus.New(rom)
	c := cpu.New(b)

	if len(bootROM) >= 0x100 {
		b.SetBootROM(bootROM)
		c.SetPC(0x0000)
	} else {
		c.ResetNoBoot()
	}

	return &Machine{cfg: cfg, cpu: c, bus: b, header: header}, nil
}

func (m *Machine) ROMTitle() string { return m.header.Title }
func (m *Machine) Bus() *bus.Bus    { return m.bus }
func (m *Machine) CPU() *cpu.CPU    { return m.cpu }

// SetSerialWriter installs a sink for bytes the guest sends over the serial
// port, e.g. blargg-style test ROMs that print their pass/fail result there.
func (m *Machine) SetSerialWriter(w io.Writer) { m.bus.SetSerialWriter(w) }

// SetButton forwards a host input event straight to the joypad.
func (m *Machine) SetButton(b joypad.Button, pressed bool) { m.bus.SetButton(b, pressed) }

// Framebuffer returns the PPU's 160x144 grayscale canvas for the most
// recently completed frame.
func (m *Machine) Framebuffer() []byte { return m.bus.PPU().Framebuffer() }

// StepFrame runs the CPU until at least one full frame's worth of cycles
// (CyclesPerFrame) has elapsed, then returns. Because instructions take a
// variable number of cycles, the frame boundary is "at least", not exact;
// over a full second this overshoot amortizes to nothing.
func (m *Machine) StepFrame() {
	consumed := 0
	for consumed < CyclesPerFrame {
		consumed += m.StepInstruction()
	}
}

// StepInstruction executes exactly one CPU step (instruction, interrupt
// service, or halted idle tick) and returns its cycle cost, for tools that
// need finer-grained control than a whole frame (e.g. a debugger or the
// cpurunner-style test-ROM harness). When cfg.Trace is set, it logs the PC
// and opcode byte at the instruction boundary before stepping.
func (m *Machine) StepInstruction() int {
	if m.cfg.Trace {
		pc := m.cpu.PC
		log.Printf("trace: PC=%04X op=%02X", pc, m.bus.Read(pc))
	}
	return m.cpu.Step()
}
