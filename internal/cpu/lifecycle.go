package cpu

import (
	"errors"

	"github.com/pdp10-clones/sims/devices"
	"github.com/pdp10-clones/sims/internal/event"
	"github.com/pdp10-clones/sims/internal/intr"
	"github.com/pdp10-clones/sims/internal/iobus"
	"github.com/pdp10-clones/sims/internal/memory"
	"github.com/pdp10-clones/sims/internal/page"
)

// pagerBus is the CONI/CONO/DATAI/DATAO surface both page.KA10Protection
// and page.KI10Pager implement. Declared locally (rather than imported)
// so a type assertion against it is enough to hand either variant to
// devices.NewPager without that package needing to know about
// internal/page at all.
type pagerBus interface {
	BusCONI(word *uint64)
	BusCONO(word uint64)
	BusDATAI(word *uint64)
	BusDATAO(word uint64)
}

// NewMachine builds a ready-to-run Machine: memory sized per cfg, the
// variant-selected paging unit, a fresh interrupt controller and device
// bus, and the host event queue primed with the realtime clock tick.
// Grounded on S370's emu/core.NewCPU/cpu.Start lifecycle shape, adapted
// to the PDP-10's single-CPU, no-channel-program model.
func NewMachine(cfg Config) *Machine {
	if cfg.APRLevel == 0 {
		cfg.APRLevel = 7
	}
	if cfg.ClkLevel == 0 {
		cfg.ClkLevel = 4
	}
	if cfg.MemWords == 0 {
		cfg.MemWords = DefaultMaxMemWords
	}

	m := &Machine{
		Mem:      memory.New(DefaultMaxMemWords, cfg.MemWords),
		Bus:      iobus.New(),
		Intr:     intr.New(),
		Event:    event.New(),
		cfg:      cfg,
		aprLevel: cfg.APRLevel,
		clkLevel: cfg.ClkLevel,
	}
	m.Pager = newPager(cfg)
	if ki, ok := m.Pager.(*page.KI10Pager); ok {
		ki.Mem = func(addr uint32) (uint64, bool) { return m.Mem.Read(addr) }
	}

	if cfg.HistorySize > 0 {
		m.hist = NewHistory(cfg.HistorySize)
	}

	m.registerCoreDevices()

	m.Reset()
	m.Event.Schedule(m, m.postClockTick, 1, 0)
	return m
}

// registerCoreDevices binds the three bus citizens spec.md §6 reserves
// device numbers for: the APR (0), the PI controller's bus face (1), and
// the paging/protection unit's bus face (2). Every CONI/CONO/DATAI/DATAO/
// CONSZ/CONSO/BLKI/BLKO issued by op_iot.go reaches these through
// m.Bus.Dispatch; nothing else in the module calls RegisterDevice for
// them, so skipping this step (as an earlier revision did) left every
// access to device 0-2 silently unanswered.
func (m *Machine) registerCoreDevices() {
	m.aprDevice = devices.NewAPR(m.aprLevel,
		func(level int) { m.Intr.SetInterrupt(DevAPR, level) },
		func() { m.Intr.ClrInterrupt(DevAPR) },
	)
	_ = m.Bus.RegisterDevice(DevAPR, m.aprDevice.Bus)

	pi := devices.NewPI(m.Intr)
	_ = m.Bus.RegisterDevice(DevPI, pi.Bus)

	if pb, ok := m.Pager.(pagerBus); ok {
		pager := devices.NewPager(pb)
		_ = m.Bus.RegisterDevice(DevPager, pager.Bus)
	}
}

// Reset restores the Machine to its post-power-on state: PC and FLAGS
// cleared, interrupt controller reset, fast-memory left untouched (real
// hardware does not clear core on reset), matching ka10_cpu.c's reset
// entry point semantics.
func (m *Machine) Reset() {
	m.PC = 0
	m.Flags = 0
	m.AR, m.BR, m.MQ, m.AD, m.MB = 0, 0, 0, 0, 0
	m.uuoCycle = false
	m.piCycle = false
	m.xctDepth = 0
	m.indDepth = 0
	m.blt.active = false
	m.byteState.active = false
	m.tickBudget = m.cfg.ClockHz
	if m.tickBudget <= 0 {
		m.tickBudget = 60
	}
	m.Intr.Reset()
}

// SetMemorySize implements spec.md §6's configuration surface: words must
// be a whole number of 16-kiloword units within the variant's range.
func (m *Machine) SetMemorySize(words uint32) error {
	if words < 16*1024 || words > DefaultMaxMemWords || words%(16*1024) != 0 {
		return errors.New("cpu: memory size out of range")
	}
	m.Mem.SetSize(words)
	return nil
}

// Examine implements the non-bus cpu_ex front-end hook: it bypasses
// paging entirely but still honors fast-register aliasing at 0-17.
func (m *Machine) Examine(addr uint32) (uint64, error) {
	if addr < 020 {
		return m.FM[m.fmIndex(uint8(addr))], nil
	}
	v, ok := m.Mem.Read(addr)
	if !ok {
		return 0, errors.New("cpu: examine address out of range")
	}
	return v, nil
}

// Deposit implements the non-bus cpu_dep front-end hook, symmetric with
// Examine.
func (m *Machine) Deposit(addr uint32, val uint64) error {
	if addr < 020 {
		m.FM[m.fmIndex(uint8(addr))] = val & FMASK
		return nil
	}
	if !m.Mem.Write(addr, val) {
		return errors.New("cpu: deposit address out of range")
	}
	return nil
}
