package cpu

import "github.com/pdp10-clones/sims/devices"

// vectorInterrupt implements spec.md §4.5's Granting paragraph: the
// machine abandons whatever it was doing (instruction fetch or an
// indirection hop) and redirects the next fetch to the level's vector
// slot, with USER cleared for the duration of the handler.
func (m *Machine) vectorInterrupt(level int) {
	m.Intr.Grant(level)
	m.piLevel = level
	m.piCycle = true
	m.Flags &^= FlagUSER
	m.PC = uint32(040 + 2*level)
}

// dismissInterrupt implements spec.md §4.5's Dismissal paragraph, invoked
// by the JRST handler when its dismiss sub-flags are set.
func (m *Machine) dismissInterrupt() {
	m.Intr.Dismiss()
	m.piCycle = false
}

// doUUOTrap implements spec.md §4.7: construct the offending word, store
// it and the return context at the variant's UUO vector, redirect PC to
// the handler, and set uuoCycle. Nothing reads uuoCycle, so a UUO taken
// inside a UUO handler is processed like any other UUO.
func (m *Machine) doUUOTrap(si *stepInfo) {
	offending := (uint64(si.op) << 27) | (uint64(si.ac) << 23) | uint64(si.ea)
	base := m.uuoVectorAddr()

	wasUser := m.userMode()
	m.writeWord(base, offending)
	m.writeWord(base+1, (uint64(m.Flags)<<18)|uint64(m.PC))

	newPC, ok := m.readWord(base+2, false, true)
	if !ok {
		m.stop = StopUnimplementedDuringInterrupt
		return
	}

	if wasUser {
		m.Flags &^= FlagUSER
	}
	m.uuoCycle = true
	m.PC = uint32(newPC) & 0777777
	m.pcInhibit = true
}

// checkArithmeticTraps implements spec.md §4.7's deferred-trap policy and
// the "check_apr_irq" rule SPEC_FULL.md §3 supplements from ka10_cpu.c:
// after the instruction has fully committed, it is called once, centrally,
// from Step (not inline from each op_* handler, which only sets the FLAGS
// bits) so every instruction gets exactly one post-commit APR check
// regardless of which flags it touched. "The corresponding enable is set"
// is the devices.APR pseudo-device's own Enable mask: Raise only reaches
// the interrupt controller when the latched status bit is also enabled,
// so an unmasked trap flag sets FLAGS (for software to poll) without ever
// posting a PI request.
func (m *Machine) checkArithmeticTraps() {
	const trapMask = FlagOVR | FlagFLTOVR | FlagNODIV | FlagFLTUND | FlagTRAP1 | FlagTRAP2
	if m.Flags&trapMask == 0 {
		return
	}
	var bits uint64
	if m.Flags&FlagOVR != 0 {
		bits |= devices.AprOVR
	}
	if m.Flags&FlagFLTOVR != 0 {
		bits |= devices.AprFltOvr
	}
	if m.Flags&(FlagNODIV|FlagFLTUND|FlagTRAP1|FlagTRAP2) != 0 {
		bits |= devices.AprNoDivClk
	}
	m.aprDevice.Raise(bits)
}
