package cpu

import "github.com/pdp10-clones/sims/devices"

// readWord and writeWord implement spec.md §4.3: addresses below 0o20
// alias the fast-register file; everything else is translated through
// the paging/protection unit (spec.md §4.4) before reaching physical
// memory. A false return means the access failed (NXM or a page/
// protection fault); the fault has already been latched for the trap
// path, and the caller (Step, resolveEffectiveAddress) is responsible
// for treating the instruction as faulted rather than retrying.
func (m *Machine) readWord(addr uint32, write bool, fetch bool) (uint64, bool) {
	if addr < 020 {
		return m.FM[m.fmIndex(uint8(addr))], true
	}

	phys, ok := m.translate(addr, write, fetch)
	if !ok {
		return 0, false
	}

	v, ok := m.Mem.Read(phys)
	if !ok {
		m.raiseNXM(addr)
		return 0, false
	}
	return v, true
}

func (m *Machine) writeWord(addr uint32, val uint64) bool {
	if addr < 020 {
		m.FM[m.fmIndex(uint8(addr))] = val & FMASK
		return true
	}

	phys, ok := m.translate(addr, true, false)
	if !ok {
		return false
	}

	if !m.Mem.Write(phys, val) {
		m.raiseNXM(addr)
		return false
	}
	return true
}

// translate consults the paging/protection unit when it is enabled for
// the current mode, latching fault_data and requesting an APR interrupt
// on failure.
func (m *Machine) translate(addr uint32, write, fetch bool) (uint32, bool) {
	user := m.userMode()
	if m.Pager == nil || !m.Pager.Enabled(user) {
		return addr, true
	}

	phys, ok, fail := m.Pager.Translate(addr, write, user, fetch)
	if !ok {
		m.lastFault = fail
		m.aprDevice.Raise(devices.AprMemProt)
		return 0, false
	}
	return phys, true
}

func (m *Machine) raiseNXM(addr uint32) {
	m.aprDevice.Raise(devices.AprNXM)
}

// regRead/regWrite read and write a fast-register by its raw 4-bit field,
// applying the same variant-specific block selection as readWord/
// writeWord for addresses below 0o20.
func (m *Machine) regRead(ac uint8) uint64 {
	return m.FM[m.fmIndex(ac)]
}

func (m *Machine) regWrite(ac uint8, val uint64) {
	m.FM[m.fmIndex(ac)] = val & FMASK
}
