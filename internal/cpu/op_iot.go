package cpu

import (
	"github.com/pdp10-clones/sims/internal/iobus"
	"github.com/pdp10-clones/sims/internal/word"
)

// opIOT implements the programmed I/O instruction family (opcodes
// 0700-0777), per spec.md §6. The IOT format overlaps the normal AC
// field: the 7-bit device number is op's low 6 bits plus the top bit of
// AC, and AC's low 3 bits select the sub-function.
func (m *Machine) opIOT(si *stepInfo) trapCode {
	device := uint16(((si.op & 077) << 1) | ((uint32(si.ac) >> 3) & 1))
	subfn := si.ac & 07

	switch subfn {
	case 0: // BLKI
		return m.doBlockIO(si, device, true)

	case 1: // DATAI
		var w uint64
		st, present := m.Bus.Dispatch(device, iobus.DATAI, &w)
		if !present {
			return trapNone
		}
		if st == iobus.StatusError {
			m.stop = StopIODeviceError
			return trapNone
		}
		if !m.writeWord(si.ea, w) {
			return trapPageFail
		}

	case 2: // BLKO
		return m.doBlockIO(si, device, false)

	case 3: // DATAO
		w, ok := m.readWord(si.ea, false, false)
		if !ok {
			return trapPageFail
		}
		st, present := m.Bus.Dispatch(device, iobus.DATAO, &w)
		if present && st == iobus.StatusError {
			m.stop = StopIODeviceError
		}

	case 4: // CONO
		w := uint64(si.ea)
		st, present := m.Bus.Dispatch(device, iobus.CONO, &w)
		if present && st == iobus.StatusError {
			m.stop = StopIODeviceError
		}

	case 5: // CONI
		var w uint64
		st, present := m.Bus.Dispatch(device, iobus.CONI, &w)
		if !present {
			return trapNone
		}
		if st == iobus.StatusError {
			m.stop = StopIODeviceError
			return trapNone
		}
		if !m.writeWord(si.ea, w) {
			return trapPageFail
		}

	case 6: // CONSZ: skip if the status word AND E is zero.
		var w uint64
		_, present := m.Bus.Dispatch(device, iobus.CONI, &w)
		if present && (w&uint64(si.ea)) == 0 {
			m.PC = (m.PC + 2) & RMASK
			m.pcInhibit = true
		}

	case 7: // CONSO: skip if the status word AND E is nonzero.
		var w uint64
		_, present := m.Bus.Dispatch(device, iobus.CONI, &w)
		if present && (w&uint64(si.ea)) != 0 {
			m.PC = (m.PC + 2) & RMASK
			m.pcInhibit = true
		}
	}
	return trapNone
}

// doBlockIO implements BLKI/BLKO: the control word at E (count,,addr) is
// incremented as a unit, one word is transferred at the new address, and
// the instruction either skips (count overflowed to 0) or repeats itself
// (PC left unchanged) to transfer the next word on the following Step.
func (m *Machine) doBlockIO(si *stepInfo, device uint16, in bool) trapCode {
	cw, ok := m.readWord(si.ea, false, false)
	if !ok {
		return trapPageFail
	}
	newCW, _, _ := word.Add36(cw, stackIncr)
	if !m.writeWord(si.ea, newCW) {
		return trapPageFail
	}
	addr := uint32(word.RightHalf(newCW))

	var data uint64
	op := iobus.DATAO
	if in {
		op = iobus.DATAI
	} else {
		v, ok := m.readWord(addr, false, false)
		if !ok {
			return trapPageFail
		}
		data = v
	}

	st, present := m.Bus.Dispatch(device, op, &data)
	if !present {
		return trapNone
	}
	if st == iobus.StatusError {
		m.stop = StopIODeviceError
		return trapNone
	}
	if in {
		if !m.writeWord(addr, data) {
			return trapPageFail
		}
	}

	m.pcInhibit = true
	if word.LeftHalf(newCW) == 0 {
		m.PC = (m.PC + 2) & RMASK
	}
	return trapNone
}
