package cpu

import "github.com/pdp10-clones/sims/internal/word"

// opByte implements IBP/ILDB/LDB/IDPB/DPB (opcodes 0130-0137), per
// spec.md §4.6's "130 Byte operations" bullet. E always addresses a
// byte-pointer word in memory; the pointer's own Addr field is taken as
// a plain 18-bit word address (the double-indirect global byte-pointer
// form is not implemented). None of these
// carry operand-fetch flags: the handler reads and, for the incrementing
// forms, rewrites the pointer word itself.
func (m *Machine) opByte(si *stepInfo) trapCode {
	switch si.op - 0130 {
	case 1: // IBP: increment only, no AC involvement.
		return m.byteIncrement(si, false, false)
	case 2: // ILDB: increment, then load the new byte into AC.
		return m.byteIncrement(si, true, false)
	case 3: // LDB: load the currently pointed-to byte into AC, no increment.
		return m.byteLoadStore(si, true, false)
	case 4: // IDPB: increment, then deposit AC's low bits into the new byte.
		return m.byteIncrement(si, false, true)
	case 5: // DPB: deposit AC's low bits into the currently pointed-to byte.
		return m.byteLoadStore(si, false, true)
	default: // 0130, 0136, 0137 are unassigned.
		return trapUUO
	}
}

func (m *Machine) byteIncrement(si *stepInfo, doLoad, doDeposit bool) trapCode {
	ptrWord, ok := m.readWord(si.ea, false, false)
	if !ok {
		return trapPageFail
	}
	bp := word.UnpackBytePointer(ptrWord)
	next, _ := bp.Increment()
	addr := uint32(next.Addr) & RMASK

	if doDeposit {
		data, ok := m.readWord(addr, false, false)
		if !ok {
			return trapPageFail
		}
		if !m.writeWord(addr, next.DepositByte(data, m.regRead(si.ac))) {
			return trapPageFail
		}
	} else if doLoad {
		data, ok := m.readWord(addr, false, false)
		if !ok {
			return trapPageFail
		}
		m.regWrite(si.ac, next.ExtractByte(data))
	}

	if !m.writeWord(si.ea, next.Pack()) {
		return trapPageFail
	}
	return trapNone
}

func (m *Machine) byteLoadStore(si *stepInfo, doLoad, doDeposit bool) trapCode {
	ptrWord, ok := m.readWord(si.ea, false, false)
	if !ok {
		return trapPageFail
	}
	bp := word.UnpackBytePointer(ptrWord)
	addr := uint32(bp.Addr) & RMASK
	data, ok := m.readWord(addr, false, false)
	if !ok {
		return trapPageFail
	}

	if doLoad {
		m.regWrite(si.ac, bp.ExtractByte(data))
	} else if doDeposit {
		if !m.writeWord(addr, bp.DepositByte(data, m.regRead(si.ac))) {
			return trapPageFail
		}
	}
	return trapNone
}
