package cpu

import "github.com/pdp10-clones/sims/internal/word"

// stackIncr is the "1,,1" constant PUSH/POP family instructions add to or
// subtract from the AC stack pointer: both halves move together, so a
// right-half overflow carries into the count half exactly as on the real
// hardware.
var stackIncr = word.MakeWord(1, 1)

// opStack implements PUSHJ/PUSH/POP/POPJ/JSR/JSP/JSA/JRA (opcodes
// 0260-0267), per spec.md §4.6's "260-267 Stack/subroutine" bullet. None
// carry operand-fetch flags: each manages its own AC-pointer or PC
// save/restore sequencing.
func (m *Machine) opStack(si *stepInfo) trapCode {
	switch si.op - 0260 {
	case 0: // PUSHJ: push a return address, jump to E.
		newAC, _, _ := word.Add36(m.regRead(si.ac), stackIncr)
		m.regWrite(si.ac, newAC)
		dst := uint32(word.RightHalf(newAC))
		if !m.writeWord(dst, uint64((m.PC+1)&RMASK)) {
			return trapPageFail
		}
		m.PC = si.ea & RMASK
		m.pcInhibit = true

	case 1: // PUSH: push M[E].
		newAC, _, _ := word.Add36(m.regRead(si.ac), stackIncr)
		m.regWrite(si.ac, newAC)
		dst := uint32(word.RightHalf(newAC))
		v, ok := m.readWord(si.ea, false, false)
		if !ok {
			return trapPageFail
		}
		if !m.writeWord(dst, v) {
			return trapPageFail
		}

	case 2: // POP: store the stack top into M[E], then pop.
		ac := m.regRead(si.ac)
		src := uint32(word.RightHalf(ac))
		v, ok := m.readWord(src, false, false)
		if !ok {
			return trapPageFail
		}
		if !m.writeWord(si.ea, v) {
			return trapPageFail
		}
		newAC, _, _ := word.Sub36(ac, stackIncr)
		m.regWrite(si.ac, newAC)

	case 3: // POPJ: pop and jump to the popped value.
		ac := m.regRead(si.ac)
		src := uint32(word.RightHalf(ac))
		v, ok := m.readWord(src, false, false)
		if !ok {
			return trapPageFail
		}
		newAC, _, _ := word.Sub36(ac, stackIncr)
		m.regWrite(si.ac, newAC)
		m.PC = uint32(v) & RMASK
		m.pcInhibit = true

	case 4: // JSR: M[E] <- flags,,PC+1; PC <- E+1.
		saved := word.MakeWord(uint64(m.Flags)&word.RMASK, uint64((m.PC+1)&RMASK))
		if !m.writeWord(si.ea, saved) {
			return trapPageFail
		}
		m.PC = (si.ea + 1) & RMASK
		m.pcInhibit = true

	case 5: // JSP: AC <- flags,,PC+1; PC <- E.
		m.regWrite(si.ac, word.MakeWord(uint64(m.Flags)&word.RMASK, uint64((m.PC+1)&RMASK)))
		m.PC = si.ea & RMASK
		m.pcInhibit = true

	case 6: // JSA: M[E] <- AC; AC <- E,,PC+1; PC <- E+1.
		old := m.regRead(si.ac)
		if !m.writeWord(si.ea, old) {
			return trapPageFail
		}
		m.regWrite(si.ac, word.MakeWord(uint64(si.ea)&word.RMASK, uint64((m.PC+1)&RMASK)))
		m.PC = (si.ea + 1) & RMASK
		m.pcInhibit = true

	case 7: // JRA: AC <- M[left half of AC]; PC <- E.
		src := uint32(word.LeftHalf(m.regRead(si.ac))) & RMASK
		v, ok := m.readWord(src, false, false)
		if !ok {
			return trapPageFail
		}
		m.regWrite(si.ac, v)
		m.PC = si.ea & RMASK
		m.pcInhibit = true
	}
	return trapNone
}
