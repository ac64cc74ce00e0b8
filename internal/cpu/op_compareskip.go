package cpu

import "github.com/pdp10-clones/sims/internal/word"

// condTest evaluates one of the eight PDP-10 jump/skip conditions (the
// opcode's low 3 bits) against a signed value, per spec.md §4.6's
// "300-377 Compare/skip/jump" bullet.
func condTest(cond int, v int64) bool {
	switch cond {
	case 0: // never
		return false
	case 1: // L
		return v < 0
	case 2: // E
		return v == 0
	case 3: // LE
		return v <= 0
	case 4: // A: always
		return true
	case 5: // GE
		return v >= 0
	case 6: // N
		return v != 0
	case 7: // G
		return v > 0
	}
	return false
}

// opCompareSkip implements CAI/CAM/JUMP/SKIP/AOJ/AOS/SOJ/SOS (opcodes
// 0300-0377): eight families of eight condition codes each. None carry
// operand-fetch flags, since whether E is fetched as memory or used as an
// immediate (and whether a skip or a jump results) varies per family.
func (m *Machine) opCompareSkip(si *stepInfo) trapCode {
	family := (si.op - 0300) >> 3
	cond := int(si.op & 07)

	skip := func() {
		m.PC = (m.PC + 2) & RMASK
		m.pcInhibit = true
	}
	jump := func() {
		m.PC = si.ea & RMASK
		m.pcInhibit = true
	}

	switch family {
	case 0: // CAI: compare AC to immediate E.
		diff, _, _ := word.Sub36(m.regRead(si.ac), uint64(si.ea))
		if condTest(cond, int64(word.Smear(diff))) {
			skip()
		}

	case 1: // CAM: compare AC to M[E].
		e, ok := m.readWord(si.ea, false, false)
		if !ok {
			return trapPageFail
		}
		diff, _, _ := word.Sub36(m.regRead(si.ac), e)
		if condTest(cond, int64(word.Smear(diff))) {
			skip()
		}

	case 2: // JUMP: test AC, jump to E.
		if condTest(cond, int64(word.Smear(m.regRead(si.ac)))) {
			jump()
		}

	case 3: // SKIP: AC <- M[E] (if ac != 0); test M[E], skip.
		e, ok := m.readWord(si.ea, false, false)
		if !ok {
			return trapPageFail
		}
		if si.ac != 0 {
			m.regWrite(si.ac, e)
		}
		if condTest(cond, int64(word.Smear(e))) {
			skip()
		}

	case 4: // AOJ: AC <- AC+1; test new AC; jump.
		newAC, _, _ := word.Add36(m.regRead(si.ac), 1)
		m.regWrite(si.ac, newAC)
		if condTest(cond, int64(word.Smear(newAC))) {
			jump()
		}

	case 5: // AOS: M[E] <- M[E]+1; AC <- new value (if ac != 0); test; skip.
		e, ok := m.readWord(si.ea, false, false)
		if !ok {
			return trapPageFail
		}
		newV, _, _ := word.Add36(e, 1)
		if !m.writeWord(si.ea, newV) {
			return trapPageFail
		}
		if si.ac != 0 {
			m.regWrite(si.ac, newV)
		}
		if condTest(cond, int64(word.Smear(newV))) {
			skip()
		}

	case 6: // SOJ: AC <- AC-1; test new AC; jump.
		newAC, _, _ := word.Sub36(m.regRead(si.ac), 1)
		m.regWrite(si.ac, newAC)
		if condTest(cond, int64(word.Smear(newAC))) {
			jump()
		}

	case 7: // SOS: M[E] <- M[E]-1; AC <- new value (if ac != 0); test; skip.
		e, ok := m.readWord(si.ea, false, false)
		if !ok {
			return trapPageFail
		}
		newV, _, _ := word.Sub36(e, 1)
		if !m.writeWord(si.ea, newV) {
			return trapPageFail
		}
		if si.ac != 0 {
			m.regWrite(si.ac, newV)
		}
		if condTest(cond, int64(word.Smear(newV))) {
			skip()
		}
	}
	return trapNone
}
