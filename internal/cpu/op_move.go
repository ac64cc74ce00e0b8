package cpu

import "github.com/pdp10-clones/sims/internal/word"

// opMove implements the MOVE/MOVS/MOVN/MOVM family (opcodes 0200-0217).
// The operand scaffold in Step has already placed the operand to
// transform into AR per setMoveClass's four addressing classes; this
// handler only applies the family's transform.
func (m *Machine) opMove(si *stepInfo) trapCode {
	family := (si.op - 0200) >> 2 // 0 MOVE, 1 MOVS, 2 MOVN, 3 MOVM

	switch family {
	case 0: // MOVE: identity.
	case 1: // MOVS: swap halves.
		m.AR = word.SwapHalves(m.AR)
	case 2: // MOVN: negate, per spec.md §8's round-trip law.
		wasMinMax := m.AR == word.SMASK
		m.AR = word.Negate36(m.AR)
		if wasMinMax {
			m.Flags |= FlagOVR | FlagCRY0
			m.Flags &^= FlagCRY1
		}
	case 3: // MOVM: absolute value.
		if m.AR&word.SMASK != 0 {
			wasMinMax := m.AR == word.SMASK
			m.AR = word.Negate36(m.AR)
			if wasMinMax {
				m.Flags |= FlagOVR | FlagCRY0
				m.Flags &^= FlagCRY1
			}
		}
	}
	return trapNone
}
