package cpu

import "github.com/pdp10-clones/sims/internal/word"

// opAddSub implements ADD/SUB (opcodes 0270-0277), grounded on spec.md
// §4.1's carry/overflow definitions. After the operand scaffold, AR holds
// the accumulator value and BR the memory/immediate operand (FAC swaps
// them in that order).
func (m *Machine) opAddSub(si *stepInfo) trapCode {
	isSub := (si.op-0270)>>2 == 1

	var sum uint64
	var c0, c1 bool
	if isSub {
		sum, c0, c1 = word.Sub36(m.AR, m.BR)
	} else {
		sum, c0, c1 = word.Add36(m.AR, m.BR)
	}
	m.AR = sum

	m.Flags &^= FlagOVR | FlagCRY0 | FlagCRY1
	if c0 {
		m.Flags |= FlagCRY0
	}
	if c1 {
		m.Flags |= FlagCRY1
	}
	if word.Overflow36(c0, c1) {
		m.Flags |= FlagOVR
	}
	return trapNone
}
