package cpu

import "github.com/pdp10-clones/sims/internal/word"

// opBool implements the sixteen two-operand Boolean functions (opcodes
// 0400-0477), grounded on spec.md §4.6's "400-477 Boolean" bullet. AR
// holds the accumulator, BR the memory/immediate operand, per
// setDyadicClass.
func (m *Machine) opBool(si *stepInfo) trapCode {
	fn := (si.op - 0400) >> 2
	ac, e := m.AR, m.BR

	var r uint64
	switch fn {
	case 0: // SETZ
		r = 0
	case 1: // AND
		r = ac & e
	case 2: // ANDCA
		r = ^ac & e
	case 3: // SETM
		r = e
	case 4: // ANDCM
		r = ac &^ e
	case 5: // SETA
		r = ac
	case 6: // XOR
		r = ac ^ e
	case 7: // IOR
		r = ac | e
	case 8: // ANDCB
		r = ^ac &^ e
	case 9: // EQV
		r = ^(ac ^ e)
	case 10: // SETCA
		r = ^ac
	case 11: // ORCA
		r = ^ac | e
	case 12: // SETCM
		r = ^e
	case 13: // ORCM
		r = ac | ^e
	case 14: // ORCB
		r = ^ac | ^e
	case 15: // SETO
		r = word.FMASK
	}
	m.AR = r & word.FMASK
	return trapNone
}
