package cpu

import "github.com/pdp10-clones/sims/internal/word"

// testHalves/testMods are indexed by (op-0600)>>2, the 16-family grouping
// of the TRN/TRZ/TRC/TRO/TLN/.../TSO mnemonics: half selects which bits of
// E become the mask (0 E in the right half, 1 E moved into the left half,
// 2 direct/whole-word, 3 swapped whole-word), mod selects what happens to AC's masked bits (0 none, 1
// zero, 2 complement, 3 set).
var testHalves = [16]int{0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3}
var testMods = [16]int{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}

// opTest implements the sixteen test-and-modify mnemonics in their four
// skip-condition forms (opcodes 0600-0677), per spec.md §4.6's "600-677
// Test" bullet. AR holds AC and BR holds E, per the generic FIMM|FAC
// scaffold; the low 2 bits of the opcode select the skip condition
// applied to the masked bits read from AC before any modification.
func (m *Machine) opTest(si *stepInfo) trapCode {
	family := (si.op - 0600) >> 2
	skipCond := si.op & 03

	var mask uint64
	switch testHalves[family] {
	case 0: // R: right half of E.
		mask = m.BR & word.RMASK
	case 1: // L: E moved into the left half.
		mask = (m.BR & word.RMASK) << 18
	case 2: // D: whole word of E, direct.
		mask = m.BR & word.FMASK
	case 3: // S: whole word of E, swapped.
		mask = word.SwapHalves(m.BR) & word.FMASK
	}

	testVal := m.AR & mask

	switch testMods[family] {
	case 0: // N: no modification.
	case 1: // Z: clear the masked bits.
		m.AR &^= mask
	case 2: // C: complement the masked bits.
		m.AR ^= mask
	case 3: // O: set the masked bits.
		m.AR |= mask
	}

	var skip bool
	switch skipCond {
	case 0: // never
		skip = false
	case 1: // skip if the masked bits were all zero
		skip = testVal == 0
	case 2: // always
		skip = true
	case 3: // skip if any masked bit was set
		skip = testVal != 0
	}
	if skip {
		m.PC = (m.PC + 2) & RMASK
		m.pcInhibit = true
	}
	return trapNone
}
