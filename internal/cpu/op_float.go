package cpu

import "github.com/pdp10-clones/sims/internal/word"

// opFloat implements FAD/FSB/FMP/FDV (opcodes 0140-0177), per spec.md
// §4.1's floating-point format and §4.6's "140-177 Floating" bullet. Each
// operation spans 8 opcodes: the low 2 bits select basic/immediate/
// memory/both addressing (handled generically by setDyadicClass, so AR
// holds AC and BR holds E on entry) and bit 2 selects the rounded form.
func (m *Machine) opFloat(si *stepInfo) trapCode {
	family := (si.op - 0140) >> 3
	rounded := si.op&04 != 0

	a := word.UnpackFloat(m.AR)
	b := word.UnpackFloat(m.BR)

	var result word.Float
	var overflow, underflow, noDivide bool
	switch family {
	case 0: // FAD
		result, overflow, underflow = word.AddFloat(a, b)
	case 1: // FSB
		result, overflow, underflow = word.SubFloat(a, b)
	case 2: // FMP
		result, overflow, underflow = word.MulFloat(a, b)
	case 3: // FDV
		result, overflow, underflow, noDivide = word.DivFloat(a, b)
	}

	if noDivide {
		m.Flags |= FlagNODIV
		m.sacInh = true
		return trapNone
	}

	if rounded && result.Mant != 0 {
		result.Mant++
		if result.Mant&(1<<27) != 0 {
			result.Mant >>= 1
			result.Exp++
		}
	}

	m.AR = word.PackFloat(result)
	m.Flags &^= FlagFLTOVR | FlagFLTUND
	if overflow {
		m.Flags |= FlagFLTOVR
	}
	if underflow {
		m.Flags |= FlagFLTUND
	}
	return trapNone
}
