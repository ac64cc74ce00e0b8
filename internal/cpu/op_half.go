package cpu

import "github.com/pdp10-clones/sims/internal/word"

type halfShape struct {
	destLeft bool // true: result's copied half lands in the left half
	srcLeft  bool // true: the copied half comes from the left half of its source
}

// halfShapes is indexed by (op-0500)>>2, matching the well-known HLL(500)/
// HRL(504)/HLLZ(510).../HLRE(574) opcode table.
var halfShapes = [16]halfShape{
	{true, true}, {true, false}, // HLL, HRL
	{true, true}, {true, false}, // HLLZ, HRLZ
	{true, true}, {true, false}, // HLLO, HRLO
	{true, true}, {true, false}, // HLLE, HRLE
	{false, false}, {false, true}, // HRR, HLR
	{false, false}, {false, true}, // HRRZ, HLRZ
	{false, false}, {false, true}, // HRRO, HLRO
	{false, false}, {false, true}, // HRRE, HLRE
}

// halfSuffix: 0 keep, 1 zero, 2 one, 3 extend-sign.
var halfSuffix = [16]int{0, 0, 1, 1, 2, 2, 3, 3, 0, 0, 1, 1, 2, 2, 3, 3}

// opHalf implements the sixteen half-word move combinations (opcodes
// 0500-0577), per spec.md §4.6's "500-577 Half-word moves" bullet.
func (m *Machine) opHalf(si *stepInfo) trapCode {
	idx := (si.op - 0500) >> 2
	shape := halfShapes[idx]
	suffix := halfSuffix[idx]

	class := si.op & 3
	var preserved, copied uint64
	switch class {
	case 0, 1: // basic, immediate: dest is AC (AR), source is E (BR).
		preserved, copied = m.AR, m.BR
	case 2: // memory: dest is E (BR, the old memory word), source is AC (AR).
		preserved, copied = m.BR, m.AR
	default: // self: dest and source are both E (AR).
		preserved, copied = m.AR, m.AR
	}

	var copiedHalf uint64
	if shape.srcLeft {
		copiedHalf = word.LeftHalf(copied)
	} else {
		copiedHalf = word.RightHalf(copied)
	}

	var otherHalf uint64
	switch suffix {
	case 0: // keep
		if shape.destLeft {
			otherHalf = word.RightHalf(preserved)
		} else {
			otherHalf = word.LeftHalf(preserved)
		}
	case 1: // zero
		otherHalf = 0
	case 2: // one
		otherHalf = 0777777
	case 3: // extend sign of the copied half
		if copiedHalf&0400000 != 0 {
			otherHalf = 0777777
		} else {
			otherHalf = 0
		}
	}

	if shape.destLeft {
		m.AR = word.MakeWord(copiedHalf, otherHalf)
	} else {
		m.AR = word.MakeWord(otherHalf, copiedHalf)
	}
	return trapNone
}
