package cpu

import (
	"math/big"

	"github.com/pdp10-clones/sims/internal/word"
)

// combined72 joins a register pair into a 72-bit value, applying two's
// complement sign adjustment when negative is true (used by ASHC, whose
// shift is arithmetic; ROTC and LSHC treat the pair as unsigned bits).
func combined72(hi, lo uint64, negative bool) *big.Int {
	v := new(big.Int).Lsh(big.NewInt(int64(hi&word.FMASK)), 36)
	v.Or(v, big.NewInt(int64(lo&word.FMASK)))
	if negative {
		full := new(big.Int).Lsh(big.NewInt(1), 72)
		v.Sub(v, full)
	}
	return v
}

// shiftCount sign-extends an 18-bit effective address into a shift count:
// positive shifts left, negative shifts right, per spec.md §4.6's
// "240-247 Shift/rotate" bullet. These instructions take their count
// directly from E rather than from a fetched memory word, so they carry
// no operand-fetch flags and do all register access themselves.
func shiftCount(ea uint32) int {
	if ea&0400000 != 0 {
		return int(ea) - (1 << 18)
	}
	return int(ea)
}

// opShift implements ASH/ROT/LSH/JFFO/ASHC/ROTC/LSHC (opcodes 0240-0247).
func (m *Machine) opShift(si *stepInfo) trapCode {
	family := si.op - 0240
	count := shiftCount(si.ea)

	switch family {
	case 0: // ASH: arithmetic shift of AC alone.
		ac := m.regRead(si.ac)
		signed := int64(word.Smear(ac))
		var result int64
		overflow := false
		switch {
		case count == 0:
			result = signed
		case count > 0:
			if count >= 35 {
				if signed == 0 {
					result = 0
				} else {
					result = 0
					overflow = true
				}
			} else {
				result = signed << uint(count)
				if (result >> uint(count)) != signed {
					overflow = true
				}
			}
		default:
			n := -count
			if n >= 36 {
				n = 35
			}
			result = signed >> uint(n)
		}
		m.regWrite(si.ac, uint64(result)&word.FMASK)
		if overflow {
			m.Flags |= FlagOVR | FlagCRY0
		}

	case 1: // ROT: rotate AC's 36 bits.
		ac := m.regRead(si.ac) & word.FMASK
		n := ((count % 36) + 36) % 36
		rotated := ((ac << uint(n)) | (ac >> uint(36-n))) & word.FMASK
		if n == 0 {
			rotated = ac
		}
		m.regWrite(si.ac, rotated)

	case 2: // LSH: logical shift of AC alone, zero-fill, no overflow.
		ac := m.regRead(si.ac) & word.FMASK
		var result uint64
		switch {
		case count == 0:
			result = ac
		case count > 0:
			if count >= 36 {
				result = 0
			} else {
				result = (ac << uint(count)) & word.FMASK
			}
		default:
			n := -count
			if n >= 36 {
				result = 0
			} else {
				result = ac >> uint(n)
			}
		}
		m.regWrite(si.ac, result)

	case 3: // JFFO: AC+1 <- bit position of AC's first 1 bit (0 if AC is 0); jump to E if AC != 0.
		ac := m.regRead(si.ac) & word.FMASK
		if ac == 0 {
			m.regWrite((si.ac+1)&017, 0)
		} else {
			m.regWrite((si.ac+1)&017, uint64(word.LeadingZeros36(ac)))
			m.PC = si.ea & RMASK
			m.pcInhibit = true
		}

	case 4: // ASHC: arithmetic shift of the double word AC:AC+1.
		hi := m.regRead(si.ac) & word.FMASK
		lo := m.regRead((si.ac+1)&017) & word.FMASK
		negative := hi&word.SMASK != 0
		v := combined72(hi, lo, negative)
		var shifted *big.Int
		switch {
		case count == 0:
			shifted = v
		case count > 0:
			n := count
			if n > 71 {
				n = 71
			}
			shifted = new(big.Int).Lsh(v, uint(n))
		default:
			n := -count
			if n > 71 {
				n = 71
			}
			shifted = new(big.Int).Rsh(v, uint(n))
		}
		hiw, low := splitSigned72(shifted)
		m.regWrite(si.ac, hiw)
		m.regWrite((si.ac+1)&017, low)

	case 5: // ROTC: rotate the double word AC:AC+1, treated as an unsigned 72-bit pattern.
		hi := m.regRead(si.ac) & word.FMASK
		lo := m.regRead((si.ac+1)&017) & word.FMASK
		v := combined72(hi, lo, false)
		n := ((count % 72) + 72) % 72
		var rotated *big.Int
		if n == 0 {
			rotated = v
		} else {
			left := new(big.Int).Lsh(v, uint(n))
			right := new(big.Int).Rsh(v, uint(72-n))
			rotated = new(big.Int).Or(left, right)
		}
		hiw, low := splitSigned72(rotated)
		m.regWrite(si.ac, hiw)
		m.regWrite((si.ac+1)&017, low)

	case 6: // LSHC: logical shift of the double word AC:AC+1, zero-fill.
		hi := m.regRead(si.ac) & word.FMASK
		lo := m.regRead((si.ac+1)&017) & word.FMASK
		v := combined72(hi, lo, false)
		var shifted *big.Int
		switch {
		case count == 0:
			shifted = v
		case count > 0:
			shifted = new(big.Int).Lsh(v, uint(count))
		default:
			n := -count
			if n > 72 {
				n = 72
			}
			shifted = new(big.Int).Rsh(v, uint(n))
		}
		hiw, low := splitSigned72(shifted)
		m.regWrite(si.ac, hiw)
		m.regWrite((si.ac+1)&017, low)

	default: // 0247 is unassigned on real hardware; treat as a UUO trap.
		return trapUUO
	}
	return trapNone
}
