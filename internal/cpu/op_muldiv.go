package cpu

import (
	"math/big"

	"github.com/pdp10-clones/sims/internal/word"
)

// The 72-bit products and dividends here exceed a host int64, so this
// handler borrows math/big for the intermediate arithmetic rather than
// hand-rolling 128-bit multiply/divide; no example in the pack does
// extended-precision integer math, so there is nothing in the corpus to
// ground a hand-rolled alternative on.

// wordToSigned widens a 36-bit word to its signed value as a big.Int.
func wordToSigned(w uint64) *big.Int {
	return big.NewInt(int64(word.Smear(w)))
}

// toWord36 masks a big.Int result down to its low 36 bits.
func toWord36(v *big.Int) uint64 {
	var t big.Int
	t.And(v, big.NewInt(int64(word.FMASK)))
	return t.Uint64()
}

var (
	minSingle = big.NewInt(-(1 << 35))
	maxSingle = big.NewInt((1 << 35) - 1)
)

// fitSigned36 reports whether v fits in a single signed 36-bit word,
// returning its low-36-bit encoding either way.
func fitSigned36(v *big.Int) (uint64, bool) {
	ok := v.Cmp(minSingle) >= 0 && v.Cmp(maxSingle) <= 0
	return toWord36(v), ok
}

// splitSigned72 splits a 72-bit two's-complement value into its high and
// low 36-bit words.
func splitSigned72(v *big.Int) (hi, lo uint64) {
	var hiB big.Int
	hiB.Rsh(v, 36)
	return toWord36(&hiB), toWord36(v)
}

// opMulDiv implements IMUL/MUL/IDIV/DIV (opcodes 0220-0237), per spec.md
// §4.6's "220-237 Multiply/divide" bullet. After the operand scaffold, AR
// holds the accumulator (or its high half for DIV's dividend) and BR the
// memory/immediate operand; MQ holds AC+1 on entry for DIV and receives
// the second half of the result for MUL/IDIV/DIV.
func (m *Machine) opMulDiv(si *stepInfo) trapCode {
	family := (si.op - 0220) >> 2 // 0 IMUL, 1 MUL, 2 IDIV, 3 DIV
	ac := wordToSigned(m.AR)
	e := wordToSigned(m.BR)

	switch family {
	case 0: // IMUL: single-word product, AC <- AC*E, traps on overflow.
		prod := new(big.Int).Mul(ac, e)
		result, ok := fitSigned36(prod)
		m.AR = result
		if !ok {
			m.Flags |= FlagOVR | FlagCRY0
		}

	case 1: // MUL: double-word product, AC:AC+1 <- AC*E.
		prod := new(big.Int).Mul(ac, e)
		hi, lo := splitSigned72(prod)
		m.AR = hi
		m.MQ = lo

	case 2: // IDIV: single-word dividend, AC <- quotient, AC+1 <- remainder.
		if e.Sign() == 0 {
			m.Flags |= FlagOVR | FlagNODIV
			m.sacInh = true
			return trapNone
		}
		q := new(big.Int).Quo(ac, e)
		r := new(big.Int).Rem(ac, e)
		m.AR = toWord36(q)
		m.MQ = toWord36(r)

	case 3: // DIV: double-word dividend AC:AC+1 (AC+1 preloaded into MQ by FAC2).
		dividend := new(big.Int).Lsh(big.NewInt(int64(m.AR&word.FMASK)), 36)
		dividend.Or(dividend, big.NewInt(int64(m.MQ&word.FMASK)))
		if m.AR&word.SMASK != 0 {
			full := new(big.Int).Lsh(big.NewInt(1), 72)
			dividend.Sub(dividend, full)
		}
		if e.Sign() == 0 {
			m.Flags |= FlagOVR | FlagNODIV
			m.sacInh = true
			return trapNone
		}
		q := new(big.Int).Quo(dividend, e)
		r := new(big.Int).Rem(dividend, e)
		qw, ok := fitSigned36(q)
		if !ok {
			m.Flags |= FlagOVR | FlagNODIV
			m.sacInh = true
			return trapNone
		}
		m.AR = qw
		m.MQ = toWord36(r)
	}
	return trapNone
}
