package cpu

import (
	"github.com/pdp10-clones/sims/internal/page"
	"github.com/pdp10-clones/sims/internal/word"
)

// opBranch implements EXCH/BLT/AOBJP/AOBJN/JRST/JFCL/XCT/MAP (opcodes
// 0250-0257), per spec.md §4.6's "250-257 Branch/control" bullet. None of
// these carry operand-fetch flags: each does its own register/memory
// access, since their control-flow (exchange, multi-word copy, PC
// redirection) doesn't fit the basic/immediate/memory/self class shape.
func (m *Machine) opBranch(si *stepInfo) trapCode {
	switch si.op - 0250 {
	case 0: // EXCH: swap AC and M[E].
		old := m.regRead(si.ac)
		v, ok := m.readWord(si.ea, false, false)
		if !ok {
			return trapPageFail
		}
		if !m.writeWord(si.ea, old) {
			return trapPageFail
		}
		m.regWrite(si.ac, v)

	case 1: // BLT: block transfer, AC holds src(left)/dst(right), E is the final dst.
		return m.doBLT(si)

	case 2: // AOBJP: add one to both halves of AC (one 36-bit add of 1,,1), jump if result >= 0.
		newAC, _, _ := word.Add36(m.regRead(si.ac), stackIncr)
		m.regWrite(si.ac, newAC)
		if newAC&word.SMASK == 0 {
			m.PC = si.ea & RMASK
			m.pcInhibit = true
		}

	case 3: // AOBJN: same increment, jump if result still negative.
		newAC, _, _ := word.Add36(m.regRead(si.ac), stackIncr)
		m.regWrite(si.ac, newAC)
		if newAC&word.SMASK != 0 {
			m.PC = si.ea & RMASK
			m.pcInhibit = true
		}

	case 4: // JRST: the AC field selects dismiss/halt sub-functions.
		if si.ac&04 != 0 {
			return trapHalt
		}
		if si.ac&010 != 0 {
			m.dismissInterrupt()
		}
		m.PC = si.ea & RMASK
		m.pcInhibit = true

	case 5: // JFCL: if any flag selected by the AC field is set, clear it and jump.
		mask := jfclMask(si.ac)
		if m.Flags&mask != 0 {
			m.Flags &^= mask
			m.PC = si.ea & RMASK
			m.pcInhibit = true
		}

	case 6: // XCT: execute the instruction at E in place of a normal fetch.
		if m.cfg.MaxXCT > 0 && m.xctDepth >= m.cfg.MaxXCT {
			m.stop = StopXCTLimit
			return trapNone
		}
		w, ok := m.readWord(si.ea, false, true)
		if !ok {
			return trapPageFail
		}
		inner := decodeInstruction(w)
		if !m.resolveEffectiveAddress(&inner) {
			return trapPageFail
		}
		m.xctDepth++
		m.executeOne(&inner, si.ea)
		m.xctDepth--
		// executeOne may have set m.pcInhibit (e.g. the executed instruction
		// was itself a jump); that decision propagates to XCT's own epilogue
		// unchanged, since XCT's PC should only advance when the executed
		// instruction would itself have advanced its own PC.

	case 7: // MAP: KI10-only; report whether E translates, AC <- status word.
		ki, ok := m.Pager.(*page.KI10Pager)
		if !ok {
			return trapUUO
		}
		_, valid, _ := ki.Translate(si.ea, false, m.userMode(), false)
		var result uint64
		if valid {
			result = 0400000
		}
		m.regWrite(si.ac, result)
	}
	return trapNone
}

// jfclMask maps a JFCL AC field (010 tests OV, 04 CRY0, 02 CRY1, 01 FOV)
// to the FlagBit combination it tests and clears.
func jfclMask(ac uint8) FlagBit {
	var mask FlagBit
	if ac&010 != 0 {
		mask |= FlagOVR
	}
	if ac&04 != 0 {
		mask |= FlagCRY0
	}
	if ac&02 != 0 {
		mask |= FlagCRY1
	}
	if ac&01 != 0 {
		mask |= FlagFLTOVR
	}
	return mask
}

// doBLT implements the block-transfer loop, polling for a pending
// interrupt before each word so a long transfer doesn't starve the PI
// system. AC is re-written every iteration, so if an interrupt is
// serviced mid-transfer (PC left pointing at this BLT instruction), the
// re-executed instruction resumes from AC's updated pointers, the same
// mechanism the real hardware uses.
func (m *Machine) doBLT(si *stepInfo) trapCode {
	ac := m.regRead(si.ac)
	src := uint32(word.LeftHalf(ac))
	dst := uint32(word.RightHalf(ac))
	final := si.ea & RMASK

	m.blt.active = true
	defer func() { m.blt.active = false }()

	for {
		if _, ok := m.Intr.Arbitrate(); ok {
			m.pcInhibit = true
			return trapNone
		}

		v, ok := m.readWord(src, false, false)
		if !ok {
			return trapPageFail
		}
		if !m.writeWord(dst, v) {
			return trapPageFail
		}

		done := dst == final
		src = (src + 1) & RMASK
		dst = (dst + 1) & RMASK
		m.blt.ac = si.ac
		m.blt.srcLeft = src
		m.blt.dstRight = dst
		m.regWrite(si.ac, word.MakeWord(uint64(src), uint64(dst)))
		if done {
			return trapNone
		}
	}
}
