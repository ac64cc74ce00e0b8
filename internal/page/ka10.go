package page

// KA10Protection implements the two-segment base/limit check of spec.md
// §4.4's KA10 paragraph. Segment boundaries and relocations are expressed
// in 1024-word (2^10) blocks, matching the original Pl/Ph/Rl/Rh encoding.
type KA10Protection struct {
	Pl, Ph uint32 // low/high segment limit, in 1K blocks
	Rl, Rh uint32 // low/high segment relocation, in 1K blocks
	Pflag  bool   // write-protect the high segment

	TwoSegment bool // one-segment vs two-segment addressing mode
}

const (
	ka10HighBit  uint32 = 0400000 // bit 0 of an 18-bit user virtual address
	ka10SegAlign uint32 = 01777   // low 10 bits: offset within a 1K block
)

// Enabled is true only in user mode: the KA10 never checks executive-mode
// references, per spec.md §4.4 "Executive mode is unchecked."
func (p *KA10Protection) Enabled(userMode bool) bool {
	return userMode
}

// Translate implements spec.md §4.4's KA10 rule verbatim: satisfy either
// the low-segment bound (relocated by Rl) or, in two-segment mode with the
// high-segment bit set and the access respecting Pflag, the high-segment
// bound (relocated by Rh). Any other case raises memory-protect.
func (p *KA10Protection) Translate(addr uint32, write, userMode, _ bool) (phys uint32, ok bool, fail FaultData) {
	if !userMode {
		return addr, true, FaultData{}
	}

	highSeg := addr&ka10HighBit != 0
	if !highSeg {
		limit := (p.Pl << 10) | ka10SegAlign
		if addr <= limit {
			return addr + (p.Rl << 10), true, FaultData{}
		}
		return 0, false, FaultData{User: true, Write: write}
	}

	offset := addr &^ ka10HighBit
	if p.TwoSegment && !(write && p.Pflag) {
		limit := (p.Ph << 10) | ka10SegAlign
		if offset <= limit {
			return offset + (p.Rh << 10), true, FaultData{}
		}
	}
	return 0, false, FaultData{User: true, Write: write}
}

// BusCONI reports the protection-mode flags: bit 0 is Pflag (high segment
// write-protected), bit 1 is TwoSegment. Grounded on dev_pag's CONI shape,
// simplified since the KA10's own protection-register format is not
// settled by a single public reference the way the KI10's dev_pag is.
func (p *KA10Protection) BusCONI(word *uint64) {
	*word = 0
	if p.Pflag {
		*word |= 1
	}
	if p.TwoSegment {
		*word |= 2
	}
}

// BusCONO sets Pflag and TwoSegment from the low two bits.
func (p *KA10Protection) BusCONO(word uint64) {
	p.Pflag = word&1 != 0
	p.TwoSegment = word&2 != 0
}

// BusDATAO loads one segment's limit/relocation pair per access: bit 0
// selects low segment (Pl/Rl) vs high segment (Ph/Rh), mirroring
// KI10Pager.BusDATAO's low/high marker-bit convention for symmetry between
// the two variants' bus adapters.
func (p *KA10Protection) BusDATAO(word uint64) {
	limit := uint32(word>>1) & ka10SegAlign
	reloc := uint32(word>>18) & ka10SegAlign
	if word&1 != 0 {
		p.Pl, p.Rl = limit, reloc
	} else {
		p.Ph, p.Rh = limit, reloc
	}
}

// BusDATAI reads back the low segment's limit/relocation pair.
func (p *KA10Protection) BusDATAI(word *uint64) {
	*word = (uint64(p.Rl) << 18) | (uint64(p.Pl) << 1) | 1
}
