//go:build ki10

package cpu

import (
	"github.com/pdp10-clones/sims/internal/memory"
	"github.com/pdp10-clones/sims/internal/page"
)

// VariantName identifies which PDP-10 model this build emulates.
const VariantName = "KI10"

// DefaultMaxMemWords is the largest physical address space this variant
// supports (spec.md §6: "KI: 16K-2048K" in 2^20 words).
const DefaultMaxMemWords = memory.MaxKI10Words

func newPager(cfg Config) page.Translator {
	return &page.KI10Pager{}
}

// fmIndex on the KI10 selects one of four 16-register fast-memory blocks
// via fm_sel, per spec.md §4.3, applied only outside user mode (the
// user's own block is always block 0). FMSel holds the block already
// positioned in bits 4-5 (0, 020, 040 or 060), as BusDATAO stores it.
func (m *Machine) fmIndex(ac uint8) int {
	if ki, ok := m.Pager.(*page.KI10Pager); ok && !m.userMode() && ki.FMSel != 0 {
		return int(ki.FMSel) | int(ac&017)
	}
	return int(ac & 017)
}

// uuoVectorAddr: the KI10 vectors UUOs through the user page table's base
// rather than a fixed low-memory location, per spec.md §4.7.
func (m *Machine) uuoVectorAddr() uint32 {
	if ki, ok := m.Pager.(*page.KI10Pager); ok {
		return ki.UBPtr | 0424
	}
	return 040
}
