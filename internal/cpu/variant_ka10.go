//go:build !ki10

package cpu

import (
	"github.com/pdp10-clones/sims/internal/memory"
	"github.com/pdp10-clones/sims/internal/page"
)

// VariantName identifies which PDP-10 model this build emulates, per
// spec.md §9's "build-time configuration, not runtime branching" note.
const VariantName = "KA10"

// DefaultMaxMemWords is the largest physical address space this variant
// supports (spec.md §6: "KA: 16K-256K" in 2^18 words).
const DefaultMaxMemWords = memory.MaxKA10Words

func newPager(cfg Config) page.Translator {
	return &page.KA10Protection{TwoSegment: cfg.TwoSegment}
}

// fmIndex on the KA10 addresses fast memory directly by the low 4 bits;
// there is only one 16-register block.
func (m *Machine) fmIndex(ac uint8) int {
	return int(ac & 017)
}

// uuoVectorAddr: the KA10 has a single fixed UUO vector at location 40.
func (m *Machine) uuoVectorAddr() uint32 {
	return 040
}
